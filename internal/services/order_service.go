package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"
	"tokostore/pkg/logger"
)

// OrderCreatedRoutingKey is the routing key of the event published for new orders.
const OrderCreatedRoutingKey = "order.created"

// EventPublisher publishes a message to an exchange.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	publisher   EventPublisher // optional
	exchange    string
	log         *logger.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	publisher EventPublisher,
	exchange string,
	log *logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		exchange:    exchange,
		log:         log.Named("order_service"),
	}
}

// orderCreatedEvent is the body of the order.created message.
type orderCreatedEvent struct {
	OrderID    string             `json:"order_id"`
	CustomerID string             `json:"customer_id"`
	Status     string             `json:"status"`
	Total      decimal.Decimal    `json:"total"`
	Items      []models.OrderItem `json:"items"`
}

// CreateOrder prices the requested products, takes them out of stock and
// stores the order.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Products) == 0 {
		return nil, apperrors.New("An order needs at least one product", http.StatusBadRequest)
	}
	refs := make([]models.ProductRef, len(req.Products))
	for i, item := range req.Products {
		if item.Quantity <= 0 {
			return nil, apperrors.New(fmt.Sprintf("Quantity of product %s must be positive", item.ID), http.StatusBadRequest)
		}
		refs[i] = models.ProductRef{ID: item.ID}
	}

	found, err := s.productRepo.FindAllByID(ctx, refs)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.New("Could not find any products with the given ids", http.StatusBadRequest)
	}
	prices := make(map[string]decimal.Decimal, len(found))
	for _, p := range found {
		prices[p.ID] = p.Price
	}
	for _, item := range req.Products {
		if _, ok := prices[item.ID]; !ok {
			return nil, apperrors.New(fmt.Sprintf("Could not find product %s", item.ID), http.StatusBadRequest)
		}
	}

	if _, err := s.productRepo.UpdateQuantity(ctx, req.Products); err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID: req.CustomerID,
		Status:     models.OrderStatusPending,
		Total:      decimal.Zero,
	}
	for _, item := range req.Products {
		price := prices[item.ID]
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			Price:     price,
		})
		order.Total = order.Total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	// TODO: stock is already decremented here; restore it when the order insert fails.
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}
	s.log.Info("order created", "order_id", order.ID, "customer_id", order.CustomerID, "total", order.Total.String())

	s.publishOrderCreated(ctx, order)
	return order, nil
}

// GetOrder retrieves a single order by its ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		s.log.Debug("no publisher configured, skipping order event", "order_id", order.ID)
		return
	}
	body, err := json.Marshal(orderCreatedEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Total:      order.Total,
		Items:      order.Items,
	})
	if err != nil {
		s.log.Error("failed to marshal order event", "order_id", order.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, s.exchange, OrderCreatedRoutingKey, body); err != nil {
		s.log.Warn("failed to publish order created event", "order_id", order.ID, "error", err)
	}
}
