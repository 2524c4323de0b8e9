package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/streadway/amqp"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/services"
	"tokostore/pkg/logger"
	"tokostore/pkg/rabbitmq"
)

// StockConsumer applies stock adjustments received from the broker.
type StockConsumer struct {
	service *services.ProductService
	log     *logger.Logger
}

// NewStockConsumer creates a new StockConsumer.
func NewStockConsumer(service *services.ProductService, log *logger.Logger) *StockConsumer {
	return &StockConsumer{
		service: service,
		log:     log.Named("stock_consumer"),
	}
}

// Handle decodes a JSON array of adjustments and applies it as one batch.
// Bad payloads and domain rejections are marked unprocessable so the broker
// drops them instead of redelivering.
func (s *StockConsumer) Handle(ctx context.Context, msg amqp.Delivery) error {
	var adjustments []models.QuantityAdjustment
	if err := json.Unmarshal(msg.Body, &adjustments); err != nil {
		return fmt.Errorf("%w: %v", rabbitmq.ErrUnprocessable, err)
	}
	if len(adjustments) == 0 {
		return fmt.Errorf("%w: no adjustments", rabbitmq.ErrUnprocessable)
	}

	products, err := s.service.UpdateStock(ctx, adjustments)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return fmt.Errorf("%w: %v", rabbitmq.ErrUnprocessable, appErr)
		}
		return err
	}

	s.log.Info("stock adjustments applied", "delivery_tag", msg.DeliveryTag, "products", len(products))
	return nil
}
