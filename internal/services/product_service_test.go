package services_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/services"
	"tokostore/pkg/logger"
)

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, logger.Nop())
	ctx := context.Background()

	req := models.CreateProductRequest{Name: "New Product", Price: decimal.NewFromInt(50), Quantity: 20}
	created := &models.Product{ID: "p-1", Name: req.Name, Price: req.Price, Quantity: req.Quantity}

	// Test successful creation
	mockRepo.On("FindByName", ctx, "New Product").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, req).Return(created, nil).Once()
	product, err := service.CreateProduct(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, created, product)
	mockRepo.AssertExpectations(t)

	// Test duplicate name
	mockRepo.On("FindByName", ctx, "New Product").Return(created, nil).Once()
	product, err = service.CreateProduct(ctx, req)
	assert.Nil(t, product)
	assert.Equal(t, http.StatusBadRequest, apperrors.StatusCode(err))
	assert.Contains(t, err.Error(), "already exists")
	mockRepo.AssertExpectations(t)

	// Test creation failure (e.g., database error)
	mockRepo.On("FindByName", ctx, "New Product").Return(nil, nil).Once()
	mockRepo.On("Create", ctx, req).Return(nil, fmt.Errorf("database error")).Once()
	_, err = service.CreateProduct(ctx, req)
	assert.ErrorContains(t, err, "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByName(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, logger.Nop())
	ctx := context.Background()

	expected := &models.Product{ID: "1", Name: "Product A", Price: decimal.NewFromInt(10), Quantity: 100}

	mockRepo.On("FindByName", ctx, "Product A").Return(expected, nil).Once()
	product, err := service.GetProductByName(ctx, "Product A")
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("FindByName", ctx, "Nope").Return(nil, nil).Once()
	product, err = service.GetProductByName(ctx, "Nope")
	assert.Nil(t, product)
	assert.True(t, apperrors.IsNotFound(err))
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductsByIDs(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, logger.Nop())
	ctx := context.Background()

	expected := []models.Product{{ID: "1", Name: "Product A"}}
	mockRepo.On("FindAllByID", ctx, []models.ProductRef{{ID: "1"}, {ID: "3"}}).Return(expected, nil).Once()

	products, err := service.GetProductsByIDs(ctx, []string{"1", "3"})
	assert.NoError(t, err)
	assert.Equal(t, expected, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, logger.Nop())
	ctx := context.Background()

	adjustments := []models.QuantityAdjustment{{ID: "1", Quantity: 3}}
	mockRepo.On("UpdateQuantity", ctx, adjustments).Return([]models.Product{{ID: "1", Quantity: 7}}, nil).Once()
	products, err := service.UpdateStock(ctx, adjustments)
	assert.NoError(t, err)
	assert.Equal(t, 7, products[0].Quantity)

	mockRepo.On("UpdateQuantity", mock.Anything, mock.Anything).Return(nil, apperrors.InsufficientStock("no")).Once()
	_, err = service.UpdateStock(ctx, adjustments)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	mockRepo.AssertExpectations(t)
}
