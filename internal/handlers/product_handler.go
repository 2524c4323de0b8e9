package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tokostore/internal/models"
	"tokostore/internal/services"
	"tokostore/pkg/logger"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	log      *logger.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		log:      log.Named("product_handler"),
	}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleFindProductByName)
	productRoutes.Post("/lookup", h.HandleLookupProducts)
	productRoutes.Patch("/quantity", h.HandleUpdateQuantity)
}

type lookupRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type quantityUpdateRequest struct {
	Adjustments []models.QuantityAdjustment `validate:"required,min=1,dive"`
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	if req.Price.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fiber.Map{"CreateProductRequest.Price": "Field 'Price' must not be negative"},
		})
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleFindProductByName looks a product up by the name query parameter.
func (h *ProductHandler) HandleFindProductByName(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'name' is required",
		})
	}
	product, err := h.service.GetProductByName(c.UserContext(), name)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(product)
}

// HandleLookupProducts returns the known products among the given ids.
func (h *ProductHandler) HandleLookupProducts(c *fiber.Ctx) error {
	var req lookupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}
	products, err := h.service.GetProductsByIDs(c.UserContext(), req.IDs)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}

// HandleUpdateQuantity subtracts the given quantities from stock.
func (h *ProductHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var adjustments []models.QuantityAdjustment
	if err := c.BodyParser(&adjustments); err != nil {
		return respondBadBody(c, err)
	}
	if err := h.validate.Struct(quantityUpdateRequest{Adjustments: adjustments}); err != nil {
		return respondValidation(c, err)
	}
	products, err := h.service.UpdateStock(c.UserContext(), adjustments)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(products)
}
