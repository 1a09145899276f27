package handler

import (
	"errors"
	"net/http"

	"spice-market/internal/core/logger"
	"spice-market/internal/features/catalog/domain"
	"spice-market/internal/features/catalog/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CatalogHandler handles HTTP requests related to the product catalog.
type CatalogHandler struct {
	// service is the CatalogService instance.
	service *service.CatalogService
}

// NewCatalogHandler creates a new instance of CatalogHandler.
func NewCatalogHandler(s *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: s,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// ListProducts godoc
// @Summary List available products
// @Description Returns all products currently available for purchase, in catalog order.
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Product
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	products, err := h.service.ListAvailable(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to list products",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(products)
}

// GetProduct godoc
// @Summary Get a product by ID
// @Description Fetch a single product record.
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		rayID = "unknown"
	}

	id := c.Params("id")
	if id == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Product ID is required",
			RayID:   rayID,
		})
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Message: "Product not found",
				RayID:   rayID,
			})
		}

		logger.Get().Error("Failed to fetch product",
			zap.String("product_id", id),
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(product)
}
