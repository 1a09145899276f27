package handler

import (
	"errors"
	"net/http"

	"spice-market/internal/core/logger"
	"spice-market/internal/features/cart/domain"
	"spice-market/internal/features/cart/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderSessionID carries the shopping session identifier.
const HeaderSessionID = "X-Session-ID"

// CartHandler handles HTTP requests related to the session cart.
type CartHandler struct {
	// service is the CartService instance.
	service *service.CartService
}

// NewCartHandler creates a new instance of CartHandler.
func NewCartHandler(s *service.CartService) *CartHandler {
	return &CartHandler{
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

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	// ProductID references a catalog product.
	ProductID string `json:"product_id"`
	// Quantity is the number of units to add. Defaults to 1 when omitted.
	Quantity int `json:"quantity"`
}

// SetQuantityRequest is the payload for overwriting a line quantity.
type SetQuantityRequest struct {
	// Quantity is the new line quantity (must be >= 1).
	Quantity int `json:"quantity"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

func sessionID(c *fiber.Ctx) string {
	return c.Get(HeaderSessionID)
}

// GetCart godoc
// @Summary Get the session cart
// @Description Returns the cart with lines priced from the catalog and the derived subtotal.
// @Tags cart
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.PricedCart
// @Failure 400 {object} ErrorResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	session := sessionID(c)
	if session == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID(c),
		})
	}

	priced, err := h.service.GetPricedCart(c.UserContext(), session)
	if err != nil {
		logger.Get().Error("Failed to price cart",
			zap.String("session_id", session),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(priced)
}

// AddItem godoc
// @Summary Add a product to the session cart
// @Description Adds the product, merging with an existing line for the same product.
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body AddItemRequest true "Product and quantity"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	session := sessionID(c)
	if session == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID(c),
		})
	}

	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}
	if req.ProductID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Product ID is required",
			RayID:   rayID(c),
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.service.AddItem(c.UserContext(), session, req.ProductID, req.Quantity)
	if err != nil {
		return h.writeCartError(c, session, err)
	}

	return c.Status(http.StatusOK).JSON(cart)
}

// SetQuantity godoc
// @Summary Overwrite the quantity of a cart line
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param productId path string true "Product ID"
// @Param request body SetQuantityRequest true "New quantity"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /cart/items/{productId} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	session := sessionID(c)
	if session == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID(c),
		})
	}

	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	cart, err := h.service.SetQuantity(c.UserContext(), session, c.Params("productId"), req.Quantity)
	if err != nil {
		return h.writeCartError(c, session, err)
	}

	return c.Status(http.StatusOK).JSON(cart)
}

// RemoveItem godoc
// @Summary Remove a cart line
// @Description Removing an absent line succeeds; the operation is idempotent.
// @Tags cart
// @Param X-Session-ID header string true "Session ID"
// @Param productId path string true "Product ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	session := sessionID(c)
	if session == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID(c),
		})
	}

	if _, err := h.service.RemoveItem(c.UserContext(), session, c.Params("productId")); err != nil {
		return h.writeCartError(c, session, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// ClearCart godoc
// @Summary Clear the session cart
// @Tags cart
// @Param X-Session-ID header string true "Session ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	session := sessionID(c)
	if session == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID(c),
		})
	}

	if err := h.service.Clear(c.UserContext(), session); err != nil {
		return h.writeCartError(c, session, err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// writeCartError maps cart domain errors to HTTP statuses.
func (h *CartHandler) writeCartError(c *fiber.Ctx, session string, err error) error {
	status := http.StatusInternalServerError
	msg := "Internal Server Error"

	switch {
	case errors.Is(err, domain.ErrUnknownProduct):
		status = http.StatusNotFound
		msg = "Unknown product"
	case errors.Is(err, domain.ErrLineNotFound):
		status = http.StatusNotFound
		msg = "Cart line not found"
	case errors.Is(err, domain.ErrUnavailable):
		status = http.StatusConflict
		msg = "Product is unavailable"
	case errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
		msg = "Quantity must be at least 1"
	default:
		logger.Get().Error("Cart operation failed",
			zap.String("session_id", session),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}
