package handler

import (
	"errors"
	"net/http"

	"spice-market/internal/core/logger"
	"spice-market/internal/features/orders/domain"
	"spice-market/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderSessionID carries the shopping session identifier.
const HeaderSessionID = "X-Session-ID"

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
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

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// ListOrders godoc
// @Summary List orders for the session
// @Tags orders
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {array} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	session := c.Get(HeaderSessionID)
	if session == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Session ID is required",
			RayID:   rayID(c),
		})
	}

	orders, err := h.service.ListBySession(c.UserContext(), session)
	if err != nil {
		logger.Get().Error("Failed to list orders",
			zap.String("session_id", session),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(orders)
}

// GetOrder godoc
// @Summary Get an order by ID
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeOrderError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// GetStatus godoc
// @Summary Poll the delivery status of an order
// @Description Returns the current status and the 1-based progress step.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} service.OrderStatusView
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id}/status [get]
func (h *OrderHandler) GetStatus(c *fiber.Ctx) error {
	view, err := h.service.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeOrderError(c, err)
	}

	return c.Status(http.StatusOK).JSON(view)
}

// AdvanceOrder godoc
// @Summary Advance an order to its next delivery status
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/advance [post]
func (h *OrderHandler) AdvanceOrder(c *fiber.Ctx) error {
	order, err := h.service.Advance(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeOrderError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// CancelOrder godoc
// @Summary Cancel an order
// @Description Cancellation is only possible before the order is dispatched.
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.service.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.writeOrderError(c, err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// writeOrderError maps order errors to HTTP statuses.
func (h *OrderHandler) writeOrderError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	msg := "Internal Server Error"

	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		status = http.StatusNotFound
		msg = "Order not found"
	case errors.Is(err, domain.ErrTerminalState):
		status = http.StatusConflict
		msg = "Order is in a terminal state"
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
		msg = "Order can no longer be cancelled"
	default:
		logger.Get().Error("Order operation failed",
			zap.String("order_id", c.Params("id")),
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}
