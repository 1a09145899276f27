package handler

import (
	"errors"
	"net/http"

	"spice-market/internal/core/logger"
	"spice-market/internal/features/checkout/domain"
	"spice-market/internal/features/checkout/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderSessionID carries the shopping session identifier.
const HeaderSessionID = "X-Session-ID"

// CheckoutHandler handles HTTP requests for quoting and order placement.
type CheckoutHandler struct {
	// service is the CheckoutService instance.
	service *service.CheckoutService
}

// NewCheckoutHandler creates a new instance of CheckoutHandler.
func NewCheckoutHandler(s *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
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

// OptionsResponse lists the configured addresses and payment methods.
type OptionsResponse struct {
	// Addresses are the configured shipping destinations.
	Addresses []domain.Address `json:"addresses"`
	// PaymentMethods are the configured ways to pay.
	PaymentMethods []domain.PaymentMethod `json:"payment_methods"`
}

// SelectAddressRequest is the payload for choosing a shipping address.
type SelectAddressRequest struct {
	// AddressID references a configured address.
	AddressID string `json:"address_id"`
}

// SelectPaymentMethodRequest is the payload for choosing a payment method.
type SelectPaymentMethodRequest struct {
	// PaymentMethodID references a configured payment method.
	PaymentMethodID string `json:"payment_method_id"`
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

func requireSession(c *fiber.Ctx) (string, bool) {
	session := sessionID(c)
	if session == "" {
		return "", false
	}
	return session, true
}

func missingSession(c *fiber.Ctx) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Message: "Session ID is required",
		RayID:   rayID(c),
	})
}

// GetOptions godoc
// @Summary List checkout options
// @Description Returns the configured shipping addresses and payment methods.
// @Tags checkout
// @Produce json
// @Success 200 {object} OptionsResponse
// @Failure 500 {object} ErrorResponse
// @Router /checkout/options [get]
func (h *CheckoutHandler) GetOptions(c *fiber.Ctx) error {
	addresses, methods, err := h.service.ListOptions(c.UserContext())
	if err != nil {
		logger.Get().Error("Failed to list checkout options",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal Server Error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(OptionsResponse{
		Addresses:      addresses,
		PaymentMethods: methods,
	})
}

// SelectAddress godoc
// @Summary Select the session's shipping address
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body SelectAddressRequest true "Address to select"
// @Success 200 {object} domain.Selection
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /checkout/address [put]
func (h *CheckoutHandler) SelectAddress(c *fiber.Ctx) error {
	session, ok := requireSession(c)
	if !ok {
		return missingSession(c)
	}

	var req SelectAddressRequest
	if err := c.BodyParser(&req); err != nil || req.AddressID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Address ID is required",
			RayID:   rayID(c),
		})
	}

	if err := h.service.SelectAddress(c.UserContext(), session, req.AddressID); err != nil {
		return h.writeCheckoutError(c, session, err)
	}

	return c.Status(http.StatusOK).JSON(h.service.Selection(session))
}

// SelectPaymentMethod godoc
// @Summary Select the session's payment method
// @Tags checkout
// @Accept json
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Param request body SelectPaymentMethodRequest true "Payment method to select"
// @Success 200 {object} domain.Selection
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /checkout/payment-method [put]
func (h *CheckoutHandler) SelectPaymentMethod(c *fiber.Ctx) error {
	session, ok := requireSession(c)
	if !ok {
		return missingSession(c)
	}

	var req SelectPaymentMethodRequest
	if err := c.BodyParser(&req); err != nil || req.PaymentMethodID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Payment method ID is required",
			RayID:   rayID(c),
		})
	}

	if err := h.service.SelectPaymentMethod(c.UserContext(), session, req.PaymentMethodID); err != nil {
		return h.writeCheckoutError(c, session, err)
	}

	return c.Status(http.StatusOK).JSON(h.service.Selection(session))
}

// GetQuote godoc
// @Summary Quote the session cart
// @Description Returns the cart subtotal, the flat shipping fee, and the total.
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Router /checkout/quote [get]
func (h *CheckoutHandler) GetQuote(c *fiber.Ctx) error {
	session, ok := requireSession(c)
	if !ok {
		return missingSession(c)
	}

	quote, err := h.service.Quote(c.UserContext(), session)
	if err != nil {
		return h.writeCheckoutError(c, session, err)
	}

	return c.Status(http.StatusOK).JSON(quote)
}

// PlaceOrder godoc
// @Summary Place an order from the session cart
// @Description Charges the selected payment method for the quoted total and
// @Description persists a Confirmed order. A declined charge leaves the cart untouched.
// @Tags checkout
// @Produce json
// @Param X-Session-ID header string true "Session ID"
// @Success 201 {object} ordersdomain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 402 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	session, ok := requireSession(c)
	if !ok {
		return missingSession(c)
	}

	order, err := h.service.PlaceOrder(c.UserContext(), session)
	if err != nil {
		return h.writeCheckoutError(c, session, err)
	}

	return c.Status(http.StatusCreated).JSON(order)
}

// writeCheckoutError maps checkout domain errors to HTTP statuses.
func (h *CheckoutHandler) writeCheckoutError(c *fiber.Ctx, session string, err error) error {
	status := http.StatusInternalServerError
	msg := "Internal Server Error"

	switch {
	case errors.Is(err, domain.ErrAddressNotFound):
		status = http.StatusNotFound
		msg = "Address not found"
	case errors.Is(err, domain.ErrPaymentMethodNotFound):
		status = http.StatusNotFound
		msg = "Payment method not found"
	case errors.Is(err, domain.ErrNoAddressSelected):
		status = http.StatusBadRequest
		msg = "No shipping address selected"
	case errors.Is(err, domain.ErrNoPaymentMethodSelected):
		status = http.StatusBadRequest
		msg = "No payment method selected"
	case errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
		msg = "Cart is empty"
	case errors.Is(err, domain.ErrPaymentFailed):
		status = http.StatusPaymentRequired
		msg = "Payment failed"
	default:
		logger.Get().Error("Checkout operation failed",
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
