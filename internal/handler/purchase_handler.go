package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/middleware"
	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

// PurchaseHandler manages purchase endpoints. Creating a purchase publishes
// the event that drives the asynchronous enrollment pipeline; callers
// observe the outcome by polling the purchase status.
type PurchaseHandler struct {
	service service.PurchaseService
	logger  zerolog.Logger
}

// NewPurchaseHandler builds a purchase handler instance.
func NewPurchaseHandler(service service.PurchaseService, logger zerolog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: service,
		logger:  logger.With().Str("component", "purchase_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PurchaseHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("/:id", h.get)
}

func (h *PurchaseHandler) create(c *fiber.Ctx) error {
	var payload dto.PurchaseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	purchase, err := h.service.Create(c.Context(), payload, middleware.GetCorrelationID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusAccepted, "purchase accepted", purchase)
}

func (h *PurchaseHandler) get(c *fiber.Ctx) error {
	purchase, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "purchase retrieved", purchase)
}

func (h *PurchaseHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrPurchaseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "purchase not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
