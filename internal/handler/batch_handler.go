package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

// BatchHandler manages capacity ledger endpoints.
type BatchHandler struct {
	service service.BatchService
	logger  zerolog.Logger
}

// NewBatchHandler builds a batch handler instance.
func NewBatchHandler(service service.BatchService, logger zerolog.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger.With().Str("component", "batch_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *BatchHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:courseId/:batchId", h.get)
}

func (h *BatchHandler) create(c *fiber.Ctx) error {
	var payload dto.BatchCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	batch, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "batch registered", batch)
}

func (h *BatchHandler) list(c *fiber.Ctx) error {
	batches, err := h.service.List(c.Context(), c.Query("course_id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "batches retrieved", batches)
}

func (h *BatchHandler) get(c *fiber.Ctx) error {
	batch, err := h.service.Get(c.Context(), c.Params("courseId"), c.Params("batchId"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "batch retrieved", batch)
}

func (h *BatchHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrBatchNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "batch not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
