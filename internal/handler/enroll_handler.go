package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/middleware"
	"github.com/noah-isme/edura-go-api/internal/repository"
	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

// EnrollHandler exposes the authorized direct-enroll surface: a synchronous
// call into the enrollment engine, gated to admin roles at the router.
type EnrollHandler struct {
	engine      service.EnrollmentEngine
	enrollments repository.EnrollmentRepository
	logger      zerolog.Logger
}

// NewEnrollHandler builds an enroll handler instance.
func NewEnrollHandler(engine service.EnrollmentEngine, enrollments repository.EnrollmentRepository, logger zerolog.Logger) *EnrollHandler {
	return &EnrollHandler{
		engine:      engine,
		enrollments: enrollments,
		logger:      logger.With().Str("component", "enroll_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *EnrollHandler) Register(router fiber.Router) {
	router.Post("", h.enroll)
}

// RegisterQueries attaches the read-only enrollment routes, which a wider set
// of roles may use than the write surface.
func (h *EnrollHandler) RegisterQueries(router fiber.Router) {
	router.Get("/users/:userId", h.listForUser)
	router.Get("/batches/:batchId/count", h.countForBatch)
}

func (h *EnrollHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.engine.Enroll(c.Context(), service.EnrollCommand{
		UserID:        payload.UserID,
		CourseID:      payload.CourseID,
		BatchID:       payload.BatchID,
		CorrelationID: middleware.GetCorrelationID(c),
	})
	if err != nil {
		return h.handleError(c, err)
	}

	message := "enrollment created"
	if result.AlreadyEnrolled {
		message = "already enrolled"
	}

	return utils.SendSuccess(c, message, dto.EnrollResponse{
		EnrollmentID:    result.EnrollmentID,
		AlreadyEnrolled: result.AlreadyEnrolled,
	})
}

func (h *EnrollHandler) listForUser(c *fiber.Ctx) error {
	enrollments, err := h.enrollments.ListByUser(c.Context(), c.Params("userId"))
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	responses := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		responses = append(responses, dto.NewEnrollmentResponse(enrollment))
	}

	return utils.SendSuccess(c, "enrollments retrieved", responses)
}

func (h *EnrollHandler) countForBatch(c *fiber.Ctx) error {
	total, err := h.enrollments.CountByBatch(c.Context(), c.Params("batchId"))
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "enrollment count retrieved", fiber.Map{"total": total})
}

func (h *EnrollHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMissingIdentifiers):
		return utils.SendError(c, fiber.StatusBadRequest, "user_id, course_id and batch_id are required")
	case errors.Is(err, service.ErrBatchNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "batch not found")
	case errors.Is(err, service.ErrNoSeatsAvailable):
		return utils.SendError(c, fiber.StatusConflict, "no seats available")
	case errors.Is(err, repository.ErrTxAborted):
		h.logger.Warn().Err(err).Msg("enrollment transaction aborted")
		return utils.SendErrorKind(c, fiber.StatusServiceUnavailable, utils.KindInternal, "transaction aborted, retry the request")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
