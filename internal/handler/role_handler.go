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

// RoleHandler exposes role assignment. The authorization rule (superadmin,
// or the unclaimed bootstrap caller) lives in the service, so this group is
// only behind token verification, not behind RequireRole.
type RoleHandler struct {
	service   service.RoleService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRoleHandler builds a role handler instance.
func NewRoleHandler(service service.RoleService, validate *validator.Validate, logger zerolog.Logger) *RoleHandler {
	return &RoleHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "role_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *RoleHandler) Register(router fiber.Router) {
	router.Post("", h.setRole)
	router.Delete("/:userId", h.removeRole)
}

func (h *RoleHandler) setRole(c *fiber.Ctx) error {
	var payload dto.SetRoleRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return h.handleError(c, err)
	}

	caller := middleware.ClaimsFromCtx(c)
	if err := h.service.SetRole(c.Context(), caller, payload.UserID, payload.Role); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "role assigned", nil)
}

func (h *RoleHandler) removeRole(c *fiber.Ctx) error {
	caller := middleware.ClaimsFromCtx(c)
	if err := h.service.RemoveRole(c.Context(), caller, c.Params("userId")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "role removed", nil)
}

func (h *RoleHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNotSuperadmin):
		return utils.SendErrorKind(c, fiber.StatusForbidden, utils.KindPermissionDenied, service.ErrNotSuperadmin.Error())
	case errors.Is(err, service.ErrInvalidRole):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid role")
	case errors.Is(err, service.ErrUnknownUser):
		return utils.SendError(c, fiber.StatusBadRequest, "target user not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
