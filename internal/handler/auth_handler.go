package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/utils"
	"github.com/noah-isme/edura-go-api/pkg/identity"
)

// AuthHandler mints fresh credentials. The role claim embedded in the token
// is whatever the claims authority holds at mint time, which is how role
// changes reach callers only on refresh.
type AuthHandler struct {
	issuer    *identity.TokenIssuer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthHandler builds an auth handler instance.
func NewAuthHandler(issuer *identity.TokenIssuer, validate *validator.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		issuer:    issuer,
		validator: validate,
		logger:    logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/token", h.token)
}

func (h *AuthHandler) token(c *fiber.Ctx) error {
	var payload dto.TokenRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	token, err := h.issuer.Issue(c.Context(), payload.UserID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue token")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "token issued", dto.TokenResponse{Token: token})
}
