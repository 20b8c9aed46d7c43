package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/repository"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

// AuditHandler exposes the read surface of the audit trail.
type AuditHandler struct {
	audits repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditHandler builds an audit handler instance.
func NewAuditHandler(audits repository.AuditLogRepository, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		audits: audits,
		logger: logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	filter := repository.AuditLogFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 50),
	}

	entries, total, err := h.audits.List(c.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "audit entries retrieved", fiber.Map{
		"entries": dto.NewAuditEntryResponseSlice(entries),
		"total":   total,
	})
}

func parseQueryInt(c *fiber.Ctx, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
