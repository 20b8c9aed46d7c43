package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

// InvoiceHandler exposes the invoice generation stub.
type InvoiceHandler struct {
	service service.InvoiceService
	logger  zerolog.Logger
}

// NewInvoiceHandler builds an invoice handler instance.
func NewInvoiceHandler(service service.InvoiceService, logger zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
		logger:  logger.With().Str("component", "invoice_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *InvoiceHandler) Register(router fiber.Router) {
	router.Post("/:purchaseId", h.generate)
}

func (h *InvoiceHandler) generate(c *fiber.Ctx) error {
	url, err := h.service.Generate(c.Context(), c.Params("purchaseId"))
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "purchase not found")
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "invoice generated", fiber.Map{"url": url})
}
