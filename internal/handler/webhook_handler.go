package handler

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/noah-isme/edura-go-api/internal/service"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

const paymentWebhookSchema = `{
	"type": "object",
	"required": ["purchase_id", "status"],
	"properties": {
		"purchase_id": {"type": "string", "minLength": 1},
		"status": {"type": "string", "enum": ["pending", "success", "failed"]}
	},
	"additionalProperties": true
}`

// WebhookHandler accepts payment provider callbacks and applies the reported
// status directly onto the purchase record, bypassing the enrollment engine.
type WebhookHandler struct {
	service service.PurchaseService
	schema  *jsonschema.Schema
	logger  zerolog.Logger
}

// NewWebhookHandler builds a webhook handler instance.
func NewWebhookHandler(service service.PurchaseService, logger zerolog.Logger) *WebhookHandler {
	schema := jsonschema.MustCompileString("payment_webhook.json", paymentWebhookSchema)

	return &WebhookHandler{
		service: service,
		schema:  schema,
		logger:  logger.With().Str("component", "webhook_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *WebhookHandler) Register(router fiber.Router) {
	router.Post("/payment", h.paymentUpdate)
}

func (h *WebhookHandler) paymentUpdate(c *fiber.Ctx) error {
	var document interface{}
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.UseNumber()
	if err := decoder.Decode(&document); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.schema.Validate(document); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "payload does not match schema: "+err.Error())
	}

	payload := document.(map[string]interface{})
	purchaseID := payload["purchase_id"].(string)
	status := payload["status"].(string)

	if err := h.service.ApplyStatus(c.Context(), purchaseID, status); err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "purchase not found")
		}
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "received", fiber.Map{"received": true})
}
