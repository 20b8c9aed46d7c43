package handler_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/utils"
)

func TestPaymentWebhookAppliesStatus(t *testing.T) {
	app, db := setupApp(t)
	require.NoError(t, db.Create(&models.Purchase{
		ID: "p-1", UserID: "u1", CourseID: "c1", BatchID: "b1", Status: models.PurchaseStatusPending,
	}).Error)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhooks/payment",
		jsonBody(t, map[string]string{"purchase_id": "p-1", "status": "success"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var purchase models.Purchase
	require.NoError(t, db.First(&purchase, "id = ?", "p-1").Error)
	require.Equal(t, models.PurchaseStatusSuccess, purchase.Status)
}

func TestPaymentWebhookRejectsUnknownStatus(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhooks/payment",
		jsonBody(t, map[string]string{"purchase_id": "p-1", "status": "refunded"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var decoded utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Equal(t, utils.KindInvalidArgument, decoded.Kind)
}

func TestPaymentWebhookRejectsMissingFields(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhooks/payment",
		jsonBody(t, map[string]string{"status": "success"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPaymentWebhookUnknownPurchase(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/webhooks/payment",
		jsonBody(t, map[string]string{"purchase_id": "ghost", "status": "failed"}))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
