package dto

import (
	"time"

	"github.com/noah-isme/edura-go-api/internal/models"
)

// PurchaseCreateRequest is the payload for creating a purchase.
type PurchaseCreateRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
	BatchID  string `json:"batch_id" validate:"required"`
}

// PurchaseResponse is the externally visible shape of a purchase.
type PurchaseResponse struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	CourseID      string    `json:"course_id"`
	BatchID       string    `json:"batch_id"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPurchaseResponse maps a purchase model onto its response shape.
func NewPurchaseResponse(p models.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		CourseID:      p.CourseID,
		BatchID:       p.BatchID,
		Status:        p.Status,
		FailureReason: p.FailureReason,
		CreatedAt:     p.CreatedAt,
	}
}

// PurchaseCreatedEvent is the broker payload emitted after a purchase row is
// created and consumed by the enrollment worker.
type PurchaseCreatedEvent struct {
	PurchaseID    string `json:"purchase_id"`
	UserID        string `json:"user_id"`
	CourseID      string `json:"course_id"`
	BatchID       string `json:"batch_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
