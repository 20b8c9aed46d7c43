package dto

import (
	"time"

	"github.com/noah-isme/edura-go-api/internal/models"
)

// AuditEntryResponse is the externally visible shape of an audit entry.
type AuditEntryResponse struct {
	ID         uint                   `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	ActorID    string                 `json:"actor_id"`
	Details    map[string]interface{} `json:"details"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewAuditEntryResponse maps an audit log model onto its response shape.
func NewAuditEntryResponse(entry models.AuditLog) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		ActorID:    entry.ActorID,
		Details:    entry.Details,
		CreatedAt:  entry.CreatedAt,
	}
}

// NewAuditEntryResponseSlice maps a slice of audit log models.
func NewAuditEntryResponseSlice(entries []models.AuditLog) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditEntryResponse(entry))
	}
	return responses
}
