package models

import "time"

// Purchase statuses. A purchase is created pending and settles into exactly
// one terminal status.
const (
	PurchaseStatusPending = "pending"
	PurchaseStatusSuccess = "success"
	PurchaseStatusFailed  = "failed"
)

// Purchase records a payment for a seat in a course batch. The enrollment
// pipeline consumes purchase-created events and writes the outcome back.
type Purchase struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"not null;index" json:"user_id"`
	CourseID      string    `gorm:"not null" json:"course_id"`
	BatchID       string    `gorm:"not null" json:"batch_id"`
	Status        string    `gorm:"not null;default:pending;index" json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsTerminal reports whether the status admits no further transitions.
func (p *Purchase) IsTerminal() bool {
	return p.Status == PurchaseStatusSuccess || p.Status == PurchaseStatusFailed
}
