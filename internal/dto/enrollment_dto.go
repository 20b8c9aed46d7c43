package dto

import (
	"time"

	"github.com/noah-isme/edura-go-api/internal/models"
)

// EnrollRequest is the payload for an authorized direct enrollment.
type EnrollRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
	BatchID  string `json:"batch_id" validate:"required"`
}

// EnrollResponse reports the outcome of an enrollment attempt.
type EnrollResponse struct {
	EnrollmentID    string `json:"enrollment_id"`
	AlreadyEnrolled bool   `json:"already_enrolled"`
}

// EnrollmentResponse is the externally visible shape of an enrollment record.
type EnrollmentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	BatchID    string    `json:"batch_id"`
	Status     string    `json:"status"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// NewEnrollmentResponse maps an enrollment model onto its response shape.
func NewEnrollmentResponse(e models.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         e.ID,
		UserID:     e.UserID,
		CourseID:   e.CourseID,
		BatchID:    e.BatchID,
		Status:     e.Status,
		EnrolledAt: e.EnrolledAt,
	}
}

// BatchCreateRequest is the payload for registering a batch with its seat count.
type BatchCreateRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	BatchID   string `json:"batch_id" validate:"required"`
	Name      string `json:"name"`
	SeatsLeft int    `json:"seats_left" validate:"gte=0"`
}
