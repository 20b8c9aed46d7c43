package models

import "time"

// EnrollmentStatusActive is the status every new enrollment starts in.
const EnrollmentStatusActive = "active"

// EnrollmentID derives the deterministic row key for a user and batch pair.
// The derivation doubles as the uniqueness guarantee: a retried event maps
// onto the same key and cannot create a second enrollment.
func EnrollmentID(userID, batchID string) string {
	return userID + "_" + batchID
}

// Enrollment ties one user to one course batch. Its primary key is derived
// with EnrollmentID, so at most one row exists per pair.
type Enrollment struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"not null;index" json:"user_id"`
	CourseID   string    `gorm:"not null" json:"course_id"`
	BatchID    string    `gorm:"not null;index" json:"batch_id"`
	Status     string    `gorm:"not null;default:active" json:"status"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
