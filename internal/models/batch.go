package models

import "time"

// CourseBatch is the seat ledger for one batch of one course. SeatsLeft is
// only ever decremented inside a serializable transaction and never goes
// below zero.
type CourseBatch struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  string    `gorm:"not null;uniqueIndex:idx_course_batch" json:"course_id"`
	BatchID   string    `gorm:"not null;uniqueIndex:idx_course_batch" json:"batch_id"`
	Name      string    `json:"name,omitempty"`
	SeatsLeft int       `gorm:"not null;check:seats_left >= 0" json:"seats_left"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
