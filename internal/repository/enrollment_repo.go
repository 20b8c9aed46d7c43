package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
)

// EnrollmentRepository persists seat claims. Rows are created only inside an
// enrollment engine transaction and never updated afterwards.
type EnrollmentRepository interface {
	CreateInTx(tx *gorm.DB, enrollment *models.Enrollment) error
	ExistsInTx(tx *gorm.DB, id string) (bool, error)
	GetByID(ctx context.Context, id string) (models.Enrollment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error)
	CountByBatch(ctx context.Context, batchID string) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) CreateInTx(tx *gorm.DB, enrollment *models.Enrollment) error {
	return tx.Create(enrollment).Error
}

func (r *enrollmentRepository) ExistsInTx(tx *gorm.DB, id string) (bool, error) {
	var enrollment models.Enrollment
	err := tx.Select("id").Where("id = ?", id).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, "id = ?", id).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	return enrollments, nil
}

func (r *enrollmentRepository) CountByBatch(ctx context.Context, batchID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("batch_id = ?", batchID).
		Count(&total).Error

	return total, err
}
