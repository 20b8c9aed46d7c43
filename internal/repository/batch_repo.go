package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
)

// BatchRepository is the capacity ledger: the single source of truth for
// remaining seats per batch. Seat mutation happens only through the
// conditional decrement, and only on a transaction handle.
type BatchRepository interface {
	Create(ctx context.Context, batch *models.CourseBatch) error
	GetByKey(ctx context.Context, courseID, batchID string) (models.CourseBatch, error)
	GetInTx(tx *gorm.DB, courseID, batchID string) (models.CourseBatch, error)
	DecrementSeatInTx(tx *gorm.DB, id uint) (bool, error)
	List(ctx context.Context, courseID string) ([]models.CourseBatch, error)
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository constructs the capacity ledger repository.
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *models.CourseBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepository) GetByKey(ctx context.Context, courseID, batchID string) (models.CourseBatch, error) {
	return getBatch(r.db.WithContext(ctx), courseID, batchID)
}

func (r *batchRepository) GetInTx(tx *gorm.DB, courseID, batchID string) (models.CourseBatch, error) {
	return getBatch(tx, courseID, batchID)
}

// DecrementSeatInTx consumes one seat if any remain. The guard on seats_left
// keeps the counter from going negative even if two transactions raced past
// the same read.
func (r *batchRepository) DecrementSeatInTx(tx *gorm.DB, id uint) (bool, error) {
	update := tx.Model(&models.CourseBatch{}).
		Where("id = ?", id).
		Where("seats_left > 0").
		Update("seats_left", gorm.Expr("seats_left - 1"))
	if update.Error != nil {
		return false, update.Error
	}

	return update.RowsAffected > 0, nil
}

func (r *batchRepository) List(ctx context.Context, courseID string) ([]models.CourseBatch, error) {
	query := r.db.WithContext(ctx).Model(&models.CourseBatch{})
	if courseID != "" {
		query = query.Where("course_id = ?", courseID)
	}

	var batches []models.CourseBatch
	if err := query.Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}

	return batches, nil
}

func getBatch(db *gorm.DB, courseID, batchID string) (models.CourseBatch, error) {
	var batch models.CourseBatch
	if err := db.Where("course_id = ? AND batch_id = ?", courseID, batchID).First(&batch).Error; err != nil {
		return models.CourseBatch{}, err
	}

	return batch, nil
}
