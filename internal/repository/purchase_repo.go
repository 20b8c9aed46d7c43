package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
)

// PurchaseRepository persists purchase events. Status writes go through
// MarkOutcome (reconciler, write-once) or SetStatus (payment webhook bypass).
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	GetByID(ctx context.Context, id string) (models.Purchase, error)
	MarkOutcome(ctx context.Context, id, status, reason string) error
	SetStatus(ctx context.Context, id, status string) error
}

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository constructs a purchase repository.
func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) GetByID(ctx context.Context, id string) (models.Purchase, error) {
	var purchase models.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		return models.Purchase{}, err
	}

	return purchase, nil
}

// MarkOutcome writes a terminal status onto a still-pending purchase. A row
// that already reached a terminal status is left untouched.
func (r *purchaseRepository) MarkOutcome(ctx context.Context, id, status, reason string) error {
	update := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		Where("status = ?", models.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":         status,
			"failure_reason": reason,
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *purchaseRepository) SetStatus(ctx context.Context, id, status string) error {
	update := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("id = ?", id).
		Update("status", status)
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
