package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
)

// BatchService manages capacity ledger rows outside the enrollment
// transaction: registering batches and reading remaining seats.
type BatchService interface {
	Create(ctx context.Context, payload dto.BatchCreateRequest) (models.CourseBatch, error)
	Get(ctx context.Context, courseID, batchID string) (models.CourseBatch, error)
	List(ctx context.Context, courseID string) ([]models.CourseBatch, error)
}

type batchService struct {
	batches   repository.BatchRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewBatchService constructs a batch service.
func NewBatchService(batches repository.BatchRepository, validate *validator.Validate, logger zerolog.Logger) BatchService {
	return &batchService{
		batches:   batches,
		validator: validate,
		logger:    logger.With().Str("component", "batch_service").Logger(),
	}
}

func (s *batchService) Create(ctx context.Context, payload dto.BatchCreateRequest) (models.CourseBatch, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.CourseBatch{}, err
	}

	batch := models.CourseBatch{
		CourseID:  payload.CourseID,
		BatchID:   payload.BatchID,
		Name:      payload.Name,
		SeatsLeft: payload.SeatsLeft,
	}

	if err := s.batches.Create(ctx, &batch); err != nil {
		return models.CourseBatch{}, err
	}

	s.logger.Info().Str("course_id", batch.CourseID).Str("batch_id", batch.BatchID).Int("seats", batch.SeatsLeft).Msg("batch registered")

	return batch, nil
}

func (s *batchService) Get(ctx context.Context, courseID, batchID string) (models.CourseBatch, error) {
	batch, err := s.batches.GetByKey(ctx, courseID, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CourseBatch{}, ErrBatchNotFound
		}
		return models.CourseBatch{}, err
	}

	return batch, nil
}

func (s *batchService) List(ctx context.Context, courseID string) ([]models.CourseBatch, error) {
	return s.batches.List(ctx, courseID)
}
