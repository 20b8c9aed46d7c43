package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
)

// ErrPurchaseNotFound indicates a purchase could not be located.
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseService creates purchase records and emits the broker event that
// drives the enrollment worker.
type PurchaseService interface {
	Create(ctx context.Context, payload dto.PurchaseCreateRequest, correlationID string) (dto.PurchaseResponse, error)
	Get(ctx context.Context, id string) (dto.PurchaseResponse, error)
	ApplyStatus(ctx context.Context, purchaseID, status string) error
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	validator *validator.Validate
	nats      *nats.Conn
	subject   string
	logger    zerolog.Logger
}

// NewPurchaseService constructs a purchase service. The NATS connection may
// be nil in tests; events are then skipped.
func NewPurchaseService(purchases repository.PurchaseRepository, validate *validator.Validate, natsConn *nats.Conn, subject string, logger zerolog.Logger) PurchaseService {
	return &purchaseService{
		purchases: purchases,
		validator: validate,
		nats:      natsConn,
		subject:   subject,
		logger:    logger.With().Str("component", "purchase_service").Logger(),
	}
}

func (s *purchaseService) Create(ctx context.Context, payload dto.PurchaseCreateRequest, correlationID string) (dto.PurchaseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PurchaseResponse{}, err
	}

	purchase := models.Purchase{
		ID:       uuid.NewString(),
		UserID:   payload.UserID,
		CourseID: payload.CourseID,
		BatchID:  payload.BatchID,
		Status:   models.PurchaseStatusPending,
	}

	if err := s.purchases.Create(ctx, &purchase); err != nil {
		return dto.PurchaseResponse{}, err
	}

	s.publishCreated(purchase, correlationID)

	s.logger.Info().Str("purchase_id", purchase.ID).Msg("purchase created")

	return dto.NewPurchaseResponse(purchase), nil
}

func (s *purchaseService) Get(ctx context.Context, id string) (dto.PurchaseResponse, error) {
	purchase, err := s.purchases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PurchaseResponse{}, ErrPurchaseNotFound
		}
		return dto.PurchaseResponse{}, err
	}

	return dto.NewPurchaseResponse(purchase), nil
}

// ApplyStatus writes a status straight onto the purchase row. This is the
// payment webhook integration point and deliberately bypasses the engine.
func (s *purchaseService) ApplyStatus(ctx context.Context, purchaseID, status string) error {
	if err := s.purchases.SetStatus(ctx, purchaseID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		return err
	}

	s.logger.Info().Str("purchase_id", purchaseID).Str("status", status).Msg("purchase status applied from webhook")
	return nil
}

func (s *purchaseService) publishCreated(purchase models.Purchase, correlationID string) {
	if s.nats == nil || s.subject == "" {
		return
	}

	event := dto.PurchaseCreatedEvent{
		PurchaseID:    purchase.ID,
		UserID:        purchase.UserID,
		CourseID:      purchase.CourseID,
		BatchID:       purchase.BatchID,
		CorrelationID: correlationID,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode purchase event")
		return
	}

	if err := s.nats.Publish(s.subject, payload); err != nil {
		s.logger.Error().Err(err).Str("purchase_id", purchase.ID).Msg("failed to publish purchase event")
	}
}
