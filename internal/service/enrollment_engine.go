package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/observability"
	"github.com/noah-isme/edura-go-api/internal/repository"
)

// ErrMissingIdentifiers indicates the command lacked one of the three
// required identifiers. The caller treats the attempt as a no-op.
var ErrMissingIdentifiers = errors.New("missing enrollment identifiers")

// ErrBatchNotFound indicates there is no capacity ledger row for the batch.
var ErrBatchNotFound = errors.New("batch not found")

// ErrNoSeatsAvailable indicates the batch capacity is exhausted.
var ErrNoSeatsAvailable = errors.New("no seats available")

// EnrollCommand carries one enrollment attempt.
type EnrollCommand struct {
	UserID        string
	CourseID      string
	BatchID       string
	CorrelationID string
}

// EnrollResult reports the committed outcome of an enrollment attempt.
type EnrollResult struct {
	EnrollmentID    string
	AlreadyEnrolled bool
}

// EnrollmentEngine converts purchase events into seat-backed enrollments.
// Each call runs one serializable transaction covering the seat decrement,
// the enrollment row and the audit entry; all three commit together or not
// at all.
type EnrollmentEngine interface {
	Enroll(ctx context.Context, cmd EnrollCommand) (EnrollResult, error)
}

type enrollmentEngine struct {
	tx          repository.TxRunner
	batches     repository.BatchRepository
	enrollments repository.EnrollmentRepository
	audits      repository.AuditLogRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentEngine constructs the enrollment engine.
func NewEnrollmentEngine(tx repository.TxRunner, batches repository.BatchRepository, enrollments repository.EnrollmentRepository, audits repository.AuditLogRepository, logger zerolog.Logger) EnrollmentEngine {
	return &enrollmentEngine{
		tx:          tx,
		batches:     batches,
		enrollments: enrollments,
		audits:      audits,
		logger:      logger.With().Str("component", "enrollment_engine").Logger(),
		now:         time.Now,
	}
}

func (e *enrollmentEngine) Enroll(ctx context.Context, cmd EnrollCommand) (EnrollResult, error) {
	if cmd.UserID == "" || cmd.CourseID == "" || cmd.BatchID == "" {
		e.logger.Warn().
			Str("user_id", cmd.UserID).
			Str("course_id", cmd.CourseID).
			Str("batch_id", cmd.BatchID).
			Msg("enrollment skipped: incomplete identifiers")
		return EnrollResult{}, ErrMissingIdentifiers
	}

	tracer := otel.Tracer("github.com/noah-isme/edura-go-api/internal/service")
	ctx, span := tracer.Start(ctx, "enrollment.enroll")
	span.SetAttributes(
		attribute.String("enrollment.user_id", cmd.UserID),
		attribute.String("enrollment.batch_id", cmd.BatchID),
	)
	defer span.End()

	enrollmentID := models.EnrollmentID(cmd.UserID, cmd.BatchID)
	result := EnrollResult{EnrollmentID: enrollmentID}

	err := e.tx.RunSerializable(ctx, func(tx *gorm.DB) error {
		// Membership check first so a retried purchase never consumes a
		// second seat for the same (user, batch) pair.
		exists, err := e.enrollments.ExistsInTx(tx, enrollmentID)
		if err != nil {
			return err
		}
		if exists {
			result.AlreadyEnrolled = true
			return nil
		}

		batch, err := e.batches.GetInTx(tx, cmd.CourseID, cmd.BatchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBatchNotFound
			}
			return err
		}

		if batch.SeatsLeft <= 0 {
			return ErrNoSeatsAvailable
		}

		decremented, err := e.batches.DecrementSeatInTx(tx, batch.ID)
		if err != nil {
			return err
		}
		if !decremented {
			return ErrNoSeatsAvailable
		}

		enrollment := models.Enrollment{
			ID:         enrollmentID,
			UserID:     cmd.UserID,
			CourseID:   cmd.CourseID,
			BatchID:    cmd.BatchID,
			Status:     models.EnrollmentStatusActive,
			EnrolledAt: e.now().UTC(),
		}
		if err := e.enrollments.CreateInTx(tx, &enrollment); err != nil {
			return err
		}

		entry := models.AuditLog{
			Action:     models.AuditActionSystemEnroll,
			EntityType: "enrollment",
			EntityID:   enrollmentID,
			ActorID:    models.AuditActorSystem,
			Details: datatypes.JSONMap{
				"correlation_id": cmd.CorrelationID,
				"course_id":      cmd.CourseID,
				"batch_id":       cmd.BatchID,
			},
		}
		return e.audits.CreateInTx(tx, &entry)
	})

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "enrollment_failed")
		observability.EnrollmentOutcomes().WithLabelValues(outcomeLabel(err)).Inc()
		return EnrollResult{}, err
	}

	if result.AlreadyEnrolled {
		span.SetAttributes(attribute.Bool("enrollment.idempotent", true))
		observability.EnrollmentOutcomes().WithLabelValues("already_enrolled").Inc()
		e.logger.Info().Str("enrollment_id", enrollmentID).Msg("enrollment already present, seat untouched")
		return result, nil
	}

	observability.EnrollmentOutcomes().WithLabelValues("enrolled").Inc()
	e.logger.Info().
		Str("enrollment_id", enrollmentID).
		Str("correlation_id", cmd.CorrelationID).
		Msg("enrollment committed")

	return result, nil
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrBatchNotFound):
		return "batch_not_found"
	case errors.Is(err, ErrNoSeatsAvailable):
		return "no_seats"
	case errors.Is(err, repository.ErrTxAborted):
		return "tx_aborted"
	default:
		return "error"
	}
}
