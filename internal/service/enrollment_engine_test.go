package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
)

type engineFixture struct {
	db          *gorm.DB
	engine      EnrollmentEngine
	batches     repository.BatchRepository
	enrollments repository.EnrollmentRepository
	audits      repository.AuditLogRepository
}

func setupEngine(t *testing.T) engineFixture {
	t.Helper()

	db := setupServiceDB(t)
	batches := repository.NewBatchRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	audits := repository.NewAuditLogRepository(db)
	runner := repository.NewTxRunner(db, 5, zerolog.New(io.Discard))

	engine := NewEnrollmentEngine(runner, batches, enrollments, audits, zerolog.New(io.Discard))

	return engineFixture{db: db, engine: engine, batches: batches, enrollments: enrollments, audits: audits}
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Purchase{}, &models.CourseBatch{}, &models.Enrollment{}, &models.AuditLog{}, &models.User{}))

	// Serialize connections so concurrent transactions queue instead of
	// tripping over sqlite write locks.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func seedBatch(t *testing.T, f engineFixture, seats int) models.CourseBatch {
	t.Helper()
	batch := models.CourseBatch{CourseID: "go-101", BatchID: "2026-q1", SeatsLeft: seats}
	require.NoError(t, f.batches.Create(context.Background(), &batch))
	return batch
}

func TestEnrollHappyPath(t *testing.T) {
	f := setupEngine(t)
	seedBatch(t, f, 1)

	result, err := f.engine.Enroll(context.Background(), EnrollCommand{
		UserID: "u1", CourseID: "go-101", BatchID: "2026-q1", CorrelationID: "purchase-1",
	})
	require.NoError(t, err)
	require.Equal(t, "u1_2026-q1", result.EnrollmentID)
	require.False(t, result.AlreadyEnrolled)

	batch, err := f.batches.GetByKey(context.Background(), "go-101", "2026-q1")
	require.NoError(t, err)
	require.Equal(t, 0, batch.SeatsLeft)

	enrollment, err := f.enrollments.GetByID(context.Background(), "u1_2026-q1")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusActive, enrollment.Status)

	entries, total, err := f.audits.List(context.Background(), repository.AuditLogFilter{EntityID: "u1_2026-q1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, models.AuditActionSystemEnroll, entries[0].Action)
	require.Equal(t, models.AuditActorSystem, entries[0].ActorID)
	require.Equal(t, "purchase-1", entries[0].Details["correlation_id"])
}

func TestEnrollSecondUserFindsNoSeats(t *testing.T) {
	f := setupEngine(t)
	seedBatch(t, f, 1)

	_, err := f.engine.Enroll(context.Background(), EnrollCommand{UserID: "u1", CourseID: "go-101", BatchID: "2026-q1"})
	require.NoError(t, err)

	_, err = f.engine.Enroll(context.Background(), EnrollCommand{UserID: "u2", CourseID: "go-101", BatchID: "2026-q1"})
	require.ErrorIs(t, err, ErrNoSeatsAvailable)

	var enrollments int64
	require.NoError(t, f.db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	require.Equal(t, int64(1), enrollments)
}

func TestEnrollIsIdempotentPerUserAndBatch(t *testing.T) {
	f := setupEngine(t)
	seedBatch(t, f, 5)

	first, err := f.engine.Enroll(context.Background(), EnrollCommand{UserID: "u1", CourseID: "go-101", BatchID: "2026-q1"})
	require.NoError(t, err)
	require.False(t, first.AlreadyEnrolled)

	second, err := f.engine.Enroll(context.Background(), EnrollCommand{UserID: "u1", CourseID: "go-101", BatchID: "2026-q1"})
	require.NoError(t, err)
	require.True(t, second.AlreadyEnrolled)
	require.Equal(t, first.EnrollmentID, second.EnrollmentID)

	batch, err := f.batches.GetByKey(context.Background(), "go-101", "2026-q1")
	require.NoError(t, err)
	require.Equal(t, 4, batch.SeatsLeft, "retry must not consume a second seat")

	var enrollments int64
	require.NoError(t, f.db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	require.Equal(t, int64(1), enrollments)
}

func TestEnrollUnknownBatch(t *testing.T) {
	f := setupEngine(t)

	_, err := f.engine.Enroll(context.Background(), EnrollCommand{UserID: "u1", CourseID: "go-101", BatchID: "missing"})
	require.ErrorIs(t, err, ErrBatchNotFound)
}

func TestEnrollMissingIdentifiersIsNoOp(t *testing.T) {
	f := setupEngine(t)
	seedBatch(t, f, 1)

	_, err := f.engine.Enroll(context.Background(), EnrollCommand{UserID: "u1", CourseID: "", BatchID: "2026-q1"})
	require.ErrorIs(t, err, ErrMissingIdentifiers)

	batch, err := f.batches.GetByKey(context.Background(), "go-101", "2026-q1")
	require.NoError(t, err)
	require.Equal(t, 1, batch.SeatsLeft)
}

type failingAuditRepo struct {
	repository.AuditLogRepository
}

func (f *failingAuditRepo) CreateInTx(tx *gorm.DB, entry *models.AuditLog) error {
	return errors.New("audit store unavailable")
}

func TestEnrollAbortLeavesNothingBehind(t *testing.T) {
	f := setupEngine(t)
	seedBatch(t, f, 3)

	runner := repository.NewTxRunner(f.db, 5, zerolog.New(io.Discard))
	broken := NewEnrollmentEngine(runner, f.batches, f.enrollments, &failingAuditRepo{f.audits}, zerolog.New(io.Discard))

	_, err := broken.Enroll(context.Background(), EnrollCommand{UserID: "u1", CourseID: "go-101", BatchID: "2026-q1"})
	require.Error(t, err)

	batch, err := f.batches.GetByKey(context.Background(), "go-101", "2026-q1")
	require.NoError(t, err)
	require.Equal(t, 3, batch.SeatsLeft, "seat decrement must roll back with the failed audit append")

	var enrollments, audits int64
	require.NoError(t, f.db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	require.NoError(t, f.db.Model(&models.AuditLog{}).Count(&audits).Error)
	require.Zero(t, enrollments)
	require.Zero(t, audits)
}

func TestEnrollConcurrentCallersNeverOversubscribe(t *testing.T) {
	f := setupEngine(t)
	const seats = 3
	const callers = 10
	seedBatch(t, f, seats)

	var wg sync.WaitGroup
	outcomes := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.engine.Enroll(context.Background(), EnrollCommand{
				UserID:   fmt.Sprintf("user-%d", n),
				CourseID: "go-101",
				BatchID:  "2026-q1",
			})
			outcomes <- err
		}(i)
	}
	wg.Wait()
	close(outcomes)

	succeeded, exhausted := 0, 0
	for err := range outcomes {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrNoSeatsAvailable):
			exhausted++
		default:
			t.Fatalf("unexpected enrollment error: %v", err)
		}
	}

	require.Equal(t, seats, succeeded)
	require.Equal(t, callers-seats, exhausted)

	batch, err := f.batches.GetByKey(context.Background(), "go-101", "2026-q1")
	require.NoError(t, err)
	require.Zero(t, batch.SeatsLeft)

	var enrollments int64
	require.NoError(t, f.db.Model(&models.Enrollment{}).Count(&enrollments).Error)
	require.Equal(t, int64(seats), enrollments)
}
