package service

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
)

type workerFixture struct {
	engineFixture
	purchases repository.PurchaseRepository
	worker    *PurchaseWorker
}

func setupWorker(t *testing.T) workerFixture {
	t.Helper()

	f := setupEngine(t)
	purchases := repository.NewPurchaseRepository(f.db)
	reconciler := NewPurchaseReconciler(purchases, zerolog.New(io.Discard))
	worker := NewPurchaseWorker(nil, "", f.engine, reconciler, zerolog.New(io.Discard))

	return workerFixture{engineFixture: f, purchases: purchases, worker: worker}
}

func seedPurchase(t *testing.T, f workerFixture, id string) {
	t.Helper()
	require.NoError(t, f.purchases.Create(context.Background(), &models.Purchase{
		ID: id, UserID: "u1", CourseID: "go-101", BatchID: "2026-q1", Status: models.PurchaseStatusPending,
	}))
}

func TestWorkerMarksPurchaseSuccess(t *testing.T) {
	f := setupWorker(t)
	seedBatch(t, f.engineFixture, 1)
	seedPurchase(t, f, "p-1")

	f.worker.Handle(context.Background(), dto.PurchaseCreatedEvent{
		PurchaseID: "p-1", UserID: "u1", CourseID: "go-101", BatchID: "2026-q1",
	})

	purchase, err := f.purchases.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusSuccess, purchase.Status)
	require.Empty(t, purchase.FailureReason)

	_, err = f.enrollments.GetByID(context.Background(), "u1_2026-q1")
	require.NoError(t, err)
}

func TestWorkerMarksPurchaseFailedWithReason(t *testing.T) {
	f := setupWorker(t)
	seedBatch(t, f.engineFixture, 0)
	seedPurchase(t, f, "p-2")

	f.worker.Handle(context.Background(), dto.PurchaseCreatedEvent{
		PurchaseID: "p-2", UserID: "u1", CourseID: "go-101", BatchID: "2026-q1",
	})

	purchase, err := f.purchases.GetByID(context.Background(), "p-2")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusFailed, purchase.Status)
	require.Equal(t, ErrNoSeatsAvailable.Error(), purchase.FailureReason)
}

func TestWorkerSkipsIncompleteEvents(t *testing.T) {
	f := setupWorker(t)
	seedBatch(t, f.engineFixture, 1)
	seedPurchase(t, f, "p-3")

	f.worker.Handle(context.Background(), dto.PurchaseCreatedEvent{
		PurchaseID: "p-3", UserID: "u1", CourseID: "", BatchID: "2026-q1",
	})

	// Mirrors the silent early return: the purchase keeps its pending
	// status instead of being failed.
	purchase, err := f.purchases.GetByID(context.Background(), "p-3")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusPending, purchase.Status)
}

func TestReconcilerLeavesTerminalPurchasesAlone(t *testing.T) {
	f := setupWorker(t)
	seedPurchase(t, f, "p-4")

	reconciler := NewPurchaseReconciler(f.purchases, zerolog.New(io.Discard))
	require.NoError(t, reconciler.Reconcile(context.Background(), "p-4", nil))

	err := reconciler.Reconcile(context.Background(), "p-4", ErrNoSeatsAvailable)
	require.Error(t, err, "second terminal write must be refused")

	purchase, err := f.purchases.GetByID(context.Background(), "p-4")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusSuccess, purchase.Status)
}
