package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
)

func TestPurchaseRepositoryMarkOutcomeIsWriteOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db)

	purchase := models.Purchase{ID: "p-1", UserID: "u1", CourseID: "c1", BatchID: "b1", Status: models.PurchaseStatusPending}
	require.NoError(t, repo.Create(context.Background(), &purchase))

	require.NoError(t, repo.MarkOutcome(context.Background(), "p-1", models.PurchaseStatusFailed, "no seats available"))

	err := repo.MarkOutcome(context.Background(), "p-1", models.PurchaseStatusSuccess, "")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound, "a terminal purchase must not be rewritten")

	stored, err := repo.GetByID(context.Background(), "p-1")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusFailed, stored.Status)
	require.Equal(t, "no seats available", stored.FailureReason)
	require.True(t, stored.IsTerminal())
}

func TestPurchaseRepositorySetStatusBypassesGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPurchaseRepository(db)

	purchase := models.Purchase{ID: "p-2", UserID: "u1", CourseID: "c1", BatchID: "b1", Status: models.PurchaseStatusFailed}
	require.NoError(t, repo.Create(context.Background(), &purchase))

	require.NoError(t, repo.SetStatus(context.Background(), "p-2", models.PurchaseStatusSuccess))

	stored, err := repo.GetByID(context.Background(), "p-2")
	require.NoError(t, err)
	require.Equal(t, models.PurchaseStatusSuccess, stored.Status)
}

func TestAuditLogRepositoryListByEntity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)

	first := models.AuditLog{Action: models.AuditActionSystemEnroll, EntityType: "enrollment", EntityID: "u1_b1", ActorID: models.AuditActorSystem}
	second := models.AuditLog{Action: models.AuditActionSetAdminRole, EntityType: "user", EntityID: "u9", ActorID: "root"}
	require.NoError(t, repo.Create(context.Background(), &first))
	require.NoError(t, repo.Create(context.Background(), &second))

	entries, total, err := repo.List(context.Background(), AuditLogFilter{EntityType: "enrollment", EntityID: "u1_b1", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	require.Equal(t, models.AuditActionSystemEnroll, entries[0].Action)
}
