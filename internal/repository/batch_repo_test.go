package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/models"
)

func TestBatchRepositoryDecrementStopsAtZero(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBatchRepository(db)

	batch := models.CourseBatch{CourseID: "go-101", BatchID: "2026-q1", SeatsLeft: 1}
	require.NoError(t, repo.Create(context.Background(), &batch))

	ok, err := repo.DecrementSeatInTx(db, batch.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DecrementSeatInTx(db, batch.ID)
	require.NoError(t, err)
	require.False(t, ok, "expected decrement to refuse once seats are exhausted")

	stored, err := repo.GetByKey(context.Background(), "go-101", "2026-q1")
	require.NoError(t, err)
	require.Equal(t, 0, stored.SeatsLeft)
}

func TestBatchRepositoryGetByKeyMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBatchRepository(db)

	_, err := repo.GetByKey(context.Background(), "go-101", "nope")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Purchase{}, &models.CourseBatch{}, &models.Enrollment{}, &models.AuditLog{}, &models.User{}))
	return db
}
