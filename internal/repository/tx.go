package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/edura-go-api/internal/observability"
)

// ErrTxAborted signals that the store could not commit the transaction within
// the retry budget. Nothing was committed, so the whole operation is safe to
// retry from the top.
var ErrTxAborted = errors.New("transaction aborted")

// TxRunner executes a function inside one serializable database transaction.
// The retry/commit loop lives here so business logic stays free of it.
type TxRunner interface {
	RunSerializable(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type txRunner struct {
	db         *gorm.DB
	maxRetries int
	logger     zerolog.Logger
}

// NewTxRunner constructs a TxRunner over the given database handle.
func NewTxRunner(db *gorm.DB, maxRetries int, logger zerolog.Logger) TxRunner {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &txRunner{
		db:         db,
		maxRetries: maxRetries,
		logger:     logger.With().Str("component", "tx_runner").Logger(),
	}
}

func (r *txRunner) RunSerializable(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil {
			return nil
		}

		if !isSerializationFailure(err) {
			return err
		}

		lastErr = err
		observability.TxRetries().Inc()
		r.logger.Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")
	}

	return errors.Join(ErrTxAborted, lastErr)
}

// isSerializationFailure recognises store-level conflicts worth retrying:
// postgres serialization (40001) and deadlock (40P01) aborts, and sqlite
// write contention in tests.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
