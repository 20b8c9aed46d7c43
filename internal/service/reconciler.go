package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/models"
	"github.com/noah-isme/edura-go-api/internal/repository"
)

// PurchaseReconciler writes the terminal outcome of an enrollment attempt
// back onto the originating purchase. The write sits outside the enrollment
// transaction on purpose: it reflects the externally visible outcome, and a
// failed write leaves the purchase pending for an external re-drive.
type PurchaseReconciler interface {
	Reconcile(ctx context.Context, purchaseID string, enrollErr error) error
}

type purchaseReconciler struct {
	purchases repository.PurchaseRepository
	logger    zerolog.Logger
}

// NewPurchaseReconciler constructs a purchase reconciler.
func NewPurchaseReconciler(purchases repository.PurchaseRepository, logger zerolog.Logger) PurchaseReconciler {
	return &purchaseReconciler{
		purchases: purchases,
		logger:    logger.With().Str("component", "purchase_reconciler").Logger(),
	}
}

func (r *purchaseReconciler) Reconcile(ctx context.Context, purchaseID string, enrollErr error) error {
	status := models.PurchaseStatusSuccess
	reason := ""
	if enrollErr != nil {
		status = models.PurchaseStatusFailed
		reason = enrollErr.Error()
	}

	if err := r.purchases.MarkOutcome(ctx, purchaseID, status, reason); err != nil {
		// Best effort only; the purchase stays non-terminal.
		r.logger.Warn().
			Err(err).
			Str("purchase_id", purchaseID).
			Str("status", status).
			Msg("failed to record purchase outcome, leaving pending")
		return errors.Join(errDownstreamUnavailable, err)
	}

	r.logger.Info().Str("purchase_id", purchaseID).Str("status", status).Msg("purchase reconciled")
	return nil
}

var errDownstreamUnavailable = errors.New("purchase status write unavailable")
