package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/edura-go-api/internal/dto"
	"github.com/noah-isme/edura-go-api/internal/observability"
)

// PurchaseWorker consumes purchase-created events from the broker and drives
// them through the enrollment engine and the reconciler. Each event is a
// short-lived independent invocation; concurrency comes only from multiple
// deliveries racing against shared state.
type PurchaseWorker struct {
	nats       *nats.Conn
	subject    string
	engine     EnrollmentEngine
	reconciler PurchaseReconciler
	logger     zerolog.Logger
}

// NewPurchaseWorker constructs the purchase event consumer.
func NewPurchaseWorker(natsConn *nats.Conn, subject string, engine EnrollmentEngine, reconciler PurchaseReconciler, logger zerolog.Logger) *PurchaseWorker {
	return &PurchaseWorker{
		nats:       natsConn,
		subject:    subject,
		engine:     engine,
		reconciler: reconciler,
		logger:     logger.With().Str("component", "purchase_worker").Logger(),
	}
}

// Start subscribes to the purchase subject and processes events until the
// context is cancelled.
func (w *PurchaseWorker) Start(ctx context.Context) error {
	if w.nats == nil || w.subject == "" {
		return errors.New("purchase worker requires a broker connection and subject")
	}

	sub, err := w.nats.QueueSubscribe(w.subject, "edura-enrollment", func(msg *nats.Msg) {
		var event dto.PurchaseCreatedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			observability.PurchaseEvents().WithLabelValues("malformed").Inc()
			w.logger.Error().Err(err).Msg("failed to decode purchase event")
			return
		}

		w.Handle(context.Background(), event)
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			w.logger.Warn().Err(err).Msg("failed to unsubscribe purchase worker")
		}
	}()

	w.logger.Info().Str("subject", w.subject).Msg("purchase worker started")
	return nil
}

// Handle processes a single purchase event: enroll, then reconcile the
// purchase status outside the enrollment transaction.
func (w *PurchaseWorker) Handle(ctx context.Context, event dto.PurchaseCreatedEvent) {
	_, err := w.engine.Enroll(ctx, EnrollCommand{
		UserID:        event.UserID,
		CourseID:      event.CourseID,
		BatchID:       event.BatchID,
		CorrelationID: correlationOrPurchase(event),
	})

	if errors.Is(err, ErrMissingIdentifiers) {
		// Mirror of the silent early return: the purchase keeps its
		// pending status and nothing is escalated.
		observability.PurchaseEvents().WithLabelValues("skipped").Inc()
		return
	}

	if err != nil {
		observability.PurchaseEvents().WithLabelValues("failed").Inc()
	} else {
		observability.PurchaseEvents().WithLabelValues("enrolled").Inc()
	}

	if event.PurchaseID == "" {
		return
	}

	// Reconciliation failures are already logged; the purchase stays
	// pending for the external re-drive.
	_ = w.reconciler.Reconcile(ctx, event.PurchaseID, err)
}

func correlationOrPurchase(event dto.PurchaseCreatedEvent) string {
	if event.CorrelationID != "" {
		return event.CorrelationID
	}
	return event.PurchaseID
}
