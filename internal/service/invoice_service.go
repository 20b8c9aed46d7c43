package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// FileUploader stores a generated artifact and returns its URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// InvoiceService is a pass-through stub: billing correctness is out of scope,
// so it only renders a minimal artifact and hands back the storage URL.
type InvoiceService interface {
	Generate(ctx context.Context, purchaseID string) (string, error)
}

type invoiceService struct {
	purchases PurchaseService
	uploader  FileUploader
	logger    zerolog.Logger
}

// NewInvoiceService constructs the invoice stub.
func NewInvoiceService(purchases PurchaseService, uploader FileUploader, logger zerolog.Logger) InvoiceService {
	return &invoiceService{
		purchases: purchases,
		uploader:  uploader,
		logger:    logger.With().Str("component", "invoice_service").Logger(),
	}
}

func (s *invoiceService) Generate(ctx context.Context, purchaseID string) (string, error) {
	purchase, err := s.purchases.Get(ctx, purchaseID)
	if err != nil {
		return "", err
	}

	body := fmt.Sprintf("invoice for purchase %s\nuser: %s\ncourse: %s\nbatch: %s\nstatus: %s\n",
		purchase.ID, purchase.UserID, purchase.CourseID, purchase.BatchID, purchase.Status)

	url, err := s.uploader.Upload(ctx, fmt.Sprintf("invoice_%s.txt", purchase.ID), strings.NewReader(body))
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("purchase_id", purchaseID).Str("url", url).Msg("invoice generated")
	return url, nil
}
