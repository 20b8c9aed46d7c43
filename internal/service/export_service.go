package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ExportService triggers the periodic full-database export. The call is a
// stateless fire-and-forget POST to the external export API; there is no
// retry or partial-failure handling.
type ExportService struct {
	apiURL   string
	interval time.Duration
	client   *http.Client
	logger   zerolog.Logger
}

// NewExportService constructs the export trigger.
func NewExportService(apiURL string, interval time.Duration, logger zerolog.Logger) *ExportService {
	return &ExportService{
		apiURL:   apiURL,
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger.With().Str("component", "export_service").Logger(),
	}
}

// Start runs the export on a fixed interval until the context is cancelled.
func (s *ExportService) Start(ctx context.Context) {
	if s.apiURL == "" {
		s.logger.Info().Msg("export api url not configured, export disabled")
		return
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Run(ctx); err != nil {
					s.logger.Error().Err(err).Msg("export trigger failed")
				}
			}
		}
	}()
}

// Run fires one export request.
func (s *ExportService) Run(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"triggered_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("export api returned status %d", resp.StatusCode)
	}

	s.logger.Info().Msg("export triggered")
	return nil
}
