// README: Scan service runs the provider and records results into the scan history.
package scan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ebaggage/internal/modules/orders"
)

// Service ties a scan provider to the persistent scan history.
type Service struct {
	provider Provider
	store    *orders.Store
	log      *zap.Logger
}

func NewService(provider Provider, store *orders.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, store: store, log: log}
}

// ScanAndRecord analyzes the description and appends the result to the
// scan history. A history write failure does not discard the scan result;
// the caller still gets the items.
func (s *Service) ScanAndRecord(ctx context.Context, userEmail, scannedBy, description string) (*Result, error) {
	result, err := s.provider.AnalyzeLuggage(ctx, description)
	if err != nil {
		return nil, fmt.Errorf("luggage scan failed: %w", err)
	}

	if _, err := s.store.AppendScan(userEmail, scannedBy, result.Summary); err != nil {
		s.log.Warn("scan history write failed", zap.Error(err))
	}

	s.log.Info("luggage scanned",
		zap.String("user", userEmail), zap.Int("item_classes", len(result.Items)))
	return result, nil
}
