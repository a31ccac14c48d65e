package inventory

import (
	"context"
	"errors"
	"fmt"

	dominv "github.com/UPT-FAING-EPIS/order-facade-go/internal/domain/inventory"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability"
	"github.com/UPT-FAING-EPIS/order-facade-go/internal/observability/logctx"
)

const inventoryService = "inventory-service"

// Service manages the stock ledger. Reserve and Release delegate to the
// store's compound operations so a concurrent caller can never observe a
// checked-but-not-decremented window.
type Service struct {
	store dominv.Store
	log   observability.Logger
}

func NewService(store dominv.Store, tel observability.Telemetry) *Service {
	baseLog := observability.NopLogger()
	if tel != nil {
		baseLog = tel.Logger()
	}
	return &Service{
		store: store,
		log:   baseLog.With(observability.F("service", inventoryService)),
	}
}

// Check reports whether qty units of sku are on hand. Unknown SKUs count as
// zero, so checking one simply reports false.
func (s *Service) Check(ctx context.Context, sku string, qty int) (bool, error) {
	available, err := s.store.Available(ctx, sku)
	if err != nil {
		return false, fmt.Errorf("inventory: check: %w", err)
	}
	return available >= qty, nil
}

// Reserve atomically claims qty units of sku. Short stock and unknown SKUs
// report false without an error: both are expected outcomes the caller turns
// into a failed order, not faults.
func (s *Service) Reserve(ctx context.Context, sku string, qty int) (bool, error) {
	logger := logctx.FromOr(ctx, s.log)

	err := s.store.Reserve(ctx, sku, qty)
	switch {
	case err == nil:
		remaining, _ := s.store.Available(ctx, sku)
		logger.Info("stock_reserved",
			observability.F("sku", sku),
			observability.F("qty", qty),
			observability.F("remaining", remaining),
		)
		return true, nil
	case errors.Is(err, dominv.ErrNotFound), errors.Is(err, dominv.ErrInsufficientStock):
		available, _ := s.store.Available(ctx, sku)
		logger.Warn("stock_reservation_failed",
			observability.F("sku", sku),
			observability.F("qty", qty),
			observability.F("available", available),
		)
		return false, nil
	default:
		return false, fmt.Errorf("inventory: reserve: %w", err)
	}
}

// Release returns previously reserved units to the ledger. Releasing a SKU
// the ledger has never seen is a caller bug and surfaces ErrNotFound.
func (s *Service) Release(ctx context.Context, sku string, qty int) error {
	logger := logctx.FromOr(ctx, s.log)

	if err := s.store.Release(ctx, sku, qty); err != nil {
		logger.Warn("stock_release_failed",
			observability.F("sku", sku),
			observability.F("qty", qty),
			observability.F("error", err.Error()),
		)
		return fmt.Errorf("inventory: release: %w", err)
	}

	remaining, _ := s.store.Available(ctx, sku)
	logger.Info("stock_released",
		observability.F("sku", sku),
		observability.F("qty", qty),
		observability.F("remaining", remaining),
	)
	return nil
}

// CurrentStock returns the quantity on hand for one SKU.
func (s *Service) CurrentStock(ctx context.Context, sku string) (int, error) {
	available, err := s.store.Available(ctx, sku)
	if err != nil {
		return 0, fmt.Errorf("inventory: current stock: %w", err)
	}
	return available, nil
}

// Snapshot copies the whole ledger for reporting.
func (s *Service) Snapshot(ctx context.Context) (map[string]int, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: snapshot: %w", err)
	}
	return snapshot, nil
}

// SetStock seeds or overwrites the ledger entry for a SKU.
func (s *Service) SetStock(ctx context.Context, sku string, qty int) error {
	if err := s.store.SetStock(ctx, sku, qty); err != nil {
		return fmt.Errorf("inventory: set stock: %w", err)
	}
	logctx.FromOr(ctx, s.log).Info("stock_set",
		observability.F("sku", sku),
		observability.F("qty", qty),
	)
	return nil
}
