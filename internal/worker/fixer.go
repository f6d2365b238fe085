// Package worker runs the background stock-consistency fixer. Products whose
// running counters drifted from current_stock get recomputed and corrected in
// batches.
package worker

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wkassem/makhzan/backend-go/internal/config"
	"github.com/wkassem/makhzan/backend-go/internal/domain"
	"github.com/wkassem/makhzan/backend-go/internal/repository"
)

// drift below this is treated as float noise, not an inconsistency
const stockTolerance = 0.001

// Fixer periodically reconciles product stock counters against the canonical
// formula current_stock = opening_stock + purchases - issues.
type Fixer struct {
	store      repository.ProductStore
	interval   time.Duration
	batchSize  int
	invalidate func(context.Context) error
}

// NewFixer builds a Fixer. invalidate is called after any correction so cached
// reports do not serve stale balances; it may be nil.
func NewFixer(store repository.ProductStore, cfg config.WorkerConfig, invalidate func(context.Context) error) *Fixer {
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 200
	}
	return &Fixer{
		store:      store,
		interval:   interval,
		batchSize:  batchSize,
		invalidate: invalidate,
	}
}

// Interval is the configured pause between passes.
func (f *Fixer) Interval() time.Duration {
	return f.interval
}

// Run blocks until ctx is cancelled, fixing one batch per tick. The first
// batch runs immediately.
func (f *Fixer) Run(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		if err := f.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("Consistency pass failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce fixes a single batch of inconsistent products.
func (f *Fixer) RunOnce(ctx context.Context) error {
	products, err := f.store.ListInconsistent(ctx, stockTolerance, f.batchSize)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		log.Debug().Msg("No inconsistent products found")
		return nil
	}

	fixed := 0
	for i := range products {
		p := &products[i]
		stock, value := expectedStock(p)

		if err := f.store.FixStock(ctx, p.ID, stock, value); err != nil {
			log.Error().Err(err).Str("product_id", p.ID).Msg("Failed to fix product stock")
			continue
		}

		log.Info().
			Str("product_id", p.ID).
			Str("product_name", p.ProductName).
			Float64("stored_stock", p.CurrentStock).
			Float64("fixed_stock", stock).
			Msg("Corrected product stock")
		fixed++
	}

	log.Info().Int("checked", len(products)).Int("fixed", fixed).Msg("Consistency pass complete")

	if fixed > 0 && f.invalidate != nil {
		if err := f.invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate report cache after fixes")
		}
	}
	return nil
}

func expectedStock(p *domain.Product) (stock, value float64) {
	stock = p.OpeningStock + p.Purchases - p.Issues
	value = math.Round(stock*p.Cost()*100) / 100
	return stock, value
}
