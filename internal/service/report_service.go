// backend-go/internal/service/report_service.go
package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wkassem/makhzan/backend-go/internal/cache"
	"github.com/wkassem/makhzan/backend-go/internal/domain"
	"github.com/wkassem/makhzan/backend-go/internal/report"
	"github.com/wkassem/makhzan/backend-go/internal/repository"
)

// ReportService rebuilds the movement ledger from full source snapshots on
// every request. The computation itself is pure and synchronous; only the
// snapshot loads fan out.
type ReportService struct {
	store repository.SourceStore
	cache cache.ReportCache
}

func NewReportService(store repository.SourceStore, cacheImpl cache.ReportCache) *ReportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopReportCache()
	}
	return &ReportService{store: store, cache: cacheImpl}
}

func (s *ReportService) GetMovementReport(ctx context.Context, filter domain.MovementFilter) (*domain.MovementReport, error) {
	if cached, ok, err := s.cache.GetReport(ctx, filter); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("movement report: cache get failed")
	}

	src, err := s.loadSources(ctx)
	if err != nil {
		return nil, err
	}

	ledger := report.BuildLedger(src)
	filtered := report.Filter(ledger, filter, src.Products)

	result := &domain.MovementReport{
		Movements: filtered,
		Summary:   report.Summarize(filtered),
	}

	if err := s.cache.SetReport(ctx, filter, result); err != nil {
		log.Warn().Err(err).Msg("movement report: cache set failed")
	}

	return result, nil
}

// loadSources materializes all seven collections concurrently. Each read is
// an independent snapshot; the report view tolerates the small window in
// which a concurrent write lands between two of them.
func (s *ReportService) loadSources(ctx context.Context) (report.Sources, error) {
	var src report.Sources
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		src.Products, err = s.store.GetProducts(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.Transactions, err = s.store.GetTransactions(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.Issues, err = s.store.GetIssues(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.Returns, err = s.store.GetReturns(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.PurchaseOrders, err = s.store.GetPurchaseOrders(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.Adjustments, err = s.store.GetAdjustments(ctx)
		return err
	})
	g.Go(func() (err error) {
		src.AuditLogs, err = s.store.GetAuditLogs(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return report.Sources{}, err
	}
	return src, nil
}

// Invalidate drops all cached reports. Write paths call this after mutating
// any source collection.
func (s *ReportService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("movement report: cache invalidation failed")
	}
}
