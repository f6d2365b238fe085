// backend-go/internal/service/product_service.go
package service

import (
	"context"

	"github.com/wkassem/makhzan/backend-go/internal/config"
	"github.com/wkassem/makhzan/backend-go/internal/domain"
	"github.com/wkassem/makhzan/backend-go/internal/repository"
)

// ProductService serves product listings enriched with the derived turnover
// and stock-status classifications.
type ProductService struct {
	store      repository.SourceStore
	thresholds domain.TurnoverThresholds
	lowStock   float64
}

func NewProductService(store repository.SourceStore, cfg config.ReportConfig) *ProductService {
	thresholds := domain.DefaultTurnoverThresholds()
	if cfg.TurnoverSlowThreshold > 0 {
		thresholds.Slow = cfg.TurnoverSlowThreshold
	}
	if cfg.TurnoverNormalThreshold > 0 {
		thresholds.Normal = cfg.TurnoverNormalThreshold
	}
	return &ProductService{
		store:      store,
		thresholds: thresholds,
		lowStock:   cfg.LowStockPercentage,
	}
}

func (s *ProductService) enrich(p domain.Product) domain.ProductView {
	percentage := p.LowStockPercentage
	if percentage <= 0 {
		percentage = s.lowStock
	}
	return domain.ProductView{
		Product:       p,
		TurnoverRate:  domain.TurnoverRate(p.OpeningStock, p.CurrentStock, p.Issues),
		TurnoverLabel: domain.ClassifyTurnover(p.OpeningStock, p.Purchases, p.Issues, p.CurrentStock, s.thresholds),
		StockStatus:   domain.ClassifyStock(p.CurrentStock, p.OpeningStock, p.Purchases, percentage),
		LowStock:      domain.IsLowStock(&p, s.lowStock),
	}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.ProductView, error) {
	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.enrich(p))
	}
	return views, nil
}

func (s *ProductService) ListLowStock(ctx context.Context) ([]domain.ProductView, error) {
	views, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]domain.ProductView, 0)
	for _, v := range views {
		if v.LowStock {
			low = append(low, v)
		}
	}
	return low, nil
}

// TurnoverBreakdown aggregates counts and stock value per movement-speed
// bucket, in a fixed display order.
func (s *ProductService) TurnoverBreakdown(ctx context.Context) ([]domain.TurnoverBucket, error) {
	views, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	order := []domain.TurnoverLabel{
		domain.TurnoverFast,
		domain.TurnoverNormal,
		domain.TurnoverSlow,
		domain.TurnoverStagnant,
		domain.TurnoverNew,
	}
	buckets := make(map[domain.TurnoverLabel]*domain.TurnoverBucket, len(order))
	for _, label := range order {
		buckets[label] = &domain.TurnoverBucket{Label: label}
	}

	for _, v := range views {
		b := buckets[v.TurnoverLabel]
		b.Count++
		b.StockValue += v.CurrentStockValue
	}

	result := make([]domain.TurnoverBucket, 0, len(order))
	for _, label := range order {
		result = append(result, *buckets[label])
	}
	return result, nil
}
