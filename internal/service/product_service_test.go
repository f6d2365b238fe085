// backend-go/internal/service/product_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/wkassem/makhzan/backend-go/internal/config"
	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

type stubSourceStore struct {
	products []domain.Product
}

func (s *stubSourceStore) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubSourceStore) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return nil, nil
}

func (s *stubSourceStore) GetIssues(ctx context.Context) ([]domain.Issue, error) {
	return nil, nil
}

func (s *stubSourceStore) GetReturns(ctx context.Context) ([]domain.Return, error) {
	return nil, nil
}

func (s *stubSourceStore) GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	return nil, nil
}

func (s *stubSourceStore) GetAdjustments(ctx context.Context) ([]domain.InventoryAdjustment, error) {
	return nil, nil
}

func (s *stubSourceStore) GetAuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error) {
	return nil, nil
}

func TestEnrichLowStockAgreesWithStockStatus(t *testing.T) {
	// 40 of 100 on hand: low under a 50% threshold, available under the 33.33
	// default. Both derived fields must answer from the same threshold.
	store := &stubSourceStore{products: []domain.Product{
		{ID: "p1", ProductName: "Olive Oil 1L", OpeningStock: 100, CurrentStock: 40, Price: 10},
	}}
	svc := NewProductService(store, config.ReportConfig{LowStockPercentage: 50})

	views, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}

	v := views[0]
	if v.StockStatus != domain.StockLow {
		t.Errorf("StockStatus = %q, want low", v.StockStatus)
	}
	if !v.LowStock {
		t.Error("LowStock = false, want true under the configured 50% threshold")
	}

	low, err := svc.ListLowStock(context.Background())
	if err != nil {
		t.Fatalf("ListLowStock: %v", err)
	}
	if len(low) != 1 {
		t.Errorf("low-stock listing has %d products, want 1", len(low))
	}
}
