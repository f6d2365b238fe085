// backend-go/internal/repository/source.go
package repository

import (
	"context"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

// SourceStore exposes read-only snapshots of the collections the movement
// ledger is derived from. Full materialization, no pagination: the engine
// recomputes over complete snapshots.
type SourceStore interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetTransactions(ctx context.Context) ([]domain.Transaction, error)
	GetIssues(ctx context.Context) ([]domain.Issue, error)
	GetReturns(ctx context.Context) ([]domain.Return, error)
	GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error)
	GetAdjustments(ctx context.Context) ([]domain.InventoryAdjustment, error)
	GetAuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error)
}

// ProductStore adds the mutations the background fixer needs on top of the
// snapshot read.
type ProductStore interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	ListInconsistent(ctx context.Context, tolerance float64, limit int) ([]domain.Product, error)
	FixStock(ctx context.Context, id string, currentStock, currentStockValue float64) error
}
