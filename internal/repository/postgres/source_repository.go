// backend-go/internal/repository/postgres/source_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

// sourceRepository materializes the full snapshot of each collection the
// movement ledger reads. Line items are loaded with a second query and
// grouped in memory, keeping every read a plain SELECT.
type sourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *sourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, product_code, item_number, product_name, category, location, unit,
			COALESCE(price, 0) AS price,
			COALESCE(average_price, 0) AS average_price,
			COALESCE(opening_stock, 0) AS opening_stock,
			COALESCE(purchases, 0) AS purchases,
			COALESCE(issues, 0) AS issues,
			COALESCE(returns, 0) AS returns,
			COALESCE(current_stock, 0) AS current_stock,
			COALESCE(current_stock_value, 0) AS current_stock_value,
			COALESCE(quantity_per_carton, 0) AS quantity_per_carton,
			COALESCE(low_stock_threshold_percentage, 0) AS low_stock_threshold_percentage,
			COALESCE(min_stock_limit, 0) AS min_stock_limit,
			created_at, updated_at
		FROM products
		ORDER BY product_name
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *sourceRepository) GetTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT id, type, product_id, COALESCE(product_name, '') AS product_name,
			quantity, COALESCE(unit_price, 0) AS unit_price,
			COALESCE(total_amount, 0) AS total_amount, created_at
		FROM transactions
		ORDER BY created_at DESC
	`

	var transactions []domain.Transaction
	if err := sqlx.SelectContext(ctx, r.db, &transactions, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

type issueLineRow struct {
	ParentID string `db:"parent_id"`
	domain.IssueLine
}

func (r *sourceRepository) GetIssues(ctx context.Context) ([]domain.Issue, error) {
	query := `
		SELECT id, COALESCE(invoice_number, '') AS invoice_number, branch_id, branch_name,
			COALESCE(total_value, 0) AS total_value, COALESCE(status, '') AS status,
			delivered, delivered_at, created_at, updated_at
		FROM issues
		ORDER BY created_at DESC
	`

	var issues []domain.Issue
	if err := sqlx.SelectContext(ctx, r.db, &issues, query); err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	lines, err := r.loadLines(ctx, `
		SELECT issue_id AS parent_id, product_id, COALESCE(product_code, '') AS product_code,
			COALESCE(product_name, '') AS product_name, quantity,
			COALESCE(quantity_base, 0) AS quantity_base,
			COALESCE(unit_price, 0) AS unit_price, COALESCE(total_price, 0) AS total_price
		FROM issue_products
		ORDER BY issue_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list issue lines: %w", err)
	}

	for i := range issues {
		issues[i].Products = lines[issues[i].ID]
	}
	return issues, nil
}

func (r *sourceRepository) GetReturns(ctx context.Context) ([]domain.Return, error) {
	query := `
		SELECT id, COALESCE(return_number, '') AS return_number, branch_id, branch_name,
			COALESCE(customer_name, '') AS customer_name,
			COALESCE(total_value, 0) AS total_value, COALESCE(reason, '') AS reason,
			COALESCE(status, '') AS status, created_at
		FROM returns
		ORDER BY created_at DESC
	`

	var returns []domain.Return
	if err := sqlx.SelectContext(ctx, r.db, &returns, query); err != nil {
		return nil, fmt.Errorf("failed to list returns: %w", err)
	}

	lines, err := r.loadLines(ctx, `
		SELECT return_id AS parent_id, product_id, COALESCE(product_code, '') AS product_code,
			COALESCE(product_name, '') AS product_name, quantity,
			COALESCE(quantity_base, 0) AS quantity_base,
			COALESCE(unit_price, 0) AS unit_price, COALESCE(total_price, 0) AS total_price
		FROM return_products
		ORDER BY return_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list return lines: %w", err)
	}

	for i := range returns {
		returns[i].Products = lines[returns[i].ID]
	}
	return returns, nil
}

func (r *sourceRepository) loadLines(ctx context.Context, query string) (map[string][]domain.IssueLine, error) {
	var rows []issueLineRow
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.IssueLine)
	for _, row := range rows {
		grouped[row.ParentID] = append(grouped[row.ParentID], row.IssueLine)
	}
	return grouped, nil
}

type purchaseOrderItemRow struct {
	ParentID string `db:"parent_id"`
	domain.PurchaseOrderItem
}

func (r *sourceRepository) GetPurchaseOrders(ctx context.Context) ([]domain.PurchaseOrder, error) {
	query := `
		SELECT id, COALESCE(order_number, '') AS order_number,
			COALESCE(supplier_name, '') AS supplier_name, status, created_at, updated_at
		FROM purchase_orders
		ORDER BY created_at DESC
	`

	var orders []domain.PurchaseOrder
	if err := sqlx.SelectContext(ctx, r.db, &orders, query); err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}

	var items []purchaseOrderItemRow
	itemQuery := `
		SELECT order_id AS parent_id, product_id, COALESCE(product_name, '') AS product_name,
			COALESCE(requested_quantity, 0) AS requested_quantity,
			COALESCE(received_quantity, 0) AS received_quantity,
			COALESCE(unit_price, 0) AS unit_price
		FROM purchase_order_items
		ORDER BY order_id, position
	`
	if err := sqlx.SelectContext(ctx, r.db, &items, itemQuery); err != nil {
		return nil, fmt.Errorf("failed to list purchase order items: %w", err)
	}

	grouped := make(map[string][]domain.PurchaseOrderItem)
	for _, item := range items {
		grouped[item.ParentID] = append(grouped[item.ParentID], item.PurchaseOrderItem)
	}
	for i := range orders {
		orders[i].Items = grouped[orders[i].ID]
	}
	return orders, nil
}

func (r *sourceRepository) GetAdjustments(ctx context.Context) ([]domain.InventoryAdjustment, error) {
	query := `
		SELECT id, product_id, difference, COALESCE(reason, '') AS reason, created_at
		FROM inventory_adjustments
		ORDER BY created_at DESC
	`

	var adjustments []domain.InventoryAdjustment
	if err := sqlx.SelectContext(ctx, r.db, &adjustments, query); err != nil {
		return nil, fmt.Errorf("failed to list adjustments: %w", err)
	}
	return adjustments, nil
}

type auditChangeRow struct {
	ParentID string `db:"parent_id"`
	domain.AuditLogChange
}

func (r *sourceRepository) GetAuditLogs(ctx context.Context) ([]domain.AuditLogEntry, error) {
	query := `
		SELECT id, entity, entity_id, COALESCE(entity_name, '') AS entity_name,
			action, COALESCE(user_name, '') AS user_name, timestamp
		FROM audit_logs
		ORDER BY timestamp DESC
	`

	var entries []domain.AuditLogEntry
	if err := sqlx.SelectContext(ctx, r.db, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	var changes []auditChangeRow
	changeQuery := `
		SELECT log_id AS parent_id, field,
			COALESCE(old_value, '') AS old_value, COALESCE(new_value, '') AS new_value
		FROM audit_log_changes
		ORDER BY log_id, position
	`
	if err := sqlx.SelectContext(ctx, r.db, &changes, changeQuery); err != nil {
		return nil, fmt.Errorf("failed to list audit log changes: %w", err)
	}

	grouped := make(map[string][]domain.AuditLogChange)
	for _, c := range changes {
		grouped[c.ParentID] = append(grouped[c.ParentID], c.AuditLogChange)
	}
	for i := range entries {
		entries[i].Changes = grouped[entries[i].ID]
	}
	return entries, nil
}
