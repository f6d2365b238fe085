// backend-go/internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

// productRepository backs the background consistency fixer: it finds products
// whose running counters drifted from currentStock and writes corrections.
type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return NewSourceRepository(r.db).GetProducts(ctx)
}

// ListInconsistent returns products violating
// current_stock = opening_stock + purchases - issues beyond the tolerance.
func (r *productRepository) ListInconsistent(ctx context.Context, tolerance float64, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 100
	}

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
		WHERE ABS(COALESCE(current_stock, 0) -
			(COALESCE(opening_stock, 0) + COALESCE(purchases, 0) - COALESCE(issues, 0))) > $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, tolerance, limit); err != nil {
		return nil, fmt.Errorf("failed to list inconsistent products: %w", err)
	}
	return products, nil
}

// FixStock writes the corrected stock figures for one product.
func (r *productRepository) FixStock(ctx context.Context, id string, currentStock, currentStockValue float64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE products
			SET current_stock = $2,
				current_stock_value = $3,
				updated_at = NOW()
			WHERE id = $1
		`
		result, err := tx.ExecContext(ctx, query, id, currentStock, currentStockValue)
		if err != nil {
			return fmt.Errorf("failed to fix product stock: %w", err)
		}
		if rows, err := result.RowsAffected(); err == nil && rows == 0 {
			return fmt.Errorf("product %s not found", id)
		}
		return nil
	})
}
