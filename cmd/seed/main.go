// backend-go/cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func getDB(c *cli.Context) (*sql.DB, error) {
	db, ok := c.Context.Value(dbKey).(*sql.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with initial data",
		Flags: []cli.Flag{
			newDBURLFlag(),
		},
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Import the product catalog from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:    "file",
						Usage:   "CSV file with the product catalog",
						Value:   "./data/seeds/products.csv",
						EnvVars: []string{"SEED_PRODUCTS_FILE"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedProducts,
			},
			{
				Name:  "demo",
				Usage: "Generate a small demo dataset (products, issues, orders, adjustments)",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "products",
						Usage: "Number of demo products to generate",
						Value: 25,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedDemo,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// seedProducts imports the catalog CSV. Expected header:
// product_code,item_number,product_name,category,location,unit,price,opening_stock
func seedProducts(c *cli.Context) error {
	db, err := getDB(c)
	if err != nil {
		return err
	}

	filePath := c.String("file")
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}
	required := []string{"product_code", "product_name", "price", "opening_stock"}
	for _, name := range required {
		if col(name) < 0 {
			return fmt.Errorf("missing required column %q in %s", name, filePath)
		}
	}

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO products (
			id, product_code, item_number, product_name, category, location, unit,
			price, opening_stock, current_stock, current_stock_value,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $9 * $8, NOW(), NOW())
		ON CONFLICT (product_code) DO UPDATE SET
			product_name = EXCLUDED.product_name,
			category = EXCLUDED.category,
			location = EXCLUDED.location,
			unit = EXCLUDED.unit,
			price = EXCLUDED.price,
			updated_at = NOW()
	`

	field := func(record []string, name string) string {
		idx := col(name)
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	count := 0
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("failed to read CSV record: %w", err)
		}

		price, err := parseFloat(field(record, "price"))
		if err != nil {
			return fmt.Errorf("invalid price for %s: %w", field(record, "product_code"), err)
		}
		opening, err := parseFloat(field(record, "opening_stock"))
		if err != nil {
			return fmt.Errorf("invalid opening_stock for %s: %w", field(record, "product_code"), err)
		}

		if _, err := tx.ExecContext(ctx, query,
			uuid.NewString(),
			field(record, "product_code"),
			field(record, "item_number"),
			field(record, "product_name"),
			field(record, "category"),
			field(record, "location"),
			field(record, "unit"),
			price,
			opening,
		); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", field(record, "product_code"), err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Successfully seeded %d products from %s\n", count, filePath)
	return nil
}

// seedDemo generates a self-consistent demo dataset: a catalog plus issues,
// purchase orders and adjustments whose counters line up.
func seedDemo(c *cli.Context) error {
	db, err := getDB(c)
	if err != nil {
		return err
	}

	n := c.Int("products")
	if n <= 0 {
		n = 25
	}

	ctx := c.Context
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	categories := []string{"Beverages", "Dry Goods", "Frozen", "Cleaning", "Packaging"}
	locations := []string{"Aisle 1", "Aisle 2", "Cold Room", "Back Store"}
	branches := []string{"Downtown Branch", "Airport Branch", "Mall Branch"}

	log.Printf("Generating %d demo products...\n", n)

	for i := 0; i < n; i++ {
		productID := uuid.NewString()
		code := fmt.Sprintf("DEMO-%04d", i+1)
		name := fmt.Sprintf("Demo Product %d", i+1)
		price := 1 + rng.Float64()*49
		opening := float64(rng.Intn(200))
		purchases := float64(rng.Intn(100))
		issues := float64(rng.Intn(int(opening+purchases) + 1))
		current := opening + purchases - issues

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (
				id, product_code, item_number, product_name, category, location, unit,
				price, opening_stock, purchases, issues, current_stock,
				current_stock_value, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, 'pcs', $7, $8, $9, $10, $11, $12, NOW(), NOW())
			ON CONFLICT (product_code) DO NOTHING
		`,
			productID, code, fmt.Sprintf("%05d", i+1), name,
			categories[rng.Intn(len(categories))], locations[rng.Intn(len(locations))],
			price, opening, purchases, issues, current, current*price,
		); err != nil {
			return fmt.Errorf("failed to insert demo product %s: %w", code, err)
		}

		if issues > 0 {
			if err := insertDemoIssue(ctx, tx, rng, productID, name, price, issues, branches); err != nil {
				return err
			}
		}
		if purchases > 0 {
			if err := insertDemoOrder(ctx, tx, rng, productID, name, price, purchases); err != nil {
				return err
			}
		}
		if rng.Intn(5) == 0 {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO inventory_adjustments (id, product_id, difference, reason, created_at)
				VALUES ($1, $2, $3, 'Cycle count correction', NOW() - make_interval(days => $4))
			`, uuid.NewString(), productID, float64(rng.Intn(7)-3), rng.Intn(30)); err != nil {
				return fmt.Errorf("failed to insert demo adjustment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Println("Demo dataset seeded successfully!")
	return nil
}

func insertDemoIssue(ctx context.Context, tx *sql.Tx, rng *rand.Rand, productID, name string, price, qty float64, branches []string) error {
	issueID := uuid.NewString()
	branch := branches[rng.Intn(len(branches))]
	deliveredAt := time.Now().AddDate(0, 0, -rng.Intn(60))

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO issues (
			id, invoice_number, branch_name, total_value, status, delivered,
			delivered_at, created_at
		)
		VALUES ($1, $2, $3, $4, 'Delivered', TRUE, $5, $5)
	`, issueID, fmt.Sprintf("INV-%s", issueID[:8]), branch, qty*price, deliveredAt); err != nil {
		return fmt.Errorf("failed to insert demo issue: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO issue_products (
			issue_id, position, product_id, product_name, quantity, unit_price, total_price
		)
		VALUES ($1, 0, $2, $3, $4, $5, $6)
	`, issueID, productID, name, qty, price, qty*price); err != nil {
		return fmt.Errorf("failed to insert demo issue line: %w", err)
	}
	return nil
}

func insertDemoOrder(ctx context.Context, tx *sql.Tx, rng *rand.Rand, productID, name string, price, qty float64) error {
	orderID := uuid.NewString()
	receivedAt := time.Now().AddDate(0, 0, -rng.Intn(90))

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO purchase_orders (
			id, order_number, supplier_name, status, created_at, updated_at
		)
		VALUES ($1, $2, 'Demo Supplies Co', 'received', $3, $3)
	`, orderID, fmt.Sprintf("PO-%s", orderID[:8]), receivedAt); err != nil {
		return fmt.Errorf("failed to insert demo purchase order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO purchase_order_items (
			order_id, position, product_id, product_name,
			requested_quantity, received_quantity, unit_price
		)
		VALUES ($1, 0, $2, $3, $4, $4, $5)
	`, orderID, productID, name, qty, price); err != nil {
		return fmt.Errorf("failed to insert demo order item: %w", err)
	}
	return nil
}

func parseFloat(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	cleaned := strings.ReplaceAll(value, ",", "")
	return strconv.ParseFloat(cleaned, 64)
}
