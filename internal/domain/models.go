// backend-go/internal/domain/models.go
package domain

import "time"

// Product is a catalog row with its running stock counters. The counters are
// maintained by the write paths (issues, returns, purchase receipts,
// adjustments); a background fixer reconciles currentStock when they drift.
type Product struct {
	ID                 string    `json:"id" db:"id"`
	ProductCode        string    `json:"product_code" db:"product_code"`
	ItemNumber         string    `json:"item_number" db:"item_number"`
	ProductName        string    `json:"product_name" db:"product_name"`
	Category           string    `json:"category" db:"category"`
	Location           string    `json:"location" db:"location"`
	Unit               string    `json:"unit" db:"unit"`
	Price              float64   `json:"price" db:"price"`
	AveragePrice       float64   `json:"average_price" db:"average_price"`
	OpeningStock       float64   `json:"opening_stock" db:"opening_stock"`
	Purchases          float64   `json:"purchases" db:"purchases"`
	Issues             float64   `json:"issues" db:"issues"`
	Returns            float64   `json:"returns" db:"returns"`
	CurrentStock       float64   `json:"current_stock" db:"current_stock"`
	CurrentStockValue  float64   `json:"current_stock_value" db:"current_stock_value"`
	QuantityPerCarton  float64   `json:"quantity_per_carton" db:"quantity_per_carton"`
	LowStockPercentage float64   `json:"low_stock_threshold_percentage" db:"low_stock_threshold_percentage"`
	MinStockLimit      float64   `json:"min_stock_limit" db:"min_stock_limit"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// Cost is the unit value used everywhere the ledger prices stock: the moving
// average when one exists, the list price otherwise.
func (p *Product) Cost() float64 {
	if p.AveragePrice > 0 {
		return p.AveragePrice
	}
	return p.Price
}

// Transaction is a legacy movement row kept for history. New purchases and
// sales are recorded as purchase orders and issues instead.
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	Type        string    `json:"type" db:"type"` // purchase, sale, adjustment
	ProductID   string    `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Quantity    float64   `json:"quantity" db:"quantity"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price"`
	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IssueLine is one product line on an issue or return voucher.
type IssueLine struct {
	ProductID    string  `json:"product_id" db:"product_id"`
	ProductCode  string  `json:"product_code" db:"product_code"`
	ProductName  string  `json:"product_name" db:"product_name"`
	Quantity     float64 `json:"quantity" db:"quantity"`
	QuantityBase float64 `json:"quantity_base" db:"quantity_base"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
	TotalPrice   float64 `json:"total_price" db:"total_price"`
}

// Issue is a stock issue to a branch. Stock is only deducted once the issue
// is marked delivered.
type Issue struct {
	ID            string      `json:"id" db:"id"`
	InvoiceNumber string      `json:"invoice_number" db:"invoice_number"`
	BranchID      string      `json:"branch_id" db:"branch_id"`
	BranchName    string      `json:"branch_name" db:"branch_name"`
	Products      []IssueLine `json:"products"`
	TotalValue    float64     `json:"total_value" db:"total_value"`
	Status        string      `json:"status" db:"status"`
	Delivered     bool        `json:"delivered" db:"delivered"`
	DeliveredAt   *time.Time  `json:"delivered_at" db:"delivered_at"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time  `json:"updated_at" db:"updated_at"`
}

// Return is stock coming back from a branch or customer.
type Return struct {
	ID           string      `json:"id" db:"id"`
	ReturnNumber string      `json:"return_number" db:"return_number"`
	BranchID     string      `json:"branch_id" db:"branch_id"`
	BranchName   string      `json:"branch_name" db:"branch_name"`
	CustomerName string      `json:"customer_name" db:"customer_name"`
	Products     []IssueLine `json:"products"`
	TotalValue   float64     `json:"total_value" db:"total_value"`
	Reason       string      `json:"reason" db:"reason"`
	Status       string      `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// PurchaseOrderItem is one line of a supplier order.
type PurchaseOrderItem struct {
	ProductID         string  `json:"product_id" db:"product_id"`
	ProductName       string  `json:"product_name" db:"product_name"`
	RequestedQuantity float64 `json:"requested_quantity" db:"requested_quantity"`
	ReceivedQuantity  float64 `json:"received_quantity" db:"received_quantity"`
	UnitPrice         float64 `json:"unit_price" db:"unit_price"`
}

// PurchaseOrder only affects stock once its status reaches received or
// completed.
type PurchaseOrder struct {
	ID           string              `json:"id" db:"id"`
	OrderNumber  string              `json:"order_number" db:"order_number"`
	SupplierName string              `json:"supplier_name" db:"supplier_name"`
	Items        []PurchaseOrderItem `json:"items"`
	Status       string              `json:"status" db:"status"` // draft, pending, received, completed
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time          `json:"updated_at" db:"updated_at"`
}

// InventoryAdjustment is a signed stock correction for one product.
type InventoryAdjustment struct {
	ID         string    `json:"id" db:"id"`
	ProductID  string    `json:"product_id" db:"product_id"`
	Difference float64   `json:"difference" db:"difference"`
	Reason     string    `json:"reason" db:"reason"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// AuditLogChange is a field-level diff inside an audit entry.
type AuditLogChange struct {
	Field    string `json:"field" db:"field"`
	OldValue string `json:"old_value" db:"old_value"`
	NewValue string `json:"new_value" db:"new_value"`
}

// AuditLogEntry is an append-only record of a create/update/delete. For
// products it is the source of truth for add/edit/delete movements.
type AuditLogEntry struct {
	ID         string           `json:"id" db:"id"`
	Entity     string           `json:"entity" db:"entity"`
	EntityID   string           `json:"entity_id" db:"entity_id"`
	EntityName string           `json:"entity_name" db:"entity_name"`
	Action     string           `json:"action" db:"action"` // create, update, delete
	UserName   string           `json:"user_name" db:"user_name"`
	Timestamp  time.Time        `json:"timestamp" db:"timestamp"`
	Changes    []AuditLogChange `json:"changes"`
}
