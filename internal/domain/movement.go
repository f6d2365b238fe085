// backend-go/internal/domain/movement.go
package domain

import "time"

// MovementType enumerates the canonical movement kinds after normalization.
type MovementType string

const (
	MovementAdd        MovementType = "add"
	MovementEdit       MovementType = "edit"
	MovementDelete     MovementType = "delete"
	MovementPurchase   MovementType = "purchase"
	MovementSale       MovementType = "sale"
	MovementIssue      MovementType = "issue"
	MovementReturn     MovementType = "return"
	MovementAdjustment MovementType = "adjustment"
)

// MovementDetail is one line of a movement. Quantity and Total are signed
// (negative for stock leaving the warehouse); Price is the unit cost used to
// value the line. ProductID is carried so report filters can match by id
// instead of display-name containment.
type MovementDetail struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// StockMovement is the derived ledger row. It is never persisted: the report
// engine recomputes the full list from the source tables on every view.
// InventoryValueBefore/After are filled in by the ledger builder.
type StockMovement struct {
	ID                   string           `json:"id"`
	Date                 time.Time        `json:"date"`
	Type                 MovementType     `json:"type"`
	Reference            string           `json:"reference"`
	Description          string           `json:"description"`
	Status               string           `json:"status"`
	ItemsCount           int              `json:"items_count"`
	TotalQuantity        float64          `json:"total_quantity"`
	TotalAmount          float64          `json:"total_amount"`
	Details              []MovementDetail `json:"details"`
	InventoryValueBefore float64          `json:"inventory_value_before"`
	InventoryValueAfter  float64          `json:"inventory_value_after"`
}

// NetChange is the signed value effect of the movement on the inventory.
func (m *StockMovement) NetChange() float64 {
	var net float64
	for _, d := range m.Details {
		net += d.Total
	}
	return net
}

// MovementFilter is the user-selected report criteria. StartDate/EndDate win
// over Period when both are set; Period is one of today/week/month/year.
type MovementFilter struct {
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Period      string         `json:"period"`
	BranchNames []string       `json:"branch_names"`
	Statuses    []string       `json:"statuses"`
	Types       []MovementType `json:"types"`
	Search      string         `json:"search"`
	ProductIDs  []string       `json:"product_ids"`
	Categories  []string       `json:"categories"`
	Locations   []string       `json:"locations"`
}

// IsZero reports whether no criteria are set at all.
func (f MovementFilter) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil && f.Period == "" &&
		len(f.BranchNames) == 0 && len(f.Statuses) == 0 && len(f.Types) == 0 &&
		f.Search == "" && len(f.ProductIDs) == 0 && len(f.Categories) == 0 &&
		len(f.Locations) == 0
}

// MovementSummary holds the report header cards derived from the ledger.
type MovementSummary struct {
	OpeningBalance float64 `json:"opening_balance"`
	ClosingBalance float64 `json:"closing_balance"`
	TotalIncrease  float64 `json:"total_increase"`
	TotalDecrease  float64 `json:"total_decrease"`
	MovementCount  int     `json:"movement_count"`
}

// MovementReport is what the API returns: the filtered ledger newest-first
// plus its summary cards.
type MovementReport struct {
	Movements []StockMovement `json:"movements"`
	Summary   MovementSummary `json:"summary"`
}
