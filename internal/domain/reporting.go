// backend-go/internal/domain/reporting.go
package domain

// ProductView is a product snapshot enriched with the derived classifications
// the listings and reports show.
type ProductView struct {
	Product
	TurnoverRate  float64       `json:"turnover_rate"`
	TurnoverLabel TurnoverLabel `json:"turnover_label"`
	StockStatus   StockStatus   `json:"stock_status"`
	LowStock      bool          `json:"low_stock"`
}

// TurnoverBucket aggregates the products that share one movement-speed label.
type TurnoverBucket struct {
	Label      TurnoverLabel `json:"label"`
	Count      int           `json:"count"`
	StockValue float64       `json:"stock_value"`
}
