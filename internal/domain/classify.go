// backend-go/internal/domain/classify.go
package domain

import "math"

// TurnoverLabel buckets a product by how fast it moves.
type TurnoverLabel string

const (
	TurnoverNew      TurnoverLabel = "new"
	TurnoverStagnant TurnoverLabel = "stagnant"
	TurnoverSlow     TurnoverLabel = "slow"
	TurnoverNormal   TurnoverLabel = "normal"
	TurnoverFast     TurnoverLabel = "fast"
)

// StockStatus is the availability bucket shown next to each product.
type StockStatus string

const (
	StockOut       StockStatus = "out"
	StockLow       StockStatus = "low"
	StockAvailable StockStatus = "available"
)

// TurnoverThresholds are the configurable cut points for the rate buckets.
// Stagnant is implicitly rate == 0 and fast is implicitly rate > Normal.
type TurnoverThresholds struct {
	Slow   float64
	Normal float64
}

// DefaultTurnoverThresholds mirrors the shipped settings.
func DefaultTurnoverThresholds() TurnoverThresholds {
	return TurnoverThresholds{Slow: 0.35, Normal: 1.0}
}

const defaultLowStockPercentage = 33.33

// TurnoverRate computes issues over average inventory. Degenerate inputs
// (empty average, NaN, Inf, sub-noise rates) collapse to 0 so downstream sums
// stay clean.
func TurnoverRate(openingStock, currentStock, issues float64) float64 {
	averageInventory := (openingStock + currentStock) / 2
	if averageInventory <= 0 {
		return 0
	}

	rate := issues / averageInventory
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0.0001 {
		return 0
	}
	return rate
}

// ClassifyTurnover labels a product snapshot. A product with no opening stock
// and no issues but recorded purchases is "new" regardless of its rate.
func ClassifyTurnover(openingStock, purchases, issues, currentStock float64, t TurnoverThresholds) TurnoverLabel {
	if openingStock == 0 && purchases > 0 && issues == 0 {
		return TurnoverNew
	}

	rate := TurnoverRate(openingStock, currentStock, issues)
	switch {
	case rate > t.Normal:
		return TurnoverFast
	case rate > t.Slow:
		return TurnoverNormal
	case rate > 0:
		return TurnoverSlow
	default:
		return TurnoverStagnant
	}
}

// LowStockLimit is the quantity at or below which a product counts as low.
// A zero percentage falls back to the shipped default.
func LowStockLimit(openingStock, purchases, percentage float64) float64 {
	if percentage <= 0 {
		percentage = defaultLowStockPercentage
	}
	return (openingStock + purchases) * (percentage / 100)
}

// ClassifyStock buckets current stock into out/low/available.
func ClassifyStock(currentStock, openingStock, purchases, percentage float64) StockStatus {
	if currentStock <= 0 {
		return StockOut
	}
	if currentStock <= LowStockLimit(openingStock, purchases, percentage) {
		return StockLow
	}
	return StockAvailable
}

// IsLowStock honors a per-product minimum override before falling back to the
// percentage rule. A product without its own percentage uses the configured
// one, so the answer stays in step with ClassifyStock. Out-of-stock products
// are not "low", they are out.
func IsLowStock(p *Product, configuredPercentage float64) bool {
	if p.CurrentStock <= 0 {
		return false
	}
	if p.MinStockLimit > 0 {
		return p.CurrentStock <= p.MinStockLimit
	}
	percentage := p.LowStockPercentage
	if percentage <= 0 {
		percentage = configuredPercentage
	}
	return p.CurrentStock <= LowStockLimit(p.OpeningStock, p.Purchases, percentage)
}
