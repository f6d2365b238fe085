// backend-go/internal/domain/classify_test.go
package domain

import (
	"math"
	"testing"
)

func TestTurnoverRate(t *testing.T) {
	tests := []struct {
		name    string
		opening float64
		current float64
		issues  float64
		want    float64
	}{
		{"typical", 100, 60, 80, 1.0},
		{"zero average inventory", 0, 0, 50, 0},
		{"negative average inventory", -10, -10, 50, 0},
		{"no issues", 100, 100, 0, 0},
		{"sub noise rate", 100000, 100000, 1, 0},
		{"negative issues", 100, 100, -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TurnoverRate(tt.opening, tt.current, tt.issues)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TurnoverRate(%v, %v, %v) = %v, want %v",
					tt.opening, tt.current, tt.issues, got, tt.want)
			}
		})
	}
}

func TestTurnoverRateNeverNaN(t *testing.T) {
	inputs := [][3]float64{
		{0, 0, 0},
		{math.Inf(1), 0, 1},
		{1, 1, math.Inf(1)},
		{math.NaN(), 1, 1},
	}
	for _, in := range inputs {
		got := TurnoverRate(in[0], in[1], in[2])
		if math.IsNaN(got) || math.IsInf(got, 0) {
			t.Errorf("TurnoverRate(%v, %v, %v) = %v, want finite", in[0], in[1], in[2], got)
		}
	}
}

func TestClassifyTurnover(t *testing.T) {
	thresholds := DefaultTurnoverThresholds()

	tests := []struct {
		name      string
		opening   float64
		purchases float64
		issues    float64
		current   float64
		want      TurnoverLabel
	}{
		{"new product beats rate buckets", 0, 50, 0, 50, TurnoverNew},
		{"fast mover", 100, 0, 200, 100, TurnoverFast},
		{"normal mover", 100, 0, 80, 100, TurnoverNormal},
		{"slow mover", 100, 0, 20, 100, TurnoverSlow},
		{"stagnant", 100, 0, 0, 100, TurnoverStagnant},
		{"sold out entirely is not new", 0, 50, 50, 0, TurnoverStagnant},
		{"rate exactly at slow threshold stays slow", 100, 0, 35, 100, TurnoverSlow},
		{"rate exactly at normal threshold stays normal", 100, 0, 100, 100, TurnoverNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTurnover(tt.opening, tt.purchases, tt.issues, tt.current, thresholds)
			if got != tt.want {
				t.Errorf("ClassifyTurnover(%v, %v, %v, %v) = %q, want %q",
					tt.opening, tt.purchases, tt.issues, tt.current, got, tt.want)
			}
		})
	}
}

func TestClassifyTurnoverCustomThresholds(t *testing.T) {
	tight := TurnoverThresholds{Slow: 0.1, Normal: 0.5}

	// rate = 20 / 100 = 0.2: slow under defaults, normal under tight cuts
	if got := ClassifyTurnover(100, 0, 20, 100, DefaultTurnoverThresholds()); got != TurnoverSlow {
		t.Errorf("default thresholds: got %q, want %q", got, TurnoverSlow)
	}
	if got := ClassifyTurnover(100, 0, 20, 100, tight); got != TurnoverNormal {
		t.Errorf("tight thresholds: got %q, want %q", got, TurnoverNormal)
	}
}

func TestLowStockLimit(t *testing.T) {
	tests := []struct {
		name       string
		opening    float64
		purchases  float64
		percentage float64
		want       float64
	}{
		{"explicit percentage", 100, 50, 20, 30},
		{"zero percentage falls back to default", 100, 0, 0, 33.33},
		{"negative percentage falls back to default", 100, 0, -5, 33.33},
		{"no stock at all", 0, 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LowStockLimit(tt.opening, tt.purchases, tt.percentage)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LowStockLimit(%v, %v, %v) = %v, want %v",
					tt.opening, tt.purchases, tt.percentage, got, tt.want)
			}
		})
	}
}

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name       string
		current    float64
		opening    float64
		purchases  float64
		percentage float64
		want       StockStatus
	}{
		{"zero stock is out", 0, 100, 0, 20, StockOut},
		{"negative stock is out", -3, 100, 0, 20, StockOut},
		{"at the limit is low", 20, 100, 0, 20, StockLow},
		{"below the limit is low", 10, 100, 0, 20, StockLow},
		{"above the limit is available", 50, 100, 0, 20, StockAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStock(tt.current, tt.opening, tt.purchases, tt.percentage)
			if got != tt.want {
				t.Errorf("ClassifyStock(%v, %v, %v, %v) = %q, want %q",
					tt.current, tt.opening, tt.purchases, tt.percentage, got, tt.want)
			}
		})
	}
}

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name       string
		product    Product
		configured float64
		want       bool
	}{
		{
			"out of stock is not low",
			Product{CurrentStock: 0, OpeningStock: 100},
			0, false,
		},
		{
			"min stock limit override wins",
			Product{CurrentStock: 5, MinStockLimit: 10, OpeningStock: 100, LowStockPercentage: 1},
			0, true,
		},
		{
			"above min stock limit override",
			Product{CurrentStock: 15, MinStockLimit: 10, OpeningStock: 10},
			0, false,
		},
		{
			"percentage rule applies without override",
			Product{CurrentStock: 20, OpeningStock: 100, LowStockPercentage: 25},
			0, true,
		},
		{
			"healthy stock",
			Product{CurrentStock: 90, OpeningStock: 100, LowStockPercentage: 25},
			0, false,
		},
		{
			"configured percentage covers products without their own",
			Product{CurrentStock: 40, OpeningStock: 100},
			50, true,
		},
		{
			"no percentage anywhere falls back to default",
			Product{CurrentStock: 40, OpeningStock: 100},
			0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLowStock(&tt.product, tt.configured); got != tt.want {
				t.Errorf("IsLowStock(configured=%v) = %v, want %v", tt.configured, got, tt.want)
			}
		})
	}
}

func TestProductCost(t *testing.T) {
	withAverage := Product{Price: 10, AveragePrice: 8}
	if got := withAverage.Cost(); got != 8 {
		t.Errorf("Cost() with average price = %v, want 8", got)
	}

	withoutAverage := Product{Price: 10}
	if got := withoutAverage.Cost(); got != 10 {
		t.Errorf("Cost() without average price = %v, want 10", got)
	}
}
