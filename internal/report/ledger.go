// backend-go/internal/report/ledger.go
package report

import (
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

// Sources is a point-in-time snapshot of every collection the ledger is
// derived from. The builder never mutates it.
type Sources struct {
	Products       []domain.Product
	Transactions   []domain.Transaction
	Issues         []domain.Issue
	Returns        []domain.Return
	PurchaseOrders []domain.PurchaseOrder
	Adjustments    []domain.InventoryAdjustment
	AuditLogs      []domain.AuditLogEntry
}

// CurrentInventoryValue is the present-moment total stock value the backward
// walk is seeded from.
func CurrentInventoryValue(products []domain.Product) float64 {
	var total float64
	for i := range products {
		total += products[i].CurrentStock * products[i].Cost()
	}
	return total
}

// BuildLedger normalizes and deduplicates every source record, sorts the
// movements newest-first, then walks backward from the current total
// inventory value so each movement carries a before/after snapshot.
//
// The walk trusts currentStock at snapshot time as ground truth; if a
// historical movement is missing from the source tables, every before-value
// older than the gap is off by that amount. The ledger is advisory, not an
// audited record. The computation is pure and idempotent, and a malformed
// record only loses its own movement, never the rest of the report.
func BuildLedger(src Sources) []domain.StockMovement {
	n := NewNormalizer(src.Products)
	seen := newDedupIndex()
	movements := make([]domain.StockMovement, 0,
		len(src.AuditLogs)+len(src.Transactions)+len(src.Issues)+
			len(src.Returns)+len(src.PurchaseOrders)+len(src.Adjustments))

	accept := func(m domain.StockMovement, ok bool) {
		if !ok || seen.exists(m) {
			return
		}
		seen.add(m)
		movements = append(movements, m)
	}

	for _, e := range src.AuditLogs {
		accept(convert(func() (domain.StockMovement, bool) { return n.FromAuditLog(e) }))
	}
	for _, t := range src.Transactions {
		accept(convert(func() (domain.StockMovement, bool) { return n.FromTransaction(t) }))
	}
	for _, is := range src.Issues {
		accept(convert(func() (domain.StockMovement, bool) { return n.FromIssue(is) }))
	}
	for _, r := range src.Returns {
		accept(convert(func() (domain.StockMovement, bool) { return n.FromReturn(r) }))
	}
	for _, po := range src.PurchaseOrders {
		accept(convert(func() (domain.StockMovement, bool) { return n.FromPurchaseOrder(po) }))
	}
	for _, a := range src.Adjustments {
		accept(convert(func() (domain.StockMovement, bool) { return n.FromAdjustment(a) }))
	}

	sortNewestFirst(movements)

	runningValue := CurrentInventoryValue(src.Products)
	for i := range movements {
		m := &movements[i]
		m.InventoryValueAfter = round2(runningValue)
		before := runningValue - m.NetChange()
		m.InventoryValueBefore = round2(before)
		runningValue = before
	}

	return movements
}

// convert isolates one record conversion so a panic on malformed data cannot
// blank the whole report.
func convert(fn func() (domain.StockMovement, bool)) (m domain.StockMovement, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("skipping malformed source record")
			m, ok = domain.StockMovement{}, false
		}
	}()
	return fn()
}

func sortNewestFirst(movements []domain.StockMovement) {
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.After(movements[j].Date)
		}
		return movements[i].ID > movements[j].ID
	})
}

// Summarize derives the report header cards from a newest-first ledger.
func Summarize(movements []domain.StockMovement) domain.MovementSummary {
	summary := domain.MovementSummary{MovementCount: len(movements)}
	if len(movements) == 0 {
		return summary
	}

	summary.ClosingBalance = movements[0].InventoryValueAfter
	summary.OpeningBalance = movements[len(movements)-1].InventoryValueBefore

	for i := range movements {
		m := &movements[i]
		switch m.Type {
		case domain.MovementPurchase, domain.MovementReturn:
			summary.TotalIncrease += m.TotalAmount
		case domain.MovementIssue:
			summary.TotalDecrease += m.TotalAmount
		case domain.MovementAdjustment:
			if m.TotalQuantity >= 0 {
				summary.TotalIncrease += m.TotalAmount
			} else {
				summary.TotalDecrease += m.TotalAmount
			}
		}
	}

	summary.TotalIncrease = round2(summary.TotalIncrease)
	summary.TotalDecrease = round2(summary.TotalDecrease)
	return summary
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
