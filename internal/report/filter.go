// backend-go/internal/report/filter.go
package report

import (
	"strings"
	"time"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

// Filter applies the user-selected criteria to a ledger, preserving order.
// All predicates are ANDed. Named periods are resolved against time.Now();
// tests use FilterAt to pin the clock.
func Filter(movements []domain.StockMovement, f domain.MovementFilter, products []domain.Product) []domain.StockMovement {
	return FilterAt(movements, f, products, time.Now())
}

func FilterAt(movements []domain.StockMovement, f domain.MovementFilter, products []domain.Product, now time.Time) []domain.StockMovement {
	if f.IsZero() {
		return movements
	}

	start, end := resolveDateBounds(f, now)
	index := make(map[string]*domain.Product, len(products))
	for i := range products {
		index[products[i].ID] = &products[i]
	}

	out := make([]domain.StockMovement, 0, len(movements))
	for i := range movements {
		m := &movements[i]
		if !matchDate(m, start, end) {
			continue
		}
		if !matchBranch(m, f.BranchNames) {
			continue
		}
		if !matchStatus(m, f.Statuses) {
			continue
		}
		if !matchType(m, f.Types) {
			continue
		}
		if !matchSearch(m, f.Search) {
			continue
		}
		if !matchProducts(m, f.ProductIDs, index) {
			continue
		}
		if !matchAttribute(m, f.Categories, index, func(p *domain.Product) string { return p.Category }) {
			continue
		}
		if !matchAttribute(m, f.Locations, index, func(p *domain.Product) string { return p.Location }) {
			continue
		}
		out = append(out, *m)
	}
	return out
}

// resolveDateBounds resolves explicit dates first; a named period computes
// its boundaries from the evaluation clock.
func resolveDateBounds(f domain.MovementFilter, now time.Time) (start, end *time.Time) {
	if f.StartDate != nil && f.EndDate != nil {
		s := *f.StartDate
		e := endOfDay(*f.EndDate)
		return &s, &e
	}

	switch f.Period {
	case "today":
		s := startOfDay(now)
		e := endOfDay(now)
		return &s, &e
	case "week":
		s := now.AddDate(0, 0, -7)
		return &s, &now
	case "month":
		s := now.AddDate(0, -1, 0)
		return &s, &now
	case "year":
		s := now.AddDate(-1, 0, 0)
		return &s, &now
	}

	if f.StartDate != nil {
		s := *f.StartDate
		return &s, nil
	}
	if f.EndDate != nil {
		e := endOfDay(*f.EndDate)
		return nil, &e
	}
	return nil, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

func matchDate(m *domain.StockMovement, start, end *time.Time) bool {
	if start != nil && m.Date.Before(*start) {
		return false
	}
	if end != nil && m.Date.After(*end) {
		return false
	}
	return true
}

// matchBranch keeps issue/return movements whose description mentions a
// selected branch. Movements of other types carry no branch reference at all,
// so an active branch filter excludes them outright.
func matchBranch(m *domain.StockMovement, branches []string) bool {
	if len(branches) == 0 {
		return true
	}
	if m.Type != domain.MovementIssue && m.Type != domain.MovementReturn {
		return false
	}
	desc := strings.ToLower(m.Description)
	for _, b := range branches {
		if b != "" && strings.Contains(desc, strings.ToLower(b)) {
			return true
		}
	}
	return false
}

func matchStatus(m *domain.StockMovement, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	status := strings.ToLower(m.Status)
	for _, s := range statuses {
		if s != "" && strings.Contains(status, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

func matchType(m *domain.StockMovement, types []domain.MovementType) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if m.Type == t {
			return true
		}
	}
	return false
}

func matchSearch(m *domain.StockMovement, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(m.Reference), needle) ||
		strings.Contains(strings.ToLower(m.ID), needle) ||
		strings.Contains(strings.ToLower(m.Description), needle)
}

// matchProducts passes when at least one detail line belongs to a selected
// product. Lines carry the product id from normalization; the name fallback
// only covers lines whose source record predates ids.
func matchProducts(m *domain.StockMovement, productIDs []string, index map[string]*domain.Product) bool {
	if len(productIDs) == 0 {
		return true
	}
	for _, d := range m.Details {
		for _, id := range productIDs {
			if d.ProductID != "" && d.ProductID == id {
				return true
			}
			if d.ProductID == "" {
				if p, ok := index[id]; ok && p.ProductName != "" &&
					strings.Contains(strings.ToLower(d.Name), strings.ToLower(p.ProductName)) {
					return true
				}
			}
		}
	}
	return false
}

// matchAttribute resolves each detail line's product and compares the chosen
// attribute (category or location) against the selection.
func matchAttribute(m *domain.StockMovement, wanted []string, index map[string]*domain.Product, attr func(*domain.Product) string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, d := range m.Details {
		p := resolveDetailProduct(d, index)
		if p == nil {
			continue
		}
		value := strings.ToLower(attr(p))
		for _, w := range wanted {
			if w != "" && value == strings.ToLower(w) {
				return true
			}
		}
	}
	return false
}

func resolveDetailProduct(d domain.MovementDetail, index map[string]*domain.Product) *domain.Product {
	if d.ProductID != "" {
		if p, ok := index[d.ProductID]; ok {
			return p
		}
	}
	name := strings.ToLower(d.Name)
	for _, p := range index {
		if p.ProductName != "" && strings.Contains(name, strings.ToLower(p.ProductName)) {
			return p
		}
	}
	return nil
}
