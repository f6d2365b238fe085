// backend-go/internal/report/filter_test.go
package report

import (
	"testing"
	"time"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

var filterNow = time.Date(2025, 3, 25, 10, 0, 0, 0, time.UTC)

func filterFixture() ([]domain.StockMovement, []domain.Product) {
	products := []domain.Product{
		{ID: "p1", ProductName: "Olive Oil 1L", Category: "Dry Goods", Location: "Aisle 1"},
		{ID: "p2", ProductName: "Flour 5kg", Category: "Dry Goods", Location: "Aisle 2"},
		{ID: "p3", ProductName: "Ice Cream", Category: "Frozen", Location: "Cold Room"},
	}
	movements := []domain.StockMovement{
		{
			ID: "m1", Date: day(24), Type: domain.MovementIssue,
			Reference: "INV-100", Description: "Issue to Downtown Branch", Status: "Delivered",
			Details: []domain.MovementDetail{{ProductID: "p1", Name: "Olive Oil 1L", Quantity: -5}},
		},
		{
			ID: "m2", Date: day(20), Type: domain.MovementPurchase,
			Reference: "PO-55", Description: "Purchase from Mill Co", Status: "received",
			Details: []domain.MovementDetail{{ProductID: "p2", Name: "Flour 5kg", Quantity: 30}},
		},
		{
			ID: "m3", Date: day(2), Type: domain.MovementReturn,
			Reference: "RET-7", Description: "Return from Airport Branch", Status: "completed",
			Details: []domain.MovementDetail{{ProductID: "p3", Name: "Ice Cream", Quantity: 2}},
		},
	}
	return movements, products
}

func idsOf(movements []domain.StockMovement) []string {
	ids := make([]string, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ID)
	}
	return ids
}

func assertIDs(t *testing.T, got []domain.StockMovement, want ...string) {
	t.Helper()
	gotIDs := idsOf(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("got %v, want %v", gotIDs, want)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("got %v, want %v", gotIDs, want)
		}
	}
}

func TestFilterZeroCriteriaPassesEverything(t *testing.T) {
	movements, products := filterFixture()
	got := FilterAt(movements, domain.MovementFilter{}, products, filterNow)
	assertIDs(t, got, "m1", "m2", "m3")
}

func TestFilterByPeriod(t *testing.T) {
	movements, products := filterFixture()

	tests := []struct {
		period string
		want   []string
	}{
		{"today", nil},
		{"week", []string{"m1", "m2"}},
		{"month", []string{"m1", "m2", "m3"}},
		{"year", []string{"m1", "m2", "m3"}},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got := FilterAt(movements, domain.MovementFilter{Period: tt.period}, products, filterNow)
			assertIDs(t, got, tt.want...)
		})
	}
}

func TestFilterExplicitDatesWinOverPeriod(t *testing.T) {
	movements, products := filterFixture()
	start := day(1)
	end := day(3)

	got := FilterAt(movements, domain.MovementFilter{
		StartDate: &start, EndDate: &end, Period: "week",
	}, products, filterNow)
	assertIDs(t, got, "m3")
}

func TestFilterEndDateIsInclusive(t *testing.T) {
	movements, products := filterFixture()
	start := day(19)
	end := day(20) // m2 is at noon on the 20th

	got := FilterAt(movements, domain.MovementFilter{StartDate: &start, EndDate: &end}, products, filterNow)
	assertIDs(t, got, "m2")
}

func TestFilterByBranch(t *testing.T) {
	movements, products := filterFixture()

	// branch filters only ever match issues and returns
	got := FilterAt(movements, domain.MovementFilter{BranchNames: []string{"downtown branch"}}, products, filterNow)
	assertIDs(t, got, "m1")

	got = FilterAt(movements, domain.MovementFilter{BranchNames: []string{"Airport Branch"}}, products, filterNow)
	assertIDs(t, got, "m3")
}

func TestFilterByStatus(t *testing.T) {
	movements, products := filterFixture()
	got := FilterAt(movements, domain.MovementFilter{Statuses: []string{"deliver"}}, products, filterNow)
	assertIDs(t, got, "m1")
}

func TestFilterByType(t *testing.T) {
	movements, products := filterFixture()
	got := FilterAt(movements, domain.MovementFilter{
		Types: []domain.MovementType{domain.MovementPurchase, domain.MovementReturn},
	}, products, filterNow)
	assertIDs(t, got, "m2", "m3")
}

func TestFilterBySearch(t *testing.T) {
	movements, products := filterFixture()

	got := FilterAt(movements, domain.MovementFilter{Search: "po-55"}, products, filterNow)
	assertIDs(t, got, "m2")

	got = FilterAt(movements, domain.MovementFilter{Search: "mill"}, products, filterNow)
	assertIDs(t, got, "m2")
}

func TestFilterByProductID(t *testing.T) {
	movements, products := filterFixture()
	got := FilterAt(movements, domain.MovementFilter{ProductIDs: []string{"p1"}}, products, filterNow)
	assertIDs(t, got, "m1")
}

func TestFilterByProductNameFallback(t *testing.T) {
	movements, products := filterFixture()
	// legacy detail line without a product id matches by name containment
	movements = append(movements, domain.StockMovement{
		ID: "m4", Date: day(23), Type: domain.MovementPurchase, Reference: "TXN-1",
		Details: []domain.MovementDetail{{Name: "Legacy purchase: Olive Oil 1L", Quantity: 10}},
	})

	got := FilterAt(movements, domain.MovementFilter{ProductIDs: []string{"p1"}}, products, filterNow)
	assertIDs(t, got, "m1", "m4")
}

func TestFilterByCategoryAndLocation(t *testing.T) {
	movements, products := filterFixture()

	got := FilterAt(movements, domain.MovementFilter{Categories: []string{"Frozen"}}, products, filterNow)
	assertIDs(t, got, "m3")

	got = FilterAt(movements, domain.MovementFilter{Locations: []string{"aisle 2"}}, products, filterNow)
	assertIDs(t, got, "m2")
}

func TestFilterConjunction(t *testing.T) {
	movements, products := filterFixture()

	// each criterion alone matches something; together they must all hold
	got := FilterAt(movements, domain.MovementFilter{
		Types:      []domain.MovementType{domain.MovementIssue},
		Categories: []string{"Frozen"},
	}, products, filterNow)
	assertIDs(t, got)

	got = FilterAt(movements, domain.MovementFilter{
		Types:       []domain.MovementType{domain.MovementIssue},
		BranchNames: []string{"Downtown Branch"},
		Statuses:    []string{"Delivered"},
		ProductIDs:  []string{"p1"},
	}, products, filterNow)
	assertIDs(t, got, "m1")
}

func TestFilterPreservesOrder(t *testing.T) {
	movements, products := filterFixture()
	got := FilterAt(movements, domain.MovementFilter{Period: "month"}, products, filterNow)
	for i := 1; i < len(got); i++ {
		if got[i].Date.After(got[i-1].Date) {
			t.Errorf("filter reordered movements: %v after %v", got[i].ID, got[i-1].ID)
		}
	}
}
