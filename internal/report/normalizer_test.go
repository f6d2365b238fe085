// backend-go/internal/report/normalizer_test.go
package report

import (
	"math"
	"strings"
	"testing"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

func testNormalizer() *Normalizer {
	return NewNormalizer([]domain.Product{
		{ID: "p1", ProductName: "Olive Oil 1L", Price: 10, OpeningStock: 40, CurrentStock: 30},
		{ID: "p2", ProductName: "Flour 5kg", Price: 4, AveragePrice: 5, CurrentStock: 100},
	})
}

func TestFromIssue(t *testing.T) {
	n := testNormalizer()
	deliveredAt := day(20)

	tests := []struct {
		name   string
		issue  domain.Issue
		wantOK bool
	}{
		{
			"delivered issue converts",
			domain.Issue{
				ID: "iss-1", InvoiceNumber: "INV-1", BranchName: "Downtown Branch",
				Delivered: true, DeliveredAt: &deliveredAt, CreatedAt: day(19),
				Products: []domain.IssueLine{{ProductID: "p1", ProductName: "Olive Oil 1L", Quantity: 5, UnitPrice: 12}},
			},
			true,
		},
		{
			"undelivered issue skipped",
			domain.Issue{
				ID: "iss-2", Delivered: false, CreatedAt: day(19),
				Products: []domain.IssueLine{{ProductID: "p1", Quantity: 5}},
			},
			false,
		},
		{
			"delivered issue without lines skipped",
			domain.Issue{ID: "iss-3", Delivered: true, CreatedAt: day(19)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := n.FromIssue(tt.issue)
			if ok != tt.wantOK {
				t.Fatalf("FromIssue ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}

			if m.Type != domain.MovementIssue {
				t.Errorf("type = %q, want issue", m.Type)
			}
			if !m.Date.Equal(deliveredAt) {
				t.Errorf("date = %v, want delivery date %v", m.Date, deliveredAt)
			}
			// quantity negated, valued at product cost not sale price
			if m.Details[0].Quantity != -5 {
				t.Errorf("quantity = %v, want -5", m.Details[0].Quantity)
			}
			if m.Details[0].Price != 10 {
				t.Errorf("price = %v, want product cost 10", m.Details[0].Price)
			}
			if m.Details[0].ProductID != "p1" {
				t.Errorf("product id = %q, want p1", m.Details[0].ProductID)
			}
			if m.TotalAmount != 50 {
				t.Errorf("total amount = %v, want 50", m.TotalAmount)
			}
		})
	}
}

func TestFromIssueDateFallsBackToUpdatedAt(t *testing.T) {
	n := testNormalizer()
	updatedAt := day(21)
	m, ok := n.FromIssue(domain.Issue{
		ID: "iss-4", Delivered: true, UpdatedAt: &updatedAt, CreatedAt: day(19),
		Products: []domain.IssueLine{{ProductID: "p1", Quantity: 1}},
	})
	if !ok {
		t.Fatal("expected movement")
	}
	if !m.Date.Equal(updatedAt) {
		t.Errorf("date = %v, want updated date %v", m.Date, updatedAt)
	}
}

func TestFromReturn(t *testing.T) {
	n := testNormalizer()
	m, ok := n.FromReturn(domain.Return{
		ID: "ret-1", ReturnNumber: "RET-1", BranchName: "Downtown Branch",
		CustomerName: "Acme Cafe", CreatedAt: day(5),
		Products: []domain.IssueLine{
			{ProductID: "p2", ProductName: "Flour 5kg", Quantity: 3, QuantityBase: 12},
		},
	})
	if !ok {
		t.Fatal("expected movement")
	}

	if m.Type != domain.MovementReturn {
		t.Errorf("type = %q, want return", m.Type)
	}
	// QuantityBase wins over Quantity
	if m.Details[0].Quantity != 12 {
		t.Errorf("quantity = %v, want base quantity 12", m.Details[0].Quantity)
	}
	if !strings.Contains(m.Description, "Acme Cafe") {
		t.Errorf("description %q should name the customer", m.Description)
	}
}

func TestFromReturnWithoutLines(t *testing.T) {
	n := testNormalizer()
	if _, ok := n.FromReturn(domain.Return{ID: "ret-2", CreatedAt: day(5)}); ok {
		t.Error("return without lines should be skipped")
	}
}

func TestFromPurchaseOrder(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name    string
		status  string
		wantOK  bool
		wantQty float64
	}{
		{"received order converts", "received", true, 30},
		{"completed order converts", "completed", true, 30},
		{"draft order skipped", "draft", false, 0},
		{"pending order skipped", "pending", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := n.FromPurchaseOrder(domain.PurchaseOrder{
				ID: "po-1", OrderNumber: "PO-1", SupplierName: "Mill Co",
				Status: tt.status, CreatedAt: day(2),
				Items: []domain.PurchaseOrderItem{
					{ProductID: "p2", RequestedQuantity: 40, ReceivedQuantity: 30, UnitPrice: 4.5},
				},
			})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && m.TotalQuantity != tt.wantQty {
				t.Errorf("total quantity = %v, want received quantity %v", m.TotalQuantity, tt.wantQty)
			}
		})
	}
}

func TestFromPurchaseOrderPriceFallsBackToCost(t *testing.T) {
	n := testNormalizer()
	m, ok := n.FromPurchaseOrder(domain.PurchaseOrder{
		ID: "po-2", Status: "received", CreatedAt: day(2),
		Items: []domain.PurchaseOrderItem{{ProductID: "p2", RequestedQuantity: 10}},
	})
	if !ok {
		t.Fatal("expected movement")
	}
	if m.Details[0].Price != 5 {
		t.Errorf("price = %v, want product cost 5", m.Details[0].Price)
	}
}

func TestFromAdjustment(t *testing.T) {
	n := testNormalizer()

	m, ok := n.FromAdjustment(domain.InventoryAdjustment{
		ID: "adj-1", ProductID: "p1", Difference: -3, Reason: "Damaged", CreatedAt: day(8),
	})
	if !ok {
		t.Fatal("expected movement")
	}
	if m.TotalQuantity != -3 {
		t.Errorf("total quantity = %v, want -3", m.TotalQuantity)
	}
	if m.Details[0].Total != -30 {
		t.Errorf("detail total = %v, want -30", m.Details[0].Total)
	}
	if m.TotalAmount != 30 {
		t.Errorf("total amount = %v, want abs value 30", m.TotalAmount)
	}

	// unresolvable product drops the adjustment
	if _, ok := n.FromAdjustment(domain.InventoryAdjustment{
		ID: "adj-2", ProductID: "ghost", Difference: 5, CreatedAt: day(8),
	}); ok {
		t.Error("adjustment with unknown product should be dropped")
	}
}

func TestFromTransaction(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name     string
		txnType  string
		wantOK   bool
		wantKind domain.MovementType
	}{
		{"purchase carries", "purchase", true, domain.MovementPurchase},
		{"adjustment carries", "adjustment", true, domain.MovementAdjustment},
		{"sale skipped", "sale", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := n.FromTransaction(domain.Transaction{
				ID: "txn-1", Type: tt.txnType, ProductID: "p1", ProductName: "Olive Oil 1L",
				Quantity: 4, UnitPrice: 10, TotalAmount: 40, CreatedAt: day(3),
			})
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && m.Type != tt.wantKind {
				t.Errorf("type = %q, want %q", m.Type, tt.wantKind)
			}
		})
	}
}

func TestFromTransactionUnknownProduct(t *testing.T) {
	n := testNormalizer()
	m, ok := n.FromTransaction(domain.Transaction{
		ID: "txn-2", Type: "purchase", ProductID: "ghost",
		Quantity: 2, UnitPrice: 9, CreatedAt: day(3),
	})
	if !ok {
		t.Fatal("expected movement")
	}
	if m.Details[0].Name != "Unknown Product" {
		t.Errorf("name = %q, want Unknown Product placeholder", m.Details[0].Name)
	}
	if m.Details[0].Price != 0 {
		t.Errorf("price = %v, want 0 for unresolvable product", m.Details[0].Price)
	}
}

func TestFromAuditLog(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name     string
		entry    domain.AuditLogEntry
		wantOK   bool
		wantKind domain.MovementType
	}{
		{
			"product create maps to add",
			domain.AuditLogEntry{ID: "log-1", Entity: "product", EntityID: "p1",
				EntityName: "Olive Oil 1L", Action: "create", Timestamp: day(1)},
			true, domain.MovementAdd,
		},
		{
			"product update maps to edit",
			domain.AuditLogEntry{ID: "log-2", Entity: "product", EntityID: "p1",
				Action: "update", Timestamp: day(2),
				Changes: []domain.AuditLogChange{{Field: "price", OldValue: "9", NewValue: "10"}}},
			true, domain.MovementEdit,
		},
		{
			"product delete maps to delete",
			domain.AuditLogEntry{ID: "log-3", Entity: "product", EntityID: "p1",
				Action: "delete", Timestamp: day(3)},
			true, domain.MovementDelete,
		},
		{
			"non-product entity skipped",
			domain.AuditLogEntry{ID: "log-4", Entity: "issue", EntityID: "iss-1",
				Action: "create", Timestamp: day(4)},
			false, "",
		},
		{
			"unknown action skipped",
			domain.AuditLogEntry{ID: "log-5", Entity: "product", EntityID: "p1",
				Action: "archive", Timestamp: day(5)},
			false, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := n.FromAuditLog(tt.entry)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && m.Type != tt.wantKind {
				t.Errorf("type = %q, want %q", m.Type, tt.wantKind)
			}
		})
	}
}

func TestFromAuditLogCreateCarriesOpeningStock(t *testing.T) {
	n := testNormalizer()
	m, ok := n.FromAuditLog(domain.AuditLogEntry{
		ID: "log-6", Entity: "product", EntityID: "p1",
		EntityName: "Olive Oil 1L", Action: "create", Timestamp: day(1),
	})
	if !ok {
		t.Fatal("expected movement")
	}

	if m.TotalQuantity != 40 {
		t.Errorf("total quantity = %v, want opening stock 40", m.TotalQuantity)
	}
	if math.Abs(m.TotalAmount-400) > 1e-9 {
		t.Errorf("total amount = %v, want 400", m.TotalAmount)
	}
	if len(m.Details) != 1 || !strings.Contains(m.Details[0].Name, "Opening Stock") {
		t.Errorf("details = %+v, want one opening-stock line", m.Details)
	}
}

func TestFromAuditLogChangeLabels(t *testing.T) {
	n := testNormalizer()
	m, ok := n.FromAuditLog(domain.AuditLogEntry{
		ID: "log-7", Entity: "product", EntityID: "p1", Action: "update", Timestamp: day(2),
		Changes: []domain.AuditLogChange{
			{Field: "productName", OldValue: "Old", NewValue: "New"},
			{Field: "customField", OldValue: "a", NewValue: "b"},
		},
	})
	if !ok {
		t.Fatal("expected movement")
	}

	if m.Details[0].Name != "Product Name: Old -> New" {
		t.Errorf("known field label = %q", m.Details[0].Name)
	}
	if m.Details[1].Name != "customField: a -> b" {
		t.Errorf("unknown field should keep its raw key, got %q", m.Details[1].Name)
	}
}

func TestConvertIsolatesPanics(t *testing.T) {
	m, ok := convert(func() (domain.StockMovement, bool) {
		var lines []domain.IssueLine
		_ = lines[3] // out of range
		return domain.StockMovement{}, true
	})
	if ok {
		t.Error("panicking conversion should report not-ok")
	}
	if m.ID != "" {
		t.Errorf("panicking conversion should yield zero movement, got %+v", m)
	}
}
