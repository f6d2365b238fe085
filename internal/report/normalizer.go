// backend-go/internal/report/normalizer.go
package report

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/wkassem/makhzan/backend-go/internal/domain"
)

const unknownProductName = "Unknown Product"

// fieldLabels maps known audit-log field keys to display labels. Unknown
// fields fall back to their raw key.
var fieldLabels = map[string]string{
	"productName":                 "Product Name",
	"productCode":                 "Product Code",
	"itemNumber":                  "Item Number",
	"category":                    "Category",
	"location":                    "Location",
	"unit":                        "Unit",
	"price":                       "Price",
	"averagePrice":                "Average Price",
	"openingStock":                "Opening Stock",
	"purchases":                   "Purchases",
	"issues":                      "Issues",
	"returns":                     "Returns",
	"currentStock":                "Current Stock",
	"minStockLimit":               "Min Stock Limit",
	"lowStockThresholdPercentage": "Low Stock Threshold %",
	"quantityPerCarton":           "Quantity Per Carton",
}

// Normalizer converts each of the heterogeneous source record types into the
// canonical StockMovement shape. Product lookups enrich lines with names and
// unit costs; a missing product degrades to placeholders instead of failing,
// except for adjustments, which are dropped.
type Normalizer struct {
	products map[string]*domain.Product
}

func NewNormalizer(products []domain.Product) *Normalizer {
	index := make(map[string]*domain.Product, len(products))
	for i := range products {
		index[products[i].ID] = &products[i]
	}
	return &Normalizer{products: index}
}

func (n *Normalizer) lookup(productID string) *domain.Product {
	return n.products[productID]
}

// lineCost prefers the live product cost over the price recorded on the line,
// so issue/return lines are valued at cost rather than sale price.
func (n *Normalizer) lineCost(productID string, recorded float64) float64 {
	if p := n.lookup(productID); p != nil {
		if c := p.Cost(); c > 0 {
			return c
		}
	}
	return recorded
}

func (n *Normalizer) lineName(productID, recorded string) string {
	if recorded != "" {
		return recorded
	}
	if p := n.lookup(productID); p != nil {
		return p.ProductName
	}
	return unknownProductName
}

// FromAuditLog maps a product audit entry to an add/edit/delete movement.
// Entries for other entities produce nothing.
func (n *Normalizer) FromAuditLog(e domain.AuditLogEntry) (domain.StockMovement, bool) {
	if e.Entity != "product" {
		return domain.StockMovement{}, false
	}

	var movementType domain.MovementType
	switch e.Action {
	case "create":
		movementType = domain.MovementAdd
	case "update":
		movementType = domain.MovementEdit
	case "delete":
		movementType = domain.MovementDelete
	default:
		return domain.StockMovement{}, false
	}

	details := make([]domain.MovementDetail, 0, len(e.Changes)+1)
	for _, c := range e.Changes {
		label, ok := fieldLabels[c.Field]
		if !ok {
			label = c.Field
		}
		details = append(details, domain.MovementDetail{
			ProductID: e.EntityID,
			Name:      fmt.Sprintf("%s: %s -> %s", label, c.OldValue, c.NewValue),
		})
	}

	var quantityChange, valueChange float64
	if movementType == domain.MovementAdd {
		if p := n.lookup(e.EntityID); p != nil {
			quantityChange = p.OpeningStock
			valueChange = p.OpeningStock * p.Price
			if p.OpeningStock > 0 {
				details = append(details, domain.MovementDetail{
					ProductID: p.ID,
					Name:      fmt.Sprintf("Opening Stock at creation: %s", p.ProductName),
					Quantity:  p.OpeningStock,
					Price:     p.Price,
					Total:     p.OpeningStock * p.Price,
				})
			}
		}
	}

	reference := e.EntityName
	if reference == "" {
		reference = e.EntityID
	}

	return domain.StockMovement{
		ID:            e.ID,
		Date:          e.Timestamp,
		Type:          movementType,
		Reference:     reference,
		Description:   fmt.Sprintf("%s %s by %s", e.Action, e.EntityName, e.UserName),
		ItemsCount:    len(details),
		TotalQuantity: quantityChange,
		TotalAmount:   abs(valueChange),
		Details:       details,
	}, true
}

// FromTransaction maps a legacy transaction. Only purchase and adjustment
// rows are carried; sales are covered by the richer issue records.
func (n *Normalizer) FromTransaction(t domain.Transaction) (domain.StockMovement, bool) {
	var movementType domain.MovementType
	switch t.Type {
	case "purchase":
		movementType = domain.MovementPurchase
	case "adjustment":
		movementType = domain.MovementAdjustment
	default:
		return domain.StockMovement{}, false
	}

	name := t.ProductName
	price := t.UnitPrice
	if p := n.lookup(t.ProductID); p != nil {
		if name == "" {
			name = p.ProductName
		}
	} else if name == "" {
		name = unknownProductName
		price = 0
	}

	total := t.TotalAmount
	if total == 0 {
		total = t.Quantity * price
	}
	if t.Quantity < 0 && total > 0 {
		total = -total
	}

	return domain.StockMovement{
		ID:            t.ID,
		Date:          t.CreatedAt,
		Type:          movementType,
		Reference:     t.ID,
		Description:   fmt.Sprintf("Legacy %s: %s", t.Type, name),
		ItemsCount:    1,
		TotalQuantity: t.Quantity,
		TotalAmount:   abs(total),
		Details: []domain.MovementDetail{{
			ProductID: t.ProductID,
			Name:      name,
			Quantity:  t.Quantity,
			Price:     price,
			Total:     total,
		}},
	}, true
}

// FromIssue maps a delivered issue to a stock-decreasing movement. Undelivered
// issues have not touched stock yet and are skipped.
func (n *Normalizer) FromIssue(is domain.Issue) (domain.StockMovement, bool) {
	if !is.Delivered || len(is.Products) == 0 {
		return domain.StockMovement{}, false
	}

	details := make([]domain.MovementDetail, 0, len(is.Products))
	var totalQuantity, totalAmount float64
	for _, line := range is.Products {
		cost := n.lineCost(line.ProductID, line.UnitPrice)
		qty := -line.Quantity
		details = append(details, domain.MovementDetail{
			ProductID: line.ProductID,
			Name:      n.lineName(line.ProductID, line.ProductName),
			Quantity:  qty,
			Price:     cost,
			Total:     qty * cost,
		})
		totalQuantity += qty
		totalAmount += qty * cost
	}

	date := is.CreatedAt
	if is.DeliveredAt != nil {
		date = *is.DeliveredAt
	} else if is.UpdatedAt != nil {
		date = *is.UpdatedAt
	}

	reference := is.InvoiceNumber
	if reference == "" {
		reference = is.ID
	}

	status := is.Status
	if status == "" {
		status = "Delivered"
	}

	return domain.StockMovement{
		ID:            is.ID,
		Date:          date,
		Type:          domain.MovementIssue,
		Reference:     reference,
		Description:   fmt.Sprintf("Issue to %s", is.BranchName),
		Status:        status,
		ItemsCount:    len(details),
		TotalQuantity: totalQuantity,
		TotalAmount:   abs(totalAmount),
		Details:       details,
	}, true
}

// FromReturn maps a return to a stock-increasing movement. Returns always
// participate. QuantityBase wins over Quantity when recorded.
func (n *Normalizer) FromReturn(r domain.Return) (domain.StockMovement, bool) {
	if len(r.Products) == 0 {
		return domain.StockMovement{}, false
	}

	details := make([]domain.MovementDetail, 0, len(r.Products))
	var totalQuantity, totalAmount float64
	for _, line := range r.Products {
		qty := line.Quantity
		if line.QuantityBase > 0 {
			qty = line.QuantityBase
		}
		cost := n.lineCost(line.ProductID, line.UnitPrice)
		details = append(details, domain.MovementDetail{
			ProductID: line.ProductID,
			Name:      n.lineName(line.ProductID, line.ProductName),
			Quantity:  qty,
			Price:     cost,
			Total:     qty * cost,
		})
		totalQuantity += qty
		totalAmount += qty * cost
	}

	source := r.CustomerName
	if source == "" {
		source = r.BranchName
	}

	reference := r.ReturnNumber
	if reference == "" {
		reference = r.ID
	}

	return domain.StockMovement{
		ID:            r.ID,
		Date:          r.CreatedAt,
		Type:          domain.MovementReturn,
		Reference:     reference,
		Description:   fmt.Sprintf("Return from %s", source),
		Status:        r.Status,
		ItemsCount:    len(details),
		TotalQuantity: totalQuantity,
		TotalAmount:   abs(totalAmount),
		Details:       details,
	}, true
}

// FromPurchaseOrder maps a received or completed order to a purchase
// movement. Received quantity wins over requested; the item's own unit price
// wins over the product cost.
func (n *Normalizer) FromPurchaseOrder(po domain.PurchaseOrder) (domain.StockMovement, bool) {
	if po.Status != "received" && po.Status != "completed" {
		return domain.StockMovement{}, false
	}
	if len(po.Items) == 0 {
		return domain.StockMovement{}, false
	}

	details := make([]domain.MovementDetail, 0, len(po.Items))
	var totalQuantity, totalAmount float64
	for _, item := range po.Items {
		qty := item.RequestedQuantity
		if item.ReceivedQuantity > 0 {
			qty = item.ReceivedQuantity
		}
		price := item.UnitPrice
		if price == 0 {
			if p := n.lookup(item.ProductID); p != nil {
				price = p.Cost()
			}
		}
		details = append(details, domain.MovementDetail{
			ProductID: item.ProductID,
			Name:      n.lineName(item.ProductID, item.ProductName),
			Quantity:  qty,
			Price:     price,
			Total:     qty * price,
		})
		totalQuantity += qty
		totalAmount += qty * price
	}

	date := po.CreatedAt
	if po.UpdatedAt != nil {
		date = *po.UpdatedAt
	}

	reference := po.OrderNumber
	if reference == "" {
		reference = po.ID
	}

	return domain.StockMovement{
		ID:            po.ID,
		Date:          date,
		Type:          domain.MovementPurchase,
		Reference:     reference,
		Description:   fmt.Sprintf("Purchase from %s", po.SupplierName),
		Status:        po.Status,
		ItemsCount:    len(details),
		TotalQuantity: totalQuantity,
		TotalAmount:   abs(totalAmount),
		Details:       details,
	}, true
}

// FromAdjustment maps a signed stock correction. An adjustment whose product
// cannot be resolved is meaningless and is dropped, not defaulted.
func (n *Normalizer) FromAdjustment(a domain.InventoryAdjustment) (domain.StockMovement, bool) {
	p := n.lookup(a.ProductID)
	if p == nil {
		log.Debug().Str("adjustment_id", a.ID).Str("product_id", a.ProductID).
			Msg("dropping adjustment with unresolvable product")
		return domain.StockMovement{}, false
	}

	cost := p.Cost()
	total := a.Difference * cost

	return domain.StockMovement{
		ID:            a.ID,
		Date:          a.CreatedAt,
		Type:          domain.MovementAdjustment,
		Reference:     a.ID,
		Description:   fmt.Sprintf("Adjustment: %s (%s)", p.ProductName, a.Reason),
		ItemsCount:    1,
		TotalQuantity: a.Difference,
		TotalAmount:   abs(total),
		Details: []domain.MovementDetail{{
			ProductID: a.ProductID,
			Name:      p.ProductName,
			Quantity:  a.Difference,
			Price:     cost,
			Total:     total,
		}},
	}, true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
