// backend-go/internal/report/dedup.go
package report

import "github.com/wkassem/makhzan/backend-go/internal/domain"

type referenceKey struct {
	reference string
	kind      domain.MovementType
}

// dedupIndex suppresses a movement when an equivalent one was already
// accepted from another source table: same id, or same reference with the
// same type. The index is global across all source categories, so a purchase
// order and a legacy transaction sharing an id collapse to one movement.
type dedupIndex struct {
	ids  map[string]struct{}
	refs map[referenceKey]struct{}
}

func newDedupIndex() *dedupIndex {
	return &dedupIndex{
		ids:  make(map[string]struct{}),
		refs: make(map[referenceKey]struct{}),
	}
}

// hasUniqueReference reports whether a movement's reference identifies one
// source record. Audit-derived movements carry the product display name, which
// repeats across entries, so they only ever dedup by id.
func hasUniqueReference(m domain.StockMovement) bool {
	if m.Reference == "" {
		return false
	}
	switch m.Type {
	case domain.MovementAdd, domain.MovementEdit, domain.MovementDelete:
		return false
	}
	return true
}

func (d *dedupIndex) exists(m domain.StockMovement) bool {
	if _, ok := d.ids[m.ID]; ok {
		return true
	}
	if hasUniqueReference(m) {
		if _, ok := d.refs[referenceKey{m.Reference, m.Type}]; ok {
			return true
		}
	}
	return false
}

func (d *dedupIndex) add(m domain.StockMovement) {
	d.ids[m.ID] = struct{}{}
	if hasUniqueReference(m) {
		d.refs[referenceKey{m.Reference, m.Type}] = struct{}{}
	}
}
