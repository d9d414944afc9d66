package cart

import (
	"haldeki/internal/domain/cart"
	"haldeki/internal/domain/product"
)

// storageVersion is what every write stamps on the envelope. Reads tolerate
// older versions; writes never produce them.
const storageVersion = 2

// Notifier receives user-facing notices. The engine never returns errors for
// business outcomes; missing region, missing lines and corrupt storage all
// degrade to a no-op or a default plus a notice.
type Notifier interface {
	Notify(code, message string)
}

const NoticeSelectRegion = "select_region"

type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}

// Engine owns one cart: the ordered line list, price capture at add time,
// quantity mutations and persistence. Lines are keyed (productID, variantID);
// mutations are synchronous over in-memory state, persistence is last write
// wins (accepted limitation, no cross-owner merge).
type Engine struct {
	store    Storage
	key      string
	notify   Notifier
	regionID *int64
	items    []cart.Item
}

func NewEngine(store Storage, key string, n Notifier) *Engine {
	if n == nil {
		n = NopNotifier{}
	}
	return &Engine{store: store, key: key, notify: n}
}

func (e *Engine) SetRegion(regionID int64) {
	e.regionID = &regionID
}

func (e *Engine) Region() *int64 {
	return e.regionID
}

// SupplierRef attributes a line to a specific supplier's offer.
type SupplierRef struct {
	ID        int64
	Name      string
	ProductID int64
}

// AddOptions carries the caller-resolved pieces of an add. An explicit
// variant wins over the product's default; an explicit unit price (region,
// business or supplier aware) wins over the product's base price.
type AddOptions struct {
	Variant   *product.Variant
	UnitPrice *float64
	Supplier  *SupplierRef
}

// Add appends or merges a line. Requires an active region; without one the
// cart is left untouched and a select-region notice is raised. Re-adding the
// same (product, variant) sums quantities but keeps every captured field of
// the first add, including its price.
func (e *Engine) Add(p product.Product, quantity int, opts AddOptions) bool {
	if quantity <= 0 {
		return false
	}
	if e.regionID == nil {
		e.notify.Notify(NoticeSelectRegion, "Lütfen önce bölge seçin")
		return false
	}

	variant := opts.Variant
	if variant == nil {
		variant = p.DefaultVariant()
	}
	var variantID *int64
	if variant != nil {
		variantID = &variant.ID
	}

	if existing := e.find(p.ID, variantID); existing != nil {
		existing.Quantity += quantity
		return true
	}

	unitPrice := p.Price
	if opts.UnitPrice != nil {
		unitPrice = *opts.UnitPrice
	}

	item := cart.Item{
		ProductID:      p.ID,
		VariantID:      variantID,
		Quantity:       quantity,
		Product:        p,
		Variant:        variant,
		UnitPriceAtAdd: unitPrice,
		RegionID:       *e.regionID,
		PriceSource:    cart.PriceSourceProduct,
	}
	if opts.Supplier != nil {
		item.SupplierID = &opts.Supplier.ID
		item.SupplierName = opts.Supplier.Name
		item.SupplierProductID = &opts.Supplier.ProductID
		item.PriceSource = cart.PriceSourceSupplier
	}
	e.items = append(e.items, item)
	return true
}

// Remove deletes the exact matching line; a miss is a no-op, not an error.
func (e *Engine) Remove(productID int64, variantID *int64) {
	for i := range e.items {
		if e.items[i].ProductID == productID && sameVariant(e.items[i].VariantID, variantID) {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces a line's quantity. Anything that would leave the
// quantity at zero or below removes the line instead.
func (e *Engine) SetQuantity(productID int64, variantID *int64, quantity int) {
	if quantity <= 0 {
		e.Remove(productID, variantID)
		return
	}
	if it := e.find(productID, variantID); it != nil {
		it.Quantity = quantity
	}
}

// Increment adjusts a line's quantity by delta, removing the line when the
// result drops to zero or below.
func (e *Engine) Increment(productID int64, variantID *int64, delta int) {
	it := e.find(productID, variantID)
	if it == nil {
		return
	}
	if it.Quantity+delta <= 0 {
		e.Remove(productID, variantID)
		return
	}
	it.Quantity += delta
}

func (e *Engine) Clear() {
	e.items = nil
}

func (e *Engine) Items() []cart.Item {
	out := make([]cart.Item, len(e.items))
	copy(out, e.items)
	return out
}

func (e *Engine) Count() int {
	return len(e.items)
}

// Total is derived on every read and never persisted, so lines and total
// cannot drift apart.
func (e *Engine) Total() float64 {
	var sum float64
	for i := range e.items {
		sum += e.items[i].LineTotal()
	}
	return sum
}

func (e *Engine) find(productID int64, variantID *int64) *cart.Item {
	for i := range e.items {
		if e.items[i].ProductID == productID && sameVariant(e.items[i].VariantID, variantID) {
			return &e.items[i]
		}
	}
	return nil
}

func sameVariant(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
