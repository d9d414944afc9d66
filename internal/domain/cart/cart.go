package cart

import "haldeki/internal/domain/product"

const (
	PriceSourceProduct  = "product"
	PriceSourceSupplier = "supplier"
)

// Item is one cart line. Product, Variant and UnitPriceAtAdd are snapshots
// captured when the line was first added; live catalog changes never touch
// amounts already in the cart.
type Item struct {
	ProductID         int64            `json:"product_id"`
	VariantID         *int64           `json:"variant_id,omitempty"`
	Quantity          int              `json:"quantity"`
	Product           product.Product  `json:"product"`
	Variant           *product.Variant `json:"variant,omitempty"`
	UnitPriceAtAdd    float64          `json:"unit_price_at_add"`
	RegionID          int64            `json:"region_id"`
	SupplierID        *int64           `json:"supplier_id"`
	SupplierName      string           `json:"supplier_name"`
	SupplierProductID *int64           `json:"supplier_product_id"`
	PriceSource       string           `json:"price_source"` // product or supplier
}

// LineTotal is always unit-price-at-add × variant multiplier × quantity,
// never recomputed from the live catalog price.
func (it Item) LineTotal() float64 {
	mult := 1.0
	if it.Variant != nil {
		mult = it.Variant.PriceMultiplier
	}
	return it.UnitPriceAtAdd * mult * float64(it.Quantity)
}
