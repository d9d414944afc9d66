package product

import "time"

// Coarse stock-level indicator, distinct from the exact stock quantity.
type Availability string

const (
	AvailabilityPlenty  Availability = "plenty"
	AvailabilityLimited Availability = "limited"
	AvailabilityLast    Availability = "last"
)

// Rank orders availability tiers for sorting: plenty < limited < last.
// Unknown values sort after everything else.
func (a Availability) Rank() int {
	switch a {
	case AvailabilityPlenty:
		return 0
	case AvailabilityLimited:
		return 1
	case AvailabilityLast:
		return 2
	}
	return 3
}

type PriceChange string

const (
	PriceUp     PriceChange = "up"
	PriceDown   PriceChange = "down"
	PriceStable PriceChange = "stable"
)

type Product struct {
	ID            int64        `json:"id"`
	CategoryID    int64        `json:"category_id"`
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Price         float64      `json:"price"`
	BusinessPrice *float64     `json:"business_price,omitempty"`
	Unit          string       `json:"unit"` // kg, adet, demet, paket, lt
	Origin        string       `json:"origin,omitempty"`
	QualityGrade  string       `json:"quality_grade,omitempty"` // premium, standart, ekonomik
	ArrivalDate   *time.Time   `json:"arrival_date,omitempty"`
	Availability  Availability `json:"availability"`
	PriceChange   PriceChange  `json:"price_change"`
	PreviousPrice *float64     `json:"previous_price,omitempty"`
	ImageURL      string       `json:"image_url,omitempty"`
	IsActive      bool         `json:"is_active"`
	CreatedBy     *int64       `json:"created_by,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Variants      []Variant    `json:"variants,omitempty"`
}

type Variant struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"product_id"`
	Label           string  `json:"label"`
	PriceMultiplier float64 `json:"price_multiplier"`
	IsDefault       bool    `json:"is_default"`
}

// DefaultVariant resolves the variant used when the caller picks none:
// the first one flagged default, else the first in list order, else nil
// for variant-less products.
func (p Product) DefaultVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].IsDefault {
			return &p.Variants[i]
		}
	}
	if len(p.Variants) > 0 {
		return &p.Variants[0]
	}
	return nil
}

// RegionPriceInfo is a per-region override of a product's commercial terms.
// A product with no row for the active region still sells at its base terms;
// only IsInRegion=false excludes it.
type RegionPriceInfo struct {
	RegionID      int64        `json:"region_id"`
	ProductID     int64        `json:"product_id"`
	Price         float64      `json:"price"`
	PreviousPrice *float64     `json:"previous_price,omitempty"`
	PriceChange   PriceChange  `json:"price_change"`
	Availability  Availability `json:"availability"`
	StockQuantity int          `json:"stock_quantity"`
	IsInRegion    bool         `json:"is_in_region"`
	BusinessPrice *float64     `json:"business_price,omitempty"`
}

// ProductWithRegion pairs a catalog product with its overlay for the active
// region. RegionInfo == nil means "use base terms", never "excluded".
type ProductWithRegion struct {
	Product    Product          `json:"product"`
	RegionInfo *RegionPriceInfo `json:"region_info"`
}

// EffectiveAvailability is the region-level availability when an overlay
// exists, otherwise the product's own.
func (pw ProductWithRegion) EffectiveAvailability() Availability {
	if pw.RegionInfo != nil {
		return pw.RegionInfo.Availability
	}
	return pw.Product.Availability
}
