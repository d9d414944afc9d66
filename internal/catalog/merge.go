package catalog

import (
	"sort"

	"haldeki/internal/domain/product"
	"haldeki/internal/domain/user"
)

// MergeRegionInfo pairs every product with its overlay for the active region,
// or nil when the region has none. Pure function of its inputs; a product
// missing from infos stays in the result (absence means "base terms", not
// "excluded").
func MergeRegionInfo(products []product.Product, infos []product.RegionPriceInfo) []product.ProductWithRegion {
	byProduct := make(map[int64]*product.RegionPriceInfo, len(infos))
	for i := range infos {
		byProduct[infos[i].ProductID] = &infos[i]
	}

	out := make([]product.ProductWithRegion, 0, len(products))
	for _, p := range products {
		out = append(out, product.ProductWithRegion{
			Product:    p,
			RegionInfo: byProduct[p.ID],
		})
	}
	return out
}

// SortByAvailability orders by availability rank (plenty < limited < last),
// region-level availability winning over the product's own. The sort is
// stable; callers must pass input in upstream query order, which is the
// documented tie-break.
func SortByAvailability(merged []product.ProductWithRegion) {
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].EffectiveAvailability().Rank() < merged[j].EffectiveAvailability().Rank()
	})
}

// FilterInRegion drops only rows whose overlay explicitly opts the product
// out of the region. Rows without an overlay pass through.
func FilterInRegion(merged []product.ProductWithRegion) []product.ProductWithRegion {
	out := merged[:0]
	for _, pw := range merged {
		if pw.RegionInfo != nil && !pw.RegionInfo.IsInRegion {
			continue
		}
		out = append(out, pw)
	}
	return out
}

// EffectivePrice resolves the unit price shown to (and frozen for) a caller:
// region price over base price, and for business accounts the business price
// when one is set at the winning level.
func EffectivePrice(pw product.ProductWithRegion, role string) float64 {
	if pw.RegionInfo != nil {
		if role == user.RoleBusiness && pw.RegionInfo.BusinessPrice != nil {
			return *pw.RegionInfo.BusinessPrice
		}
		return pw.RegionInfo.Price
	}
	if role == user.RoleBusiness && pw.Product.BusinessPrice != nil {
		return *pw.Product.BusinessPrice
	}
	return pw.Product.Price
}
