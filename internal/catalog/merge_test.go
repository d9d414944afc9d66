package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haldeki/internal/domain/product"
	"haldeki/internal/domain/user"
)

func TestMergeAgainstEmptyOverlayKeepsEveryProduct(t *testing.T) {
	prods := []product.Product{{ID: 1}, {ID: 2}, {ID: 3}}

	merged := MergeRegionInfo(prods, nil)

	require.Len(t, merged, 3)
	for _, pw := range merged {
		assert.Nil(t, pw.RegionInfo)
	}
}

func TestMergePairsByProductID(t *testing.T) {
	prods := []product.Product{{ID: 1, Price: 10}, {ID: 2, Price: 20}}
	infos := []product.RegionPriceInfo{{RegionID: 7, ProductID: 2, Price: 18, IsInRegion: true}}

	merged := MergeRegionInfo(prods, infos)

	require.Len(t, merged, 2)
	assert.Nil(t, merged[0].RegionInfo)
	require.NotNil(t, merged[1].RegionInfo)
	assert.Equal(t, 18.0, merged[1].RegionInfo.Price)
}

func TestSortByAvailabilityUsesRegionTierAndKeepsInputOrderOnTies(t *testing.T) {
	merged := []product.ProductWithRegion{
		{Product: product.Product{ID: 1, Availability: product.AvailabilityLast}},
		// region overlay downgrades a "plenty" product to "last"
		{
			Product:    product.Product{ID: 2, Availability: product.AvailabilityPlenty},
			RegionInfo: &product.RegionPriceInfo{ProductID: 2, Availability: product.AvailabilityLast, IsInRegion: true},
		},
		{Product: product.Product{ID: 3, Availability: product.AvailabilityPlenty}},
		{Product: product.Product{ID: 4, Availability: product.AvailabilityLimited}},
		{Product: product.Product{ID: 5, Availability: product.AvailabilityPlenty}},
	}

	SortByAvailability(merged)

	ids := make([]int64, len(merged))
	for i, pw := range merged {
		ids[i] = pw.Product.ID
	}
	// plenty (3,5 in input order), limited (4), last (1,2 in input order)
	assert.Equal(t, []int64{3, 5, 4, 1, 2}, ids)
}

func TestFilterInRegionDropsOnlyExplicitOptOuts(t *testing.T) {
	merged := []product.ProductWithRegion{
		{Product: product.Product{ID: 1}}, // no overlay: stays
		{
			Product:    product.Product{ID: 2},
			RegionInfo: &product.RegionPriceInfo{ProductID: 2, IsInRegion: false},
		},
		{
			Product:    product.Product{ID: 3},
			RegionInfo: &product.RegionPriceInfo{ProductID: 3, IsInRegion: true},
		},
	}

	kept := FilterInRegion(merged)

	require.Len(t, kept, 2)
	assert.Equal(t, int64(1), kept[0].Product.ID)
	assert.Equal(t, int64(3), kept[1].Product.ID)
}

func TestEffectivePrice(t *testing.T) {
	biz := 80.0
	regionBiz := 75.0

	base := product.Product{ID: 1, Price: 100, BusinessPrice: &biz}

	t.Run("base price without overlay", func(t *testing.T) {
		got := EffectivePrice(product.ProductWithRegion{Product: base}, user.RoleCustomer)
		assert.Equal(t, 100.0, got)
	})

	t.Run("business price without overlay", func(t *testing.T) {
		got := EffectivePrice(product.ProductWithRegion{Product: base}, user.RoleBusiness)
		assert.Equal(t, 80.0, got)
	})

	t.Run("region price wins", func(t *testing.T) {
		pw := product.ProductWithRegion{
			Product:    base,
			RegionInfo: &product.RegionPriceInfo{Price: 90, IsInRegion: true},
		}
		assert.Equal(t, 90.0, EffectivePrice(pw, user.RoleCustomer))
		// no region business price set: business accounts pay the region price
		assert.Equal(t, 90.0, EffectivePrice(pw, user.RoleBusiness))
	})

	t.Run("region business price wins for business accounts", func(t *testing.T) {
		pw := product.ProductWithRegion{
			Product:    base,
			RegionInfo: &product.RegionPriceInfo{Price: 90, BusinessPrice: &regionBiz, IsInRegion: true},
		}
		assert.Equal(t, 75.0, EffectivePrice(pw, user.RoleBusiness))
		assert.Equal(t, 90.0, EffectivePrice(pw, user.RoleCustomer))
	})
}
