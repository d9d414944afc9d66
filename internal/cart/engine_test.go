package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincart "haldeki/internal/domain/cart"
	"haldeki/internal/domain/product"
)

type noticeRecorder struct {
	codes []string
}

func (r *noticeRecorder) Notify(code, _ string) {
	r.codes = append(r.codes, code)
}

func elmaProduct() product.Product {
	return product.Product{
		ID:           1,
		Name:         "Amasya Elması",
		Price:        100,
		Unit:         "kg",
		Availability: product.AvailabilityPlenty,
	}
}

func kasaProduct() product.Product {
	return product.Product{
		ID:    2,
		Name:  "Domates",
		Price: 50,
		Unit:  "kg",
		Variants: []product.Variant{
			{ID: 10, ProductID: 2, Label: "Yarım Kasa", PriceMultiplier: 1},
			{ID: 11, ProductID: 2, Label: "Kasa", PriceMultiplier: 2, IsDefault: true},
		},
	}
}

func newTestEngine(t *testing.T) (*Engine, *noticeRecorder) {
	t.Helper()
	rec := &noticeRecorder{}
	e := NewEngine(NewMemStore(), "cart:test", rec)
	e.SetRegion(7)
	return e, rec
}

func TestAddMergesSameProductAndVariant(t *testing.T) {
	e, _ := newTestEngine(t)

	firstPrice := 120.0
	require.True(t, e.Add(elmaProduct(), 2, AddOptions{UnitPrice: &firstPrice}))

	// second add at a different live price must not touch the captured one
	secondPrice := 150.0
	require.True(t, e.Add(elmaProduct(), 3, AddOptions{UnitPrice: &secondPrice}))

	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 120.0, items[0].UnitPriceAtAdd)
}

func TestAddDifferentVariantsStaySeparate(t *testing.T) {
	e, _ := newTestEngine(t)
	p := kasaProduct()

	require.True(t, e.Add(p, 1, AddOptions{Variant: &p.Variants[0]}))
	require.True(t, e.Add(p, 1, AddOptions{Variant: &p.Variants[1]}))

	assert.Equal(t, 2, e.Count())
}

func TestAddResolvesDefaultVariant(t *testing.T) {
	e, _ := newTestEngine(t)
	p := kasaProduct()

	require.True(t, e.Add(p, 1, AddOptions{}))

	items := e.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Variant)
	assert.Equal(t, int64(11), items[0].Variant.ID) // the flagged default, not the first
}

func TestAddFallsBackToProductPrice(t *testing.T) {
	e, _ := newTestEngine(t)

	require.True(t, e.Add(elmaProduct(), 1, AddOptions{}))
	assert.Equal(t, 100.0, e.Items()[0].UnitPriceAtAdd)
}

func TestTotal(t *testing.T) {
	e, _ := newTestEngine(t)

	p1 := elmaProduct()
	price1 := 100.0
	require.True(t, e.Add(p1, 2, AddOptions{UnitPrice: &price1}))

	p2 := kasaProduct()
	price2 := 50.0
	require.True(t, e.Add(p2, 1, AddOptions{UnitPrice: &price2, Variant: &p2.Variants[1]}))

	// 100×1×2 + 50×2×1
	assert.Equal(t, 300.0, e.Total())
}

func TestAddWithoutRegionIsRejected(t *testing.T) {
	rec := &noticeRecorder{}
	e := NewEngine(NewMemStore(), "cart:test", rec)

	assert.False(t, e.Add(elmaProduct(), 1, AddOptions{}))
	assert.Zero(t, e.Count())
	assert.Equal(t, []string{NoticeSelectRegion}, rec.codes)
}

func TestRemoveMissingLineIsNoop(t *testing.T) {
	e, _ := newTestEngine(t)
	require.True(t, e.Add(elmaProduct(), 1, AddOptions{}))

	variantID := int64(99)
	e.Remove(42, nil)
	e.Remove(1, &variantID)

	assert.Equal(t, 1, e.Count())
}

func TestQuantityDroppingToZeroRemovesLine(t *testing.T) {
	e, _ := newTestEngine(t)
	require.True(t, e.Add(elmaProduct(), 2, AddOptions{}))

	e.SetQuantity(1, nil, 0)
	assert.Zero(t, e.Count())

	require.True(t, e.Add(elmaProduct(), 2, AddOptions{}))
	e.Increment(1, nil, -5)
	assert.Zero(t, e.Count())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewMemStore()
	e := NewEngine(store, "cart:rt", nil)
	e.SetRegion(7)

	price := 42.5
	require.True(t, e.Add(elmaProduct(), 3, AddOptions{
		UnitPrice: &price,
		Supplier:  &SupplierRef{ID: 5, Name: "Yeşil Hal", ProductID: 77},
	}))
	require.NoError(t, e.Save(context.Background()))

	loaded := NewEngine(store, "cart:rt", nil)
	require.NoError(t, loaded.Load(context.Background()))

	items := loaded.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 42.5, items[0].UnitPriceAtAdd)
	assert.Equal(t, domaincart.PriceSourceSupplier, items[0].PriceSource)
	assert.Equal(t, "Yeşil Hal", items[0].SupplierName)
	assert.Equal(t, 127.5, loaded.Total())
}

func TestLoadUpgradesLegacyBlob(t *testing.T) {
	store := NewMemStore()
	// version 1 predates supplier attribution on lines
	legacy := []byte(`{
		"version": 1,
		"items": [{
			"product_id": 1,
			"quantity": 2,
			"product": {"id": 1, "name": "Amasya Elması", "price": 100, "unit": "kg"},
			"unit_price_at_add": 90,
			"region_id": 7
		}]
	}`)
	require.NoError(t, store.Save(context.Background(), "cart:v1", legacy))

	e := NewEngine(store, "cart:v1", nil)
	require.NoError(t, e.Load(context.Background()))

	items := e.Items()
	require.Len(t, items, 1)
	assert.Nil(t, items[0].SupplierID)
	assert.Empty(t, items[0].SupplierName)
	assert.Nil(t, items[0].SupplierProductID)
	assert.Equal(t, domaincart.PriceSourceProduct, items[0].PriceSource)
	// not re-priced on upgrade
	assert.Equal(t, 90.0, items[0].UnitPriceAtAdd)
}

func TestLoadDiscardsCorruptBlob(t *testing.T) {
	store := NewMemStore()
	require.NoError(t, store.Save(context.Background(), "cart:bad", []byte("{not json")))

	e := NewEngine(store, "cart:bad", nil)
	require.NoError(t, e.Load(context.Background()))
	assert.Zero(t, e.Count())
}
