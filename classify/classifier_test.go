package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/catalog"
	"pricewatch/fetcher"
	"pricewatch/pricing"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cats, err := catalog.New([]catalog.Category{
		{Code: 10, Name: "ENGINE", TargetMarginPct: 30, SoldByAC: true},
		{Code: 20, Name: "BRAKES", TargetMarginPct: 40, SoldByAC: false},
	})
	require.NoError(t, err)
	return cats
}

func TestClassifyBelowTargetMargin(t *testing.T) {
	cats := testCatalog(t)

	// cost=50 sale=60: margin 20%, below the 30% ENGINE target.
	record := fetcher.RemoteRecord{
		ItemCode: 1, Fabrication: "FAB-1", Name: "Oil pump",
		SalePrice: 60, Cost: 50, StockBalance: 5, CategoryCode: 10,
	}
	item, ok := Classify(record, catalog.ItemSnapshot{}, cats)
	require.True(t, ok)

	assert.Equal(t, pricing.Numeric(20), item.Margin)
	assert.True(t, item.BelowTargetMargin)
	assert.False(t, item.CostExceedsSale)
	assert.True(t, item.HasStock)
	assert.True(t, item.SoldByAC)
	assert.Equal(t, "ENGINE", item.CategoryName)
	assert.Equal(t, SeverityBelowMargin, item.SeverityRank)
}

func TestClassifyCostExceedsSale(t *testing.T) {
	cats := testCatalog(t)

	record := fetcher.RemoteRecord{
		ItemCode: 2, Name: "Brake disc",
		SalePrice: 90, Cost: 100, StockBalance: 0, CategoryCode: 20,
	}
	item, ok := Classify(record, catalog.ItemSnapshot{}, cats)
	require.True(t, ok)

	assert.True(t, item.CostExceedsSale)
	assert.False(t, item.HasStock)
	assert.Equal(t, SeverityCostAbove, item.SeverityRank)
}

// Cost exceeding sale dominates the rank even when the margin is also
// below target.
func TestSeverityRankPrecedence(t *testing.T) {
	cats := testCatalog(t)

	record := fetcher.RemoteRecord{
		ItemCode: 3, SalePrice: 90, Cost: 90, StockBalance: 1, CategoryCode: 10,
	}
	item, ok := Classify(record, catalog.ItemSnapshot{}, cats)
	require.True(t, ok)
	assert.True(t, item.BelowTargetMargin)
	assert.Equal(t, SeverityCostAbove, item.SeverityRank)
}

func TestClassifyZeroCostNeverBelowTarget(t *testing.T) {
	cats := testCatalog(t)

	record := fetcher.RemoteRecord{
		ItemCode: 4, SalePrice: 50, Cost: 0, StockBalance: 2, CategoryCode: 10,
	}
	item, ok := Classify(record, catalog.ItemSnapshot{}, cats)
	require.True(t, ok)

	assert.Equal(t, pricing.PercentCostZero, item.Margin.Kind)
	assert.False(t, item.BelowTargetMargin)
	assert.False(t, item.CostExceedsSale)
	assert.Equal(t, SeverityNone, item.SeverityRank)
}

func TestClassifyUnknownCategoryDropped(t *testing.T) {
	cats := testCatalog(t)

	record := fetcher.RemoteRecord{ItemCode: 5, CategoryCode: 999}
	_, ok := Classify(record, catalog.ItemSnapshot{}, cats)
	assert.False(t, ok)
}

func TestClassifySnapshotFallback(t *testing.T) {
	cats := testCatalog(t)

	record := fetcher.RemoteRecord{
		ItemCode: 6, Name: "  ", Fabrication: "",
		SalePrice: 100, Cost: 50, CategoryCode: 20,
	}
	snap := catalog.ItemSnapshot{Code: 6, Name: "Wheel bearing", Fabrication: "WB-100"}
	item, ok := Classify(record, snap, cats)
	require.True(t, ok)

	assert.Equal(t, "Wheel bearing", item.Name)
	assert.Equal(t, "WB-100", item.Fabrication)
}

func TestClassifyAllPreservesOrderAndDrops(t *testing.T) {
	cats := testCatalog(t)

	records := []fetcher.RemoteRecord{
		{ItemCode: 1, SalePrice: 60, Cost: 50, CategoryCode: 10},
		{ItemCode: 2, SalePrice: 10, Cost: 5, CategoryCode: 999}, // unknown, dropped
		{ItemCode: 3, SalePrice: 70, Cost: 80, CategoryCode: 20},
	}
	items := ClassifyAll(records, nil, cats)

	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ItemCode)
	assert.Equal(t, int64(3), items[1].ItemCode)
}
