package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/catalog"
	"pricewatch/fetcher"
	"pricewatch/pricing"
)

func comparison(name, category string, delta pricing.Percent) PriceComparison {
	return PriceComparison{Name: name, CategoryName: category, Delta: delta}
}

func TestAssembleIncreaseExcludesDecreasesAndUnchanged(t *testing.T) {
	comparisons := []PriceComparison{
		comparison("up", "FILTERS", pricing.Numeric(15)),
		comparison("down", "FILTERS", pricing.Numeric(-10)),
		comparison("flat", "FILTERS", pricing.Numeric(0)),
		comparison("was zero", "FILTERS", pricing.Percent{Kind: pricing.PercentBaselineZero}),
	}

	sections := AssembleIncrease(comparisons)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Rows, 2)
	assert.Equal(t, "up", sections[0].Rows[0].Cells[1].Value)
	assert.Equal(t, "was zero", sections[0].Rows[1].Cells[1].Value)
}

func TestAssembleIncreaseGroupsByCategoryInEncounterOrder(t *testing.T) {
	comparisons := []PriceComparison{
		comparison("a", "FILTERS", pricing.Numeric(5)),
		comparison("b", "ENGINE", pricing.Numeric(8)),
		comparison("c", "FILTERS", pricing.Numeric(3)),
	}

	sections := AssembleIncrease(comparisons)
	require.Len(t, sections, 2)
	assert.Equal(t, "FILTERS", sections[0].Name)
	assert.Equal(t, "ENGINE", sections[1].Name)
	assert.Len(t, sections[0].Rows, 2)
	assert.Len(t, sections[1].Rows, 1)
}

func TestAssembleIncreaseSortsNumericDescSymbolicLast(t *testing.T) {
	comparisons := []PriceComparison{
		comparison("small", "ENGINE", pricing.Numeric(5)),
		comparison("zero baseline", "ENGINE", pricing.Percent{Kind: pricing.PercentBaselineZero}),
		comparison("big", "ENGINE", pricing.Numeric(50)),
		comparison("medium", "ENGINE", pricing.Numeric(20)),
	}

	sections := AssembleIncrease(comparisons)
	require.Len(t, sections, 1)
	rows := sections[0].Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "big", rows[0].Cells[1].Value)
	assert.Equal(t, "medium", rows[1].Cells[1].Value)
	assert.Equal(t, "small", rows[2].Cells[1].Value)
	assert.Equal(t, "zero baseline", rows[3].Cells[1].Value)
	assert.Equal(t, "sale price was zero", rows[3].Cells[4].Value)
}

func TestBuildComparisons(t *testing.T) {
	cats, err := catalog.New([]catalog.Category{
		{Code: 10, Name: "ENGINE", TargetMarginPct: 30},
	})
	require.NoError(t, err)

	snapshots := []catalog.ItemSnapshot{
		{Code: 1, Name: "Piston", Fabrication: "P-1", PriorPrice: 100},
		{Code: 2, Name: "Gasket", Fabrication: "G-1", PriorPrice: 10},
	}
	records := []fetcher.RemoteRecord{
		{ItemCode: 1, SalePrice: 150, CategoryCode: 10},
		{ItemCode: 2, SalePrice: 12, CategoryCode: 999}, // unknown category
		{ItemCode: 3, SalePrice: 99, CategoryCode: 10},  // no baseline entry
	}

	comparisons := BuildComparisons(records, snapshots, cats)
	require.Len(t, comparisons, 1)
	assert.Equal(t, int64(1), comparisons[0].ItemCode)
	assert.Equal(t, "Piston", comparisons[0].Name)
	assert.Equal(t, float64(100), comparisons[0].OldPrice)
	assert.Equal(t, float64(150), comparisons[0].NewPrice)
	assert.Equal(t, pricing.Numeric(50), comparisons[0].Delta)
	assert.Equal(t, "ENGINE", comparisons[0].CategoryName)
}
