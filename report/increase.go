package report

import (
	"fmt"
	"sort"

	"pricewatch/catalog"
	"pricewatch/fetcher"
	"pricewatch/pricing"
)

// PriceComparison pairs an item's baseline price with its current price.
type PriceComparison struct {
	ItemCode     int64
	Fabrication  string
	Name         string
	OldPrice     float64
	NewPrice     float64
	Delta        pricing.Percent
	CategoryName string
}

// BuildComparisons joins resolved records with their baseline snapshots and
// computes the price delta for each pair. Records without a baseline entry
// or with an unknown category are dropped, same policy as classification.
func BuildComparisons(records []fetcher.RemoteRecord, snapshots []catalog.ItemSnapshot, cats *catalog.Catalog) []PriceComparison {
	byCode := make(map[int64]catalog.ItemSnapshot, len(snapshots))
	for _, snap := range snapshots {
		byCode[snap.Code] = snap
	}

	comparisons := make([]PriceComparison, 0, len(records))
	for _, record := range records {
		snap, ok := byCode[record.ItemCode]
		if !ok {
			continue
		}
		category, ok := cats.Lookup(record.CategoryCode)
		if !ok {
			continue
		}

		comparisons = append(comparisons, PriceComparison{
			ItemCode:     record.ItemCode,
			Fabrication:  snap.Fabrication,
			Name:         snap.Name,
			OldPrice:     snap.PriorPrice,
			NewPrice:     record.SalePrice,
			Delta:        pricing.Change(snap.PriorPrice, record.SalePrice),
			CategoryName: category.Name,
		})
	}
	return comparisons
}

func increaseColumns() []Column {
	return []Column{
		{Header: "Fabrication Code", Width: 30},
		{Header: "Item Name", Width: 60},
		{Header: "Old Price", Width: 25, Currency: true},
		{Header: "New Price", Width: 25, Currency: true},
		{Header: "Percent Increase", Width: 30},
	}
}

// AssembleIncrease groups price comparisons into one section per category
// name, in first-encounter order.
//
// Only increases are of interest here: comparisons with a negative delta
// are discarded, and unchanged prices (a zero delta, including the
// old==0 && new==0 case) are excluded by explicit rule. Zero-baseline rows
// are kept and sorted after all numeric rows, since their increase is
// unmeasurable.
func AssembleIncrease(comparisons []PriceComparison) []Section {
	grouped := make(map[string][]PriceComparison)
	var order []string

	for _, cmp := range comparisons {
		if cmp.Delta.IsNumeric() && cmp.Delta.Value <= 0 {
			continue
		}
		if _, seen := grouped[cmp.CategoryName]; !seen {
			order = append(order, cmp.CategoryName)
		}
		grouped[cmp.CategoryName] = append(grouped[cmp.CategoryName], cmp)
	}

	sections := make([]Section, 0, len(order))
	for _, name := range order {
		group := grouped[name]
		sort.SliceStable(group, func(i, j int) bool {
			a, b := group[i].Delta, group[j].Delta
			switch {
			case a.IsNumeric() && b.IsNumeric():
				return a.Value > b.Value
			case a.IsNumeric():
				return true // numeric rows before symbolic ones
			default:
				return false
			}
		})

		rows := make([]Row, 0, len(group))
		for _, cmp := range group {
			rows = append(rows, Row{Cells: []Cell{
				{Value: cmp.Fabrication},
				{Value: cmp.Name},
				{Value: cmp.OldPrice},
				{Value: cmp.NewPrice},
				{Value: increaseDisplay(cmp.Delta)},
			}})
		}
		sections = append(sections, Section{Name: name, Columns: increaseColumns(), Rows: rows})
	}

	return sections
}

func increaseDisplay(delta pricing.Percent) string {
	if delta.Kind == pricing.PercentBaselineZero {
		return "sale price was zero"
	}
	return fmt.Sprintf("%d%%", delta.Value)
}
