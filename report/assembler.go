package report

import (
	"fmt"
	"sort"

	"pricewatch/classify"
)

// Margin report section names, in their fixed output order.
const (
	SectionNoStock       = "No Stock"
	SectionStockSoldByAC = "In Stock, Sold By AC"
	SectionStockNotByAC  = "In Stock, Not Sold By AC"
)

// marginColumns is the shared column schema of the three margin sections.
func marginColumns() []Column {
	return []Column{
		{Header: "Item Code", Width: 25},
		{Header: "Fabrication Code", Width: 20},
		{Header: "Name", Width: 50},
		{Header: "Sale Price", Width: 25, Currency: true},
		{Header: "Cost Value", Width: 25, Currency: true},
		{Header: "Current Margin", Width: 25},
		{Header: "Target Margin", Width: 25},
		{Header: "Cost Above Sale", Width: 25},
		{Header: "Below Margin", Width: 25},
		{Header: "Sold By AC", Width: 25},
		{Header: "Has Stock", Width: 20},
	}
}

// AssembleMargin partitions classified items into the three stock/sale
// sections and orders each one by severity rank, highest first.
//
// The sort is stable: items with the same rank keep their relative input
// order, which makes consecutive runs over the same batch reproducible.
// Every item lands in exactly one section.
func AssembleMargin(items []classify.Item) []Section {
	var noStock, stockByAC, stockNotByAC []classify.Item
	for _, item := range items {
		switch {
		case !item.HasStock:
			noStock = append(noStock, item)
		case item.SoldByAC:
			stockByAC = append(stockByAC, item)
		default:
			stockNotByAC = append(stockNotByAC, item)
		}
	}

	return []Section{
		marginSection(SectionNoStock, noStock),
		marginSection(SectionStockSoldByAC, stockByAC),
		marginSection(SectionStockNotByAC, stockNotByAC),
	}
}

func marginSection(name string, items []classify.Item) Section {
	sorted := make([]classify.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SeverityRank > sorted[j].SeverityRank
	})

	rows := make([]Row, 0, len(sorted))
	for _, item := range sorted {
		rows = append(rows, marginRow(item))
	}

	return Section{Name: name, Columns: marginColumns(), Rows: rows}
}

func marginRow(item classify.Item) Row {
	alert := HighlightNone
	if item.CostExceedsSale {
		alert = HighlightAlert
	}
	caution := HighlightNone
	if item.BelowTargetMargin {
		caution = HighlightCaution
	}
	stock := HighlightNone
	if item.HasStock {
		stock = HighlightPositive
	}

	return Row{Cells: []Cell{
		{Value: item.ItemCode},
		{Value: item.Fabrication},
		{Value: item.Name},
		{Value: item.SalePrice},
		{Value: item.Cost},
		{Value: item.Margin.Display()},
		{Value: fmt.Sprintf("%g%%", item.TargetMargin)},
		{Value: yesNo(item.CostExceedsSale), Highlight: alert},
		{Value: yesNo(item.BelowTargetMargin), Highlight: caution},
		{Value: yesNo(item.SoldByAC)},
		{Value: yesNo(item.HasStock), Highlight: stock},
	}}
}
