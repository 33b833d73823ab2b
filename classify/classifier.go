// Package classify derives the margin flags and severity rank for a
// resolved item. Classification is pure: it performs no I/O and mutates
// none of its inputs, and the category catalog is passed in explicitly so
// tests can run against synthetic catalogs.
package classify

import (
	"strings"

	"pricewatch/catalog"
	"pricewatch/fetcher"
	"pricewatch/pricing"
)

// Severity ranks, highest first in every report section.
const (
	SeverityNone        = 0 // no issue
	SeverityBelowMargin = 1 // margin below the category target
	SeverityCostAbove   = 2 // cost at or above the sale price
)

// Item is one classified catalog item, ready for report assembly.
type Item struct {
	ItemCode     int64
	Fabrication  string
	Name         string
	SalePrice    float64
	Cost         float64
	Margin       pricing.Percent
	TargetMargin float64
	CategoryName string

	CostExceedsSale   bool
	BelowTargetMargin bool
	SoldByAC          bool
	HasStock          bool
	SeverityRank      int
}

// Classify looks up the record's category and derives the item flags.
// The baseline snapshot supplies the display name and fabrication code when
// the remote record leaves them blank. Records whose category code is
// unknown are excluded from the report, not treated as errors: ok is false
// and the item is dropped.
func Classify(record fetcher.RemoteRecord, snapshot catalog.ItemSnapshot, cats *catalog.Catalog) (Item, bool) {
	category, ok := cats.Lookup(record.CategoryCode)
	if !ok {
		return Item{}, false
	}

	margin := pricing.Margin(record.Cost, record.SalePrice)
	belowTarget := margin.BelowTarget(category.TargetMarginPct)
	costExceedsSale := record.Cost >= record.SalePrice

	rank := SeverityNone
	switch {
	case costExceedsSale:
		rank = SeverityCostAbove
	case belowTarget:
		rank = SeverityBelowMargin
	}

	name := strings.TrimSpace(record.Name)
	if name == "" {
		name = snapshot.Name
	}
	fabrication := strings.TrimSpace(record.Fabrication)
	if fabrication == "" {
		fabrication = snapshot.Fabrication
	}

	return Item{
		ItemCode:     record.ItemCode,
		Fabrication:  fabrication,
		Name:         name,
		SalePrice:    record.SalePrice,
		Cost:         record.Cost,
		Margin:       margin,
		TargetMargin: category.TargetMarginPct,
		CategoryName: category.Name,

		CostExceedsSale:   costExceedsSale,
		BelowTargetMargin: belowTarget,
		SoldByAC:          category.SoldByAC,
		HasStock:          record.StockBalance > 0,
		SeverityRank:      rank,
	}, true
}

// ClassifyAll classifies a batch against its baseline snapshots, silently
// dropping records with unknown category codes. Input order is preserved
// for the items that survive.
func ClassifyAll(records []fetcher.RemoteRecord, snapshots []catalog.ItemSnapshot, cats *catalog.Catalog) []Item {
	byCode := make(map[int64]catalog.ItemSnapshot, len(snapshots))
	for _, snap := range snapshots {
		byCode[snap.Code] = snap
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		if item, ok := Classify(record, byCode[record.ItemCode], cats); ok {
			items = append(items, item)
		}
	}
	return items
}
