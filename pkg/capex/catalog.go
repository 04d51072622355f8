// Package capex prices the access-control kit and its installation.
package capex

// LineItem is one equipment row of the kit catalog. UnitPrice is in the base
// currency before any scenario adjustment.
//
// AdjustedPrice, when set, is a price the analyst entered over the displayed
// (already scenario-adjusted) price, converted back to the base currency. It
// replaces UnitPrice * multiplier and is never multiplied again.
type LineItem struct {
	ID            string
	Description   string
	QtyPerHub     float64
	UnitPrice     float64
	AdjustedPrice *float64
}

// DefaultCatalog returns the turnstile + facial reader MVP kit.
func DefaultCatalog() []LineItem {
	return []LineItem{
		{ID: "T00377", Description: "Pedestal turnstile", QtyPerHub: 2, UnitPrice: 8328.41},
		{ID: "T00700", Description: "Facial reader", QtyPerHub: 4, UnitPrice: 2859.35},
		{ID: "T00379", Description: "Facial reader turnstile mount", QtyPerHub: 4, UnitPrice: 501.24},
		{ID: "T00512", Description: "Swing gate", QtyPerHub: 1, UnitPrice: 5454.65},
	}
}

// PricedItem is a catalog row with its computed costs, all in base currency.
type PricedItem struct {
	LineItem
	Price      float64 // price actually used, after scenario or override
	Overridden bool
	PerHub     float64
	Total      float64
}

// CatalogResult holds the priced rows and the equipment total.
type CatalogResult struct {
	Scenario       Scenario
	Items          []PricedItem
	EquipmentTotal float64
}

// PriceCatalog applies the scenario multiplier to each row and aggregates the
// per-hub and overall equipment cost. An empty catalog prices to zero.
func PriceCatalog(items []LineItem, scenario Scenario, totalHubs int) CatalogResult {
	result := CatalogResult{
		Scenario: scenario,
		Items:    make([]PricedItem, 0, len(items)),
	}
	multiplier := scenario.Multiplier()
	hubs := float64(totalHubs)

	for _, item := range items {
		priced := PricedItem{LineItem: item}
		if item.AdjustedPrice != nil {
			priced.Price = *item.AdjustedPrice
			priced.Overridden = true
		} else {
			priced.Price = item.UnitPrice * multiplier
		}
		priced.PerHub = item.QtyPerHub * priced.Price
		priced.Total = priced.PerHub * hubs

		result.EquipmentTotal += priced.Total
		result.Items = append(result.Items, priced)
	}

	return result
}
