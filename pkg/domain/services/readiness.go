package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// IsPurchaseOrderReady reports whether po has at least one component and every
// component has been received. An empty or absent component list is not ready.
func IsPurchaseOrderReady(po *entities.PurchaseOrder) bool {
	if po == nil || len(po.Components) == 0 {
		return false
	}
	for _, c := range po.Components {
		if c == nil || !c.Received {
			return false
		}
	}
	return true
}

// IsItemReady reports whether item has at least one purchase order and every
// purchase order is ready
func IsItemReady(item *entities.ProductionItem) bool {
	if item == nil || len(item.PurchaseOrders) == 0 {
		return false
	}
	for _, po := range item.PurchaseOrders {
		if !IsPurchaseOrderReady(po) {
			return false
		}
	}
	return true
}

// ComponentCounts tallies components flattened across all of an item's purchase orders
type ComponentCounts struct {
	Received int
	Total    int
}

// CountComponents flattens the item's components and counts the received ones
func CountComponents(item *entities.ProductionItem) ComponentCounts {
	var counts ComponentCounts
	if item == nil {
		return counts
	}
	for _, po := range item.PurchaseOrders {
		if po == nil {
			continue
		}
		for _, c := range po.Components {
			if c == nil {
				continue
			}
			counts.Total++
			if c.Received {
				counts.Received++
			}
		}
	}
	return counts
}

// Summary renders the counts as "<received>/<total> Received", or "No Components"
func (c ComponentCounts) Summary() string {
	if c.Total == 0 {
		return "No Components"
	}
	return fmt.Sprintf("%d/%d Received", c.Received, c.Total)
}

// ReceivedPercent returns the received share as a percentage rounded to one decimal place
func (c ComponentCounts) ReceivedPercent() decimal.Decimal {
	if c.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(c.Received)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(c.Total))).
		Round(1)
}
