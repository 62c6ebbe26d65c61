package services

import "github.com/vsinha/shiptrack/pkg/domain/entities"

// LeadTimeBufferDays is how far ahead of its parent's ship date a component must arrive
const LeadTimeBufferDays = 14

// ComponentRef locates a component inside its item
type ComponentRef struct {
	PurchaseOrder *entities.PurchaseOrder
	Component     *entities.Component
}

// ScheduleRiskDetector flags components whose current ship date does not leave the
// lead-time buffer before the parent item's current ship date
type ScheduleRiskDetector struct {
	bufferDays int
}

// NewScheduleRiskDetector creates a detector using the standard lead-time buffer
func NewScheduleRiskDetector() *ScheduleRiskDetector {
	return &ScheduleRiskDetector{bufferDays: LeadTimeBufferDays}
}

// BufferDays returns the lead-time buffer in days
func (d *ScheduleRiskDetector) BufferDays() int {
	return d.bufferDays
}

// IsAtRisk reports whether a component dated componentDate endangers a parent shipping
// on parentDate. A component exactly bufferDays ahead is safe.
func (d *ScheduleRiskDetector) IsAtRisk(componentDate, parentDate entities.Date) bool {
	return componentDate.After(parentDate.AddDays(-d.bufferDays))
}

// PurchaseOrderHasScheduleRisk reports whether any component on po is at risk
// relative to the owning item's current ship date
func (d *ScheduleRiskDetector) PurchaseOrderHasScheduleRisk(po *entities.PurchaseOrder, parentDate entities.Date) bool {
	if po == nil {
		return false
	}
	for _, c := range po.Components {
		if c != nil && d.IsAtRisk(c.CurrentShipDate, parentDate) {
			return true
		}
	}
	return false
}

// ItemHasScheduleRisk reports whether any component under any of the item's purchase
// orders is at risk
func (d *ScheduleRiskDetector) ItemHasScheduleRisk(item *entities.ProductionItem) bool {
	if item == nil {
		return false
	}
	for _, po := range item.PurchaseOrders {
		if d.PurchaseOrderHasScheduleRisk(po, item.CurrentShipDate) {
			return true
		}
	}
	return false
}

// AtRiskComponents lists every at-risk component of the item in PO then component order
func (d *ScheduleRiskDetector) AtRiskComponents(item *entities.ProductionItem) []ComponentRef {
	if item == nil {
		return nil
	}
	var refs []ComponentRef
	for _, po := range item.PurchaseOrders {
		if po == nil {
			continue
		}
		for _, c := range po.Components {
			if c != nil && d.IsAtRisk(c.CurrentShipDate, item.CurrentShipDate) {
				refs = append(refs, ComponentRef{PurchaseOrder: po, Component: c})
			}
		}
	}
	return refs
}
