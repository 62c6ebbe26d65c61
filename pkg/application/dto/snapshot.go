package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// Snapshot is the full set of production items as read at one moment.
// The three kind slices are never nil.
type Snapshot struct {
	Assembled  []*entities.ProductionItem
	Integrated []*entities.ProductionItem
	Misc       []*entities.ProductionItem
	TakenAt    time.Time
}

// Items returns the snapshot's items of the given kind
func (s *Snapshot) Items(kind entities.ItemKind) []*entities.ProductionItem {
	switch kind {
	case entities.KindAssembled:
		return s.Assembled
	case entities.KindIntegrated:
		return s.Integrated
	case entities.KindMisc:
		return s.Misc
	default:
		return nil
	}
}

// All returns assembled, then integrated, then misc items in one slice
func (s *Snapshot) All() []*entities.ProductionItem {
	all := make([]*entities.ProductionItem, 0, len(s.Assembled)+len(s.Integrated)+len(s.Misc))
	all = append(all, s.Assembled...)
	all = append(all, s.Integrated...)
	all = append(all, s.Misc...)
	return all
}

// ItemStatus is an item together with every derived status the engine computes for it
type ItemStatus struct {
	Item            *entities.ProductionItem `json:"item"`
	Deviation       entities.Deviation       `json:"shipDateStatus"`
	ScheduleRisk    bool                     `json:"scheduleRisk"`
	Ready           bool                     `json:"readyToShip"`
	ComponentStatus string                   `json:"componentStatus"`
	ReceivedPercent decimal.Decimal          `json:"receivedPercent"`
	PurchaseOrders  []PurchaseOrderStatus    `json:"purchaseOrders"`
}

// PurchaseOrderStatus carries the derived status of one purchase order
type PurchaseOrderStatus struct {
	PurchaseOrderID string            `json:"purchaseOrderId"`
	PONumber        string            `json:"poNumber"`
	Ready           bool              `json:"ready"`
	ScheduleRisk    bool              `json:"scheduleRisk"`
	Components      []ComponentStatus `json:"components"`
}

// ComponentStatus carries the derived status of one component
type ComponentStatus struct {
	ComponentID string             `json:"componentId"`
	Name        string             `json:"name"`
	Deviation   entities.Deviation `json:"shipDateStatus"`
	AtRisk      bool               `json:"atRisk"`
	Received    bool               `json:"received"`
}
