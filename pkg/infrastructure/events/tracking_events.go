package events

import (
	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

const (
	ComponentUpdatedEvent = "component.updated"
	ComponentAddedEvent   = "component.added"
	ComponentDeletedEvent = "component.deleted"

	PurchaseOrderAddedEvent   = "purchase_order.added"
	PurchaseOrderDeletedEvent = "purchase_order.deleted"

	ItemDeletedEvent = "item.deleted"
)

// AllEventTypes lists every tracking event type
var AllEventTypes = []string{
	ComponentUpdatedEvent,
	ComponentAddedEvent,
	ComponentDeletedEvent,
	PurchaseOrderAddedEvent,
	PurchaseOrderDeletedEvent,
	ItemDeletedEvent,
}

// ComponentUpdated records a received flag or ship date change
type ComponentUpdated struct {
	ComponentID string                   `json:"componentId"`
	Update      entities.ComponentUpdate `json:"update"`
}

type ComponentAdded struct {
	PurchaseOrderID string             `json:"purchaseOrderId"`
	Component       entities.Component `json:"component"`
}

type ComponentDeleted struct {
	ComponentID string `json:"componentId"`
}

type PurchaseOrderAdded struct {
	PurchaseOrderID string `json:"purchaseOrderId"`
	PONumber        string `json:"poNumber"`
	Vendor          string `json:"vendor,omitempty"`
}

type PurchaseOrderDeleted struct {
	PurchaseOrderID string `json:"purchaseOrderId"`
}

// ItemDeleted closes an item's stream; it carries no payload beyond the item id
type ItemDeleted struct{}

func NewComponentUpdatedEvent(itemID, componentID string, update entities.ComponentUpdate) Event {
	return newEvent(ComponentUpdatedEvent, itemID, ComponentUpdated{ComponentID: componentID, Update: update})
}

func NewComponentAddedEvent(itemID, poID string, component entities.Component) Event {
	return newEvent(ComponentAddedEvent, itemID, ComponentAdded{PurchaseOrderID: poID, Component: component})
}

func NewComponentDeletedEvent(itemID, componentID string) Event {
	return newEvent(ComponentDeletedEvent, itemID, ComponentDeleted{ComponentID: componentID})
}

func NewPurchaseOrderAddedEvent(itemID string, po *entities.PurchaseOrder) Event {
	return newEvent(PurchaseOrderAddedEvent, itemID, PurchaseOrderAdded{
		PurchaseOrderID: po.ID,
		PONumber:        po.PONumber,
		Vendor:          po.Vendor,
	})
}

func NewPurchaseOrderDeletedEvent(itemID, poID string) Event {
	return newEvent(PurchaseOrderDeletedEvent, itemID, PurchaseOrderDeleted{PurchaseOrderID: poID})
}

func NewItemDeletedEvent(itemID string) Event {
	return newEvent(ItemDeletedEvent, itemID, ItemDeleted{})
}
