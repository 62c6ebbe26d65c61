package repositories

import (
	"context"
	"errors"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// ErrNotFound is returned when an item, purchase order or component id is unknown
var ErrNotFound = errors.New("not found")

// ItemReader provides read access to production items and the records they own
type ItemReader interface {
	// ListItems returns every item of the given kind, fully hydrated, in storage order
	ListItems(ctx context.Context, kind entities.ItemKind) ([]*entities.ProductionItem, error)
	GetItem(ctx context.Context, id string) (*entities.ProductionItem, error)
}

// ItemWriter mutates production items and their owned purchase orders and components.
// Concurrent writes to the same record resolve last-write-wins.
type ItemWriter interface {
	// SaveItem inserts or replaces the item together with its purchase orders and components
	SaveItem(ctx context.Context, item *entities.ProductionItem) error
	// DeleteItem removes the item and cascades to everything it owns
	DeleteItem(ctx context.Context, id string) error
	AddPurchaseOrder(ctx context.Context, itemID string, po *entities.PurchaseOrder) error

	// The methods below address a purchase order or component directly. Each returns the
	// id of the production item that owns (or owned) the record.
	DeletePurchaseOrder(ctx context.Context, poID string) (string, error)
	AddComponent(ctx context.Context, poID string, component *entities.Component) (string, error)
	UpdateComponent(ctx context.Context, componentID string, update entities.ComponentUpdate) (string, error)
	DeleteComponent(ctx context.Context, componentID string) (string, error)
}

// ItemRepository is the full store the tracking service works against
type ItemRepository interface {
	ItemReader
	ItemWriter
}
