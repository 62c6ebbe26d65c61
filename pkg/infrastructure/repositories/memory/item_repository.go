package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/repositories"
)

// ItemRepository provides in-memory production item storage.
// Items are returned as deep copies so callers never share state with the store.
type ItemRepository struct {
	mu       sync.RWMutex
	items    []*entities.ProductionItem
	itemsMap map[string]int
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository(expectedItems int) *ItemRepository {
	return &ItemRepository{
		items:    make([]*entities.ProductionItem, 0, expectedItems),
		itemsMap: make(map[string]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// LoadItems bulk-loads items, rejecting the whole batch if any id appears twice
func (r *ItemRepository) LoadItems(items []*entities.ProductionItem) error {
	seen := make(map[string]bool, len(items))
	var duplicates []string
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		if seen[item.ID] {
			duplicates = append(duplicates, item.ID)
		}
		seen[item.ID] = true
	}
	if len(duplicates) > 0 {
		return fmt.Errorf("duplicate item ids found: %s", strings.Join(duplicates, ", "))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %s: %w", item.ID, err)
		}
		r.put(item)
	}
	return nil
}

// ListItems returns copies of every item of the given kind in insertion order
func (r *ItemRepository) ListItems(_ context.Context, kind entities.ItemKind) ([]*entities.ProductionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.ProductionItem, 0)
	for _, item := range r.items {
		if item.Kind == kind {
			items = append(items, item.Clone())
		}
	}
	return items, nil
}

// GetItem returns a copy of the item with the given id
func (r *ItemRepository) GetItem(_ context.Context, id string) (*entities.ProductionItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.itemsMap[id]
	if !exists {
		return nil, fmt.Errorf("item %s: %w", id, repositories.ErrNotFound)
	}
	return r.items[index].Clone(), nil
}

// SaveItem inserts the item, or replaces an existing item with the same id
func (r *ItemRepository) SaveItem(_ context.Context, item *entities.ProductionItem) error {
	if err := item.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.put(item)
	return nil
}

// DeleteItem removes the item and everything it owns
func (r *ItemRepository) DeleteItem(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.itemsMap[id]
	if !exists {
		return fmt.Errorf("item %s: %w", id, repositories.ErrNotFound)
	}
	r.items = append(r.items[:index], r.items[index+1:]...)
	r.reindex()
	return nil
}

// AddPurchaseOrder attaches a new purchase order to an existing item
func (r *ItemRepository) AddPurchaseOrder(_ context.Context, itemID string, po *entities.PurchaseOrder) error {
	if err := po.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.itemsMap[itemID]
	if !exists {
		return fmt.Errorf("item %s: %w", itemID, repositories.ErrNotFound)
	}
	assignIDs(po)
	r.items[index].PurchaseOrders = append(r.items[index].PurchaseOrders, po.Clone())
	return nil
}

// DeletePurchaseOrder removes a purchase order and its components
func (r *ItemRepository) DeletePurchaseOrder(_ context.Context, poID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		for i, po := range item.PurchaseOrders {
			if po != nil && po.ID == poID {
				item.PurchaseOrders = append(item.PurchaseOrders[:i], item.PurchaseOrders[i+1:]...)
				return item.ID, nil
			}
		}
	}
	return "", fmt.Errorf("purchase order %s: %w", poID, repositories.ErrNotFound)
}

// AddComponent attaches a new component to an existing purchase order
func (r *ItemRepository) AddComponent(_ context.Context, poID string, component *entities.Component) (string, error) {
	if err := component.Validate(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	item, po := r.findPurchaseOrder(poID)
	if po == nil {
		return "", fmt.Errorf("purchase order %s: %w", poID, repositories.ErrNotFound)
	}
	if component.ID == "" {
		component.ID = uuid.NewString()
	}
	stored := *component
	po.Components = append(po.Components, &stored)
	return item.ID, nil
}

// UpdateComponent applies the update in place and returns the owning item's id
func (r *ItemRepository) UpdateComponent(_ context.Context, componentID string, update entities.ComponentUpdate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, c := r.findComponent(componentID)
	if c == nil {
		return "", fmt.Errorf("component %s: %w", componentID, repositories.ErrNotFound)
	}
	update.Apply(c)
	return item.ID, nil
}

// DeleteComponent removes a component from its purchase order
func (r *ItemRepository) DeleteComponent(_ context.Context, componentID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		for _, po := range item.PurchaseOrders {
			if po == nil {
				continue
			}
			for i, c := range po.Components {
				if c != nil && c.ID == componentID {
					po.Components = append(po.Components[:i], po.Components[i+1:]...)
					return item.ID, nil
				}
			}
		}
	}
	return "", fmt.Errorf("component %s: %w", componentID, repositories.ErrNotFound)
}

// put assigns missing ids on item, then stores a copy of it. Caller holds the lock.
func (r *ItemRepository) put(item *entities.ProductionItem) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	for _, po := range item.PurchaseOrders {
		assignIDs(po)
	}
	item = item.Clone()

	if index, exists := r.itemsMap[item.ID]; exists {
		r.items[index] = item
		return
	}
	r.itemsMap[item.ID] = len(r.items)
	r.items = append(r.items, item)
}

func (r *ItemRepository) reindex() {
	r.itemsMap = make(map[string]int, len(r.items))
	for i, item := range r.items {
		r.itemsMap[item.ID] = i
	}
}

func (r *ItemRepository) findPurchaseOrder(poID string) (*entities.ProductionItem, *entities.PurchaseOrder) {
	for _, item := range r.items {
		for _, po := range item.PurchaseOrders {
			if po != nil && po.ID == poID {
				return item, po
			}
		}
	}
	return nil, nil
}

func (r *ItemRepository) findComponent(componentID string) (*entities.ProductionItem, *entities.Component) {
	for _, item := range r.items {
		for _, po := range item.PurchaseOrders {
			if po == nil {
				continue
			}
			for _, c := range po.Components {
				if c != nil && c.ID == componentID {
					return item, c
				}
			}
		}
	}
	return nil, nil
}

func assignIDs(po *entities.PurchaseOrder) {
	if po == nil {
		return
	}
	if po.ID == "" {
		po.ID = uuid.NewString()
	}
	for _, c := range po.Components {
		if c != nil && c.ID == "" {
			c.ID = uuid.NewString()
		}
	}
}
