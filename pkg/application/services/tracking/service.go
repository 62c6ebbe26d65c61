package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/shiptrack/pkg/application/dto"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/repositories"
	"github.com/vsinha/shiptrack/pkg/domain/services"
	"github.com/vsinha/shiptrack/pkg/infrastructure/events"
)

// ErrInvalidRequest marks caller input the service refuses before touching the repository
var ErrInvalidRequest = errors.New("invalid request")

// Service loads production items, runs the tracking engine over them and applies caller
// mutations. It holds no item state between calls: every read goes back to the repository.
type Service struct {
	repo       repositories.ItemRepository
	detector   *services.ScheduleRiskDetector
	eventStore events.Store
	now        func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithEventStore records every successful mutation in store
func WithEventStore(store events.Store) Option {
	return func(s *Service) {
		s.eventStore = store
	}
}

// NewService creates a tracking service over the given repository
func NewService(repo repositories.ItemRepository, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		detector: services.NewScheduleRiskDetector(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadSnapshot reads all three item collections concurrently. If any read fails the
// whole snapshot fails.
func (s *Service) LoadSnapshot(ctx context.Context) (*dto.Snapshot, error) {
	snapshot := &dto.Snapshot{TakenAt: s.now()}
	targets := map[entities.ItemKind]*[]*entities.ProductionItem{
		entities.KindAssembled:  &snapshot.Assembled,
		entities.KindIntegrated: &snapshot.Integrated,
		entities.KindMisc:       &snapshot.Misc,
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range entities.AllKinds {
		kind, target := kind, targets[kind]
		g.Go(func() error {
			items, err := s.repo.ListItems(gctx, kind)
			if err != nil {
				return fmt.Errorf("load %s items: %w", kind, err)
			}
			if items == nil {
				items = []*entities.ProductionItem{}
			}
			*target = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snapshot, nil
}

// Evaluate runs the classifier, detector and aggregator over one item
func (s *Service) Evaluate(item *entities.ProductionItem) dto.ItemStatus {
	counts := services.CountComponents(item)
	status := dto.ItemStatus{
		Item:            item,
		Deviation:       services.ClassifyDeviation(item.OriginalShipDate, item.CurrentShipDate),
		ScheduleRisk:    s.detector.ItemHasScheduleRisk(item),
		Ready:           services.IsItemReady(item),
		ComponentStatus: counts.Summary(),
		ReceivedPercent: counts.ReceivedPercent(),
		PurchaseOrders:  make([]dto.PurchaseOrderStatus, 0, len(item.PurchaseOrders)),
	}

	for _, po := range item.PurchaseOrders {
		if po == nil {
			continue
		}
		poStatus := dto.PurchaseOrderStatus{
			PurchaseOrderID: po.ID,
			PONumber:        po.PONumber,
			Ready:           services.IsPurchaseOrderReady(po),
			ScheduleRisk:    s.detector.PurchaseOrderHasScheduleRisk(po, item.CurrentShipDate),
			Components:      make([]dto.ComponentStatus, 0, len(po.Components)),
		}
		for _, c := range po.Components {
			if c == nil {
				continue
			}
			poStatus.Components = append(poStatus.Components, dto.ComponentStatus{
				ComponentID: c.ID,
				Name:        c.Name,
				Deviation:   services.ClassifyDeviation(c.OriginalShipDate, c.CurrentShipDate),
				AtRisk:      s.detector.IsAtRisk(c.CurrentShipDate, item.CurrentShipDate),
				Received:    c.Received,
			})
		}
		status.PurchaseOrders = append(status.PurchaseOrders, poStatus)
	}

	return status
}

// EvaluateAll sorts items by current ship date and evaluates each one
func (s *Service) EvaluateAll(items []*entities.ProductionItem) []dto.ItemStatus {
	sorted := services.SortByCurrentShipDate(items)
	statuses := make([]dto.ItemStatus, len(sorted))
	for i, item := range sorted {
		statuses[i] = s.Evaluate(item)
	}
	return statuses
}

// ListStatus loads one kind of item and returns its evaluated rows in display order
func (s *Service) ListStatus(ctx context.Context, kind entities.ItemKind) ([]dto.ItemStatus, error) {
	items, err := s.repo.ListItems(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s items: %w", kind, err)
	}
	return s.EvaluateAll(items), nil
}

// ListAllStatus evaluates every item of every kind, sorted across the combined set
func (s *Service) ListAllStatus(ctx context.Context) ([]dto.ItemStatus, error) {
	snapshot, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.EvaluateAll(snapshot.All()), nil
}

// UpdateComponent writes the received flag and/or current ship date of a component, then
// reloads its parent item so the returned status reflects the stored state. Concurrent
// edits are not merged: the last write wins.
func (s *Service) UpdateComponent(ctx context.Context, componentID string, update entities.ComponentUpdate) (dto.ItemStatus, error) {
	if update.IsEmpty() {
		return dto.ItemStatus{}, fmt.Errorf("%w: component update changes nothing", ErrInvalidRequest)
	}
	if update.CurrentShipDate != nil && update.CurrentShipDate.IsZero() {
		return dto.ItemStatus{}, fmt.Errorf("%w: current ship date cannot be cleared", ErrInvalidRequest)
	}

	itemID, err := s.repo.UpdateComponent(ctx, componentID, update)
	if err != nil {
		return dto.ItemStatus{}, fmt.Errorf("update component %s: %w", componentID, err)
	}

	s.publish(events.NewComponentUpdatedEvent(itemID, componentID, update))
	return s.reload(ctx, itemID)
}

// AddPurchaseOrder creates an empty purchase order under the item and returns the
// reloaded item status
func (s *Service) AddPurchaseOrder(ctx context.Context, itemID, poNumber, vendor string) (dto.ItemStatus, error) {
	po, err := entities.NewPurchaseOrder(poNumber, vendor)
	if err != nil {
		return dto.ItemStatus{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := s.repo.AddPurchaseOrder(ctx, itemID, po); err != nil {
		return dto.ItemStatus{}, fmt.Errorf("add purchase order to item %s: %w", itemID, err)
	}
	s.publish(events.NewPurchaseOrderAddedEvent(itemID, po))
	return s.reload(ctx, itemID)
}

// AddComponent creates a component under an existing purchase order
func (s *Service) AddComponent(ctx context.Context, poID string, component *entities.Component) error {
	if err := component.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	itemID, err := s.repo.AddComponent(ctx, poID, component)
	if err != nil {
		return fmt.Errorf("add component to purchase order %s: %w", poID, err)
	}
	s.publish(events.NewComponentAddedEvent(itemID, poID, *component))
	return nil
}

// DeleteItem removes an item with its purchase orders and components
func (s *Service) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	s.publish(events.NewItemDeletedEvent(itemID))
	return nil
}

// DeletePurchaseOrder removes a purchase order with its components
func (s *Service) DeletePurchaseOrder(ctx context.Context, poID string) error {
	itemID, err := s.repo.DeletePurchaseOrder(ctx, poID)
	if err != nil {
		return fmt.Errorf("delete purchase order %s: %w", poID, err)
	}
	s.publish(events.NewPurchaseOrderDeletedEvent(itemID, poID))
	return nil
}

// DeleteComponent removes a single component
func (s *Service) DeleteComponent(ctx context.Context, componentID string) error {
	itemID, err := s.repo.DeleteComponent(ctx, componentID)
	if err != nil {
		return fmt.Errorf("delete component %s: %w", componentID, err)
	}
	s.publish(events.NewComponentDeletedEvent(itemID, componentID))
	return nil
}

func (s *Service) reload(ctx context.Context, itemID string) (dto.ItemStatus, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return dto.ItemStatus{}, fmt.Errorf("reload item %s: %w", itemID, err)
	}
	return s.Evaluate(item), nil
}

// Events returns recorded mutations from the zero-based position on. Without an event
// store the history is always empty.
func (s *Service) Events(fromPosition int) ([]events.Event, error) {
	if s.eventStore == nil {
		return []events.Event{}, nil
	}
	return s.eventStore.ReadAll(fromPosition)
}

// ItemHistory returns the recorded mutations of one item from the 1-based version on
func (s *Service) ItemHistory(itemID string, fromVersion int) ([]events.Event, error) {
	if s.eventStore == nil {
		return []events.Event{}, nil
	}
	return s.eventStore.ItemHistory(itemID, fromVersion)
}

// publish records an event. A failed append is logged and does not undo the mutation.
func (s *Service) publish(event events.Event) {
	if s.eventStore == nil {
		return
	}
	if _, err := s.eventStore.Append(event); err != nil {
		log.Warn().Err(err).Str("event", event.Type).Str("item", event.ItemID).Msg("Failed to record event")
	}
}
