package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/repositories"
)

const (
	itemColumns = `id, kind, sales_order, customer, job_name, job_address, drawing_revision, completed,
        original_ship_date, current_ship_date, designation, type_code, sections, quantity, description`
	purchaseOrderColumns = `id, item_id, po_number, vendor`
	componentColumns     = `id, po_id, name, catalog_number, quantity, received, notes,
        original_ship_date, current_ship_date`
)

// ItemRepository stores production items in Postgres
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a repository over an open connection pool
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// ListItems returns every item of the given kind with its purchase orders and components
func (r *ItemRepository) ListItems(ctx context.Context, kind entities.ItemKind) ([]*entities.ProductionItem, error) {
	var items []itemRow
	query := `SELECT ` + itemColumns + ` FROM production_items WHERE kind = $1 ORDER BY seq`
	if err := r.db.SelectContext(ctx, &items, query, string(kind)); err != nil {
		return nil, errors.Wrapf(err, "list %s items", kind)
	}
	return r.hydrate(ctx, items)
}

// GetItem returns one fully hydrated item
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*entities.ProductionItem, error) {
	var row itemRow
	query := `SELECT ` + itemColumns + ` FROM production_items WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.Wrapf(repositories.ErrNotFound, "item %s", id)
		}
		return nil, errors.Wrapf(err, "get item %s", id)
	}

	items, err := r.hydrate(ctx, []itemRow{row})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (r *ItemRepository) hydrate(ctx context.Context, items []itemRow) ([]*entities.ProductionItem, error) {
	if len(items) == 0 {
		return []*entities.ProductionItem{}, nil
	}

	itemIDs := make([]string, len(items))
	for i, row := range items {
		itemIDs[i] = row.ID
	}

	var orders []purchaseOrderRow
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE item_id = ANY($1) ORDER BY seq`
	if err := r.db.SelectContext(ctx, &orders, query, pq.Array(itemIDs)); err != nil {
		return nil, errors.Wrap(err, "load purchase orders")
	}

	var components []componentRow
	if len(orders) > 0 {
		poIDs := make([]string, len(orders))
		for i, row := range orders {
			poIDs[i] = row.ID
		}
		query = `SELECT ` + componentColumns + ` FROM components WHERE po_id = ANY($1) ORDER BY seq`
		if err := r.db.SelectContext(ctx, &components, query, pq.Array(poIDs)); err != nil {
			return nil, errors.Wrap(err, "load components")
		}
	}

	return assemble(items, orders, components), nil
}

// SaveItem upserts the item and replaces its purchase orders and components in one transaction
func (r *ItemRepository) SaveItem(ctx context.Context, item *entities.ProductionItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	query := `
        INSERT INTO production_items (` + itemColumns + `)
        VALUES (:id, :kind, :sales_order, :customer, :job_name, :job_address, :drawing_revision, :completed,
            :original_ship_date, :current_ship_date, :designation, :type_code, :sections, :quantity, :description)
        ON CONFLICT (id) DO UPDATE SET
            kind = EXCLUDED.kind,
            sales_order = EXCLUDED.sales_order,
            customer = EXCLUDED.customer,
            job_name = EXCLUDED.job_name,
            job_address = EXCLUDED.job_address,
            drawing_revision = EXCLUDED.drawing_revision,
            completed = EXCLUDED.completed,
            original_ship_date = EXCLUDED.original_ship_date,
            current_ship_date = EXCLUDED.current_ship_date,
            designation = EXCLUDED.designation,
            type_code = EXCLUDED.type_code,
            sections = EXCLUDED.sections,
            quantity = EXCLUDED.quantity,
            description = EXCLUDED.description`
	if _, err := tx.NamedExecContext(ctx, query, toItemRow(item)); err != nil {
		return errors.Wrapf(err, "save item %s", item.ID)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM purchase_orders WHERE item_id = $1`, item.ID); err != nil {
		return errors.Wrapf(err, "clear purchase orders of item %s", item.ID)
	}
	for _, po := range item.PurchaseOrders {
		if po == nil {
			continue
		}
		if err := insertPurchaseOrder(ctx, tx, item.ID, po); err != nil {
			return err
		}
	}

	return errors.Wrap(tx.Commit(), "commit item")
}

// DeleteItem removes the item; purchase orders and components cascade
func (r *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	_, err := r.deleteOwned(ctx, `DELETE FROM production_items WHERE id = $1 RETURNING id`, "item", id)
	return err
}

// AddPurchaseOrder inserts a purchase order and its components under an existing item
func (r *ItemRepository) AddPurchaseOrder(ctx context.Context, itemID string, po *entities.PurchaseOrder) error {
	if err := po.Validate(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM production_items WHERE id = $1)`, itemID); err != nil {
		return errors.Wrapf(err, "check item %s", itemID)
	}
	if !exists {
		return errors.Wrapf(repositories.ErrNotFound, "item %s", itemID)
	}

	if err := insertPurchaseOrder(ctx, tx, itemID, po); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit purchase order")
}

// DeletePurchaseOrder removes a purchase order and returns its item id; components cascade
func (r *ItemRepository) DeletePurchaseOrder(ctx context.Context, poID string) (string, error) {
	return r.deleteOwned(ctx, `DELETE FROM purchase_orders WHERE id = $1 RETURNING item_id`, "purchase order", poID)
}

// AddComponent inserts a component under an existing purchase order and returns the
// owning item id
func (r *ItemRepository) AddComponent(ctx context.Context, poID string, component *entities.Component) (string, error) {
	if err := component.Validate(); err != nil {
		return "", err
	}
	if component.ID == "" {
		component.ID = uuid.NewString()
	}

	query, args, err := sqlx.Named(`
        WITH inserted AS (
            INSERT INTO components (`+componentColumns+`)
            SELECT :id, po.id, :name, :catalog_number, :quantity, :received, :notes, :original_ship_date, :current_ship_date
            FROM purchase_orders po WHERE po.id = :po_id
            RETURNING po_id
        )
        SELECT po.item_id FROM inserted JOIN purchase_orders po ON po.id = inserted.po_id`,
		toComponentRow(poID, component))
	if err != nil {
		return "", errors.Wrap(err, "bind component insert")
	}

	var itemID string
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(query), args...).Scan(&itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.Wrapf(repositories.ErrNotFound, "purchase order %s", poID)
		}
		return "", errors.Wrapf(err, "add component to purchase order %s", poID)
	}
	return itemID, nil
}

// UpdateComponent sets the received flag and/or current ship date and returns the owning item id
func (r *ItemRepository) UpdateComponent(ctx context.Context, componentID string, update entities.ComponentUpdate) (string, error) {
	query := `
        UPDATE components c
        SET received = COALESCE($2::boolean, c.received),
            current_ship_date = COALESCE($3::date, c.current_ship_date)
        FROM purchase_orders po
        WHERE c.id = $1 AND po.id = c.po_id
        RETURNING po.item_id`

	var itemID string
	err := r.db.QueryRowxContext(ctx, query, componentID, update.Received, update.CurrentShipDate).Scan(&itemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.Wrapf(repositories.ErrNotFound, "component %s", componentID)
		}
		return "", errors.Wrapf(err, "update component %s", componentID)
	}
	return itemID, nil
}

// DeleteComponent removes a single component and returns the owning item id
func (r *ItemRepository) DeleteComponent(ctx context.Context, componentID string) (string, error) {
	return r.deleteOwned(ctx, `
        DELETE FROM components c
        USING purchase_orders po
        WHERE c.id = $1 AND po.id = c.po_id
        RETURNING po.item_id`, "component", componentID)
}

// deleteOwned runs a DELETE ... RETURNING query that yields the owning item id
func (r *ItemRepository) deleteOwned(ctx context.Context, query, what, id string) (string, error) {
	var itemID string
	if err := r.db.QueryRowxContext(ctx, query, id).Scan(&itemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", errors.Wrapf(repositories.ErrNotFound, "%s %s", what, id)
		}
		return "", errors.Wrapf(err, "delete %s %s", what, id)
	}
	return itemID, nil
}

func insertPurchaseOrder(ctx context.Context, tx *sqlx.Tx, itemID string, po *entities.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.NewString()
	}
	row := purchaseOrderRow{ID: po.ID, ItemID: itemID, PONumber: po.PONumber, Vendor: po.Vendor}
	query := `INSERT INTO purchase_orders (` + purchaseOrderColumns + `) VALUES (:id, :item_id, :po_number, :vendor)`
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return errors.Wrapf(err, "insert purchase order %s", po.PONumber)
	}

	for _, c := range po.Components {
		if c == nil {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		query := `INSERT INTO components (` + componentColumns + `)
            VALUES (:id, :po_id, :name, :catalog_number, :quantity, :received, :notes, :original_ship_date, :current_ship_date)`
		if _, err := tx.NamedExecContext(ctx, query, toComponentRow(po.ID, c)); err != nil {
			return errors.Wrapf(err, "insert component %s", c.Name)
		}
	}
	return nil
}

func toComponentRow(poID string, c *entities.Component) componentRow {
	return componentRow{
		ID:               c.ID,
		POID:             poID,
		Name:             c.Name,
		CatalogNumber:    c.CatalogNumber,
		Quantity:         int64(c.Quantity),
		Received:         c.Received,
		Notes:            c.Notes,
		OriginalShipDate: c.OriginalShipDate,
		CurrentShipDate:  c.CurrentShipDate,
	}
}
