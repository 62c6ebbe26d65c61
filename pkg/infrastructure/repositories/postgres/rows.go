package postgres

import (
	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// itemRow is the flattened production_items row; variant fields share columns
type itemRow struct {
	ID               string        `db:"id"`
	Kind             string        `db:"kind"`
	SalesOrder       string        `db:"sales_order"`
	Customer         string        `db:"customer"`
	JobName          string        `db:"job_name"`
	JobAddress       string        `db:"job_address"`
	DrawingRevision  string        `db:"drawing_revision"`
	Completed        bool          `db:"completed"`
	OriginalShipDate entities.Date `db:"original_ship_date"`
	CurrentShipDate  entities.Date `db:"current_ship_date"`
	Designation      string        `db:"designation"`
	TypeCode         string        `db:"type_code"`
	Sections         int           `db:"sections"`
	Quantity         int64         `db:"quantity"`
	Description      string        `db:"description"`
}

type purchaseOrderRow struct {
	ID       string `db:"id"`
	ItemID   string `db:"item_id"`
	PONumber string `db:"po_number"`
	Vendor   string `db:"vendor"`
}

type componentRow struct {
	ID               string        `db:"id"`
	POID             string        `db:"po_id"`
	Name             string        `db:"name"`
	CatalogNumber    string        `db:"catalog_number"`
	Quantity         int64         `db:"quantity"`
	Received         bool          `db:"received"`
	Notes            string        `db:"notes"`
	OriginalShipDate entities.Date `db:"original_ship_date"`
	CurrentShipDate  entities.Date `db:"current_ship_date"`
}

func toItemRow(item *entities.ProductionItem) itemRow {
	row := itemRow{
		ID:               item.ID,
		Kind:             string(item.Kind),
		SalesOrder:       item.SalesOrder,
		Customer:         item.Customer,
		JobName:          item.JobName,
		JobAddress:       item.JobAddress,
		DrawingRevision:  item.DrawingRevision,
		Completed:        item.Completed,
		OriginalShipDate: item.OriginalShipDate,
		CurrentShipDate:  item.CurrentShipDate,
	}
	switch {
	case item.Assembled != nil:
		row.Designation = item.Assembled.Designation
		row.TypeCode = item.Assembled.EnclosureType
		row.Sections = item.Assembled.Sections
	case item.Integrated != nil:
		row.Designation = item.Integrated.Designation
		row.TypeCode = item.Integrated.TypeLabel
	case item.Misc != nil:
		row.Quantity = int64(item.Misc.Quantity)
		row.Description = item.Misc.Description
	}
	return row
}

func (r itemRow) toEntity() *entities.ProductionItem {
	item := &entities.ProductionItem{
		ID:               r.ID,
		Kind:             entities.ItemKind(r.Kind),
		SalesOrder:       r.SalesOrder,
		Customer:         r.Customer,
		JobName:          r.JobName,
		JobAddress:       r.JobAddress,
		DrawingRevision:  r.DrawingRevision,
		Completed:        r.Completed,
		OriginalShipDate: r.OriginalShipDate,
		CurrentShipDate:  r.CurrentShipDate,
	}
	switch item.Kind {
	case entities.KindAssembled:
		item.Assembled = &entities.AssembledUnit{Designation: r.Designation, EnclosureType: r.TypeCode, Sections: r.Sections}
	case entities.KindIntegrated:
		item.Integrated = &entities.IntegratedUnit{Designation: r.Designation, TypeLabel: r.TypeCode}
	case entities.KindMisc:
		item.Misc = &entities.MiscItem{Quantity: entities.Quantity(r.Quantity), Description: r.Description}
	}
	return item
}

func (r componentRow) toEntity() *entities.Component {
	return &entities.Component{
		ID:               r.ID,
		Name:             r.Name,
		CatalogNumber:    r.CatalogNumber,
		Quantity:         entities.Quantity(r.Quantity),
		Received:         r.Received,
		Notes:            r.Notes,
		OriginalShipDate: r.OriginalShipDate,
		CurrentShipDate:  r.CurrentShipDate,
	}
}

// assemble stitches flat rows back into item trees. Rows are expected in storage order;
// children whose parent is missing from the batch are dropped.
func assemble(items []itemRow, orders []purchaseOrderRow, components []componentRow) []*entities.ProductionItem {
	result := make([]*entities.ProductionItem, 0, len(items))
	byID := make(map[string]*entities.ProductionItem, len(items))
	for _, row := range items {
		item := row.toEntity()
		byID[item.ID] = item
		result = append(result, item)
	}

	ordersByID := make(map[string]*entities.PurchaseOrder, len(orders))
	for _, row := range orders {
		item, ok := byID[row.ItemID]
		if !ok {
			continue
		}
		po := &entities.PurchaseOrder{ID: row.ID, PONumber: row.PONumber, Vendor: row.Vendor}
		ordersByID[po.ID] = po
		item.PurchaseOrders = append(item.PurchaseOrders, po)
	}

	for _, row := range components {
		po, ok := ordersByID[row.POID]
		if !ok {
			continue
		}
		po.Components = append(po.Components, row.toEntity())
	}

	return result
}
