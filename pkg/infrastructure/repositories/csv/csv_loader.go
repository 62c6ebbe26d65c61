package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// Scenario file names expected inside a scenario directory
const (
	ItemsFile          = "items.csv"
	PurchaseOrdersFile = "purchase_orders.csv"
	ComponentsFile     = "components.csv"
)

var (
	itemsHeader = []string{
		"id", "kind", "sales_order", "customer", "job_name", "job_address", "drawing_revision",
		"completed", "original_ship_date", "current_ship_date",
		"designation", "type_code", "sections", "quantity", "description",
	}
	purchaseOrdersHeader = []string{"id", "item_id", "po_number", "vendor"}
	componentsHeader     = []string{
		"id", "po_id", "name", "catalog_number", "quantity", "received", "notes",
		"original_ship_date", "current_ship_date",
	}
)

// PurchaseOrderRow is a purchase order together with the id of the item that owns it
type PurchaseOrderRow struct {
	ItemID string
	Order  *entities.PurchaseOrder
}

// ComponentRow is a component together with the id of the purchase order that owns it
type ComponentRow struct {
	PurchaseOrderID string
	Component       *entities.Component
}

// Loader handles loading shop-floor scenarios from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario reads items.csv, purchase_orders.csv and components.csv from dir and
// assembles them into fully hydrated items. Rows that reference an unknown parent are rejected.
func (l *Loader) LoadScenario(dir string) ([]*entities.ProductionItem, error) {
	items, err := l.LoadItems(filepath.Join(dir, ItemsFile))
	if err != nil {
		return nil, err
	}
	orders, err := l.LoadPurchaseOrders(filepath.Join(dir, PurchaseOrdersFile))
	if err != nil {
		return nil, err
	}
	components, err := l.LoadComponents(filepath.Join(dir, ComponentsFile))
	if err != nil {
		return nil, err
	}

	itemsByID := make(map[string]*entities.ProductionItem, len(items))
	for _, item := range items {
		if _, dup := itemsByID[item.ID]; dup {
			return nil, fmt.Errorf("items CSV: duplicate item id %s", item.ID)
		}
		itemsByID[item.ID] = item
	}

	ordersByID := make(map[string]*entities.PurchaseOrder, len(orders))
	for _, row := range orders {
		item, ok := itemsByID[row.ItemID]
		if !ok {
			return nil, fmt.Errorf("purchase order %s references unknown item %s", row.Order.PONumber, row.ItemID)
		}
		if _, dup := ordersByID[row.Order.ID]; dup {
			return nil, fmt.Errorf("purchase orders CSV: duplicate purchase order id %s", row.Order.ID)
		}
		ordersByID[row.Order.ID] = row.Order
		item.PurchaseOrders = append(item.PurchaseOrders, row.Order)
	}

	for _, row := range components {
		po, ok := ordersByID[row.PurchaseOrderID]
		if !ok {
			return nil, fmt.Errorf("component %s references unknown purchase order %s", row.Component.Name, row.PurchaseOrderID)
		}
		po.Components = append(po.Components, row.Component)
	}

	return items, nil
}

// LoadItems loads production items from a CSV file
func (l *Loader) LoadItems(filename string) ([]*entities.ProductionItem, error) {
	records, err := readRecords(filename, "items", itemsHeader, true)
	if err != nil {
		return nil, err
	}

	var items []*entities.ProductionItem
	for i, record := range records {
		item, err := parseItem(record)
		if err != nil {
			return nil, fmt.Errorf("items CSV row %d: %w", i+2, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// LoadPurchaseOrders loads purchase orders from a CSV file. A header-only file is valid.
func (l *Loader) LoadPurchaseOrders(filename string) ([]PurchaseOrderRow, error) {
	records, err := readRecords(filename, "purchase orders", purchaseOrdersHeader, false)
	if err != nil {
		return nil, err
	}

	var rows []PurchaseOrderRow
	for i, record := range records {
		if record[0] == "" || record[1] == "" {
			return nil, fmt.Errorf("purchase orders CSV row %d: id and item_id are required", i+2)
		}
		po, err := entities.NewPurchaseOrder(record[2], record[3])
		if err != nil {
			return nil, fmt.Errorf("purchase orders CSV row %d: %w", i+2, err)
		}
		po.ID = record[0]
		rows = append(rows, PurchaseOrderRow{ItemID: record[1], Order: po})
	}

	return rows, nil
}

// LoadComponents loads components from a CSV file. A header-only file is valid.
func (l *Loader) LoadComponents(filename string) ([]ComponentRow, error) {
	records, err := readRecords(filename, "components", componentsHeader, false)
	if err != nil {
		return nil, err
	}

	var rows []ComponentRow
	for i, record := range records {
		row, err := parseComponent(record)
		if err != nil {
			return nil, fmt.Errorf("components CSV row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// readRecords opens a CSV file, validates its header and returns the data rows
func readRecords(filename, name string, expectedHeader []string, requireRows bool) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV is missing its header", name)
	}
	if requireRows && len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", name)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", name, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseItem(record []string) (*entities.ProductionItem, error) {
	kind, err := entities.ParseItemKind(strings.ToLower(strings.TrimSpace(record[1])))
	if err != nil {
		return nil, err
	}

	completed, err := parseBool(record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid completed: %w", err)
	}
	originalShipDate, err := entities.ParseDate(strings.TrimSpace(record[8]))
	if err != nil {
		return nil, fmt.Errorf("invalid original_ship_date: %w", err)
	}
	currentShipDate, err := entities.ParseDate(strings.TrimSpace(record[9]))
	if err != nil {
		return nil, fmt.Errorf("invalid current_ship_date: %w", err)
	}

	if record[0] == "" {
		return nil, fmt.Errorf("id is required")
	}

	var variant interface{}
	designation, typeCode := record[10], record[11]
	switch kind {
	case entities.KindAssembled:
		sections := 0
		if s := strings.TrimSpace(record[12]); s != "" {
			sections, err = strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("invalid sections: %s", record[12])
			}
		}
		variant = entities.AssembledUnit{Designation: designation, EnclosureType: typeCode, Sections: sections}
	case entities.KindIntegrated:
		variant = entities.IntegratedUnit{Designation: designation, TypeLabel: typeCode}
	case entities.KindMisc:
		quantity, err := strconv.ParseInt(strings.TrimSpace(record[13]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity: %s", record[13])
		}
		variant = entities.MiscItem{Quantity: entities.Quantity(quantity), Description: record[14]}
	}

	item, err := entities.NewProductionItem(record[2], record[3], originalShipDate, currentShipDate, variant)
	if err != nil {
		return nil, err
	}
	item.ID = record[0]
	item.JobName = record[4]
	item.JobAddress = record[5]
	item.DrawingRevision = record[6]
	item.Completed = completed

	return item, nil
}

func parseComponent(record []string) (ComponentRow, error) {
	if record[0] == "" || record[1] == "" {
		return ComponentRow{}, fmt.Errorf("id and po_id are required")
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
	if err != nil {
		return ComponentRow{}, fmt.Errorf("invalid quantity: %s", record[4])
	}
	received, err := parseBool(record[5])
	if err != nil {
		return ComponentRow{}, fmt.Errorf("invalid received: %w", err)
	}
	originalShipDate, err := entities.ParseDate(strings.TrimSpace(record[7]))
	if err != nil {
		return ComponentRow{}, fmt.Errorf("invalid original_ship_date: %w", err)
	}
	currentShipDate, err := entities.ParseDate(strings.TrimSpace(record[8]))
	if err != nil {
		return ComponentRow{}, fmt.Errorf("invalid current_ship_date: %w", err)
	}

	component, err := entities.NewComponent(record[2], record[3], entities.Quantity(quantity), originalShipDate, currentShipDate)
	if err != nil {
		return ComponentRow{}, err
	}
	component.ID = record[0]
	component.Received = received
	component.Notes = record[6]

	return ComponentRow{PurchaseOrderID: record[1], Component: component}, nil
}

// parseBool accepts the usual spreadsheet spellings; blank means false
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1":
		return true, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", s)
	}
}
