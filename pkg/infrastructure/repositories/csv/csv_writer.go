package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// WriteScenario writes items with their purchase orders and components to the three
// scenario files in dir, creating dir if needed. The output loads back with LoadScenario.
func WriteScenario(dir string, items []*entities.ProductionItem) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	var itemRecords, orderRecords, componentRecords [][]string
	for _, item := range items {
		itemRecords = append(itemRecords, itemRecord(item))
		for _, po := range item.PurchaseOrders {
			if po == nil {
				continue
			}
			orderRecords = append(orderRecords, []string{po.ID, item.ID, po.PONumber, po.Vendor})
			for _, c := range po.Components {
				if c == nil {
					continue
				}
				componentRecords = append(componentRecords, []string{
					c.ID, po.ID, c.Name, c.CatalogNumber,
					strconv.FormatInt(int64(c.Quantity), 10),
					strconv.FormatBool(c.Received),
					c.Notes,
					c.OriginalShipDate.String(),
					c.CurrentShipDate.String(),
				})
			}
		}
	}

	if err := writeRecords(filepath.Join(dir, ItemsFile), itemsHeader, itemRecords); err != nil {
		return err
	}
	if err := writeRecords(filepath.Join(dir, PurchaseOrdersFile), purchaseOrdersHeader, orderRecords); err != nil {
		return err
	}
	return writeRecords(filepath.Join(dir, ComponentsFile), componentsHeader, componentRecords)
}

func itemRecord(item *entities.ProductionItem) []string {
	var designation, typeCode, sections, quantity, description string
	switch item.Kind {
	case entities.KindAssembled:
		if item.Assembled != nil {
			designation = item.Assembled.Designation
			typeCode = item.Assembled.EnclosureType
			sections = strconv.Itoa(item.Assembled.Sections)
		}
	case entities.KindIntegrated:
		if item.Integrated != nil {
			designation = item.Integrated.Designation
			typeCode = item.Integrated.TypeLabel
		}
	case entities.KindMisc:
		if item.Misc != nil {
			quantity = strconv.FormatInt(int64(item.Misc.Quantity), 10)
			description = item.Misc.Description
		}
	}

	return []string{
		item.ID,
		string(item.Kind),
		item.SalesOrder,
		item.Customer,
		item.JobName,
		item.JobAddress,
		item.DrawingRevision,
		strconv.FormatBool(item.Completed),
		item.OriginalShipDate.String(),
		item.CurrentShipDate.String(),
		designation,
		typeCode,
		sections,
		quantity,
		description,
	}
}

func writeRecords(filename string, header []string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(filename), err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", filepath.Base(filename), err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(filename), err)
	}
	return file.Close()
}
