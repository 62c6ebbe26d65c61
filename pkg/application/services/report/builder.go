package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vsinha/shiptrack/pkg/application/dto"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/services"
)

// Column width bounds, in characters
const (
	MinColumnWidth = 10
	MaxColumnWidth = 50
	columnPadding  = 2
)

// Sheet names in workbook order
const (
	OverviewSheet   = "Overview"
	ComponentsSheet = "Components"
)

// FileNamePrefix starts every exported workbook's file name
const FileNamePrefix = "Production_Schedule_"

var (
	overviewColumns = []string{
		"Type", "Designation / Description", "Sales Order", "Customer", "Job Name",
		"Original Ship Date", "Current Ship Date", "Ship Date Status", "Schedule Risk",
		"Ready to Ship", "Completed",
	}
	statusColumns = []string{
		"Original Ship Date", "Current Ship Date", "Ship Date Status", "Purchase Orders",
		"Component Status", "Received %", "Schedule Risk", "Ready to Ship", "Completed",
	}
	componentColumns = []string{
		"Item Type", "Designation / Description", "Sales Order", "Customer", "PO Number",
		"Vendor", "Component", "Catalog Number", "Quantity", "Original Ship Date",
		"Current Ship Date", "Ship Date Status", "Received", "At Risk", "Notes",
	}
)

// FileName returns the deterministic export file name for the given day
func FileName(day entities.Date, ext string) string {
	return FileNamePrefix + day.String() + "." + strings.TrimPrefix(ext, ".")
}

// Builder flattens a snapshot into the five report views
type Builder struct {
	detector *services.ScheduleRiskDetector
}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{detector: services.NewScheduleRiskDetector()}
}

// Build produces the Overview, per-kind and Components sheets. The Overview is sorted by
// current ship date across all kinds; the other sheets keep the snapshot's order.
func (b *Builder) Build(snapshot *dto.Snapshot) *dto.Workbook {
	wb := &dto.Workbook{}
	wb.Sheets = append(wb.Sheets, b.overview(snapshot.All()))
	for _, kind := range entities.AllKinds {
		wb.Sheets = append(wb.Sheets, b.kindSheet(kind, snapshot.Items(kind)))
	}
	wb.Sheets = append(wb.Sheets, b.components(snapshot.All()))

	for i := range wb.Sheets {
		wb.Sheets[i].Widths = ColumnWidths(wb.Sheets[i].Columns, wb.Sheets[i].Rows)
	}
	return wb
}

func (b *Builder) overview(items []*entities.ProductionItem) dto.Sheet {
	sheet := dto.Sheet{Name: OverviewSheet, Columns: overviewColumns}
	for _, item := range services.SortByCurrentShipDate(items) {
		sheet.Rows = append(sheet.Rows, []string{
			item.Kind.Label(),
			item.DisplayName(),
			item.SalesOrder,
			item.Customer,
			item.JobName,
			item.OriginalShipDate.String(),
			item.CurrentShipDate.String(),
			services.ClassifyDeviation(item.OriginalShipDate, item.CurrentShipDate).String(),
			yesNo(b.detector.ItemHasScheduleRisk(item)),
			yesNo(services.IsItemReady(item)),
			yesNo(item.Completed),
		})
	}
	return sheet
}

func (b *Builder) kindSheet(kind entities.ItemKind, items []*entities.ProductionItem) dto.Sheet {
	sheet := dto.Sheet{Name: kind.SheetName(), Columns: append(kindColumns(kind), statusColumns...)}
	for _, item := range items {
		sheet.Rows = append(sheet.Rows, append(kindCells(item), b.statusCells(item)...))
	}
	return sheet
}

func kindColumns(kind entities.ItemKind) []string {
	common := []string{"Sales Order", "Customer", "Job Name", "Job Address", "Drawing Revision"}
	switch kind {
	case entities.KindAssembled:
		return append(append([]string{"Designation"}, common...), "Enclosure Type", "Sections")
	case entities.KindIntegrated:
		return append(append([]string{"Designation"}, common...), "Type")
	default:
		return append([]string{"Description", "Quantity"}, common...)
	}
}

func kindCells(item *entities.ProductionItem) []string {
	common := []string{item.SalesOrder, item.Customer, item.JobName, item.JobAddress, item.DrawingRevision}
	switch {
	case item.Assembled != nil:
		return append(append([]string{item.Assembled.Designation}, common...),
			item.Assembled.EnclosureType, strconv.Itoa(item.Assembled.Sections))
	case item.Integrated != nil:
		return append(append([]string{item.Integrated.Designation}, common...), item.Integrated.TypeLabel)
	case item.Misc != nil:
		return append([]string{item.Misc.Description, strconv.FormatInt(int64(item.Misc.Quantity), 10)}, common...)
	default:
		return common
	}
}

func (b *Builder) statusCells(item *entities.ProductionItem) []string {
	counts := services.CountComponents(item)
	return []string{
		item.OriginalShipDate.String(),
		item.CurrentShipDate.String(),
		services.ClassifyDeviation(item.OriginalShipDate, item.CurrentShipDate).String(),
		purchaseOrderNumbers(item),
		counts.Summary(),
		counts.ReceivedPercent().StringFixed(1) + "%",
		yesNo(b.detector.ItemHasScheduleRisk(item)),
		yesNo(services.IsItemReady(item)),
		yesNo(item.Completed),
	}
}

func (b *Builder) components(items []*entities.ProductionItem) dto.Sheet {
	sheet := dto.Sheet{Name: ComponentsSheet, Columns: componentColumns}
	for _, item := range items {
		for _, po := range item.PurchaseOrders {
			if po == nil {
				continue
			}
			for _, c := range po.Components {
				if c == nil {
					continue
				}
				sheet.Rows = append(sheet.Rows, []string{
					item.Kind.Label(),
					item.DisplayName(),
					item.SalesOrder,
					item.Customer,
					po.PONumber,
					po.Vendor,
					c.Name,
					c.CatalogNumber,
					strconv.FormatInt(int64(c.Quantity), 10),
					c.OriginalShipDate.String(),
					c.CurrentShipDate.String(),
					services.ClassifyDeviation(c.OriginalShipDate, c.CurrentShipDate).String(),
					yesNo(c.Received),
					yesNo(b.detector.IsAtRisk(c.CurrentShipDate, item.CurrentShipDate)),
					c.Notes,
				})
			}
		}
	}
	return sheet
}

// ColumnWidths sizes each column to its longest cell (header included) plus padding,
// clamped to [MinColumnWidth, MaxColumnWidth]
func ColumnWidths(columns []string, rows [][]string) []int {
	widths := make([]int, len(columns))
	for i, col := range columns {
		longest := utf8.RuneCountInString(col)
		for _, row := range rows {
			if i < len(row) {
				if n := utf8.RuneCountInString(row[i]); n > longest {
					longest = n
				}
			}
		}
		widths[i] = clamp(longest+columnPadding, MinColumnWidth, MaxColumnWidth)
	}
	return widths
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func purchaseOrderNumbers(item *entities.ProductionItem) string {
	numbers := make([]string, 0, len(item.PurchaseOrders))
	for _, po := range item.PurchaseOrders {
		if po != nil {
			numbers = append(numbers, po.PONumber)
		}
	}
	return strings.Join(numbers, ", ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// Describe summarizes a workbook for log lines, e.g. "Overview=4 Assembled Units=2 ..."
func Describe(wb *dto.Workbook) string {
	parts := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		parts[i] = fmt.Sprintf("%s=%d", s.Name, len(s.Rows))
	}
	return strings.Join(parts, " ")
}
