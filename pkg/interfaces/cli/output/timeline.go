package output

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/shiptrack/pkg/application/dto"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

// Timeline lays out one row per item on a shared day axis. Each row shows the
// original-to-current ship date slip and a marker for every component date.
type Timeline struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	Start        entities.Date
	End          entities.Date
}

// TimelineMarker is a single component placed on an item row
type TimelineMarker struct {
	Label  string
	Date   entities.Date
	X      int
	AtRisk bool
	Done   bool
}

// TimelineRow is everything drawn for one item
type TimelineRow struct {
	Label     string
	Original  entities.Date
	Current   entities.Date
	Deviation entities.Deviation
	Ready     bool
	X1, X2    int
	Color     string
	Markers   []TimelineMarker
}

// NewTimeline sizes a timeline for the given statuses
func NewTimeline(statuses []dto.ItemStatus) *Timeline {
	tl := &Timeline{
		Width:        1200,
		MarginLeft:   220,
		MarginTop:    60,
		MarginRight:  100,
		MarginBottom: 80,
		RowHeight:    30,
	}
	if len(statuses) == 0 {
		tl.Width = 800
		tl.Height = 200
		return tl
	}

	first := true
	widen := func(d entities.Date) {
		if d.IsZero() {
			return
		}
		if first || d.Before(tl.Start) {
			tl.Start = d
		}
		if first || d.After(tl.End) {
			tl.End = d
		}
		first = false
	}
	for _, s := range statuses {
		widen(s.Item.OriginalShipDate)
		widen(s.Item.CurrentShipDate)
		for _, po := range s.Item.PurchaseOrders {
			for _, c := range po.Components {
				widen(c.CurrentShipDate)
			}
		}
	}

	// a week of padding on both sides keeps markers off the edges
	tl.Start = tl.Start.AddDays(-7)
	tl.End = tl.End.AddDays(7)
	tl.Height = len(statuses)*tl.RowHeight + tl.MarginTop + tl.MarginBottom + 30
	return tl
}

func dayIndex(d entities.Date) int {
	return int(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// xFor maps a date onto the chart's horizontal axis
func (tl *Timeline) xFor(d entities.Date) int {
	span := dayIndex(tl.End) - dayIndex(tl.Start)
	if span <= 0 {
		return tl.MarginLeft
	}
	chartWidth := tl.Width - tl.MarginLeft - tl.MarginRight
	return tl.MarginLeft + (dayIndex(d)-dayIndex(tl.Start))*chartWidth/span
}

// Rows converts statuses into drawable rows, preserving their order
func (tl *Timeline) Rows(statuses []dto.ItemStatus) []TimelineRow {
	rows := make([]TimelineRow, 0, len(statuses))
	for _, s := range statuses {
		item := s.Item
		row := TimelineRow{
			Label:     fmt.Sprintf("%s %s", item.SalesOrder, truncate(item.DisplayName(), 18)),
			Original:  item.OriginalShipDate,
			Current:   item.CurrentShipDate,
			Deviation: s.Deviation,
			Ready:     s.Ready,
			Color:     deviationColor(s.Deviation),
		}
		row.X1, row.X2 = tl.xFor(item.OriginalShipDate), tl.xFor(item.CurrentShipDate)
		if row.X1 > row.X2 {
			row.X1, row.X2 = row.X2, row.X1
		}

		risky := make(map[string]bool)
		for _, po := range s.PurchaseOrders {
			for _, c := range po.Components {
				if c.AtRisk {
					risky[c.ComponentID] = true
				}
			}
		}
		for _, po := range item.PurchaseOrders {
			for _, c := range po.Components {
				row.Markers = append(row.Markers, TimelineMarker{
					Label:  fmt.Sprintf("%s / %s", po.PONumber, c.Name),
					Date:   c.CurrentShipDate,
					X:      tl.xFor(c.CurrentShipDate),
					AtRisk: risky[c.ID],
					Done:   c.Received,
				})
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// GenerateSVG renders the timeline as a standalone SVG document
func (tl *Timeline) GenerateSVG(statuses []dto.ItemStatus) string {
	if len(statuses) == 0 {
		return tl.generateEmptyChart()
	}

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, tl.Width, tl.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.item-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.slip-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, tl.Width, tl.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Production Ship Schedule</text>`, tl.Width/2))

	rows := tl.Rows(statuses)
	tl.drawTimeAxis(&svg, len(rows))
	for i, row := range rows {
		tl.drawRow(&svg, row, tl.MarginTop+i*tl.RowHeight)
	}
	tl.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// drawTimeAxis draws weekly or monthly gridlines with date labels
func (tl *Timeline) drawTimeAxis(svg *strings.Builder, numRows int) {
	axisY := tl.MarginTop + numRows*tl.RowHeight + 10
	step := 7
	if dayIndex(tl.End)-dayIndex(tl.Start) > 180 {
		step = 30
	}

	for d := tl.Start; !d.After(tl.End); d = d.AddDays(step) {
		x := tl.xFor(d)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, tl.MarginTop, x, axisY))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%s</text>`,
			x, axisY+15, d))
	}

	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		tl.MarginLeft, axisY, tl.Width-tl.MarginRight, axisY))
}

func (tl *Timeline) drawRow(svg *strings.Builder, row TimelineRow, y int) {
	label := row.Label
	if row.Ready {
		label += " ✓"
	}
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="item-label" text-anchor="end">%s</text>`,
		tl.MarginLeft-15, y+tl.RowHeight/2+4, html.EscapeString(label)))
	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		tl.MarginLeft, y+tl.RowHeight, tl.Width-tl.MarginRight, y+tl.RowHeight))

	width := row.X2 - row.X1
	if width < 2 {
		width = 2
	}
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="slip-bar">`,
		row.X1, y+8, width, tl.RowHeight-16, row.Color))
	svg.WriteString(fmt.Sprintf(`<title>%s</title></rect>`, html.EscapeString(fmt.Sprintf(
		"Original: %s, Current: %s, Status: %s", row.Original, row.Current, row.Deviation))))

	for _, m := range row.Markers {
		fill := "#2196F3"
		switch {
		case m.AtRisk:
			fill = "#FF9800"
		case m.Done:
			fill = "#9E9E9E"
		}
		cy := y + tl.RowHeight/2
		svg.WriteString(fmt.Sprintf(`<circle cx="%d" cy="%d" r="4" fill="%s">`, m.X, cy, fill))
		svg.WriteString(fmt.Sprintf(`<title>%s</title></circle>`, html.EscapeString(fmt.Sprintf(
			"%s: %s", m.Label, m.Date))))
	}
}

func (tl *Timeline) drawLegend(svg *strings.Builder) {
	legendX := tl.Width - tl.MarginRight - 200
	legendY := 40

	items := []struct {
		color string
		label string
	}{
		{deviationColor(entities.Ahead), "Ahead of original date"},
		{deviationColor(entities.Behind), "Behind original date"},
		{"#FF9800", "Component at risk"},
		{"#9E9E9E", "Component received"},
	}

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="180" height="%d" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY, 20+len(items)*12))
	for i, item := range items {
		itemY := legendY + 10 + i*12
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`,
			legendX+10, itemY, item.color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label">%s</text>`,
			legendX+30, itemY+7, item.label))
	}
}

func deviationColor(d entities.Deviation) string {
	switch d {
	case entities.Ahead:
		return "#4CAF50"
	case entities.Behind:
		return "#F44336"
	default:
		return "#607D8B"
	}
}

func (tl *Timeline) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Production Items Found</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, tl.Width, tl.Height, tl.Width, tl.Height, tl.Width/2, tl.Height/2)
}

// generateSVGOutput writes ship_timeline.svg, or the document to Out without a directory
func generateSVGOutput(statuses []dto.ItemStatus, config Config) error {
	doc := NewTimeline(statuses).GenerateSVG(statuses)

	if config.OutputDir == "" {
		_, err := io.WriteString(config.out(), doc)
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "ship_timeline.svg")
	if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write SVG file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "📈 Ship timeline saved to: %s\n", filename)
	}
	return nil
}
