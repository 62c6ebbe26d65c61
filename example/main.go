package main

import (
	"context"
	"fmt"

	"github.com/vsinha/shiptrack/pkg/application/services/report"
	"github.com/vsinha/shiptrack/pkg/application/services/tracking"
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/domain/services"
	"github.com/vsinha/shiptrack/pkg/infrastructure/export"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/memory"
)

func main() {
	ctx := context.Background()
	d := entities.MustParseDate

	// A switchboard pulled in by two weeks, waiting on a breaker that slipped
	switchboard, err := entities.NewProductionItem("SO-1001", "Acme Electric", d("2024-02-01"), d("2024-01-15"),
		entities.AssembledUnit{Designation: "SWBD-1", EnclosureType: "NEMA 1", Sections: 3})
	if err != nil {
		fmt.Printf("❌ Invalid item: %v\n", err)
		return
	}

	po, _ := entities.NewPurchaseOrder("PO-5001", "Graybar")
	breaker, _ := entities.NewComponent("Main Breaker", "MB-4000", 1, d("2024-01-10"), d("2024-01-25"))
	busBar, _ := entities.NewComponent("Bus Bar", "BB-22", 6, d("2024-01-01"), d("2024-01-01"))
	busBar.Received = true
	po.Components = []*entities.Component{breaker, busBar}
	switchboard.PurchaseOrders = []*entities.PurchaseOrder{po}

	mcc, _ := entities.NewProductionItem("SO-1002", "Acme Electric", d("2024-02-15"), d("2024-02-20"),
		entities.IntegratedUnit{Designation: "MCC-1", TypeLabel: "Motor Control Center"})
	fuses, _ := entities.NewProductionItem("SO-1003", "Beta Builders", d("2024-01-20"), d("2024-01-20"),
		entities.MiscItem{Quantity: 12, Description: "Spare fuse kit"})

	items := []*entities.ProductionItem{mcc, fuses, switchboard}

	fmt.Println("🏭 Evaluating production items...")
	detector := services.NewScheduleRiskDetector()
	for _, item := range services.SortByCurrentShipDate(items) {
		counts := services.CountComponents(item)
		fmt.Printf("  %-16s %-15s ships %s (%s)  %-15s risk=%t ready=%t\n",
			item.Kind.Label(),
			item.DisplayName(),
			item.CurrentShipDate,
			services.ClassifyDeviation(item.OriginalShipDate, item.CurrentShipDate),
			counts.Summary(),
			detector.ItemHasScheduleRisk(item),
			services.IsItemReady(item))
	}
	fmt.Println()

	for _, ref := range detector.AtRiskComponents(switchboard) {
		fmt.Printf("⚠️  %s on %s lands %s, inside the %d-day buffer before %s\n",
			ref.Component.Name, ref.PurchaseOrder.PONumber, ref.Component.CurrentShipDate,
			detector.BufferDays(), switchboard.CurrentShipDate)
	}

	// The same items through the repository-backed service and the workbook exporter
	repo := memory.NewItemRepository(len(items))
	if err := repo.LoadItems(items); err != nil {
		fmt.Printf("❌ Load failed: %v\n", err)
		return
	}

	snapshot, err := tracking.NewService(repo).LoadSnapshot(ctx)
	if err != nil {
		fmt.Printf("❌ Snapshot failed: %v\n", err)
		return
	}

	workbook := report.NewBuilder().Build(snapshot)
	exporter, _ := export.NewExporter(export.FormatXLSX)
	data, err := exporter.Render(ctx, workbook)
	if err != nil {
		fmt.Printf("❌ Export failed: %v\n", err)
		return
	}

	fmt.Printf("\n📊 %s: %d bytes (%s)\n", exporter.FileName(), len(data), report.Describe(workbook))
}
