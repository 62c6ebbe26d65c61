package testing

import (
	"github.com/vsinha/shiptrack/pkg/domain/entities"
	"github.com/vsinha/shiptrack/pkg/infrastructure/repositories/memory"
)

// Fixture ids used by BuildShopFloorTestData
const (
	SwitchboardID      = "A-100"
	ReadySwitchboardID = "A-101"
	MotorControlID     = "I-200"
	SpareFusesID       = "M-300"

	MainBreakerID = "C-1"
	BusBarID      = "C-2"
	EmptyPOID     = "P-6001"
)

// ShopFloorItems builds a small shop-floor scenario covering every status the engine reports:
//
//	A-100 ships 2024-01-15 (ahead of 2024-02-01), main breaker due 2024-01-25 unreceived: at risk, not ready
//	A-101 ships 2024-03-08 (behind 2024-03-01), everything received well before: ready, no risk
//	I-200 ships 2024-02-15 on time with no purchase orders: not ready
//	M-300 ships 2024-01-20, completed, one purchase order with no components: not ready
func ShopFloorItems() []*entities.ProductionItem {
	d := entities.MustParseDate

	return []*entities.ProductionItem{
		{
			ID:               SwitchboardID,
			Kind:             entities.KindAssembled,
			SalesOrder:       "SO-1001",
			Customer:         "Acme Electric",
			JobName:          "North Plant Expansion",
			JobAddress:       "100 Industrial Way",
			DrawingRevision:  "C",
			OriginalShipDate: d("2024-02-01"),
			CurrentShipDate:  d("2024-01-15"),
			Assembled:        &entities.AssembledUnit{Designation: "SWBD-1", EnclosureType: "NEMA 1", Sections: 3},
			PurchaseOrders: []*entities.PurchaseOrder{{
				ID:       "P-5001",
				PONumber: "PO-5001",
				Vendor:   "Graybar",
				Components: []*entities.Component{
					{
						ID:               MainBreakerID,
						Name:             "Main Breaker",
						CatalogNumber:    "MB-4000",
						Quantity:         1,
						OriginalShipDate: d("2024-01-10"),
						CurrentShipDate:  d("2024-01-25"),
						Notes:            "vendor pushed twice",
					},
					{
						ID:               BusBarID,
						Name:             "Bus Bar",
						CatalogNumber:    "BB-22",
						Quantity:         6,
						Received:         true,
						OriginalShipDate: d("2024-01-01"),
						CurrentShipDate:  d("2024-01-01"),
					},
				},
			}},
		},
		{
			ID:               ReadySwitchboardID,
			Kind:             entities.KindAssembled,
			SalesOrder:       "SO-1004",
			Customer:         "Beta Builders",
			JobName:          "Riverside Clinic",
			OriginalShipDate: d("2024-03-01"),
			CurrentShipDate:  d("2024-03-08"),
			Assembled:        &entities.AssembledUnit{Designation: "SWBD-2", EnclosureType: "NEMA 3R", Sections: 2},
			PurchaseOrders: []*entities.PurchaseOrder{{
				ID:       "P-5003",
				PONumber: "PO-5003",
				Vendor:   "Border States",
				Components: []*entities.Component{
					{
						ID:               "C-3",
						Name:             "Feeder Breaker",
						Quantity:         4,
						Received:         true,
						OriginalShipDate: d("2024-02-10"),
						CurrentShipDate:  d("2024-02-10"),
					},
					{
						ID:               "C-4",
						Name:             "Meter",
						Quantity:         1,
						Received:         true,
						OriginalShipDate: d("2024-02-12"),
						CurrentShipDate:  d("2024-02-08"),
					},
				},
			}},
		},
		{
			ID:               MotorControlID,
			Kind:             entities.KindIntegrated,
			SalesOrder:       "SO-1002",
			Customer:         "Acme Electric",
			JobName:          "North Plant Expansion",
			OriginalShipDate: d("2024-02-15"),
			CurrentShipDate:  d("2024-02-15"),
			Integrated:       &entities.IntegratedUnit{Designation: "MCC-1", TypeLabel: "Motor Control Center"},
		},
		{
			ID:               SpareFusesID,
			Kind:             entities.KindMisc,
			SalesOrder:       "SO-1003",
			Customer:         "Beta Builders",
			Completed:        true,
			OriginalShipDate: d("2024-01-20"),
			CurrentShipDate:  d("2024-01-20"),
			Misc:             &entities.MiscItem{Quantity: 12, Description: "Spare fuse kit"},
			PurchaseOrders:   []*entities.PurchaseOrder{{ID: EmptyPOID, PONumber: "PO-6001"}},
		},
	}
}

// BuildShopFloorTestData loads ShopFloorItems into a fresh in-memory repository
func BuildShopFloorTestData() *memory.ItemRepository {
	items := ShopFloorItems()
	repo := memory.NewItemRepository(len(items))
	if err := repo.LoadItems(items); err != nil {
		panic(err)
	}
	return repo
}
