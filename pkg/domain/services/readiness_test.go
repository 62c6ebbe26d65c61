package services

import (
	"testing"

	"github.com/vsinha/shiptrack/pkg/domain/entities"
)

func TestIsPurchaseOrderReady(t *testing.T) {
	tests := []struct {
		name     string
		po       *entities.PurchaseOrder
		expected bool
	}{
		{"nil_po", nil, false},
		{"nil_components", &entities.PurchaseOrder{PONumber: "PO-1"}, false},
		{"empty_components", &entities.PurchaseOrder{PONumber: "PO-1", Components: []*entities.Component{}}, false},
		{
			"all_received",
			&entities.PurchaseOrder{PONumber: "PO-1", Components: []*entities.Component{
				component("2024-01-01", true),
				component("2024-01-02", true),
			}},
			true,
		},
		{
			"one_outstanding",
			&entities.PurchaseOrder{PONumber: "PO-1", Components: []*entities.Component{
				component("2024-01-01", true),
				component("2024-01-02", false),
			}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsPurchaseOrderReady(tt.po); result != tt.expected {
				t.Errorf("IsPurchaseOrderReady() = %t, want %t", result, tt.expected)
			}
		})
	}
}

func TestIsItemReady(t *testing.T) {
	received := func() *entities.PurchaseOrder {
		return &entities.PurchaseOrder{PONumber: "PO", Components: []*entities.Component{
			component("2024-01-01", true),
			component("2024-01-05", true),
		}}
	}

	t.Run("no_purchase_orders", func(t *testing.T) {
		item := itemShipping("2024-03-01")
		item.PurchaseOrders = []*entities.PurchaseOrder{}
		if IsItemReady(item) {
			t.Error("item with empty purchase order list must not be ready")
		}
	})

	t.Run("nil_purchase_orders", func(t *testing.T) {
		if IsItemReady(itemShipping("2024-03-01")) {
			t.Error("item with absent purchase order list must not be ready")
		}
	})

	t.Run("everything_received", func(t *testing.T) {
		if !IsItemReady(itemShipping("2024-03-01", received(), received())) {
			t.Error("expected item to be ready")
		}
	})

	t.Run("empty_po_blocks_item", func(t *testing.T) {
		item := itemShipping("2024-03-01", received(), &entities.PurchaseOrder{PONumber: "PO-EMPTY"})
		if IsItemReady(item) {
			t.Error("a PO with no components is not ready, so the item is not ready")
		}
	})

	t.Run("any_single_component_flips_readiness", func(t *testing.T) {
		item := itemShipping("2024-03-01", received(), received())
		for _, po := range item.PurchaseOrders {
			for _, c := range po.Components {
				c.Received = false
				if IsItemReady(item) {
					t.Errorf("item should not be ready with %s on %s outstanding", c.Name, po.PONumber)
				}
				c.Received = true
				if !IsItemReady(item) {
					t.Error("item should be ready again once the component is received")
				}
			}
		}
	})

	t.Run("ready_is_independent_of_risk", func(t *testing.T) {
		po := &entities.PurchaseOrder{PONumber: "PO-1", Components: []*entities.Component{component("2024-01-25", false)}}
		item := itemShipping("2024-02-01", po)
		item.OriginalShipDate = entities.MustParseDate("2024-02-01")
		item.CurrentShipDate = entities.MustParseDate("2024-01-15")

		if ClassifyDeviation(item.OriginalShipDate, item.CurrentShipDate) != entities.Ahead {
			t.Error("item should be Ahead")
		}
		if IsItemReady(item) {
			t.Error("item with an unreceived component is not ready")
		}
	})
}

func TestCountComponents(t *testing.T) {
	tests := []struct {
		name            string
		received, total int
		summary         string
		percent         string
	}{
		{"none", 0, 0, "No Components", "0"},
		{"two_of_five", 2, 5, "2/5 Received", "40"},
		{"one_of_three", 1, 3, "1/3 Received", "33.3"},
		{"all", 4, 4, "4/4 Received", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			po := &entities.PurchaseOrder{PONumber: "PO-1"}
			for i := 0; i < tt.total; i++ {
				po.Components = append(po.Components, component("2024-01-01", i < tt.received))
			}
			item := itemShipping("2024-03-01", po)

			counts := CountComponents(item)
			if counts.Received != tt.received || counts.Total != tt.total {
				t.Errorf("CountComponents() = %+v, want %d/%d", counts, tt.received, tt.total)
			}
			if got := counts.Summary(); got != tt.summary {
				t.Errorf("Summary() = %q, want %q", got, tt.summary)
			}
			if got := counts.ReceivedPercent().String(); got != tt.percent {
				t.Errorf("ReceivedPercent() = %s, want %s", got, tt.percent)
			}
		})
	}
}

func TestCountComponents_FlattensAcrossPurchaseOrders(t *testing.T) {
	item := itemShipping("2024-03-01",
		&entities.PurchaseOrder{PONumber: "PO-1", Components: []*entities.Component{component("2024-01-01", true)}},
		&entities.PurchaseOrder{PONumber: "PO-2"},
		&entities.PurchaseOrder{PONumber: "PO-3", Components: []*entities.Component{
			component("2024-01-01", false),
			component("2024-01-01", true),
		}},
	)

	if got := CountComponents(item).Summary(); got != "2/3 Received" {
		t.Errorf("Summary() = %q, want %q", got, "2/3 Received")
	}
}
