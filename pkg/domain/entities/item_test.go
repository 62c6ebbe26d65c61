package entities

import (
	"errors"
	"strings"
	"testing"
)

func validAssembled() *ProductionItem {
	return &ProductionItem{
		ID:               "item-1",
		Kind:             KindAssembled,
		SalesOrder:       "SO-1001",
		Customer:         "Acme Electric",
		JobName:          "North Plant",
		OriginalShipDate: MustParseDate("2024-02-01"),
		CurrentShipDate:  MustParseDate("2024-02-01"),
		Assembled:        &AssembledUnit{Designation: "SWBD-1", EnclosureType: "NEMA 1", Sections: 3},
		PurchaseOrders: []*PurchaseOrder{{
			ID:       "po-1",
			PONumber: "PO-1",
			Components: []*Component{{
				ID:               "c-1",
				Name:             "Main Breaker",
				Quantity:         1,
				OriginalShipDate: MustParseDate("2024-01-10"),
				CurrentShipDate:  MustParseDate("2024-01-10"),
			}},
		}},
	}
}

func TestParseItemKind(t *testing.T) {
	for _, kind := range AllKinds {
		got, err := ParseItemKind(string(kind))
		if err != nil || got != kind {
			t.Errorf("ParseItemKind(%q) = %q, %v", kind, got, err)
		}
	}

	if _, err := ParseItemKind("panel"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestItemKind_Names(t *testing.T) {
	tests := []struct {
		kind  ItemKind
		label string
		sheet string
	}{
		{KindAssembled, "Assembled Unit", "Assembled Units"},
		{KindIntegrated, "Integrated Unit", "Integrated Units"},
		{KindMisc, "Misc Item", "Misc Items"},
	}

	for _, tt := range tests {
		if tt.kind.Label() != tt.label {
			t.Errorf("%s.Label() = %q, want %q", tt.kind, tt.kind.Label(), tt.label)
		}
		if tt.kind.SheetName() != tt.sheet {
			t.Errorf("%s.SheetName() = %q, want %q", tt.kind, tt.kind.SheetName(), tt.sheet)
		}
	}
}

func TestProductionItem_Validate(t *testing.T) {
	if err := validAssembled().Validate(); err != nil {
		t.Fatalf("expected valid item, got %v", err)
	}

	testCases := []struct {
		name        string
		mutate      func(*ProductionItem)
		expectError string
	}{
		{"unknown kind", func(i *ProductionItem) { i.Kind = "panel" }, "unknown item kind"},
		{"empty sales order", func(i *ProductionItem) { i.SalesOrder = "" }, "sales order cannot be empty"},
		{"empty customer", func(i *ProductionItem) { i.Customer = "" }, "customer cannot be empty"},
		{"missing original date", func(i *ProductionItem) { i.OriginalShipDate = Date{} }, "original ship date is required"},
		{"missing current date", func(i *ProductionItem) { i.CurrentShipDate = Date{} }, "current ship date is required"},
		{"missing variant", func(i *ProductionItem) { i.Assembled = nil }, "must carry only assembled unit fields"},
		{
			"two variants",
			func(i *ProductionItem) { i.Misc = &MiscItem{Quantity: 1, Description: "x"} },
			"must carry only assembled unit fields",
		},
		{"empty designation", func(i *ProductionItem) { i.Assembled.Designation = "" }, "designation cannot be empty"},
		{"negative sections", func(i *ProductionItem) { i.Assembled.Sections = -1 }, "section count cannot be negative"},
		{
			"bad nested component",
			func(i *ProductionItem) { i.PurchaseOrders[0].Components[0].Quantity = 0 },
			"purchase order PO-1: component Main Breaker: quantity must be positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			item := validAssembled()
			tc.mutate(item)
			err := item.Validate()
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestProductionItem_ValidateVariants(t *testing.T) {
	integrated := &ProductionItem{
		Kind:             KindIntegrated,
		SalesOrder:       "SO-2",
		Customer:         "Acme",
		OriginalShipDate: MustParseDate("2024-02-01"),
		CurrentShipDate:  MustParseDate("2024-02-01"),
		Integrated:       &IntegratedUnit{Designation: "MCC-4", TypeLabel: "MCC"},
	}
	if err := integrated.Validate(); err != nil {
		t.Errorf("integrated item should be valid: %v", err)
	}

	misc := &ProductionItem{
		Kind:             KindMisc,
		SalesOrder:       "SO-3",
		Customer:         "Acme",
		OriginalShipDate: MustParseDate("2024-02-01"),
		CurrentShipDate:  MustParseDate("2024-02-01"),
		Misc:             &MiscItem{Quantity: 0, Description: "Spare fuses"},
	}
	if err := misc.Validate(); err == nil {
		t.Error("misc item with zero quantity should fail")
	}
	misc.Misc.Quantity = 12
	if err := misc.Validate(); err != nil {
		t.Errorf("misc item should be valid: %v", err)
	}
	if misc.DisplayName() != "Spare fuses" {
		t.Errorf("DisplayName() = %q", misc.DisplayName())
	}
}

func TestProductionItem_Clone(t *testing.T) {
	original := validAssembled()
	clone := original.Clone()

	clone.Assembled.Designation = "CHANGED"
	clone.PurchaseOrders[0].PONumber = "CHANGED"
	clone.PurchaseOrders[0].Components[0].Received = true

	if original.Assembled.Designation != "SWBD-1" {
		t.Error("clone shares the variant with the original")
	}
	if original.PurchaseOrders[0].PONumber != "PO-1" {
		t.Error("clone shares purchase orders with the original")
	}
	if original.PurchaseOrders[0].Components[0].Received {
		t.Error("clone shares components with the original")
	}

	var nilItem *ProductionItem
	if nilItem.Clone() != nil {
		t.Error("cloning nil should return nil")
	}
}

func TestNewProductionItem(t *testing.T) {
	ship := MustParseDate("2024-06-01")

	tests := []struct {
		name    string
		variant interface{}
		kind    ItemKind
	}{
		{"assembled", AssembledUnit{Designation: "SWBD-9", Sections: 2}, KindAssembled},
		{"integrated", IntegratedUnit{Designation: "MCC-1", TypeLabel: "MCC"}, KindIntegrated},
		{"misc", MiscItem{Quantity: 3, Description: "Lugs"}, KindMisc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := NewProductionItem("SO-1", "Acme", ship, ship, tt.variant)
			if err != nil {
				t.Fatalf("NewProductionItem() returned error: %v", err)
			}
			if item.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", item.Kind, tt.kind)
			}
			if item.DisplayName() == "" {
				t.Error("DisplayName() should not be empty")
			}
		})
	}

	if _, err := NewProductionItem("SO-1", "Acme", ship, ship, "panel"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind for unsupported variant, got %v", err)
	}
	if _, err := NewProductionItem("", "Acme", ship, ship, MiscItem{Quantity: 1}); err == nil {
		t.Error("expected error for empty sales order")
	}
}

func TestProductionItem_ValidateSkipsNilEntries(t *testing.T) {
	item := validAssembled()
	item.PurchaseOrders = append([]*PurchaseOrder{nil}, item.PurchaseOrders...)
	item.PurchaseOrders[1].Components = append(item.PurchaseOrders[1].Components, nil)

	if err := item.Validate(); err != nil {
		t.Fatalf("nil purchase orders and components should be skipped: %v", err)
	}

	item.PurchaseOrders = append(item.PurchaseOrders, nil, &PurchaseOrder{})
	err := item.Validate()
	if err == nil {
		t.Fatal("expected error for the purchase order without a number")
	}
	if !strings.Contains(err.Error(), "PO number cannot be empty") {
		t.Errorf("unexpected error: %v", err)
	}
}
