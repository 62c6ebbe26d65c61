package entities

import (
	"errors"
	"fmt"
)

// Quantity represents an integer quantity value for discrete manufacturing units
type Quantity int64

// ErrUnknownKind is returned when a string does not name an item kind
var ErrUnknownKind = errors.New("unknown item kind")

// ItemKind tags which variant a ProductionItem is
type ItemKind string

const (
	KindAssembled  ItemKind = "assembled"
	KindIntegrated ItemKind = "integrated"
	KindMisc       ItemKind = "misc"
)

// AllKinds lists the item kinds in reporting order
var AllKinds = []ItemKind{KindAssembled, KindIntegrated, KindMisc}

// ParseItemKind validates a kind string
func ParseItemKind(s string) (ItemKind, error) {
	switch k := ItemKind(s); k {
	case KindAssembled, KindIntegrated, KindMisc:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q (expected assembled, integrated or misc)", ErrUnknownKind, s)
	}
}

// Label returns the singular human-readable name of the kind
func (k ItemKind) Label() string {
	switch k {
	case KindAssembled:
		return "Assembled Unit"
	case KindIntegrated:
		return "Integrated Unit"
	case KindMisc:
		return "Misc Item"
	default:
		return "Unknown"
	}
}

// SheetName returns the plural name used for the kind's report sheet
func (k ItemKind) SheetName() string {
	switch k {
	case KindAssembled:
		return "Assembled Units"
	case KindIntegrated:
		return "Integrated Units"
	case KindMisc:
		return "Misc Items"
	default:
		return "Unknown"
	}
}

// AssembledUnit holds the fields specific to assembled units
type AssembledUnit struct {
	Designation   string `json:"designation"`
	EnclosureType string `json:"enclosureType"`
	Sections      int    `json:"sections"`
}

// IntegratedUnit holds the fields specific to integrated units
type IntegratedUnit struct {
	Designation string `json:"designation"`
	TypeLabel   string `json:"typeLabel"`
}

// MiscItem holds the fields specific to miscellaneous items
type MiscItem struct {
	Quantity    Quantity `json:"quantity"`
	Description string   `json:"description"`
}

// ProductionItem is a top-level trackable unit. Exactly one of Assembled, Integrated
// or Misc is set and it matches Kind.
type ProductionItem struct {
	ID               string           `json:"id"`
	Kind             ItemKind         `json:"kind"`
	SalesOrder       string           `json:"salesOrder"`
	Customer         string           `json:"customer"`
	JobName          string           `json:"jobName,omitempty"`
	JobAddress       string           `json:"jobAddress,omitempty"`
	DrawingRevision  string           `json:"drawingRevision,omitempty"`
	Completed        bool             `json:"completed"`
	OriginalShipDate Date             `json:"originalShipDate"`
	CurrentShipDate  Date             `json:"currentShipDate"`
	PurchaseOrders   []*PurchaseOrder `json:"purchaseOrders"`

	Assembled  *AssembledUnit  `json:"assembled,omitempty"`
	Integrated *IntegratedUnit `json:"integrated,omitempty"`
	Misc       *MiscItem       `json:"misc,omitempty"`
}

// DisplayName returns the designation for units and the description for misc items
func (i *ProductionItem) DisplayName() string {
	switch i.Kind {
	case KindAssembled:
		if i.Assembled != nil {
			return i.Assembled.Designation
		}
	case KindIntegrated:
		if i.Integrated != nil {
			return i.Integrated.Designation
		}
	case KindMisc:
		if i.Misc != nil {
			return i.Misc.Description
		}
	}
	return ""
}

// Validate checks the item's required fields and variant consistency.
// Nested purchase orders and components are validated too; nil entries are skipped.
func (i *ProductionItem) Validate() error {
	if _, err := ParseItemKind(string(i.Kind)); err != nil {
		return err
	}
	if i.SalesOrder == "" {
		return fmt.Errorf("sales order cannot be empty")
	}
	if i.Customer == "" {
		return fmt.Errorf("customer cannot be empty")
	}
	if i.OriginalShipDate.IsZero() {
		return fmt.Errorf("original ship date is required")
	}
	if i.CurrentShipDate.IsZero() {
		return fmt.Errorf("current ship date is required")
	}

	switch i.Kind {
	case KindAssembled:
		if i.Assembled == nil || i.Integrated != nil || i.Misc != nil {
			return fmt.Errorf("assembled item must carry only assembled unit fields")
		}
		if i.Assembled.Designation == "" {
			return fmt.Errorf("designation cannot be empty")
		}
		if i.Assembled.Sections < 0 {
			return fmt.Errorf("section count cannot be negative, got %d", i.Assembled.Sections)
		}
	case KindIntegrated:
		if i.Integrated == nil || i.Assembled != nil || i.Misc != nil {
			return fmt.Errorf("integrated item must carry only integrated unit fields")
		}
		if i.Integrated.Designation == "" {
			return fmt.Errorf("designation cannot be empty")
		}
	case KindMisc:
		if i.Misc == nil || i.Assembled != nil || i.Integrated != nil {
			return fmt.Errorf("misc item must carry only misc item fields")
		}
		if i.Misc.Quantity <= 0 {
			return fmt.Errorf("quantity must be positive, got %d", i.Misc.Quantity)
		}
	}

	for _, po := range i.PurchaseOrders {
		if po == nil {
			continue
		}
		if err := po.Validate(); err != nil {
			return fmt.Errorf("purchase order %s: %w", po.PONumber, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the item and everything it owns
func (i *ProductionItem) Clone() *ProductionItem {
	if i == nil {
		return nil
	}
	c := *i
	if i.Assembled != nil {
		a := *i.Assembled
		c.Assembled = &a
	}
	if i.Integrated != nil {
		in := *i.Integrated
		c.Integrated = &in
	}
	if i.Misc != nil {
		m := *i.Misc
		c.Misc = &m
	}
	if i.PurchaseOrders != nil {
		c.PurchaseOrders = make([]*PurchaseOrder, len(i.PurchaseOrders))
		for j, po := range i.PurchaseOrders {
			c.PurchaseOrders[j] = po.Clone()
		}
	}
	return &c
}

// NewProductionItem creates a validated item. The kind follows from the variant's type,
// which must be AssembledUnit, IntegratedUnit or MiscItem.
func NewProductionItem(
	salesOrder, customer string,
	originalShipDate, currentShipDate Date,
	variant interface{},
) (*ProductionItem, error) {
	item := &ProductionItem{
		SalesOrder:       salesOrder,
		Customer:         customer,
		OriginalShipDate: originalShipDate,
		CurrentShipDate:  currentShipDate,
	}

	switch v := variant.(type) {
	case AssembledUnit:
		item.Kind = KindAssembled
		item.Assembled = &v
	case IntegratedUnit:
		item.Kind = KindIntegrated
		item.Integrated = &v
	case MiscItem:
		item.Kind = KindMisc
		item.Misc = &v
	default:
		return nil, fmt.Errorf("%w: variant of type %T", ErrUnknownKind, variant)
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}
