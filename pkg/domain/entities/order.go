package entities

import (
	"fmt"
)

// Component represents a physical part tied to one purchase order
type Component struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	CatalogNumber    string   `json:"catalogNumber,omitempty"`
	Quantity         Quantity `json:"quantity"`
	Received         bool     `json:"received"`
	Notes            string   `json:"notes,omitempty"`
	OriginalShipDate Date     `json:"originalShipDate"`
	CurrentShipDate  Date     `json:"currentShipDate"`
}

// NewComponent creates a validated Component that has not been received yet
func NewComponent(
	name, catalogNumber string,
	quantity Quantity,
	originalShipDate, currentShipDate Date,
) (*Component, error) {
	c := &Component{
		Name:             name,
		CatalogNumber:    catalogNumber,
		Quantity:         quantity,
		OriginalShipDate: originalShipDate,
		CurrentShipDate:  currentShipDate,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the component's required fields
func (c *Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	if c.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", c.Quantity)
	}
	if c.OriginalShipDate.IsZero() {
		return fmt.Errorf("original ship date is required")
	}
	if c.CurrentShipDate.IsZero() {
		return fmt.Errorf("current ship date is required")
	}
	return nil
}

// ComponentUpdate carries the only component fields that may change after creation.
// Nil fields are left untouched.
type ComponentUpdate struct {
	Received        *bool `json:"received,omitempty"`
	CurrentShipDate *Date `json:"currentShipDate,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (u ComponentUpdate) IsEmpty() bool {
	return u.Received == nil && u.CurrentShipDate == nil
}

// Apply writes the update onto c
func (u ComponentUpdate) Apply(c *Component) {
	if u.Received != nil {
		c.Received = *u.Received
	}
	if u.CurrentShipDate != nil {
		c.CurrentShipDate = *u.CurrentShipDate
	}
}

// PurchaseOrder represents a procurement record owned by exactly one production item
type PurchaseOrder struct {
	ID         string       `json:"id"`
	PONumber   string       `json:"poNumber"`
	Vendor     string       `json:"vendor,omitempty"`
	Components []*Component `json:"components"`
}

// NewPurchaseOrder creates a validated PurchaseOrder with no components
func NewPurchaseOrder(poNumber, vendor string) (*PurchaseOrder, error) {
	po := &PurchaseOrder{PONumber: poNumber, Vendor: vendor}
	if err := po.Validate(); err != nil {
		return nil, err
	}
	return po, nil
}

// Validate checks the purchase order and its components. Nil components are skipped.
func (po *PurchaseOrder) Validate() error {
	if po.PONumber == "" {
		return fmt.Errorf("PO number cannot be empty")
	}
	for _, c := range po.Components {
		if c == nil {
			continue
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("component %s: %w", c.Name, err)
		}
	}
	return nil
}

// Clone returns a deep copy of the purchase order and its components
func (po *PurchaseOrder) Clone() *PurchaseOrder {
	if po == nil {
		return nil
	}
	c := *po
	if po.Components != nil {
		c.Components = make([]*Component, len(po.Components))
		for i, comp := range po.Components {
			if comp == nil {
				continue
			}
			cc := *comp
			c.Components[i] = &cc
		}
	}
	return &c
}
