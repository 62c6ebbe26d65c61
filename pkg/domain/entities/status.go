package entities

import (
	"errors"
	"fmt"
)

// Deviation is the verdict of comparing a current ship date against its baseline
type Deviation int

const (
	OnTime Deviation = iota
	Ahead
	Behind
)

// String method for Deviation enum
func (d Deviation) String() string {
	switch d {
	case OnTime:
		return "On Time"
	case Ahead:
		return "Ahead"
	case Behind:
		return "Behind"
	default:
		return "Unknown"
	}
}

// MarshalText renders the deviation as its narrative string
func (d Deviation) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ErrInvalidRole is returned for role strings outside the closed set
var ErrInvalidRole = errors.New("invalid access role")

// Role is the access level handed over by the access-control collaborator.
// Nothing in the tracking engine branches on it; it is carried through as a value.
type Role string

const (
	NoAccess    Role = "no_access"
	ViewAccess  Role = "view_access"
	EditAccess  Role = "edit_access"
	AdminAccess Role = "admin_access"
)

// ParseRole validates a role string against the closed set
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case NoAccess, ViewAccess, EditAccess, AdminAccess:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}
