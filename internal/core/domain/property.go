package domain

import "time"

// Room is an open-ended set of attributes (name, surface, floor, ...).
type Room map[string]any

type Property struct {
	ID          int64
	Title       string
	Description string
	Kind        string
	City        string
	OwnerID     int64
	Rooms       []Room
	CreatedAt   time.Time
}

func (p *Property) OwnedBy(c *Caller) bool {
	return c != nil && p.OwnerID == c.ID
}

// PropertyPatch carries the mutable listing fields. Nil means "leave untouched".
type PropertyPatch struct {
	Title       *string
	Description *string
	Kind        *string
	City        *string
	Rooms       *[]Room

	// Immutable names identity-defining keys (id, proprietaire) the client
	// tried to set. A patch carrying any is rejected.
	Immutable []string

	// Malformed is the first problem found reading the request body. It is
	// only reported to callers allowed to change the listing.
	Malformed error
}

func (p PropertyPatch) Apply(prop *Property) {
	if p.Title != nil {
		prop.Title = *p.Title
	}
	if p.Description != nil {
		prop.Description = *p.Description
	}
	if p.Kind != nil {
		prop.Kind = *p.Kind
	}
	if p.City != nil {
		prop.City = *p.City
	}
	if p.Rooms != nil {
		prop.Rooms = *p.Rooms
	}
}
