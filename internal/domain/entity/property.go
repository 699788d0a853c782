package entity

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType describes the kind of real estate being listed.
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyVilla      PropertyType = "villa"
	PropertyPlot       PropertyType = "plot"
	PropertyCommercial PropertyType = "commercial"
)

// ListingType tells whether the property is offered for sale or for rent.
type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingRent ListingType = "rent"
)

// Property is a listing owned by an agent and moderated by admins.
type Property struct {
	ID           uuid.UUID
	AgentID      uuid.UUID
	Title        string
	Description  string
	Address      string
	City         string
	PropertyType PropertyType
	ListingType  ListingType
	Price        int64 // Whole currency units.
	Bedrooms     int
	Bathrooms    int
	AreaSqFt     int
	Moderation   Moderation
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PropertyDetails is the editable content of a listing.
type PropertyDetails struct {
	Title        string
	Description  string
	Address      string
	City         string
	PropertyType PropertyType
	ListingType  ListingType
	Price        int64
	Bedrooms     int
	Bathrooms    int
	AreaSqFt     int
}

// NewProperty creates a pending listing for the agent.
func NewProperty(agentID uuid.UUID, details PropertyDetails) *Property {
	p := &Property{AgentID: agentID}
	p.apply(details)

	return p
}

// Edit replaces the listing content. Any edit forces the listing back to review.
func (p *Property) Edit(details PropertyDetails) {
	p.apply(details)
	p.Moderation.ResetForReview()
}

// IsOwnedBy reports whether the agent owns the listing.
func (p *Property) IsOwnedBy(agentID uuid.UUID) bool {
	return p.AgentID == agentID
}

func (p *Property) apply(d PropertyDetails) {
	p.Title = d.Title
	p.Description = d.Description
	p.Address = d.Address
	p.City = d.City
	p.PropertyType = d.PropertyType
	p.ListingType = d.ListingType
	p.Price = d.Price
	p.Bedrooms = d.Bedrooms
	p.Bathrooms = d.Bathrooms
	p.AreaSqFt = d.AreaSqFt
}
