package handler

import (
	"time"

	"estate/internal/domain/entity"
)

// AccountResponse is the sanitized account. The password hash never leaves the service.
type AccountResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Contact         string     `json:"contact"`
	Role            string     `json:"role"`
	AgencyName      string     `json:"agencyName,omitempty"`
	LicenseNumber   string     `json:"licenseNumber,omitempty"`
	IsApproved      *bool      `json:"isApproved,omitempty"`
	Status          string     `json:"status,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toAccountResponse(a *entity.Account) AccountResponse {
	resp := AccountResponse{
		ID:        a.ID.String(),
		Name:      a.Name,
		Email:     a.Email,
		Contact:   a.Contact,
		Role:      a.Role.String(),
		CreatedAt: a.CreatedAt,
	}

	if a.RequiresApproval() {
		approved := a.Moderation.IsApproved
		resp.IsApproved = &approved
		resp.Status = string(a.Moderation.State())
		resp.RejectionReason = a.Moderation.RejectionReason
		resp.ApprovedAt = a.Moderation.ApprovedAt
	}
	if a.Agent != nil {
		resp.AgencyName = a.Agent.AgencyName
		resp.LicenseNumber = a.Agent.LicenseNumber
	}

	return resp
}

func toAccountResponses(accounts []*entity.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}

	return out
}

// PropertyResponse is a listing as shown to agents and admins.
type PropertyResponse struct {
	ID              string     `json:"id"`
	AgentID         string     `json:"agentId"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Address         string     `json:"address"`
	City            string     `json:"city"`
	PropertyType    string     `json:"propertyType"`
	ListingType     string     `json:"listingType"`
	Price           int64      `json:"price"`
	Bedrooms        int        `json:"bedrooms"`
	Bathrooms       int        `json:"bathrooms"`
	AreaSqFt        int        `json:"areaSqFt"`
	IsApproved      bool       `json:"isApproved"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func toPropertyResponse(p *entity.Property) PropertyResponse {
	return PropertyResponse{
		ID:              p.ID.String(),
		AgentID:         p.AgentID.String(),
		Title:           p.Title,
		Description:     p.Description,
		Address:         p.Address,
		City:            p.City,
		PropertyType:    string(p.PropertyType),
		ListingType:     string(p.ListingType),
		Price:           p.Price,
		Bedrooms:        p.Bedrooms,
		Bathrooms:       p.Bathrooms,
		AreaSqFt:        p.AreaSqFt,
		IsApproved:      p.Moderation.IsApproved,
		Status:          string(p.Moderation.State()),
		RejectionReason: p.Moderation.RejectionReason,
		ApprovedAt:      p.Moderation.ApprovedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toPropertyResponses(properties []*entity.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, toPropertyResponse(p))
	}

	return out
}
