package mongo

import (
	"time"

	"estate/internal/domain/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// IDs are stored as canonical uuid strings so both backends share one identifier format.

type accountDocument struct {
	ID           string           `bson:"_id"`
	Name         string           `bson:"name"`
	Email        string           `bson:"email"`
	PasswordHash string           `bson:"passwordHash"`
	Contact      string           `bson:"contact"`
	Role         string           `bson:"role"`
	Agent        *agentDocument   `bson:"agent,omitempty"`
	Moderation   moderationFields `bson:",inline"`
	CreatedAt    time.Time        `bson:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

type agentDocument struct {
	AgencyName    string `bson:"agencyName"`
	LicenseNumber string `bson:"licenseNumber"`
}

type moderationFields struct {
	IsApproved      bool       `bson:"isApproved"`
	RejectionReason string     `bson:"rejectionReason"`
	ApprovedAt      *time.Time `bson:"approvedAt"`
	ApprovedBy      *string    `bson:"approvedBy"`
}

type propertyDocument struct {
	ID           string           `bson:"_id"`
	AgentID      string           `bson:"agentId"`
	Title        string           `bson:"title"`
	Description  string           `bson:"description"`
	Address      string           `bson:"address"`
	City         string           `bson:"city"`
	PropertyType string           `bson:"propertyType"`
	ListingType  string           `bson:"listingType"`
	Price        int64            `bson:"price"`
	Bedrooms     int              `bson:"bedrooms"`
	Bathrooms    int              `bson:"bathrooms"`
	AreaSqFt     int              `bson:"areaSqFt"`
	Moderation   moderationFields `bson:",inline"`
	CreatedAt    time.Time        `bson:"createdAt"`
	UpdatedAt    time.Time        `bson:"updatedAt"`
}

func bsonKeys(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, field := range fields {
		keys = append(keys, bson.E{Key: field, Value: 1})
	}

	return keys
}

func moderationSet(m entity.Moderation, now time.Time) bson.M {
	fields := fromModeration(m)

	return bson.M{"$set": bson.M{
		"isApproved":      fields.IsApproved,
		"rejectionReason": fields.RejectionReason,
		"approvedAt":      fields.ApprovedAt,
		"approvedBy":      fields.ApprovedBy,
		"updatedAt":       now,
	}}
}

// moderationFilter mirrors the postgres state scopes.
func moderationFilter(filter bson.M, state entity.ModerationState) bson.M {
	switch state {
	case entity.ModerationApproved:
		filter["isApproved"] = true
	case entity.ModerationRejected:
		filter["isApproved"] = false
		filter["rejectionReason"] = bson.M{"$ne": ""}
	default:
		filter["isApproved"] = false
		filter["rejectionReason"] = ""
	}

	return filter
}

func fromModeration(m entity.Moderation) moderationFields {
	fields := moderationFields{
		IsApproved:      m.IsApproved,
		RejectionReason: m.RejectionReason,
	}
	if m.ApprovedAt != nil {
		at := m.ApprovedAt.UTC()
		fields.ApprovedAt = &at
	}
	if m.ApprovedBy != nil {
		by := m.ApprovedBy.String()
		fields.ApprovedBy = &by
	}

	return fields
}

func (f moderationFields) toDomain() entity.Moderation {
	m := entity.Moderation{
		IsApproved:      f.IsApproved,
		RejectionReason: f.RejectionReason,
		ApprovedAt:      f.ApprovedAt,
	}
	if f.ApprovedBy != nil {
		if by, err := uuid.Parse(*f.ApprovedBy); err == nil {
			m.ApprovedBy = &by
		}
	}

	return m
}

func fromAccount(a *entity.Account) *accountDocument {
	doc := &accountDocument{
		ID:           a.ID.String(),
		Name:         a.Name,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		Contact:      a.Contact,
		Role:         a.Role.String(),
		Moderation:   fromModeration(a.Moderation),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if a.Agent != nil {
		doc.Agent = &agentDocument{
			AgencyName:    a.Agent.AgencyName,
			LicenseNumber: a.Agent.LicenseNumber,
		}
	}

	return doc
}

func (d *accountDocument) toDomain() (*entity.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}

	account := &entity.Account{
		ID:           id,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Contact:      d.Contact,
		Role:         entity.Role(d.Role),
		Moderation:   d.Moderation.toDomain(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Agent != nil {
		account.Agent = &entity.AgentProfile{
			AgencyName:    d.Agent.AgencyName,
			LicenseNumber: d.Agent.LicenseNumber,
		}
	}

	return account, nil
}

func fromProperty(p *entity.Property) *propertyDocument {
	return &propertyDocument{
		ID:           p.ID.String(),
		AgentID:      p.AgentID.String(),
		Title:        p.Title,
		Description:  p.Description,
		Address:      p.Address,
		City:         p.City,
		PropertyType: string(p.PropertyType),
		ListingType:  string(p.ListingType),
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		AreaSqFt:     p.AreaSqFt,
		Moderation:   fromModeration(p.Moderation),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (d *propertyDocument) toDomain() (*entity.Property, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	agentID, err := uuid.Parse(d.AgentID)
	if err != nil {
		return nil, err
	}

	return &entity.Property{
		ID:           id,
		AgentID:      agentID,
		Title:        d.Title,
		Description:  d.Description,
		Address:      d.Address,
		City:         d.City,
		PropertyType: entity.PropertyType(d.PropertyType),
		ListingType:  entity.ListingType(d.ListingType),
		Price:        d.Price,
		Bedrooms:     d.Bedrooms,
		Bathrooms:    d.Bathrooms,
		AreaSqFt:     d.AreaSqFt,
		Moderation:   d.Moderation.toDomain(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}
