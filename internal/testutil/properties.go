package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"

	"github.com/google/uuid"
)

// PropertyRepository is an in-memory repository.PropertyRepository.
type PropertyRepository struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*entity.Property

	BeforeUpdateModeration func(stored *entity.Property)
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{properties: make(map[uuid.UUID]*entity.Property)}
}

func (r *PropertyRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	property, ok := r.properties[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}

	return cloneProperty(property), nil
}

func (r *PropertyRepository) Create(_ context.Context, property *entity.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if property.ID == uuid.Nil {
		property.ID = uuid.Must(uuid.NewV7())
	}
	now := time.Now().UTC()
	property.CreatedAt = now
	property.UpdatedAt = now
	r.properties[property.ID] = cloneProperty(property)

	return nil
}

func (r *PropertyRepository) Update(_ context.Context, property *entity.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[property.ID]; !ok {
		return repository.ErrPropertyNotFound
	}
	property.UpdatedAt = time.Now().UTC()
	r.properties[property.ID] = cloneProperty(property)

	return nil
}

func (r *PropertyRepository) List(_ context.Context, filter repository.PropertyFilter) ([]*entity.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Property
	for _, property := range r.properties {
		if filter.AgentID != nil && property.AgentID != *filter.AgentID {
			continue
		}
		if filter.State != nil && property.Moderation.State() != *filter.State {
			continue
		}
		out = append(out, cloneProperty(property))
	}
	slices.SortFunc(out, func(a, b *entity.Property) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return out, nil
}

func (r *PropertyRepository) UpdateModeration(_ context.Context, id uuid.UUID, prev, next entity.Moderation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.properties[id]
	if !ok {
		return repository.ErrPropertyNotFound
	}
	if r.BeforeUpdateModeration != nil {
		r.BeforeUpdateModeration(stored)
	}
	if stored.Moderation.IsApproved != prev.IsApproved {
		return repository.ErrModerationConflict
	}

	stored.Moderation = cloneModeration(next)
	stored.UpdatedAt = time.Now().UTC()

	return nil
}

// Put stores a property as-is and returns its id.
func (r *PropertyRepository) Put(property *entity.Property) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if property.ID == uuid.Nil {
		property.ID = uuid.Must(uuid.NewV7())
	}
	r.properties[property.ID] = cloneProperty(property)

	return property.ID
}

func cloneProperty(p *entity.Property) *entity.Property {
	c := *p
	c.Moderation = cloneModeration(p.Moderation)

	return &c
}
