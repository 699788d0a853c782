package mongo

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type propertyRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewPropertyRepository returns a repository.PropertyRepository over the properties collection.
func NewPropertyRepository(db *mongo.Database) repository.PropertyRepository {
	return &propertyRepository{
		coll: db.Collection(propertiesCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (repo *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	var doc propertyDocument
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrPropertyNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find property")
	}

	property, err := doc.toDomain()
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to decode property")
	}

	return property, nil
}

func (repo *propertyRepository) Create(ctx context.Context, property *entity.Property) error {
	if property.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate property id")
		}
		property.ID = id
	}

	now := repo.now()
	property.CreatedAt = now
	property.UpdatedAt = now

	if _, err := repo.coll.InsertOne(ctx, fromProperty(property)); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create property")
	}

	return nil
}

func (repo *propertyRepository) Update(ctx context.Context, property *entity.Property) error {
	property.UpdatedAt = repo.now()

	result, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": property.ID.String()}, fromProperty(property))
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update property")
	}
	if result.MatchedCount == 0 {
		return repository.ErrPropertyNotFound
	}

	return nil
}

func (repo *propertyRepository) List(ctx context.Context, filter repository.PropertyFilter) ([]*entity.Property, error) {
	query := bson.M{}
	if filter.AgentID != nil {
		query["agentId"] = filter.AgentID.String()
	}
	if filter.State != nil {
		query = moderationFilter(query, *filter.State)
	}

	cursor, err := repo.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list properties")
	}

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to read properties")
	}

	properties := make([]*entity.Property, 0, len(docs))
	for i := range docs {
		property, err := docs[i].toDomain()
		if err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to decode property")
		}
		properties = append(properties, property)
	}

	return properties, nil
}

func (repo *propertyRepository) UpdateModeration(ctx context.Context, id uuid.UUID, prev, next entity.Moderation) error {
	result, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "isApproved": prev.IsApproved},
		moderationSet(next, repo.now()),
	)
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update property moderation")
	}

	if result.MatchedCount == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrModerationConflict
	}

	return nil
}
