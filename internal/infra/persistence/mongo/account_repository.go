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

type accountRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewAccountRepository returns a repository.AccountRepository over the accounts collection.
func NewAccountRepository(db *mongo.Database) repository.AccountRepository {
	return &accountRepository{
		coll: db.Collection(accountsCollection),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	return repo.findOne(ctx, bson.M{"_id": id.String()})
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *accountRepository) findOne(ctx context.Context, filter bson.M) (*entity.Account, error) {
	var doc accountDocument
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account")
	}

	account, err := doc.toDomain()
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to decode account")
	}

	return account, nil
}

func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate account id")
		}
		account.ID = id
	}

	now := repo.now()
	account.CreatedAt = now
	account.UpdatedAt = now

	if _, err := repo.coll.InsertOne(ctx, fromAccount(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrAccountAlreadyExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	return nil
}

func (repo *accountRepository) ListByRole(ctx context.Context, role entity.Role, state *entity.ModerationState) ([]*entity.Account, error) {
	filter := bson.M{"role": role.String()}
	if state != nil {
		filter = moderationFilter(filter, *state)
	}

	cursor, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list accounts")
	}

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to read accounts")
	}

	accounts := make([]*entity.Account, 0, len(docs))
	for i := range docs {
		account, err := docs[i].toDomain()
		if err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to decode account")
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (repo *accountRepository) UpdateModeration(ctx context.Context, id uuid.UUID, prev, next entity.Moderation) error {
	result, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "isApproved": prev.IsApproved},
		moderationSet(next, repo.now()),
	)
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update account moderation")
	}

	if result.MatchedCount == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrModerationConflict
	}

	return nil
}
