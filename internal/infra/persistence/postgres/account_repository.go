// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"estate/internal/domain/entity"
	domainerrors "estate/internal/domain/errors"
	"estate/internal/domain/repository"
	"estate/internal/errors"
	"estate/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// Create persists a new account. The unique email index turns a concurrent
// duplicate signup into ErrAccountAlreadyExists.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if account.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate account id")
		}
		account.ID = id
	}

	accountM := fromAccountDomain(account)
	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		return translateCreateError(err, "failed to create account")
	}

	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// ListByRole returns accounts with the role, newest first.
func (repo *accountRepository) ListByRole(ctx context.Context, role entity.Role, state *entity.ModerationState) ([]*entity.Account, error) {
	query := repo.db.WithContext(ctx).Where("role = ?", role.String())
	if state != nil {
		query = scopeModerationState(query, *state)
	}

	var accountMs []model.AccountModel
	if err := query.Order("created_at DESC").Find(&accountMs).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for i := range accountMs {
		accounts = append(accounts, toAccountDomain(&accountMs[i]))
	}

	return accounts, nil
}

// UpdateModeration writes the moderation fields when is_approved still matches prev.
func (repo *accountRepository) UpdateModeration(ctx context.Context, id uuid.UUID, prev, next entity.Moderation) error {
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ? AND is_approved = ?", id, prev.IsApproved).
		Updates(moderationColumns(next))
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account moderation")
	}

	if result.RowsAffected == 0 {
		if _, err := repo.FindByID(ctx, id); err != nil {
			return err
		}

		return repository.ErrModerationConflict
	}

	return nil
}

func moderationColumns(m entity.Moderation) map[string]any {
	return map[string]any{
		"is_approved":      m.IsApproved,
		"rejection_reason": m.RejectionReason,
		"approved_at":      m.ApprovedAt,
		"approved_by":      m.ApprovedBy,
		"updated_at":       time.Now().UTC(),
	}
}

// scopeModerationState narrows a query on a table carrying the moderation columns.
func scopeModerationState(query *gorm.DB, state entity.ModerationState) *gorm.DB {
	switch state {
	case entity.ModerationApproved:
		return query.Where("is_approved = ?", true)
	case entity.ModerationRejected:
		return query.Where("is_approved = ? AND rejection_reason <> ''", false)
	default:
		return query.Where("is_approved = ? AND rejection_reason = ''", false)
	}
}

func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	account := &entity.Account{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Contact:      data.Contact,
		Role:         entity.Role(data.Role),
		Moderation: entity.Moderation{
			IsApproved:      data.IsApproved,
			RejectionReason: data.RejectionReason,
			ApprovedAt:      data.ApprovedAt,
			ApprovedBy:      data.ApprovedBy,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}

	if account.Role == entity.RoleAgent {
		account.Agent = &entity.AgentProfile{
			AgencyName:    derefString(data.AgencyName),
			LicenseNumber: derefString(data.LicenseNumber),
		}
	}

	return account
}

func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	accountM := &model.AccountModel{
		ID:              data.ID,
		Name:            data.Name,
		Email:           data.Email,
		PasswordHash:    data.PasswordHash,
		Contact:         data.Contact,
		Role:            data.Role.String(),
		IsApproved:      data.Moderation.IsApproved,
		RejectionReason: data.Moderation.RejectionReason,
		ApprovedAt:      data.Moderation.ApprovedAt,
		ApprovedBy:      data.Moderation.ApprovedBy,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}

	if data.Agent != nil {
		accountM.AgencyName = &data.Agent.AgencyName
		accountM.LicenseNumber = &data.Agent.LicenseNumber
	}

	return accountM
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
