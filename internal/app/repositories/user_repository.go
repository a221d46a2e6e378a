package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/activityhub/internal/app/models"
	"github.com/yigit/activityhub/internal/pkg/dberrors"
)

const (
	userEmailKey       = "users_email_key"
	accountProviderKey = "accounts_provider_account_key"
	userColumns        = "id, name, email, image, bio, location, interests, created_at, updated_at"
	accountColumns     = "id, user_id, provider, provider_account_id, created_at"
)

// UserRepository handles users and their linked identity provider accounts
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Image, &u.Bio, &u.Location, &u.Interests, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, err
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, err
}

// ListAccounts returns the identity provider accounts linked to a user, oldest first
func (r *UserRepository) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*models.Account, error) {
	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.UserID, &a.Provider, &a.ProviderAccountID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, &a)
	}

	return accounts, rows.Err()
}

// CreateWithAccount inserts a user together with its first linked account.
// A concurrent sign-up with the same email or provider account yields ErrDuplicate.
func (r *UserRepository) CreateWithAccount(ctx context.Context, user *models.User, account *models.Account) error {
	if user.Interests == nil {
		user.Interests = []string{}
	}

	err := pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO users (name, email, image, interests)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at`,
			user.Name, user.Email, user.Image, user.Interests,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return err
		}

		account.UserID = user.ID
		return tx.QueryRow(ctx, `
			INSERT INTO accounts (user_id, provider, provider_account_id)
			VALUES ($1, $2, $3)
			RETURNING id, created_at`,
			account.UserID, account.Provider, account.ProviderAccountID,
		).Scan(&account.ID, &account.CreatedAt)
	})
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, userEmailKey) || dberrors.IsDuplicateConstraintError(err, accountProviderKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user with account: %w", err)
	}

	return nil
}

// UpdateProfile replaces the editable profile fields and returns the updated user
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, bio, location *string, interests []string) (*models.User, error) {
	if interests == nil {
		interests = []string{}
	}

	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET bio = $2, location = $3, interests = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns, userID, bio, location, interests))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, err
}
