// AngelaMos | 2026
// repository.go

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/harvesthub/marketplace/internal/core"
)

type Repository interface {
	Create(ctx context.Context, identity *Identity, roles []string) error
	GetByID(ctx context.Context, id string) (*Identity, error)
	GetByUsername(ctx context.Context, username string) (*Identity, error)
	GetByEmail(ctx context.Context, email string) (*Identity, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	SeedRoles(ctx context.Context, roles []string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the account row and its role assignments in one transaction
// so a half-created account (roles missing) can never be observed.
func (r *repository) Create(
	ctx context.Context,
	identity *Identity,
	roles []string,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO users (id, username, email, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, identity, query,
			identity.ID,
			identity.Username,
			identity.Email,
			identity.PasswordHash,
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		for _, role := range roles {
			if err := assignRole(ctx, tx, identity.ID, role); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create identity: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create identity: %w", err)
	}

	identity.Roles = roles
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Identity, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*Identity, error) {
	return r.getBy(ctx, "username = $1", username)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Identity, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *repository) getBy(
	ctx context.Context,
	condition string,
	arg any,
) (*Identity, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE %s`, condition)

	var identity Identity
	err := r.db.GetContext(ctx, &identity, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get identity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}

	roles, err := r.rolesOf(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	identity.Roles = roles

	return &identity, nil
}

func (r *repository) rolesOf(
	ctx context.Context,
	identityID string,
) ([]string, error) {
	query := `
		SELECT r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name`

	var roles []string
	if err := r.db.SelectContext(ctx, &roles, query, identityID); err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	return roles, nil
}

func (r *repository) ExistsByUsername(
	ctx context.Context,
	username string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}

	return exists, nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func assignRole(
	ctx context.Context,
	tx *sqlx.Tx,
	identityID, role string,
) error {
	query := `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT (user_id, role_id) DO NOTHING`

	result, err := tx.ExecContext(ctx, query, identityID, role)
	if err != nil {
		return fmt.Errorf("assign role %s: %w", role, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("assign role %s: %w", role, err)
	}

	// Zero rows with a conflict is fine; zero rows because the role name
	// does not exist is a seeding bug and must surface.
	if rows == 0 {
		var exists bool
		check := `SELECT EXISTS(SELECT 1 FROM roles WHERE name = $1)`
		if err := tx.GetContext(ctx, &exists, check, role); err != nil {
			return fmt.Errorf("assign role %s: %w", role, err)
		}
		if !exists {
			return fmt.Errorf("assign role %s: %w", role, core.ErrNotFound)
		}
	}

	return nil
}

// SeedRoles ensures the canonical role rows exist. Safe to run on every
// startup and under concurrent instances.
func (r *repository) SeedRoles(ctx context.Context, roles []string) error {
	query := `
		INSERT INTO roles (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING`

	for _, role := range roles {
		if _, err := r.db.ExecContext(ctx, query, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}

	return nil
}
