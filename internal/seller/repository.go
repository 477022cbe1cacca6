// AngelaMos | 2026
// repository.go

package seller

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/identity"
)

type Repository interface {
	CreateWithIdentity(
		ctx context.Context,
		ident *identity.Identity,
		roles []string,
		seller *Seller,
	) error
	GetByID(ctx context.Context, id string) (*Seller, error)
	GetByIdentityID(ctx context.Context, identityID string) (*Seller, error)
	List(ctx context.Context, params ListSellersParams) ([]Seller, int, error)
	ExistsBySellerName(
		ctx context.Context,
		sellerName, excludeID string,
	) (bool, error)
	UpdateProfile(ctx context.Context, seller *Seller) error
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteCascade(ctx context.Context, id, identityID string) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const sellerColumns = `id, user_id, seller_name, address, phone,
	bank_account_details, status, created_at, updated_at`

// CreateWithIdentity inserts the account, its role assignments, and the
// seller profile in one transaction. A seller account never exists without
// its profile row or the other way around.
func (r *repository) CreateWithIdentity(
	ctx context.Context,
	ident *identity.Identity,
	roles []string,
	seller *Seller,
) error {
	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		userQuery := `
			INSERT INTO users (id, username, email, password_hash)
			VALUES ($1, $2, $3, $4)
			RETURNING created_at, updated_at`

		err := tx.GetContext(ctx, ident, userQuery,
			ident.ID,
			ident.Username,
			ident.Email,
			ident.PasswordHash,
		)
		if err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		roleQuery := `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2`

		for _, role := range roles {
			if _, err := tx.ExecContext(ctx, roleQuery, ident.ID, role); err != nil {
				return fmt.Errorf("assign role %s: %w", role, err)
			}
		}

		sellerQuery := `
			INSERT INTO sellers (
				id, user_id, seller_name, address, phone,
				bank_account_details, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at, updated_at`

		err = tx.GetContext(ctx, seller, sellerQuery,
			seller.ID,
			seller.IdentityID,
			seller.SellerName,
			seller.Address,
			seller.Phone,
			seller.BankAccountDetails,
			seller.Status,
		)
		if err != nil {
			return fmt.Errorf("insert seller: %w", err)
		}

		return nil
	})
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create seller: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create seller: %w", err)
	}

	ident.Roles = roles
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Seller, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sellers WHERE id = $1`,
		sellerColumns,
	)

	var seller Seller
	err := r.db.GetContext(ctx, &seller, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get seller: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}

	return &seller, nil
}

func (r *repository) GetByIdentityID(
	ctx context.Context,
	identityID string,
) (*Seller, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sellers WHERE user_id = $1`,
		sellerColumns,
	)

	var seller Seller
	err := r.db.GetContext(ctx, &seller, query, identityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get seller by identity: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get seller by identity: %w", err)
	}

	return &seller, nil
}

func (r *repository) List(
	ctx context.Context,
	params ListSellersParams,
) ([]Seller, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, "TRUE")

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM sellers WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sellers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM sellers
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		sellerColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var sellers []Seller
	if err := r.db.SelectContext(ctx, &sellers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sellers: %w", err)
	}

	return sellers, total, nil
}

func (r *repository) ExistsBySellerName(
	ctx context.Context,
	sellerName, excludeID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM sellers
			WHERE LOWER(seller_name) = LOWER($1) AND id <> $2
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, sellerName, excludeID)
	if err != nil {
		return false, fmt.Errorf("check seller name exists: %w", err)
	}

	return exists, nil
}

func (r *repository) UpdateProfile(ctx context.Context, seller *Seller) error {
	query := `
		UPDATE sellers
		SET seller_name = $2, address = $3, phone = $4,
		    bank_account_details = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &seller.UpdatedAt, query,
		seller.ID,
		seller.SellerName,
		seller.Address,
		seller.Phone,
		seller.BankAccountDetails,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update seller: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update seller: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update seller: %w", err)
	}

	return nil
}

// UpdateStatus overwrites the lifecycle status unconditionally: any of the
// three states may move to any other.
func (r *repository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE sellers
		SET status = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update seller status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update seller status: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update seller status: %w", core.ErrNotFound)
	}

	return nil
}

// DeleteCascade removes the seller's catalog, profile, role assignments, and
// account in one transaction.
func (r *repository) DeleteCascade(
	ctx context.Context,
	id, identityID string,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		statements := []struct {
			query string
			arg   string
		}{
			{`DELETE FROM products WHERE seller_id = $1`, id},
			{`DELETE FROM sellers WHERE id = $1`, id},
			{`DELETE FROM user_roles WHERE user_id = $1`, identityID},
			{`DELETE FROM users WHERE id = $1`, identityID},
		}

		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt.query, stmt.arg); err != nil {
				return fmt.Errorf("delete seller cascade: %w", err)
			}
		}

		return nil
	})
}
