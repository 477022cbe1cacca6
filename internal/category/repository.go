// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/harvesthub/marketplace/internal/core"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Update(ctx context.Context, category *Category) error
	DeleteCascade(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, category *Category) error {
	query := `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, category, query,
		category.ID,
		category.Name,
		category.Description,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		WHERE id = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM categories
		ORDER BY name`

	var categories []Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) ExistsByName(
	ctx context.Context,
	name, excludeID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE LOWER(name) = LOWER($1) AND id <> $2
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, fmt.Errorf("check category name exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Update(ctx context.Context, category *Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &category.UpdatedAt, query,
		category.ID,
		category.Name,
		category.Description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("update category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update category: %w", err)
	}

	return nil
}

// DeleteCascade detaches every product from the category and hides it from
// the public catalog, then removes the category row, all in one transaction.
// An uncategorized product is never publicly visible. Returns the number of
// products detached.
func (r *repository) DeleteCascade(
	ctx context.Context,
	id string,
) (int64, error) {
	var detached int64

	err := core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		detachQuery := `
			UPDATE products
			SET category_id = NULL, is_available = FALSE, updated_at = NOW()
			WHERE category_id = $1`

		result, err := tx.ExecContext(ctx, detachQuery, id)
		if err != nil {
			return fmt.Errorf("detach products: %w", err)
		}

		detached, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("detach products: %w", err)
		}

		deleteQuery := `DELETE FROM categories WHERE id = $1`

		delResult, err := tx.ExecContext(ctx, deleteQuery, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}

		rows, err := delResult.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf("delete category: %w", core.ErrNotFound)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return detached, nil
}
