// AngelaMos | 2026
// repository.go

package admin

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Overview is the marketplace-wide tally shown on the admin dashboard.
type Overview struct {
	Users            int `db:"users"             json:"users"`
	SellersPending   int `db:"sellers_pending"   json:"sellers_pending"`
	SellersApproved  int `db:"sellers_approved"  json:"sellers_approved"`
	SellersBlocked   int `db:"sellers_blocked"   json:"sellers_blocked"`
	Categories       int `db:"categories"        json:"categories"`
	Products         int `db:"products"          json:"products"`
	ProductsOnMarket int `db:"products_on_market" json:"products_on_market"`
}

type Repository interface {
	GetOverview(ctx context.Context) (*Overview, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOverview(ctx context.Context) (*Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM sellers WHERE status = 'PENDING') AS sellers_pending,
			(SELECT COUNT(*) FROM sellers WHERE status = 'APPROVED') AS sellers_approved,
			(SELECT COUNT(*) FROM sellers WHERE status = 'BLOCKED') AS sellers_blocked,
			(SELECT COUNT(*) FROM categories) AS categories,
			(SELECT COUNT(*) FROM products) AS products,
			(SELECT COUNT(*) FROM products WHERE is_available = TRUE) AS products_on_market`

	var overview Overview
	if err := r.db.GetContext(ctx, &overview, query); err != nil {
		return nil, fmt.Errorf("get marketplace overview: %w", err)
	}

	return &overview, nil
}
