// AngelaMos | 2026
// entity.go

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog listing. CategoryID is nullable: deleting a category
// detaches its products, and a detached product is never publicly available.
type Product struct {
	ID          string          `db:"id"`
	SellerID    string          `db:"seller_id"`
	CategoryID  *string         `db:"category_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock"`
	ImageURL    *string         `db:"image_url"`
	IsAvailable bool            `db:"is_available"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// MinPrice is the smallest listable price.
var MinPrice = decimal.RequireFromString("0.01")

func (p *Product) IsOwnedBy(sellerID string) bool {
	return p.SellerID == sellerID
}
