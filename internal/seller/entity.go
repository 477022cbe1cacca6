// AngelaMos | 2026
// entity.go

package seller

import (
	"fmt"
	"time"
)

// Seller is the storefront profile attached to an identity. Lifecycle status
// gates catalog writes: only APPROVED sellers may create or modify products.
type Seller struct {
	ID                 string    `db:"id"`
	IdentityID         string    `db:"user_id"`
	SellerName         string    `db:"seller_name"`
	Address            string    `db:"address"`
	Phone              string    `db:"phone"`
	BankAccountDetails string    `db:"bank_account_details"`
	Status             string    `db:"status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusBlocked  = "BLOCKED"
)

func (s *Seller) IsApproved() bool {
	return s.Status == StatusApproved
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusBlocked:
		return true
	}
	return false
}

// NotApprovedError carries the seller's current status so the response can
// tell a pending seller apart from a blocked one.
type NotApprovedError struct {
	Status string
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("seller is not approved (status %s)", e.Status)
}
