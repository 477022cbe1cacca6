// AngelaMos | 2026
// entity.go

package identity

import (
	"time"
)

// Identity is an authenticated account. Authorization roles live in a join
// table so an account can hold several at once (a seller is also a customer).
type Identity struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`

	Roles []string `db:"-"`
}

func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleAdmin    = "ADMIN"
)

// SeededRoles is the canonical role set ensured at startup.
var SeededRoles = []string{RoleCustomer, RoleSeller, RoleAdmin}
