// AngelaMos | 2026
// dto.go

package seller

import (
	"time"
)

type RegisterSellerRequest struct {
	Username           string `json:"username"             validate:"required,min=3,max=20"`
	Email              string `json:"email"                validate:"required,email,max=50"`
	Password           string `json:"password"             validate:"required,min=6,max=40"`
	SellerName         string `json:"seller_name"          validate:"required,min=3,max=100"`
	Address            string `json:"address"              validate:"required,max=255"`
	Phone              string `json:"phone"                validate:"required,phone"`
	BankAccountDetails string `json:"bank_account_details" validate:"omitempty,max=255"`
}

type UpdateSellerProfileRequest struct {
	SellerName         *string `json:"seller_name,omitempty"          validate:"omitempty,min=3,max=100"`
	Address            *string `json:"address,omitempty"              validate:"omitempty,max=255"`
	Phone              *string `json:"phone,omitempty"                validate:"omitempty,phone"`
	BankAccountDetails *string `json:"bank_account_details,omitempty" validate:"omitempty,max=255"`
}

type UpdateSellerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED BLOCKED"`
}

type SellerResponse struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"user_id"`
	SellerName string    `json:"seller_name"`
	Address    string    `json:"address"`
	Phone      string    `json:"phone"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ListSellersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Status   string `json:"status"`
}

func (p *ListSellersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListSellersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToSellerResponse(s *Seller) SellerResponse {
	return SellerResponse{
		ID:         s.ID,
		IdentityID: s.IdentityID,
		SellerName: s.SellerName,
		Address:    s.Address,
		Phone:      s.Phone,
		Status:     s.Status,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func ToSellerResponseList(sellers []Seller) []SellerResponse {
	responses := make([]SellerResponse, 0, len(sellers))
	for _, s := range sellers {
		responses = append(responses, ToSellerResponse(&s))
	}
	return responses
}
