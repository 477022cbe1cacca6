// AngelaMos | 2026
// service.go

package seller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/identity"
	"github.com/harvesthub/marketplace/internal/middleware"
)

var (
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already registered")
	ErrSellerNameTaken = errors.New("seller name already taken")
)

type Service struct {
	sellers    Repository
	identities identity.Repository
}

func NewService(sellers Repository, identities identity.Repository) *Service {
	return &Service{
		sellers:    sellers,
		identities: identities,
	}
}

// Register creates the account and its storefront profile atomically. New
// sellers start PENDING and stay read-only on the catalog until approved.
func (s *Service) Register(
	ctx context.Context,
	req RegisterSellerRequest,
) (*Seller, error) {
	if taken, err := s.identities.ExistsByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}

	if taken, err := s.identities.ExistsByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}

	if taken, err := s.sellers.ExistsBySellerName(ctx, req.SellerName, ""); err != nil {
		return nil, fmt.Errorf("check seller name: %w", err)
	} else if taken {
		return nil, ErrSellerNameTaken
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	ident := &identity.Identity{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	seller := &Seller{
		ID:                 uuid.New().String(),
		IdentityID:         ident.ID,
		SellerName:         req.SellerName,
		Address:            req.Address,
		Phone:              req.Phone,
		BankAccountDetails: req.BankAccountDetails,
		Status:             StatusPending,
	}

	roles := []string{identity.RoleSeller}
	err = s.sellers.CreateWithIdentity(ctx, ident, roles, seller)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, s.classifyDuplicate(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("register seller: %w", err)
	}

	return seller, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Seller, error) {
	return s.sellers.GetByID(ctx, id)
}

// GetByIdentity resolves the caller's seller profile; identities without one
// get a not-found, which handlers surface as having no seller account.
func (s *Service) GetByIdentity(
	ctx context.Context,
	identityID string,
) (*Seller, error) {
	return s.sellers.GetByIdentityID(ctx, identityID)
}

func (s *Service) List(
	ctx context.Context,
	params ListSellersParams,
) ([]Seller, int, error) {
	if params.Status != "" && !ValidStatus(params.Status) {
		return nil, 0, fmt.Errorf(
			"list sellers: invalid status %q: %w",
			params.Status,
			core.ErrInvalidInput,
		)
	}
	return s.sellers.List(ctx, params)
}

// UpdateProfile is owner-only: admins manage lifecycle status, not profile
// content.
func (s *Service) UpdateProfile(
	ctx context.Context,
	principal *middleware.Principal,
	sellerID string,
	req UpdateSellerProfileRequest,
) (*Seller, error) {
	seller, err := s.sellers.GetByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	if seller.IdentityID != principal.IdentityID {
		return nil, fmt.Errorf("update seller profile: %w", core.ErrForbidden)
	}

	if req.SellerName != nil && *req.SellerName != seller.SellerName {
		taken, err := s.sellers.ExistsBySellerName(
			ctx,
			*req.SellerName,
			seller.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("check seller name: %w", err)
		}
		if taken {
			return nil, ErrSellerNameTaken
		}
		seller.SellerName = *req.SellerName
	}

	if req.Address != nil {
		seller.Address = *req.Address
	}
	if req.Phone != nil {
		seller.Phone = *req.Phone
	}
	if req.BankAccountDetails != nil {
		seller.BankAccountDetails = *req.BankAccountDetails
	}

	err = s.sellers.UpdateProfile(ctx, seller)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, ErrSellerNameTaken
	}
	if err != nil {
		return nil, err
	}

	return seller, nil
}

// SetStatus overwrites the lifecycle status. Every transition is permitted,
// including straight back to PENDING from BLOCKED.
func (s *Service) SetStatus(
	ctx context.Context,
	sellerID, status string,
) (*Seller, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf(
			"set seller status: invalid status %q: %w",
			status,
			core.ErrInvalidInput,
		)
	}

	if err := s.sellers.UpdateStatus(ctx, sellerID, status); err != nil {
		return nil, err
	}

	return s.sellers.GetByID(ctx, sellerID)
}

// Delete removes the seller and everything hanging off it. The owner may
// close their own storefront; admins may remove any.
func (s *Service) Delete(
	ctx context.Context,
	principal *middleware.Principal,
	sellerID string,
) error {
	seller, err := s.sellers.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}

	isOwner := seller.IdentityID == principal.IdentityID
	if !isOwner && !principal.HasAnyRole(identity.RoleAdmin) {
		return fmt.Errorf("delete seller: %w", core.ErrForbidden)
	}

	return s.sellers.DeleteCascade(ctx, seller.ID, seller.IdentityID)
}

func (s *Service) classifyDuplicate(
	ctx context.Context,
	req RegisterSellerRequest,
) error {
	if taken, err := s.identities.ExistsByUsername(ctx, req.Username); err == nil && taken {
		return ErrUsernameTaken
	}
	if taken, err := s.identities.ExistsByEmail(ctx, req.Email); err == nil && taken {
		return ErrEmailTaken
	}
	return ErrSellerNameTaken
}
