// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/identity"
)

var (
	// ErrInvalidCredentials is deliberately uniform: callers cannot tell an
	// unknown account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already registered")
)

type Service struct {
	identities identity.Repository
	tokens     *TokenManager
}

func NewService(identities identity.Repository, tokens *TokenManager) *Service {
	return &Service{
		identities: identities,
		tokens:     tokens,
	}
}

// Login authenticates by username first and falls back to email lookup.
// A missing account still burns a password hash so response timing does not
// reveal whether the account exists.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	ident, err := s.identities.GetByUsername(ctx, req.UsernameOrEmail)
	if errors.Is(err, core.ErrNotFound) {
		ident, err = s.identities.GetByEmail(ctx, req.UsernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login lookup: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&ident.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(ident)
}

// Register creates a customer account and logs it in. Uniqueness is checked
// up front for a friendly error; the database unique constraints remain the
// backstop against races.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*TokenResponse, error) {
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

	err = s.identities.Create(ctx, ident, []string{identity.RoleCustomer})
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, s.classifyDuplicate(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}

	return s.tokenResponse(ident)
}

func (s *Service) GetCurrentIdentity(
	ctx context.Context,
	identityID string,
) (*identity.Identity, error) {
	ident, err := s.identities.GetByID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("get current identity: %w", err)
	}
	return ident, nil
}

// classifyDuplicate runs when the unique constraint fired after the
// pre-checks passed: another request won the race. Re-check to report the
// same error the pre-check would have.
func (s *Service) classifyDuplicate(
	ctx context.Context,
	req RegisterRequest,
) error {
	if taken, err := s.identities.ExistsByUsername(ctx, req.Username); err == nil && taken {
		return ErrUsernameTaken
	}
	return ErrEmailTaken
}

func (s *Service) tokenResponse(ident *identity.Identity) (*TokenResponse, error) {
	token, err := s.tokens.Issue(TokenClaims{
		IdentityID: ident.ID,
		Username:   ident.Username,
		Roles:      ident.Roles,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.Expiry().Seconds()),
		Identity:    ToIdentityResponse(ident),
	}, nil
}
