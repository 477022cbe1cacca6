// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/identity"
)

type fakeIdentityRepo struct {
	byUsername map[string]*identity.Identity
	byEmail    map[string]*identity.Identity
	created    []*identity.Identity
	createErr  error
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		byUsername: make(map[string]*identity.Identity),
		byEmail:    make(map[string]*identity.Identity),
	}
}

func (f *fakeIdentityRepo) add(ident *identity.Identity) {
	f.byUsername[ident.Username] = ident
	f.byEmail[ident.Email] = ident
}

func (f *fakeIdentityRepo) Create(
	_ context.Context,
	ident *identity.Identity,
	roles []string,
) error {
	if f.createErr != nil {
		return f.createErr
	}
	ident.Roles = roles
	f.created = append(f.created, ident)
	f.add(ident)
	return nil
}

func (f *fakeIdentityRepo) GetByID(
	_ context.Context,
	id string,
) (*identity.Identity, error) {
	for _, ident := range f.byUsername {
		if ident.ID == id {
			return ident, nil
		}
	}
	return nil, fmt.Errorf("get identity: %w", core.ErrNotFound)
}

func (f *fakeIdentityRepo) GetByUsername(
	_ context.Context,
	username string,
) (*identity.Identity, error) {
	if ident, ok := f.byUsername[username]; ok {
		return ident, nil
	}
	return nil, fmt.Errorf("get identity: %w", core.ErrNotFound)
}

func (f *fakeIdentityRepo) GetByEmail(
	_ context.Context,
	email string,
) (*identity.Identity, error) {
	if ident, ok := f.byEmail[email]; ok {
		return ident, nil
	}
	return nil, fmt.Errorf("get identity: %w", core.ErrNotFound)
}

func (f *fakeIdentityRepo) ExistsByUsername(
	_ context.Context,
	username string,
) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeIdentityRepo) ExistsByEmail(
	_ context.Context,
	email string,
) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeIdentityRepo) SeedRoles(_ context.Context, _ []string) error {
	return nil
}

func newTestService(t *testing.T, repo identity.Repository) *Service {
	t.Helper()

	manager, err := NewTokenManager(testAuthConfig(time.Minute))
	if err != nil {
		t.Fatalf("new token manager: %v", err)
	}

	return NewService(repo, manager)
}

func seedAccount(t *testing.T, repo *fakeIdentityRepo, password string) *identity.Identity {
	t.Helper()

	hash, err := core.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	ident := &identity.Identity{
		ID:           "identity-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: hash,
		Roles:        []string{identity.RoleCustomer},
	}
	repo.add(ident)
	return ident
}

func TestLoginByUsername(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedAccount(t, repo, "secret123")
	svc := newTestService(t, repo)

	resp, err := svc.Login(context.Background(), LoginRequest{
		UsernameOrEmail: "alice",
		Password:        "secret123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if resp.AccessToken == "" {
		t.Fatal("expected access token")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token type = %q, want Bearer", resp.TokenType)
	}
	if resp.Identity.Username != "alice" {
		t.Errorf("username = %q, want alice", resp.Identity.Username)
	}
}

func TestLoginByEmailFallback(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedAccount(t, repo, "secret123")
	svc := newTestService(t, repo)

	if _, err := svc.Login(context.Background(), LoginRequest{
		UsernameOrEmail: "alice@example.com",
		Password:        "secret123",
	}); err != nil {
		t.Fatalf("login by email: %v", err)
	}
}

func TestLoginInvalidCredentialsAreUniform(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedAccount(t, repo, "secret123")
	svc := newTestService(t, repo)

	cases := []struct {
		name string
		req  LoginRequest
	}{
		{
			name: "unknown account",
			req: LoginRequest{
				UsernameOrEmail: "nobody",
				Password:        "secret123",
			},
		},
		{
			name: "wrong password",
			req: LoginRequest{
				UsernameOrEmail: "alice",
				Password:        "wrong password",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tc.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestRegisterAssignsCustomerRoleAndLogsIn(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newTestService(t, repo)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if resp.AccessToken == "" {
		t.Fatal("expected auto-login token")
	}
	if len(repo.created) != 1 {
		t.Fatalf("created %d identities, want 1", len(repo.created))
	}
	if !repo.created[0].HasRole(identity.RoleCustomer) {
		t.Errorf("roles = %v, want CUSTOMER", repo.created[0].Roles)
	}
	if repo.created[0].PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedAccount(t, repo, "secret123")
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "alice",
		Email:    "new@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedAccount(t, repo, "secret123")
	svc := newTestService(t, repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "someone",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterConstraintRace(t *testing.T) {
	repo := newFakeIdentityRepo()
	svc := newTestService(t, repo)

	// Pre-checks pass, then the insert hits the unique constraint as a
	// concurrent registration would.
	repo.createErr = fmt.Errorf("create identity: %w", core.ErrDuplicateKey)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrEmailTaken) && !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want a duplicate registration error", err)
	}
}
