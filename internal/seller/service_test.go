// AngelaMos | 2026
// service_test.go

package seller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/identity"
	"github.com/harvesthub/marketplace/internal/middleware"
)

type fakeSellerRepo struct {
	sellers   map[string]*Seller
	cascaded  [][2]string
	createErr error
}

func newFakeSellerRepo() *fakeSellerRepo {
	return &fakeSellerRepo{sellers: make(map[string]*Seller)}
}

func (f *fakeSellerRepo) CreateWithIdentity(
	_ context.Context,
	ident *identity.Identity,
	roles []string,
	s *Seller,
) error {
	if f.createErr != nil {
		return f.createErr
	}
	ident.Roles = roles
	cp := *s
	f.sellers[s.ID] = &cp
	return nil
}

func (f *fakeSellerRepo) GetByID(_ context.Context, id string) (*Seller, error) {
	if s, ok := f.sellers[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, fmt.Errorf("get seller: %w", core.ErrNotFound)
}

func (f *fakeSellerRepo) GetByIdentityID(
	_ context.Context,
	identityID string,
) (*Seller, error) {
	for _, s := range f.sellers {
		if s.IdentityID == identityID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get seller by identity: %w", core.ErrNotFound)
}

func (f *fakeSellerRepo) List(
	_ context.Context,
	params ListSellersParams,
) ([]Seller, int, error) {
	var out []Seller
	for _, s := range f.sellers {
		if params.Status != "" && s.Status != params.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeSellerRepo) ExistsBySellerName(
	_ context.Context,
	sellerName, excludeID string,
) (bool, error) {
	for id, s := range f.sellers {
		if id != excludeID && strings.EqualFold(s.SellerName, sellerName) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSellerRepo) UpdateProfile(_ context.Context, s *Seller) error {
	if _, ok := f.sellers[s.ID]; !ok {
		return fmt.Errorf("update seller: %w", core.ErrNotFound)
	}
	cp := *s
	f.sellers[s.ID] = &cp
	return nil
}

func (f *fakeSellerRepo) UpdateStatus(
	_ context.Context,
	id, status string,
) error {
	s, ok := f.sellers[id]
	if !ok {
		return fmt.Errorf("update seller status: %w", core.ErrNotFound)
	}
	s.Status = status
	return nil
}

func (f *fakeSellerRepo) DeleteCascade(
	_ context.Context,
	id, identityID string,
) error {
	if _, ok := f.sellers[id]; !ok {
		return fmt.Errorf("delete seller cascade: %w", core.ErrNotFound)
	}
	delete(f.sellers, id)
	f.cascaded = append(f.cascaded, [2]string{id, identityID})
	return nil
}

type fakeIdentityRepo struct {
	usernames map[string]bool
	emails    map[string]bool
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{
		usernames: make(map[string]bool),
		emails:    make(map[string]bool),
	}
}

func (f *fakeIdentityRepo) Create(
	_ context.Context,
	_ *identity.Identity,
	_ []string,
) error {
	return nil
}

func (f *fakeIdentityRepo) GetByID(
	_ context.Context,
	_ string,
) (*identity.Identity, error) {
	return nil, core.ErrNotFound
}

func (f *fakeIdentityRepo) GetByUsername(
	_ context.Context,
	_ string,
) (*identity.Identity, error) {
	return nil, core.ErrNotFound
}

func (f *fakeIdentityRepo) GetByEmail(
	_ context.Context,
	_ string,
) (*identity.Identity, error) {
	return nil, core.ErrNotFound
}

func (f *fakeIdentityRepo) ExistsByUsername(
	_ context.Context,
	username string,
) (bool, error) {
	return f.usernames[username], nil
}

func (f *fakeIdentityRepo) ExistsByEmail(
	_ context.Context,
	email string,
) (bool, error) {
	return f.emails[email], nil
}

func (f *fakeIdentityRepo) SeedRoles(_ context.Context, _ []string) error {
	return nil
}

func validRegisterRequest() RegisterSellerRequest {
	return RegisterSellerRequest{
		Username:   "greenfarm",
		Email:      "farm@example.com",
		Password:   "secret123",
		SellerName: "Green Farm",
		Address:    "1 Orchard Lane",
		Phone:      "+1 (555) 123-4567",
	}
}

func seedSeller(repo *fakeSellerRepo, id, identityID, status string) *Seller {
	s := &Seller{
		ID:         id,
		IdentityID: identityID,
		SellerName: "Seller " + id,
		Status:     status,
	}
	repo.sellers[id] = s
	return s
}

func TestRegisterSellerStartsPending(t *testing.T) {
	sellers := newFakeSellerRepo()
	svc := NewService(sellers, newFakeIdentityRepo())

	created, err := svc.Register(context.Background(), validRegisterRequest())
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if created.Status != StatusPending {
		t.Errorf("status = %q, want PENDING", created.Status)
	}
	if created.ID == "" || created.IdentityID == "" {
		t.Error("expected generated ids")
	}
}

func TestRegisterSellerDuplicateChecks(t *testing.T) {
	sellers := newFakeSellerRepo()
	identities := newFakeIdentityRepo()
	svc := NewService(sellers, identities)
	ctx := context.Background()

	identities.usernames["greenfarm"] = true
	if _, err := svc.Register(ctx, validRegisterRequest()); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("err = %v, want ErrUsernameTaken", err)
	}
	identities.usernames = map[string]bool{}

	identities.emails["farm@example.com"] = true
	if _, err := svc.Register(ctx, validRegisterRequest()); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
	identities.emails = map[string]bool{}

	existing := seedSeller(sellers, "seller-1", "identity-1", StatusApproved)
	existing.SellerName = "Green Farm"
	if _, err := svc.Register(ctx, validRegisterRequest()); !errors.Is(err, ErrSellerNameTaken) {
		t.Fatalf("err = %v, want ErrSellerNameTaken", err)
	}
}

func TestUpdateProfileOwnerOnly(t *testing.T) {
	sellers := newFakeSellerRepo()
	svc := NewService(sellers, newFakeIdentityRepo())
	seedSeller(sellers, "seller-1", "identity-1", StatusApproved)

	name := "New Name"
	req := UpdateSellerProfileRequest{SellerName: &name}

	_, err := svc.UpdateProfile(
		context.Background(),
		&middleware.Principal{IdentityID: "identity-2"},
		"seller-1",
		req,
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	// Admins are not exempt from the ownership rule on profile edits.
	_, err = svc.UpdateProfile(
		context.Background(),
		&middleware.Principal{
			IdentityID: "identity-admin",
			Roles:      []string{identity.RoleAdmin},
		},
		"seller-1",
		req,
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("admin err = %v, want ErrForbidden", err)
	}

	updated, err := svc.UpdateProfile(
		context.Background(),
		&middleware.Principal{IdentityID: "identity-1"},
		"seller-1",
		req,
	)
	if err != nil {
		t.Fatalf("owner update: %v", err)
	}
	if updated.SellerName != "New Name" {
		t.Errorf("seller name = %q", updated.SellerName)
	}
}

func TestUpdateProfileNameConflict(t *testing.T) {
	sellers := newFakeSellerRepo()
	svc := NewService(sellers, newFakeIdentityRepo())
	seedSeller(sellers, "seller-1", "identity-1", StatusApproved)
	other := seedSeller(sellers, "seller-2", "identity-2", StatusApproved)
	other.SellerName = "Taken Name"

	name := "Taken Name"
	_, err := svc.UpdateProfile(
		context.Background(),
		&middleware.Principal{IdentityID: "identity-1"},
		"seller-1",
		UpdateSellerProfileRequest{SellerName: &name},
	)
	if !errors.Is(err, ErrSellerNameTaken) {
		t.Fatalf("err = %v, want ErrSellerNameTaken", err)
	}
}

func TestSetStatusAllowsEveryTransition(t *testing.T) {
	sellers := newFakeSellerRepo()
	svc := NewService(sellers, newFakeIdentityRepo())
	seedSeller(sellers, "seller-1", "identity-1", StatusPending)

	transitions := []string{
		StatusApproved,
		StatusBlocked,
		StatusPending,
		StatusBlocked,
		StatusApproved,
	}

	for _, next := range transitions {
		updated, err := svc.SetStatus(context.Background(), "seller-1", next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if updated.Status != next {
			t.Fatalf("status = %q, want %q", updated.Status, next)
		}
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	sellers := newFakeSellerRepo()
	svc := NewService(sellers, newFakeIdentityRepo())
	seedSeller(sellers, "seller-1", "identity-1", StatusPending)

	_, err := svc.SetStatus(context.Background(), "seller-1", "SUSPENDED")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteSellerOwnershipAndAdminBypass(t *testing.T) {
	sellers := newFakeSellerRepo()
	svc := NewService(sellers, newFakeIdentityRepo())
	ctx := context.Background()

	seedSeller(sellers, "seller-1", "identity-1", StatusApproved)

	err := svc.Delete(
		ctx,
		&middleware.Principal{IdentityID: "identity-2"},
		"seller-1",
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("stranger err = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(
		ctx,
		&middleware.Principal{IdentityID: "identity-1"},
		"seller-1",
	); err != nil {
		t.Fatalf("owner delete: %v", err)
	}

	seedSeller(sellers, "seller-2", "identity-2", StatusBlocked)
	if err := svc.Delete(
		ctx,
		&middleware.Principal{
			IdentityID: "identity-admin",
			Roles:      []string{identity.RoleAdmin},
		},
		"seller-2",
	); err != nil {
		t.Fatalf("admin delete: %v", err)
	}

	want := [][2]string{
		{"seller-1", "identity-1"},
		{"seller-2", "identity-2"},
	}
	if len(sellers.cascaded) != 2 ||
		sellers.cascaded[0] != want[0] ||
		sellers.cascaded[1] != want[1] {
		t.Fatalf("cascaded = %v, want %v", sellers.cascaded, want)
	}
}
