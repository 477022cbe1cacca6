// AngelaMos | 2026
// service_test.go

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/harvesthub/marketplace/internal/core"
)

type fakeCategoryRepo struct {
	categories map[string]*Category
	cascades   []string
	detached   int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, c *Category) error {
	for _, existing := range f.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
	}
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) GetByID(
	_ context.Context,
	id string,
) (*Category, error) {
	if c, ok := f.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]Category, error) {
	out := make([]Category, 0, len(f.categories))
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) ExistsByName(
	_ context.Context,
	name, excludeID string,
) (bool, error) {
	for id, c := range f.categories {
		if id != excludeID && strings.EqualFold(c.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, c *Category) error {
	if _, ok := f.categories[c.ID]; !ok {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}
	cp := *c
	f.categories[c.ID] = &cp
	return nil
}

func (f *fakeCategoryRepo) DeleteCascade(
	_ context.Context,
	id string,
) (int64, error) {
	if _, ok := f.categories[id]; !ok {
		return 0, fmt.Errorf("delete category: %w", core.ErrNotFound)
	}
	delete(f.categories, id)
	f.cascades = append(f.cascades, id)
	return f.detached, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.Default())
}

func TestCreateCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), CreateCategoryRequest{
		Name:        "Vegetables",
		Description: "Fresh produce",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.Name != "Vegetables" {
		t.Errorf("name = %q", created.Name)
	}
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), CreateCategoryRequest{
		Name: "Vegetables",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateCategoryRequest{
		Name: "vegetables",
	})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}
}

func TestUpdateCategoryNameConflict(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateCategoryRequest{Name: "Fruit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateCategoryRequest{Name: "Dairy"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Dairy"
	_, err = svc.Update(ctx, first.ID, UpdateCategoryRequest{Name: &name})
	if !errors.Is(err, ErrNameTaken) {
		t.Fatalf("err = %v, want ErrNameTaken", err)
	}

	// Re-submitting its own name is not a conflict.
	own := "Fruit"
	if _, err := svc.Update(ctx, first.ID, UpdateCategoryRequest{Name: &own}); err != nil {
		t.Fatalf("update with own name: %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	repo := newFakeCategoryRepo()
	repo.detached = 3
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateCategoryRequest{Name: "Fruit"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(repo.cascades) != 1 || repo.cascades[0] != created.ID {
		t.Fatalf("cascades = %v, want [%s]", repo.cascades, created.ID)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatal("category should be gone")
	}
}

func TestDeleteMissingCategory(t *testing.T) {
	repo := newFakeCategoryRepo()
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if len(repo.cascades) != 0 {
		t.Fatal("cascade must not run for a missing category")
	}
}
