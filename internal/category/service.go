// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/harvesthub/marketplace/internal/core"
)

var ErrNameTaken = errors.New("category name already taken")

type Service struct {
	categories Repository
	logger     *slog.Logger
}

func NewService(categories Repository, logger *slog.Logger) *Service {
	return &Service{
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateCategoryRequest,
) (*Category, error) {
	if taken, err := s.categories.ExistsByName(ctx, req.Name, ""); err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	} else if taken {
		return nil, ErrNameTaken
	}

	category := &Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}

	err := s.categories.Create(ctx, category)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Category, error) {
	return s.categories.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateCategoryRequest,
) (*Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		taken, err := s.categories.ExistsByName(ctx, *req.Name, id)
		if err != nil {
			return nil, fmt.Errorf("check category name: %w", err)
		}
		if taken {
			return nil, ErrNameTaken
		}
		category.Name = *req.Name
	}

	if req.Description != nil {
		category.Description = *req.Description
	}

	err = s.categories.Update(ctx, category)
	if errors.Is(err, core.ErrDuplicateKey) {
		return nil, ErrNameTaken
	}
	if err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes the category after confirming it exists. Affected products
// lose the category and drop out of the public catalog atomically with the
// category row.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return err
	}

	detached, err := s.categories.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}

	s.logger.Info("category deleted",
		"category_id", id,
		"products_detached", detached,
	)

	return nil
}
