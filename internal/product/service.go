// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/harvesthub/marketplace/internal/blob"
	"github.com/harvesthub/marketplace/internal/category"
	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/identity"
	"github.com/harvesthub/marketplace/internal/middleware"
	"github.com/harvesthub/marketplace/internal/seller"
)

var (
	ErrNoSellerProfile  = errors.New("no seller profile for identity")
	ErrCategoryNotFound = errors.New("category not found")
	ErrPriceTooLow      = errors.New("price must be at least 0.01")
	ErrNegativeStock    = errors.New("stock must not be negative")

	// ErrUncategorized rejects making a product available while it has no
	// category. Detached products stay hidden until re-categorized.
	ErrUncategorized = errors.New("product has no category")
)

type SellerDirectory interface {
	GetByID(ctx context.Context, id string) (*seller.Seller, error)
	GetByIdentityID(ctx context.Context, identityID string) (*seller.Seller, error)
}

type CategoryDirectory interface {
	GetByID(ctx context.Context, id string) (*category.Category, error)
}

type ImageUpload struct {
	Data     []byte
	Filename string
}

type Service struct {
	products   Repository
	sellers    SellerDirectory
	categories CategoryDirectory
	blobs      blob.Store
	logger     *slog.Logger
}

func NewService(
	products Repository,
	sellers SellerDirectory,
	categories CategoryDirectory,
	blobs blob.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		products:   products,
		sellers:    sellers,
		categories: categories,
		blobs:      blobs,
		logger:     logger,
	}
}

// ListPublic is the storefront view: only available products, regardless of
// who asks. Filtering by a category that does not exist is reported as not
// found rather than an empty page.
func (s *Service) ListPublic(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	if params.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, params.CategoryID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, 0, ErrCategoryNotFound
			}
			return nil, 0, fmt.Errorf("check category: %w", err)
		}
	}

	available := true
	params.Available = &available
	return s.products.List(ctx, params)
}

// ListAll is the admin view, availability filter left to the caller.
func (s *Service) ListAll(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	return s.products.List(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.products.GetByID(ctx, id)
}

// ListMine returns the caller's own catalog, unavailable listings included
// unless the caller filters them out.
func (s *Service) ListMine(
	ctx context.Context,
	identityID string,
	params ListProductsParams,
) ([]Product, int, error) {
	sel, err := s.resolveSeller(ctx, identityID)
	if err != nil {
		return nil, 0, err
	}

	params.SellerID = sel.ID
	return s.products.List(ctx, params)
}

// Create lists a new product. Only APPROVED sellers may create, and the
// target category must exist at creation time.
func (s *Service) Create(
	ctx context.Context,
	identityID string,
	req CreateProductRequest,
	image *ImageUpload,
) (*Product, error) {
	sel, err := s.resolveSeller(ctx, identityID)
	if err != nil {
		return nil, err
	}

	if !sel.IsApproved() {
		return nil, &seller.NotApprovedError{Status: sel.Status}
	}

	if req.Price.LessThan(MinPrice) {
		return nil, ErrPriceTooLow
	}

	stock := 0
	if req.Stock != nil {
		stock = *req.Stock
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("check category: %w", err)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	product := &Product{
		ID:          uuid.New().String(),
		SellerID:    sel.ID,
		CategoryID:  &req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       stock,
		IsAvailable: available,
	}

	if image != nil {
		url, err := s.blobs.Upload(ctx, image.Data, image.Filename)
		if err != nil {
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		product.ImageURL = &url
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update replaces the listing. Owner-only: admins moderate through
// availability and deletion, not by editing a seller's listing. Like Create
// and Patch, the seller must still be APPROVED.
func (s *Service) Update(
	ctx context.Context,
	principal *middleware.Principal,
	productID string,
	req UpdateProductRequest,
	image *ImageUpload,
) (*Product, error) {
	product, sel, err := s.ownedProduct(ctx, principal, productID)
	if err != nil {
		return nil, err
	}

	if !sel.IsApproved() {
		return nil, &seller.NotApprovedError{Status: sel.Status}
	}

	if req.Price.LessThan(MinPrice) {
		return nil, ErrPriceTooLow
	}
	if req.Stock < 0 {
		return nil, ErrNegativeStock
	}

	if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("check category: %w", err)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.CategoryID = &req.CategoryID
	product.Stock = req.Stock
	product.IsAvailable = req.IsAvailable

	if err := s.applyImageChange(ctx, product, req.ImageURL, image); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Patch applies a partial update. Besides ownership, the seller must still
// be APPROVED: a seller blocked after listing cannot keep editing.
func (s *Service) Patch(
	ctx context.Context,
	principal *middleware.Principal,
	productID string,
	req PatchProductRequest,
	image *ImageUpload,
) (*Product, error) {
	product, sel, err := s.ownedProduct(ctx, principal, productID)
	if err != nil {
		return nil, err
	}

	if !sel.IsApproved() {
		return nil, &seller.NotApprovedError{Status: sel.Status}
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.LessThan(MinPrice) {
			return nil, ErrPriceTooLow
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, ErrNegativeStock
		}
		product.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("check category: %w", err)
		}
		product.CategoryID = req.CategoryID
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}

	if product.IsAvailable && product.CategoryID == nil {
		return nil, ErrUncategorized
	}

	if err := s.applyImageChange(ctx, product, req.ImageURL, image); err != nil {
		return nil, err
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// applyImageChange resolves the image mutation for an update: a new file
// replaces the stored blob, and an explicit empty image_url removes it. The
// old blob is deleted best-effort either way.
func (s *Service) applyImageChange(
	ctx context.Context,
	product *Product,
	imageURL *string,
	image *ImageUpload,
) error {
	switch {
	case image != nil:
		url, err := s.blobs.Upload(ctx, image.Data, image.Filename)
		if err != nil {
			return fmt.Errorf("upload product image: %w", err)
		}
		s.deleteImageBestEffort(ctx, product.ImageURL)
		product.ImageURL = &url
	case imageURL != nil && *imageURL == "":
		s.deleteImageBestEffort(ctx, product.ImageURL)
		product.ImageURL = nil
	}

	return nil
}

// Delete removes a listing. The owner may delete regardless of lifecycle
// status, and admins may delete anything. The stored image is cleaned up
// best-effort after the row is gone.
func (s *Service) Delete(
	ctx context.Context,
	principal *middleware.Principal,
	productID string,
) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if !principal.HasAnyRole(identity.RoleAdmin) {
		sel, err := s.resolveSeller(ctx, principal.IdentityID)
		if err != nil {
			return err
		}
		if !product.IsOwnedBy(sel.ID) {
			return fmt.Errorf("delete product: %w", core.ErrForbidden)
		}
	}

	if err := s.products.Delete(ctx, product.ID); err != nil {
		return err
	}

	s.deleteImageBestEffort(ctx, product.ImageURL)
	return nil
}

// SetAvailability is the admin moderation switch. Re-enabling an
// uncategorized product is rejected for admins too.
func (s *Service) SetAvailability(
	ctx context.Context,
	productID string,
	available bool,
) (*Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if available && product.CategoryID == nil {
		return nil, ErrUncategorized
	}

	if err := s.products.SetAvailability(ctx, productID, available); err != nil {
		return nil, err
	}

	product.IsAvailable = available
	return product, nil
}

// ownedProduct loads the product and verifies the caller's seller profile
// owns it.
func (s *Service) ownedProduct(
	ctx context.Context,
	principal *middleware.Principal,
	productID string,
) (*Product, *seller.Seller, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}

	sel, err := s.resolveSeller(ctx, principal.IdentityID)
	if err != nil {
		return nil, nil, err
	}

	if !product.IsOwnedBy(sel.ID) {
		return nil, nil, fmt.Errorf("modify product: %w", core.ErrForbidden)
	}

	return product, sel, nil
}

func (s *Service) resolveSeller(
	ctx context.Context,
	identityID string,
) (*seller.Seller, error) {
	sel, err := s.sellers.GetByIdentityID(ctx, identityID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrNoSellerProfile
	}
	if err != nil {
		return nil, err
	}
	return sel, nil
}

func (s *Service) deleteImageBestEffort(ctx context.Context, imageURL *string) {
	if imageURL == nil || *imageURL == "" {
		return
	}

	if err := s.blobs.Delete(ctx, *imageURL); err != nil {
		s.logger.Warn("failed to delete product image",
			"url", *imageURL,
			"error", err,
		)
	}
}
