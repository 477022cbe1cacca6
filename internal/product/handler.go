// AngelaMos | 2026
// handler.go

package product

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/middleware"
	"github.com/harvesthub/marketplace/internal/seller"
)

const maxImageSize = 10 << 20 // 10 MiB

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListPublic)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/mine", h.ListMine)
			r.Post("/", h.Create)
			r.Put("/{productID}", h.Update)
			r.Patch("/{productID}", h.Patch)
			r.Delete("/{productID}", h.Delete)
		})

		r.Get("/{productID}", h.GetByID)
	})
}

// RegisterAdminRoutes expects a router already gated behind authentication
// and the ADMIN role.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListAll)
		r.Patch("/{productID}/availability", h.SetAvailability)
		r.Delete("/{productID}", h.Delete)
	})
}

func (h *Handler) ListPublic(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	products, total, err := h.service.ListPublic(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)

	products, total, err := h.service.ListAll(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	params := listParamsFromQuery(r)
	identityID := middleware.GetIdentityID(r.Context())

	products, total, err := h.service.ListMine(r.Context(), identityID, params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToProductResponseList(products),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	image, err := decodeProductRequest(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	identityID := middleware.GetIdentityID(r.Context())
	product, err := h.service.Create(r.Context(), identityID, req, image)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToProductResponse(product))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req UpdateProductRequest
	image, err := decodeProductRequest(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	product, err := h.service.Update(r.Context(), principal, productID, req, image)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req PatchProductRequest
	image, err := decodeProductRequest(r, &req)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	product, err := h.service.Patch(r.Context(), principal, productID, req, image)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	principal := middleware.GetPrincipal(r.Context())
	if err := h.service.Delete(r.Context(), principal, productID); err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	product, err := h.service.SetAvailability(
		r.Context(),
		productID,
		*req.IsAvailable,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToProductResponse(product))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var notApproved *seller.NotApprovedError

	switch {
	case errors.As(err, &notApproved):
		core.JSONError(w, core.NewAppError(
			err,
			fmt.Sprintf(
				"seller is not approved (current status: %s)",
				notApproved.Status,
			),
			http.StatusForbidden,
			"SELLER_NOT_APPROVED",
		))
	case errors.Is(err, ErrNoSellerProfile):
		core.JSONError(w, core.NotFoundError("seller profile"))
	case errors.Is(err, ErrCategoryNotFound):
		core.JSONError(w, core.NotFoundError("category"))
	case errors.Is(err, ErrPriceTooLow),
		errors.Is(err, ErrNegativeStock),
		errors.Is(err, ErrUncategorized):
		core.BadRequest(w, err.Error())
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.OwnershipError(""))
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.NotFoundError("product"))
	default:
		core.InternalServerError(w, err)
	}
}

func listParamsFromQuery(r *http.Request) ListProductsParams {
	q := r.URL.Query()

	params := ListProductsParams{
		Search:     q.Get("search"),
		CategoryID: q.Get("category_id"),
	}
	params.Page, _ = strconv.Atoi(q.Get("page"))
	params.PageSize, _ = strconv.Atoi(q.Get("page_size"))
	params.Normalize()

	// Absent or unparseable means no availability filter.
	if available, err := strconv.ParseBool(q.Get("available")); err == nil {
		params.Available = &available
	}

	return params
}

// decodeProductRequest accepts either plain JSON or multipart form data with
// a "product" JSON part and an optional "file" image part.
func decodeProductRequest(
	r *http.Request,
	dest any,
) (*ImageUpload, error) {
	contentType := r.Header.Get("Content-Type")

	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
			return nil, errors.New("invalid request body")
		}
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return nil, errors.New("invalid multipart form")
	}

	productJSON := r.FormValue("product")
	if productJSON == "" {
		return nil, errors.New("missing product part")
	}
	if err := json.Unmarshal([]byte(productJSON), dest); err != nil {
		return nil, errors.New("invalid product json")
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.New("invalid file part")
	}
	defer file.Close() //nolint:errcheck // read-only form file

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		return nil, errors.New("failed to read file part")
	}

	return &ImageUpload{
		Data:     data,
		Filename: header.Filename,
	}, nil
}
