// AngelaMos | 2026
// handler.go

package seller

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/harvesthub/marketplace/internal/core"
	"github.com/harvesthub/marketplace/internal/middleware"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9. ()-]{7,25}$`)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // registration only fails on empty tag
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &Handler{
		service:   service,
		validator: v,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/sellers", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Get("/{sellerID}", h.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.GetMe)
			r.Put("/{sellerID}", h.UpdateProfile)
			r.Delete("/{sellerID}", h.Delete)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator, adminOnly)
			r.Get("/", h.List)
			r.Patch("/{sellerID}/status", h.SetStatus)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	seller, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Created(w, ToSellerResponse(seller))
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")

	seller, err := h.service.GetByID(r.Context(), sellerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	identityID := middleware.GetIdentityID(r.Context())

	seller, err := h.service.GetByIdentity(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.JSONError(w, core.NotFoundError("seller profile"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListSellersParams{
		Status: r.URL.Query().Get("status"),
	}
	params.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	params.PageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	params.Normalize()

	sellers, total, err := h.service.List(r.Context(), params)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToSellerResponseList(sellers),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")

	var req UpdateSellerProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	seller, err := h.service.UpdateProfile(r.Context(), principal, sellerID, req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")

	var req UpdateSellerStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, core.FormatValidationErrors(err))
		return
	}

	seller, err := h.service.SetStatus(r.Context(), sellerID, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToSellerResponse(seller))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	sellerID := chi.URLParam(r, "sellerID")

	principal := middleware.GetPrincipal(r.Context())
	if err := h.service.Delete(r.Context(), principal, sellerID); err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		core.JSONError(w, core.DuplicateError("username"))
	case errors.Is(err, ErrEmailTaken):
		core.JSONError(w, core.DuplicateError("email"))
	case errors.Is(err, ErrSellerNameTaken):
		core.JSONError(w, core.DuplicateError("seller name"))
	case errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.NotFoundError("seller"))
	case errors.Is(err, core.ErrForbidden):
		core.JSONError(w, core.OwnershipError(""))
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid status value")
	default:
		core.InternalServerError(w, err)
	}
}
