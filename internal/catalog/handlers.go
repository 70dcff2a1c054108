package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pasarly/backend-pasar/internal/common"
)

// Handler wires catalog reads to HTTP.
type Handler struct {
	Svc         *Service
	DefaultPage int
	MaxPage     int
}

// Products lists products with pagination.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, h.DefaultPage, h.MaxPage)
	products, total, err := h.Svc.List(r.Context(), page, perPage)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list products", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": products,
		"meta": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// ProductDetail returns a single product by id.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONAppError(w, common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err))
			return
		}
		common.JSONAppError(w, common.NewAppError("INTERNAL", "unable to load product", http.StatusInternalServerError, err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": product})
}
