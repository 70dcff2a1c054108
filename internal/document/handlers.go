package document

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pasarly/backend-pasar/internal/common"
	"github.com/pasarly/backend-pasar/internal/obs"
	"github.com/pasarly/backend-pasar/internal/pricing"
)

// Handler wires the document service to HTTP.
type Handler struct {
	Svc         *Service
	DefaultPage int
	MaxPage     int
}

// Create issues a new document from the posted line items and rates.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	doc, err := h.Svc.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.DocumentsIssuedTotal.WithLabelValues(string(doc.Kind)).Inc()
	common.JSON(w, http.StatusCreated, map[string]any{"data": doc})
}

// Preview computes totals for the posted input without persisting.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	totals, err := h.Svc.Preview(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.TotalsComputedTotal.WithLabelValues(string(totals.TaxBase)).Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": totals})
}

// List returns a page of the caller's documents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	page, perPage := common.ParsePagination(r, h.DefaultPage, h.MaxPage)
	docs, total, err := h.Svc.List(r.Context(), userID, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": docs,
		"meta": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// Detail returns a single document by id.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	doc, err := h.Svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": doc})
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := common.UserID(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user identity required", nil)
		return "", false
	}
	return userID, true
}

func writeError(w http.ResponseWriter, err error) {
	common.JSONAppError(w, appError(err))
}

// appError maps service sentinels to the AppError carried across the handler boundary.
func appError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidPrice),
		errors.Is(err, pricing.ErrInvalidPercentage):
		return common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", err.Error(), http.StatusNotFound, err)
	default:
		return err
	}
}
