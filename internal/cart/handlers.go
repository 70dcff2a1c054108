package cart

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

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc *Service
}

// Get returns the current cart contents and derived totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.Svc.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// AddItem adds or increments a cart entry.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ProductID = strings.TrimSpace(payload.ProductID)
	if payload.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	if payload.Qty == 0 {
		payload.Qty = 1
	}
	view, err := h.Svc.AddItem(r.Context(), userID, payload.ProductID, payload.Qty)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.CartOps.WithLabelValues("add").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// UpdateItem sets the quantity for an entry; a quantity below one removes it.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productId")
	var payload struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	view, err := h.Svc.SetQuantity(r.Context(), userID, productID, payload.Qty)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.CartOps.WithLabelValues("set_qty").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// RemoveItem deletes an entry from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	productID := chi.URLParam(r, "productId")
	view, err := h.Svc.RemoveItem(r.Context(), userID, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	obs.CartOps.WithLabelValues("remove").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": view})
}

// Clear empties the cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Clear(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	obs.CartOps.WithLabelValues("clear").Inc()
	common.JSON(w, http.StatusOK, map[string]any{"data": View{Items: []Entry{}, Total: pricing.Zero()}})
}

// Totals returns the derived count and total without the entry list.
func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.Svc.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{
		"count": view.Count,
		"total": view.Total,
	}})
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
	case errors.Is(err, pricing.ErrInvalidQuantity),
		errors.Is(err, pricing.ErrInvalidPrice),
		errors.Is(err, ErrOutOfStock):
		return common.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
	case errors.Is(err, ErrNotFound):
		return common.NewAppError("NOT_FOUND", err.Error(), http.StatusNotFound, err)
	case errors.Is(err, ErrPersistence):
		return common.NewAppError("UNAVAILABLE", "cart store unavailable", http.StatusServiceUnavailable, err)
	default:
		return err
	}
}
