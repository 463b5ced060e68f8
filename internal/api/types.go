package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

// TypesHandler handles item-type CRUD endpoints. Item types are a global
// lookup table, so there is no workspace-scoped listing.
type TypesHandler struct {
	DB *sql.DB
}

type typeRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/type.
func (h *TypesHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListItemTypes(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list item types", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if types == nil {
		types = []model.ItemType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// Get handles GET /api/type/{id}.
func (h *TypesHandler) Get(w http.ResponseWriter, r *http.Request) {
	itemType, err := store.GetItemType(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get item type", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if itemType == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, itemType)
}

// Create handles POST /api/type.
func (h *TypesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req typeRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Name == "" {
		invalidBody(w)
		return
	}

	itemType, err := store.CreateItemType(r.Context(), h.DB, req.Name)
	if err != nil {
		slog.Error("failed to create item type", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, itemType)
}

// Update handles PUT /api/type/{id}.
func (h *TypesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req typeRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Name == "" {
		invalidBody(w)
		return
	}

	err := store.UpdateItemType(r.Context(), h.DB, id, req.Name)
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to update item type", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	itemType, _ := store.GetItemType(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, itemType)
}

// Delete handles DELETE /api/type/{id}.
func (h *TypesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	itemType, err := store.GetItemType(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item type", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if itemType == nil {
		notFound(w)
		return
	}

	if err := store.DeleteItemType(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to delete item type", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, itemType)
}
