package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

// LocationsHandler handles location CRUD endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

type createLocationRequest struct {
	WorkspaceID string   `json:"workspaceId"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

type updateLocationRequest struct {
	Name      *string  `json:"name"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// List handles GET /api/location.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocations(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list locations", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	jsonResponse(w, http.StatusOK, locations)
}

// Get handles GET /api/location/{id}.
func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	location, err := store.GetLocation(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get location", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if location == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, location)
}

// ListByWorkspace handles GET /api/location/workspace/{workspaceId}.
// An empty result is reported as 404, matching the get-by-id shape.
func (h *LocationsHandler) ListByWorkspace(w http.ResponseWriter, r *http.Request) {
	locations, err := store.ListLocationsByWorkspace(r.Context(), h.DB, r.PathValue("workspaceId"))
	if err != nil {
		slog.Error("failed to list workspace locations", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(locations) == 0 {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, locations)
}

// Create handles POST /api/location.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Name == "" || req.WorkspaceID == "" {
		invalidBody(w)
		return
	}

	location, err := store.CreateLocation(r.Context(), h.DB, store.LocationCreate{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	})
	if err != nil {
		slog.Error("failed to create location", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, location)
}

// Update handles PUT /api/location/{id}.
func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateLocationRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}

	err := store.UpdateLocation(r.Context(), h.DB, id, store.LocationUpdate{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to update location", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	location, _ := store.GetLocation(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, location)
}

// Delete handles DELETE /api/location/{id}. The deleted record is
// returned, so a repeated delete of the same id yields 404.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	location, err := store.GetLocation(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get location", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if location == nil {
		notFound(w)
		return
	}

	if err := store.DeleteLocation(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to delete location", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, location)
}
