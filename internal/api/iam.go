package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

// IAMHandler handles workspace credential CRUD endpoints.
type IAMHandler struct {
	DB *sql.DB
}

type createIAMRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Password    string `json:"password"`
	Tag         string `json:"tag"`
	Role        string `json:"role"`
}

type updateIAMRequest struct {
	Password *string `json:"password"`
	Tag      *string `json:"tag"`
	Role     *string `json:"role"`
}

// List handles GET /api/iam.
func (h *IAMHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := store.ListIAM(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list iam entries", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []model.IAM{}
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Get handles GET /api/iam/{id}.
func (h *IAMHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := store.GetIAM(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get iam entry", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, entry)
}

// ListByWorkspace handles GET /api/iam/workspace/{workspaceId}. An empty
// result is reported as 404, matching the get-by-id shape.
func (h *IAMHandler) ListByWorkspace(w http.ResponseWriter, r *http.Request) {
	entries, err := store.ListIAMByWorkspace(r.Context(), h.DB, r.PathValue("workspaceId"))
	if err != nil {
		slog.Error("failed to list workspace iam entries", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(entries) == 0 {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, entries)
}

// Create handles POST /api/iam.
func (h *IAMHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createIAMRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.WorkspaceID == "" || req.Password == "" {
		invalidBody(w)
		return
	}
	if req.Role != "" && !model.ValidIAMRole(req.Role) {
		invalidBody(w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entry, err := store.CreateIAM(r.Context(), h.DB, req.WorkspaceID, string(hash), req.Tag, req.Role)
	if err != nil {
		slog.Error("failed to create iam entry", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("iam entry created", "workspace", entry.WorkspaceID, "role", entry.Role, "tag", entry.Tag)
	jsonResponse(w, http.StatusOK, entry)
}

// Update handles PUT /api/iam/{id}.
func (h *IAMHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateIAMRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Role != nil && !model.ValidIAMRole(*req.Role) {
		invalidBody(w)
		return
	}

	upd := store.IAMUpdate{Tag: req.Tag, Role: req.Role}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, err.Error())
			return
		}
		hashStr := string(hash)
		upd.PasswordHash = &hashStr
	}

	err := store.UpdateIAM(r.Context(), h.DB, id, upd)
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to update iam entry", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entry, _ := store.GetIAM(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, entry)
}

// Delete handles DELETE /api/iam/{id}.
func (h *IAMHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	entry, err := store.GetIAM(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get iam entry", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		notFound(w)
		return
	}

	if err := store.DeleteIAM(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to delete iam entry", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, entry)
}
