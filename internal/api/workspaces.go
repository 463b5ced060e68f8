package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

// WorkspacesHandler handles workspace CRUD endpoints.
type WorkspacesHandler struct {
	DB *sql.DB
}

type createWorkspaceRequest struct {
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

type updateWorkspaceRequest struct {
	Name   *string `json:"name"`
	UserID *string `json:"userId"`
}

// List handles GET /api/workspace.
func (h *WorkspacesHandler) List(w http.ResponseWriter, r *http.Request) {
	workspaces, err := store.ListWorkspaces(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list workspaces", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if workspaces == nil {
		workspaces = []model.Workspace{}
	}
	jsonResponse(w, http.StatusOK, workspaces)
}

// Get handles GET /api/workspace/{id}.
func (h *WorkspacesHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspace, err := store.GetWorkspace(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get workspace", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if workspace == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, workspace)
}

// ListByUser handles GET /api/workspace/user/{userId}. Unlike the
// workspace-scoped resource filters, an owner with no workspaces is a
// normal empty result.
func (h *WorkspacesHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	workspaces, err := store.ListWorkspacesByUser(r.Context(), h.DB, r.PathValue("userId"))
	if err != nil {
		slog.Error("failed to list user workspaces", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if workspaces == nil {
		workspaces = []model.Workspace{}
	}
	jsonResponse(w, http.StatusOK, workspaces)
}

// Create handles POST /api/workspace.
func (h *WorkspacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Name == "" || req.UserID == "" {
		invalidBody(w)
		return
	}

	workspace, err := store.CreateWorkspace(r.Context(), h.DB, req.Name, req.UserID)
	if err != nil {
		slog.Error("failed to create workspace", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("workspace created", "workspace", workspace.ID, "owner", workspace.UserID)
	jsonResponse(w, http.StatusOK, workspace)
}

// Update handles PUT /api/workspace/{id}.
func (h *WorkspacesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateWorkspaceRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}

	err := store.UpdateWorkspace(r.Context(), h.DB, id, store.WorkspaceUpdate{
		Name:   req.Name,
		UserID: req.UserID,
	})
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to update workspace", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	workspace, _ := store.GetWorkspace(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, workspace)
}

// Delete handles DELETE /api/workspace/{id}.
func (h *WorkspacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	workspace, err := store.GetWorkspace(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get workspace", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if workspace == nil {
		notFound(w)
		return
	}

	if err := store.DeleteWorkspace(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to delete workspace", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("workspace deleted", "workspace", workspace.ID)
	jsonResponse(w, http.StatusOK, workspace)
}
