package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

// CategoriesHandler handles category CRUD endpoints plus subtree queries
// over the nested-set bounds.
type CategoriesHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    string `json:"parentId"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// List handles GET /api/category.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Get handles GET /api/category/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	category, err := store.GetCategory(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get category", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if category == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// ListByWorkspace handles GET /api/category/workspace/{workspaceId}. An
// empty result is reported as 404, matching the get-by-id shape.
func (h *CategoriesHandler) ListByWorkspace(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategoriesByWorkspace(r.Context(), h.DB, r.PathValue("workspaceId"))
	if err != nil {
		slog.Error("failed to list workspace categories", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(categories) == 0 {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, categories)
}

// ListChildren handles GET /api/category/{id}/children: the node's whole
// subtree in tree order. A leaf yields an empty array, not 404.
func (h *CategoriesHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := store.ListCategorySubtree(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to list category subtree", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if children == nil {
		children = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, children)
}

// Create handles POST /api/category. With a parentId the category becomes
// the parent's last child; otherwise a new root in the workspace.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Name == "" || req.WorkspaceID == "" {
		invalidBody(w)
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.WorkspaceID, req.Name, req.Description, req.ParentID)
	if errors.Is(err, store.ErrNotFound) {
		// Unknown parent.
		invalidBody(w)
		return
	}
	if err != nil {
		slog.Error("failed to create category", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, category)
}

// Update handles PUT /api/category/{id}. The nested-set bounds cannot be
// edited here; they only move through create and delete.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}

	err := store.UpdateCategory(r.Context(), h.DB, id, store.CategoryUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to update category", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	category, _ := store.GetCategory(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /api/category/{id}. The subtree goes with the
// node.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get category", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if category == nil {
		notFound(w)
		return
	}

	if err := store.DeleteCategory(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to delete category", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, category)
}
