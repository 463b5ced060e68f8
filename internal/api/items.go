package api

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dkolar/stockroom/internal/imaging"
	"github.com/dkolar/stockroom/internal/model"
	"github.com/dkolar/stockroom/internal/store"
)

// ItemsHandler handles item CRUD and image endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	WorkspaceID          string   `json:"workspaceId"`
	CategoryID           string   `json:"categoryId"`
	TypeID               string   `json:"typeId"`
	LocationID           string   `json:"locationId"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Quantity             *int     `json:"quantity"`
	WholesalePrice       *float64 `json:"wholesalePrice"`
	RetailPrice          *float64 `json:"retailPrice"`
	ActualWholesalePrice *float64 `json:"actualWholesalePrice"`
	ActualRetailPrice    *float64 `json:"actualRetailPrice"`
	Width                *float64 `json:"width"`
	Height               *float64 `json:"height"`
	Depth                *float64 `json:"depth"`
	Weight               *float64 `json:"weight"`
	ForSale              *bool    `json:"forSale"`
	Barcode              string   `json:"barcode"`
	SerialNumber         string   `json:"serialNumber"`
}

type updateItemRequest struct {
	CategoryID           *string  `json:"categoryId"`
	TypeID               *string  `json:"typeId"`
	LocationID           *string  `json:"locationId"`
	Name                 *string  `json:"name"`
	Description          *string  `json:"description"`
	Quantity             *int     `json:"quantity"`
	WholesalePrice       *float64 `json:"wholesalePrice"`
	RetailPrice          *float64 `json:"retailPrice"`
	ActualWholesalePrice *float64 `json:"actualWholesalePrice"`
	ActualRetailPrice    *float64 `json:"actualRetailPrice"`
	Width                *float64 `json:"width"`
	Height               *float64 `json:"height"`
	Depth                *float64 `json:"depth"`
	Weight               *float64 `json:"weight"`
	ForSale              *bool    `json:"forSale"`
	Barcode              *string  `json:"barcode"`
	SerialNumber         *string  `json:"serialNumber"`
}

// List handles GET /api/item.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/item/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// ListByWorkspace handles GET /api/item/workspace/{workspaceId}. An empty
// result is reported as 404, matching the get-by-id shape.
func (h *ItemsHandler) ListByWorkspace(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItemsByWorkspace(r.Context(), h.DB, r.PathValue("workspaceId"))
	if err != nil {
		slog.Error("failed to list workspace items", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(items) == 0 {
		notFound(w)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// ListByCategory handles GET /api/item/category/{categoryId}: the items
// of the category and every descendant category. An empty subtree yields
// an empty array.
func (h *ItemsHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItemsByCategory(r.Context(), h.DB, r.PathValue("categoryId"))
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to list category items", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/item.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}
	if req.Name == "" || req.WorkspaceID == "" || req.CategoryID == "" || req.TypeID == "" ||
		req.Quantity == nil || req.ForSale == nil {
		invalidBody(w)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, store.ItemCreate{
		WorkspaceID:          req.WorkspaceID,
		CategoryID:           req.CategoryID,
		TypeID:               req.TypeID,
		LocationID:           req.LocationID,
		Name:                 req.Name,
		Description:          req.Description,
		Quantity:             *req.Quantity,
		WholesalePrice:       req.WholesalePrice,
		RetailPrice:          req.RetailPrice,
		ActualWholesalePrice: req.ActualWholesalePrice,
		ActualRetailPrice:    req.ActualRetailPrice,
		Width:                req.Width,
		Height:               req.Height,
		Depth:                req.Depth,
		Weight:               req.Weight,
		ForSale:              *req.ForSale,
		Barcode:              req.Barcode,
		SerialNumber:         req.SerialNumber,
	})
	if err != nil {
		slog.Error("failed to create item", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Update handles PUT /api/item/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		invalidBody(w)
		return
	}

	err := store.UpdateItem(r.Context(), h.DB, id, store.ItemUpdate{
		CategoryID:           req.CategoryID,
		TypeID:               req.TypeID,
		LocationID:           req.LocationID,
		Name:                 req.Name,
		Description:          req.Description,
		Quantity:             req.Quantity,
		WholesalePrice:       req.WholesalePrice,
		RetailPrice:          req.RetailPrice,
		ActualWholesalePrice: req.ActualWholesalePrice,
		ActualRetailPrice:    req.ActualRetailPrice,
		Width:                req.Width,
		Height:               req.Height,
		Depth:                req.Depth,
		Weight:               req.Weight,
		ForSale:              req.ForSale,
		Barcode:              req.Barcode,
		SerialNumber:         req.SerialNumber,
	})
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		slog.Error("failed to update item", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	item, _ := store.GetItem(r.Context(), h.DB, id)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/item/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		notFound(w)
		return
	}

	if err := store.DeleteItem(r.Context(), h.DB, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to delete item", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// UploadImage handles PUT /api/item/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	processed, err := imaging.Process(data)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "unsupported or corrupt image")
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, processed.Data, processed.MIME); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("failed to save item image", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/item/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	data, mime, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get item image", "error", err)
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if data == nil {
		notFound(w)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
