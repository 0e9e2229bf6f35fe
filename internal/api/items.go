package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/matatuconnect/backend/internal/imaging"
	"github.com/matatuconnect/backend/internal/model"
	"github.com/matatuconnect/backend/internal/store"
)

// ItemsHandler handles lost item endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /api/lost-items. Admins see every item with its claims,
// drivers see their own reports with claims, commuters see the item list
// without claim details (claims carry contact info).
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var items []model.ItemWithClaims
	var err error
	switch claims.Role {
	case model.RoleAdmin:
		items, err = store.ListItemsWithClaims(r.Context(), h.DB, 0)
	case model.RoleDriver:
		items, err = store.ListItemsWithClaims(r.Context(), h.DB, claims.UserID)
	default:
		var plain []model.LostItem
		plain, err = store.ListLostItems(r.Context(), h.DB, 0)
		items = store.GroupClaims(plain, nil)
	}
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list lost items")
		return
	}
	if items == nil {
		items = []model.ItemWithClaims{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/lost-items. Multipart form with item, route,
// sacco, found_on and description fields plus an optional photo file.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)
	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	item := r.FormValue("item")
	route := r.FormValue("route")
	sacco := r.FormValue("sacco")
	foundOn := r.FormValue("found_on")
	if item == "" || route == "" || sacco == "" || foundOn == "" {
		jsonError(w, http.StatusBadRequest, "item, route, sacco and found_on required")
		return
	}

	created, err := store.CreateLostItem(r.Context(), h.DB,
		item, route, sacco, foundOn, r.FormValue("description"), claims.UserID)
	if err != nil {
		storeError(w, err, "failed to create lost item")
		return
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		processed, err := imaging.Process(file)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.SetLostItemPhoto(r.Context(), h.DB, created.ID, processed.Data, processed.MIME); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to save photo")
			return
		}
		created.PhotoMime = processed.MIME
	}

	slog.Info("lost item reported", "item", created.Item, "driver", claims.Username)
	jsonResponse(w, http.StatusCreated, created)
}

// Get handles GET /api/lost-items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetLostItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get lost item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "lost item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetPhoto handles GET /api/lost-items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetLostItemPhoto(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// Delete handles DELETE /api/lost-items/{id}. Drivers may only remove their
// own reports once at least one claim has been approved. Admins may remove
// any report.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	switch claims.Role {
	case model.RoleAdmin:
		err = store.DeleteLostItemByAdmin(r.Context(), h.DB, id)
	case model.RoleDriver:
		err = store.DeleteLostItemByDriver(r.Context(), h.DB, id, claims.UserID)
	default:
		jsonError(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	if err != nil {
		storeError(w, err, "failed to delete lost item")
		return
	}

	slog.Info("lost item deleted", "item_id", id, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "lost item deleted"})
}
