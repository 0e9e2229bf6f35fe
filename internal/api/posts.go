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

// PostsHandler handles road update endpoints.
type PostsHandler struct {
	DB *sql.DB
}

// List handles GET /api/posts. An optional type query parameter filters by
// post type.
func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	postType := r.URL.Query().Get("type")
	if postType != "" && !model.ValidPostType(postType) {
		jsonError(w, http.StatusBadRequest, "invalid post type")
		return
	}

	posts, err := store.ListPosts(r.Context(), h.DB, postType)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	jsonResponse(w, http.StatusOK, posts)
}

// Alerts handles GET /api/alerts. Accident reports only.
func (h *PostsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	posts, err := store.ListPosts(r.Context(), h.DB, model.PostTypeAccident)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	if posts == nil {
		posts = []model.Post{}
	}
	jsonResponse(w, http.StatusOK, posts)
}

// Create handles POST /api/posts. Multipart form with type and description
// fields plus an optional photo file.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	postType := r.FormValue("type")
	description := r.FormValue("description")
	if !model.ValidPostType(postType) {
		jsonError(w, http.StatusBadRequest, "type must be accident or traffic_update")
		return
	}
	if description == "" {
		jsonError(w, http.StatusBadRequest, "description required")
		return
	}

	post, err := store.CreatePost(r.Context(), h.DB, postType, description, &claims.UserID)
	if err != nil {
		storeError(w, err, "failed to create post")
		return
	}

	if file, _, err := r.FormFile("photo"); err == nil {
		defer file.Close()

		processed, err := imaging.Process(file)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := store.SetPostPhoto(r.Context(), h.DB, post.ID, processed.Data, processed.MIME); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to save photo")
			return
		}
		post.PhotoMime = processed.MIME
	}

	slog.Info("post created", "post_id", post.ID, "type", post.Type, "by", claims.Username)
	jsonResponse(w, http.StatusCreated, post)
}

// GetPhoto handles GET /api/posts/{id}/photo.
func (h *PostsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	data, mime, err := store.GetPostPhoto(r.Context(), h.DB, id)
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

// Delete handles DELETE /api/posts/{id}.
func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := store.DeletePost(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete post")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "post deleted"})
}
