package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/matatuconnect/backend/internal/model"
	"github.com/matatuconnect/backend/internal/store"
)

// RatingsHandler handles sacco rating endpoints.
type RatingsHandler struct {
	DB *sql.DB
}

type createRatingRequest struct {
	SaccoID     int64  `json:"sacco_id"`
	Cleanliness int    `json:"cleanliness_rating"`
	Safety      int    `json:"safety_rating"`
	Service     int    `json:"service_rating"`
	ReviewText  string `json:"review_text"`
}

// List handles GET /api/ratings. An optional sacco_id query parameter
// filters by sacco.
func (h *RatingsHandler) List(w http.ResponseWriter, r *http.Request) {
	var saccoID int64
	if raw := r.URL.Query().Get("sacco_id"); raw != "" {
		var err error
		saccoID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid sacco_id")
			return
		}
	}

	ratings, err := store.ListRatings(r.Context(), h.DB, saccoID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	jsonResponse(w, http.StatusOK, ratings)
}

// Create handles POST /api/ratings.
func (h *RatingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createRatingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SaccoID <= 0 {
		jsonError(w, http.StatusBadRequest, "sacco_id required")
		return
	}
	if !model.ValidScore(req.Cleanliness) || !model.ValidScore(req.Safety) || !model.ValidScore(req.Service) {
		jsonError(w, http.StatusBadRequest, "ratings must be between 1 and 5")
		return
	}

	rating, err := store.CreateRating(r.Context(), h.DB,
		req.SaccoID, req.Cleanliness, req.Safety, req.Service, req.ReviewText, &claims.UserID)
	if err != nil {
		storeError(w, err, "failed to create rating")
		return
	}
	jsonResponse(w, http.StatusCreated, rating)
}

// Delete handles DELETE /api/ratings/{id}.
func (h *RatingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid rating id")
		return
	}

	if err := store.DeleteRating(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete rating")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "rating deleted"})
}
