package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/matatuconnect/backend/internal/model"
	"github.com/matatuconnect/backend/internal/store"
)

// ClaimsHandler handles the lost item claim workflow.
type ClaimsHandler struct {
	DB *sql.DB
}

type submitClaimRequest struct {
	LostItemID  int64  `json:"lost_item_id"`
	ClaimerName string `json:"claimer_name"`
	ContactInfo string `json:"contact_info"`
	Details     string `json:"details"`
}

// Submit handles POST /api/claims. Any signed-in user may claim a lost
// item; the claim starts unconfirmed and unapproved.
func (h *ClaimsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.LostItemID <= 0 {
		jsonError(w, http.StatusBadRequest, "lost_item_id required")
		return
	}
	if req.ClaimerName == "" || req.ContactInfo == "" {
		jsonError(w, http.StatusBadRequest, "claimer_name and contact_info required")
		return
	}

	claim, err := store.SubmitClaim(r.Context(), h.DB,
		req.LostItemID, req.ClaimerName, req.ContactInfo, req.Details, &claims.UserID)
	if err != nil {
		storeError(w, err, "failed to submit claim")
		return
	}

	slog.Info("claim submitted", "claim_id", claim.ID, "item_id", claim.LostItemID, "by", claims.Username)
	jsonResponse(w, http.StatusCreated, claim)
}

// Confirm handles PUT /api/claims/{id}/confirm. Only the driver who
// reported the parent item may confirm; repeating is a no-op.
func (h *ClaimsHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	claim, err := store.ConfirmClaim(r.Context(), h.DB, id, claims.UserID)
	if err != nil {
		storeError(w, err, "failed to confirm claim")
		return
	}

	slog.Info("claim confirmed", "claim_id", claim.ID, "driver", claims.Username)
	jsonResponse(w, http.StatusOK, claim)
}

// Approve handles PUT /api/claims/{id}/approve. The claim must already be
// confirmed by the driver. The response carries the parent item id so
// clients can refresh the right listing.
func (h *ClaimsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claim, lostItemID, err := store.ApproveClaim(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to approve claim")
		return
	}

	slog.Info("claim approved", "claim_id", claim.ID, "item_id", lostItemID)
	jsonResponse(w, http.StatusOK, map[string]any{
		"claim":        claim,
		"lost_item_id": lostItemID,
	})
}

// Withdraw handles DELETE /api/claims/{id}. The submitter may withdraw an
// unconfirmed claim, an admin may withdraw any unapproved claim.
func (h *ClaimsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid claim id")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	isAdmin := claims.Role == model.RoleAdmin
	if err := store.WithdrawClaim(r.Context(), h.DB, id, claims.UserID, isAdmin); err != nil {
		storeError(w, err, "failed to withdraw claim")
		return
	}

	slog.Info("claim withdrawn", "claim_id", id, "by", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "claim withdrawn"})
}

// ReviewQueue handles GET /api/claims/review. Returns confirmed claims
// awaiting admin approval, with parent item context.
func (h *ClaimsHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := store.ReviewQueue(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list review queue")
		return
	}
	if queue == nil {
		queue = []model.Claim{}
	}
	jsonResponse(w, http.StatusOK, queue)
}
