package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/matatuconnect/backend/internal/model"
	"github.com/matatuconnect/backend/internal/store"
)

// TransitHandler handles routes, stages, saccos and operations.
type TransitHandler struct {
	DB *sql.DB
}

type routeRequest struct {
	DisplayName string `json:"display_name"`
}

type stageRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type saccoRequest struct {
	Name string `json:"name"`
}

type operationRequest struct {
	SaccoID     int64  `json:"sacco_id"`
	RouteID     int64  `json:"route_id"`
	FromStageID int64  `json:"from_stage_id"`
	ToStageID   *int64 `json:"to_stage_id"`
}

// ListRoutes handles GET /api/routes.
func (h *TransitHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := store.ListRoutes(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list routes")
		return
	}
	if routes == nil {
		routes = []model.Route{}
	}
	jsonResponse(w, http.StatusOK, routes)
}

// CreateRoute handles POST /api/routes.
func (h *TransitHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DisplayName == "" {
		jsonError(w, http.StatusBadRequest, "display_name required")
		return
	}

	route, err := store.CreateRoute(r.Context(), h.DB, req.DisplayName)
	if err != nil {
		storeError(w, err, "failed to create route")
		return
	}
	jsonResponse(w, http.StatusCreated, route)
}

// UpdateRoute handles PUT /api/routes/{id}.
func (h *TransitHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid route id")
		return
	}

	var req routeRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DisplayName == "" {
		jsonError(w, http.StatusBadRequest, "display_name required")
		return
	}

	if err := store.UpdateRoute(r.Context(), h.DB, id, req.DisplayName); err != nil {
		storeError(w, err, "failed to update route")
		return
	}
	jsonResponse(w, http.StatusOK, model.Route{ID: id, DisplayName: req.DisplayName})
}

// DeleteRoute handles DELETE /api/routes/{id}.
func (h *TransitHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid route id")
		return
	}
	if err := store.DeleteRoute(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete route")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "route deleted"})
}

// ListStages handles GET /api/stages.
func (h *TransitHandler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := store.ListStages(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list stages")
		return
	}
	if stages == nil {
		stages = []model.Stage{}
	}
	jsonResponse(w, http.StatusOK, stages)
}

// CreateStage handles POST /api/stages.
func (h *TransitHandler) CreateStage(w http.ResponseWriter, r *http.Request) {
	var req stageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	stage, err := store.CreateStage(r.Context(), h.DB, req.Name, req.Latitude, req.Longitude)
	if err != nil {
		storeError(w, err, "failed to create stage")
		return
	}
	jsonResponse(w, http.StatusCreated, stage)
}

// UpdateStage handles PUT /api/stages/{id}.
func (h *TransitHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid stage id")
		return
	}

	var req stageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := store.UpdateStage(r.Context(), h.DB, id, req.Name, req.Latitude, req.Longitude); err != nil {
		storeError(w, err, "failed to update stage")
		return
	}
	jsonResponse(w, http.StatusOK, model.Stage{ID: id, Name: req.Name, Latitude: req.Latitude, Longitude: req.Longitude})
}

// DeleteStage handles DELETE /api/stages/{id}.
func (h *TransitHandler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid stage id")
		return
	}
	if err := store.DeleteStage(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete stage")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "stage deleted"})
}

// ListSaccos handles GET /api/saccos.
func (h *TransitHandler) ListSaccos(w http.ResponseWriter, r *http.Request) {
	saccos, err := store.ListSaccos(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list saccos")
		return
	}
	if saccos == nil {
		saccos = []model.Sacco{}
	}
	jsonResponse(w, http.StatusOK, saccos)
}

// CreateSacco handles POST /api/saccos.
func (h *TransitHandler) CreateSacco(w http.ResponseWriter, r *http.Request) {
	var req saccoRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	sacco, err := store.CreateSacco(r.Context(), h.DB, req.Name)
	if err != nil {
		storeError(w, err, "failed to create sacco")
		return
	}
	jsonResponse(w, http.StatusCreated, sacco)
}

// DeleteSacco handles DELETE /api/saccos/{id}.
func (h *TransitHandler) DeleteSacco(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid sacco id")
		return
	}
	if err := store.DeleteSacco(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete sacco")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "sacco deleted"})
}

// ListOperations handles GET /api/operations.
func (h *TransitHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	ops, err := store.ListOperations(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list operations")
		return
	}
	if ops == nil {
		ops = []model.Operation{}
	}
	jsonResponse(w, http.StatusOK, ops)
}

// CreateOperation handles POST /api/operations.
func (h *TransitHandler) CreateOperation(w http.ResponseWriter, r *http.Request) {
	var req operationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SaccoID <= 0 || req.RouteID <= 0 || req.FromStageID <= 0 {
		jsonError(w, http.StatusBadRequest, "sacco_id, route_id and from_stage_id required")
		return
	}

	op, err := store.CreateOperation(r.Context(), h.DB, req.SaccoID, req.RouteID, req.FromStageID, req.ToStageID)
	if err != nil {
		storeError(w, err, "failed to create operation")
		return
	}
	jsonResponse(w, http.StatusCreated, op)
}

// DeleteOperation handles DELETE /api/operations/{id}.
func (h *TransitHandler) DeleteOperation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid operation id")
		return
	}
	if err := store.DeleteOperation(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete operation")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "operation deleted"})
}
