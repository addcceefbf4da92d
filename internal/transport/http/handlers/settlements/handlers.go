package settlementshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"salescomp/internal/domain/auth"
	"salescomp/internal/domain/settlement"
	"salescomp/internal/platform/jobs"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
	"salescomp/internal/transport/http/shared"
)

type Handler struct {
	service *settlement.Service
	jobs    *jobs.Service
	perms   middleware.PermissionStore
}

func NewHandler(service *settlement.Service, jobService *jobs.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{service: service, jobs: jobService, perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settlements", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSettlementsRead, h.perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermSettlementsWrite, h.perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermSettlementsRead, h.perms)).Get("/{settlementID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermSettlementsWrite, h.perms)).Post("/{settlementID}/tranches/1", h.handleBuildTranche1)
		r.With(middleware.RequirePermission(auth.PermSettlementsWrite, h.perms)).Post("/{settlementID}/tranches/2", h.handleBuildTranche2)
		r.With(middleware.RequirePermission(auth.PermSettlementsRead, h.perms)).Get("/{settlementID}/tranches", h.handleListTranches)
		r.With(middleware.RequirePermission(auth.PermSettlementsRead, h.perms)).Get("/{settlementID}/statement", h.handleStatement)
		r.With(middleware.RequirePermission(auth.PermSettlementsApprove, h.perms)).Post("/tranches/{trancheID}/advance", h.handleAdvanceTranche)
		r.With(middleware.RequirePermission(auth.PermSettlementsRead, h.perms)).Get("/tranches/{trancheID}/lines", h.handleTrancheLines)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	settlements, err := h.service.List(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_list_failed", "failed to list settlements", reqID)
		return
	}
	api.Success(w, settlements, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		EmployeeID    string `json:"employeeId"`
		DepartureDate string `json:"departureDate"`
		GraceDays     int    `json:"graceDays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employee id is required")
	departure, _ := v.Date("departureDate", payload.DepartureDate)
	if payload.GraceDays < 0 {
		v.Add("graceDays", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.service.Create(r.Context(), user.TenantID, payload.EmployeeID, departure, payload.GraceDays)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_create_failed", "failed to create settlement", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	stl, err := h.service.Get(r.Context(), user.TenantID, chi.URLParam(r, "settlementID"))
	if errors.Is(err, settlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "settlement_not_found", "settlement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settlement_get_failed", "failed to load settlement", reqID)
		return
	}
	api.Success(w, stl, reqID)
}

func (h *Handler) handleBuildTranche1(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	settlementID := chi.URLParam(r, "settlementID")
	result, err := h.jobs.RunNow(r.Context(), jobs.JobSettlementBuild, user.TenantID, func(ctx context.Context) (any, error) {
		return h.service.BuildTranche1(ctx, user.TenantID, settlementID)
	})
	if errors.Is(err, settlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "settlement_not_found", "settlement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tranche_build_failed", "failed to build tranche 1", reqID)
		return
	}
	api.Success(w, result, reqID)
}

func (h *Handler) handleBuildTranche2(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	settlementID := chi.URLParam(r, "settlementID")
	result, err := h.jobs.RunNow(r.Context(), jobs.JobSettlementBuild, user.TenantID, func(ctx context.Context) (any, error) {
		return h.service.BuildTranche2(ctx, user.TenantID, settlementID, time.Now())
	})
	switch {
	case errors.Is(err, settlement.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "settlement_not_found", "settlement not found", reqID)
	case errors.Is(err, settlement.ErrTranche1NotBuilt):
		api.Fail(w, http.StatusConflict, "tranche1_not_built", "tranche 1 must be calculated first", reqID)
	case errors.Is(err, settlement.ErrNotYetEligible):
		api.Fail(w, http.StatusConflict, "not_yet_eligible", "collection grace period has not elapsed", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "tranche_build_failed", "failed to build tranche 2", reqID)
	default:
		api.Success(w, result, reqID)
	}
}

func (h *Handler) handleListTranches(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	tranches, err := h.service.Tranches(r.Context(), user.TenantID, chi.URLParam(r, "settlementID"))
	if errors.Is(err, settlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "settlement_not_found", "settlement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tranche_list_failed", "failed to list tranches", reqID)
		return
	}
	api.Success(w, tranches, reqID)
}

func (h *Handler) handleAdvanceTranche(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	tranche, err := h.service.AdvanceTranche(r.Context(), user.TenantID, chi.URLParam(r, "trancheID"), time.Now())
	switch {
	case errors.Is(err, settlement.ErrTrancheNotFound):
		api.Fail(w, http.StatusNotFound, "tranche_not_found", "tranche not found", reqID)
	case errors.Is(err, settlement.ErrNotYetEligible):
		api.Fail(w, http.StatusConflict, "not_yet_eligible", "collection grace period has not elapsed", reqID)
	case errors.Is(err, settlement.ErrStatusFinal):
		api.Fail(w, http.StatusConflict, "already_paid", "tranche has already been paid", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "tranche_advance_failed", "failed to advance tranche", reqID)
	default:
		api.Success(w, tranche, reqID)
	}
}

func (h *Handler) handleTrancheLines(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	lines, err := h.service.TrancheLines(r.Context(), user.TenantID, chi.URLParam(r, "trancheID"))
	if errors.Is(err, settlement.ErrTrancheNotFound) {
		api.Fail(w, http.StatusNotFound, "tranche_not_found", "tranche not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tranche_lines_failed", "failed to list tranche lines", reqID)
		return
	}
	api.Success(w, lines, reqID)
}

func (h *Handler) handleStatement(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	filePath, err := h.service.GenerateStatementPDF(r.Context(), user.TenantID, chi.URLParam(r, "settlementID"))
	if errors.Is(err, settlement.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "settlement_not_found", "settlement not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "statement_failed", "failed to generate statement", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(filePath))
	http.ServeFile(w, r, filePath)
}
