package payoutshandler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"salescomp/internal/domain/auth"
	"salescomp/internal/domain/payout"
	"salescomp/internal/platform/jobs"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
	"salescomp/internal/transport/http/shared"
)

type Handler struct {
	service   *payout.Service
	jobs      *jobs.Service
	perms     middleware.PermissionStore
	exportDir string
}

func NewHandler(service *payout.Service, jobService *jobs.Service, perms middleware.PermissionStore, exportDir string) *Handler {
	return &Handler{service: service, jobs: jobService, perms: perms, exportDir: exportDir}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payouts", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPayoutsRun, h.perms)).Post("/runs", h.handleStartRun)
		r.With(middleware.RequirePermission(auth.PermPayoutsRead, h.perms)).Get("/runs", h.handleListRuns)
		r.With(middleware.RequirePermission(auth.PermPayoutsRead, h.perms)).Get("/runs/{runID}", h.handleGetRun)
		r.With(middleware.RequirePermission(auth.PermPayoutsRead, h.perms)).Get("/runs/{runID}/attributions", h.handleAttributions)
		r.With(middleware.RequirePermission(auth.PermPayoutsExport, h.perms)).Get("/runs/{runID}/export/register", h.handleExportRegister)
	})
}

type startRunPayload struct {
	PlanID string `json:"planId"`
	Async  bool   `json:"async"`
}

func (h *Handler) handleStartRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload startRunPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("planId", payload.PlanID, "plan id is required")
	if v.Reject(w, reqID) {
		return
	}

	if payload.Async {
		tenantID, planID := user.TenantID, payload.PlanID
		err := h.jobs.Enqueue(jobs.JobPayoutRun, tenantID, func(ctx context.Context) (any, error) {
			run, err := h.service.RunCalculation(ctx, tenantID, planID, nil)
			if err != nil {
				return nil, err
			}
			return run, nil
		})
		if errors.Is(err, jobs.ErrQueueFull) {
			api.Fail(w, http.StatusServiceUnavailable, "queue_full", "job queue is full, retry later", reqID)
			return
		}
		api.Success(w, map[string]string{"status": "queued"}, reqID)
		return
	}

	run, err := h.service.RunCalculation(r.Context(), user.TenantID, payload.PlanID, nil)
	switch {
	case errors.Is(err, payout.ErrPlanNotActive):
		api.Fail(w, http.StatusConflict, "plan_not_active", "plan must be active to run", reqID)
	case errors.Is(err, payout.ErrRunInProgress):
		api.Fail(w, http.StatusConflict, "run_in_progress", "a run is already in progress for this plan", reqID)
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "run_failed", "calculation run failed", reqID)
	default:
		api.Created(w, run, reqID)
	}
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	runs, err := h.service.ListRuns(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_list_failed", "failed to list runs", reqID)
		return
	}
	api.Success(w, runs, reqID)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	run, err := h.service.Run(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if errors.Is(err, payout.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "calculation run not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "run_get_failed", "failed to load run", reqID)
		return
	}
	api.Success(w, run, reqID)
}

func (h *Handler) handleAttributions(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	rows, err := h.service.Attributions(r.Context(), user.TenantID, chi.URLParam(r, "runID"))
	if errors.Is(err, payout.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "calculation run not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attribution_list_failed", "failed to list attributions", reqID)
		return
	}
	api.Success(w, rows, reqID)
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	filePath, err := h.service.ExportRegisterXLSX(r.Context(), user.TenantID, chi.URLParam(r, "runID"), h.exportDir)
	if errors.Is(err, payout.ErrRunNotFound) {
		api.Fail(w, http.StatusNotFound, "run_not_found", "calculation run not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export register", reqID)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(filePath))
	http.ServeFile(w, r, filePath)
}
