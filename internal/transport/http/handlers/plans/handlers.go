package planshandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"salescomp/internal/domain/auth"
	"salescomp/internal/domain/comp"
	"salescomp/internal/domain/plan"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
	"salescomp/internal/transport/http/shared"
)

type Handler struct {
	service *plan.Service
	perms   middleware.PermissionStore
}

func NewHandler(service *plan.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{service: service, perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/plans", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPlansRead, h.perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermPlansRead, h.perms)).Get("/{planID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.perms)).Post("/{planID}/activate", h.handleActivate)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.perms)).Post("/{planID}/archive", h.handleArchive)
		r.With(middleware.RequirePermission(auth.PermPlansRead, h.perms)).Get("/{planID}/metrics", h.handleListMetrics)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.perms)).Put("/{planID}/metrics", h.handleSetMetrics)
		r.With(middleware.RequirePermission(auth.PermPlansRead, h.perms)).Get("/{planID}/renewal-tiers", h.handleListRenewalTiers)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.perms)).Put("/{planID}/renewal-tiers", h.handleSetRenewalTiers)
		r.With(middleware.RequirePermission(auth.PermPlansRead, h.perms)).Get("/{planID}/spiffs", h.handleListSpiffs)
		r.With(middleware.RequirePermission(auth.PermPlansWrite, h.perms)).Post("/{planID}/spiffs", h.handleCreateSpiff)
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
	plans, err := h.service.List(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "plan_list_failed", "failed to list plans", reqID)
		return
	}
	api.Success(w, plans, reqID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		Name                string `json:"name"`
		PlanYear            int    `json:"planYear"`
		CollectionGraceDays int    `json:"collectionGraceDays"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("name", payload.Name, "plan name is required")
	if payload.PlanYear < 2000 {
		v.Add("planYear", "must be a four digit year")
	}
	if payload.CollectionGraceDays < 0 {
		v.Add("collectionGraceDays", "must not be negative")
	}
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.service.Create(r.Context(), user.TenantID, plan.Plan{
		Name:                payload.Name,
		PlanYear:            payload.PlanYear,
		CollectionGraceDays: payload.CollectionGraceDays,
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "plan_create_failed", "failed to create plan", reqID)
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
	p, err := h.service.Get(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if errors.Is(err, plan.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "plan_get_failed", "failed to load plan", reqID)
		return
	}
	api.Success(w, p, reqID)
}

func (h *Handler) handleActivate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	err := h.service.Activate(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	switch {
	case errors.Is(err, plan.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
	case err != nil:
		api.Fail(w, http.StatusUnprocessableEntity, "plan_activate_failed", err.Error(), reqID)
	default:
		api.Success(w, map[string]string{"status": "active"}, reqID)
	}
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	err := h.service.Archive(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if errors.Is(err, plan.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "plan_archive_failed", "failed to archive plan", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "archived"}, reqID)
}

func (h *Handler) handleListMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	metrics, err := h.service.Metrics(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "metric_list_failed", "failed to list metrics", reqID)
		return
	}
	api.Success(w, metrics, reqID)
}

func (h *Handler) handleSetMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		Metrics []plan.Metric `json:"metrics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	err := h.service.SetMetrics(r.Context(), user.TenantID, chi.URLParam(r, "planID"), payload.Metrics)
	switch {
	case errors.Is(err, plan.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
	case err != nil:
		api.Fail(w, http.StatusUnprocessableEntity, "metric_validation_failed", err.Error(), reqID)
	default:
		api.Success(w, map[string]string{"status": "updated"}, reqID)
	}
}

func (h *Handler) handleListRenewalTiers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	schedule, err := h.service.RenewalSchedule(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if errors.Is(err, plan.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "renewal_tier_list_failed", "failed to load renewal tiers", reqID)
		return
	}
	api.Success(w, schedule.Tiers(), reqID)
}

func (h *Handler) handleSetRenewalTiers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		Tiers []comp.RenewalTier `json:"tiers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}

	err := h.service.SetRenewalTiers(r.Context(), user.TenantID, chi.URLParam(r, "planID"), payload.Tiers)
	switch {
	case errors.Is(err, plan.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
	case err != nil:
		api.Fail(w, http.StatusUnprocessableEntity, "renewal_tier_validation_failed", err.Error(), reqID)
	default:
		api.Success(w, map[string]string{"status": "updated"}, reqID)
	}
}

func (h *Handler) handleListSpiffs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	spiffs, err := h.service.Spiffs(r.Context(), user.TenantID, chi.URLParam(r, "planID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "spiff_list_failed", "failed to list spiffs", reqID)
		return
	}
	api.Success(w, spiffs, reqID)
}

func (h *Handler) handleCreateSpiff(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload plan.Spiff
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.PlanID = chi.URLParam(r, "planID")

	id, err := h.service.CreateSpiff(r.Context(), user.TenantID, payload)
	switch {
	case errors.Is(err, plan.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "plan_not_found", "plan not found", reqID)
	case err != nil:
		api.Fail(w, http.StatusUnprocessableEntity, "spiff_validation_failed", err.Error(), reqID)
	default:
		api.Created(w, map[string]string{"id": id}, reqID)
	}
}
