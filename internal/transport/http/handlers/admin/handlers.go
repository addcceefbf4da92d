package adminhandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"salescomp/internal/domain/auth"
	"salescomp/internal/platform/metrics"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
	"salescomp/internal/transport/http/shared"
)

type Handler struct {
	DB        *pgxpool.Pool
	collector *metrics.Collector
	perms     middleware.PermissionStore
}

func NewHandler(db *pgxpool.Pool, collector *metrics.Collector, perms middleware.PermissionStore) *Handler {
	return &Handler{DB: db, collector: collector, perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.perms)).Get("/metrics", h.handleMetrics)
		r.With(middleware.RequirePermission(auth.PermSystemAdmin, h.perms)).Get("/jobs", h.handleListJobs)
	})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	api.Success(w, h.collector.Snapshot(), reqID)
}

func (h *Handler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	page := shared.ParsePagination(r, 50, 200)
	rows, err := h.DB.Query(r.Context(), `
    SELECT id, job_type, status, COALESCE(details_json::text, '{}'), started_at, completed_at
    FROM job_runs
    WHERE tenant_id = $1
    ORDER BY started_at DESC
    LIMIT $2 OFFSET $3
  `, user.TenantID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "job_list_failed", "failed to list jobs", reqID)
		return
	}
	defer rows.Close()

	type jobRun struct {
		ID          string     `json:"id"`
		JobType     string     `json:"jobType"`
		Status      string     `json:"status"`
		Details     string     `json:"details"`
		StartedAt   time.Time  `json:"startedAt"`
		CompletedAt *time.Time `json:"completedAt,omitempty"`
	}
	var out []jobRun
	for rows.Next() {
		var item jobRun
		if err := rows.Scan(&item.ID, &item.JobType, &item.Status, &item.Details, &item.StartedAt, &item.CompletedAt); err != nil {
			api.Fail(w, http.StatusInternalServerError, "job_list_failed", "failed to list jobs", reqID)
			return
		}
		out = append(out, item)
	}
	api.Success(w, out, reqID)
}
