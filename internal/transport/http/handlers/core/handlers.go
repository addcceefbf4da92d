package corehandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"salescomp/internal/domain/auth"
	"salescomp/internal/domain/core"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
	"salescomp/internal/transport/http/shared"
)

type Handler struct {
	service *core.Service
	perms   middleware.PermissionStore
}

func NewHandler(service *core.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{service: service, perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.perms)).Get("/{employeeID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.perms)).Put("/{employeeID}", h.handleUpdate)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.perms)).Post("/{employeeID}/departure", h.handleDeparture)
		r.With(middleware.RequirePermission(auth.PermEmployeesWrite, h.perms)).Put("/{employeeID}/targets", h.handleSetTarget)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	activeOnly := r.URL.Query().Get("status") == "active"
	employees, err := h.service.ListEmployees(r.Context(), user.TenantID, activeOnly)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", reqID)
		return
	}
	api.Success(w, employees, reqID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	emp, err := h.service.GetEmployee(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"))
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", reqID)
		return
	}
	api.Success(w, emp, reqID)
}

type employeePayload struct {
	EmployeeNumber string   `json:"employeeNumber"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email"`
	Region         string   `json:"region"`
	Currency       string   `json:"currency"`
	OTEUSD         *float64 `json:"oteUsd"`
	VariablePayPct float64  `json:"variablePayPct"`
	BankAccount    string   `json:"bankAccount"`
	StartDate      string   `json:"startDate"`
	Status         string   `json:"status"`
}

func (p employeePayload) toModel(v *shared.Validator) core.Employee {
	v.Required("firstName", p.FirstName, "first name is required")
	v.Required("lastName", p.LastName, "last name is required")
	v.Required("email", p.Email, "email is required")
	if p.VariablePayPct < 0 || p.VariablePayPct > 100 {
		v.Add("variablePayPct", "must be between 0 and 100")
	}

	emp := core.Employee{
		EmployeeNumber: p.EmployeeNumber,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Email:          p.Email,
		Region:         p.Region,
		Currency:       p.Currency,
		OTEUSD:         p.OTEUSD,
		VariablePayPct: p.VariablePayPct,
		BankAccount:    p.BankAccount,
		Status:         p.Status,
	}
	if p.StartDate != "" {
		if start, ok := v.Date("startDate", p.StartDate); ok {
			emp.StartDate = &start
		}
	}
	return emp
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	emp := payload.toModel(v)
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.service.CreateEmployee(r.Context(), user.TenantID, emp)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", reqID)
		return
	}
	api.Created(w, map[string]string{"id": id}, reqID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	emp := payload.toModel(v)
	if v.Reject(w, reqID) {
		return
	}

	err := h.service.UpdateEmployee(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), emp)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", reqID)
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, reqID)
}

func (h *Handler) handleDeparture(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		DepartureDate string `json:"departureDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	departure, _ := v.Date("departureDate", payload.DepartureDate)
	if v.Reject(w, reqID) {
		return
	}

	err := h.service.MarkDeparted(r.Context(), user.TenantID, chi.URLParam(r, "employeeID"), departure)
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_departure_failed", "failed to record departure", reqID)
		return
	}
	api.Success(w, map[string]any{"status": "departed", "departureDate": departure.Format(time.DateOnly)}, reqID)
}

func (h *Handler) handleSetTarget(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		PlanID             string  `json:"planId"`
		PlanYear           int     `json:"planYear"`
		TargetUSD          float64 `json:"targetUsd"`
		BonusAllocationUSD float64 `json:"bonusAllocationUsd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("planId", payload.PlanID, "plan id is required")
	if payload.PlanYear < 2000 {
		v.Add("planYear", "must be a four digit year")
	}
	v.Positive("targetUsd", payload.TargetUSD, "target must be positive")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.service.SetTarget(r.Context(), user.TenantID, core.Target{
		EmployeeID:         chi.URLParam(r, "employeeID"),
		PlanID:             payload.PlanID,
		PlanYear:           payload.PlanYear,
		TargetUSD:          payload.TargetUSD,
		BonusAllocationUSD: payload.BonusAllocationUSD,
	})
	if errors.Is(err, core.ErrEmployeeNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "target_set_failed", "failed to set target", reqID)
		return
	}
	api.Success(w, map[string]string{"id": id}, reqID)
}
