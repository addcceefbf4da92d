package fxhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"salescomp/internal/domain/auth"
	"salescomp/internal/domain/fx"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
	"salescomp/internal/transport/http/shared"
)

type Handler struct {
	service *fx.Service
	perms   middleware.PermissionStore
}

func NewHandler(service *fx.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{service: service, perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/fx", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermFxRead, h.perms)).Get("/rates", h.handleList)
		r.With(middleware.RequirePermission(auth.PermFxWrite, h.perms)).Put("/rates", h.handleSet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	v := shared.NewValidator()
	period, _ := v.Period("period", r.URL.Query().Get("period"))
	if v.Reject(w, reqID) {
		return
	}
	rates, err := h.service.List(r.Context(), user.TenantID, period)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "fx_list_failed", "failed to list rates", reqID)
		return
	}
	api.Success(w, rates, reqID)
}

func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	var payload struct {
		Currency  string  `json:"currency"`
		Period    string  `json:"period"`
		RateToUSD float64 `json:"rateToUsd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	v := shared.NewValidator()
	v.Required("currency", payload.Currency, "currency is required")
	period, _ := v.Period("period", payload.Period)
	v.Positive("rateToUsd", payload.RateToUSD, "rate must be positive")
	if v.Reject(w, reqID) {
		return
	}

	id, err := h.service.SetRate(r.Context(), user.TenantID, fx.Rate{
		Currency:  payload.Currency,
		Period:    period,
		RateToUSD: payload.RateToUSD,
	})
	if errors.Is(err, fx.ErrBadRate) {
		api.Fail(w, http.StatusBadRequest, "invalid_rate", "rate must be positive", reqID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "fx_set_failed", "failed to store rate", reqID)
		return
	}
	api.Success(w, map[string]string{"id": id}, reqID)
}
