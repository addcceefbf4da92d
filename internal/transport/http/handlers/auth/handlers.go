package authhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"salescomp/internal/domain/auth"
	"salescomp/internal/transport/http/api"
	"salescomp/internal/transport/http/middleware"
)

type Handler struct {
	store      *auth.Store
	jwtSecret  string
	sessionTTL time.Duration
}

func NewHandler(db *pgxpool.Pool, jwtSecret string, sessionTTL time.Duration) *Handler {
	return &Handler{store: auth.NewStore(db), jwtSecret: jwtSecret, sessionTTL: sessionTTL}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "email and password are required", reqID)
		return
	}

	user, err := h.store.FindActiveUserByEmail(r.Context(), payload.Email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}
	if err := auth.CheckPassword(user.Password, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", reqID)
		return
	}

	sessionID := uuid.NewString()
	token, err := auth.GenerateToken(h.jwtSecret, auth.Claims{
		UserID:    user.ID,
		TenantID:  user.TenantID,
		RoleID:    user.RoleID,
		RoleName:  user.RoleName,
		SessionID: sessionID,
	}, h.sessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_failed", "failed to issue token", reqID)
		return
	}

	if err := h.store.CreateSession(r.Context(), user.ID, auth.HashToken(token), time.Now().Add(h.sessionTTL)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_failed", "failed to create session", reqID)
		return
	}
	if err := h.store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		api.Fail(w, http.StatusInternalServerError, "session_failed", "failed to record login", reqID)
		return
	}

	api.Success(w, map[string]any{
		"token": token,
		"role":  user.RoleName,
	}, reqID)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 {
		_ = h.store.RevokeSession(r.Context(), user.UserID, auth.HashToken(parts[1]))
	}
	api.Success(w, map[string]string{"status": "logged_out"}, reqID)
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", reqID)
		return
	}
	api.Success(w, map[string]string{
		"userId":   user.UserID,
		"tenantId": user.TenantID,
		"role":     user.RoleName,
	}, reqID)
}
