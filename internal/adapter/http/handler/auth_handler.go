package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/borrowbook/internal/adapter/http/dto"
	"github.com/iho/borrowbook/internal/adapter/http/middleware"
	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/infrastructure/auth"
	"github.com/iho/borrowbook/internal/infrastructure/metrics"
	"github.com/iho/borrowbook/internal/usecase"
)

const refreshTokenCookie = "refresh_token"

// UserService defines the behavior needed by AuthHandler.
type UserService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// AuthHandler handles registration, login, logout and token refresh.
type AuthHandler struct {
	userUC     UserService
	jwtManager *auth.JWTManager
	sessions   usecase.SessionStore
	metrics    *metrics.Metrics

	refreshTTL         time.Duration
	refreshTTLRemember time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userUC UserService,
	jwtManager *auth.JWTManager,
	sessions usecase.SessionStore,
	refreshTTL, refreshTTLRemember time.Duration,
	m *metrics.Metrics,
) *AuthHandler {
	return &AuthHandler{
		userUC:             userUC,
		jwtManager:         jwtManager,
		sessions:           sessions,
		metrics:            m,
		refreshTTL:         refreshTTL,
		refreshTTLRemember: refreshTTLRemember,
	}
}

// Register handles user signup.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "registration failed", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.Signups.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Login verifies credentials, issues a JWT in the access_token cookie and a
// refresh token in the refresh_token cookie. With remember set, the refresh
// session lives longer.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.userUC.Authenticate(r.Context(), usecase.AuthenticateInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.countAuthAttempt("failure")
		writeError(w, mapDomainError(err), "invalid credentials", "")
		return
	}
	h.countAuthAttempt("success")

	accessToken, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	ttl := h.refreshTTL
	if req.Remember {
		ttl = h.refreshTTLRemember
	}

	refreshToken, err := auth.NewRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}

	session := domain.Session{UserID: user.ID, Remember: req.Remember}
	if err := h.sessions.Save(r.Context(), refreshToken, session, ttl); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ActiveSessions.Inc()
	}

	h.setAuthCookies(w, accessToken, refreshToken, ttl)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		User:        dto.UserFromDomain(user),
		AccessToken: accessToken,
	})
}

// Logout revokes the refresh session and clears both auth cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		if _, err := h.sessions.Get(r.Context(), cookie.Value); err == nil && h.metrics != nil {
			h.metrics.ActiveSessions.Dec()
		}
		_ = h.sessions.Delete(r.Context(), cookie.Value)
	}

	h.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token is rotated: the old session is revoked and a new one saved
// with the same TTL class it was created with.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshTokenFromRequest(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "missing refresh token", "")
		return
	}

	session, err := h.sessions.Get(r.Context(), token)
	if err != nil {
		writeError(w, mapDomainError(err), "invalid refresh token", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), "unknown user", "")
		return
	}

	accessToken, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate token", err.Error())
		return
	}

	newRefresh, err := auth.NewRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rotate session", err.Error())
		return
	}

	ttl := h.refreshTTL
	if session.Remember {
		ttl = h.refreshTTLRemember
	}

	if err := h.sessions.Save(r.Context(), newRefresh, session, ttl); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rotate session", err.Error())
		return
	}
	_ = h.sessions.Delete(r.Context(), token)

	h.setAuthCookies(w, accessToken, newRefresh, ttl)

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		User:        dto.UserFromDomain(user),
		AccessToken: accessToken,
	})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	user, err := h.userUC.GetUser(r.Context(), claims.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load user", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

func (h *AuthHandler) countAuthAttempt(status string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(status).Inc()
	}
}

func (h *AuthHandler) refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(refreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		return req.RefreshToken
	}

	return ""
}

func (h *AuthHandler) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string, refreshTTL time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(h.jwtManager.TokenDuration().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    refreshToken,
		Path:     "/api/v1/auth",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/api/v1/auth",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
