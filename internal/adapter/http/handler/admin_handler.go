package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/borrowbook/internal/adapter/http/dto"
	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

// AdminService defines the behavior needed by AdminHandler.
type AdminService interface {
	ListUsersWithEntries(ctx context.Context, limit, offset int) ([]*usecase.UserWithEntries, error)
	Promote(ctx context.Context, userID string) (*domain.User, error)
}

// AdminHandler serves the admin-only user management endpoints.
type AdminHandler struct {
	userUC AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userUC AdminService) *AdminHandler {
	return &AdminHandler{userUC: userUC}
}

// ListUsers returns every user together with their entries.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	users, err := h.userUC.ListUsersWithEntries(r.Context(), limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list users", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UsersWithEntriesFromUseCase(users))
}

// Promote grants the admin role to a user.
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	var req dto.PromoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing user_id", "")
		return
	}

	user, err := h.userUC.Promote(r.Context(), req.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to promote user", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}
