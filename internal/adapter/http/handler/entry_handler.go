package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/borrowbook/internal/adapter/http/dto"
	"github.com/iho/borrowbook/internal/adapter/http/middleware"
	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, error)
	UpdateEntry(ctx context.Context, input usecase.UpdateEntryInput) (*domain.Entry, error)
	DeleteEntry(ctx context.Context, id, userID string) error
	ListEntries(ctx context.Context, userID string) ([]*domain.Entry, error)
}

// EntryHandler handles entry-related HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Create records a new borrow or repay entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (use YYYY-MM-DD)", err.Error())
		return
	}

	entry, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create entry", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// List returns the calling user's entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	entries, err := h.entryUC.ListEntries(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Update applies a partial update to one of the user's entries.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(id, user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date (use YYYY-MM-DD)", err.Error())
		return
	}

	entry, err := h.entryUC.UpdateEntry(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Delete removes one of the user's entries.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	if err := h.entryUC.DeleteEntry(r.Context(), id, user.ID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete entry", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
