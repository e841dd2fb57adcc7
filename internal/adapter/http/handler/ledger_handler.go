package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/iho/borrowbook/internal/adapter/http/dto"
	"github.com/iho/borrowbook/internal/adapter/http/middleware"
	"github.com/iho/borrowbook/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetOverview(ctx context.Context, userID string) (*usecase.Overview, error)
	GetCounterpartyDetail(ctx context.Context, userID, name string) (*usecase.CounterpartyDetail, error)
}

// LedgerHandler serves the aggregated ledger views.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// Overview returns one summary row per counterparty plus the grand total.
func (h *LedgerHandler) Overview(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	overview, err := h.ledgerUC.GetOverview(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build overview", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OverviewFromUseCase(overview))
}

// CounterpartyDetail returns the chronological balance history for one person.
func (h *LedgerHandler) CounterpartyDetail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing counterparty name", "")
		return
	}

	detail, err := h.ledgerUC.GetCounterpartyDetail(r.Context(), user.ID, name)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build detail", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CounterpartyDetailFromUseCase(detail))
}
