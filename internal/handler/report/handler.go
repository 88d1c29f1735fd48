package report

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepground/mockview/backend/internal/service/ai"
	reportservice "github.com/prepground/mockview/backend/internal/service/report"
	"github.com/prepground/mockview/backend/internal/service/session"
	"github.com/prepground/mockview/backend/pkg/utils"
)

// Handler exposes the end-of-interview report endpoint.
type Handler struct {
	svc *reportservice.Service
}

// New creates the report handler.
func New(svc *reportservice.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the report endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/end-interview/{sessionID}", h.handleEndInterview)
}

func (h *Handler) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "report generation unavailable")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	card, err := h.svc.Finalize(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, session.ErrConnected):
			utils.RespondError(w, http.StatusConflict, "interview is still in progress")
		case errors.Is(err, reportservice.ErrNotStarted):
			utils.RespondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ai.ErrTimeout):
			utils.RespondError(w, http.StatusGatewayTimeout, err.Error())
		default:
			log.Printf("[report] finalize failed session=%s: %v", sessionID, err)
			utils.RespondError(w, http.StatusBadGateway, "report generation failed")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, card)
}
