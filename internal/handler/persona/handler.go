package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepground/mockview/backend/internal/model/persona"
	"github.com/prepground/mockview/backend/pkg/utils"
)

// Handler lists the available interviewer personas so the client can offer
// them as interview settings before connecting.
type Handler struct {
	personas persona.Store
}

// New creates the persona handler.
func New(personas persona.Store) *Handler {
	return &Handler{personas: personas}
}

// RegisterRoutes mounts the persona listing endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/personas", h.handleListPersonas)
}

func (h *Handler) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.personas.List())
}
