package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	interviewHandler "github.com/prepground/mockview/backend/internal/handler/interview"
	personaHandler "github.com/prepground/mockview/backend/internal/handler/persona"
	reportHandler "github.com/prepground/mockview/backend/internal/handler/report"
	resumeHandler "github.com/prepground/mockview/backend/internal/handler/resume"
	middlewarePkg "github.com/prepground/mockview/backend/internal/middleware"
	personaModel "github.com/prepground/mockview/backend/internal/model/persona"
	"github.com/prepground/mockview/backend/internal/service/analyzer"
	interviewservice "github.com/prepground/mockview/backend/internal/service/interview"
	reportservice "github.com/prepground/mockview/backend/internal/service/report"
	"github.com/prepground/mockview/backend/internal/service/session"
	"github.com/prepground/mockview/backend/internal/service/speech"
	"github.com/prepground/mockview/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. Nil services leave their
// endpoints mounted but answering "unavailable", so a partially configured
// deployment still reports clearly instead of 404ing.
func NewRouter(
	store session.Store,
	personas personaModel.Store,
	analyzerSvc *analyzer.Service,
	interviewSvc *interviewservice.Service,
	reportSvc *reportservice.Service,
	synth speech.Synthesizer,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "mockview",
		})
	})

	personaHandler.New(personas).RegisterRoutes(r)
	resumeHandler.New(analyzerSvc).RegisterRoutes(r)
	reportHandler.New(reportSvc).RegisterRoutes(r)

	if interviewSvc != nil {
		interviewHandler.New(store, interviewSvc, synth).RegisterRoutes(r)
	} else {
		r.Get("/ws/interview/{sessionID}", func(w http.ResponseWriter, _ *http.Request) {
			utils.RespondError(w, http.StatusNotImplemented, "interview websocket not available")
		})
	}

	return r
}
