package resume

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepground/mockview/backend/internal/service/ai"
	"github.com/prepground/mockview/backend/internal/service/analyzer"
	"github.com/prepground/mockview/backend/pkg/utils"
)

// maxUploadBytes bounds résumé uploads; anything bigger is not a résumé.
const maxUploadBytes = 10 << 20

// Handler exposes the résumé analysis endpoint.
type Handler struct {
	analyzer *analyzer.Service
}

// New creates the résumé handler.
func New(analyzerSvc *analyzer.Service) *Handler {
	return &Handler{analyzer: analyzerSvc}
}

// RegisterRoutes mounts the analysis endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze-resume", h.handleAnalyze)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "resume analysis unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "file upload is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), header.Filename, data)
	if err != nil {
		h.respondAnalyzeError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"session_id": result.SessionID,
		"analysis":   result.Analysis,
	})
}

// respondAnalyzeError maps each failure kind to a distinct, actionable
// message; the boundary never answers with an opaque transport failure.
func (h *Handler) respondAnalyzeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analyzer.ErrUnsupportedFormat):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrExtractionFailed):
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, analyzer.ErrNotResume):
		utils.RespondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":             err.Error(),
			"validation_failed": true,
		})
	case errors.Is(err, ai.ErrTimeout):
		utils.RespondError(w, http.StatusGatewayTimeout, err.Error())
	default:
		log.Printf("[resume] analysis failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "resume analysis failed")
	}
}
