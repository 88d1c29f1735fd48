package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/prepground/mockview/backend/internal/model/interview"
	"github.com/prepground/mockview/backend/internal/service/ai"
	"github.com/prepground/mockview/backend/internal/service/extract"
	"github.com/prepground/mockview/backend/internal/service/session"
)

var (
	ErrUnsupportedFormat = errors.New("only PDF files are supported")
	ErrExtractionFailed  = errors.New("could not extract text from PDF; please ensure the PDF contains readable text")
	ErrNotResume         = errors.New("the uploaded file does not appear to be a resume; please upload a valid resume/CV in PDF format")
)

// minExtractedChars is the smallest number of non-whitespace characters a
// readable résumé can plausibly produce; less than this means the PDF is
// likely image-only.
const minExtractedChars = 10

// Service turns an uploaded résumé into an analyzed, stored session.
type Service struct {
	gateway   ai.Gateway
	extractor extract.TextExtractor
	store     session.Store
}

// NewService wires the analyzer's collaborators.
func NewService(gateway ai.Gateway, extractor extract.TextExtractor, store session.Store) *Service {
	return &Service{gateway: gateway, extractor: extractor, store: store}
}

// Result is the successful analysis outcome returned to the caller.
type Result struct {
	SessionID string
	Analysis  string
}

// Analyze validates, extracts, analyzes, and persists one résumé upload.
// No session is created unless every gate passes.
func (s *Service) Analyze(ctx context.Context, filename string, data []byte) (*Result, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return nil, ErrUnsupportedFormat
	}

	text, err := s.extractor.Extract(ctx, data)
	if err != nil {
		log.Printf("[resume] extraction failed: %v", err)
		return nil, ErrExtractionFailed
	}

	text = extract.Sanitize(text)
	if countNonWhitespace(text) < minExtractedChars {
		return nil, ErrExtractionFailed
	}

	if err := s.validate(ctx, text); err != nil {
		return nil, err
	}

	analysis, err := s.gateway.Complete(ctx, ai.AnalysisPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("resume analysis: %w", err)
	}

	skillGaps, err := s.gateway.Complete(ctx, ai.SkillGapsPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("skill gap analysis: %w", err)
	}

	// The raw analysis text is the source of truth returned to the client;
	// the topic list is a best-effort planning artifact derived from it.
	topics := ParseTopics(analysis)
	if !topics.Parsed {
		log.Printf("[resume] analysis not parseable as JSON, continuing with empty topic plan")
	}

	sess := &interview.Session{
		ID:         uuid.NewString(),
		ResumeText: text,
		Analysis:   analysis,
		SkillGaps:  skillGaps,
		Topics:     topics.Topics,
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	log.Printf("[resume] session %s created with %d planned topics", sess.ID, len(sess.Topics))
	return &Result{SessionID: sess.ID, Analysis: analysis}, nil
}

// validate runs the cheap RESUME/NOT_RESUME classification before spending a
// full analysis call. Anything short of an unambiguous RESUME rejects.
func (s *Service) validate(ctx context.Context, text string) error {
	verdict, err := s.gateway.Complete(ctx, ai.ValidationPrompt(text))
	if err != nil {
		return fmt.Errorf("resume validation: %w", err)
	}

	normalized := strings.ToUpper(strings.TrimSpace(verdict))
	if strings.Contains(normalized, "NOT_RESUME") || !strings.Contains(normalized, "RESUME") {
		return ErrNotResume
	}
	return nil
}

func countNonWhitespace(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}
