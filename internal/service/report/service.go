package report

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/prepground/mockview/backend/internal/service/ai"
	"github.com/prepground/mockview/backend/internal/service/session"
)

var ErrNotStarted = errors.New("interview was never started for this session")

// Service synthesizes the post-interview report card from the accumulated
// transcript. It reads session state but never mutates it.
type Service struct {
	gateway ai.Gateway
	store   session.Store
}

// NewService wires the report synthesizer.
func NewService(gateway ai.Gateway, store session.Store) *Service {
	return &Service{gateway: gateway, store: store}
}

// Card is the finalized interview outcome.
type Card struct {
	Report    string `json:"report"`
	SkillGaps string `json:"skill_gaps"`
}

// Finalize sends the grounding prompt as one more turn on the session's own
// chat context, preserving the full conversational memory, and returns the
// model's report verbatim plus the stored skill-gap text.
//
// The session claim serializes this with the websocket: transcript and
// submissions have a single writer at a time, so a report can never read
// them mid-append. A session with a live connection answers ErrConnected.
func (s *Service) Finalize(ctx context.Context, sessionID string) (*Card, error) {
	sess, err := s.store.Claim(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.store.Release(ctx, sessionID)
	if sess.Chat == nil {
		return nil, ErrNotStarted
	}

	prompt := ai.BuildReportPrompt(ai.ReportSpec{
		Transcript:  sess.Transcript,
		Topics:      sess.Topics,
		Duration:    sess.Params.Duration,
		Submissions: sess.Submissions,
	})

	reportText, err := s.gateway.Send(ctx, sess.Chat, prompt)
	if err != nil {
		return nil, fmt.Errorf("report generation: %w", err)
	}

	skillGaps := sess.SkillGaps
	if skillGaps == "" {
		skillGaps = "No skill gap data available"
	}

	log.Printf("[report] generated report for session %s (%d transcript entries, %d submissions)",
		sess.ID, len(sess.Transcript), len(sess.Submissions))
	return &Card{Report: reportText, SkillGaps: skillGaps}, nil
}
