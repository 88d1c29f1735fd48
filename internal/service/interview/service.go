package interview

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/prepground/mockview/backend/internal/model/interview"
	"github.com/prepground/mockview/backend/internal/model/persona"
	"github.com/prepground/mockview/backend/internal/service/ai"
)

// Handshake defaults and pacing bounds.
const (
	DefaultPersona    = "balanced"
	DefaultType       = "mixed"
	DefaultDifficulty = "mid"
	DefaultDuration   = 15

	defaultTopicCount  = 5
	minMinutesPerTopic = 2

	// Interviews at least this long, of a coding-capable type, must include
	// a coding question.
	codingMinDuration = 10
)

var ErrChatNotStarted = errors.New("interview chat not initialized")

// Service drives one interview's conversational exchange: persona and prompt
// setup, chat turns, and transcript accumulation. All methods assume the
// caller holds the session's single live connection.
type Service struct {
	gateway  ai.Gateway
	personas persona.Store
}

// NewService wires the orchestrator's collaborators.
func NewService(gateway ai.Gateway, personas persona.Store) *Service {
	return &Service{gateway: gateway, personas: personas}
}

// ParseParams reads interview settings from handshake query parameters,
// applying defaults for anything absent. A non-numeric or non-positive
// duration falls back to the default the same way unknown tags do.
func ParseParams(query url.Values) interview.Params {
	params := interview.Params{
		Persona:    strings.TrimSpace(query.Get("persona")),
		Type:       strings.TrimSpace(query.Get("type")),
		Difficulty: strings.TrimSpace(query.Get("difficulty")),
		Duration:   DefaultDuration,
	}

	if params.Persona == "" {
		params.Persona = DefaultPersona
	}
	if params.Type == "" {
		params.Type = DefaultType
	}
	if params.Difficulty == "" {
		params.Difficulty = DefaultDifficulty
	}

	if raw := strings.TrimSpace(query.Get("duration")); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			params.Duration = minutes
		}
	}

	return params
}

// MinutesPerTopic computes the advisory per-topic time budget. It is prompt
// guidance only; nothing measures wall-clock time against it.
func MinutesPerTopic(duration, topicCount int) int {
	if topicCount <= 0 {
		topicCount = defaultTopicCount
	}

	minutes := duration / topicCount
	if minutes < minMinutesPerTopic {
		minutes = minMinutesPerTopic
	}
	return minutes
}

// Begin resolves the persona, records the interview parameters on the
// session, and seeds the chat context with the priming preamble. A session
// whose chat is already initialized keeps it untouched.
func (s *Service) Begin(sess *interview.Session, params interview.Params) persona.Persona {
	p := s.personas.Resolve(params.Persona)
	sess.Params = params

	if sess.Chat != nil {
		return p
	}

	spec := ai.SystemPromptSpec{
		Persona:         p,
		ResumeText:      sess.ResumeText,
		InterviewType:   params.Type,
		Difficulty:      params.Difficulty,
		Duration:        params.Duration,
		MinutesPerTopic: MinutesPerTopic(params.Duration, len(sess.Topics)),
		Topics:          sess.Topics,
		IncludeCoding:   includeCoding(params),
	}

	sess.Chat = s.gateway.StartChat(ai.BuildSystemPrompt(spec), ai.Acknowledgment(p))
	return p
}

// HandleTranscript treats content as the candidate's spoken answer: it is
// appended to the transcript, sent as the next chat turn, and the reply is
// recorded and returned for fan-out.
func (s *Service) HandleTranscript(ctx context.Context, sess *interview.Session, content string) (string, error) {
	if sess.Chat == nil {
		return "", ErrChatNotStarted
	}

	sess.AppendTranscript(interview.RoleCandidate, content)

	reply, err := s.gateway.Send(ctx, sess.Chat, content)
	if err != nil {
		return "", fmt.Errorf("interview turn: %w", err)
	}

	sess.AppendTranscript(interview.RoleInterviewer, reply)
	return reply, nil
}

// HandleCode records a code submission and asks the interviewer for a short
// critique. Repeat submissions are kept as distinct entries in order.
func (s *Service) HandleCode(ctx context.Context, sess *interview.Session, code, language string) (string, error) {
	if sess.Chat == nil {
		return "", ErrChatNotStarted
	}
	if language == "" {
		language = "unknown"
	}

	sess.AppendSubmission(code, language)
	sess.AppendTranscript(interview.RoleAction, fmt.Sprintf("User submitted code (%s):\n%s", language, code))

	reply, err := s.gateway.Send(ctx, sess.Chat, ai.CodeReviewPrompt(code, language))
	if err != nil {
		return "", fmt.Errorf("code review turn: %w", err)
	}

	sess.AppendTranscript(interview.RoleInterviewer, reply)
	return reply, nil
}

func includeCoding(params interview.Params) bool {
	if params.Duration < codingMinDuration {
		return false
	}
	return params.Type == "technical" || params.Type == "mixed"
}
