package interview

import "time"

// Topic is a résumé-derived subject used to pace interview questioning.
// Topics are immutable once derived from the analysis.
type Topic struct {
	Name     string `json:"topic"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// CodeSubmission records one solution submitted through the code editor.
type CodeSubmission struct {
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Transcript entry roles.
const (
	RoleCandidate   = "candidate"
	RoleInterviewer = "interviewer"
	RoleAction      = "action"
)

// TranscriptEntry is one exchange in the interview log. Action entries mark
// non-spoken candidate activity such as code submissions.
type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Params hold the interview settings read from the connection handshake.
type Params struct {
	Persona    string
	Type       string
	Difficulty string
	Duration   int
}

// Session is the server-side state for one résumé-to-report lifecycle. It is
// created by the analyzer, mutated by the single live interview connection,
// and read by the report synthesizer.
type Session struct {
	ID          string
	ResumeText  string
	Analysis    string
	SkillGaps   string
	Topics      []Topic
	Transcript  []TranscriptEntry
	Submissions []CodeSubmission
	Chat        *ChatContext
	Params      Params
	CreatedAt   time.Time
	LastActive  time.Time
}

// AppendTranscript records an entry at the tail of the transcript. Entries
// are never reordered or removed.
func (s *Session) AppendTranscript(role, content string) {
	s.Transcript = append(s.Transcript, TranscriptEntry{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	})
}

// AppendSubmission records a code submission in arrival order. Duplicate
// submissions are kept as distinct entries.
func (s *Session) AppendSubmission(code, language string) {
	s.Submissions = append(s.Submissions, CodeSubmission{
		Code:        code,
		Language:    language,
		SubmittedAt: time.Now().UTC(),
	})
}
