package ai

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/prepground/mockview/backend/internal/model/interview"
	"github.com/prepground/mockview/backend/internal/model/persona"
)

func testPersona() persona.Persona {
	return persona.Persona{Tag: "balanced", Name: "Shreya", Style: "professional and balanced"}
}

func TestValidationPromptTruncatesExcerpt(t *testing.T) {
	long := strings.Repeat("x", validationExcerptLimit+500)

	prompt := ValidationPrompt(long)
	if strings.Contains(prompt, long) {
		t.Fatal("excerpt must be truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", validationExcerptLimit)) {
		t.Fatal("truncated excerpt missing")
	}
	if !strings.Contains(prompt, `"NOT_RESUME"`) {
		t.Fatal("classification tokens missing")
	}
}

func TestValidationPromptTruncatesByRunes(t *testing.T) {
	long := strings.Repeat("é", validationExcerptLimit+10)

	prompt := ValidationPrompt(long)
	if !utf8.ValidString(prompt) {
		t.Fatal("truncation must not split a multi-byte rune")
	}
	if got := strings.Count(prompt, "é"); got != validationExcerptLimit {
		t.Fatalf("excerpt carries %d characters, want %d", got, validationExcerptLimit)
	}
}

func TestBuildSystemPromptTopicLines(t *testing.T) {
	prompt := BuildSystemPrompt(SystemPromptSpec{
		Persona:         testPersona(),
		ResumeText:      "resume body",
		InterviewType:   "mixed",
		Difficulty:      "mid",
		Duration:        15,
		MinutesPerTopic: 3,
		Topics: []interview.Topic{
			{Name: "Distributed caching", Priority: "high", Category: "technical"},
			{Name: "Team conflict", Priority: "", Category: ""},
		},
	})

	if !strings.Contains(prompt, "You are 'Shreya'") {
		t.Fatal("persona name missing")
	}
	if !strings.Contains(prompt, "- [HIGH] Distributed caching (technical)") {
		t.Fatalf("tagged topic line missing:\n%s", prompt)
	}
	if !strings.Contains(prompt, "- [MEDIUM] Team conflict (general)") {
		t.Fatal("blank priority/category must fall back to medium/general")
	}
	if !strings.Contains(prompt, "~3 minutes per topic") {
		t.Fatal("pacing guidance missing")
	}
}

func TestBuildSystemPromptCodingSection(t *testing.T) {
	spec := SystemPromptSpec{
		Persona:       testPersona(),
		InterviewType: "technical",
		Difficulty:    "senior",
		Duration:      20,
		IncludeCoding: true,
	}

	if !strings.Contains(BuildSystemPrompt(spec), "CODING QUESTION REQUIREMENT") {
		t.Fatal("coding section missing when requested")
	}

	spec.IncludeCoding = false
	if strings.Contains(BuildSystemPrompt(spec), "CODING QUESTION REQUIREMENT") {
		t.Fatal("coding section must be absent when not requested")
	}
}

func TestBuildSystemPromptOmitsTopicsWhenNone(t *testing.T) {
	prompt := BuildSystemPrompt(SystemPromptSpec{
		Persona:       testPersona(),
		InterviewType: "behavioral",
		Difficulty:    "junior",
		Duration:      15,
	})

	if strings.Contains(prompt, "TOPICS TO COVER") {
		t.Fatal("topic section must be absent without derived topics")
	}
}

func TestBuildReportPromptCodingConditional(t *testing.T) {
	spec := ReportSpec{
		Transcript: []interview.TranscriptEntry{
			{Role: interview.RoleCandidate, Content: "I used Redis for caching"},
			{Role: interview.RoleInterviewer, Content: "Why Redis?"},
		},
		Topics:   []interview.Topic{{Name: "Caching", Priority: "high"}},
		Duration: 15,
	}

	prompt := BuildReportPrompt(spec)
	if strings.Contains(prompt, "### Coding Assessment") {
		t.Fatal("coding assessment must be absent without submissions")
	}
	if !strings.Contains(prompt, "User: I used Redis for caching") {
		t.Fatal("transcript lines missing")
	}
	if !strings.Contains(prompt, "AI: Why Redis?") {
		t.Fatal("interviewer lines missing")
	}
	if !strings.Contains(prompt, "- Caching (high priority)") {
		t.Fatal("resume topic list missing")
	}

	spec.Submissions = []interview.CodeSubmission{{Code: "def f(): pass", Language: "python"}}
	prompt = BuildReportPrompt(spec)
	if !strings.Contains(prompt, "### Coding Assessment") {
		t.Fatal("coding assessment missing with submissions")
	}
	if !strings.Contains(prompt, "Code Submission 1 (python)") {
		t.Fatal("submission listing missing")
	}
}

func TestTranscriptTextEmpty(t *testing.T) {
	if got := transcriptText(nil); got != "No conversation recorded" {
		t.Fatalf("unexpected empty transcript text: %q", got)
	}
}

func TestTranscriptTextActionEntriesVerbatim(t *testing.T) {
	got := transcriptText([]interview.TranscriptEntry{
		{Role: interview.RoleAction, Content: "User submitted code (go):\nfunc main() {}"},
	})
	if strings.HasPrefix(got, "User: ") || strings.HasPrefix(got, "AI: ") {
		t.Fatalf("action entries must carry no speaker prefix: %q", got)
	}
}

func TestAcknowledgment(t *testing.T) {
	got := Acknowledgment(testPersona())
	if got != "Understood. I am Shreya. I am ready to interview the candidate." {
		t.Fatalf("unexpected acknowledgment: %q", got)
	}
}
