package ai

import (
	"fmt"
	"strings"

	"github.com/prepground/mockview/backend/internal/model/interview"
	"github.com/prepground/mockview/backend/internal/model/persona"
)

// validationExcerptLimit bounds how much résumé text the quick
// RESUME/NOT_RESUME classification sees.
const validationExcerptLimit = 2000

// ValidationPrompt builds the quick classification prompt. The model is
// constrained to answer with exactly one of the two literal tokens.
func ValidationPrompt(resumeText string) string {
	// The limit counts characters, not bytes; a byte slice could split a
	// multi-byte rune in non-ASCII résumés.
	excerpt := resumeText
	if runes := []rune(excerpt); len(runes) > validationExcerptLimit {
		excerpt = string(runes[:validationExcerptLimit])
	}

	return fmt.Sprintf(`Analyze the following document content and determine if it is a RESUME/CV or not.

Document content:
%s

A resume/CV typically contains:
- Personal information (name, contact details)
- Work experience or employment history
- Education background
- Skills or competencies
- Sometimes: projects, certifications, achievements

Respond with ONLY one of these two words:
- "RESUME" if this appears to be a resume or CV
- "NOT_RESUME" if this is some other type of document (research paper, article, report, random text, etc.)`, excerpt)
}

// AnalysisPrompt asks for the structured résumé analysis as a single JSON
// object with fixed keys.
func AnalysisPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert technical interviewer and career coach. Analyze the following resume:
%s

Provide a comprehensive analysis in the following JSON format:
{
    "key_skills": ["skill1", "skill2", ...],
    "experience_level": "Junior/Mid/Senior/Lead",
    "skill_gaps": {
        "missing_technologies": ["tech1", "tech2"],
        "weak_areas": ["area1", "area2"],
        "recommendations": ["recommendation1", "recommendation2"]
    },
    "interview_topics": [
        {"topic": "Topic name based on resume", "priority": "high/medium/low", "category": "technical/behavioral/project"},
        {"topic": "Another topic", "priority": "medium", "category": "technical"}
    ],
    "interview_focus_areas": ["area1", "area2", "area3"],
    "strengths": ["strength1", "strength2"],
    "career_trajectory": "brief assessment of career growth potential"
}

IMPORTANT for interview_topics:
- Extract 5-8 specific topics from the resume that should be covered in an interview
- Topics should include: key technical skills, major projects, work experiences, soft skills
- Assign priority: high (core skills/recent experience), medium (supporting skills), low (nice to explore)
- Ensure topics cover the breadth of the candidate's background

Be specific about skill gaps - identify what modern technologies or practices might be missing.
Return ONLY valid JSON, no markdown or extra text.`, resumeText)
}

// SkillGapsPrompt asks for the free-text top-5 skill gap list kept for the
// final report payload.
func SkillGapsPrompt(resumeText string) string {
	return fmt.Sprintf(`Based on this resume, list the TOP 5 skill gaps that should be addressed:
%s

Return as a simple numbered list. Be specific and actionable.`, resumeText)
}

// SystemPromptSpec holds every input that shapes the interview system
// prompt. Building from an explicit spec keeps each persona/type/flag
// combination testable.
type SystemPromptSpec struct {
	Persona         persona.Persona
	ResumeText      string
	InterviewType   string
	Difficulty      string
	Duration        int
	MinutesPerTopic int
	Topics          []interview.Topic
	IncludeCoding   bool
}

// BuildSystemPrompt assembles the interview system instruction sent as the
// first chat turn.
func BuildSystemPrompt(spec SystemPromptSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are '%s', a senior technical interviewer with the following style: %s\n", spec.Persona.Name, spec.Persona.Style)
	fmt.Fprintf(&b, "The candidate has the following background:\n%s\n\n", spec.ResumeText)
	fmt.Fprintf(&b, "Interview type: %s (technical = coding/system design, behavioral = STAR questions, mixed = both)\n", spec.InterviewType)
	fmt.Fprintf(&b, "Difficulty level: %s (junior = basic concepts, mid = moderate complexity, senior = advanced topics, lead = architecture decisions)\n\n", spec.Difficulty)
	fmt.Fprintf(&b, "Your goal is to conduct a %s-level %s interview.\n", spec.Difficulty, spec.InterviewType)
	b.WriteString("Keep your responses concise (1-3 sentences) to allow for conversation.\n")
	b.WriteString("Wait for their answer before asking the next question.\n")
	b.WriteString("Identify skill gaps based on their responses and resume.\n")

	if len(spec.Topics) > 0 {
		b.WriteString(topicsInstruction(spec.Duration, spec.MinutesPerTopic, spec.Topics))
	}
	if spec.IncludeCoding {
		b.WriteString(codingInstruction(spec.Duration, spec.Difficulty))
	}

	return b.String()
}

func topicsInstruction(duration, minutesPerTopic int, topics []interview.Topic) string {
	var b strings.Builder

	b.WriteString("\nTOPICS TO COVER (from candidate's resume):\n")
	fmt.Fprintf(&b, "You have %d minutes total. Aim to spend ~%d minutes per topic.\n", duration, minutesPerTopic)
	for _, t := range topics {
		category := t.Category
		if category == "" {
			category = "general"
		}
		priority := t.Priority
		if priority == "" {
			priority = "medium"
		}
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", strings.ToUpper(priority), t.Name, category)
	}

	b.WriteString(`
TOPIC COVERAGE STRATEGY:
1. Start with HIGH priority topics first
2. Naturally transition between topics - don't abruptly switch
3. Ask 1-2 questions per topic before moving on
4. If the candidate demonstrates strong knowledge, briefly acknowledge and move to next topic
5. If they struggle, probe a bit deeper but don't get stuck - move on after 2-3 attempts
6. Ensure you cover at least the HIGH and MEDIUM priority topics
7. Keep track mentally of which topics you've covered
8. Near the end of the interview, if you haven't covered important topics, ask about them directly
`)

	return b.String()
}

func codingInstruction(duration int, difficulty string) string {
	return fmt.Sprintf(`
CODING QUESTION REQUIREMENT:
Since this is a %d-minute interview, you MUST ask at least ONE coding problem.
- Ask a coding question appropriate for %s level (e.g., array manipulation, string processing, algorithm design)
- Clearly state the problem, input format, and expected output
- Tell the candidate to use the code editor on the right side of the screen to write their solution
- Tell them to click 'Submit Code' when they are done
- After they submit, you will receive their code and should provide feedback on it
- Evaluate: correctness, code quality, efficiency, and edge case handling
`, duration, difficulty)
}

// Acknowledgment is the fixed model half of the priming preamble.
func Acknowledgment(p persona.Persona) string {
	return fmt.Sprintf("Understood. I am %s. I am ready to interview the candidate.", p.Name)
}

// CodeReviewPrompt embeds a submitted solution verbatim and asks for a short
// critique.
func CodeReviewPrompt(code, language string) string {
	return fmt.Sprintf("The candidate has submitted their code solution:\n\nLanguage: %s\n```%s\n%s\n```\n\nPlease review this code and provide brief feedback on:\n1. Does it look correct for the problem asked?\n2. Code quality and readability\n3. Any suggestions for improvement\n\nKeep your response concise (2-4 sentences).", language, language, code)
}

// ReportSpec carries everything the report prompt grounds its scoring on.
type ReportSpec struct {
	Transcript  []interview.TranscriptEntry
	Topics      []interview.Topic
	Duration    int
	Submissions []interview.CodeSubmission
}

// BuildReportPrompt assembles the final grounding prompt. Scores must rest
// on quoted transcript evidence; résumé topics never discussed are listed as
// "Not Assessed" and not scored; the coding section appears only when at
// least one submission exists.
func BuildReportPrompt(spec ReportSpec) string {
	var b strings.Builder

	b.WriteString("The interview is complete. Generate a Report Card based STRICTLY on the actual conversation below.\n\n")
	b.WriteString("============ ACTUAL INTERVIEW TRANSCRIPT ============\n")
	b.WriteString(transcriptText(spec.Transcript))
	b.WriteString("\n=====================================================\n")

	if len(spec.Topics) > 0 {
		b.WriteString("\n============ TOPICS FROM RESUME (Expected to be covered) ============\n")
		for _, t := range spec.Topics {
			priority := t.Priority
			if priority == "" {
				priority = "medium"
			}
			fmt.Fprintf(&b, "- %s (%s priority)\n", t.Name, priority)
		}
		b.WriteString("======================================================================\n")
	}

	fmt.Fprintf(&b, "\nInterview Duration: %d minutes\n", spec.Duration)

	b.WriteString(`
CRITICAL INSTRUCTIONS - READ CAREFULLY:
1. ONLY evaluate topics and skills that were ACTUALLY DISCUSSED in the transcript above
2. DO NOT mention or score ANY topic that was not explicitly covered in the conversation
3. DO NOT assume knowledge or skills - only assess what the candidate actually demonstrated
4. If a topic wasn't discussed, DO NOT include it in strengths, weaknesses, or recommendations
5. Quote specific responses from the transcript to justify your scores
6. If the interview was short or limited in scope, reflect that honestly in your assessment
7. Compare the "Topics from Resume" list with the actual transcript to identify what was NOT covered

SCORING GUIDELINES (be honest and specific):
- 1-3: Poor (wrong answers, fundamental misunderstandings, couldn't answer)
- 4-5: Below Average (partial knowledge, struggled to explain, major gaps)
- 6-7: Average (correct but basic answers, could go deeper)
- 8-9: Good (strong understanding, clear explanations, good examples)
- 10: Excellent (exceptional depth, went above and beyond)

## INTERVIEW REPORT CARD

### Overall Score: [X.X]/10
(Justify based on SPECIFIC responses from the transcript)

### Topics Actually Covered
List ONLY the topics that were discussed with brief assessment:
- [Topic 1]: [Brief assessment based on actual response]
- [Topic 2]: [Brief assessment based on actual response]
(Only include topics from the actual conversation)

### Technical Assessment
- Demonstrated Proficiency: (Junior/Mid/Senior - based ONLY on actual answers)
- Strengths Shown: (2-3 specific examples with quotes from transcript)
- Weaknesses Identified: (2-3 specific gaps shown in actual responses)
`)

	if len(spec.Submissions) > 0 {
		b.WriteString(codingAssessmentSection(spec.Submissions))
	}

	b.WriteString(`
### Communication Quality
- Clarity: [1-10]/10 (How clearly did they explain in their actual responses?)
- Depth of Answers: [1-10]/10 (Did they provide detailed or superficial answers?)
- Technical Vocabulary: [1-10]/10 (Did they use correct terminology?)

### Key Quotes from Interview
Include 2-3 notable quotes (good or bad) from the candidate's actual responses.

### Recommendations for Improvement
(Base these ONLY on weaknesses actually observed in the interview)
1. [Specific recommendation based on actual gap shown]
2. [Specific recommendation based on actual gap shown]

### Topics NOT Covered (From Resume)
Compare the "Topics from Resume" list above with what was actually discussed.
List any resume topics that were NOT discussed during the interview as "Not Assessed":
- [Topic from resume]: Not Assessed
(This helps identify gaps in the interview coverage - do NOT score these)

Format as clean markdown. Be HONEST and BASE EVERYTHING on the actual transcript above.`)

	return b.String()
}

func codingAssessmentSection(submissions []interview.CodeSubmission) string {
	var b strings.Builder

	b.WriteString(`
### Coding Assessment
The candidate submitted code during the interview. Evaluate ONLY the submitted code:
- Code Correctness: [1-10]/10 (Does the code solve the problem asked?)
- Code Quality: [1-10]/10 (Readability, naming, structure)
- Efficiency: [1-10]/10 (Time/space complexity considerations)
- Edge Cases: [1-10]/10 (Did they handle edge cases?)
- Overall Coding Score: [1-10]/10
(Provide specific feedback on their actual submitted code)
`)

	for i, submission := range submissions {
		fmt.Fprintf(&b, "\nCode Submission %d (%s):\n```%s\n%s\n```\n", i+1, submission.Language, submission.Language, submission.Code)
	}

	return b.String()
}

func transcriptText(entries []interview.TranscriptEntry) string {
	if len(entries) == 0 {
		return "No conversation recorded"
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		switch entry.Role {
		case interview.RoleCandidate:
			lines = append(lines, "User: "+entry.Content)
		case interview.RoleInterviewer:
			lines = append(lines, "AI: "+entry.Content)
		default:
			lines = append(lines, entry.Content)
		}
	}
	return strings.Join(lines, "\n")
}
