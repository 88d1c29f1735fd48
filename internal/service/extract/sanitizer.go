package extract

import "regexp"

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+\d{1,2}\s?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// Sanitize redacts emails and phone numbers from extracted résumé text
// before it is sent to any model.
func Sanitize(text string) string {
	text = emailPattern.ReplaceAllString(text, "[EMAIL REDACTED]")
	text = phonePattern.ReplaceAllString(text, "[PHONE REDACTED]")
	return text
}
