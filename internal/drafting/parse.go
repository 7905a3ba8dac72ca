package drafting

import (
	"regexp"
	"strings"
)

var (
	subjectPattern      = regexp.MustCompile(`(?is)SUBJECT:\s*(.+?)(?:\n|BODY:)`)
	bodyPattern         = regexp.MustCompile(`(?is)BODY:\s*(.+)`)
	subjectLabelPattern = regexp.MustCompile(`(?i)^SUBJECT:\s*`)
)

// ParseEmailResponse splits a model reply into subject and body. It expects
// the SUBJECT:/BODY: format the prompt asks for and falls back to treating
// the first line as the subject.
func ParseEmailResponse(response string) (subject, body string) {
	subjectMatch := subjectPattern.FindStringSubmatch(response)
	bodyMatch := bodyPattern.FindStringSubmatch(response)
	if subjectMatch != nil && bodyMatch != nil {
		return strings.TrimSpace(subjectMatch[1]), strings.TrimSpace(bodyMatch[1])
	}

	lines := strings.Split(strings.TrimSpace(response), "\n")
	subject = strings.TrimSpace(subjectLabelPattern.ReplaceAllString(lines[0], ""))
	body = strings.TrimSpace(strings.Join(lines[1:], "\n"))

	if subject == "" {
		subject = "Following up"
	}
	if body == "" {
		body = response
	}
	return subject, body
}
