package drafting

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"outreach_backend/internal/enrichment"
	"outreach_backend/internal/products/repository"
)

const hookSystemPrompt = "You analyze company research for cold outreach and respond with strict JSON only."

// Hook is the single personalization angle injected into the email prompt.
type Hook struct {
	Hook       string `json:"hook"`
	Angle      string `json:"angle"`
	ProofPoint string `json:"proofPoint"`
}

// fallbackHook is used when the model's hook JSON cannot be parsed. A bland
// hook beats a failed job.
func fallbackHook(painPoints []string) Hook {
	angle := "efficiency"
	if len(painPoints) > 0 {
		angle = painPoints[0]
	}
	return Hook{
		Hook:       "Based on your company's work",
		Angle:      angle,
		ProofPoint: "your recent activity",
	}
}

// recipient identifies who the email is for.
type recipient struct {
	Name        string
	Title       string
	CompanyName string
	Email       string
}

func buildHookPrompt(summary string, product repository.Product, contact recipient) string {
	return fmt.Sprintf(`Analyze this research about %s and pick the single most compelling personalization angle for a cold email to %s (%s).

**Research:**
%s

**Problems we solve:**
%s

Respond with ONLY a JSON object, no other text:
{"hook": "the specific fact or event to open with", "angle": "the problem it connects to", "proofPoint": "the evidence from the research"}`,
		contact.CompanyName, contact.Name, contact.Title, summary, strings.Join(product.PainPoints, ", "))
}

// parseHook pulls the JSON object out of the model reply, tolerating fences
// and surrounding prose.
func parseHook(response string, painPoints []string) Hook {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return fallbackHook(painPoints)
	}
	var hook Hook
	if err := json.Unmarshal([]byte(response[start:end+1]), &hook); err != nil || hook.Hook == "" {
		return fallbackHook(painPoints)
	}
	return hook
}

const maxAntiPatterns = 8

func buildStructuredPrompt(product repository.Product, contact recipient, summary string, hook Hook, example *repository.FewShot, templatePrompt *string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Write a cold email for the following:

**Recipient:**
- Name: %s
- Title: %s
- Company: %s
- Email: %s

**Research on their company:**
%s

**What I'm reaching out about:**
- Product: %s
- Description: %s
- Key value props: %s
- Target audience: %s

**Use this structure:**
- HOOK: open with this specific angle: %s (evidence: %s)
- BRIDGE: connect it to the problem of %s
- VALUE: one concrete way the product helps, no feature list
- CTA: one low-friction question
`,
		contact.Name, contact.Title, contact.CompanyName, contact.Email,
		summary,
		product.Name, product.Description, strings.Join(product.ValueProps, ", "), product.TargetAudience,
		hook.Hook, hook.ProofPoint, hook.Angle)

	antiPatterns := product.AntiPatterns
	if len(antiPatterns) > maxAntiPatterns {
		antiPatterns = antiPatterns[:maxAntiPatterns]
	}
	if len(antiPatterns) > 0 {
		b.WriteString("\n**Never use these phrases:**\n")
		for _, phrase := range antiPatterns {
			fmt.Fprintf(&b, "- %s\n", phrase)
		}
	}

	if example != nil {
		fmt.Fprintf(&b, `
**Example of the tone to match (%s):**
SUBJECT: %s
BODY:
%s
`, example.Context, example.Subject, example.Body)
	}

	if templatePrompt != nil && *templatePrompt != "" {
		fmt.Fprintf(&b, "\n**Additional context:** %s\n", *templatePrompt)
	}

	b.WriteString(`
Write the email with a subject line. Be specific about their company/situation based on the research. Make the connection between their needs and what I offer feel natural, not forced.

Format your response as:
SUBJECT: [subject line]
BODY:
[email body]`)

	return b.String()
}

func buildRevisionPrompt(subject, body, feedback, contactName, companyName, productName string) string {
	return fmt.Sprintf(`Here's a cold email draft that needs revision:

SUBJECT: %s
BODY:
%s

---

**Feedback to incorporate:** %s

**Context:**
- Recipient: %s at %s
- Product: %s

Please revise the email based on the feedback. Keep the same format:
SUBJECT: [subject line]
BODY:
[email body]`, subject, body, feedback, contactName, companyName, productName)
}

func buildFreshDraftPrompt(product repository.Product, contact recipient, summary string, templatePrompt *string) string {
	extra := ""
	if templatePrompt != nil && *templatePrompt != "" {
		extra = fmt.Sprintf("**Additional context:** %s\n\n", *templatePrompt)
	}
	return fmt.Sprintf(`Write a NEW cold email (different from any previous version) for:

**Recipient:**
- Name: %s
- Title: %s
- Company: %s

**Research:**
%s

**Product:** %s
- %s
- Value props: %s

%sFormat:
SUBJECT: [subject line]
BODY:
[email body]`,
		contact.Name, contact.Title, contact.CompanyName,
		summary,
		product.Name, product.Description, strings.Join(product.ValueProps, ", "),
		extra)
}

const noResearchSummary = "No research data available."

// buildSummary condenses the enrichment blob into prompt-sized research
// notes, preferring each result's summary, then highlights, then a text cut.
func buildSummary(enrichmentData []byte) string {
	if len(enrichmentData) == 0 {
		return noResearchSummary
	}
	var data enrichment.Data
	if err := json.Unmarshal(enrichmentData, &data); err != nil {
		return noResearchSummary
	}

	var parts []string
	for _, r := range data.Results {
		part := r.Summary
		if part == "" {
			part = strings.Join(r.Highlights, " ")
		}
		if part == "" {
			part = truncate(r.Text, 500)
		}
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return noResearchSummary
	}
	return strings.Join(parts, "\n\n")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
