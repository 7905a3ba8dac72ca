package drafting

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"outreach_backend/internal/enrichment"
)

func mustBlob(t *testing.T, data enrichment.Data) []byte {
	t.Helper()
	blob, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return blob
}

func TestBuildSummaryPrefersSummaryThenHighlightsThenText(t *testing.T) {
	blob := mustBlob(t, enrichment.Data{Results: []enrichment.SearchResult{
		{Summary: "a summary", Highlights: []string{"ignored"}, Text: "ignored"},
		{Highlights: []string{"first", "second"}, Text: "ignored"},
		{Text: strings.Repeat("x", 600)},
	}})

	summary := buildSummary(blob)
	parts := strings.Split(summary, "\n\n")
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}
	if parts[0] != "a summary" {
		t.Errorf("unexpected first part %q", parts[0])
	}
	if parts[1] != "first second" {
		t.Errorf("unexpected second part %q", parts[1])
	}
	if len(parts[2]) != 500 {
		t.Errorf("text must be cut to 500 chars, got %d", len(parts[2]))
	}
}

func TestBuildSummaryCutsTextOnRuneBoundary(t *testing.T) {
	// 499 ASCII bytes followed by a 3-byte rune straddling the 500-byte cut.
	text := strings.Repeat("x", 499) + "日本語"
	blob := mustBlob(t, enrichment.Data{Results: []enrichment.SearchResult{{Text: text}}})

	summary := buildSummary(blob)
	if !utf8.ValidString(summary) {
		t.Fatalf("summary contains a split rune: %q", summary[490:])
	}
	if len(summary) != 499 {
		t.Errorf("expected cut back to 499 bytes, got %d", len(summary))
	}
}

func TestBuildSummaryEmptyBlob(t *testing.T) {
	if got := buildSummary(nil); got != "No research data available." {
		t.Errorf("unexpected summary %q", got)
	}
	if got := buildSummary([]byte("not json")); got != "No research data available." {
		t.Errorf("unexpected summary %q", got)
	}
	blob := mustBlob(t, enrichment.Data{Results: []enrichment.SearchResult{{URL: "https://a"}}})
	if got := buildSummary(blob); got != "No research data available." {
		t.Errorf("unexpected summary %q", got)
	}
}

func TestBuildStructuredPromptIncludesTemplatePrompt(t *testing.T) {
	extra := "Mention the conference."
	prompt := buildStructuredPrompt(testProduct(), recipient{Name: "Jane", Title: "CTO", CompanyName: "Acme", Email: "jane@acme.io"},
		"research", fallbackHook(nil), nil, &extra)

	if !strings.Contains(prompt, "Mention the conference.") {
		t.Error("template prompt must be appended")
	}
	if !strings.Contains(prompt, "SUBJECT: [subject line]") {
		t.Error("format instructions missing")
	}
	if !strings.Contains(prompt, "HOOK:") || !strings.Contains(prompt, "CTA:") {
		t.Error("structure sections missing")
	}
}
