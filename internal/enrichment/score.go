package enrichment

import "strings"

// keywordSet holds the signal phrases for one product.
type keywordSet struct {
	highValue []string
	growth    []string
	pain      []string
}

var productKeywords = map[string]keywordSet{
	"file-logic": {
		highValue: []string{"medical records", "case volume", "timeline", "compliance", "HIPAA", "backlog", "disability"},
		growth:    []string{"hiring", "expanding", "new office", "growth", "new attorneys"},
		pain:      []string{"delays", "bottleneck", "behind", "struggling", "backlog", "overwhelmed"},
	},
	"consulting": {
		highValue: []string{"launching", "redesign", "rebuild", "migration", "deadline", "React", "Next.js", "frontend"},
		growth:    []string{"Series A", "Series B", "funding", "hiring", "raised"},
		pain:      []string{"technical debt", "shipping slow", "design gap", "capacity"},
	},
	"offerarc": {
		highValue: []string{"ad fatigue", "creative testing", "ROAS", "scaling", "CPM", "Facebook ads", "Meta ads"},
		growth:    []string{"new clients", "expanding", "team growing", "scaling"},
		pain:      []string{"creative burnout", "testing velocity", "diminishing returns", "fatigue"},
	},
}

// Score rates search results 0-10 for a product based on signal keywords in
// the combined text. An unknown product gets a neutral score.
func Score(productID string, results []SearchResult) (int, []string) {
	keywords, ok := productKeywords[productID]
	if !ok {
		return 5, []string{"Unknown product"}
	}

	var parts []string
	for _, r := range results {
		for _, p := range []string{r.Title, strings.Join(r.Highlights, " "), r.Summary, r.Text} {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}
	text := strings.ToLower(strings.Join(parts, " "))

	score := 0
	var reasons []string

	for _, kw := range keywords.highValue {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 3
			reasons = append(reasons, `High-value: "`+kw+`"`)
		}
	}
	for _, kw := range keywords.growth {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 2
			reasons = append(reasons, `Growth signal: "`+kw+`"`)
		}
	}
	for _, kw := range keywords.pain {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 2
			reasons = append(reasons, `Pain signal: "`+kw+`"`)
		}
	}

	richCount := 0
	for _, r := range results {
		if len(r.Text) > 100 {
			richCount++
		}
	}
	if richCount >= 3 {
		score += 2
		reasons = append(reasons, "Rich content available")
	}

	if score > 10 {
		score = 10
	}
	if len(reasons) > 5 {
		reasons = reasons[:5]
	}
	return score, reasons
}
