package enrichment

import (
	"strings"
	"testing"
)

func TestScoreUnknownProduct(t *testing.T) {
	score, reasons := Score("mystery", nil)
	if score != 5 {
		t.Errorf("expected neutral score 5, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != "Unknown product" {
		t.Errorf("unexpected reasons %v", reasons)
	}
}

func TestScoreKeywordWeights(t *testing.T) {
	results := []SearchResult{
		{Title: "Firm faces medical records backlog", Text: "hiring paralegals amid delays"},
	}

	// medical records (+3) + backlog (+3) + hiring (+2) + delays (+2) + behind? no
	score, reasons := Score("file-logic", results)
	if score != 10 {
		t.Errorf("expected 10, got %d", score)
	}
	if reasons[0] != `High-value: "medical records"` {
		t.Errorf("unexpected first reason %q", reasons[0])
	}
}

func TestScoreCapsAtTen(t *testing.T) {
	text := "medical records case volume timeline compliance HIPAA backlog disability hiring delays"
	score, reasons := Score("file-logic", []SearchResult{{Text: text}})
	if score != 10 {
		t.Errorf("expected cap at 10, got %d", score)
	}
	if len(reasons) > 5 {
		t.Errorf("expected at most 5 reasons, got %d", len(reasons))
	}
}

func TestScoreRichContentBonus(t *testing.T) {
	long := strings.Repeat("x", 101)
	results := []SearchResult{{Text: long}, {Text: long}, {Text: long}}

	score, reasons := Score("consulting", results)
	if score != 2 {
		t.Errorf("expected 2 from content bonus alone, got %d", score)
	}
	if len(reasons) != 1 || reasons[0] != "Rich content available" {
		t.Errorf("unexpected reasons %v", reasons)
	}
}

func TestScoreReadsSummaries(t *testing.T) {
	score, reasons := Score("consulting", []SearchResult{
		{Title: "Q2 update", Summary: "They raised a Series A to rebuild the frontend."},
	})
	// Series A (+2) + raised (+2) + rebuild (+3) + frontend (+3)
	if score != 10 {
		t.Errorf("expected summary keywords to count, got %d", score)
	}
	if len(reasons) == 0 {
		t.Error("expected reasons from summary matches")
	}
}

func TestScoreMatchesAreCaseInsensitive(t *testing.T) {
	score, _ := Score("offerarc", []SearchResult{{Title: "roas up, CREATIVE TESTING down"}})
	if score != 6 {
		t.Errorf("expected 6 (two high-value hits), got %d", score)
	}
}

func TestScoreEmptyResults(t *testing.T) {
	score, reasons := Score("file-logic", nil)
	if score != 0 {
		t.Errorf("expected 0, got %d", score)
	}
	if len(reasons) != 0 {
		t.Errorf("expected no reasons, got %v", reasons)
	}
}
