package pipeline

import "testing"

func TestStagesFor(t *testing.T) {
	tests := []struct {
		phase Phase
		want  PhaseStages
	}{
		{PhaseEnrich, PhaseStages{StageQueuedEnrich, StageEnriching, StageEnriched, StageNew}},
		{PhaseDraft, PhaseStages{StageQueuedDraft, StageDrafting, StageDrafted, StageEnriched}},
		{PhaseSend, PhaseStages{StageQueuedSend, StageSending, StageSent, StageApproved}},
	}

	for _, tt := range tests {
		got, ok := StagesFor(tt.phase)
		if !ok {
			t.Fatalf("StagesFor(%s): phase not registered", tt.phase)
		}
		if got != tt.want {
			t.Errorf("StagesFor(%s) = %+v, want %+v", tt.phase, got, tt.want)
		}
	}
}

func TestStagesForUnknownPhase(t *testing.T) {
	if _, ok := StagesFor(Phase("bogus")); ok {
		t.Error("StagesFor accepted an unknown phase")
	}
}

func TestFallbackIsNotQueued(t *testing.T) {
	// Failed enrichment re-enters at new, not queued_enrich, so a stuck
	// external API cannot spin a contact between queued and processing.
	s, _ := StagesFor(PhaseEnrich)
	if s.Fallback == s.Queued {
		t.Error("enrich fallback must differ from queued stage")
	}
	if s.Fallback != StageNew {
		t.Errorf("enrich fallback = %s, want %s", s.Fallback, StageNew)
	}
}

func TestStageValid(t *testing.T) {
	for stage := range allStages {
		if !stage.Valid() {
			t.Errorf("stage %s should be valid", stage)
		}
	}
	if Stage("queued_llamas").Valid() {
		t.Error("unknown stage should not be valid")
	}
}

func TestStageTerminal(t *testing.T) {
	terminal := []Stage{StageReplied, StageBounced, StageSkipped}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("stage %s should be terminal", s)
		}
	}
	// Sent still advances to replied or bounced.
	if StageSent.Terminal() {
		t.Error("sent must not be terminal")
	}
	if StageNew.Terminal() {
		t.Error("new must not be terminal")
	}
}

