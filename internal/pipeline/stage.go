// Package pipeline defines the outreach stage state machine shared by
// producers, processors, and the queue dispatcher.
package pipeline

// Stage is the discrete step a campaign contact currently occupies.
type Stage string

const (
	StageNew          Stage = "new"
	StageQueuedEnrich Stage = "queued_enrich"
	StageEnriching    Stage = "enriching"
	StageEnriched     Stage = "enriched"
	StageQueuedDraft  Stage = "queued_draft"
	StageDrafting     Stage = "drafting"
	StageDrafted      Stage = "drafted"
	StageApproved     Stage = "approved"
	StageQueuedSend   Stage = "queued_send"
	StageSending      Stage = "sending"
	StageSent         Stage = "sent"
	StageReplied      Stage = "replied"
	StageBounced      Stage = "bounced"
	StageSkipped      Stage = "skipped"
)

// Phase identifies one queue-driven segment of the pipeline.
type Phase string

const (
	PhaseEnrich Phase = "enrich"
	PhaseDraft  Phase = "draft"
	PhaseSend   Phase = "send"
)

// PhaseStages maps a phase to its stage labels. Producers move eligible
// contacts to Queued; processors claim Queued into Processing, then finish
// at Completed or revert to Fallback. Fallback doubles as the stage a
// producer draws from, so a failed job re-enters the eligible pool.
type PhaseStages struct {
	Queued     Stage
	Processing Stage
	Completed  Stage
	Fallback   Stage
}

var phaseRegistry = map[Phase]PhaseStages{
	PhaseEnrich: {
		Queued:     StageQueuedEnrich,
		Processing: StageEnriching,
		Completed:  StageEnriched,
		Fallback:   StageNew,
	},
	PhaseDraft: {
		Queued:     StageQueuedDraft,
		Processing: StageDrafting,
		Completed:  StageDrafted,
		Fallback:   StageEnriched,
	},
	PhaseSend: {
		Queued:     StageQueuedSend,
		Processing: StageSending,
		Completed:  StageSent,
		Fallback:   StageApproved,
	},
}

// StagesFor returns the stage labels for a phase.
func StagesFor(phase Phase) (PhaseStages, bool) {
	s, ok := phaseRegistry[phase]
	return s, ok
}

var allStages = map[Stage]struct{}{
	StageNew: {}, StageQueuedEnrich: {}, StageEnriching: {}, StageEnriched: {},
	StageQueuedDraft: {}, StageDrafting: {}, StageDrafted: {}, StageApproved: {},
	StageQueuedSend: {}, StageSending: {}, StageSent: {}, StageReplied: {},
	StageBounced: {}, StageSkipped: {},
}

// Valid reports whether s is a known stage label.
func (s Stage) Valid() bool {
	_, ok := allStages[s]
	return ok
}

// Terminal reports whether no processor will ever move the contact again.
func (s Stage) Terminal() bool {
	switch s {
	case StageReplied, StageBounced, StageSkipped:
		return true
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}
