// Package activity names the entries written to the audit trail.
package activity

const (
	TypeContactCreated      = "contact_created"
	TypeContactUpdated      = "contact_updated"
	TypeAddedToCampaign     = "added_to_campaign"
	TypeEnrichmentStarted   = "enrichment_started"
	TypeEnrichmentCompleted = "enrichment_completed"
	TypeDraftCreated        = "draft_created"
	TypeDraftApproved       = "draft_approved"
	TypeDraftRejected       = "draft_rejected"
	TypeEmailSent           = "email_sent"
	TypeEmailOpened         = "email_opened"
	TypeEmailReplied        = "email_replied"
	TypeNoteAdded           = "note_added"
)
