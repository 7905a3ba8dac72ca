// Package queue defines the durable pipeline tasks and the asynq client and
// worker that move campaign contacts through them.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TaskEnrich       = "pipeline:enrich"
	TaskDraft        = "pipeline:draft"
	TaskSend         = "pipeline:send"
	TaskCheckReplies = "pipeline:check_replies"
)

// EnrichPayload identifies one contact to research within a campaign.
type EnrichPayload struct {
	CampaignContactID uuid.UUID `json:"campaign_contact_id"`
	CampaignID        uuid.UUID `json:"campaign_id"`
}

// DraftPayload identifies one enriched contact to write an email for.
type DraftPayload struct {
	CampaignContactID uuid.UUID `json:"campaign_contact_id"`
	CampaignID        uuid.UUID `json:"campaign_id"`
}

// SendPayload identifies one approved contact whose email should go out.
type SendPayload struct {
	CampaignContactID uuid.UUID `json:"campaign_contact_id"`
}

// NewEnrichTask creates a task to research a campaign contact.
func NewEnrichTask(payload EnrichPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal enrich payload: %w", err)
	}
	return asynq.NewTask(TaskEnrich, data), nil
}

// ParseEnrichPayload extracts the payload from an enrich task.
func ParseEnrichPayload(t *asynq.Task) (EnrichPayload, error) {
	var payload EnrichPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return EnrichPayload{}, fmt.Errorf("unmarshal enrich payload: %w", err)
	}
	return payload, nil
}

// NewDraftTask creates a task to draft an email for a campaign contact.
func NewDraftTask(payload DraftPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal draft payload: %w", err)
	}
	return asynq.NewTask(TaskDraft, data), nil
}

// ParseDraftPayload extracts the payload from a draft task.
func ParseDraftPayload(t *asynq.Task) (DraftPayload, error) {
	var payload DraftPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return DraftPayload{}, fmt.Errorf("unmarshal draft payload: %w", err)
	}
	return payload, nil
}

// NewSendTask creates a task to send an approved email.
func NewSendTask(payload SendPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal send payload: %w", err)
	}
	return asynq.NewTask(TaskSend, data), nil
}

// ParseSendPayload extracts the payload from a send task.
func ParseSendPayload(t *asynq.Task) (SendPayload, error) {
	var payload SendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return SendPayload{}, fmt.Errorf("unmarshal send payload: %w", err)
	}
	return payload, nil
}

// NewCheckRepliesTask creates a task to reconcile sent threads against the
// mailbox. It carries no payload.
func NewCheckRepliesTask() *asynq.Task {
	return asynq.NewTask(TaskCheckReplies, nil)
}
