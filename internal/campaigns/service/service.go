// Package service coordinates campaign CRUD, pipeline producers, progress
// reporting, and the human review surface.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/logger"
)

// Store is the persistence the campaigns service needs.
type Store interface {
	CreateCampaign(ctx context.Context, params repository.CreateCampaignParams) (repository.Campaign, error)
	GetCampaign(ctx context.Context, id uuid.UUID) (repository.Campaign, error)
	ListCampaigns(ctx context.Context) ([]repository.Campaign, error)
	UpdateCampaign(ctx context.Context, params repository.UpdateCampaignParams) (repository.Campaign, error)
	DeleteCampaign(ctx context.Context, id uuid.UUID) error
	StageCounts(ctx context.Context, campaignID uuid.UUID) (map[pipeline.Stage]int, error)

	AddContacts(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID) (int, error)
	ListEligible(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID, stage pipeline.Stage) ([]repository.CampaignContact, error)
	MarkStage(ctx context.Context, ids []uuid.UUID, stage pipeline.Stage) error
	GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error)
	ListByStage(ctx context.Context, campaignID *uuid.UUID, stage pipeline.Stage) ([]repository.Detail, error)
	Approve(ctx context.Context, id uuid.UUID, finalSubject, finalBody string) (repository.CampaignContact, error)
	Reject(ctx context.Context, id uuid.UUID) (repository.CampaignContact, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, subject, body *string) (repository.CampaignContact, error)
	InsertActivity(ctx context.Context, params repository.InsertActivityParams) error
}

// Enqueuer hands pipeline jobs to the durable queue.
type Enqueuer interface {
	EnqueueEnrich(ctx context.Context, campaignContactID, campaignID uuid.UUID) error
	EnqueueDraft(ctx context.Context, campaignContactID, campaignID uuid.UUID) error
	EnqueueSend(ctx context.Context, campaignContactID uuid.UUID, delay time.Duration) error
}

// DraftRegenerator rewrites one draft on reviewer demand.
type DraftRegenerator interface {
	Regenerate(ctx context.Context, campaignContactID uuid.UUID, feedback *string) (repository.CampaignContact, error)
}

// Service implements campaign operations.
type Service struct {
	store        Store
	queue        Enqueuer
	regenerator  DraftRegenerator
	sendInterval time.Duration
	log          *logger.Logger
}

// New creates a campaigns service.
func New(store Store, queue Enqueuer, regenerator DraftRegenerator, sendInterval time.Duration, log *logger.Logger) *Service {
	return &Service{
		store:        store,
		queue:        queue,
		regenerator:  regenerator,
		sendInterval: sendInterval,
		log:          log,
	}
}

// Create creates a campaign.
func (s *Service) Create(ctx context.Context, params repository.CreateCampaignParams) (repository.Campaign, error) {
	return s.store.CreateCampaign(ctx, params)
}

// Get retrieves a campaign.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (repository.Campaign, error) {
	return s.store.GetCampaign(ctx, id)
}

// List lists all campaigns.
func (s *Service) List(ctx context.Context) ([]repository.Campaign, error) {
	return s.store.ListCampaigns(ctx)
}

// Update updates a campaign.
func (s *Service) Update(ctx context.Context, params repository.UpdateCampaignParams) (repository.Campaign, error) {
	return s.store.UpdateCampaign(ctx, params)
}

// Delete deletes a campaign.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteCampaign(ctx, id)
}

// AddContacts links contacts to a campaign and records the audit trail for
// each newly added pair.
func (s *Service) AddContacts(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID) (int, error) {
	added, err := s.store.AddContacts(ctx, campaignID, contactIDs)
	if err != nil {
		return 0, err
	}
	for _, contactID := range contactIDs {
		id := contactID
		cid := campaignID
		if err := s.store.InsertActivity(ctx, repository.InsertActivityParams{
			ContactID:  &id,
			CampaignID: &cid,
			Type:       activity.TypeAddedToCampaign,
		}); err != nil {
			return added, err
		}
	}
	return added, nil
}

// QueueEnrichment moves eligible contacts into queued_enrich and emits one
// job per contact. With contactIDs the producer targets those contacts;
// otherwise every contact still at new.
func (s *Service) QueueEnrichment(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID) (int, error) {
	return s.produce(ctx, campaignID, contactIDs, pipeline.PhaseEnrich, func(ctx context.Context, cc repository.CampaignContact, _ int) error {
		return s.queue.EnqueueEnrich(ctx, cc.ID, campaignID)
	})
}

// QueueDrafting moves eligible contacts into queued_draft and emits one job
// per contact.
func (s *Service) QueueDrafting(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID) (int, error) {
	return s.produce(ctx, campaignID, contactIDs, pipeline.PhaseDraft, func(ctx context.Context, cc repository.CampaignContact, _ int) error {
		return s.queue.EnqueueDraft(ctx, cc.ID, campaignID)
	})
}

// QueueSending moves approved contacts into queued_send. Each job gets a
// linearly growing delay so a batch drains at roughly one send per interval
// even under a fully parallel consumer pool.
func (s *Service) QueueSending(ctx context.Context, campaignID uuid.UUID) (int, error) {
	return s.produce(ctx, campaignID, nil, pipeline.PhaseSend, func(ctx context.Context, cc repository.CampaignContact, index int) error {
		return s.queue.EnqueueSend(ctx, cc.ID, time.Duration(index)*s.sendInterval)
	})
}

func (s *Service) produce(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID, phase pipeline.Phase, enqueue func(context.Context, repository.CampaignContact, int) error) (int, error) {
	stages, ok := pipeline.StagesFor(phase)
	if !ok {
		return 0, fmt.Errorf("unknown phase %q", phase)
	}

	eligible, err := s.store.ListEligible(ctx, campaignID, contactIDs, stages.Fallback)
	if err != nil {
		return 0, err
	}
	if len(eligible) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(eligible))
	for i, cc := range eligible {
		ids[i] = cc.ID
	}
	if err := s.store.MarkStage(ctx, ids, stages.Queued); err != nil {
		return 0, err
	}

	for i, cc := range eligible {
		if err := enqueue(ctx, cc, i); err != nil {
			return i, fmt.Errorf("enqueue %s job: %w", phase, err)
		}
	}
	return len(eligible), nil
}

// Progress is the stage histogram plus its rollups.
type Progress struct {
	Total      int                    `json:"total"`
	Queued     int                    `json:"queued"`
	Processing int                    `json:"processing"`
	New        int                    `json:"new"`
	Enriched   int                    `json:"enriched"`
	Drafted    int                    `json:"drafted"`
	Approved   int                    `json:"approved"`
	Sent       int                    `json:"sent"`
	Replied    int                    `json:"replied"`
	Stages     map[pipeline.Stage]int `json:"stages"`
}

// GetProgress reports where a campaign's contacts sit in the pipeline.
func (s *Service) GetProgress(ctx context.Context, campaignID uuid.UUID) (Progress, error) {
	counts, err := s.store.StageCounts(ctx, campaignID)
	if err != nil {
		return Progress{}, err
	}

	p := Progress{Stages: counts}
	for _, count := range counts {
		p.Total += count
	}
	p.Queued = counts[pipeline.StageQueuedEnrich] + counts[pipeline.StageQueuedDraft] + counts[pipeline.StageQueuedSend]
	p.Processing = counts[pipeline.StageEnriching] + counts[pipeline.StageDrafting] + counts[pipeline.StageSending]
	p.New = counts[pipeline.StageNew]
	p.Enriched = counts[pipeline.StageEnriched]
	p.Drafted = counts[pipeline.StageDrafted]
	p.Approved = counts[pipeline.StageApproved]
	p.Sent = counts[pipeline.StageSent]
	p.Replied = counts[pipeline.StageReplied]
	return p, nil
}

// ReviewQueue lists drafted contacts waiting for a human decision.
func (s *Service) ReviewQueue(ctx context.Context, campaignID *uuid.UUID) ([]repository.Detail, error) {
	return s.store.ListByStage(ctx, campaignID, pipeline.StageDrafted)
}

// Approve locks in the reviewer's final subject and body and moves the
// contact to approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, finalSubject, finalBody string) (repository.CampaignContact, error) {
	cc, err := s.store.Approve(ctx, id, finalSubject, finalBody)
	if err != nil {
		return repository.CampaignContact{}, err
	}
	if err := s.reviewActivity(ctx, cc, activity.TypeDraftApproved, nil); err != nil {
		return repository.CampaignContact{}, err
	}
	return cc, nil
}

// Reject skips a contact.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason *string) (repository.CampaignContact, error) {
	cc, err := s.store.Reject(ctx, id)
	if err != nil {
		return repository.CampaignContact{}, err
	}
	var metadata []byte
	if reason != nil && *reason != "" {
		var err error
		metadata, err = json.Marshal(map[string]string{"reason": *reason})
		if err != nil {
			return repository.CampaignContact{}, fmt.Errorf("marshal reject metadata: %w", err)
		}
	}
	if err := s.reviewActivity(ctx, cc, activity.TypeDraftRejected, metadata); err != nil {
		return repository.CampaignContact{}, err
	}
	return cc, nil
}

// UpdateDraft patches the draft in place without moving the stage.
func (s *Service) UpdateDraft(ctx context.Context, id uuid.UUID, subject, body *string) (repository.CampaignContact, error) {
	return s.store.UpdateDraft(ctx, id, subject, body)
}

// Regenerate rewrites a draft, optionally steering with reviewer feedback.
func (s *Service) Regenerate(ctx context.Context, id uuid.UUID, feedback *string) (repository.CampaignContact, error) {
	return s.regenerator.Regenerate(ctx, id, feedback)
}

func (s *Service) reviewActivity(ctx context.Context, cc repository.CampaignContact, activityType string, metadata []byte) error {
	contactID := cc.ContactID
	campaignID := cc.CampaignID
	return s.store.InsertActivity(ctx, repository.InsertActivityParams{
		ContactID:  &contactID,
		CampaignID: &campaignID,
		Type:       activityType,
		Metadata:   metadata,
	})
}
