package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/logger"
)

type fakeStore struct {
	Store

	eligible    []repository.CampaignContact
	markedIDs   []uuid.UUID
	markedStage pipeline.Stage
	counts      map[pipeline.Stage]int
	approved    *repository.CampaignContact
	activities  []repository.InsertActivityParams
}

func (f *fakeStore) ListEligible(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID, stage pipeline.Stage) ([]repository.CampaignContact, error) {
	return f.eligible, nil
}

func (f *fakeStore) MarkStage(ctx context.Context, ids []uuid.UUID, stage pipeline.Stage) error {
	f.markedIDs = ids
	f.markedStage = stage
	return nil
}

func (f *fakeStore) StageCounts(ctx context.Context, campaignID uuid.UUID) (map[pipeline.Stage]int, error) {
	return f.counts, nil
}

func (f *fakeStore) Approve(ctx context.Context, id uuid.UUID, finalSubject, finalBody string) (repository.CampaignContact, error) {
	return *f.approved, nil
}

func (f *fakeStore) InsertActivity(ctx context.Context, params repository.InsertActivityParams) error {
	f.activities = append(f.activities, params)
	return nil
}

type enqueued struct {
	id    uuid.UUID
	delay time.Duration
}

type fakeQueue struct {
	enriches []uuid.UUID
	drafts   []uuid.UUID
	sends    []enqueued
}

func (f *fakeQueue) EnqueueEnrich(ctx context.Context, ccID, campaignID uuid.UUID) error {
	f.enriches = append(f.enriches, ccID)
	return nil
}

func (f *fakeQueue) EnqueueDraft(ctx context.Context, ccID, campaignID uuid.UUID) error {
	f.drafts = append(f.drafts, ccID)
	return nil
}

func (f *fakeQueue) EnqueueSend(ctx context.Context, ccID uuid.UUID, delay time.Duration) error {
	f.sends = append(f.sends, enqueued{id: ccID, delay: delay})
	return nil
}

func contacts(n int) []repository.CampaignContact {
	out := make([]repository.CampaignContact, n)
	for i := range out {
		out[i] = repository.CampaignContact{ID: uuid.New()}
	}
	return out
}

func newTestService(store *fakeStore, queue *fakeQueue) *Service {
	return New(store, queue, nil, time.Minute, logger.New("test"))
}

func TestQueueEnrichmentMarksAndEnqueues(t *testing.T) {
	store := &fakeStore{eligible: contacts(3)}
	queue := &fakeQueue{}

	n, err := newTestService(store, queue).QueueEnrichment(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("queue enrichment: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 queued, got %d", n)
	}
	if store.markedStage != pipeline.StageQueuedEnrich {
		t.Errorf("expected queued_enrich, got %s", store.markedStage)
	}
	if len(store.markedIDs) != 3 || len(queue.enriches) != 3 {
		t.Errorf("expected 3 marks and 3 jobs, got %d/%d", len(store.markedIDs), len(queue.enriches))
	}
}

func TestQueueDraftingUsesDraftPhase(t *testing.T) {
	store := &fakeStore{eligible: contacts(1)}
	queue := &fakeQueue{}

	if _, err := newTestService(store, queue).QueueDrafting(context.Background(), uuid.New(), nil); err != nil {
		t.Fatalf("queue drafting: %v", err)
	}
	if store.markedStage != pipeline.StageQueuedDraft {
		t.Errorf("expected queued_draft, got %s", store.markedStage)
	}
	if len(queue.drafts) != 1 {
		t.Errorf("expected 1 draft job, got %d", len(queue.drafts))
	}
}

func TestQueueSendingStaggersDelays(t *testing.T) {
	store := &fakeStore{eligible: contacts(3)}
	queue := &fakeQueue{}

	n, err := newTestService(store, queue).QueueSending(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("queue sending: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 queued, got %d", n)
	}
	if store.markedStage != pipeline.StageQueuedSend {
		t.Errorf("expected queued_send, got %s", store.markedStage)
	}
	want := []time.Duration{0, time.Minute, 2 * time.Minute}
	for i, job := range queue.sends {
		if job.delay != want[i] {
			t.Errorf("job %d: expected delay %v, got %v", i, want[i], job.delay)
		}
	}
}

func TestQueueEnrichmentEmptyPool(t *testing.T) {
	store := &fakeStore{}
	queue := &fakeQueue{}

	n, err := newTestService(store, queue).QueueEnrichment(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("queue enrichment: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 queued, got %d", n)
	}
	if store.markedIDs != nil {
		t.Error("no stage writes for an empty pool")
	}
}

func TestGetProgressRollups(t *testing.T) {
	store := &fakeStore{counts: map[pipeline.Stage]int{
		pipeline.StageNew:          4,
		pipeline.StageQueuedEnrich: 2,
		pipeline.StageEnriching:    1,
		pipeline.StageEnriched:     3,
		pipeline.StageQueuedDraft:  1,
		pipeline.StageDrafted:      2,
		pipeline.StageApproved:     1,
		pipeline.StageSending:      1,
		pipeline.StageSent:         5,
		pipeline.StageReplied:      2,
	}}

	p, err := newTestService(store, &fakeQueue{}).GetProgress(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if p.Total != 22 {
		t.Errorf("expected total 22, got %d", p.Total)
	}
	if p.Queued != 3 {
		t.Errorf("expected queued 3, got %d", p.Queued)
	}
	if p.Processing != 2 {
		t.Errorf("expected processing 2, got %d", p.Processing)
	}
	if p.Sent != 5 || p.Replied != 2 {
		t.Errorf("unexpected rollups %+v", p)
	}
}

func TestApproveRecordsActivity(t *testing.T) {
	cc := repository.CampaignContact{ID: uuid.New(), CampaignID: uuid.New(), ContactID: uuid.New(), Stage: pipeline.StageApproved}
	store := &fakeStore{approved: &cc}

	got, err := newTestService(store, &fakeQueue{}).Approve(context.Background(), cc.ID, "S", "B")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Stage != pipeline.StageApproved {
		t.Errorf("unexpected stage %s", got.Stage)
	}
	if len(store.activities) != 1 || store.activities[0].Type != "draft_approved" {
		t.Errorf("unexpected activities %+v", store.activities)
	}
}
