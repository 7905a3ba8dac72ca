package sending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/gmail"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/logger"
)

type fakeStore struct {
	detail     repository.Detail
	claimed    bool
	stageSet   *pipeline.Stage
	sentAt     *time.Time
	emails     []repository.InsertEmailParams
	activities []repository.InsertActivityParams

	sentWithThreads []repository.SentEmail
	threadCounts    map[string]int
	emailReplied    []uuid.UUID
	contactReplied  []uuid.UUID
}

func (f *fakeStore) GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error) {
	return f.detail, nil
}

func (f *fakeStore) ClaimStage(ctx context.Context, id uuid.UUID, from, to pipeline.Stage) (bool, error) {
	return f.claimed, nil
}

func (f *fakeStore) SetStage(ctx context.Context, id uuid.UUID, stage pipeline.Stage) error {
	f.stageSet = &stage
	return nil
}

func (f *fakeStore) CompleteSend(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	f.sentAt = &sentAt
	return nil
}

func (f *fakeStore) InsertEmail(ctx context.Context, params repository.InsertEmailParams) (uuid.UUID, error) {
	f.emails = append(f.emails, params)
	return uuid.New(), nil
}

func (f *fakeStore) InsertActivity(ctx context.Context, params repository.InsertActivityParams) error {
	f.activities = append(f.activities, params)
	return nil
}

func (f *fakeStore) ListSentWithThreads(ctx context.Context) ([]repository.SentEmail, error) {
	return f.sentWithThreads, nil
}

func (f *fakeStore) CountThreadMessages(ctx context.Context, threadID string) (int, error) {
	return f.threadCounts[threadID], nil
}

func (f *fakeStore) MarkEmailReplied(ctx context.Context, id uuid.UUID) error {
	f.emailReplied = append(f.emailReplied, id)
	return nil
}

func (f *fakeStore) MarkReplied(ctx context.Context, campaignID, contactID uuid.UUID, at time.Time) error {
	f.contactReplied = append(f.contactReplied, contactID)
	return nil
}

type fakeCredentials struct {
	cred      gmail.Credential
	err       error
	byAccount map[uuid.UUID]gmail.Credential
	resolved  []*uuid.UUID
}

func (f *fakeCredentials) Resolve(ctx context.Context, accountID *uuid.UUID) (gmail.Credential, error) {
	f.resolved = append(f.resolved, accountID)
	if accountID != nil {
		if cred, ok := f.byAccount[*accountID]; ok {
			return cred, nil
		}
	}
	return f.cred, f.err
}

type fakeMailer struct {
	profile      string
	profileErr   error
	result       gmail.SendResult
	sendErr      error
	sent         []string
	threads      map[string]gmail.Thread
	threadErr    map[string]error
	threadTokens map[string]string
}

func (f *fakeMailer) Profile(ctx context.Context, accessToken string) (string, error) {
	return f.profile, f.profileErr
}

func (f *fakeMailer) Send(ctx context.Context, accessToken, from, to, subject, body string) (gmail.SendResult, error) {
	f.sent = append(f.sent, to)
	return f.result, f.sendErr
}

func (f *fakeMailer) GetThread(ctx context.Context, accessToken, threadID string) (gmail.Thread, error) {
	if f.threadTokens == nil {
		f.threadTokens = make(map[string]string)
	}
	f.threadTokens[threadID] = accessToken
	if err := f.threadErr[threadID]; err != nil {
		return gmail.Thread{}, err
	}
	return f.threads[threadID], nil
}

func approvedDetail() repository.Detail {
	subject, body := "Final subject", "Final body"
	return repository.Detail{
		CampaignContact: repository.CampaignContact{
			ID:           uuid.New(),
			CampaignID:   uuid.New(),
			ContactID:    uuid.New(),
			Stage:        pipeline.StageQueuedSend,
			FinalSubject: &subject,
			FinalBody:    &body,
		},
		Contact:  repository.ContactInfo{Email: "jane@acme.io"},
		Campaign: repository.CampaignInfo{ID: uuid.New()},
	}
}

func newTestProcessor(store *fakeStore, creds *fakeCredentials, mailer *fakeMailer) *Processor {
	p := NewProcessor(store, creds, mailer, logger.New("test"))
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestSendHappyPath(t *testing.T) {
	store := &fakeStore{detail: approvedDetail(), claimed: true}
	creds := &fakeCredentials{cred: gmail.Credential{AccountID: uuid.New(), AccessToken: "token"}}
	mailer := &fakeMailer{profile: "me@acme.io", result: gmail.SendResult{MessageID: "m1", ThreadID: "t1"}}

	r := newTestProcessor(store, creds, mailer).Send(context.Background(), store.detail.ID)
	if !r.Success {
		t.Fatalf("expected success, got %+v", r)
	}
	if store.sentAt == nil {
		t.Fatal("expected sent timestamp")
	}
	if len(store.emails) != 1 {
		t.Fatalf("expected one email row, got %d", len(store.emails))
	}
	email := store.emails[0]
	if email.Direction != "outbound" || email.Status != "sent" {
		t.Errorf("unexpected email row %+v", email)
	}
	if email.ThreadID == nil || *email.ThreadID != "t1" {
		t.Error("provider thread id must be recorded")
	}
	if len(store.activities) != 1 || store.activities[0].Type != "email_sent" {
		t.Errorf("unexpected activities %+v", store.activities)
	}
	if mailer.sent[0] != "jane@acme.io" {
		t.Errorf("sent to %q", mailer.sent[0])
	}
}

func TestSendSkipsWrongStage(t *testing.T) {
	store := &fakeStore{detail: approvedDetail()}
	store.detail.Stage = pipeline.StageSent
	mailer := &fakeMailer{}

	r := newTestProcessor(store, &fakeCredentials{}, mailer).Send(context.Background(), store.detail.ID)
	if !r.Success {
		t.Fatalf("expected no-op success, got %+v", r)
	}
	if len(mailer.sent) != 0 {
		t.Error("must not send for a contact at another stage")
	}
}

func TestSendRequiresApprovedContent(t *testing.T) {
	store := &fakeStore{detail: approvedDetail(), claimed: true}
	store.detail.FinalSubject = nil
	draft := "Draft subject"
	store.detail.DraftSubject = &draft

	r := newTestProcessor(store, &fakeCredentials{}, &fakeMailer{}).Send(context.Background(), store.detail.ID)
	if r.Success {
		t.Fatal("expected failure without approved content")
	}
	if r.Retryable {
		t.Error("missing approval is not retryable")
	}
	if store.stageSet == nil || *store.stageSet != pipeline.StageApproved {
		t.Errorf("expected revert to approved, got %v", store.stageSet)
	}
	if len(store.emails) != 0 {
		t.Error("no email row may be written")
	}
}

func TestSendAuthFailureIsNotRetryable(t *testing.T) {
	store := &fakeStore{detail: approvedDetail(), claimed: true}
	creds := &fakeCredentials{cred: gmail.Credential{AccessToken: "token"}}
	mailer := &fakeMailer{profile: "me@acme.io", sendErr: &gmail.APIError{StatusCode: 401, Body: "expired"}}

	r := newTestProcessor(store, creds, mailer).Send(context.Background(), store.detail.ID)
	if r.Success {
		t.Fatal("expected failure")
	}
	if r.Retryable {
		t.Error("credential rejections must not be retried")
	}
	if store.stageSet == nil || *store.stageSet != pipeline.StageApproved {
		t.Errorf("expected revert to approved, got %v", store.stageSet)
	}
}

func TestSendTransientFailureIsRetryable(t *testing.T) {
	store := &fakeStore{detail: approvedDetail(), claimed: true}
	creds := &fakeCredentials{cred: gmail.Credential{AccessToken: "token"}}
	mailer := &fakeMailer{profile: "me@acme.io", sendErr: &gmail.APIError{StatusCode: 503, Body: "try later"}}

	r := newTestProcessor(store, creds, mailer).Send(context.Background(), store.detail.ID)
	if r.Success {
		t.Fatal("expected failure")
	}
	if !r.Retryable {
		t.Error("provider outages must be retryable")
	}
}

func TestReconcilerPromotesGrownThreads(t *testing.T) {
	campaignID := uuid.New()
	emailID, contactID := uuid.New(), uuid.New()
	store := &fakeStore{
		sentWithThreads: []repository.SentEmail{
			{ID: emailID, ContactID: contactID, CampaignID: &campaignID, ThreadID: "t1"},
		},
		threadCounts: map[string]int{"t1": 1},
	}
	mailer := &fakeMailer{threads: map[string]gmail.Thread{
		"t1": {ID: "t1", Messages: []gmail.ThreadMessage{{ID: "m1"}, {ID: "m2"}}},
	}}
	creds := &fakeCredentials{cred: gmail.Credential{AccessToken: "token"}}

	rec := NewReconciler(store, creds, mailer, logger.New("test"))
	r := rec.Run(context.Background())
	if !r.Success {
		t.Fatalf("expected success, got %+v", r)
	}
	if len(store.emailReplied) != 1 || store.emailReplied[0] != emailID {
		t.Errorf("expected email marked replied, got %v", store.emailReplied)
	}
	if len(store.contactReplied) != 1 || store.contactReplied[0] != contactID {
		t.Errorf("expected contact promoted, got %v", store.contactReplied)
	}
	if len(store.activities) != 1 || store.activities[0].Type != "email_replied" {
		t.Errorf("unexpected activities %+v", store.activities)
	}
}

func TestReconcilerSkipsQuietThreads(t *testing.T) {
	campaignID := uuid.New()
	store := &fakeStore{
		sentWithThreads: []repository.SentEmail{
			{ID: uuid.New(), ContactID: uuid.New(), CampaignID: &campaignID, ThreadID: "t1"},
		},
		threadCounts: map[string]int{"t1": 1},
	}
	mailer := &fakeMailer{threads: map[string]gmail.Thread{
		"t1": {ID: "t1", Messages: []gmail.ThreadMessage{{ID: "m1"}}},
	}}

	r := NewReconciler(store, &fakeCredentials{cred: gmail.Credential{AccessToken: "t"}}, mailer, logger.New("test")).
		Run(context.Background())
	if !r.Success {
		t.Fatalf("expected success, got %+v", r)
	}
	if len(store.emailReplied) != 0 {
		t.Error("thread without growth must not be marked replied")
	}
}

func TestReconcilerContinuesPastBadThread(t *testing.T) {
	campaignID := uuid.New()
	goodID := uuid.New()
	store := &fakeStore{
		sentWithThreads: []repository.SentEmail{
			{ID: uuid.New(), ContactID: uuid.New(), CampaignID: &campaignID, ThreadID: "bad"},
			{ID: goodID, ContactID: uuid.New(), CampaignID: &campaignID, ThreadID: "good"},
		},
		threadCounts: map[string]int{"good": 1},
	}
	mailer := &fakeMailer{
		threadErr: map[string]error{"bad": errors.New("boom")},
		threads: map[string]gmail.Thread{
			"good": {ID: "good", Messages: []gmail.ThreadMessage{{ID: "m1"}, {ID: "m2"}}},
		},
	}

	r := NewReconciler(store, &fakeCredentials{cred: gmail.Credential{AccessToken: "t"}}, mailer, logger.New("test")).
		Run(context.Background())
	if !r.Success {
		t.Fatalf("a bad thread must not fail the sweep, got %+v", r)
	}
	if len(store.emailReplied) != 1 || store.emailReplied[0] != goodID {
		t.Errorf("good thread must still be processed, got %v", store.emailReplied)
	}
}

func TestReconcilerNoMailboxIsNoOp(t *testing.T) {
	campaignID := uuid.New()
	store := &fakeStore{
		sentWithThreads: []repository.SentEmail{
			{ID: uuid.New(), ContactID: uuid.New(), CampaignID: &campaignID, ThreadID: "t1"},
		},
	}
	creds := &fakeCredentials{err: gmail.ErrNotConnected}
	mailer := &fakeMailer{}

	r := NewReconciler(store, creds, mailer, logger.New("test")).Run(context.Background())
	if !r.Success {
		t.Fatalf("expected structured no-op, got %+v", r)
	}
	if len(mailer.threadTokens) != 0 {
		t.Error("must not read threads without a mailbox")
	}
	if len(store.emailReplied) != 0 {
		t.Error("must not mark anything replied without a mailbox")
	}
}

func TestReconcilerResolvesPerSendingAccount(t *testing.T) {
	campaignID := uuid.New()
	accountA, accountB := uuid.New(), uuid.New()
	store := &fakeStore{
		sentWithThreads: []repository.SentEmail{
			{ID: uuid.New(), ContactID: uuid.New(), CampaignID: &campaignID, GmailAccountID: &accountA, ThreadID: "ta1"},
			{ID: uuid.New(), ContactID: uuid.New(), CampaignID: &campaignID, GmailAccountID: &accountB, ThreadID: "tb"},
			{ID: uuid.New(), ContactID: uuid.New(), CampaignID: &campaignID, GmailAccountID: &accountA, ThreadID: "ta2"},
		},
		threadCounts: map[string]int{"ta1": 1, "tb": 1, "ta2": 1},
	}
	creds := &fakeCredentials{byAccount: map[uuid.UUID]gmail.Credential{
		accountA: {AccessToken: "token-a"},
		accountB: {AccessToken: "token-b"},
	}}
	mailer := &fakeMailer{threads: map[string]gmail.Thread{
		"ta1": {ID: "ta1", Messages: []gmail.ThreadMessage{{ID: "m1"}}},
		"tb":  {ID: "tb", Messages: []gmail.ThreadMessage{{ID: "m1"}}},
		"ta2": {ID: "ta2", Messages: []gmail.ThreadMessage{{ID: "m1"}}},
	}}

	r := NewReconciler(store, creds, mailer, logger.New("test")).Run(context.Background())
	if !r.Success {
		t.Fatalf("expected success, got %+v", r)
	}
	if mailer.threadTokens["ta1"] != "token-a" || mailer.threadTokens["ta2"] != "token-a" {
		t.Errorf("threads sent from account A must use its token, got %v", mailer.threadTokens)
	}
	if mailer.threadTokens["tb"] != "token-b" {
		t.Errorf("thread sent from account B must use its token, got %q", mailer.threadTokens["tb"])
	}
	if len(creds.resolved) != 2 {
		t.Errorf("expected one resolve per account, got %d", len(creds.resolved))
	}
}
