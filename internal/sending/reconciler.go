package sending

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/gmail"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/logger"
)

// ReconcilerStore is the persistence the reply reconciler needs.
type ReconcilerStore interface {
	ListSentWithThreads(ctx context.Context) ([]repository.SentEmail, error)
	CountThreadMessages(ctx context.Context, threadID string) (int, error)
	MarkEmailReplied(ctx context.Context, id uuid.UUID) error
	MarkReplied(ctx context.Context, campaignID, contactID uuid.UUID, at time.Time) error
	InsertActivity(ctx context.Context, params repository.InsertActivityParams) error
}

// ThreadReader fetches conversations from the mail provider.
type ThreadReader interface {
	GetThread(ctx context.Context, accessToken, threadID string) (gmail.Thread, error)
}

// Reconciler sweeps sent threads and promotes contacts whose thread grew.
type Reconciler struct {
	store       ReconcilerStore
	credentials Credentials
	threads     ThreadReader
	log         *logger.Logger
	now         func() time.Time
}

// NewReconciler creates a reply reconciler.
func NewReconciler(store ReconcilerStore, credentials Credentials, threads ThreadReader, log *logger.Logger) *Reconciler {
	return &Reconciler{
		store:       store,
		credentials: credentials,
		threads:     threads,
		log:         log,
		now:         time.Now,
	}
}

// Run compares each sent thread's provider message count against the local
// count. More messages on the provider side means a reply arrived. Each
// thread is read with the mailbox it was sent from. One bad thread never
// aborts the sweep; a thread whose mailbox was disconnected is skipped.
func (r *Reconciler) Run(ctx context.Context) pipeline.Result {
	emails, err := r.store.ListSentWithThreads(ctx)
	if err != nil {
		return pipeline.Fail(err, true)
	}

	// One token per sending account for the whole sweep.
	creds := make(map[uuid.UUID]gmail.Credential)
	for _, email := range emails {
		cred, err := r.resolve(ctx, creds, email.GmailAccountID)
		if err != nil {
			if errors.Is(err, gmail.ErrNotConnected) {
				r.log.Info("reply_check_skipped", "thread_id", email.ThreadID, "reason", "gmail not connected")
				continue
			}
			return pipeline.Fail(err, true)
		}
		if err := r.checkThread(ctx, cred.AccessToken, email); err != nil {
			r.log.Error("reply_check_thread_failed", "thread_id", email.ThreadID, "error", err.Error())
		}
	}
	return pipeline.Done()
}

func (r *Reconciler) resolve(ctx context.Context, cache map[uuid.UUID]gmail.Credential, accountID *uuid.UUID) (gmail.Credential, error) {
	key := uuid.Nil
	if accountID != nil {
		key = *accountID
	}
	if cred, ok := cache[key]; ok {
		return cred, nil
	}
	cred, err := r.credentials.Resolve(ctx, accountID)
	if err != nil {
		return gmail.Credential{}, err
	}
	cache[key] = cred
	return cred, nil
}

func (r *Reconciler) checkThread(ctx context.Context, accessToken string, email repository.SentEmail) error {
	thread, err := r.threads.GetThread(ctx, accessToken, email.ThreadID)
	if err != nil {
		return err
	}

	localCount, err := r.store.CountThreadMessages(ctx, email.ThreadID)
	if err != nil {
		return err
	}
	if len(thread.Messages) <= localCount {
		return nil
	}

	if err := r.store.MarkEmailReplied(ctx, email.ID); err != nil {
		return err
	}
	if email.CampaignID != nil {
		repliedAt := r.now()
		if err := r.store.MarkReplied(ctx, *email.CampaignID, email.ContactID, repliedAt); err != nil {
			return err
		}
	}

	contactID := email.ContactID
	return r.store.InsertActivity(ctx, repository.InsertActivityParams{
		ContactID:  &contactID,
		CampaignID: email.CampaignID,
		Type:       activity.TypeEmailReplied,
	})
}
