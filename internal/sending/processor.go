// Package sending delivers approved emails through a connected mailbox and
// reconciles sent threads for replies.
package sending

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/gmail"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

// Store is the persistence the send processor needs.
type Store interface {
	GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error)
	ClaimStage(ctx context.Context, id uuid.UUID, from, to pipeline.Stage) (bool, error)
	SetStage(ctx context.Context, id uuid.UUID, stage pipeline.Stage) error
	CompleteSend(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	InsertEmail(ctx context.Context, params repository.InsertEmailParams) (uuid.UUID, error)
	InsertActivity(ctx context.Context, params repository.InsertActivityParams) error
}

// Credentials resolves a usable mailbox token.
type Credentials interface {
	Resolve(ctx context.Context, accountID *uuid.UUID) (gmail.Credential, error)
}

// Mailer talks to the mail provider.
type Mailer interface {
	Send(ctx context.Context, accessToken, from, to, subject, body string) (gmail.SendResult, error)
	Profile(ctx context.Context, accessToken string) (string, error)
}

// Processor sends one approved email per queued campaign contact.
type Processor struct {
	store       Store
	credentials Credentials
	mailer      Mailer
	log         *logger.Logger
	now         func() time.Time
}

// NewProcessor creates a send processor.
func NewProcessor(store Store, credentials Credentials, mailer Mailer, log *logger.Logger) *Processor {
	return &Processor{
		store:       store,
		credentials: credentials,
		mailer:      mailer,
		log:         log,
		now:         time.Now,
	}
}

// Send delivers the approved email for a campaign contact. A contact no
// longer waiting to send is treated as already handled.
func (p *Processor) Send(ctx context.Context, campaignContactID uuid.UUID) pipeline.Result {
	detail, err := p.store.GetDetail(ctx, campaignContactID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return pipeline.Done()
		}
		return pipeline.Fail(err, true)
	}
	if detail.Stage != pipeline.StageQueuedSend {
		return pipeline.Done()
	}

	claimed, err := p.store.ClaimStage(ctx, campaignContactID, pipeline.StageQueuedSend, pipeline.StageSending)
	if err != nil {
		return pipeline.Fail(err, true)
	}
	if !claimed {
		return pipeline.Done()
	}

	if err := p.send(ctx, detail); err != nil {
		if revertErr := p.store.SetStage(ctx, campaignContactID, pipeline.StageApproved); revertErr != nil {
			p.log.Error("send_revert_failed", "campaign_contact_id", campaignContactID.String(), "error", revertErr.Error())
		}
		return pipeline.Fail(err, retryable(err))
	}
	return pipeline.Done()
}

// retryable classifies send failures: rejected credentials need a human to
// reconnect the mailbox, and missing approved content cannot appear on its
// own, so neither is worth redelivering.
func retryable(err error) bool {
	if gmail.IsAuthError(err) {
		return false
	}
	return apperr.GetKind(err) != apperr.KindBadRequest
}

func (p *Processor) send(ctx context.Context, detail repository.Detail) error {
	// Approval is mandatory. The draft fields are deliberately not a
	// fallback here.
	if detail.FinalSubject == nil || detail.FinalBody == nil {
		return apperr.BadRequest("email must be approved before sending")
	}

	cred, err := p.credentials.Resolve(ctx, detail.Campaign.GmailAccountID)
	if err != nil {
		return err
	}

	from, err := p.mailer.Profile(ctx, cred.AccessToken)
	if err != nil {
		return fmt.Errorf("fetch sender profile: %w", err)
	}

	result, err := p.mailer.Send(ctx, cred.AccessToken, from, detail.Contact.Email, *detail.FinalSubject, *detail.FinalBody)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	sentAt := p.now()
	if err := p.store.CompleteSend(ctx, detail.ID, sentAt); err != nil {
		return err
	}

	campaignID := detail.CampaignID
	accountID := cred.AccountID
	threadID := result.ThreadID
	messageID := result.MessageID
	if _, err := p.store.InsertEmail(ctx, repository.InsertEmailParams{
		ContactID:      detail.ContactID,
		CampaignID:     &campaignID,
		GmailAccountID: &accountID,
		ThreadID:       &threadID,
		MessageID:      &messageID,
		Direction:      "outbound",
		Subject:        detail.FinalSubject,
		Body:           detail.FinalBody,
		Status:         "sent",
		SentAt:         sentAt,
	}); err != nil {
		return err
	}

	metadata, err := json.Marshal(map[string]string{"threadId": result.ThreadID, "messageId": result.MessageID})
	if err != nil {
		return fmt.Errorf("marshal send metadata: %w", err)
	}
	contactID := detail.ContactID
	return p.store.InsertActivity(ctx, repository.InsertActivityParams{
		ContactID:  &contactID,
		CampaignID: &campaignID,
		Type:       activity.TypeEmailSent,
		Metadata:   metadata,
	})
}
