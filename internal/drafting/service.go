package drafting

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/campaigns/repository"
)

// RegenStore is the persistence draft regeneration needs.
type RegenStore interface {
	GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error)
	SaveRegeneratedDraft(ctx context.Context, id uuid.UUID, subject, body, hook string, feedback *string) (repository.CampaignContact, error)
	InsertActivity(ctx context.Context, params repository.InsertActivityParams) error
}

// Service rewrites drafts on demand. Unlike the queue processors it is
// user-initiated and not gated on a stage, since the reviewer works from the
// drafted stage and regeneration does not move it.
type Service struct {
	store    RegenStore
	products ProductSource
	gen      Generator
}

// NewService creates the regeneration service.
func NewService(store RegenStore, products ProductSource, gen Generator) *Service {
	return &Service{store: store, products: products, gen: gen}
}

// Regenerate produces a new draft for a campaign contact. With feedback and
// an existing draft the model revises it; otherwise it writes a fresh email
// distinct from prior versions.
func (s *Service) Regenerate(ctx context.Context, campaignContactID uuid.UUID, feedback *string) (repository.CampaignContact, error) {
	detail, err := s.store.GetDetail(ctx, campaignContactID)
	if err != nil {
		return repository.CampaignContact{}, err
	}

	product, err := s.products.GetByID(ctx, detail.Campaign.ProductID)
	if err != nil {
		return repository.CampaignContact{}, fmt.Errorf("resolve product: %w", err)
	}

	summary := buildSummary(detail.EnrichmentData)
	contact := recipientFor(detail)

	var prompt string
	if feedback != nil && *feedback != "" && detail.DraftSubject != nil && detail.DraftBody != nil {
		prompt = buildRevisionPrompt(*detail.DraftSubject, *detail.DraftBody, *feedback, contact.Name, contact.CompanyName, product.Name)
	} else {
		prompt = buildFreshDraftPrompt(product, contact, summary, detail.Campaign.TemplatePrompt)
	}

	response, err := s.gen.Generate(ctx, product.EmailSystemPrompt, prompt)
	if err != nil {
		return repository.CampaignContact{}, fmt.Errorf("regenerate draft: %w", err)
	}
	subject, body := ParseEmailResponse(response)

	hook := ""
	if detail.HookUsed != nil {
		hook = *detail.HookUsed
	}
	previousSubject := ""
	if detail.DraftSubject != nil {
		previousSubject = *detail.DraftSubject
	}

	cc, err := s.store.SaveRegeneratedDraft(ctx, campaignContactID, subject, body, hook, feedback)
	if err != nil {
		return repository.CampaignContact{}, err
	}

	meta := map[string]any{"regenerated": true, "previousSubject": previousSubject}
	if feedback != nil && *feedback != "" {
		meta["feedback"] = *feedback
	}
	metadata, err := json.Marshal(meta)
	if err != nil {
		return repository.CampaignContact{}, fmt.Errorf("marshal regeneration metadata: %w", err)
	}
	contactID := detail.ContactID
	campaignID := detail.CampaignID
	if err := s.store.InsertActivity(ctx, repository.InsertActivityParams{
		ContactID:  &contactID,
		CampaignID: &campaignID,
		Type:       activity.TypeDraftCreated,
		Metadata:   metadata,
	}); err != nil {
		return repository.CampaignContact{}, err
	}
	return cc, nil
}
