package drafting

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/pipeline"
	productrepo "outreach_backend/internal/products/repository"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

// Store is the persistence the drafting processor needs.
type Store interface {
	GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error)
	ClaimStage(ctx context.Context, id uuid.UUID, from, to pipeline.Stage) (bool, error)
	SetStage(ctx context.Context, id uuid.UUID, stage pipeline.Stage) error
	CompleteDraft(ctx context.Context, id uuid.UUID, subject, body, hook string) error
	InsertActivity(ctx context.Context, params repository.InsertActivityParams) error
}

// ProductSource resolves the product a campaign sells.
type ProductSource interface {
	GetByID(ctx context.Context, id string) (productrepo.Product, error)
}

// Generator produces model completions.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Processor writes one email draft per queued campaign contact.
type Processor struct {
	store    Store
	products ProductSource
	gen      Generator
	log      *logger.Logger
	rng      *rand.Rand
}

// NewProcessor creates a drafting processor.
func NewProcessor(store Store, products ProductSource, gen Generator, log *logger.Logger) *Processor {
	return &Processor{
		store:    store,
		products: products,
		gen:      gen,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Draft generates and stores an email draft. A contact no longer waiting for
// drafting is treated as already handled, so redelivered jobs are harmless.
func (p *Processor) Draft(ctx context.Context, campaignContactID, campaignID uuid.UUID) pipeline.Result {
	detail, err := p.store.GetDetail(ctx, campaignContactID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return pipeline.Done()
		}
		return pipeline.Fail(err, true)
	}
	if detail.Stage != pipeline.StageQueuedDraft {
		return pipeline.Done()
	}

	claimed, err := p.store.ClaimStage(ctx, campaignContactID, pipeline.StageQueuedDraft, pipeline.StageDrafting)
	if err != nil {
		return pipeline.Fail(err, true)
	}
	if !claimed {
		return pipeline.Done()
	}

	if err := p.draft(ctx, detail, campaignID); err != nil {
		if revertErr := p.store.SetStage(ctx, campaignContactID, pipeline.StageEnriched); revertErr != nil {
			p.log.Error("drafting_revert_failed", "campaign_contact_id", campaignContactID.String(), "error", revertErr.Error())
		}
		return pipeline.Fail(err, apperr.GetKind(err) != apperr.KindNotFound)
	}
	return pipeline.Done()
}

func (p *Processor) draft(ctx context.Context, detail repository.Detail, campaignID uuid.UUID) error {
	product, err := p.products.GetByID(ctx, detail.Campaign.ProductID)
	if err != nil {
		return fmt.Errorf("resolve product: %w", err)
	}

	summary := buildSummary(detail.EnrichmentData)
	contact := recipientFor(detail)

	hook, err := p.extractHook(ctx, summary, product, contact)
	if err != nil {
		return err
	}

	var example *productrepo.FewShot
	if len(product.FewShotExamples) > 0 {
		example = &product.FewShotExamples[p.rng.Intn(len(product.FewShotExamples))]
	}

	prompt := buildStructuredPrompt(product, contact, summary, hook, example, detail.Campaign.TemplatePrompt)
	response, err := p.gen.Generate(ctx, product.EmailSystemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("generate draft: %w", err)
	}

	subject, body := ParseEmailResponse(response)
	if err := p.store.CompleteDraft(ctx, detail.ID, subject, body, hook.Hook); err != nil {
		return err
	}

	metadata, err := json.Marshal(map[string]string{"hook": hook.Hook, "angle": hook.Angle})
	if err != nil {
		return fmt.Errorf("marshal draft metadata: %w", err)
	}
	contactID := detail.ContactID
	return p.store.InsertActivity(ctx, repository.InsertActivityParams{
		ContactID:  &contactID,
		CampaignID: &campaignID,
		Type:       activity.TypeDraftCreated,
		Metadata:   metadata,
	})
}

// extractHook asks the model for the strongest personalization angle.
// Malformed output degrades to a generic hook instead of failing the job.
func (p *Processor) extractHook(ctx context.Context, summary string, product productrepo.Product, contact recipient) (Hook, error) {
	response, err := p.gen.Generate(ctx, hookSystemPrompt, buildHookPrompt(summary, product, contact))
	if err != nil {
		return Hook{}, fmt.Errorf("extract hook: %w", err)
	}
	return parseHook(response, product.PainPoints), nil
}

func recipientFor(detail repository.Detail) recipient {
	var nameParts []string
	if detail.Contact.FirstName != nil && *detail.Contact.FirstName != "" {
		nameParts = append(nameParts, *detail.Contact.FirstName)
	}
	if detail.Contact.LastName != nil && *detail.Contact.LastName != "" {
		nameParts = append(nameParts, *detail.Contact.LastName)
	}
	name := "there"
	if len(nameParts) > 0 {
		name = strings.Join(nameParts, " ")
	}

	companyName := "their company"
	if detail.Company != nil && detail.Company.Name != "" {
		companyName = detail.Company.Name
	}

	title := "Unknown"
	if detail.Contact.Title != nil && *detail.Contact.Title != "" {
		title = *detail.Contact.Title
	}

	return recipient{
		Name:        name,
		Title:       title,
		CompanyName: companyName,
		Email:       detail.Contact.Email,
	}
}
