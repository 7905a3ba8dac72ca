package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"outreach_backend/internal/activity"
	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

// socialDomains are excluded from the primary research query so results stay
// on company-owned pages and press coverage.
var socialDomains = []string{
	"linkedin.com", "twitter.com", "x.com", "facebook.com", "instagram.com", "youtube.com",
}

// Store is the persistence the enrichment processor needs.
type Store interface {
	GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error)
	ClaimStage(ctx context.Context, id uuid.UUID, from, to pipeline.Stage) (bool, error)
	SetStage(ctx context.Context, id uuid.UUID, stage pipeline.Stage) error
	CompleteEnrichment(ctx context.Context, id uuid.UUID, data []byte, score int) error
	CopyCompanyEnrichment(ctx context.Context, companyID uuid.UUID, data []byte) error
	InsertActivity(ctx context.Context, params repository.InsertActivityParams) error
}

// Searcher runs research queries.
type Searcher interface {
	Search(ctx context.Context, params SearchParams) ([]SearchResult, error)
}

// ProductSource resolves the product a campaign sells.
type ProductSource interface {
	QueryTemplate(ctx context.Context, productID string) (string, error)
}

// Data is the enrichment blob persisted on the campaign contact and,
// first time only, on the company.
type Data struct {
	Version            int            `json:"version"`
	Query              string         `json:"query"`
	CompanyName        string         `json:"companyName"`
	Results            []SearchResult `json:"results"`
	CompanyResultCount int            `json:"companyResultCount"`
	NewsResultCount    int            `json:"newsResultCount"`
	HasRecentNews      bool           `json:"hasRecentNews"`
	QualityScore       int            `json:"qualityScore"`
	QualityReasons     []string       `json:"qualityReasons"`
	EnrichedAt         string         `json:"enrichedAt"`
}

// Processor researches one campaign contact's company.
type Processor struct {
	store    Store
	search   Searcher
	products ProductSource
	log      *logger.Logger
	now      func() time.Time
}

// NewProcessor creates an enrichment processor.
func NewProcessor(store Store, search Searcher, products ProductSource, log *logger.Logger) *Processor {
	return &Processor{
		store:    store,
		search:   search,
		products: products,
		log:      log,
		now:      time.Now,
	}
}

// Enrich researches the contact's company and stores the scored findings.
// A contact that is no longer waiting for enrichment is treated as already
// handled, which makes redelivered jobs harmless.
func (p *Processor) Enrich(ctx context.Context, campaignContactID, campaignID uuid.UUID) pipeline.Result {
	detail, err := p.store.GetDetail(ctx, campaignContactID)
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return pipeline.Done()
		}
		return pipeline.Fail(err, true)
	}
	if detail.Stage != pipeline.StageQueuedEnrich {
		return pipeline.Done()
	}

	claimed, err := p.store.ClaimStage(ctx, campaignContactID, pipeline.StageQueuedEnrich, pipeline.StageEnriching)
	if err != nil {
		return pipeline.Fail(err, true)
	}
	if !claimed {
		return pipeline.Done()
	}

	if err := p.enrich(ctx, detail, campaignID); err != nil {
		// A failed attempt re-enters the producer-eligible pool.
		if revertErr := p.store.SetStage(ctx, campaignContactID, pipeline.StageNew); revertErr != nil {
			p.log.Error("enrichment_revert_failed", "campaign_contact_id", campaignContactID.String(), "error", revertErr.Error())
		}
		// A missing product is a precondition violation; retrying cannot fix it.
		return pipeline.Fail(err, apperr.GetKind(err) != apperr.KindNotFound)
	}
	return pipeline.Done()
}

func (p *Processor) enrich(ctx context.Context, detail repository.Detail, campaignID uuid.UUID) error {
	template, err := p.products.QueryTemplate(ctx, detail.Campaign.ProductID)
	if err != nil {
		return fmt.Errorf("resolve product: %w", err)
	}

	companyName := companyDisplayName(detail)
	productQuery := strings.ReplaceAll(template, "{{companyName}}", companyName)

	var companyResults, newsResults []SearchResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companyResults, err = p.search.Search(gctx, SearchParams{
			Query:          productQuery,
			ExcludeDomains: socialDomains,
		})
		return err
	})
	g.Go(func() error {
		var err error
		newsResults, err = p.search.Search(gctx, SearchParams{
			Query:              companyName + " recent news announcement",
			Category:           "news",
			StartPublishedDate: p.now().AddDate(0, -6, 0).Format(time.RFC3339),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("research queries: %w", err)
	}

	merged := mergeResults(companyResults, newsResults)
	score, reasons := Score(detail.Campaign.ProductID, merged)

	hasRecentNews := len(newsResults) > 0
	if hasRecentNews {
		score = min(score+2, 10)
		reasons = append([]string{"Recent news found"}, reasons...)
	}

	data, err := json.Marshal(Data{
		Version:            1,
		Query:              productQuery,
		CompanyName:        companyName,
		Results:            merged,
		CompanyResultCount: len(companyResults),
		NewsResultCount:    len(newsResults),
		HasRecentNews:      hasRecentNews,
		QualityScore:       score,
		QualityReasons:     reasons,
		EnrichedAt:         p.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal enrichment data: %w", err)
	}

	if err := p.store.CompleteEnrichment(ctx, detail.ID, data, score); err != nil {
		return err
	}

	if detail.Company != nil && detail.Company.EnrichedAt == nil {
		if err := p.store.CopyCompanyEnrichment(ctx, detail.Company.ID, data); err != nil {
			return err
		}
	}

	contactID := detail.ContactID
	if err := p.store.InsertActivity(ctx, repository.InsertActivityParams{
		ContactID:  &contactID,
		CampaignID: &campaignID,
		Type:       activity.TypeEnrichmentCompleted,
	}); err != nil {
		return err
	}
	return nil
}

// companyDisplayName picks a name for the research query: the company record,
// else the first label of the contact's email domain, else a placeholder.
func companyDisplayName(detail repository.Detail) string {
	if detail.Company != nil && detail.Company.Name != "" {
		return detail.Company.Name
	}
	if _, domain, ok := strings.Cut(detail.Contact.Email, "@"); ok {
		if label, _, _ := strings.Cut(domain, "."); label != "" {
			return label
		}
	}
	return "company"
}

// mergeResults combines both query result sets, dropping later duplicates of
// a URL. Primary results keep precedence by coming first.
func mergeResults(primary, news []SearchResult) []SearchResult {
	seen := make(map[string]struct{}, len(primary)+len(news))
	merged := make([]SearchResult, 0, len(primary)+len(news))
	for _, r := range append(append([]SearchResult{}, primary...), news...) {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		merged = append(merged, r)
	}
	return merged
}
