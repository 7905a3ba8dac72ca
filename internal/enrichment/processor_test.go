package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/campaigns/repository"
	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

type fakeStore struct {
	detail        repository.Detail
	detailErr     error
	claimed       bool
	claimCalled   bool
	stageSet      *pipeline.Stage
	completedData []byte
	completedScore int
	companyData   []byte
	activities    []repository.InsertActivityParams
}

func (f *fakeStore) GetDetail(ctx context.Context, id uuid.UUID) (repository.Detail, error) {
	if f.detailErr != nil {
		return repository.Detail{}, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeStore) ClaimStage(ctx context.Context, id uuid.UUID, from, to pipeline.Stage) (bool, error) {
	f.claimCalled = true
	return f.claimed, nil
}

func (f *fakeStore) SetStage(ctx context.Context, id uuid.UUID, stage pipeline.Stage) error {
	f.stageSet = &stage
	return nil
}

func (f *fakeStore) CompleteEnrichment(ctx context.Context, id uuid.UUID, data []byte, score int) error {
	f.completedData = data
	f.completedScore = score
	return nil
}

func (f *fakeStore) CopyCompanyEnrichment(ctx context.Context, companyID uuid.UUID, data []byte) error {
	f.companyData = data
	return nil
}

func (f *fakeStore) InsertActivity(ctx context.Context, params repository.InsertActivityParams) error {
	f.activities = append(f.activities, params)
	return nil
}

type fakeSearcher struct {
	queries []SearchParams
	results map[string][]SearchResult
	err     error
}

func (f *fakeSearcher) Search(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	f.queries = append(f.queries, params)
	if f.err != nil {
		return nil, f.err
	}
	if params.Category == "news" {
		return f.results["news"], nil
	}
	return f.results["primary"], nil
}

type fakeProducts struct {
	template string
	err      error
}

func (f *fakeProducts) QueryTemplate(ctx context.Context, productID string) (string, error) {
	return f.template, f.err
}

func queuedDetail() repository.Detail {
	companyID := uuid.New()
	return repository.Detail{
		CampaignContact: repository.CampaignContact{
			ID:        uuid.New(),
			ContactID: uuid.New(),
			Stage:     pipeline.StageQueuedEnrich,
		},
		Contact: repository.ContactInfo{Email: "jane@acme.io"},
		Company: &repository.CompanyInfo{ID: companyID, Name: "Acme Legal"},
		Campaign: repository.CampaignInfo{
			ProductID: "file-logic",
		},
	}
}

func newTestProcessor(store *fakeStore, search *fakeSearcher, products *fakeProducts) *Processor {
	p := NewProcessor(store, search, products, logger.New("test"))
	p.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestEnrichSkipsWrongStage(t *testing.T) {
	store := &fakeStore{detail: queuedDetail()}
	store.detail.Stage = pipeline.StageDrafted
	search := &fakeSearcher{}

	r := newTestProcessor(store, search, &fakeProducts{}).Enrich(context.Background(), store.detail.ID, uuid.New())
	if !r.Success {
		t.Fatalf("expected no-op success, got %+v", r)
	}
	if store.claimCalled {
		t.Error("must not claim a contact at another stage")
	}
	if len(search.queries) != 0 {
		t.Error("must not search for a contact at another stage")
	}
}

func TestEnrichSkipsMissingContact(t *testing.T) {
	store := &fakeStore{detailErr: apperr.NotFound("campaign contact not found")}

	r := newTestProcessor(store, &fakeSearcher{}, &fakeProducts{}).Enrich(context.Background(), uuid.New(), uuid.New())
	if !r.Success {
		t.Fatalf("expected no-op success for deleted contact, got %+v", r)
	}
}

func TestEnrichHappyPath(t *testing.T) {
	store := &fakeStore{detail: queuedDetail(), claimed: true}
	search := &fakeSearcher{results: map[string][]SearchResult{
		"primary": {
			{Title: "Acme hiring new attorneys amid backlog", URL: "https://acme.io/about", Text: strings.Repeat("a", 150)},
			{Title: "Case volume report", URL: "https://acme.io/report", Text: strings.Repeat("b", 150)},
		},
		"news": {
			{Title: "Acme opens new office", URL: "https://news.example/acme", Text: strings.Repeat("c", 150)},
		},
	}}
	products := &fakeProducts{template: "{{companyName}} law firm operations"}

	r := newTestProcessor(store, search, products).Enrich(context.Background(), store.detail.ID, uuid.New())
	if !r.Success {
		t.Fatalf("expected success, got %+v", r)
	}

	var data Data
	if err := json.Unmarshal(store.completedData, &data); err != nil {
		t.Fatalf("unmarshal blob: %v", err)
	}
	if data.Query != "Acme Legal law firm operations" {
		t.Errorf("unexpected query %q", data.Query)
	}
	if data.CompanyName != "Acme Legal" {
		t.Errorf("unexpected company name %q", data.CompanyName)
	}
	if !data.HasRecentNews {
		t.Error("expected recent news flag")
	}
	if data.QualityReasons[0] != "Recent news found" {
		t.Errorf("expected news reason first, got %v", data.QualityReasons)
	}
	if data.CompanyResultCount != 2 || data.NewsResultCount != 1 {
		t.Errorf("unexpected counts %d/%d", data.CompanyResultCount, data.NewsResultCount)
	}
	if data.QualityScore != store.completedScore {
		t.Errorf("blob score %d disagrees with column %d", data.QualityScore, store.completedScore)
	}
	if store.companyData == nil {
		t.Error("expected first enrichment copied onto company")
	}
	if len(store.activities) != 1 || store.activities[0].Type != "enrichment_completed" {
		t.Errorf("unexpected activities %+v", store.activities)
	}
}

func TestEnrichDoesNotOverwriteEnrichedCompany(t *testing.T) {
	store := &fakeStore{detail: queuedDetail(), claimed: true}
	enrichedAt := time.Now()
	store.detail.Company.EnrichedAt = &enrichedAt
	search := &fakeSearcher{results: map[string][]SearchResult{}}

	r := newTestProcessor(store, search, &fakeProducts{template: "{{companyName}}"}).Enrich(context.Background(), store.detail.ID, uuid.New())
	if !r.Success {
		t.Fatalf("expected success, got %+v", r)
	}
	if store.companyData != nil {
		t.Error("must not overwrite an already enriched company")
	}
}

func TestEnrichRevertsOnSearchFailure(t *testing.T) {
	store := &fakeStore{detail: queuedDetail(), claimed: true}
	search := &fakeSearcher{err: errors.New("exa search: status 503")}

	r := newTestProcessor(store, search, &fakeProducts{template: "{{companyName}}"}).Enrich(context.Background(), store.detail.ID, uuid.New())
	if r.Success {
		t.Fatal("expected failure")
	}
	if !r.Retryable {
		t.Error("search failures must be retryable")
	}
	if store.stageSet == nil || *store.stageSet != pipeline.StageNew {
		t.Errorf("expected revert to new, got %v", store.stageSet)
	}
}

func TestEnrichMissingProductIsNotRetryable(t *testing.T) {
	store := &fakeStore{detail: queuedDetail(), claimed: true}
	products := &fakeProducts{err: apperr.NotFound("product not found")}

	r := newTestProcessor(store, &fakeSearcher{}, products).Enrich(context.Background(), store.detail.ID, uuid.New())
	if r.Success {
		t.Fatal("expected failure")
	}
	if r.Retryable {
		t.Errorf("a missing product cannot be fixed by retrying, got %+v", r)
	}
	if store.stageSet == nil || *store.stageSet != pipeline.StageNew {
		t.Errorf("expected revert to new, got %v", store.stageSet)
	}
}

func TestCompanyDisplayName(t *testing.T) {
	cases := []struct {
		name   string
		detail repository.Detail
		want   string
	}{
		{
			name: "company record wins",
			detail: repository.Detail{
				Contact: repository.ContactInfo{Email: "x@beta.com"},
				Company: &repository.CompanyInfo{Name: "Alpha"},
			},
			want: "Alpha",
		},
		{
			name:   "email domain label",
			detail: repository.Detail{Contact: repository.ContactInfo{Email: "x@beta.example.com"}},
			want:   "beta",
		},
		{
			name:   "no usable source",
			detail: repository.Detail{Contact: repository.ContactInfo{Email: "not-an-email"}},
			want:   "company",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := companyDisplayName(tc.detail); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMergeResultsDedupes(t *testing.T) {
	primary := []SearchResult{
		{Title: "primary a", URL: "https://a"},
		{Title: "primary b", URL: "https://b"},
	}
	news := []SearchResult{
		{Title: "news b", URL: "https://b"},
		{Title: "news c", URL: "https://c"},
	}

	merged := mergeResults(primary, news)
	if len(merged) != 3 {
		t.Fatalf("expected 3 results, got %d", len(merged))
	}
	if merged[1].Title != "primary b" {
		t.Errorf("primary result must win the duplicate URL, got %q", merged[1].Title)
	}
	if merged[2].URL != "https://c" {
		t.Errorf("unexpected tail %q", merged[2].URL)
	}
}
