package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/apperr"
)

// CampaignContact is one contact's pass through a campaign's pipeline.
type CampaignContact struct {
	ID                uuid.UUID
	CampaignID        uuid.UUID
	ContactID         uuid.UUID
	Stage             pipeline.Stage
	EnrichmentData    []byte
	EnrichmentScore   *int
	DraftSubject      *string
	DraftBody         *string
	FinalSubject      *string
	FinalBody         *string
	HookUsed          *string
	RegenerationCount int
	LastFeedback      *string
	SentAt            *time.Time
	RepliedAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ContactInfo is the contact half of a pipeline detail row.
type ContactInfo struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Email     string
	Title     *string
	CompanyID *uuid.UUID
}

// CompanyInfo is the company half of a pipeline detail row.
type CompanyInfo struct {
	ID             uuid.UUID
	Name           string
	Domain         *string
	EnrichmentData []byte
	EnrichedAt     *time.Time
}

// CampaignInfo is the campaign half of a pipeline detail row.
type CampaignInfo struct {
	ID             uuid.UUID
	Name           string
	ProductID      string
	TemplatePrompt *string
	GmailAccountID *uuid.UUID
}

// Detail is a campaign contact joined with its contact, company and campaign.
type Detail struct {
	CampaignContact
	Contact  ContactInfo
	Company  *CompanyInfo
	Campaign CampaignInfo
}

const contactColumns = `cc.id, cc.campaign_id, cc.contact_id, cc.stage, cc.enrichment_data, cc.enrichment_score,
		cc.draft_subject, cc.draft_body, cc.final_subject, cc.final_body, cc.hook_used,
		cc.regeneration_count, cc.last_feedback, cc.sent_at, cc.replied_at, cc.created_at, cc.updated_at`

func scanContact(row pgx.Row) (CampaignContact, error) {
	var cc CampaignContact
	err := row.Scan(
		&cc.ID, &cc.CampaignID, &cc.ContactID, &cc.Stage, &cc.EnrichmentData, &cc.EnrichmentScore,
		&cc.DraftSubject, &cc.DraftBody, &cc.FinalSubject, &cc.FinalBody, &cc.HookUsed,
		&cc.RegenerationCount, &cc.LastFeedback, &cc.SentAt, &cc.RepliedAt, &cc.CreatedAt, &cc.UpdatedAt,
	)
	return cc, err
}

// AddContacts links contacts to a campaign at the initial stage. Pairs that
// already exist are left untouched. Returns the number of new pairs.
func (r *Repo) AddContacts(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID) (int, error) {
	query := `
		INSERT INTO campaign_contacts (campaign_id, contact_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT (campaign_id, contact_id) DO NOTHING`

	result, err := r.pool.Exec(ctx, query, campaignID, contactIDs)
	if err != nil {
		return 0, fmt.Errorf("add campaign contacts: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// GetContact retrieves a campaign contact by ID.
func (r *Repo) GetContact(ctx context.Context, id uuid.UUID) (CampaignContact, error) {
	query := `SELECT ` + contactColumns + ` FROM campaign_contacts cc WHERE cc.id = $1`

	cc, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CampaignContact{}, apperr.NotFound(contactPairNotFoundMsg)
		}
		return CampaignContact{}, fmt.Errorf("get campaign contact: %w", err)
	}
	return cc, nil
}

const detailFrom = `
	FROM campaign_contacts cc
	JOIN contacts c ON c.id = cc.contact_id
	LEFT JOIN companies co ON co.id = c.company_id
	JOIN campaigns ca ON ca.id = cc.campaign_id`

const detailColumns = contactColumns + `,
		c.id, c.first_name, c.last_name, c.email, c.title, c.company_id,
		co.id, co.name, co.domain, co.enrichment_data, co.enriched_at,
		ca.id, ca.name, ca.product_id, ca.template_prompt, ca.gmail_account_id`

func scanDetail(row pgx.Row) (Detail, error) {
	var d Detail
	var companyID *uuid.UUID
	var companyName, companyDomain *string
	var companyData []byte
	var companyEnrichedAt *time.Time
	err := row.Scan(
		&d.ID, &d.CampaignID, &d.ContactID, &d.Stage, &d.EnrichmentData, &d.EnrichmentScore,
		&d.DraftSubject, &d.DraftBody, &d.FinalSubject, &d.FinalBody, &d.HookUsed,
		&d.RegenerationCount, &d.LastFeedback, &d.SentAt, &d.RepliedAt, &d.CreatedAt, &d.UpdatedAt,
		&d.Contact.ID, &d.Contact.FirstName, &d.Contact.LastName, &d.Contact.Email, &d.Contact.Title, &d.Contact.CompanyID,
		&companyID, &companyName, &companyDomain, &companyData, &companyEnrichedAt,
		&d.Campaign.ID, &d.Campaign.Name, &d.Campaign.ProductID, &d.Campaign.TemplatePrompt, &d.Campaign.GmailAccountID,
	)
	if err != nil {
		return Detail{}, err
	}
	if companyID != nil {
		d.Company = &CompanyInfo{
			ID:             *companyID,
			Name:           derefString(companyName),
			Domain:         companyDomain,
			EnrichmentData: companyData,
			EnrichedAt:     companyEnrichedAt,
		}
	}
	return d, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetDetail retrieves a campaign contact joined with its contact, company
// and campaign rows.
func (r *Repo) GetDetail(ctx context.Context, id uuid.UUID) (Detail, error) {
	query := `SELECT ` + detailColumns + detailFrom + ` WHERE cc.id = $1`

	d, err := scanDetail(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, apperr.NotFound(contactPairNotFoundMsg)
		}
		return Detail{}, fmt.Errorf("get campaign contact detail: %w", err)
	}
	return d, nil
}

// ListByStage lists detail rows at a stage, optionally scoped to one campaign.
func (r *Repo) ListByStage(ctx context.Context, campaignID *uuid.UUID, stage pipeline.Stage) ([]Detail, error) {
	query := `SELECT ` + detailColumns + detailFrom + `
		WHERE cc.stage = $1 AND ($2::uuid IS NULL OR cc.campaign_id = $2)
		ORDER BY cc.updated_at DESC`

	rows, err := r.pool.Query(ctx, query, stage, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list by stage: %w", err)
	}
	defer rows.Close()

	details := make([]Detail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan detail: %w", err)
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListEligible lists a campaign's contacts at the given stage. When
// contactIDs is non-empty the result is limited to those contacts.
func (r *Repo) ListEligible(ctx context.Context, campaignID uuid.UUID, contactIDs []uuid.UUID, stage pipeline.Stage) ([]CampaignContact, error) {
	query := `SELECT ` + contactColumns + `
		FROM campaign_contacts cc
		WHERE cc.campaign_id = $1 AND cc.stage = $2
			AND (cardinality($3::uuid[]) = 0 OR cc.contact_id = ANY($3))
		ORDER BY cc.created_at`

	rows, err := r.pool.Query(ctx, query, campaignID, stage, contactIDs)
	if err != nil {
		return nil, fmt.Errorf("list eligible contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]CampaignContact, 0)
	for rows.Next() {
		cc, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign contact: %w", err)
		}
		contacts = append(contacts, cc)
	}
	return contacts, rows.Err()
}

// MarkStage moves a batch of campaign contacts to a stage.
func (r *Repo) MarkStage(ctx context.Context, ids []uuid.UUID, stage pipeline.Stage) error {
	query := `UPDATE campaign_contacts SET stage = $2, updated_at = now() WHERE id = ANY($1)`

	if _, err := r.pool.Exec(ctx, query, ids, stage); err != nil {
		return fmt.Errorf("mark stage: %w", err)
	}
	return nil
}

// ClaimStage atomically moves a campaign contact from one stage to another.
// It reports false when the row is not at the expected stage, which lets a
// redelivered job detect that the work already happened.
func (r *Repo) ClaimStage(ctx context.Context, id uuid.UUID, from, to pipeline.Stage) (bool, error) {
	query := `UPDATE campaign_contacts SET stage = $3, updated_at = now() WHERE id = $1 AND stage = $2`

	result, err := r.pool.Exec(ctx, query, id, from, to)
	if err != nil {
		return false, fmt.Errorf("claim stage: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// SetStage moves a campaign contact to a stage unconditionally.
func (r *Repo) SetStage(ctx context.Context, id uuid.UUID, stage pipeline.Stage) error {
	query := `UPDATE campaign_contacts SET stage = $2, updated_at = now() WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, stage); err != nil {
		return fmt.Errorf("set stage: %w", err)
	}
	return nil
}

// CompleteEnrichment stores enrichment output and advances to enriched.
func (r *Repo) CompleteEnrichment(ctx context.Context, id uuid.UUID, data []byte, score int) error {
	query := `
		UPDATE campaign_contacts
		SET stage = $2, enrichment_data = $3, enrichment_score = $4, updated_at = now()
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, pipeline.StageEnriched, data, score); err != nil {
		return fmt.Errorf("complete enrichment: %w", err)
	}
	return nil
}

// CompleteDraft stores the generated email and advances to drafted.
func (r *Repo) CompleteDraft(ctx context.Context, id uuid.UUID, subject, body, hook string) error {
	query := `
		UPDATE campaign_contacts
		SET stage = $2, draft_subject = $3, draft_body = $4, hook_used = $5, updated_at = now()
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, pipeline.StageDrafted, subject, body, hook); err != nil {
		return fmt.Errorf("complete draft: %w", err)
	}
	return nil
}

// CompleteSend records the send time and advances to sent.
func (r *Repo) CompleteSend(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE campaign_contacts
		SET stage = $2, sent_at = $3, updated_at = now()
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id, pipeline.StageSent, sentAt); err != nil {
		return fmt.Errorf("complete send: %w", err)
	}
	return nil
}

// MarkReplied moves a sent campaign contact to replied and stamps the time.
func (r *Repo) MarkReplied(ctx context.Context, campaignID, contactID uuid.UUID, at time.Time) error {
	query := `
		UPDATE campaign_contacts
		SET stage = $3, replied_at = $4, updated_at = now()
		WHERE campaign_id = $1 AND contact_id = $2 AND stage = $5`

	if _, err := r.pool.Exec(ctx, query, campaignID, contactID, pipeline.StageReplied, at, pipeline.StageSent); err != nil {
		return fmt.Errorf("mark replied: %w", err)
	}
	return nil
}

// Approve copies the draft into the final fields and advances to approved.
func (r *Repo) Approve(ctx context.Context, id uuid.UUID, finalSubject, finalBody string) (CampaignContact, error) {
	return r.updateReturning(ctx, `
		UPDATE campaign_contacts cc
		SET stage = $2, final_subject = $3, final_body = $4, updated_at = now()
		WHERE cc.id = $1
		RETURNING `+contactColumns, id, pipeline.StageApproved, finalSubject, finalBody)
}

// Reject moves a campaign contact to skipped.
func (r *Repo) Reject(ctx context.Context, id uuid.UUID) (CampaignContact, error) {
	return r.updateReturning(ctx, `
		UPDATE campaign_contacts cc
		SET stage = $2, updated_at = now()
		WHERE cc.id = $1
		RETURNING `+contactColumns, id, pipeline.StageSkipped)
}

// UpdateDraft patches the draft subject and body without moving the stage.
func (r *Repo) UpdateDraft(ctx context.Context, id uuid.UUID, subject, body *string) (CampaignContact, error) {
	return r.updateReturning(ctx, `
		UPDATE campaign_contacts cc
		SET draft_subject = COALESCE($2, draft_subject),
			draft_body = COALESCE($3, draft_body),
			updated_at = now()
		WHERE cc.id = $1
		RETURNING `+contactColumns, id, subject, body)
}

// SaveRegeneratedDraft stores a rewritten draft and bumps the revision count.
func (r *Repo) SaveRegeneratedDraft(ctx context.Context, id uuid.UUID, subject, body, hook string, feedback *string) (CampaignContact, error) {
	return r.updateReturning(ctx, `
		UPDATE campaign_contacts cc
		SET draft_subject = $2, draft_body = $3, hook_used = $4,
			regeneration_count = regeneration_count + 1,
			last_feedback = COALESCE($5, last_feedback),
			updated_at = now()
		WHERE cc.id = $1
		RETURNING `+contactColumns, id, subject, body, hook, feedback)
}

func (r *Repo) updateReturning(ctx context.Context, query string, args ...any) (CampaignContact, error) {
	cc, err := scanContact(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CampaignContact{}, apperr.NotFound(contactPairNotFoundMsg)
		}
		return CampaignContact{}, fmt.Errorf("update campaign contact: %w", err)
	}
	return cc, nil
}

// CopyCompanyEnrichment copies enrichment output onto a company that has not
// been enriched before. Later enrichments leave the company untouched.
func (r *Repo) CopyCompanyEnrichment(ctx context.Context, companyID uuid.UUID, data []byte) error {
	query := `
		UPDATE companies
		SET enrichment_data = $2, enriched_at = now(), updated_at = now()
		WHERE id = $1 AND enriched_at IS NULL`

	if _, err := r.pool.Exec(ctx, query, companyID, data); err != nil {
		return fmt.Errorf("copy company enrichment: %w", err)
	}
	return nil
}
