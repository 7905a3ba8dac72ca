// Package repository provides persistence for campaigns, their pipeline
// contacts, sent emails, and the activity audit trail.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/internal/pipeline"
	"outreach_backend/platform/apperr"
)

const (
	campaignNotFoundMessage = "campaign not found"
	contactPairNotFoundMsg  = "campaign contact not found"
)

// Repo implements the campaigns repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new campaigns repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Campaign is an outreach campaign bound to one product and one mailbox.
type Campaign struct {
	ID             uuid.UUID
	Name           string
	ProductID      string
	Description    *string
	TemplatePrompt *string
	GmailAccountID *uuid.UUID
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateCampaignParams holds the fields for creating a campaign.
type CreateCampaignParams struct {
	Name           string
	ProductID      string
	Description    *string
	TemplatePrompt *string
	GmailAccountID *uuid.UUID
}

// UpdateCampaignParams holds the optional fields for updating a campaign.
type UpdateCampaignParams struct {
	ID             uuid.UUID
	Name           *string
	Description    *string
	TemplatePrompt *string
	GmailAccountID *uuid.UUID
	Status         *string
}

const campaignColumns = `id, name, product_id, description, template_prompt, gmail_account_id, status, created_at, updated_at`

func scanCampaign(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.ProductID, &c.Description, &c.TemplatePrompt,
		&c.GmailAccountID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// CreateCampaign creates a campaign.
func (r *Repo) CreateCampaign(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	query := `
		INSERT INTO campaigns (name, product_id, description, template_prompt, gmail_account_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + campaignColumns

	c, err := scanCampaign(r.pool.QueryRow(ctx, query,
		params.Name, params.ProductID, params.Description, params.TemplatePrompt, params.GmailAccountID,
	))
	if err != nil {
		return Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

// GetCampaign retrieves a campaign by ID.
func (r *Repo) GetCampaign(ctx context.Context, id uuid.UUID) (Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

	c, err := scanCampaign(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

// ListCampaigns lists all campaigns, newest first.
func (r *Repo) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// UpdateCampaign updates a campaign's mutable fields.
func (r *Repo) UpdateCampaign(ctx context.Context, params UpdateCampaignParams) (Campaign, error) {
	query := `
		UPDATE campaigns
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			template_prompt = COALESCE($4, template_prompt),
			gmail_account_id = COALESCE($5, gmail_account_id),
			status = COALESCE($6, status),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + campaignColumns

	c, err := scanCampaign(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Description, params.TemplatePrompt, params.GmailAccountID, params.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("update campaign: %w", err)
	}
	return c, nil
}

// DeleteCampaign deletes a campaign and cascades to its pipeline contacts.
func (r *Repo) DeleteCampaign(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(campaignNotFoundMessage)
	}
	return nil
}

// StageCounts returns the per-stage histogram for a campaign's contacts.
func (r *Repo) StageCounts(ctx context.Context, campaignID uuid.UUID) (map[pipeline.Stage]int, error) {
	query := `
		SELECT stage, COUNT(*)
		FROM campaign_contacts
		WHERE campaign_id = $1
		GROUP BY stage`

	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("stage counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[pipeline.Stage]int)
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, fmt.Errorf("scan stage count: %w", err)
		}
		counts[pipeline.Stage(stage)] = count
	}
	return counts, rows.Err()
}
