package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"outreach_backend/platform/apperr"
)

// Company is an organization contacts belong to. Enrichment results are
// cached here so later contacts at the same company reuse them.
type Company struct {
	ID             uuid.UUID
	Name           string
	Domain         *string
	EnrichmentData []byte
	EnrichedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateCompanyParams holds the fields for creating a company.
type CreateCompanyParams struct {
	Name   string
	Domain *string
}

const companyColumns = `id, name, domain, enrichment_data, enriched_at, created_at, updated_at`

func scanCompany(row pgx.Row) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Domain, &c.EnrichmentData, &c.EnrichedAt, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCompany inserts a new company.
func (r *Repo) CreateCompany(ctx context.Context, params CreateCompanyParams) (Company, error) {
	query := `
		INSERT INTO companies (name, domain)
		VALUES ($1, $2)
		RETURNING ` + companyColumns

	c, err := scanCompany(r.pool.QueryRow(ctx, query, params.Name, params.Domain))
	if err != nil {
		return Company{}, fmt.Errorf("create company: %w", err)
	}
	return c, nil
}

// GetCompany retrieves a company by ID.
func (r *Repo) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, apperr.NotFound(companyNotFoundMsg)
		}
		return Company{}, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// ListCompanies lists all companies.
func (r *Repo) ListCompanies(ctx context.Context) ([]Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// DeleteCompany removes a company. Contacts keep their rows with company_id
// cleared by the foreign key.
func (r *Repo) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(companyNotFoundMsg)
	}
	return nil
}
