// Package repository provides persistence for the product catalog that
// drives enrichment queries and email generation.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/platform/apperr"
)

const productNotFoundMessage = "product not found"

// Repo implements the products repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new products repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// FewShot is one calibration example for the drafting prompt.
type FewShot struct {
	Context string `json:"context"`
	Hook    string `json:"hook"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Product is the template data one offering contributes to the pipeline.
type Product struct {
	ID                      string
	Name                    string
	Description             string
	ValueProps              []string
	TargetAudience          string
	EnrichmentQueryTemplate string
	EmailSystemPrompt       string
	PainPoints              []string
	AntiPatterns            []string
	FewShotExamples         []FewShot
	IsDefault               bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

const productColumns = `id, name, description, value_props, target_audience, enrichment_query_template,
		email_system_prompt, pain_points, anti_patterns, few_shot_examples, is_default, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var valueProps, painPoints, antiPatterns, fewShots []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &valueProps, &p.TargetAudience, &p.EnrichmentQueryTemplate,
		&p.EmailSystemPrompt, &painPoints, &antiPatterns, &fewShots, &p.IsDefault, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	for _, field := range []struct {
		raw  []byte
		dest any
	}{
		{valueProps, &p.ValueProps},
		{painPoints, &p.PainPoints},
		{antiPatterns, &p.AntiPatterns},
		{fewShots, &p.FewShotExamples},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return Product{}, fmt.Errorf("decode product field: %w", err)
		}
	}
	return p, nil
}

// GetByID retrieves a product.
func (r *Repo) GetByID(ctx context.Context, id string) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lists all products, defaults first.
func (r *Repo) List(ctx context.Context) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY is_default DESC, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// SaveParams holds the writable product fields.
type SaveParams struct {
	ID                      string
	Name                    string
	Description             string
	ValueProps              []string
	TargetAudience          string
	EnrichmentQueryTemplate string
	EmailSystemPrompt       string
	PainPoints              []string
	AntiPatterns            []string
	FewShotExamples         []FewShot
}

func marshalJSONField(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode product field: %w", err)
	}
	return data, nil
}

// Create inserts a product.
func (r *Repo) Create(ctx context.Context, params SaveParams) (Product, error) {
	valueProps, err := marshalJSONField(orEmpty(params.ValueProps))
	if err != nil {
		return Product{}, err
	}
	painPoints, err := marshalJSONField(orEmpty(params.PainPoints))
	if err != nil {
		return Product{}, err
	}
	antiPatterns, err := marshalJSONField(orEmpty(params.AntiPatterns))
	if err != nil {
		return Product{}, err
	}
	fewShots, err := marshalJSONField(orEmptyShots(params.FewShotExamples))
	if err != nil {
		return Product{}, err
	}

	query := `
		INSERT INTO products (id, name, description, value_props, target_audience, enrichment_query_template,
			email_system_prompt, pain_points, anti_patterns, few_shot_examples)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Description, valueProps, params.TargetAudience,
		params.EnrichmentQueryTemplate, params.EmailSystemPrompt, painPoints, antiPatterns, fewShots,
	))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Update rewrites a product's writable fields.
func (r *Repo) Update(ctx context.Context, params SaveParams) (Product, error) {
	valueProps, err := marshalJSONField(orEmpty(params.ValueProps))
	if err != nil {
		return Product{}, err
	}
	painPoints, err := marshalJSONField(orEmpty(params.PainPoints))
	if err != nil {
		return Product{}, err
	}
	antiPatterns, err := marshalJSONField(orEmpty(params.AntiPatterns))
	if err != nil {
		return Product{}, err
	}
	fewShots, err := marshalJSONField(orEmptyShots(params.FewShotExamples))
	if err != nil {
		return Product{}, err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, value_props = $4, target_audience = $5,
			enrichment_query_template = $6, email_system_prompt = $7,
			pain_points = $8, anti_patterns = $9, few_shot_examples = $10, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Description, valueProps, params.TargetAudience,
		params.EnrichmentQueryTemplate, params.EmailSystemPrompt, painPoints, antiPatterns, fewShots,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound(productNotFoundMessage)
		}
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete removes a product. Seeded defaults and products referenced by a
// campaign stay put.
func (r *Repo) Delete(ctx context.Context, id string) error {
	var isDefault bool
	err := r.pool.QueryRow(ctx, `SELECT is_default FROM products WHERE id = $1`, id).Scan(&isDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(productNotFoundMessage)
		}
		return fmt.Errorf("get product: %w", err)
	}
	if isDefault {
		return apperr.Conflict("default products cannot be deleted")
	}

	var inUse bool
	err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM campaigns WHERE product_id = $1)`, id).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("check product usage: %w", err)
	}
	if inUse {
		return apperr.Conflict("product is used by a campaign")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// QueryTemplate returns the enrichment query template for a product.
func (r *Repo) QueryTemplate(ctx context.Context, id string) (string, error) {
	var template string
	err := r.pool.QueryRow(ctx, `SELECT enrichment_query_template FROM products WHERE id = $1`, id).Scan(&template)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(productNotFoundMessage)
		}
		return "", fmt.Errorf("get query template: %w", err)
	}
	return template, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyShots(s []FewShot) []FewShot {
	if s == nil {
		return []FewShot{}
	}
	return s
}
