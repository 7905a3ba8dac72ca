// Package repository provides data access for contacts and companies.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach_backend/platform/apperr"
)

// Repo provides data access for contacts and companies.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new contacts repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const (
	contactNotFoundMsg = "contact not found"
	companyNotFoundMsg = "company not found"
)

// Contact is a person the pipeline can reach out to.
type Contact struct {
	ID          uuid.UUID
	CompanyID   *uuid.UUID
	FirstName   *string
	LastName    *string
	Email       string
	Title       *string
	LinkedInURL *string
	Phone       *string
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateContactParams holds the fields for creating a contact.
type CreateContactParams struct {
	CompanyID   *uuid.UUID
	FirstName   *string
	LastName    *string
	Email       string
	Title       *string
	LinkedInURL *string
	Phone       *string
	Notes       *string
}

// UpdateContactParams holds the optional fields for updating a contact.
type UpdateContactParams struct {
	ID          uuid.UUID
	CompanyID   *uuid.UUID
	FirstName   *string
	LastName    *string
	Email       *string
	Title       *string
	LinkedInURL *string
	Phone       *string
	Notes       *string
}

const contactColumns = `id, company_id, first_name, last_name, email, title, linkedin_url, phone, notes, created_at, updated_at`

func scanContact(row pgx.Row) (Contact, error) {
	var c Contact
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.FirstName, &c.LastName, &c.Email,
		&c.Title, &c.LinkedInURL, &c.Phone, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// CreateContact inserts a new contact. A duplicate email yields a conflict.
func (r *Repo) CreateContact(ctx context.Context, params CreateContactParams) (Contact, error) {
	query := `
		INSERT INTO contacts (company_id, first_name, last_name, email, title, linkedin_url, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (email) DO NOTHING
		RETURNING ` + contactColumns

	c, err := scanContact(r.pool.QueryRow(ctx, query,
		params.CompanyID, params.FirstName, params.LastName, params.Email,
		params.Title, params.LinkedInURL, params.Phone, params.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, apperr.Conflict("a contact with this email already exists")
		}
		return Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

// GetContact retrieves a contact by ID.
func (r *Repo) GetContact(ctx context.Context, id uuid.UUID) (Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	c, err := scanContact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, apperr.NotFound(contactNotFoundMsg)
		}
		return Contact{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// ListContacts lists contacts, optionally filtered by company.
func (r *Repo) ListContacts(ctx context.Context, companyID *uuid.UUID) ([]Contact, error) {
	query := `
		SELECT ` + contactColumns + ` FROM contacts
		WHERE $1::uuid IS NULL OR company_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := make([]Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// UpdateContact applies the non-nil fields and returns the updated contact.
func (r *Repo) UpdateContact(ctx context.Context, params UpdateContactParams) (Contact, error) {
	query := `
		UPDATE contacts SET
			company_id = COALESCE($2, company_id),
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			email = COALESCE($5, email),
			title = COALESCE($6, title),
			linkedin_url = COALESCE($7, linkedin_url),
			phone = COALESCE($8, phone),
			notes = COALESCE($9, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + contactColumns

	c, err := scanContact(r.pool.QueryRow(ctx, query,
		params.ID, params.CompanyID, params.FirstName, params.LastName, params.Email,
		params.Title, params.LinkedInURL, params.Phone, params.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Contact{}, apperr.NotFound(contactNotFoundMsg)
		}
		return Contact{}, fmt.Errorf("update contact: %w", err)
	}
	return c, nil
}

// DeleteContact removes a contact.
func (r *Repo) DeleteContact(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(contactNotFoundMsg)
	}
	return nil
}

// InsertActivity records a timeline event for a contact.
func (r *Repo) InsertActivity(ctx context.Context, contactID uuid.UUID, activityType string, metadata []byte) error {
	query := `INSERT INTO activities (contact_id, type, metadata) VALUES ($1, $2, $3)`

	if _, err := r.pool.Exec(ctx, query, contactID, activityType, metadata); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Activity is one entry in a contact's timeline.
type Activity struct {
	ID         uuid.UUID
	ContactID  *uuid.UUID
	CampaignID *uuid.UUID
	Type       string
	Metadata   []byte
	CreatedAt  time.Time
}

// ListActivities returns a contact's timeline, newest first.
func (r *Repo) ListActivities(ctx context.Context, contactID uuid.UUID) ([]Activity, error) {
	query := `
		SELECT id, contact_id, campaign_id, type, metadata, created_at
		FROM activities
		WHERE contact_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	activities := make([]Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.ContactID, &a.CampaignID, &a.Type, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
