package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Email is one message that crossed the wire, inbound or outbound.
type Email struct {
	ID             uuid.UUID
	ContactID      uuid.UUID
	CampaignID     *uuid.UUID
	GmailAccountID *uuid.UUID
	ThreadID       *string
	MessageID      *string
	Direction      string
	Subject        *string
	Body           *string
	Status         string
	SentAt         *time.Time
	CreatedAt      time.Time
}

// InsertEmailParams holds the fields for recording a message.
type InsertEmailParams struct {
	ContactID      uuid.UUID
	CampaignID     *uuid.UUID
	GmailAccountID *uuid.UUID
	ThreadID       *string
	MessageID      *string
	Direction      string
	Subject        *string
	Body           *string
	Status         string
	SentAt         time.Time
}

// InsertEmail records a message.
func (r *Repo) InsertEmail(ctx context.Context, params InsertEmailParams) (uuid.UUID, error) {
	query := `
		INSERT INTO emails (contact_id, campaign_id, gmail_account_id, thread_id, message_id, direction, subject, body, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		params.ContactID, params.CampaignID, params.GmailAccountID,
		params.ThreadID, params.MessageID, params.Direction,
		params.Subject, params.Body, params.Status, params.SentAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert email: %w", err)
	}
	return id, nil
}

// SentEmail is the slice of an outbound email the reply reconciler needs.
type SentEmail struct {
	ID             uuid.UUID
	ContactID      uuid.UUID
	CampaignID     *uuid.UUID
	GmailAccountID *uuid.UUID
	ThreadID       string
}

// ListSentWithThreads returns outbound emails still marked sent that carry a
// provider thread ID.
func (r *Repo) ListSentWithThreads(ctx context.Context) ([]SentEmail, error) {
	query := `
		SELECT id, contact_id, campaign_id, gmail_account_id, thread_id
		FROM emails
		WHERE direction = 'outbound' AND status = 'sent' AND thread_id IS NOT NULL
		ORDER BY sent_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sent emails: %w", err)
	}
	defer rows.Close()

	emails := make([]SentEmail, 0)
	for rows.Next() {
		var e SentEmail
		if err := rows.Scan(&e.ID, &e.ContactID, &e.CampaignID, &e.GmailAccountID, &e.ThreadID); err != nil {
			return nil, fmt.Errorf("scan sent email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// CountThreadMessages counts locally recorded messages on a provider thread.
func (r *Repo) CountThreadMessages(ctx context.Context, threadID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM emails WHERE thread_id = $1`, threadID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count thread messages: %w", err)
	}
	return count, nil
}

// MarkEmailReplied flips an email's status to replied.
func (r *Repo) MarkEmailReplied(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `UPDATE emails SET status = 'replied' WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark email replied: %w", err)
	}
	return nil
}
