package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity is one entry in a contact's audit trail.
type Activity struct {
	ID         uuid.UUID
	ContactID  *uuid.UUID
	CampaignID *uuid.UUID
	Type       string
	Metadata   []byte
	CreatedAt  time.Time
}

// InsertActivityParams holds the fields for recording an activity.
type InsertActivityParams struct {
	ContactID  *uuid.UUID
	CampaignID *uuid.UUID
	Type       string
	Metadata   []byte
}

// InsertActivity records an activity.
func (r *Repo) InsertActivity(ctx context.Context, params InsertActivityParams) error {
	query := `
		INSERT INTO activities (contact_id, campaign_id, type, metadata)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.pool.Exec(ctx, query, params.ContactID, params.CampaignID, params.Type, params.Metadata); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivitiesByContact lists a contact's activities, newest first.
func (r *Repo) ListActivitiesByContact(ctx context.Context, contactID uuid.UUID) ([]Activity, error) {
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
