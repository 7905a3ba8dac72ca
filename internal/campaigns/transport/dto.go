package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/campaigns/repository"
)

// Campaigns

type CreateCampaignRequest struct {
	Name           string     `json:"name" validate:"required,min=1,max=200"`
	ProductID      string     `json:"productId" validate:"required,min=1,max=100"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	TemplatePrompt *string    `json:"templatePrompt,omitempty" validate:"omitempty,max=5000"`
	GmailAccountID *uuid.UUID `json:"gmailAccountId,omitempty"`
}

type UpdateCampaignRequest struct {
	Name           *string    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	TemplatePrompt *string    `json:"templatePrompt,omitempty" validate:"omitempty,max=5000"`
	GmailAccountID *uuid.UUID `json:"gmailAccountId,omitempty"`
	Status         *string    `json:"status,omitempty" validate:"omitempty,oneof=active paused archived"`
}

type CampaignResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	ProductID      string     `json:"productId"`
	Description    *string    `json:"description,omitempty"`
	TemplatePrompt *string    `json:"templatePrompt,omitempty"`
	GmailAccountID *uuid.UUID `json:"gmailAccountId,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      string     `json:"createdAt"`
	UpdatedAt      string     `json:"updatedAt"`
}

func ToCampaignResponse(c repository.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:             c.ID,
		Name:           c.Name,
		ProductID:      c.ProductID,
		Description:    c.Description,
		TemplatePrompt: c.TemplatePrompt,
		GmailAccountID: c.GmailAccountID,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}

type CampaignListResponse struct {
	Items []CampaignResponse `json:"items"`
	Total int                `json:"total"`
}

// Pipeline

type AddContactsRequest struct {
	ContactIDs []uuid.UUID `json:"contactIds" validate:"required,min=1,dive,required"`
}

type AddContactsResponse struct {
	Added int `json:"added"`
}

type QueueRequest struct {
	ContactIDs []uuid.UUID `json:"contactIds,omitempty" validate:"omitempty,dive,required"`
}

type QueueResponse struct {
	Queued int `json:"queued"`
}

// Review

type CampaignContactResponse struct {
	ID                uuid.UUID       `json:"id"`
	CampaignID        uuid.UUID       `json:"campaignId"`
	ContactID         uuid.UUID       `json:"contactId"`
	Stage             string          `json:"stage"`
	EnrichmentData    json.RawMessage `json:"enrichmentData,omitempty"`
	EnrichmentScore   *int            `json:"enrichmentScore,omitempty"`
	DraftSubject      *string         `json:"draftSubject,omitempty"`
	DraftBody         *string         `json:"draftBody,omitempty"`
	FinalSubject      *string         `json:"finalSubject,omitempty"`
	FinalBody         *string         `json:"finalBody,omitempty"`
	HookUsed          *string         `json:"hookUsed,omitempty"`
	RegenerationCount int             `json:"regenerationCount"`
	LastFeedback      *string         `json:"lastFeedback,omitempty"`
	SentAt            *string         `json:"sentAt,omitempty"`
	RepliedAt         *string         `json:"repliedAt,omitempty"`
	CreatedAt         string          `json:"createdAt"`
	UpdatedAt         string          `json:"updatedAt"`
}

func ToCampaignContactResponse(cc repository.CampaignContact) CampaignContactResponse {
	return CampaignContactResponse{
		ID:                cc.ID,
		CampaignID:        cc.CampaignID,
		ContactID:         cc.ContactID,
		Stage:             string(cc.Stage),
		EnrichmentData:    json.RawMessage(cc.EnrichmentData),
		EnrichmentScore:   cc.EnrichmentScore,
		DraftSubject:      cc.DraftSubject,
		DraftBody:         cc.DraftBody,
		FinalSubject:      cc.FinalSubject,
		FinalBody:         cc.FinalBody,
		HookUsed:          cc.HookUsed,
		RegenerationCount: cc.RegenerationCount,
		LastFeedback:      cc.LastFeedback,
		SentAt:            formatTimePtr(cc.SentAt),
		RepliedAt:         formatTimePtr(cc.RepliedAt),
		CreatedAt:         cc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         cc.UpdatedAt.Format(time.RFC3339),
	}
}

type ReviewContactInfo struct {
	ID        uuid.UUID `json:"id"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Email     string    `json:"email"`
	Title     *string   `json:"title,omitempty"`
}

type ReviewCompanyInfo struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Domain *string   `json:"domain,omitempty"`
}

type ReviewItemResponse struct {
	CampaignContactResponse
	CampaignName string             `json:"campaignName"`
	Contact      ReviewContactInfo  `json:"contact"`
	Company      *ReviewCompanyInfo `json:"company,omitempty"`
}

func ToReviewItemResponse(d repository.Detail) ReviewItemResponse {
	item := ReviewItemResponse{
		CampaignContactResponse: ToCampaignContactResponse(d.CampaignContact),
		CampaignName:            d.Campaign.Name,
		Contact: ReviewContactInfo{
			ID:        d.Contact.ID,
			FirstName: d.Contact.FirstName,
			LastName:  d.Contact.LastName,
			Email:     d.Contact.Email,
			Title:     d.Contact.Title,
		},
	}
	if d.Company != nil {
		item.Company = &ReviewCompanyInfo{
			ID:     d.Company.ID,
			Name:   d.Company.Name,
			Domain: d.Company.Domain,
		}
	}
	return item
}

type ReviewQueueResponse struct {
	Items []ReviewItemResponse `json:"items"`
	Total int                  `json:"total"`
}

type ApproveDraftRequest struct {
	FinalSubject string `json:"finalSubject" validate:"required,min=1,max=500"`
	FinalBody    string `json:"finalBody" validate:"required,min=1"`
}

type RejectDraftRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type UpdateDraftRequest struct {
	Subject *string `json:"subject,omitempty" validate:"omitempty,min=1,max=500"`
	Body    *string `json:"body,omitempty" validate:"omitempty,min=1"`
}

type RegenerateDraftRequest struct {
	Feedback *string `json:"feedback,omitempty" validate:"omitempty,max=2000"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
