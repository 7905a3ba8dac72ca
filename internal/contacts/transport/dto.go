package transport

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/contacts/repository"
)

// Contacts

type CreateContactRequest struct {
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	FirstName   *string    `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName    *string    `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email       string     `json:"email" validate:"required,email,max=320"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	LinkedInURL *string    `json:"linkedinUrl,omitempty" validate:"omitempty,url,max=500"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type UpdateContactRequest struct {
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	FirstName   *string    `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName    *string    `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email,max=320"`
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	LinkedInURL *string    `json:"linkedinUrl,omitempty" validate:"omitempty,url,max=500"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

type ListContactsRequest struct {
	CompanyID string `form:"companyId" validate:"omitempty,uuid"`
}

type AddNoteRequest struct {
	Note string `json:"note" validate:"required,min=1,max=5000"`
}

type ContactResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	FirstName   *string    `json:"firstName,omitempty"`
	LastName    *string    `json:"lastName,omitempty"`
	Email       string     `json:"email"`
	Title       *string    `json:"title,omitempty"`
	LinkedInURL *string    `json:"linkedinUrl,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

func ToContactResponse(c repository.Contact) ContactResponse {
	return ContactResponse{
		ID:          c.ID,
		CompanyID:   c.CompanyID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		Email:       c.Email,
		Title:       c.Title,
		LinkedInURL: c.LinkedInURL,
		Phone:       c.Phone,
		Notes:       c.Notes,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Total int               `json:"total"`
}

// Companies

type CreateCompanyRequest struct {
	Name   string  `json:"name" validate:"required,min=1,max=200"`
	Domain *string `json:"domain,omitempty" validate:"omitempty,fqdn,max=255"`
}

type CompanyResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Domain         *string         `json:"domain,omitempty"`
	EnrichmentData json.RawMessage `json:"enrichmentData,omitempty"`
	EnrichedAt     *string         `json:"enrichedAt,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

func ToCompanyResponse(c repository.Company) CompanyResponse {
	resp := CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		Domain:         c.Domain,
		EnrichmentData: json.RawMessage(c.EnrichmentData),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
	if c.EnrichedAt != nil {
		s := c.EnrichedAt.Format(time.RFC3339)
		resp.EnrichedAt = &s
	}
	return resp
}

type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Total int               `json:"total"`
}

// Activities

type ActivityResponse struct {
	ID         uuid.UUID       `json:"id"`
	ContactID  *uuid.UUID      `json:"contactId,omitempty"`
	CampaignID *uuid.UUID      `json:"campaignId,omitempty"`
	Type       string          `json:"type"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  string          `json:"createdAt"`
}

func ToActivityResponse(a repository.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		ContactID:  a.ContactID,
		CampaignID: a.CampaignID,
		Type:       a.Type,
		Metadata:   json.RawMessage(a.Metadata),
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}

type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Total int                `json:"total"`
}
