package transport

import (
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/gmail/repository"
)

type ConnectResponse struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

type UpdateLabelRequest struct {
	Label string `json:"label" validate:"required,min=1,max=100"`
}

// AccountResponse deliberately omits the stored tokens.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	UserEmail string    `json:"userEmail"`
	Label     *string   `json:"label,omitempty"`
	Scope     *string   `json:"scope,omitempty"`
	ExpiresAt string    `json:"expiresAt"`
	CreatedAt string    `json:"createdAt"`
}

func ToAccountResponse(a repository.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		UserEmail: a.UserEmail,
		Label:     a.Label,
		Scope:     a.Scope,
		ExpiresAt: a.ExpiresAt.Format(time.RFC3339),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

type AccountListResponse struct {
	Items []AccountResponse `json:"items"`
	Total int               `json:"total"`
}
