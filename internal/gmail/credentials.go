package gmail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/gmail/repository"
	"outreach_backend/platform/apperr"
)

// ErrNotConnected means no mailbox has been connected yet. Callers surface
// it as guidance rather than as a job failure.
var ErrNotConnected = errors.New("gmail not connected")

// refreshBuffer is how close to expiry a token may get before it is
// refreshed ahead of use.
const refreshBuffer = 5 * time.Minute

// AccountStore is the persistence the credential resolver needs.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (repository.Account, error)
	MostRecent(ctx context.Context) (repository.Account, error)
	UpdateAccessToken(ctx context.Context, id uuid.UUID, accessToken string, expiresAt time.Time) error
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (TokenResponse, error)
}

// Credential is a ready-to-use access token bound to a mailbox.
type Credential struct {
	AccountID   uuid.UUID
	UserEmail   string
	AccessToken string
}

// Resolver picks a connected account and keeps its access token fresh.
type Resolver struct {
	accounts AccountStore
	oauth    Refresher
	now      func() time.Time
}

// NewResolver creates a credential resolver.
func NewResolver(accounts AccountStore, oauth Refresher) *Resolver {
	return &Resolver{accounts: accounts, oauth: oauth, now: time.Now}
}

// Resolve returns a valid credential for the given account, or for the most
// recently connected one when accountID is nil. A token within five minutes
// of expiry is refreshed and the new token persisted before it is returned.
func (r *Resolver) Resolve(ctx context.Context, accountID *uuid.UUID) (Credential, error) {
	var account repository.Account
	var err error
	if accountID != nil {
		account, err = r.accounts.GetByID(ctx, *accountID)
	} else {
		account, err = r.accounts.MostRecent(ctx)
	}
	if err != nil {
		if apperr.GetKind(err) == apperr.KindNotFound {
			return Credential{}, ErrNotConnected
		}
		return Credential{}, err
	}

	if account.ExpiresAt.Sub(r.now()) > refreshBuffer {
		return Credential{
			AccountID:   account.ID,
			UserEmail:   account.UserEmail,
			AccessToken: account.AccessToken,
		}, nil
	}

	tokens, err := r.oauth.Refresh(ctx, account.RefreshToken)
	if err != nil {
		return Credential{}, fmt.Errorf("refresh access token: %w", err)
	}

	expiresAt := r.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	if err := r.accounts.UpdateAccessToken(ctx, account.ID, tokens.AccessToken, expiresAt); err != nil {
		return Credential{}, err
	}

	return Credential{
		AccountID:   account.ID,
		UserEmail:   account.UserEmail,
		AccessToken: tokens.AccessToken,
	}, nil
}
