// Package service contains business logic for connected Gmail accounts.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/gmail"
	"outreach_backend/internal/gmail/repository"
	"outreach_backend/platform/apperr"
	"outreach_backend/platform/logger"
)

// AccountStore is the data access surface the service needs.
type AccountStore interface {
	Insert(ctx context.Context, params repository.InsertParams) (repository.Account, error)
	List(ctx context.Context) ([]repository.Account, error)
	UpdateLabel(ctx context.Context, id uuid.UUID, label string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Authorizer is the OAuth surface the service needs.
type Authorizer interface {
	AuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (gmail.TokenResponse, error)
	UserEmail(ctx context.Context, accessToken string) (string, error)
}

// Service manages connected Gmail accounts.
type Service struct {
	accounts AccountStore
	oauth    Authorizer
	log      *logger.Logger
	now      func() time.Time
}

// New creates a new gmail account service.
func New(accounts AccountStore, oauth Authorizer, log *logger.Logger) *Service {
	return &Service{accounts: accounts, oauth: oauth, log: log, now: time.Now}
}

// ConnectURL builds the Google consent URL with a fresh state token.
func (s *Service) ConnectURL() (authURL, state string, err error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate oauth state: %w", err)
	}
	state = hex.EncodeToString(buf)
	return s.oauth.AuthURL(state), state, nil
}

// HandleCallback exchanges the authorization code and stores the mailbox.
// Google only returns a refresh token on a consent-prompted flow, and a
// mailbox without one cannot be used once the access token expires.
func (s *Service) HandleCallback(ctx context.Context, code string) (repository.Account, error) {
	token, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return repository.Account{}, err
	}
	if token.RefreshToken == "" {
		return repository.Account{}, apperr.BadRequest("no refresh token returned; revoke the app's access in Google and reconnect")
	}

	email, err := s.oauth.UserEmail(ctx, token.AccessToken)
	if err != nil {
		return repository.Account{}, err
	}

	var scope *string
	if token.Scope != "" {
		scope = &token.Scope
	}
	account, err := s.accounts.Insert(ctx, repository.InsertParams{
		UserEmail:    email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Scope:        scope,
		ExpiresAt:    s.now().Add(time.Duration(token.ExpiresIn) * time.Second),
	})
	if err != nil {
		return repository.Account{}, err
	}

	s.log.Info("gmail account connected", "account_id", account.ID, "email", account.UserEmail)
	return account, nil
}

// ListAccounts lists all connected mailboxes.
func (s *Service) ListAccounts(ctx context.Context) ([]repository.Account, error) {
	return s.accounts.List(ctx)
}

// UpdateLabel renames a connected mailbox.
func (s *Service) UpdateLabel(ctx context.Context, id uuid.UUID, label string) error {
	return s.accounts.UpdateLabel(ctx, id, label)
}

// DeleteAccount disconnects a mailbox.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	return s.accounts.Delete(ctx, id)
}
