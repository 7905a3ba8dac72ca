package gmail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"outreach_backend/internal/gmail/repository"
	"outreach_backend/platform/apperr"
)

type fakeAccounts struct {
	account    repository.Account
	err        error
	savedToken string
	savedExp   time.Time
}

func (f *fakeAccounts) GetByID(ctx context.Context, id uuid.UUID) (repository.Account, error) {
	return f.account, f.err
}

func (f *fakeAccounts) MostRecent(ctx context.Context) (repository.Account, error) {
	return f.account, f.err
}

func (f *fakeAccounts) UpdateAccessToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	f.savedToken = token
	f.savedExp = expiresAt
	return nil
}

type fakeRefresher struct {
	tokens TokenResponse
	err    error
	called bool
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	f.called = true
	return f.tokens, f.err
}

func newResolverAt(accounts *fakeAccounts, oauth *fakeRefresher, now time.Time) *Resolver {
	r := NewResolver(accounts, oauth)
	r.now = func() time.Time { return now }
	return r
}

func TestResolveFreshTokenSkipsRefresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	accounts := &fakeAccounts{account: repository.Account{
		ID:          uuid.New(),
		UserEmail:   "me@acme.io",
		AccessToken: "live-token",
		ExpiresAt:   now.Add(time.Hour),
	}}
	oauth := &fakeRefresher{}

	cred, err := newResolverAt(accounts, oauth, now).Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cred.AccessToken != "live-token" {
		t.Errorf("unexpected token %q", cred.AccessToken)
	}
	if oauth.called {
		t.Error("must not refresh a token with over five minutes left")
	}
}

func TestResolveNearExpiryRefreshesAndPersists(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	accounts := &fakeAccounts{account: repository.Account{
		ID:           uuid.New(),
		UserEmail:    "me@acme.io",
		AccessToken:  "stale-token",
		RefreshToken: "refresh",
		ExpiresAt:    now.Add(4 * time.Minute),
	}}
	oauth := &fakeRefresher{tokens: TokenResponse{AccessToken: "new-token", ExpiresIn: 3600}}

	cred, err := newResolverAt(accounts, oauth, now).Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cred.AccessToken != "new-token" {
		t.Errorf("expected refreshed token, got %q", cred.AccessToken)
	}
	if accounts.savedToken != "new-token" {
		t.Error("refreshed token must be persisted")
	}
	if want := now.Add(time.Hour); !accounts.savedExp.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, accounts.savedExp)
	}
}

func TestResolveNoAccount(t *testing.T) {
	accounts := &fakeAccounts{err: apperr.NotFound("gmail account not found")}

	_, err := newResolverAt(accounts, &fakeRefresher{}, time.Now()).Resolve(context.Background(), nil)
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestResolveRefreshFailure(t *testing.T) {
	now := time.Now()
	accounts := &fakeAccounts{account: repository.Account{ExpiresAt: now}}
	oauth := &fakeRefresher{err: &APIError{StatusCode: 400, Body: "invalid_grant"}}

	_, err := newResolverAt(accounts, oauth, now).Resolve(context.Background(), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected APIError cause, got %v", err)
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(&APIError{StatusCode: 401}) {
		t.Error("401 is an auth error")
	}
	if !IsAuthError(&APIError{StatusCode: 403}) {
		t.Error("403 is an auth error")
	}
	if IsAuthError(&APIError{StatusCode: 500}) {
		t.Error("500 is not an auth error")
	}
	if IsAuthError(errors.New("plain")) {
		t.Error("plain errors are not auth errors")
	}
}
