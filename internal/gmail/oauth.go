// Package gmail connects mailboxes over OAuth and talks to the Gmail REST
// API for sending and thread inspection.
package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"outreach_backend/platform/config"
)

const (
	googleAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
	googleUserinfo  = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthScopes     = "https://www.googleapis.com/auth/gmail.send https://www.googleapis.com/auth/gmail.readonly https://www.googleapis.com/auth/userinfo.email"
)

// TokenResponse is Google's token endpoint reply.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// OAuth drives the Google authorization code flow.
type OAuth struct {
	clientID     string
	clientSecret string
	redirectURL  string
	client       *http.Client
}

// NewOAuth creates the OAuth helper from configuration.
func NewOAuth(cfg config.GmailConfig) *OAuth {
	return &OAuth{
		clientID:     cfg.GetGmailClientID(),
		clientSecret: cfg.GetGmailClientSecret(),
		redirectURL:  cfg.GetGmailRedirectURL(),
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthURL builds the consent screen URL. access_type=offline plus
// prompt=consent makes Google return a refresh token on every connect.
func (o *OAuth) AuthURL(state string) string {
	params := url.Values{
		"client_id":     {o.clientID},
		"redirect_uri":  {o.redirectURL},
		"response_type": {"code"},
		"scope":         {oauthScopes},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
		"state":         {state},
	}
	return googleAuthURL + "?" + params.Encode()
}

// ExchangeCode trades an authorization code for tokens.
func (o *OAuth) ExchangeCode(ctx context.Context, code string) (TokenResponse, error) {
	return o.token(ctx, url.Values{
		"code":          {code},
		"client_id":     {o.clientID},
		"client_secret": {o.clientSecret},
		"redirect_uri":  {o.redirectURL},
		"grant_type":    {"authorization_code"},
	})
}

// Refresh trades a refresh token for a fresh access token.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	return o.token(ctx, url.Values{
		"refresh_token": {refreshToken},
		"client_id":     {o.clientID},
		"client_secret": {o.clientSecret},
		"grant_type":    {"refresh_token"},
	})
}

func (o *OAuth) token(ctx context.Context, form url.Values) (TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.client.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return TokenResponse{}, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokens TokenResponse
	if err := json.Unmarshal(body, &tokens); err != nil {
		return TokenResponse{}, fmt.Errorf("unmarshal token response: %w", err)
	}
	return tokens, nil
}

// UserEmail resolves the address behind an access token.
func (o *OAuth) UserEmail(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserinfo, nil)
	if err != nil {
		return "", fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read userinfo response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("unmarshal userinfo: %w", err)
	}
	return info.Email, nil
}
