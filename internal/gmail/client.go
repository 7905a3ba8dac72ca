package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wneessen/go-mail"
)

const gmailAPIBase = "https://gmail.googleapis.com/gmail/v1/users/me"

// APIError is a non-2xx reply from Google. Handlers inspect the status code
// to tell expired credentials apart from transient failures.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("google api: status %d: %s", e.StatusCode, e.Body)
}

// IsAuthError reports whether err is a credential rejection.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
}

// SendResult identifies the delivered message and its thread.
type SendResult struct {
	MessageID string `json:"id"`
	ThreadID  string `json:"threadId"`
}

// ThreadMessage is one message within a conversation.
type ThreadMessage struct {
	ID      string `json:"id"`
	Snippet string `json:"snippet"`
}

// Thread is a Gmail conversation.
type Thread struct {
	ID       string          `json:"id"`
	Messages []ThreadMessage `json:"messages"`
}

// Client calls the Gmail REST API with a caller-supplied access token.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Gmail API client.
func NewClient() *Client {
	return &Client{
		baseURL: gmailAPIBase,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Send delivers a plain-text email and returns the provider's message and
// thread IDs.
func (c *Client) Send(ctx context.Context, accessToken, from, to, subject, body string) (SendResult, error) {
	raw, err := encodeMessage(from, to, subject, body)
	if err != nil {
		return SendResult{}, err
	}

	payload, err := json.Marshal(map[string]string{"raw": raw})
	if err != nil {
		return SendResult{}, fmt.Errorf("marshal send payload: %w", err)
	}

	var result SendResult
	if err := c.do(ctx, http.MethodPost, "/messages/send", accessToken, payload, &result); err != nil {
		return SendResult{}, err
	}
	return result, nil
}

// GetThread fetches a conversation with all its messages.
func (c *Client) GetThread(ctx context.Context, accessToken, threadID string) (Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID, accessToken, nil, &thread); err != nil {
		return Thread{}, err
	}
	return thread, nil
}

// Profile returns the mailbox address the token belongs to.
func (c *Client) Profile(ctx context.Context, accessToken string) (string, error) {
	var profile struct {
		EmailAddress string `json:"emailAddress"`
	}
	if err := c.do(ctx, http.MethodGet, "/profile", accessToken, nil, &profile); err != nil {
		return "", err
	}
	return profile.EmailAddress, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, payload []byte, out any) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create gmail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("gmail request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read gmail response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal gmail response: %w", err)
	}
	return nil
}

// encodeMessage builds the RFC 822 message and encodes it the way Gmail's
// raw field expects: base64url without padding.
func encodeMessage(from, to, subject, body string) (string, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return "", fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return "", fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("write mime message: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}
