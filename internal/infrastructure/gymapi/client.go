// Package gymapi is the HTTP client for the upstream gym-management API.
// The portal owns no member data itself; every profile read and credential
// check goes through this boundary.
package gymapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gympulse/member-portal/internal/core/domain"
	"github.com/gympulse/member-portal/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

var _ ports.GymAPI = (*Client)(nil)

// profilePayload tolerates both id and _id as the stable identifier field.
type profilePayload struct {
	ID            string    `json:"id"`
	MongoID       string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Plan          string    `json:"plan"`
	Credits       int       `json:"credits"`
	PlanExpiresAt time.Time `json:"plan_expires_at"`
}

type tokenPayload struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type messagePayload struct {
	Message string `json:"message"`
}

// FetchProfile resolves the profile backing token. The role hint selects
// the role-specific endpoint; the gym API still decides whether the token
// is good. 401/403 surface as *domain.UpstreamError so callers can tell an
// explicit rejection from a transient failure.
func (c *Client) FetchProfile(ctx context.Context, token, roleHint string) (*domain.User, error) {
	path := "/api/user/user"
	if roleHint == domain.RoleAdmin {
		path = "/api/user/admin"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.upstreamError(resp)
	}

	var p profilePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("profile decode: %w", err)
	}

	id := p.ID
	if id == "" {
		id = p.MongoID
	}
	if id == "" || p.Role == "" {
		return nil, domain.ErrProfileIncomplete
	}

	return &domain.User{
		ID:            id,
		Name:          p.Name,
		Email:         p.Email,
		Role:          p.Role,
		Plan:          p.Plan,
		Credits:       p.Credits,
		PlanExpiresAt: p.PlanExpiresAt,
	}, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	return c.postForToken(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account upstream and returns the issued token.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	return c.postForToken(ctx, "/api/auth/register", map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"password": in.Password,
	})
}

// ForgotPassword asks the gym API to start a reset flow; the mail is sent
// upstream. Returns the upstream confirmation message.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.postForMessage(ctx, "/api/auth/forgot-password", map[string]string{
		"email": email,
	})
}

// ResetPassword completes a reset flow with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	path := "/api/auth/reset-password/" + url.PathEscape(resetToken)
	return c.postForMessage(ctx, path, map[string]string{
		"password": password,
	})
}

func (c *Client) postForToken(ctx context.Context, path string, body map[string]string) (string, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.upstreamError(resp)
	}

	var p tokenPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", fmt.Errorf("token decode: %w", err)
	}
	if p.Token == "" {
		return "", fmt.Errorf("%s: %w", path, domain.ErrEmptyToken)
	}
	return p.Token, nil
}

func (c *Client) postForMessage(ctx context.Context, path string, body map[string]string) (string, error) {
	resp, err := c.post(ctx, path, body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.upstreamError(resp)
	}

	var p messagePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return "", fmt.Errorf("message decode: %w", err)
	}
	return p.Message, nil
}

func (c *Client) post(ctx context.Context, path string, body map[string]string) (*http.Response, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return resp, nil
}

// upstreamError drains the {message} envelope from a non-2xx response.
func (c *Client) upstreamError(resp *http.Response) error {
	var p messagePayload
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &p); err != nil {
		c.log.Debug().Int("status", resp.StatusCode).Msg("gym api error body not json")
	}
	return &domain.UpstreamError{StatusCode: resp.StatusCode, Message: p.Message}
}
