// Package api implements the HTTP client for the MatchiFy backend: auth and
// talent-profile endpoints over a configured base URL, with bearer-token
// authentication and an opt-in bounded retry for the idempotent calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matchify/matchify-core/internal/core"
	"github.com/matchify/matchify-core/internal/domain/model"
)

// Compile-time conformance to the core ports.
var (
	_ core.AuthAPI   = (*Client)(nil)
	_ core.TalentAPI = (*Client)(nil)
)

// Config captures the client behaviour knobs. Callers should pass a
// sanitized config.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
	Logger     *slog.Logger
}

// Client talks to the MatchiFy backend. Safe for concurrent use.
type Client struct {
	baseURL    *url.URL
	retryLimit int
	client     *http.Client
	logger     *slog.Logger
}

// NewClient builds a backend API client.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	retries := cfg.RetryLimit
	if retries < 0 {
		retries = 0
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		retryLimit: retries,
		client:     hc,
		logger:     logger,
	}, nil
}

// Signup registers a new account. Not idempotent; never retried.
func (c *Client) Signup(ctx context.Context, name, email, password string, role model.Role) (string, model.User, error) {
	body := SignupRequest{Name: name, Email: email, Password: password, Role: role.String()}
	var resp AuthResponse
	if err := c.postJSON(ctx, "auth/signup", "", body, &resp, false); err != nil {
		return "", model.User{}, err
	}
	return resp.AccessToken, userFromResponse(resp.User), nil
}

// Login exchanges credentials for a bearer token. Idempotent from the
// client's view, so it participates in the bounded retry.
func (c *Client) Login(ctx context.Context, email, password string) (string, model.User, error) {
	body := LoginRequest{Email: email, Password: password}
	var resp AuthResponse
	if err := c.postJSON(ctx, "auth/login", "", body, &resp, true); err != nil {
		return "", model.User{}, err
	}
	return resp.AccessToken, userFromResponse(resp.User), nil
}

// ForgotPassword asks the backend to send a reset email. A 2xx response with
// success=false is still a failure carrying the payload message.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	var resp StatusResponse
	if err := c.postJSON(ctx, "auth/forgot-password", "", ForgotPasswordRequest{Email: email}, &resp, true); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Msg: resp.Message}
	}
	return nil
}

// ResetPassword sets a new password using a single-use reset token.
// Not idempotent; never retried.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := ResetPasswordRequest{Token: token, NewPassword: newPassword}
	var resp StatusResponse
	if err := c.postJSON(ctx, "auth/reset-password", "", body, &resp, false); err != nil {
		return err
	}
	if !resp.Success {
		return &APIError{StatusCode: http.StatusOK, Msg: resp.Message}
	}
	return nil
}

// GetProfile fetches the authenticated talent's profile.
func (c *Client) GetProfile(ctx context.Context, token string) (*model.TalentProfile, error) {
	var profile model.TalentProfile
	if err := c.do(ctx, http.MethodGet, "talent/me", token, nil, "", &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies a partial update. Nil fields in upd are omitted from
// the body, so the backend leaves them unchanged.
func (c *Client) UpdateProfile(ctx context.Context, token string, upd model.ProfileUpdate) (*model.TalentProfile, error) {
	body := UpdateTalentRequest{Name: upd.Name, Phone: upd.Phone, Bio: upd.Bio, Location: upd.Location}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode update request: %w", err)
	}

	var profile model.TalentProfile
	if err := c.do(ctx, http.MethodPatch, "talent/update", token, payload, "application/json", &profile, false); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadProfileImage uploads a new profile image and returns the updated
// profile.
func (c *Client) UploadProfileImage(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error) {
	return c.uploadImage(ctx, "talent/upload-profile", token, filename, data)
}

// UploadBannerImage uploads a new banner image and returns the updated
// profile.
func (c *Client) UploadBannerImage(ctx context.Context, token, filename string, data []byte) (*model.TalentProfile, error) {
	return c.uploadImage(ctx, "talent/upload-banner", token, filename, data)
}

func (c *Client) uploadImage(ctx context.Context, path, token, filename string, data []byte) (*model.TalentProfile, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	// The backend expects a single multipart field named "file".
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart field: %w", err)
	}
	if _, err = part.Write(data); err != nil {
		return nil, fmt.Errorf("write multipart body: %w", err)
	}
	if err = writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	var profile model.TalentProfile
	if err := c.do(ctx, http.MethodPost, path, token, buf.Bytes(), writer.FormDataContentType(), &profile, false); err != nil {
		return nil, err
	}
	return &profile, nil
}

// postJSON marshals body and issues a JSON POST.
func (c *Client) postJSON(ctx context.Context, path, token string, body, out any, idempotent bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, token, payload, "application/json", out, idempotent)
}

// do issues one logical request. Idempotent calls retry transport failures
// up to the configured limit with linear backoff; application errors are
// never retried.
func (c *Client) do(ctx context.Context, method, path, token string, body []byte, contentType string, out any, idempotent bool) error {
	attempts := 1
	if idempotent {
		attempts = c.retryLimit + 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := c.doOnce(ctx, method, path, token, body, contentType, out)
		if err == nil {
			return nil
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			return err
		}
		lastErr = err

		if attempt < attempts-1 {
			c.logger.DebugContext(ctx, "retrying request",
				"method", method, "path", path, "attempt", attempt+1, "error", err)
			delay := time.Duration(attempt+1) * 200 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				if !timer.Stop() {
					<-timer.C
				}
				return &TransportError{Op: method + " " + path, Err: ctx.Err()}
			case <-timer.C:
			}
		}
	}

	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path, token string, body []byte, contentType string, out any) error {
	endpoint := c.baseURL.JoinPath(path).String()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	if closeErr := resp.Body.Close(); closeErr != nil {
		c.logger.WarnContext(ctx, "close response body failed", "path", path, "error", closeErr)
	}
	if readErr != nil {
		return &TransportError{Op: "read response from " + path, Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Msg:        extractMessage(respBody),
			Body:       respBody,
		}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &TransportError{Op: "decode response from " + path, Err: err}
		}
	}
	return nil
}

func userFromResponse(u UserResponse) model.User {
	return model.User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  model.ParseRole(u.Role),
	}
}
