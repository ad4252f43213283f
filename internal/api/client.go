// Package api is the client of the Mesto REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nfrund/mesto/internal/domain"
)

// HeaderAuthorization carries the API token. The Mesto API expects the bare
// token, without a scheme.
const HeaderAuthorization = "authorization"

// ErrRemoteOperation matches every failure reported by the remote side.
var ErrRemoteOperation = errors.New("remote operation failed")

// Client is the Remote Data Client used by the gallery.
type Client interface {
	GetCurrentUser(ctx context.Context) (domain.User, error)
	GetCardList(ctx context.Context) ([]domain.Card, error)
	UpdateUserProfile(ctx context.Context, p domain.ProfileUpdate) (domain.User, error)
	UpdateUserAvatar(ctx context.Context, avatarURL string) (domain.User, error)
	CreateCard(ctx context.Context, c domain.NewCard) (domain.Card, error)
	DeleteCard(ctx context.Context, id string) error
	SetLikeStatus(ctx context.Context, id string, like bool) (domain.Card, error)
}

// StatusError is returned when the API answers with a non-success status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: Ошибка: %d", e.Method, e.Path, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is makes errors.Is(err, ErrRemoteOperation) hold, and maps well known
// statuses onto the domain sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrRemoteOperation:
		return true
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrInvalidInput:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// HTTPClient talks to a Mesto API over HTTP.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) { h.http.Timeout = d }
}

// NewHTTPClient creates a client for the API rooted at baseURL.
func NewHTTPClient(baseURL, token string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q", baseURL)
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) GetCurrentUser(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &u)
	return u, err
}

func (c *HTTPClient) GetCardList(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.do(ctx, http.MethodGet, "/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *HTTPClient) UpdateUserProfile(ctx context.Context, p domain.ProfileUpdate) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodPatch, "/users/me", p, &u)
	return u, err
}

func (c *HTTPClient) UpdateUserAvatar(ctx context.Context, avatarURL string) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodPatch, "/users/me/avatar", domain.AvatarUpdate{Avatar: avatarURL}, &u)
	return u, err
}

func (c *HTTPClient) CreateCard(ctx context.Context, nc domain.NewCard) (domain.Card, error) {
	var card domain.Card
	err := c.do(ctx, http.MethodPost, "/cards", nc, &card)
	return card, err
}

func (c *HTTPClient) DeleteCard(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/cards/"+url.PathEscape(id), nil, nil)
}

// SetLikeStatus puts or removes the current user's like and returns the
// card with its updated liker set.
func (c *HTTPClient) SetLikeStatus(ctx context.Context, id string, like bool) (domain.Card, error) {
	method := http.MethodDelete
	if like {
		method = http.MethodPut
	}
	var card domain.Card
	err := c.do(ctx, method, "/cards/likes/"+url.PathEscape(id), nil, &card)
	return card, err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(HeaderAuthorization, c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrRemoteOperation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
