package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
)

var ErrUnexpectedStatus = errors.New("unexpected gateway status")

// Client talks to the chat gateway over its HTTP API. It implements
// platform.LogSearcher and platform.Directory.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a client allowing perSecond requests with a burst of one.
// A non-positive perSecond disables limiting.
func NewClient(baseURL, token string, perSecond float64, logger zerolog.Logger, opts ...Option) *Client {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "gateway").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageDTO struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type rolesDTO struct {
	Roles []string `json:"roles"`
}

// RecentMessages returns up to limit of the newest messages in a channel.
func (c *Client) RecentMessages(ctx context.Context, channelID string, limit int) ([]platform.LogMessage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var out []messageDTO
	status, err := c.do(ctx, "/channels/"+url.PathEscape(channelID)+"/messages?"+q.Encode(), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages for %s: %w", channelID, err)
	}
	if status == http.StatusNotFound {
		return nil, nil
	}

	msgs := make([]platform.LogMessage, 0, len(out))
	for _, m := range out {
		msgs = append(msgs, platform.LogMessage{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return msgs, nil
}

// ChannelExists reports whether the gateway still knows the channel.
func (c *Client) ChannelExists(ctx context.Context, channelID string) (bool, error) {
	status, err := c.do(ctx, "/channels/"+url.PathEscape(channelID), nil)
	if err != nil {
		return false, fmt.Errorf("failed to look up channel %s: %w", channelID, err)
	}
	return status != http.StatusNotFound, nil
}

// MemberHasRole reports whether the member holds roleID. Unknown members hold no roles.
func (c *Client) MemberHasRole(ctx context.Context, userID, roleID string) (bool, error) {
	var out rolesDTO
	status, err := c.do(ctx, "/members/"+url.PathEscape(userID)+"/roles", &out)
	if err != nil {
		return false, fmt.Errorf("failed to fetch roles for %s: %w", userID, err)
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	for _, r := range out.Roles {
		if r == roleID {
			return true, nil
		}
	}
	return false, nil
}

// do issues a GET and decodes a 2xx body into out when out is non-nil.
// A 404 is returned as a status, not an error.
func (c *Client) do(ctx context.Context, path string, out interface{}) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("gateway request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return resp.StatusCode, nil
}
