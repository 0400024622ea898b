package roblox

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

	"github.com/egemenh/salestracker/internal/domain"
	"github.com/egemenh/salestracker/internal/ports"
)

const (
	DefaultBaseURL = "https://economy.roblox.com"

	defaultPageSize  = 100
	maxResponseBytes = 1 << 20
	sessionCookie    = ".ROBLOSECURITY"
	userAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client reads balance statistics and the sale-transaction feed from the
// economy API. Requests are authenticated by the session cookie attached
// as a header; the API itself is otherwise opaque to the core.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	PageSize       int
}

var _ ports.FeedClient = (*Client)(nil)

type currencyResponse struct {
	Robux int64 `json:"robux"`
}

type revenueSummaryResponse struct {
	PendingRobux int64 `json:"pendingRobux"`
}

type transactionsResponse struct {
	Data           []domain.Transaction `json:"data"`
	NextPageCursor *string              `json:"nextPageCursor"`
}

// GetStats combines the group funds and the pending revenue into one
// snapshot.
func (c *Client) GetStats(ctx context.Context, creds domain.Credentials) (domain.Stats, error) {
	var currency currencyResponse
	if err := c.getJSON(ctx, creds, fmt.Sprintf("/v1/groups/%s/currency", url.PathEscape(creds.GroupID)), nil, &currency); err != nil {
		return domain.Stats{}, fmt.Errorf("fetch group currency: %w", err)
	}

	var revenue revenueSummaryResponse
	if err := c.getJSON(ctx, creds, fmt.Sprintf("/v1/groups/%s/revenue/summary/day", url.PathEscape(creds.GroupID)), nil, &revenue); err != nil {
		return domain.Stats{}, fmt.Errorf("fetch revenue summary: %w", err)
	}

	return domain.Stats{Robux: currency.Robux, PendingRobux: revenue.PendingRobux}, nil
}

// GetTransactions fetches one page of sale transactions, optionally after
// a cursor.
func (c *Client) GetTransactions(ctx context.Context, creds domain.Credentials, cursor string) (domain.TransactionPage, error) {
	query := url.Values{}
	query.Set("transactionType", "Sale")
	query.Set("limit", strconv.Itoa(c.pageSize()))
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var payload transactionsResponse
	if err := c.getJSON(ctx, creds, fmt.Sprintf("/v2/groups/%s/transactions", url.PathEscape(creds.GroupID)), query, &payload); err != nil {
		return domain.TransactionPage{}, err
	}

	page := domain.TransactionPage{Transactions: payload.Data}
	if payload.NextPageCursor != nil {
		page.NextPageCursor = *payload.NextPageCursor
	}
	return page, nil
}

func (c *Client) getJSON(ctx context.Context, creds domain.Credentials, path string, query url.Values, out any) error {
	endpoint, err := c.buildURL(path, query)
	if err != nil {
		return err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create feed request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: creds.Cookie})
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		// No response at all: surfaces as status 0 so the engine treats it
		// as fatal rather than retryable.
		return &domain.FeedError{Status: 0, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &domain.FeedError{Status: 0, Message: err.Error()}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &domain.FeedError{Status: resp.StatusCode, Message: feedErrorMessage(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode feed response: %w", err)
	}

	return nil
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse feed base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("feed base url must use http or https")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse feed path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	return endpoint.String(), nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return defaultPageSize
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

// feedErrorMessage pulls the first API error message out of the standard
// errors envelope, falling back to the trimmed raw body.
func feedErrorMessage(body []byte) string {
	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 && envelope.Errors[0].Message != "" {
		return envelope.Errors[0].Message
	}
	return strings.TrimSpace(string(body))
}
