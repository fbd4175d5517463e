// Package client reads error records from a remote wpreport serve instance.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/five82/wpreport/internal/errorlog"
	"github.com/five82/wpreport/internal/sources"
)

// Client talks to the wpreport HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7490"
	defaultUserAgent = "wpreport/0.1"
	requestTimeout   = 10 * time.Second
	maxErrorBody     = 4 << 10
)

// NewClient builds a Client for apiBind, a host:port or URL. An empty token
// sends no Authorization header.
func NewClient(apiBind, token string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		token:     strings.TrimSpace(token),
		userAgent: defaultUserAgent,
	}, nil
}

// Query selects the records a request returns. A zero Limit uses the
// server's default.
type Query struct {
	Filter sources.Filter
	Limit  int
}

func (q Query) values() url.Values {
	values := url.Values{}
	if q.Filter != sources.FilterAll {
		values.Set("log_type", string(q.Filter))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	return values
}

type errorsResponse struct {
	Errors []errorlog.Record `json:"errors"`
	Count  int               `json:"count"`
}

// FetchErrors retrieves the most recent records.
func (c *Client) FetchErrors(ctx context.Context, query Query) ([]errorlog.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: "/api/v1/errors", RawQuery: query.values().Encode()}
	resp, err := c.get(ctx, rel, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var payload errorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Errors, nil
}

// Export is a downloaded CSV or PDF file.
type Export struct {
	Filename string
	Body     []byte
}

// FetchExport downloads a "csv" or "pdf" export.
func (c *Client) FetchExport(ctx context.Context, kind string, query Query) (Export, error) {
	if c == nil {
		return Export{}, fmt.Errorf("client is nil")
	}
	var accept string
	switch kind {
	case "csv":
		accept = "text/csv"
	case "pdf":
		accept = "application/pdf"
	default:
		return Export{}, fmt.Errorf("unknown export kind %q", kind)
	}

	rel := &url.URL{Path: "/api/v1/export/" + kind, RawQuery: query.values().Encode()}
	resp, err := c.get(ctx, rel, accept)
	if err != nil {
		return Export{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Export{}, fmt.Errorf("read export: %w", err)
	}
	return Export{Filename: attachmentName(resp.Header.Get("Content-Disposition")), Body: body}, nil
}

func (c *Client) get(ctx context.Context, rel *url.URL, accept string) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 400 {
		defer func() { _ = resp.Body.Close() }()
		return nil, statusError(rel, resp)
	}
	return resp, nil
}

// statusError includes the API's {"error": msg} text when there is one.
func statusError(rel *url.URL, resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("api %s returned status %d: %s", rel.Path, resp.StatusCode, body.Error)
	}
	return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
}

func attachmentName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse remote %q: %w", apiBind, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse remote %q: missing host", apiBind)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
