package vpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	vperrors "github.com/vango-dev/vpbrowse/internal/errors"
)

const tracerName = "github.com/vango-dev/vpbrowse/pkg/vpapi"

// maxErrorBody bounds how much of a failed response is kept in APIError.
const maxErrorBody = 4 << 10

// Config configures a Client.
type Config struct {
	// BaseURL is the API root without a trailing slash.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// PSID and AccessKey are the partner credentials. Empty values are not
	// sent.
	PSID      string
	AccessKey string

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration

	// TagCacheTTL is how long Tags(ctx, true) may serve cached tags.
	// Zero keeps them until InvalidateTags.
	TagCacheTTL time.Duration

	// HTTPClient defaults to a client with Timeout.
	HTTPClient *http.Client

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// Client talks to the Video Promotion API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	psid      string
	accessKey string
	http      *http.Client
	logger    *slog.Logger
	tracer    trace.Tracer
	tagTTL    time.Duration
	now       func() time.Time

	mu       sync.Mutex
	tags     []string
	tagsTime time.Time
}

// New creates a Client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		psid:      cfg.PSID,
		accessKey: cfg.AccessKey,
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
		tracer:    cfg.TracerProvider.Tracer(tracerName),
		tagTTL:    cfg.TagCacheTTL,
		now:       time.Now,
	}
}

// APIError is returned, wrapped, when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Path, e.StatusCode, strings.TrimSpace(e.Body))
}

// Params is a request's query parameters. Set skips empty values so
// optional parameters are left out of the URL.
type Params url.Values

// Set stores value under key unless value is empty.
func (p Params) Set(key, value string) {
	if value == "" {
		return
	}
	url.Values(p).Set(key, value)
}

// SetInt stores a positive value under key.
func (p Params) SetInt(key string, value int) {
	if value <= 0 {
		return
	}
	url.Values(p).Set(key, strconv.Itoa(value))
}

// URL builds the request URL for path and params with the credentials
// added. Leading slashes of path are dropped.
func (c *Client) URL(path string, params Params) string {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if c.psid != "" {
		q.Set("psid", c.psid)
	}
	if c.accessKey != "" {
		q.Set("accessKey", c.accessKey)
	}

	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// Get requests path and decodes the "data" member of the response into out.
func (c *Client) Get(ctx context.Context, path string, params Params, out any) (err error) {
	path = strings.TrimLeft(path, "/")
	ctx, span := c.tracer.Start(ctx, "vpapi "+endpointName(path),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("vpapi.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, params), nil)
	if err != nil {
		return vperrors.New("E200").WithDetailf("build request for %q", path).Wrap(err)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("vpapi request failed", "path", path, "error", err)
		return vperrors.New("E200").WithDetailf("GET %s", path).Wrap(err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("vpapi request", "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
		return vperrors.New("E201").WithDetailf("GET %s returned %d", path, resp.StatusCode).Wrap(apiErr)
	}

	env := envelope[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return vperrors.New("E202").WithDetailf("GET %s", path).Wrap(err)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return vperrors.New("E202").WithDetailf("GET %s data", path).Wrap(err)
	}
	return nil
}

// endpointName drops ids from a path so span names stay low-cardinality.
func endpointName(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}

// List loads a page of videos.
func (c *Client) List(ctx context.Context, p ListParams) (*ListResponse, error) {
	params := Params{}
	params.SetInt("pageIndex", max(p.Page, 1))
	params.SetInt("limit", p.Limit)
	params.Set("sexualOrientation", firstNonEmpty(p.SexualOrientation, DefaultSexualOrientation))
	params.Set("primaryColor", firstNonEmpty(p.PrimaryColor, DefaultPrimaryColor))
	params.Set("labelColor", firstNonEmpty(p.LabelColor, DefaultLabelColor))
	params.Set("tags", strings.Join(p.Tags, ","))

	var out ListResponse
	if err := c.Get(ctx, "client/list", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Related loads videos related to p.ID.
func (c *Client) Related(ctx context.Context, p RelatedParams) (*ListResponse, error) {
	params := Params{}
	params.SetInt("pageIndex", max(p.Page, 1))
	params.SetInt("limit", p.Limit)

	var out ListResponse
	if err := c.Get(ctx, "client/related/"+url.PathEscape(p.ID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Details loads one video with its player embed script.
func (c *Client) Details(ctx context.Context, p DetailsParams) (*Details, error) {
	params := Params{}
	params.Set("primaryColor", firstNonEmpty(p.PrimaryColor, DefaultPrimaryColor))
	params.Set("labelColor", firstNonEmpty(p.LabelColor, DefaultLabelColor))

	var out Details
	if err := c.Get(ctx, "client/details/"+url.PathEscape(p.VideoID), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Tags returns every tag known to the API. With allowCache a previously
// loaded list is returned while it is fresh. The result is a copy.
func (c *Client) Tags(ctx context.Context, allowCache bool) ([]string, error) {
	if allowCache {
		c.mu.Lock()
		cached := c.tags
		fresh := cached != nil && (c.tagTTL <= 0 || c.now().Sub(c.tagsTime) < c.tagTTL)
		c.mu.Unlock()
		if fresh {
			return append([]string(nil), cached...), nil
		}
	}

	var payload tagsPayload
	if err := c.Get(ctx, "tags", nil, &payload); err != nil {
		return nil, err
	}
	if payload.Tags == nil {
		payload.Tags = []string{}
	}

	c.mu.Lock()
	c.tags = payload.Tags
	c.tagsTime = c.now()
	c.mu.Unlock()

	return append([]string(nil), payload.Tags...), nil
}

// InvalidateTags drops the cached tag list.
func (c *Client) InvalidateTags() {
	c.mu.Lock()
	c.tags = nil
	c.mu.Unlock()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
