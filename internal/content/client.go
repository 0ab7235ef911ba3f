// Package content is the site's client for the remote content API:
// projects, events, job openings, videos, and the press feed.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/bryan-buckman/studiofront/internal/clock"
	"github.com/bryan-buckman/studiofront/internal/model"
)

const (
	// DefaultBaseURL is the local development API.
	DefaultBaseURL = "http://localhost:5000/api"
	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 15 * time.Second
	// MaxPressItems caps the press feed.
	MaxPressItems = 12

	maxBodyBytes = 8 << 20
)

// Cache stores raw API payloads by request key. The client reads a
// snapshot younger than its TTL instead of calling the API, and writes
// every successful response back.
type Cache interface {
	GetSnapshot(key string) (*model.Snapshot, error)
	PutSnapshot(key string, payload []byte, fetchedAt time.Time) error
}

// Options configures a Client.
type Options struct {
	BaseURL      string
	PressFeedURL string
	HTTPClient   *http.Client
	// RequestsPerSecond limits outbound API calls. Zero means unlimited.
	RequestsPerSecond float64
	Cache             Cache
	CacheTTL          time.Duration
	Clock             clock.Clock
}

// Client fetches collections from the content API.
type Client struct {
	base     *url.URL
	pressURL string
	http     *http.Client
	limiter  *rate.Limiter
	cache    Cache
	ttl      time.Duration
	clock    clock.Clock
	parser   *gofeed.Parser
}

// NewClient validates opts and returns a Client.
func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	parser := gofeed.NewParser()
	parser.Client = hc

	return &Client{
		base:     base,
		pressURL: opts.PressFeedURL,
		http:     hc,
		limiter:  limiter,
		cache:    opts.Cache,
		ttl:      opts.CacheTTL,
		clock:    clk,
		parser:   parser,
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.base.String() }

// Projects returns the portfolio, optionally narrowed to a category.
func (c *Client) Projects(ctx context.Context, category string) ([]model.Project, error) {
	q := url.Values{}
	if f := NormalizeCategory(category); f != "" && f != AllCategories {
		q.Set("category", CategorySlug(category))
	}
	var projects []model.Project
	if err := c.getList(ctx, model.CollectionProjects, "projects", q, &projects); err != nil {
		return nil, err
	}
	// The API may ignore the parameter; filter here too.
	return FilterProjects(projects, category), nil
}

// Project returns one project with its gallery and details.
func (c *Client) Project(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := c.getOne(ctx, model.CollectionProjects, "projects/"+url.PathEscape(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Events returns the calendar, upcoming first.
func (c *Client) Events(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if err := c.getList(ctx, model.CollectionEvents, "events", nil, &events); err != nil {
		return nil, err
	}
	SortEvents(events, c.clock.Now())
	return events, nil
}

// Event returns one event with its full description.
func (c *Client) Event(ctx context.Context, id string) (*model.Event, error) {
	var e model.Event
	if err := c.getOne(ctx, model.CollectionEvents, "events/"+url.PathEscape(id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// OpenJobs returns the open positions.
func (c *Client) OpenJobs(ctx context.Context) ([]model.JobOpening, error) {
	var jobs []model.JobOpening
	if err := c.getList(ctx, model.CollectionJobs, "careers/open", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// Job returns the open position with the given id.
func (c *Client) Job(ctx context.Context, id string) (*model.JobOpening, error) {
	jobs, err := c.OpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		if jobs[i].ID == id {
			return &jobs[i], nil
		}
	}
	return nil, &FetchError{Collection: model.CollectionJobs, Path: "careers/open", Status: http.StatusNotFound, Err: ErrNotFound}
}

// Videos returns the video gallery.
func (c *Client) Videos(ctx context.Context) ([]model.Video, error) {
	var videos []model.Video
	if err := c.getList(ctx, model.CollectionVideos, "videos", nil, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// Refresh re-fetches a collection past the cache and stores the result.
func (c *Client) Refresh(ctx context.Context, coll model.Collection) error {
	if coll == model.CollectionPress {
		_, err := c.press(ctx, false)
		return err
	}
	if !coll.Valid() {
		return fmt.Errorf("unknown collection %q", coll)
	}
	_, err := c.fetch(ctx, coll, string(coll), nil, false)
	return err
}

func (c *Client) getList(ctx context.Context, coll model.Collection, path string, q url.Values, into any) error {
	body, err := c.fetch(ctx, coll, path, q, true)
	if err != nil {
		return err
	}
	if err := decodeEnvelope(body, into); err != nil {
		return &FetchError{Collection: coll, Path: path, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func (c *Client) getOne(ctx context.Context, coll model.Collection, path string, into any) error {
	return c.getList(ctx, coll, path, nil, into)
}

// decodeEnvelope accepts a bare JSON value or one wrapped as {"data": ...}.
func decodeEnvelope(body []byte, into any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
			trimmed = env.Data
		}
	}
	return json.Unmarshal(trimmed, into)
}

func cacheKey(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// fetch returns the response body for path, from the cache when
// readCache is set and a fresh snapshot exists.
func (c *Client) fetch(ctx context.Context, coll model.Collection, path string, q url.Values, readCache bool) ([]byte, error) {
	key := cacheKey(path, q)
	if readCache && c.cache != nil && c.ttl > 0 {
		snap, err := c.cache.GetSnapshot(key)
		if err == nil && c.clock.Now().Sub(snap.FetchedAt) < c.ttl {
			return snap.Payload, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Collection: coll, Path: path, Err: err}
	}

	endpoint := c.base.String() + "/" + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Collection: coll, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Collection: coll, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &FetchError{Collection: coll, Path: path, Status: resp.StatusCode, Err: ErrNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Collection: coll, Path: path, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Collection: coll, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.store(key, body)
	return body, nil
}

func (c *Client) store(key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.PutSnapshot(key, body, c.clock.Now()); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}
