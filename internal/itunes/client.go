package itunes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"podhub/internal/metrics"
)

const (
	defaultBaseURL   = "https://itunes.apple.com/search"
	defaultUserAgent = "podhub/1.0"
	defaultTimeout   = 10 * time.Second

	maxResponseBytes = 8 * 1024 * 1024
)

// Failure classes for the upstream call, matched with errors.Is at the
// HTTP boundary.
var (
	ErrTimeout             = errors.New("itunes: request timeout")
	ErrUpstreamUnavailable = errors.New("itunes: upstream error status")
	ErrUpstreamProtocol    = errors.New("itunes: malformed upstream response")
)

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// Client calls the iTunes Search API. It performs a single attempt per
// search; retry policy, if any, belongs to the caller.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	timeout   time.Duration
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Result is one raw iTunes search hit. Field pairs like trackName /
// collectionName exist because podcasts, episodes and collections use
// different naming conventions in the API.
type Result struct {
	WrapperType       string `json:"wrapperType"`
	Kind              string `json:"kind"`
	TrackID           int64  `json:"trackId"`
	CollectionID      int64  `json:"collectionId"`
	TrackName         string `json:"trackName"`
	CollectionName    string `json:"collectionName"`
	ArtistName        string `json:"artistName"`
	Description       string `json:"description"`
	LongDescription   string `json:"longDescription"`
	PrimaryGenreName  string `json:"primaryGenreName"`
	ArtworkURL100     string `json:"artworkUrl100"`
	ArtworkURL600     string `json:"artworkUrl600"`
	TrackViewURL      string `json:"trackViewUrl"`
	CollectionViewURL string `json:"collectionViewUrl"`
	ReleaseDate       string `json:"releaseDate"`
	Country           string `json:"country"`
	TrackCount        int    `json:"trackCount"`
}

// resultCount is a pointer so a response that omits it entirely can be told
// apart from a legitimate zero.
type searchResponse struct {
	ResultCount *int     `json:"resultCount"`
	Results     []Result `json:"results"`
}

// Search queries the iTunes Search API and returns the raw result records.
func (c *Client) Search(ctx context.Context, term, media, country string, limit int) ([]Result, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("itunes: parse base url: %w", err)
	}
	q := u.Query()
	q.Set("term", term)
	q.Set("media", media)
	q.Set("country", country)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("explicit", "Yes")
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("itunes: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if isTimeout(err) {
			metrics.UpstreamRequestsTotal.WithLabelValues("timeout").Inc()
			return nil, fmt.Errorf("itunes: search %q: %w", term, ErrTimeout)
		}
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("itunes: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		if isTimeout(err) {
			return nil, fmt.Errorf("itunes: read response: %w", ErrTimeout)
		}
		return nil, fmt.Errorf("itunes: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("itunes: status %d: %w", resp.StatusCode, ErrUpstreamUnavailable)
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("itunes: decode: %w", ErrUpstreamProtocol)
	}
	if payload.ResultCount == nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("itunes: missing resultCount: %w", ErrUpstreamProtocol)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	return payload.Results, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
