package animeflv

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aniview/anime-gateway/internal/models"
)

const (
	DefaultBaseURL = "https://www3.animeflv.net"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Client scrapes the AnimeFLV catalog through an ordered list of relay
// strategies. It holds no request state and is safe for concurrent use.
type Client struct {
	baseURL    string
	relays     []Relay
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

type ClientOptions struct {
	BaseURL    string
	Relays     []Relay
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func NewClient(opts ClientOptions) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	relays := opts.Relays
	if len(relays) == 0 {
		relays = DefaultRelays()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		relays:     relays,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Anime, error) {
	body, err := c.fetchPage(ctx, c.baseURL+"/browse?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	return ParseSearchListing(body, c.baseURL)
}

func (c *Client) Browse(ctx context.Context, genre string, order string) ([]models.Anime, error) {
	target := c.baseURL + "/browse?order=" + url.QueryEscape(order)
	if genre != "" && genre != "all" {
		target += "&genre=" + url.QueryEscape(genre)
	}
	body, err := c.fetchPage(ctx, target)
	if err != nil {
		return nil, err
	}
	return ParseBrowseListing(body, c.baseURL)
}

// Trending lists currently airing titles ordered by rating.
func (c *Client) Trending(ctx context.Context) ([]models.Anime, error) {
	return c.listByQuery(ctx, "status=1&order=rating")
}

// NewReleases lists titles by date added.
func (c *Client) NewReleases(ctx context.Context) ([]models.Anime, error) {
	return c.listByQuery(ctx, "order=added")
}

// Classics lists finished titles ordered by rating.
func (c *Client) Classics(ctx context.Context) ([]models.Anime, error) {
	return c.listByQuery(ctx, "status=2&order=rating")
}

func (c *Client) listByQuery(ctx context.Context, rawQuery string) ([]models.Anime, error) {
	body, err := c.fetchPage(ctx, c.baseURL+"/browse?"+rawQuery)
	if err != nil {
		return nil, err
	}
	return ParseBrowseListing(body, c.baseURL)
}

func (c *Client) Detail(ctx context.Context, id string) (*models.AnimeDetail, error) {
	body, err := c.fetchPage(ctx, c.baseURL+"/anime/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return ParseDetail(body, id, c.baseURL)
}

func (c *Client) VideoServers(ctx context.Context, id string, episode string) ([]models.VideoServer, error) {
	body, err := c.fetchPage(ctx, c.baseURL+"/ver/"+url.PathEscape(id)+"-"+url.PathEscape(episode))
	if err != nil {
		return nil, err
	}
	return ParseVideoServers(body)
}

// fetchPage tries each relay strategy in order and returns the first body
// that looks like an HTML document. There is no retrying beyond the single
// pass over the strategy list.
func (c *Client) fetchPage(ctx context.Context, target string) (string, error) {
	var lastErr error
	for _, relay := range c.relays {
		body, err := c.attempt(ctx, relay, target)
		if err != nil {
			c.logger.Debug("relay attempt failed", "relay", relay.Name, "target", target, "error", err)
			lastErr = err
			continue
		}
		return body, nil
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, target, lastErr)
	}
	return "", fmt.Errorf("%w: %s: no relay strategies configured", ErrUpstreamUnavailable, target)
}

func (c *Client) attempt(ctx context.Context, relay Relay, target string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, relay.RequestURL(target), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", res.StatusCode)
	}

	rawBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	body := string(rawBody)
	if !looksLikeHTML(body) {
		return "", fmt.Errorf("response is not an html document")
	}
	return body, nil
}

func looksLikeHTML(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype")
}
