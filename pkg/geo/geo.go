// Package geo looks up countries, states and cities from the
// countrystatecity.in API.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Place is one country, state or city record as returned upstream.
type Place map[string]any

// Cache stores raw upstream bodies by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Client calls the geo API, consulting the cache first.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cache      Cache
	ttl        time.Duration
	logger     *zap.Logger
}

// Config configures a Client.
type Config struct {
	BaseURL  string
	APIKey   string
	CacheTTL time.Duration
	Timeout  time.Duration
}

// NewClient creates a Client. A nil cache disables caching.
func NewClient(cfg Config, cache Cache, logger *zap.Logger) *Client {
	if cache == nil {
		cache = NoopCache{}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		cache:      cache,
		ttl:        cfg.CacheTTL,
		logger:     logger,
	}
}

// Countries lists all countries.
func (c *Client) Countries(ctx context.Context) []Place {
	return c.fetch(ctx, "/countries")
}

// States lists the states of a country by ISO2 code.
func (c *Client) States(ctx context.Context, country string) []Place {
	return c.fetch(ctx, fmt.Sprintf("/countries/%s/states", url.PathEscape(country)))
}

// Cities lists the cities of a state.
func (c *Client) Cities(ctx context.Context, country, state string) []Place {
	return c.fetch(ctx, fmt.Sprintf("/countries/%s/states/%s/cities", url.PathEscape(country), url.PathEscape(state)))
}

// fetch never fails: any upstream or decoding error yields an empty list.
func (c *Client) fetch(ctx context.Context, path string) []Place {
	key := "geo:" + path
	if body, ok := c.cache.Get(ctx, key); ok {
		if places, err := decode(body); err == nil {
			return places
		}
	}

	body, err := c.get(ctx, path)
	if err != nil {
		c.logger.Warn("Geo lookup failed", zap.String("path", path), zap.Error(err))
		return []Place{}
	}
	places, err := decode(body)
	if err != nil {
		c.logger.Warn("Geo response not decodable", zap.String("path", path), zap.Error(err))
		return []Place{}
	}
	c.cache.Set(ctx, key, body, c.ttl)
	return places
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-CSCAPI-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func decode(body []byte) ([]Place, error) {
	var places []Place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, err
	}
	if places == nil {
		places = []Place{}
	}
	return places, nil
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool)            { return nil, false }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) {}
