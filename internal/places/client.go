package places

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"

	"github.com/luxbiz/biz-optimizer/config"
	"github.com/luxbiz/biz-optimizer/internal/platform/logging"
	"github.com/luxbiz/biz-optimizer/internal/platform/metrics"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

var detailFields = []string{
	"id", "displayName", "formattedAddress", "primaryType", "types", "rating",
	"userRatingCount", "websiteUri", "nationalPhoneNumber", "businessStatus",
	"googleMapsUri", "editorialSummary", "regularOpeningHours", "photos",
}

// Client talks to the Google Places API (v1). Responses are cached in Redis
// when a cache client is given.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *redis.Client
	cacheTTL   time.Duration
}

// NewClient builds a client. Without an API key it authenticates with
// Application Default Credentials.
func NewClient(ctx context.Context, cfg config.PlacesConfig, cache *redis.Client) (*Client, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	if cfg.APIKey == "" {
		adc, err := google.DefaultClient(ctx, cloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("places: no API key and no default credentials: %w", err)
		}
		adc.Timeout = cfg.Timeout
		httpClient = adc
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 4),
		cache:      cache,
		cacheTTL:   cfg.CacheTTL,
	}, nil
}

// SearchText returns up to max places matching a free-text query.
func (c *Client) SearchText(ctx context.Context, query string, max int) ([]Place, error) {
	key := "lux:places:search:" + hashKey(query+"|"+strconv.Itoa(max))
	var cached []Place
	if c.fromCache(ctx, key, &cached) {
		metrics.RecordPlaces("search_text", true, nil)
		return cached, nil
	}

	body, err := json.Marshal(searchTextRequest{TextQuery: query, PageSize: max})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	fields := make([]string, len(detailFields))
	for i, f := range detailFields {
		fields[i] = "places." + f
	}

	var resp searchTextResponse
	err = c.do(ctx, http.MethodPost, c.baseURL+"/places:searchText", body, fields, &resp)
	metrics.RecordPlaces("search_text", false, err)
	if err != nil {
		return nil, err
	}

	out := make([]Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		out = append(out, p.toPlace())
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.toCache(ctx, key, out)
	return out, nil
}

// Details fetches one place by id.
func (c *Client) Details(ctx context.Context, placeID string) (*Place, error) {
	key := "lux:places:details:" + placeID
	var cached Place
	if c.fromCache(ctx, key, &cached) {
		metrics.RecordPlaces("details", true, nil)
		return &cached, nil
	}

	var resp apiPlace
	err := c.do(ctx, http.MethodGet, c.baseURL+"/places/"+url.PathEscape(placeID), nil, detailFields, &resp)
	metrics.RecordPlaces("details", false, err)
	if err != nil {
		return nil, err
	}

	p := resp.toPlace()
	c.toCache(ctx, key, p)
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, reqURL string, body []byte, fields []string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("places rate limit: %w", err)
	}

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-FieldMask", strings.Join(fields, ","))
	if c.apiKey != "" {
		req.Header.Set("X-Goog-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read places response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrPlaceNotFound
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("places returned status %d: %s", resp.StatusCode, truncate(string(data), 300))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode places response: %w", err)
	}
	return nil
}

func (c *Client) fromCache(ctx context.Context, key string, out any) bool {
	if c.cache == nil || c.cacheTTL <= 0 {
		return false
	}
	data, err := c.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.FromContext(ctx).LogWarnf("places.cache", "cache read failed: %v", err)
		}
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (c *Client) toCache(ctx context.Context, key string, v any) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		logging.FromContext(ctx).LogWarnf("places.cache", "cache write failed: %v", err)
	}
}

func hashKey(s string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(s))))
	return hex.EncodeToString(sum[:])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
