package analysis

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/maxpot/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const defaultCacheTTL = 10 * time.Minute

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts daily payloads to the analytics service. Identical payloads
// are answered from an in-process cache.
type Client struct {
	baseURL    string
	httpClient httpDoer
	cache      *freecache.Cache
	cacheTTL   time.Duration
}

type NewClientParams struct {
	BaseURL     string
	Timeout     time.Duration
	CacheSizeMB int
	CacheTTL    time.Duration
	// optional, a traced client with Timeout is created when nil
	HTTPClient httpDoer
}

func NewClient(params NewClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   params.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	cacheSize := params.CacheSizeMB
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cacheTTL := params.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &Client{
		baseURL:    strings.TrimRight(params.BaseURL, "/"),
		httpClient: httpClient,
		cache:      freecache.NewCache(cacheSize * 1024 * 1024),
		cacheTTL:   cacheTTL,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// AnalyzeDaily posts req to {baseURL}/analyze/daily.
func (c *Client) AnalyzeDaily(ctx context.Context, req DailyRequest) (*DailyAnalysis, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analysisClient.analyzeDaily")
	var err error
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal daily request: %w", err)
	}

	cacheKey := sha256.Sum256(payload)
	if cached, cacheErr := c.cache.Get(cacheKey[:]); cacheErr == nil {
		var analysis DailyAnalysis
		if err = json.Unmarshal(cached, &analysis); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &analysis, nil
		}
		log.Warnf("analysis cache entry unreadable, refetching: %s", err)
		c.cache.Del(cacheKey[:])
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze/daily", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("new analysis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post daily analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		err = fmt.Errorf("analytics service returned %d", resp.StatusCode)
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis response: %w", err)
	}

	var analysis DailyAnalysis
	if err = json.Unmarshal(body, &analysis); err != nil {
		return nil, fmt.Errorf("unmarshal analysis response: %w", err)
	}

	if setErr := c.cache.Set(cacheKey[:], body, int(c.cacheTTL.Seconds())); setErr != nil {
		log.Warnf("cache analysis response: %s", setErr)
	}

	return &analysis, nil
}
