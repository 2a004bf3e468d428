package footballdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/farellandr/goalfeed/internal/domain/league"
	"github.com/farellandr/goalfeed/internal/domain/match"
	"github.com/farellandr/goalfeed/internal/platform/logging"
	"github.com/farellandr/goalfeed/internal/platform/resilience"
	"github.com/farellandr/goalfeed/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.football-data.org/v4"
	dateLayout      = "2006-01-02"
	maxDateRangeDay = 9
)

var errProviderTransient = crerr.New("football-data transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		logger.Warn("football-data token is empty, requests will likely be rejected by the provider")
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          token,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// LiveMatches fetches every match the provider currently reports as in play.
func (c *Client) LiveMatches(ctx context.Context) ([]match.Match, error) {
	var envelope matchesEnvelope
	if err := c.doJSON(ctx, "/matches", map[string]string{"status": match.StatusLive}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch live matches: %w", err)
	}

	return normalizeMatches(envelope.Matches), nil
}

// TeamMatchesByStatus fetches one team's matches filtered to a single status.
func (c *Client) TeamMatchesByStatus(ctx context.Context, teamID int64, status string) ([]match.Match, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}

	var envelope matchesEnvelope
	path := fmt.Sprintf("/teams/%d/matches", teamID)
	if err := c.doJSON(ctx, path, map[string]string{"status": status}, &envelope); err != nil {
		return nil, fmt.Errorf("fetch team matches team_id=%d status=%s: %w", teamID, status, err)
	}

	return normalizeMatches(envelope.Matches), nil
}

// TeamFinishedMatches fetches one team's finished matches inside a date window.
// The window is clamped to the provider's maximum span before the request.
func (c *Client) TeamFinishedMatches(ctx context.Context, teamID int64, from, to time.Time) ([]match.Match, error) {
	if teamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}

	from, to = ClampDateRange(from, to)

	var envelope matchesEnvelope
	path := fmt.Sprintf("/teams/%d/matches", teamID)
	query := map[string]string{
		"status":   match.StatusFinished,
		"dateFrom": from.UTC().Format(dateLayout),
		"dateTo":   to.UTC().Format(dateLayout),
	}
	if err := c.doJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch finished matches team_id=%d: %w", teamID, err)
	}

	return normalizeMatches(envelope.Matches), nil
}

// Competitions fetches the provider's competition catalogue.
func (c *Client) Competitions(ctx context.Context) ([]league.League, error) {
	var envelope competitionsEnvelope
	if err := c.doJSON(ctx, "/competitions", nil, &envelope); err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}

	return normalizeCompetitions(envelope.Competitions), nil
}

// ClampDateRange caps the span between from and to at the provider's documented
// maximum of nine days. When the span exceeds the cap, to is pulled back to
// from plus nine days; equal or shorter spans pass through untouched.
func ClampDateRange(from, to time.Time) (time.Time, time.Time) {
	limit := maxDateRangeDay * 24 * time.Hour
	if to.Sub(from) > limit {
		return from, from.Add(limit)
	}
	return from, to
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "football-data circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errProviderTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errProviderTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errProviderTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "football-data request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, "REDACTED")
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
