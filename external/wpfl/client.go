package wpfl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/commishbot/internal/domain/draft"
	"github.com/riskibarqy/commishbot/internal/domain/leaguestats"
	"github.com/riskibarqy/commishbot/internal/domain/season"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/riskibarqy/commishbot/internal/platform/resilience"
	"github.com/riskibarqy/commishbot/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL     = "https://wpflapi.azurewebsites.net/api"
	defaultTimeout     = 30 * time.Second
	maxResponseBytes   = 32 << 20
	draftHistoryPath   = "/draft/history"
	playerScoresPath   = "/playerscores"
	expectedWinsPath   = "/expectedwins"
	optimalCoachPath   = "/optimalcoaching/pointsfor/"
	abbreviatedBodyLen = 240
)

var errWPFLTransient = crerr.New("wpfl api transient failure")

type ClientConfig struct {
	// HTTPClient is mainly for tests; a default fasthttp client is built otherwise.
	HTTPClient     *fasthttp.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads draft history, weekly player scores and season summaries from
// the league stats API.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	timeout    time.Duration
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     resilience.Group[[]byte]
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "commishbot",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breaker := resilience.BreakerFromConfig(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
		logger.Warn("wpfl circuit breaker state changed", "from", from, "to", to)
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    breaker,
		sleep:      sleepContext,
	}
}

// FetchDraftHistory returns every pick in r. Rows without an owner or season
// are dropped.
func (c *Client) FetchDraftHistory(ctx context.Context, r season.Range) ([]draft.Pick, error) {
	var rows []draftPickPayload
	if err := c.getJSON(ctx, draftHistoryPath, rangeQuery(r), &rows); err != nil {
		return nil, fmt.Errorf("fetch draft history %s: %w", r.String(), err)
	}

	out := make([]draft.Pick, 0, len(rows))
	for _, row := range rows {
		pick, ok := row.toDomain()
		if !ok {
			continue
		}
		out = append(out, pick)
	}
	if dropped := len(rows) - len(out); dropped > 0 {
		c.logger.WarnContext(ctx, "dropped draft picks without owner or season", "range", r.String(), "dropped", dropped)
	}
	return out, nil
}

// FetchPlayerScores returns one row per player-week in r.
func (c *Client) FetchPlayerScores(ctx context.Context, r season.Range) ([]draft.WeeklyScore, error) {
	var rows []playerScorePayload
	if err := c.getJSON(ctx, playerScoresPath, rangeQuery(r), &rows); err != nil {
		return nil, fmt.Errorf("fetch player scores %s: %w", r.String(), err)
	}

	out := make([]draft.WeeklyScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FetchExpectedWins returns expected and actual wins for weeks 1..week of
// year, one row per owner.
func (c *Client) FetchExpectedWins(ctx context.Context, year, week int) ([]leaguestats.ExpectedWins, error) {
	query := rangeQuery(season.Range{Min: year, Max: year})
	query.Set("weekMin", "1")
	query.Set("weekMax", strconv.Itoa(week))

	var rows []expectedWinsPayload
	if err := c.getJSON(ctx, expectedWinsPath, query, &rows); err != nil {
		return nil, fmt.Errorf("fetch expected wins %d week %d: %w", year, week, err)
	}

	out := make([]leaguestats.ExpectedWins, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// FetchOptimalCoaching returns actual against optimal points for through
// week of year, one row per owner.
func (c *Client) FetchOptimalCoaching(ctx context.Context, year, week int) ([]leaguestats.Coaching, error) {
	query := url.Values{}
	query.Set("week", strconv.Itoa(week))

	var rows []coachingPayload
	if err := c.getJSON(ctx, optimalCoachPath+strconv.Itoa(year), query, &rows); err != nil {
		return nil, fmt.Errorf("fetch optimal coaching %d week %d: %w", year, week, err)
	}

	out := make([]leaguestats.Coaching, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func rangeQuery(r season.Range) url.Values {
	values := url.Values{}
	values.Set("seasonMin", strconv.Itoa(r.Min))
	values.Set("seasonMax", strconv.Itoa(r.Max))
	return values
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "wpfl circuit breaker rejected request", "state", c.breaker.State())
		return crerr.Mark(crerr.Wrap(err, "stats api is temporarily unavailable"), usecase.ErrDependencyUnavailable)
	}

	fullURL := c.baseURL + path + "?" + query.Encode()

	raw, err, shared := c.flight.Do(fullURL, func() ([]byte, error) {
		body, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr, isTransient)
		return body, reqErr
	})
	if err != nil {
		return crerr.Mark(err, usecase.ErrDependencyUnavailable)
	}
	if shared {
		c.logger.DebugContext(ctx, "wpfl request shared", "url", fullURL)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(crerr.Wrapf(err, "decode %s payload", path), usecase.ErrDecodeFailure)
	}
	return nil
}

func isTransient(err error) bool {
	return crerr.Is(err, errWPFLTransient)
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.do(ctx, fullURL)
		switch {
		case err != nil:
			lastErr = crerr.Wrapf(errWPFLTransient, "send request: %v", err)
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Wrapf(errWPFLTransient, "api status=%d body=%s", status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("api status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		if err := c.sleep(ctx, time.Duration(attempt+1)*time.Second); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("api request failed")
	}
	c.logger.WarnContext(ctx, "wpfl request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	// resp is released on return; the body must be copied out.
	body := append([]byte(nil), resp.Body()...)
	return body, resp.StatusCode(), nil
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	value := strings.TrimSpace(string(raw))
	if len(value) <= abbreviatedBodyLen {
		return value
	}
	return value[:abbreviatedBodyLen] + "..."
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
