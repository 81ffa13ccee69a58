package coincap

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crypto_tracker/internal/domain"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

const (
	getCoinsPath = "/assets"

	defaultHistoryInterval = "h6"
	defaultTimeout         = 10 * time.Second
)

// Config holds the client settings for the CoinCap API.
type Config struct {
	BaseURL         string
	APIKey          string
	UserAgent       string
	HistoryInterval string
	Timeout         time.Duration
	// RatePerSecond throttles outgoing requests; 0 disables throttling.
	RatePerSecond float64
	Burst         int
}

// RemoteCoinDataSource implements domain.CoinDataSource against the CoinCap REST API.
// Each call issues exactly one request; nothing is cached between calls.
type RemoteCoinDataSource struct {
	baseURL         string
	apiKey          string
	userAgent       string
	historyInterval string
	httpClient      *http.Client
	limiter         *rate.Limiter
}

var _ domain.CoinDataSource = (*RemoteCoinDataSource)(nil)

// NewRemoteCoinDataSource creates a data source from cfg, filling in defaults.
func NewRemoteCoinDataSource(cfg Config) *RemoteCoinDataSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HistoryInterval == "" {
		cfg.HistoryInterval = defaultHistoryInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &RemoteCoinDataSource{
		baseURL:         cfg.BaseURL,
		apiKey:          cfg.APIKey,
		userAgent:       cfg.UserAgent,
		historyInterval: cfg.HistoryInterval,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		limiter:         limiter,
	}
}

// GetCoins fetches the asset list, preserving the API order.
func (s *RemoteCoinDataSource) GetCoins(ctx context.Context) ([]domain.Coin, error) {
	req, err := s.newRequest(ctx, ConstructURL(s.baseURL, getCoinsPath), nil)
	if err != nil {
		return nil, err
	}

	resp, err := SafeCall[coinsResponseDto](s.httpClient, req)
	if err != nil {
		slog.WarnContext(ctx, "GetCoins failed", slog.Any("error", err))
		return nil, err
	}

	coins := make([]domain.Coin, len(resp.Data))
	for i, dto := range resp.Data {
		coins[i] = dto.toCoin()
	}
	slog.DebugContext(ctx, "GetCoins succeeded", slog.Int("count", len(coins)))
	return coins, nil
}

// GetCoinHistory fetches price samples for coinID between start and end.
// Samples are returned in API order; callers sort as needed.
func (s *RemoteCoinDataSource) GetCoinHistory(ctx context.Context, coinID string, start, end time.Time) ([]domain.CoinPrice, error) {
	query := url.Values{}
	query.Set("interval", s.historyInterval)
	query.Set("start", strconv.FormatInt(start.UnixMilli(), 10))
	query.Set("end", strconv.FormatInt(end.UnixMilli(), 10))

	path := "/assets/" + url.PathEscape(coinID) + "/history"
	req, err := s.newRequest(ctx, ConstructURL(s.baseURL, path), query)
	if err != nil {
		return nil, err
	}

	resp, err := SafeCall[coinHistoryDto](s.httpClient, req)
	if err != nil {
		slog.WarnContext(ctx, "GetCoinHistory failed", slog.String("coin", coinID), slog.Any("error", err))
		return nil, err
	}

	history := make([]domain.CoinPrice, len(resp.Data))
	for i, dto := range resp.Data {
		history[i] = dto.toCoinPrice()
	}
	return history, nil
}

// newRequest waits for the limiter and builds a GET request.
func (s *RemoteCoinDataSource) newRequest(ctx context.Context, rawURL string, query url.Values) (*http.Request, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, classifyTransportError(errors.Wrap(err, "waiting for rate limiter"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, domain.NewNetworkError(domain.KindUnknown, 0, errors.Wrapf(err, "building request for %s", rawURL))
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	req.Header.Set("Accept", "application/json")
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	return req, nil
}
