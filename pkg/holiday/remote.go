package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	wterror "github.com/msto63/werktag/foundation/core/error"
	wtlog "github.com/msto63/werktag/foundation/core/log"
	"github.com/msto63/werktag/pkg/constraint"
	"github.com/msto63/werktag/pkg/core/cache"
)

// RemoteConfig holds configuration for the public holiday API client
type RemoteConfig struct {
	BaseURL   string        // API root, e.g. https://date.nager.at
	Country   string        // ISO 3166-1 alpha-2 country code
	Timeout   time.Duration // Request timeout
	RateLimit float64       // Requests per second
	Burst     int           // Request burst
	CacheTTL  time.Duration // Lifetime of a fetched year
	UserAgent string
}

// DefaultRemoteConfig returns default configuration for the Nager.Date API
func DefaultRemoteConfig() RemoteConfig {
	return RemoteConfig{
		BaseURL:   "https://date.nager.at",
		Country:   "DE",
		Timeout:   10 * time.Second,
		RateLimit: 2,
		Burst:     4,
		CacheTTL:  24 * time.Hour,
		UserAgent: "werktag/1.0",
	}
}

// RemoteProvider fetches public holidays per year and caches them.
// Concurrent requests for the same year share one HTTP call.
type RemoteProvider struct {
	cfg        RemoteConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	group      singleflight.Group
	years      *cache.Cache[int, *Calendar]
	logger     *wtlog.Logger
}

// nagerHoliday is one entry of /api/v3/PublicHolidays/{year}/{country}
type nagerHoliday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Counties    []string `json:"counties"`
	Types       []string `json:"types"`
}

// NewRemoteProvider creates a provider. A nil logger discards output.
func NewRemoteProvider(cfg RemoteConfig, logger *wtlog.Logger) *RemoteProvider {
	defaults := DefaultRemoteConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaults.RateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	if logger == nil {
		logger = wtlog.NewNop()
	}

	return &RemoteProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		years:      cache.New[int, *Calendar](cache.Config{MaxItems: 64, TTL: cfg.CacheTTL}),
		logger:     logger.WithField("country", cfg.Country),
	}
}

// Holidays returns the public holidays of year
func (p *RemoteProvider) Holidays(ctx context.Context, year int) (*Calendar, error) {
	if cal, ok := p.years.Get(year); ok {
		return cal, nil
	}

	v, err, shared := p.group.Do(strconv.Itoa(year), func() (interface{}, error) {
		cal, err := p.fetch(ctx, year)
		if err != nil {
			return nil, err
		}
		p.years.Set(year, cal)
		return cal, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		p.logger.Trace("shared holiday fetch", wtlog.Field("year", year))
	}
	return v.(*Calendar), nil
}

// Prefetch loads several years concurrently
func (p *RemoteProvider) Prefetch(ctx context.Context, years ...int) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, year := range years {
		year := year
		g.Go(func() error {
			_, err := p.Holidays(ctx, year)
			return err
		})
	}
	return g.Wait()
}

// Lookup returns the public holiday on t's calendar date
func (p *RemoteProvider) Lookup(ctx context.Context, t time.Time) (Holiday, bool, error) {
	cal, err := p.Holidays(ctx, t.Year())
	if err != nil {
		return Holiday{}, false, err
	}
	h, ok := cal.Lookup(t)
	if ok {
		h.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return h, ok, nil
}

// Constraint returns a leaf that holds on public holidays. Failed requests
// surface as EXTERNAL_SERVICE_ERROR from the engine operation that probed
// the leaf; successful years are served from the cache.
func (p *RemoteProvider) Constraint() constraint.Constraint {
	return constraint.FromSource(remoteSource{p})
}

func (p *RemoteProvider) fetch(ctx context.Context, year int) (*Calendar, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, p.serviceError(err, "rate limiter aborted", year)
	}

	endpoint := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s",
		strings.TrimSuffix(p.cfg.BaseURL, "/"), year, p.cfg.Country)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, p.serviceError(err, "failed to create request", year)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	timer := p.logger.StartTimer("holiday_fetch")
	resp, err := p.httpClient.Do(req)
	if err != nil {
		timer.StopWithError(err)
		return nil, p.serviceError(err, "request failed", year)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		timer.StopWithError(err)
		return nil, p.serviceError(err, "unexpected response", year).
			WithDetail("status", resp.StatusCode)
	}

	var entries []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		timer.StopWithError(err)
		return nil, p.serviceError(err, "failed to decode response", year)
	}

	cal := NewCalendar(fmt.Sprintf("%s-%d", strings.ToLower(p.cfg.Country), year))
	for _, e := range entries {
		if !e.Global {
			continue
		}
		date, err := time.ParseInLocation(dateKey, e.Date, time.Local)
		if err != nil {
			continue
		}
		name := e.LocalName
		if name == "" {
			name = e.Name
		}
		_ = cal.Add(Holiday{Date: date, Name: name})
	}
	timer.WithField("holidays", cal.Len()).Stop()
	return cal, nil
}

func (p *RemoteProvider) serviceError(err error, message string, year int) *wterror.Error {
	return wterror.Wrap(err, "holiday service: "+message).
		WithCode(wterror.CodeExternalServiceError).
		WithDetails(map[string]interface{}{
			"country": p.cfg.Country,
			"year":    year,
		})
}

type remoteSource struct {
	p *RemoteProvider
}

func (s remoteSource) lookup(t time.Time) (Holiday, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.p.cfg.Timeout)
	defer cancel()
	return s.p.Lookup(ctx, t)
}

func (s remoteSource) Evaluate(t time.Time) (bool, error) {
	_, ok, err := s.lookup(t)
	return ok, err
}

func (s remoteSource) Describe(t time.Time) string {
	h, _, _ := s.lookup(t)
	return h.Name
}
