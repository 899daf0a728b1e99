package repositories

import (
	"context"
	"errors"
	"net/http"

	"weather-dashboard/config"
	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/observe"
)

var ErrNoForecastData = errors.New("no forecast data available")

// HTTPClient is the part of *http.Client the repositories need.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ForecastRepository interface {
	Name() string
	FetchForecast(ctx context.Context, cityID string) (models.ForecastResponse, error)
}

// InitForecastRepository builds the provider client described by cfg,
// rate limited when cfg.Provider.RPS is positive.
func InitForecastRepository(cfg *config.Config, l *observe.Logger) ForecastRepository {
	p := cfg.Provider

	client := &http.Client{Timeout: p.Timeout}

	var repo ForecastRepository = NewYikeRepository(p.BaseURL, p.AppID, p.AppSecret, l, client)
	if p.RPS > 0 {
		repo = NewRateLimitedRepository(repo, p.RPS, p.Burst)
	}

	return repo
}
