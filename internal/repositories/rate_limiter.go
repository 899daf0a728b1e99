package repositories

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weather-dashboard/internal/models"
)

// RateLimitedRepository wraps a ForecastRepository with a token bucket so
// bursts of manual refreshes stay inside the provider's quota.
type RateLimitedRepository struct {
	repo    ForecastRepository
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedRepository allows rps requests per second (fractional for
// less than one) with the given burst.
func NewRateLimitedRepository(repo ForecastRepository, rps float64, burst int) *RateLimitedRepository {
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedRepository{
		repo:    repo,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", repo.Name()),
	}
}

func (r *RateLimitedRepository) Name() string {
	return r.name
}

// FetchForecast waits for the limiter, or for ctx, before forwarding.
func (r *RateLimitedRepository) FetchForecast(ctx context.Context, cityID string) (models.ForecastResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.ForecastResponse{CityID: cityID}, fmt.Errorf("rate limit wait canceled: %w", err)
	}

	return r.repo.FetchForecast(ctx, cityID)
}

var _ ForecastRepository = (*RateLimitedRepository)(nil)
