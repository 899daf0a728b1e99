package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repositories"
	"weather-dashboard/pkg/debounce"
	"weather-dashboard/pkg/observe"
)

const defaultRefreshInterval = time.Hour

var (
	ErrUnknownCity = errors.New("unknown city")
	ErrNoCities    = errors.New("city table is empty")
	ErrClosed      = errors.New("dashboard is closed")
)

// ChartRenderer draws the series of the dashboard. Unmount releases whatever
// Render acquired.
type ChartRenderer interface {
	Render(series models.ChartSeries)
	Unmount()
}

type Options struct {
	RefreshInterval time.Duration
	SearchDebounce  time.Duration
	DefaultCityID   string
	DiscardStale    bool
}

// Controller owns the dashboard State. Every mutation goes through Reduce;
// the controller adds the side effects: a refresh whenever the selected city
// is reassigned, a chart render whenever the series changes, the debounced
// search and the periodic refresh.
//
// Refreshes are not serialised. Overlapping refreshes commit in the order
// they complete unless Options.DiscardStale is set.
type Controller struct {
	repo      repositories.ForecastRepository
	renderer  ChartRenderer
	l         *observe.Logger
	opts      Options
	reduce    ReduceOptions
	debouncer *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	seq      uint64
	started  bool
	closed   bool
	loopDone chan struct{}

	inflight sync.WaitGroup
}

// NewController loads cities into a fresh state with the configured default
// city selected. Nothing is fetched until Start, Select or Refresh.
func NewController(
	repo repositories.ForecastRepository,
	cities []models.City,
	renderer ChartRenderer,
	l *observe.Logger,
	opts Options,
) (*Controller, error) {
	if len(cities) == 0 {
		return nil, ErrNoCities
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = defaultRefreshInterval
	}

	selected := cities[0]
	if opts.DefaultCityID != "" {
		i := models.FindByID(cities, opts.DefaultCityID)
		if i < 0 {
			return nil, errors.Wrapf(ErrUnknownCity, "default city %s", opts.DefaultCityID)
		}
		selected = cities[i]
	}

	ctx, cancel := context.WithCancel(context.Background())

	c := &Controller{
		repo:      repo,
		renderer:  renderer,
		l:         l,
		opts:      opts,
		reduce:    ReduceOptions{DiscardStale: opts.DiscardStale},
		debouncer: debounce.New(opts.SearchDebounce),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.state = Reduce(InitialState(selected), Initialized{Cities: cities}, c.reduce)

	return c, nil
}

// Start mounts the dashboard: it renders the current series, refreshes the
// selected city and starts the periodic refresh. Only the first call has an
// effect. The periodic refresh stops when ctx is done or on Close.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.closed {
		return
	}
	c.started = true
	c.loopDone = make(chan struct{})

	c.renderer.Render(c.state.Series)
	c.startRefreshLocked("mount")

	go c.tickLoop(ctx, c.loopDone)

	c.l.Info("dashboard started", map[string]any{
		"city":            c.state.SelectedCity.ID,
		"refreshInterval": c.opts.RefreshInterval.String(),
	})
}

func (c *Controller) tickLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(c.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.startRefreshLocked("tick")
			c.mu.Unlock()
		case <-ctx.Done():
			return
		case <-c.ctx.Done():
			return
		}
	}
}

// Close unmounts the dashboard. It stops the timers, cancels and waits for
// in-flight refreshes and releases the chart. Results arriving later are
// dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	loopDone := c.loopDone
	c.mu.Unlock()

	c.debouncer.Stop()
	c.cancel()
	c.inflight.Wait()
	if loopDone != nil {
		<-loopDone
	}

	c.renderer.Unmount()

	c.l.Info("dashboard stopped")
}

// Search filters the city table by text once typing has paused.
func (c *Controller) Search(text string) {
	c.debouncer.Call(func() {
		c.commit(SearchChanged{Text: text})
	})
}

// FilterCities returns the cities matching query without touching the state.
func (c *Controller) FilterCities(query string) []models.City {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.FilterByName(c.state.AllCities, query)
}

// Cities returns the full city table.
func (c *Controller) Cities() []models.City {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.City(nil), c.state.AllCities...)
}

// Select makes the city with cityID current and refreshes it. The id is
// looked up in the filter results first, then in the full table. After Close
// it returns ErrClosed.
func (c *Controller) Select(cityID string) (models.City, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return models.City{}, ErrClosed
	}

	var city models.City
	if i := models.FindByID(c.state.FilterResults, cityID); i >= 0 {
		city = c.state.FilterResults[i]
	} else if i := models.FindByID(c.state.AllCities, cityID); i >= 0 {
		city = c.state.AllCities[i]
	} else {
		return models.City{}, errors.Wrapf(ErrUnknownCity, "city %s", cityID)
	}

	c.commitLocked(CitySelected{City: city})
	return city, nil
}

// SearchDebounce is how long Search waits for typing to pause.
func (c *Controller) SearchDebounce() time.Duration {
	return c.debouncer.Delay()
}

// Refresh fetches the selected city again.
func (c *Controller) Refresh() {
	c.commit(RefreshRequested{})
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Wait blocks until no refresh is in flight.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) commit(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitLocked(e)
}

func (c *Controller) commitLocked(e Event) {
	if c.closed {
		return
	}

	prev := c.state
	c.state = Reduce(prev, e, c.reduce)

	if c.state.Revision != prev.Revision {
		c.startRefreshLocked("city")
	}
	if c.started && !c.state.Series.Equal(prev.Series) {
		c.renderer.Render(c.state.Series)
	}
}

func (c *Controller) startRefreshLocked(reason string) {
	if c.closed {
		return
	}

	c.seq++
	c.inflight.Add(1)
	go c.refresh(c.seq, c.state.SelectedCity, reason)
}

func (c *Controller) refresh(seq uint64, city models.City, reason string) {
	defer c.inflight.Done()

	fields := map[string]any{
		"requestId": uuid.NewString(),
		"seq":       seq,
		"city":      city.Name,
		"cityId":    city.ID,
		"reason":    reason,
	}
	c.l.Debug("refresh started", fields)

	forecast, err := c.repo.FetchForecast(c.ctx, city.ID)
	if err != nil {
		c.fail(seq, errors.Wrapf(err, "failed to fetch forecast for %s", city.ID), fields)
		return
	}

	series, err := models.BuildSeries(forecast.Days)
	if err != nil {
		c.fail(seq, errors.Wrapf(err, "failed to build series for %s", city.ID), fields)
		return
	}

	c.commit(ForecastLoaded{Seq: seq, Response: forecast, Series: series})

	fields["days"] = len(forecast.Days)
	c.l.Info("refresh applied", fields)
}

func (c *Controller) fail(seq uint64, err error, fields map[string]any) {
	fields["err"] = err.Error()
	c.l.Warning("refresh failed", fields)
	c.commit(ForecastFailed{Seq: seq, Err: err})
}
