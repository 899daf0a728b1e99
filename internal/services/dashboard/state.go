package dashboard

import (
	"weather-dashboard/internal/models"
)

// State is everything the dashboard shows. It only changes through Reduce.
type State struct {
	AllCities     []models.City      `json:"-"`
	SelectedCity  models.City        `json:"selectedCity"`
	FilterResults []models.City      `json:"filterResults"`
	LatestDay     models.ForecastDay `json:"latestDay"`
	Series        models.ChartSeries `json:"series"`
	UpdatedAt     string             `json:"updatedAt"`
	LastError     string             `json:"lastError,omitempty"`

	// Revision grows whenever the selected city is (re)assigned; every change
	// triggers a refresh.
	Revision uint64 `json:"revision"`
	// AppliedSeq is the sequence number of the last refresh committed.
	AppliedSeq uint64 `json:"appliedSeq"`
}

// InitialState shows placeholder data for selected until the first refresh.
func InitialState(selected models.City) State {
	return State{
		SelectedCity: selected,
		LatestDay:    models.PlaceholderDay(),
		Series:       models.PlaceholderSeries(),
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	c := s
	c.AllCities = append([]models.City(nil), s.AllCities...)
	c.FilterResults = append([]models.City(nil), s.FilterResults...)
	c.Series = s.Series.Clone()
	return c
}

type Event interface {
	apply(s State, opts ReduceOptions) State
}

// ReduceOptions tune how refresh results are committed.
type ReduceOptions struct {
	// DiscardStale drops results of refreshes older than the last one applied.
	// Without it the last result to arrive wins.
	DiscardStale bool
}

// Reduce returns the state that follows s after e. s is not modified.
func Reduce(s State, e Event, opts ReduceOptions) State {
	return e.apply(s.Clone(), opts)
}

type Initialized struct {
	Cities []models.City
}

func (e Initialized) apply(s State, _ ReduceOptions) State {
	s.AllCities = append([]models.City(nil), e.Cities...)
	return s
}

type SearchChanged struct {
	Text string
}

func (e SearchChanged) apply(s State, _ ReduceOptions) State {
	s.FilterResults = models.FilterByName(s.AllCities, e.Text)
	return s
}

type CitySelected struct {
	City models.City
}

func (e CitySelected) apply(s State, _ ReduceOptions) State {
	s.SelectedCity = e.City
	s.FilterResults = nil
	s.Revision++
	return s
}

// RefreshRequested re-assigns the selected city to itself.
type RefreshRequested struct{}

func (RefreshRequested) apply(s State, _ ReduceOptions) State {
	s.SelectedCity = models.City{Name: s.SelectedCity.Name, ID: s.SelectedCity.ID}
	s.Revision++
	return s
}

// ForecastLoaded commits a successful refresh. Series must be built from
// Response.Days, which must not be empty.
type ForecastLoaded struct {
	Seq      uint64
	Response models.ForecastResponse
	Series   models.ChartSeries
}

func (e ForecastLoaded) apply(s State, opts ReduceOptions) State {
	if opts.DiscardStale && e.Seq < s.AppliedSeq {
		return s
	}
	if len(e.Response.Days) > 0 {
		s.LatestDay = e.Response.Days[0]
	}
	s.Series = e.Series.Clone()
	s.UpdatedAt = e.Response.UpdatedAt
	s.LastError = ""
	s.AppliedSeq = e.Seq
	return s
}

// ForecastFailed keeps the displayed data and records the error.
type ForecastFailed struct {
	Seq uint64
	Err error
}

func (e ForecastFailed) apply(s State, opts ReduceOptions) State {
	if opts.DiscardStale && e.Seq < s.AppliedSeq {
		return s
	}
	if e.Err != nil {
		s.LastError = e.Err.Error()
	}
	return s
}
