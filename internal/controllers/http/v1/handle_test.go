package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-dashboard/internal/chart"
	"weather-dashboard/internal/models"
	"weather-dashboard/internal/services/dashboard"
	"weather-dashboard/pkg/observe"
)

var testCities = []models.City{
	{Name: "Beijing", ID: "101010100"},
	{Name: "Shanghai", ID: "101020100"},
}

type stubRepository struct{}

func (stubRepository) Name() string { return "stub" }

func (stubRepository) FetchForecast(_ context.Context, cityID string) (models.ForecastResponse, error) {
	return models.ForecastResponse{
		CityID:    cityID,
		UpdatedAt: "2024-10-01 08:00:00",
		Days: []models.ForecastDay{
			{Date: "2024-10-01", Condition: "晴", HighTemp: "30", LowTemp: "20"},
			{Date: "2024-10-02", Condition: "阴", HighTemp: "40", LowTemp: "21"},
		},
	}, nil
}

type testEnv struct {
	app  *fiber.App
	dash *dashboard.Controller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	l := observe.NewZapLogger("test-app", io.Discard)
	surface := chart.NewSurface("container")
	renderer := chart.NewRenderer(surface, chart.RendererConfig{Mount: "container"}, l)

	dash, err := dashboard.NewController(stubRepository{}, testCities, renderer, l, dashboard.Options{
		DefaultCityID:  "101020100",
		SearchDebounce: 10 * time.Millisecond,
	})
	require.NoError(t, err)
	t.Cleanup(dash.Close)

	app := fiber.New()
	NewRouter(app, dash, surface, "container", l)

	return &testEnv{app: app, dash: dash}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodGet, "/", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `id="container"`)
	assert.Contains(t, string(body), "state.searchDebounceMs")
	assert.NotContains(t, string(body), "setTimeout(load, 800)")
}

func TestCities(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodGet, "/api/cities", "")
	require.Equal(t, fiber.StatusOK, status)

	var cities []models.City
	require.NoError(t, json.Unmarshal(body, &cities))
	assert.Equal(t, testCities, cities)
}

func TestCitySearch(t *testing.T) {
	env := newTestEnv(t)

	_, body := env.do(t, fiber.MethodGet, "/api/cities/search?q=Bei", "")
	var cities []models.City
	require.NoError(t, json.Unmarshal(body, &cities))
	assert.Equal(t, testCities[:1], cities)

	_, body = env.do(t, fiber.MethodGet, "/api/cities/search?q=z", "")
	assert.JSONEq(t, `[]`, string(body))
}

func TestSearchUpdatesState(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, fiber.MethodPost, "/api/search", `{"text":"Shang"}`)
	require.Equal(t, fiber.StatusAccepted, status)

	assert.Eventually(t, func() bool {
		_, body := env.do(t, fiber.MethodGet, "/api/state", "")
		var s StateResponse
		if err := json.Unmarshal(body, &s); err != nil {
			return false
		}
		return len(s.FilterResults) == 1 && s.FilterResults[0].ID == "101020100"
	}, time.Second, 10*time.Millisecond)
}

func TestSearch_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, fiber.MethodPost, "/api/search", `{"text":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestSelect(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodPost, "/api/select", `{"id":"101010100"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"name":"Beijing","id":"101010100"}`, string(body))

	env.dash.Wait()

	_, body = env.do(t, fiber.MethodGet, "/api/state", "")
	var s StateResponse
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, testCities[0], s.City)
	assert.Equal(t, []string{"10.1", "10.2"}, s.Series.Dates)
	assert.Equal(t, "30", s.Today.HighTemp)
	assert.Empty(t, s.FilterResults)
}

func TestSelect_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"unknown city", `{"id":"000"}`, fiber.StatusNotFound},
		{"missing id", `{"id":" "}`, fiber.StatusBadRequest},
		{"invalid body", `not json`, fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, fiber.MethodPost, "/api/select", tt.body)
			assert.Equal(t, tt.status, status)

			var e ErrorResponse
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestSelect_AfterClose(t *testing.T) {
	env := newTestEnv(t)
	env.dash.Close()

	status, body := env.do(t, fiber.MethodPost, "/api/select", `{"id":"101010100"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	var e ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	assert.NotEmpty(t, e.Error)
	assert.Equal(t, testCities[1], env.dash.Snapshot().SelectedCity)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, fiber.MethodPost, "/api/refresh", "")
	assert.Equal(t, fiber.StatusAccepted, status)

	env.dash.Wait()
	assert.Equal(t, []float64{30, 40}, env.dash.Snapshot().Series.Highs)
}

func TestState_Placeholders(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, fiber.MethodGet, "/api/state", "")
	require.Equal(t, fiber.StatusOK, status)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, []any{}, raw["filterResults"])

	var s StateResponse
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, testCities[1], s.City)
	assert.Equal(t, models.PlaceholderSeries(), s.Series)
	assert.Equal(t, int64(10), s.SearchDebounceMs)
}

func TestChart(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.do(t, fiber.MethodGet, "/api/chart", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	env.dash.Start(context.Background())
	env.dash.Wait()

	status, body := env.do(t, fiber.MethodGet, "/api/chart", "")
	require.Equal(t, fiber.StatusOK, status)

	var opt chart.Option
	require.NoError(t, json.Unmarshal(body, &opt))
	assert.Equal(t, []string{"10.1", "10.2"}, opt.XAxis.Data)
	require.Len(t, opt.Series, 2)
	assert.Equal(t, chart.SeriesHighest, opt.Series[0].Name)
	assert.Equal(t, []float64{30, 40}, opt.Series[0].Data)
	assert.Equal(t, []float64{20, 21}, opt.Series[1].Data)
}
