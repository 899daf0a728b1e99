package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"weather-dashboard/internal/models"
	"weather-dashboard/pkg/observe"
)

const (
	YikeBaseURL  = "http://v1.yiketianqi.com"
	yikeWeekPath = "/free/week"
)

// YikeRepository fetches the weekly forecast from the yiketianqi free API.
type YikeRepository struct {
	BaseURL    string
	AppID      string
	AppSecret  string
	httpClient HTTPClient
	l          *observe.Logger
}

func NewYikeRepository(baseURL, appID, appSecret string, l *observe.Logger, httpClient HTTPClient) *YikeRepository {
	if baseURL == "" {
		baseURL = YikeBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &YikeRepository{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AppID:      appID,
		AppSecret:  appSecret,
		httpClient: httpClient,
		l:          l,
	}
}

func (y *YikeRepository) Name() string {
	return "yiketianqi"
}

type yikeDay struct {
	Date     string `json:"date"`
	Wea      string `json:"wea"`
	WeaImg   string `json:"wea_img"`
	TemDay   string `json:"tem_day"`
	TemNight string `json:"tem_night"`
	Win      string `json:"win"`
	WinSpeed string `json:"win_speed"`
}

type YikeResponse struct {
	City       string    `json:"city"`
	CityID     string    `json:"cityid"`
	UpdateTime string    `json:"update_time"`
	Data       []yikeDay `json:"data"`

	// set instead of the fields above when the request is rejected
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (y *YikeRepository) weekURL(cityID string) string {
	return fmt.Sprintf("%s%s?unescape=1&appid=%s&appsecret=%s&cityid=%s",
		y.BaseURL, yikeWeekPath,
		url.QueryEscape(y.AppID), url.QueryEscape(y.AppSecret), url.QueryEscape(cityID))
}

func (y *YikeRepository) FetchForecast(ctx context.Context, cityID string) (models.ForecastResponse, error) {
	forecast := models.ForecastResponse{CityID: cityID}

	y.l.Info("making yiketianqi API request", map[string]any{
		"cityId": cityID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.weekURL(cityID), nil)
	if err != nil {
		return forecast, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := y.httpClient.Do(req)
	if err != nil {
		return forecast, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	y.l.Info("received yiketianqi API response", map[string]any{
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return forecast, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return forecast, fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	var response YikeResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return forecast, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if response.ErrMsg != "" && len(response.Data) == 0 {
		return forecast, fmt.Errorf("provider error (code %d): %s", response.ErrCode, response.ErrMsg)
	}

	if len(response.Data) == 0 {
		return forecast, ErrNoForecastData
	}

	forecast = toForecastResponse(response)

	y.l.Info("parsed API response", map[string]any{
		"params": forecast.RequestParams(),
	})

	return forecast, nil
}

// toForecastResponse keeps the provider's day order.
func toForecastResponse(r YikeResponse) models.ForecastResponse {
	days := make([]models.ForecastDay, 0, len(r.Data))
	for _, d := range r.Data {
		days = append(days, models.ForecastDay{
			Date:          d.Date,
			Condition:     d.Wea,
			ConditionIcon: d.WeaImg,
			HighTemp:      d.TemDay,
			LowTemp:       d.TemNight,
			WindDirection: d.Win,
			WindSpeed:     d.WinSpeed,
		})
	}

	return models.ForecastResponse{
		City:      r.City,
		CityID:    r.CityID,
		UpdatedAt: r.UpdateTime,
		Days:      days,
	}
}
