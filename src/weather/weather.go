// Package weather looks up current conditions from the OpenWeather API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Protocol-Lattice/chat-agent/src/concurrent"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

var ErrNotConfigured = errors.New("OPENWEATHER_API_KEY is not configured")

// Reading is the current weather for one city. Temperature is in °C, humidity in %.
type Reading struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
	City        string  `json:"city"`
}

type apiResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

// Client queries /weather in metric units.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Lookup fetches the current weather for a single city.
func (c *Client) Lookup(ctx context.Context, city string) (Reading, error) {
	if c.APIKey == "" {
		return Reading{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.APIKey)
	q.Set("units", "metric")
	endpoint := c.BaseURL + "/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Reading{}, fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return Reading{}, fmt.Errorf("weather request for %q: %w", city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return Reading{}, fmt.Errorf("weather lookup for %q failed: %s", city, resp.Status)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Reading{}, fmt.Errorf("decode weather response: %w", err)
	}
	if len(data.Weather) == 0 {
		return Reading{}, fmt.Errorf("weather lookup for %q returned no conditions", city)
	}

	return Reading{
		Temperature: data.Main.Temp,
		Humidity:    data.Main.Humidity,
		Description: data.Weather[0].Description,
		City:        data.Name,
	}, nil
}

// LookupAll fetches every city concurrently. Results keep the order of cities;
// any failed lookup fails the whole call.
func (c *Client) LookupAll(ctx context.Context, cities []string) ([]Reading, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}
	return concurrent.ParallelMap(ctx, cities, c.Lookup, 0)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}
