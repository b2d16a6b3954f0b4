// Package weather fetches current-conditions data from the WeatherAPI
// current.json endpoint.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/nmehta-dev/weatherchat/internal/store"
)

const DefaultBaseURL = "http://api.weatherapi.com/v1"

// Snapshot is a single point-in-time weather reading for a city. Snapshots
// are fetched fresh on every query and never cached or diffed against prior
// readings.
type Snapshot struct {
	City        string  `json:"city"`
	Country     string  `json:"country"`
	TempC       float64 `json:"temp_c"`
	TempF       float64 `json:"temp_f"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindKPH     float64 `json:"wind_kph"`
	LastUpdated string  `json:"last_updated"`

	// Raw is the provider's full response body, forwarded to the
	// persistence sink and used verbatim as the tool result payload.
	Raw json.RawMessage `json:"-"`
}

// currentResponse mirrors the provider's current.json body.
type currentResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		TempF     float64 `json:"temp_f"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Humidity    int     `json:"humidity"`
		WindKPH     float64 `json:"wind_kph"`
		LastUpdated string  `json:"last_updated"`
	} `json:"current"`
}

// Client handles WeatherAPI interactions.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	sink       store.Sink
}

// NewClient creates a configured WeatherAPI client. Successful payloads are
// forwarded to the sink before Fetch returns.
func NewClient(apiKey, baseURL string, sink store.Sink) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("weather API key cannot be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if sink == nil {
		sink = store.NopSink{}
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		sink:    sink,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// Fetch retrieves the current conditions for a city. The city name is free
// text, passed to the provider without normalization. Any non-200 status or
// transport fault is logged and returned as an error; no retries.
func (c *Client) Fetch(ctx context.Context, city string) (*Snapshot, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", city)
	params.Set("aqi", "no")
	requestURL := fmt.Sprintf("%s/current.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Error fetching weather data: %v", err)
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Weather API error: %d - %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var parsed currentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	c.sink.StoreWeather(ctx, city, body)

	return &Snapshot{
		City:        parsed.Location.Name,
		Country:     parsed.Location.Country,
		TempC:       parsed.Current.TempC,
		TempF:       parsed.Current.TempF,
		Condition:   parsed.Current.Condition.Text,
		Humidity:    parsed.Current.Humidity,
		WindKPH:     parsed.Current.WindKPH,
		LastUpdated: parsed.Current.LastUpdated,
		Raw:         body,
	}, nil
}
