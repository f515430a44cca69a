// Package markets fetches external economic context for the insight
// pipeline: a regional inflation rate and a stock index level. Both fetches
// are best-effort; any failure yields the zero sentinel and is logged, never
// returned, so the pipeline always proceeds.
package markets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/Tau-rai/fintrekapi/internal/models"
	"github.com/sirupsen/logrus"
)

// Client fetches inflation and stock index data from upstream providers
type Client struct {
	inflationURL string
	primaryURL   string
	secondaryURL string
	client       *http.Client
	log          *logrus.Logger
}

// NewClient initializes a new markets client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		inflationURL: cfg.InflationURL,
		primaryURL:   cfg.StockPrimaryURL,
		secondaryURL: cfg.StockSecondaryURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// FetchContext retrieves inflation and stock index data sequentially.
// Unavailable values are left at zero.
func (c *Client) FetchContext(ctx context.Context) models.ExternalContext {
	return models.ExternalContext{
		InflationRate: c.fetchInflationRate(ctx),
		StockIndex:    c.fetchStockIndex(ctx),
	}
}

type inflationResponse struct {
	Rate float64 `json:"rate"`
}

// fetchInflationRate returns the current inflation rate, or 0 on any failure
func (c *Client) fetchInflationRate(ctx context.Context) float64 {
	var parsed inflationResponse
	if err := c.getJSON(ctx, c.inflationURL, &parsed); err != nil {
		c.log.Warnf("Inflation rate unavailable: %v", err)
		return 0
	}
	return parsed.Rate
}

// primaryStockResponse follows the Alpha Vantage daily time series shape:
// a map keyed by date, each entry carrying string-valued OHLC fields.
type primaryStockResponse struct {
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
}

type secondaryStockResponse struct {
	Results []struct {
		Close float64 `json:"c"`
	} `json:"results"`
}

// fetchStockIndex returns the latest closing value of the tracked index.
// The primary provider is tried first; on any failure the secondary provider
// is used, and 0 is returned if both fail.
func (c *Client) fetchStockIndex(ctx context.Context) float64 {
	value, err := c.fetchPrimaryStock(ctx)
	if err == nil {
		return value
	}
	c.log.Warnf("Primary stock provider failed, trying secondary: %v", err)

	value, err = c.fetchSecondaryStock(ctx)
	if err != nil {
		c.log.Warnf("Stock index unavailable: %v", err)
		return 0
	}
	return value
}

func (c *Client) fetchPrimaryStock(ctx context.Context) (float64, error) {
	var parsed primaryStockResponse
	if err := c.getJSON(ctx, c.primaryURL, &parsed); err != nil {
		return 0, err
	}
	if len(parsed.TimeSeries) == 0 {
		return 0, fmt.Errorf("no time series data in response")
	}

	// The most recent entry has the lexicographically greatest date key
	var latest string
	for date := range parsed.TimeSeries {
		if date > latest {
			latest = date
		}
	}
	closeStr, ok := parsed.TimeSeries[latest]["4. close"]
	if !ok {
		return 0, fmt.Errorf("no closing price for %s", latest)
	}
	value, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse closing price: %w", err)
	}
	return value, nil
}

func (c *Client) fetchSecondaryStock(ctx context.Context) (float64, error) {
	var parsed secondaryStockResponse
	if err := c.getJSON(ctx, c.secondaryURL, &parsed); err != nil {
		return 0, err
	}
	if len(parsed.Results) == 0 {
		return 0, fmt.Errorf("no results in response")
	}
	return parsed.Results[0].Close, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
