// Package rates retrieves currency exchange rates. The primary provider is a
// JSON API; when it fails, rates are read from a central bank XML daily feed.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Tau-rai/fintrekapi/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// Rates holds conversion rates from a base currency
type Rates struct {
	Base   string             `json:"base"`
	Rates  map[string]float64 `json:"rates"`
	Source string             `json:"source"`
}

// Client fetches exchange rates
type Client struct {
	apiHost        string
	apiKey         string
	centralBankURL string
	client         *http.Client
	log            *logrus.Logger
}

// NewClient initializes a new rates client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		apiHost:        cfg.CurrencyAPIHost,
		apiKey:         cfg.CurrencyAPIKey,
		centralBankURL: cfg.CentralBankURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// GetRates returns conversion rates from the given currency, falling back to
// the central bank feed when the primary provider fails
func (c *Client) GetRates(ctx context.Context, from string) (*Rates, error) {
	rates, err := c.fetchPrimary(ctx, from)
	if err == nil {
		return rates, nil
	}
	c.log.Warnf("Primary currency provider failed, trying central bank feed: %v", err)

	rates, err = c.fetchCentralBank(ctx)
	if err != nil {
		return nil, fmt.Errorf("all currency providers failed: %w", err)
	}
	return rates, nil
}

type primaryResponse struct {
	Base  string             `json:"base_currency_code"`
	Rates map[string]float64 `json:"rates"`
}

func (c *Client) fetchPrimary(ctx context.Context, from string) (*Rates, error) {
	url := fmt.Sprintf("https://%s/api/v1/convert-rates/fiat/from?detailed=false&currency=%s", c.apiHost, from)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed primaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("no rates in response")
	}
	base := parsed.Base
	if base == "" {
		base = from
	}
	return &Rates{Base: base, Rates: parsed.Rates, Source: "primary"}, nil
}

// fetchCentralBank parses the central bank daily XML feed. Each Valute
// element carries a CharCode, a Nominal and a comma-decimal Value quoted in
// the bank's home currency, so the returned rates use that currency as base.
func (c *Client) fetchCentralBank(ctx context.Context) (*Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.centralBankURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	valutes := doc.FindElements("//Valute")
	if len(valutes) == 0 {
		return nil, fmt.Errorf("no currency data found in XML")
	}

	rates := make(map[string]float64, len(valutes))
	for _, valute := range valutes {
		code := valute.FindElement("./CharCode")
		value := valute.FindElement("./Value")
		nominal := valute.FindElement("./Nominal")
		if code == nil || value == nil {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(value.Text(), ",", "."), 64)
		if err != nil {
			continue
		}
		n := 1.0
		if nominal != nil {
			if parsedN, err := strconv.ParseFloat(nominal.Text(), 64); err == nil && parsedN > 0 {
				n = parsedN
			}
		}
		rates[code.Text()] = parsed / n
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no parsable rates in XML")
	}
	return &Rates{Base: "RUB", Rates: rates, Source: "central_bank"}, nil
}
