package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// AlpacaFetcher pulls daily bars from the Alpaca market data API. Alpaca
// exposes no market capitalization or option data, so both fundamentals
// return absence sentinels; set the cap floor to zero when this source is
// selected.
type AlpacaFetcher struct {
	APIKey    string
	APISecret string
	Client    *http.Client
	BaseURL   string
}

// NewAlpacaFetcher creates a fetcher with optional proxy support.
func NewAlpacaFetcher(apiKey, apiSecret, proxyURL string) *AlpacaFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &AlpacaFetcher{
		APIKey:    apiKey,
		APISecret: apiSecret,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://data.alpaca.markets",
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaBar is the v2 stock bar shape.
type alpacaBar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

// History fetches the most recent `days` daily bars. The start date is
// stretched to cover weekends and holidays, and the request limit covers the
// whole stretched window: bars come back ascending from start, so a limit of
// `days` alone would truncate away the newest ones. The response is trimmed
// to the trailing `days` bars after sorting.
func (f *AlpacaFetcher) History(symbol string, days int) ([]model.OHLCV, error) {
	window := days*2 + 7
	start := time.Now().UTC().AddDate(0, 0, -window)
	endpoint := fmt.Sprintf("%s/v2/stocks/%s/bars?timeframe=1Day&limit=%d&start=%s",
		f.BaseURL, url.PathEscape(symbol), window, url.QueryEscape(start.Format(time.RFC3339)))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("APCA-API-KEY-ID", f.APIKey)
	req.Header.Set("APCA-API-SECRET-KEY", f.APISecret)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alpaca fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alpaca: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Bars []alpacaBar `json:"bars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("alpaca decode: %w", err)
	}

	bars := make([]model.OHLCV, len(result.Bars))
	for i, b := range result.Bars {
		bars[i] = model.OHLCV{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

func (f *AlpacaFetcher) MarketCap(string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (f *AlpacaFetcher) ImpliedVolatility(string) (*float64, error) {
	return nil, nil
}
