package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API:
// the chart endpoint for bars, the quote endpoint for market cap, and the
// options endpoint for an at-the-money IV estimate.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a fetcher with optional proxy support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) get(u string, out interface{}) error {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// History fetches daily bars covering at least `days` trading days and trims
// to the requested count.
func (f *YahooFetcher) History(symbol string, days int) ([]model.OHLCV, error) {
	rng := "2y"
	switch {
	case days <= 30:
		rng = "1mo"
	case days <= 90:
		rng = "3mo"
	case days <= 180:
		rng = "6mo"
	case days <= 250:
		rng = "1y"
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(symbol), rng)

	var chart yahooChart
	if err := f.get(u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, nil // symbol has no data
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Open) != len(result.Timestamp) || len(quote.High) != len(result.Timestamp) ||
		len(quote.Low) != len(result.Timestamp) || len(quote.Close) != len(result.Timestamp) ||
		len(quote.Volume) != len(result.Timestamp) {
		return nil, fmt.Errorf("yahoo: malformed chart for %s: %d timestamps, %d closes",
			symbol, len(result.Timestamp), len(quote.Close))
	}
	bars := make([]model.OHLCV, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		c := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(quote.Volume[i]),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// yahooQuote is the response structure from the quote API.
type yahooQuote struct {
	QuoteResponse struct {
		Result []struct {
			MarketCap float64 `json:"marketCap"`
		} `json:"result"`
	} `json:"quoteResponse"`
}

// MarketCap returns the symbol's market capitalization, or zero when the
// quote carries none.
func (f *YahooFetcher) MarketCap(symbol string) (decimal.Decimal, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", f.BaseURL, url.QueryEscape(symbol))

	var quote yahooQuote
	if err := f.get(u, &quote); err != nil {
		return decimal.Zero, err
	}
	if len(quote.QuoteResponse.Result) == 0 {
		return decimal.Zero, nil
	}
	return decimal.NewFromFloat(quote.QuoteResponse.Result[0].MarketCap), nil
}

// yahooOptions is the response structure from the options API.
type yahooOptions struct {
	OptionChain struct {
		Result []struct {
			Quote struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"quote"`
			Options []struct {
				Calls []struct {
					Strike            float64 `json:"strike"`
					ImpliedVolatility float64 `json:"impliedVolatility"`
				} `json:"calls"`
			} `json:"options"`
		} `json:"result"`
	} `json:"optionChain"`
}

// ImpliedVolatility estimates IV from the call contract nearest the money in
// the front expiry. Symbols without listed options yield nil.
func (f *YahooFetcher) ImpliedVolatility(symbol string) (*float64, error) {
	u := fmt.Sprintf("%s/v7/finance/options/%s", f.BaseURL, url.PathEscape(symbol))

	var chain yahooOptions
	if err := f.get(u, &chain); err != nil {
		return nil, err
	}
	if len(chain.OptionChain.Result) == 0 || len(chain.OptionChain.Result[0].Options) == 0 {
		return nil, nil
	}
	result := chain.OptionChain.Result[0]
	price := result.Quote.RegularMarketPrice
	calls := result.Options[0].Calls
	if len(calls) == 0 {
		return nil, nil
	}

	best := calls[0]
	for _, c := range calls[1:] {
		if math.Abs(c.Strike-price) < math.Abs(best.Strike-price) {
			best = c
		}
	}
	if best.ImpliedVolatility <= 0 {
		return nil, nil
	}
	iv := best.ImpliedVolatility
	return &iv, nil
}
