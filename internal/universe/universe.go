package universe

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Source is one exchange listing endpoint serving a pipe-delimited symbol
// directory (nasdaqtrader SymDir format: header row, symbol in the first
// field, "File Creation Time" trailer).
type Source struct {
	Name string
	URL  string
}

// DefaultSources covers the NASDAQ and "other listed" (NYSE/AMEX)
// directories.
func DefaultSources() []Source {
	return []Source{
		{Name: "nasdaq", URL: "https://www.nasdaqtrader.com/dynamic/SymDir/nasdaqlisted.txt"},
		{Name: "other", URL: "https://www.nasdaqtrader.com/dynamic/SymDir/otherlisted.txt"},
	}
}

// Provider aggregates ticker symbols across listing sources.
type Provider struct {
	Client     *http.Client
	Sources    []Source
	MaxTickers int
}

// NewProvider creates a provider with optional proxy support.
func NewProvider(sources []Source, maxTickers int, proxyURL string) *Provider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Provider{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Sources:    sources,
		MaxTickers: maxTickers,
	}
}

// Tickers returns the de-duplicated, alphabetic-only universe, sorted for a
// deterministic scan order and truncated to MaxTickers when set. A failing
// source is logged and skipped; if every source fails the universe is empty
// and the scan ends with a "no matches" outcome rather than an error.
func (p *Provider) Tickers() []string {
	seen := make(map[string]struct{})
	for _, src := range p.Sources {
		symbols, err := p.fetchSource(src)
		if err != nil {
			log.Printf("[WARN] universe source %s failed: %v", src.Name, err)
			continue
		}
		log.Printf("[INFO] universe source %s: %d symbols", src.Name, len(symbols))
		for _, s := range symbols {
			seen[s] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(seen))
	for s := range seen {
		tickers = append(tickers, s)
	}
	sort.Strings(tickers)
	if p.MaxTickers > 0 && len(tickers) > p.MaxTickers {
		tickers = tickers[:p.MaxTickers]
	}
	return tickers
}

func (p *Provider) fetchSource(src Source) ([]string, error) {
	resp, err := p.Client.Get(src.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing: status %d", resp.StatusCode)
	}

	var symbols []string
	scanner := bufio.NewScanner(resp.Body)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false // header row
			continue
		}
		if strings.HasPrefix(line, "File Creation Time") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(fields[0]))
		if !isAlpha(symbol) {
			continue
		}
		symbols = append(symbols, symbol)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read listing: %w", err)
	}
	return symbols, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
