package collector

import (
	"github.com/shopspring/decimal"

	"StockSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars       map[string][]model.OHLCV
	Caps       map[string]decimal.Decimal
	IVs        map[string]float64
	HistoryErr map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) History(symbol string, _ int) ([]model.OHLCV, error) {
	if err, ok := m.HistoryErr[symbol]; ok {
		return nil, err
	}
	return m.Bars[symbol], nil
}

func (m *MockFetcher) MarketCap(symbol string) (decimal.Decimal, error) {
	if c, ok := m.Caps[symbol]; ok {
		return c, nil
	}
	return decimal.Zero, nil
}

func (m *MockFetcher) ImpliedVolatility(symbol string) (*float64, error) {
	if v, ok := m.IVs[symbol]; ok {
		return &v, nil
	}
	return nil, nil
}
