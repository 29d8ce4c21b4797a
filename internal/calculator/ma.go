package calculator

import (
	"errors"
	"math"

	"StockSentinel/internal/model"
)

// SMASeries computes the trailing simple moving average over the values.
// Same length as the input; the first window-1 entries are NaN.
func SMASeries(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, errors.New("window must be positive")
	}
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out, nil
}

// LatestSMA returns the most recent moving-average value from daily bars.
// ok is false when fewer than `window` bars are available.
func LatestSMA(bars []model.OHLCV, window int) (ma float64, ok bool) {
	if window <= 0 || len(bars) < window {
		return 0, false
	}
	series, err := SMASeries(Closes(bars), window)
	if err != nil {
		return 0, false
	}
	return series[len(series)-1], true
}

// Closes extracts the close series from bars.
func Closes(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
