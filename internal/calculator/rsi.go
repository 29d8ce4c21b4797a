package calculator

import (
	"errors"
	"math"

	"StockSentinel/internal/model"
)

// rsEpsilon replaces an exactly-zero average loss before the RS division.
// A gain-only window would otherwise divide by zero; the substitute
// denominator saturates RSI just below 100 instead of producing +Inf.
const rsEpsilon = 1e-10

// RSISeries computes the rolling-mean RSI over the close series: gains and
// losses are simple trailing averages over `period` price changes.
// The result has the same length as the input; the first `period` entries
// are NaN because a full window of changes is not yet available. Inputs
// shorter than period+1 yield an all-NaN series.
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) < period+1 {
		return out, nil
	}

	for i := period; i < len(closes); i++ {
		var gain, loss float64
		for j := i - period + 1; j <= i; j++ {
			change := closes[j] - closes[j-1]
			if change > 0 {
				gain += change
			} else {
				loss -= change // make positive
			}
		}
		avgGain := gain / float64(period)
		avgLoss := loss / float64(period)
		if avgLoss == 0 {
			avgLoss = rsEpsilon
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out, nil
}

// LatestRSI returns the most recent RSI value from daily bars.
// ok is false when the series is too short to produce one.
func LatestRSI(bars []model.OHLCV, period int) (rsi float64, ok bool) {
	if period <= 0 || len(bars) < period+1 {
		return 0, false
	}
	series, err := RSISeries(Closes(bars), period)
	if err != nil {
		return 0, false
	}
	last := series[len(series)-1]
	if math.IsNaN(last) {
		return 0, false
	}
	return last, true
}
