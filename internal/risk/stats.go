package risk

import (
	"math"

	"github.com/shopspring/decimal"
)

// assetReturns converts a price history into simple period returns.
func assetReturns(history []decimal.Decimal) []float64 {
	if len(history) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		if !history[i-1].IsPositive() {
			continue
		}
		r, _ := history[i].Sub(history[i-1]).Div(history[i-1]).Float64()
		returns = append(returns, r)
	}
	return returns
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// variance uses the sample formula (N-1 denominator).
func variance(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		diff := x - m
		sum += diff * diff
	}
	return sum / float64(len(xs)-1)
}

// covariance uses the sample formula over the overlapping prefix of the two
// series.
func covariance(xs, ys []float64) float64 {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0
	}
	xs, ys = xs[:n], ys[:n]
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := 0; i < n; i++ {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(n-1)
}

// correlation reports ok=false when either series has fewer than two
// overlapping observations or zero variance.
func correlation(xs, ys []float64) (float64, bool) {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0, false
	}
	sx := math.Sqrt(variance(xs[:n]))
	sy := math.Sqrt(variance(ys[:n]))
	if sx == 0 || sy == 0 {
		return 0, false
	}
	return covariance(xs, ys) / (sx * sy), true
}

func pairwiseCorrelation(h1, h2 []decimal.Decimal) (float64, bool) {
	return correlation(assetReturns(h1), assetReturns(h2))
}

func annualizedVolatility(returns []float64) float64 {
	return math.Sqrt(variance(returns) * 252)
}

func abs(x float64) float64 {
	return math.Abs(x)
}
