// Package analytics computes time-series performance statistics over daily
// return series. All functions are pure; degenerate input yields NaN rather
// than an error, mirroring the conventions of empirical asset-pricing
// literature. Sample statistics use the n−1 denominator throughout.
package analytics

import (
	"math"
	"sort"

	"github.com/samber/lo"
)

// TotalReturn computes the total geometric return Π(1+rᵢ) − 1.
func TotalReturn(series []float64) float64 {
	return lo.Reduce(series, func(acc, r float64, _ int) float64 {
		return acc * (1 + r)
	}, 1.0) - 1.0
}

// Mean computes the arithmetic mean, scaled by annFreq. NaN for an empty
// series. annFreq 1 means no annualization.
func Mean(series []float64, annFreq int) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return lo.Sum(series) / float64(len(series)) * float64(annFreq)
}

// Median computes the median, scaled by annFreq. NaN for an empty series.
func Median(series []float64, annFreq int) float64 {
	n := len(series)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	copy(sorted, series)
	sort.Float64s(sorted)
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2 * float64(annFreq)
	}
	return sorted[mid] * float64(annFreq)
}

// CAGR computes the compound annual growth rate Π(1+rᵢ)^(annFreq/n) − 1.
// NaN for an empty series.
func CAGR(series []float64, annFreq int) float64 {
	n := len(series)
	if n == 0 {
		return math.NaN()
	}
	growth := lo.Reduce(series, func(acc, r float64, _ int) float64 {
		return acc * (1 + r)
	}, 1.0)
	return math.Pow(growth, float64(annFreq)/float64(n)) - 1
}

// Std computes the sample standard deviation (n−1 denominator), scaled by
// √annFreq. NaN when fewer than two observations exist.
func Std(series []float64, annFreq int) float64 {
	n := len(series)
	if n < 2 {
		return math.NaN()
	}
	mu := Mean(series, 1)
	ss := lo.Reduce(series, func(acc, r float64, _ int) float64 {
		d := r - mu
		return acc + d*d
	}, 0.0)
	return math.Sqrt(ss/float64(n-1)) * math.Sqrt(float64(annFreq))
}

// NWStd computes the Newey-West autocorrelation-robust standard deviation
// using the Bartlett kernel with automatic truncation lag
// L = ceil(4·(T/100)^(2/9)) and an equal T−1 denominator across lags,
// scaled by √annFreq.
//
// Newey, W.K., West, K.D. (1987). A Simple, Positive Semi-definite,
// Heteroskedasticity and Autocorrelation Consistent Covariance Matrix.
func NWStd(series []float64, annFreq int) float64 {
	const ddof = 1

	T := len(series)
	if T <= ddof {
		return math.NaN()
	}
	mu := Mean(series, 1)
	resid := lo.Map(series, func(r float64, _ int) float64 { return r - mu })

	L := int(math.Ceil(4 * math.Pow(float64(T)/100, 2.0/9.0)))

	nwVar := 0.0
	for l := 0; l <= L; l++ {
		weight := 1.0
		if l != 0 {
			weight = 2 * (1 - float64(l)/float64(L+1))
		}
		for t := l; t < T; t++ {
			nwVar += weight * resid[t] * resid[t-l]
		}
	}

	return math.Sqrt(nwVar / float64(T-ddof) * float64(annFreq))
}

// DownDev computes the downside deviation: the square root of the sum of
// squared negative returns over n−1, scaled by √annFreq. NaN when the series
// is empty.
func DownDev(series []float64, annFreq int) float64 {
	n := len(series)
	if n < 1 {
		return math.NaN()
	}
	ss := lo.Reduce(series, func(acc, r float64, _ int) float64 {
		if r < 0 {
			return acc + r*r
		}
		return acc
	}, 0.0)
	return math.Sqrt(ss/float64(n-1)) * math.Sqrt(float64(annFreq))
}

// Sharpe computes mean over sample standard deviation, scaled by √annFreq.
func Sharpe(series []float64, annFreq int) float64 {
	return Mean(series, 1) / Std(series, 1) * math.Sqrt(float64(annFreq))
}

// Sortino computes mean over downside deviation, scaled by √annFreq. NaN
// when the series is empty or contains no negative observation.
func Sortino(series []float64, annFreq int) float64 {
	n := len(series)
	negatives := lo.CountBy(series, func(r float64) bool { return r < 0 })
	if n < 1 || negatives == 0 {
		return math.NaN()
	}
	return Mean(series, 1) / DownDev(series, 1) * math.Sqrt(float64(annFreq))
}

// Calmar computes CAGR over the absolute maximum drawdown.
func Calmar(series []float64, annFreq int) float64 {
	return CAGR(series, annFreq) / math.Abs(MaxDrawdown(series))
}

// TStat computes the standard t-statistic mean/std × √n. NaN for an empty
// series.
func TStat(series []float64) float64 {
	n := len(series)
	if n == 0 {
		return math.NaN()
	}
	return Mean(series, 1) / Std(series, 1) * math.Sqrt(float64(n))
}

// NWTStat computes the Newey-West t-statistic mean/nwstd × √n.
func NWTStat(series []float64) float64 {
	return Mean(series, 1) / NWStd(series, 1) * math.Sqrt(float64(len(series)))
}

// MaxDrawdown computes the minimum of (cum − peak)/peak over the cumulative
// product of (1+rᵢ). A series that never falls below its running peak yields
// NaN, not zero. That sentinel is deliberate: callers distinguish "no
// drawdown ever observed" from a measured drawdown of zero.
func MaxDrawdown(series []float64) float64 {
	maxDD := 0.0
	cum, peak := 1.0, math.Inf(-1)
	for _, r := range series {
		cum *= 1 + r
		peak = math.Max(peak, cum)
		if dd := (cum - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}
	if maxDD == 0 {
		return math.NaN()
	}
	return maxDD
}

// AvgDrawdown averages the minimum of each contiguous drawdown episode
// longer than one observation. 0.0 when no qualifying episode exists.
func AvgDrawdown(series []float64) float64 {
	cum, peak := 1.0, math.Inf(-1)
	var troughs []float64
	runLen, runMin := 0, 0.0
	flush := func() {
		if runLen > 1 {
			troughs = append(troughs, runMin)
		}
		runLen, runMin = 0, 0.0
	}
	for _, r := range series {
		cum *= 1 + r
		peak = math.Max(peak, cum)
		dd := (cum - peak) / peak
		if dd != 0 {
			runLen++
			runMin = math.Min(runMin, dd)
		} else {
			flush()
		}
	}
	flush()

	if len(troughs) == 0 {
		return 0.0
	}
	return lo.Sum(troughs) / float64(len(troughs))
}
