package analytics

// Format identifies how a metric value is rendered for display.
type Format string

const (
	FormatPercent  Format = "pct"
	FormatNumber   Format = "num"
	FormatInt      Format = "int"
	FormatCurrency Format = "cur"
)

// Metric pairs a statistic function with its display configuration.
type Metric struct {
	Name       string
	Compute    func(series []float64, annFreq int) float64
	Format     Format
	Scale      float64
	Annualized bool // pass the caller's annFreq; otherwise 1 (no annualization)
}

// Eval computes the metric over the series, honoring the annualization flag
// and scale factor.
func (m Metric) Eval(series []float64, annFreq int) float64 {
	freq := 1
	if m.Annualized {
		freq = annFreq
	}
	return m.Compute(series, freq) * m.Scale
}

// PerformanceMetrics is the standard performance table shown for a return
// series.
var PerformanceMetrics = []Metric{
	{Name: "Total Return", Compute: ignoreFreq(TotalReturn), Scale: 100, Format: FormatPercent},
	{Name: "CAGR", Compute: CAGR, Annualized: true, Scale: 100, Format: FormatPercent},
	{Name: "Mean (ann.)", Compute: Mean, Annualized: true, Scale: 100, Format: FormatPercent},
	{Name: "Volatility (ann.)", Compute: Std, Annualized: true, Scale: 100, Format: FormatPercent},
	{Name: "Sharpe", Compute: Sharpe, Annualized: true, Scale: 1, Format: FormatNumber},
	{Name: "Sortino", Compute: Sortino, Annualized: true, Scale: 1, Format: FormatNumber},
	{Name: "Calmar", Compute: Calmar, Annualized: true, Scale: 1, Format: FormatNumber},
	{Name: "Max Drawdown", Compute: ignoreFreq(MaxDrawdown), Scale: 100, Format: FormatPercent},
}

func ignoreFreq(f func([]float64) float64) func([]float64, int) float64 {
	return func(series []float64, _ int) float64 { return f(series) }
}
