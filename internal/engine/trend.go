package engine

// TrendFit is an ordinary least-squares line over a series indexed 0..n-1.
type TrendFit struct {
	Slope     float64   `json:"slope"`
	Intercept float64   `json:"intercept"`
	Fitted    []float64 `json:"fitted"`
}

// TrendLine fits value against index. A zero denominator is replaced by 1.
// Empty input yields an empty fit.
func TrendLine(values []float64) TrendFit {
	n := float64(len(values))
	if n == 0 {
		return TrendFit{Fitted: []float64{}}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		denom = 1
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	fitted := make([]float64, len(values))
	for i := range values {
		fitted[i] = slope*float64(i) + intercept
	}
	return TrendFit{Slope: slope, Intercept: intercept, Fitted: fitted}
}
