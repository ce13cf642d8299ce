package engine

import "math"

// WhatIfResult projects a series with every point reduced by Reduction percent.
type WhatIfResult struct {
	Reduction      float64   `json:"reduction"`
	Baseline       []float64 `json:"baseline"`
	Projected      []float64 `json:"projected"`
	BaselineTotal  float64   `json:"baselineTotal"`
	ProjectedTotal float64   `json:"projectedTotal"`
	Saved          float64   `json:"saved"`
}

// WhatIf applies max(0, y*(1-p/100)) to every point. p is clamped to
// 0..100; NaN counts as 0.
func WhatIf(values []float64, p float64) WhatIfResult {
	if math.IsNaN(p) {
		p = 0
	}
	p = min(max(p, 0), 100)

	res := WhatIfResult{
		Reduction: p,
		Baseline:  append([]float64{}, values...),
		Projected: make([]float64, len(values)),
	}
	for i, y := range values {
		proj := max(0, y*(1-p/100))
		res.Projected[i] = proj
		res.BaselineTotal += y
		res.ProjectedTotal += proj
	}
	res.Saved = res.BaselineTotal - res.ProjectedTotal
	return res
}
