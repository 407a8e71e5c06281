package engine

import "gonum.org/v1/gonum/stat/distuv"

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// normalCDF is the standard normal CDF Φ.
func normalCDF(x float64) float64 {
	return stdNormal.CDF(x)
}

// zQuantile is the standard normal quantile Φ⁻¹, used for critical values.
func zQuantile(p float64) float64 {
	return stdNormal.Quantile(p)
}

// chiSquareCDF evaluates the chi-square CDF at x with df degrees of freedom.
func chiSquareCDF(x float64, df int) float64 {
	return distuv.ChiSquared{K: float64(df)}.CDF(x)
}
