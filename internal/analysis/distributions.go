package analysis

import (
	"math"

	domainStats "ballistix/domain/stats"
)

// SimpsonIntervals is the number of subintervals used for tail integration
const SimpsonIntervals = 1000

// StudentTPDF is the density of Student's t-distribution with df degrees of freedom
func StudentTPDF(t, df float64) float64 {
	base := 1 + (t*t)/df
	power := -(df + 1) / 2
	return studentTCoefficient(df) * math.Pow(base, power)
}

// studentTCoefficient is Γ((df+1)/2) / (√(dfπ)·Γ(df/2)).
// Both gammas overflow around df = 340, so any non-finite value switches to the LogGamma ratio.
func studentTCoefficient(df float64) float64 {
	numerator := Gamma((df + 1) / 2)
	denominator := Gamma(df / 2)
	scale := math.Sqrt(df * math.Pi)
	if !isFinite(numerator) || !isFinite(denominator) {
		return math.Exp(LogGamma((df+1)/2)-LogGamma(df/2)) / scale
	}
	return numerator / (scale * denominator)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Simpson integrates f over [a, b] with composite Simpson's rule on n (even) subintervals
func Simpson(f func(float64) float64, a, b float64, n int) float64 {
	if n%2 != 0 {
		n++
	}
	h := (b - a) / float64(n)
	sum := f(a) + f(b)
	for i := 1; i < n; i += 2 {
		sum += 4 * f(a+float64(i)*h)
	}
	for i := 2; i < n-1; i += 2 {
		sum += 2 * f(a+float64(i)*h)
	}
	return (h / 3) * sum
}

// OneTailedPValue returns P(T > |t|) for Student's t with df degrees of freedom.
//
// The tail is 0.5 minus the density integrated over [0, |t|], clamped to [0, 0.5].
// The sign of t is ignored: the value is the tail probability of the observed
// deviation's magnitude, whichever side of the threshold the mean falls on.
func OneTailedPValue(t float64, df int) float64 {
	if df <= 0 {
		return domainStats.InconclusivePValue
	}
	absT := math.Abs(t)
	if math.IsNaN(absT) {
		return domainStats.InconclusivePValue
	}
	if math.IsInf(absT, 1) {
		return 0
	}

	nu := float64(df)
	integral := Simpson(func(x float64) float64 { return StudentTPDF(x, nu) }, 0, absT, SimpsonIntervals)

	pTail := 0.5 - integral
	if pTail < 0 {
		pTail = 0
	}
	if pTail > 0.5 {
		pTail = 0.5
	}
	return pTail
}

// CriticalValue95 approximates the two-sided 95% t critical value as 1.96 + 2.4/df.
// It converges to the normal z-value and runs slightly wide for small df.
func CriticalValue95(df int) float64 {
	if df > 0 {
		return 1.96 + 2.4/float64(df)
	}
	return 1.96
}
