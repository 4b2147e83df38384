package analysis

import "math"

// Lanczos approximation parameters (g = 7, nine-term series)
const lanczosG = 7.0

// gammaOverflow is the argument above which Γ(z) exceeds math.MaxFloat64
const gammaOverflow = 171.624

var lanczosCoefficients = [9]float64{
	0.99999999999980993,
	676.5203681218851,
	-1259.1392167224028,
	771.32342877765313,
	-176.61502916214059,
	12.507343278686905,
	-0.13857109526572012,
	9.9843695780195716e-6,
	1.5056327351493116e-7,
}

// Gamma evaluates Γ(z) with the Lanczos approximation.
// For z < 0.5 the reflection formula Γ(z) = π / (sin(πz)·Γ(1−z)) is applied.
// Above gammaOverflow the result is +Inf.
func Gamma(z float64) float64 {
	if z < 0.5 {
		return math.Pi / (math.Sin(math.Pi*z) * Gamma(1-z))
	}
	if z > gammaOverflow {
		return math.Inf(1)
	}
	z--
	x := lanczosSeries(z)
	t := z + lanczosG + 0.5
	return math.Sqrt(2*math.Pi) * math.Pow(t, z+0.5) * math.Exp(-t) * x
}

// LogGamma evaluates ln Γ(z) for z >= 0.5 from the same series.
// It stays finite where Gamma overflows (z above ~171).
func LogGamma(z float64) float64 {
	if z < 0.5 {
		return math.Log(math.Abs(Gamma(z)))
	}
	z--
	x := lanczosSeries(z)
	t := z + lanczosG + 0.5
	return 0.5*math.Log(2*math.Pi) + (z+0.5)*math.Log(t) - t + math.Log(x)
}

func lanczosSeries(z float64) float64 {
	x := lanczosCoefficients[0]
	for i := 1; i < len(lanczosCoefficients); i++ {
		x += lanczosCoefficients[i] / (z + float64(i))
	}
	return x
}
