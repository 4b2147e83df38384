package ballistics

import "sort"

// DistinctWeights returns the sorted set of projectile weights (g) in a batch
func DistinctWeights(records []ShotRecord) []float64 {
	return distinct(records, func(r ShotRecord) float64 { return r.WeightGrams })
}

// DistinctDiameters returns the sorted set of projectile diameters (mm) in a batch
func DistinctDiameters(records []ShotRecord) []float64 {
	return distinct(records, func(r ShotRecord) float64 { return r.DiameterMm })
}

func distinct(records []ShotRecord, field func(ShotRecord) float64) []float64 {
	seen := make(map[float64]struct{}, len(records))
	out := make([]float64, 0, 2)
	for _, r := range records {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
