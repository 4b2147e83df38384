package ballistics

import (
	"ballistix/domain/core"
)

// ShotInput is a single chronograph reading together with the projectile it was fired with.
// Diameter and weight are carried per shot so mixed ammunition batches stay representable.
type ShotInput struct {
	ID          core.ShotID `json:"id"`
	Velocity    float64     `json:"velocity" validate:"finite,gt=0,lte=10000"`            // m/s
	DiameterMm  float64     `json:"diameter_mm" validate:"finite,gt=0,gte=0.01,lte=1000"` // mm
	WeightGrams float64     `json:"weight_grams" validate:"finite,gt=0,lte=100000"`       // g
}

// ShotEntry is a reading as submitted, before projectile defaults are applied.
// A nil diameter or weight means "same as the batch projectile"; an explicit
// value, zero included, is kept and validated as given.
type ShotEntry struct {
	Velocity    float64  `json:"velocity"`
	DiameterMm  *float64 `json:"diameter_mm,omitempty"`
	WeightGrams *float64 `json:"weight_grams,omitempty"`
}

// ProjectileParams describes the projectile shared by every shot in single-ammo mode
type ProjectileParams struct {
	DiameterMm  float64 `json:"diameter_mm" yaml:"diameter_mm" validate:"finite,gt=0,gte=0.01,lte=1000"`
	WeightGrams float64 `json:"weight_grams" yaml:"weight_grams" validate:"finite,gt=0,lte=100000"`
}

// DefaultProjectile is the standard 6 mm / 0.20 g BB.
var DefaultProjectile = ProjectileParams{DiameterMm: 6.0, WeightGrams: 0.2}

// Energy is the output of the ballistics calculator
type Energy struct {
	EnergyJoules   float64 `json:"energy_joules"`
	UnitAreaEnergy float64 `json:"unit_area_energy"` // J/cm²
}

// ShotRecord is an analyzed shot. Derived fields are fixed at construction;
// a change of parameters produces new records rather than patching these.
type ShotRecord struct {
	ShotInput
	SequenceIndex  int     `json:"sequence_index"` // 1-based, display only
	EnergyJoules   float64 `json:"energy_joules"`
	UnitAreaEnergy float64 `json:"unit_area_energy"`
}
