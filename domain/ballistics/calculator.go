package ballistics

import (
	"math"

	"ballistix/domain/core"
)

// ComputeEnergy converts a shot into kinetic energy and kinetic energy per unit
// cross-sectional area. Inputs are not validated: a zero diameter yields +Inf.
func ComputeEnergy(velocity, diameterMm, weightGrams float64) Energy {
	massKg := weightGrams / 1000
	energyJoules := 0.5 * massKg * velocity * velocity
	areaCm2 := SectionalAreaCm2(diameterMm)
	return Energy{
		EnergyJoules:   energyJoules,
		UnitAreaEnergy: energyJoules / areaCm2,
	}
}

// SectionalAreaCm2 returns the projectile cross-section in cm² for a diameter in mm
func SectionalAreaCm2(diameterMm float64) float64 {
	radiusCm := diameterMm / 20
	return math.Pi * radiusCm * radiusCm
}

// NewShotRecord derives a record from a validated input
func NewShotRecord(input ShotInput, sequenceIndex int) ShotRecord {
	e := ComputeEnergy(input.Velocity, input.DiameterMm, input.WeightGrams)
	return ShotRecord{
		ShotInput:      input,
		SequenceIndex:  sequenceIndex,
		EnergyJoules:   e.EnergyJoules,
		UnitAreaEnergy: e.UnitAreaEnergy,
	}
}

// BuildRecords derives records for a batch, numbering them in input order.
// Shots without an identity receive one.
func BuildRecords(inputs []ShotInput) []ShotRecord {
	records := make([]ShotRecord, len(inputs))
	for i, in := range inputs {
		if in.ID.IsEmpty() {
			in.ID = core.NewShotID()
		}
		records[i] = NewShotRecord(in, i+1)
	}
	return records
}

// FromVelocities expands single-ammo mode readings into shot inputs sharing one projectile
func FromVelocities(velocities []float64, params ProjectileParams) []ShotInput {
	inputs := make([]ShotInput, len(velocities))
	for i, v := range velocities {
		inputs[i] = ShotInput{
			ID:          core.NewShotID(),
			Velocity:    v,
			DiameterMm:  params.DiameterMm,
			WeightGrams: params.WeightGrams,
		}
	}
	return inputs
}

// ResolveEntries turns submitted entries into shot inputs, taking any missing
// diameter or weight from params
func ResolveEntries(entries []ShotEntry, params ProjectileParams) []ShotInput {
	inputs := make([]ShotInput, len(entries))
	for i, e := range entries {
		in := ShotInput{
			ID:          core.NewShotID(),
			Velocity:    e.Velocity,
			DiameterMm:  params.DiameterMm,
			WeightGrams: params.WeightGrams,
		}
		if e.DiameterMm != nil {
			in.DiameterMm = *e.DiameterMm
		}
		if e.WeightGrams != nil {
			in.WeightGrams = *e.WeightGrams
		}
		inputs[i] = in
	}
	return inputs
}

// UnitAreaEnergies extracts the J/cm² series from a batch
func UnitAreaEnergies(records []ShotRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.UnitAreaEnergy
	}
	return out
}

// Velocities extracts the velocity series from a batch
func Velocities(records []ShotRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Velocity
	}
	return out
}

// IsMixedAmmunition reports whether diameters or weights vary across the batch
func IsMixedAmmunition(records []ShotRecord) bool {
	return len(DistinctWeights(records)) > 1 || len(DistinctDiameters(records)) > 1
}
