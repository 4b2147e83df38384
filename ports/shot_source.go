package ports

import (
	"ballistix/domain/ballistics"
)

// ShotSource yields chronograph readings from an external medium (spreadsheet, CSV).
// Shots lacking projectile columns fall back to the supplied parameters.
type ShotSource interface {
	ReadShots(fallback ballistics.ProjectileParams) ([]ballistics.ShotInput, error)
}
