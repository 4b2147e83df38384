package ports

import (
	"context"

	"ballistix/domain/ballistics"
	"ballistix/domain/verdict"
)

// ReportGenerator narrates a verdict as free text (Markdown). It may fail; callers
// keep the verdict regardless.
type ReportGenerator interface {
	SummarizeFindings(ctx context.Context, v verdict.Verdict, params ballistics.ProjectileParams, records []ballistics.ShotRecord) (string, error)
}
