package ballistics

import (
	"strconv"
	"strings"

	"ballistix/domain/core"
)

// Fingerprint hashes the measured inputs of a batch in sequence order. Shot IDs are
// excluded, so re-entering the same readings reproduces the same fingerprint.
func Fingerprint(records []ShotRecord) core.Hash {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(strconv.FormatFloat(r.Velocity, 'g', -1, 64))
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(r.DiameterMm, 'g', -1, 64))
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(r.WeightGrams, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}
