package excel

import (
	"fmt"
	"strconv"
	"strings"

	"ballistix/domain/ballistics"
	"ballistix/internal/errors"
	"ballistix/ports"
)

// ShotReader turns a spreadsheet or CSV of chronograph readings into shot inputs.
// A velocity column is required; diameter_mm and weight_grams are optional per shot.
type ShotReader struct {
	reader *DataReader
}

var _ ports.ShotSource = (*ShotReader)(nil)

// NewShotReader reads shots from a file on disk
func NewShotReader(filePath string) *ShotReader {
	return &ShotReader{reader: NewDataReader(filePath)}
}

// NewUploadShotReader reads shots from an uploaded payload
func NewUploadShotReader(filename string, content []byte) *ShotReader {
	return &ShotReader{reader: NewUploadReader(filename, content)}
}

// ReadShots parses every non-blank row. A cell that is present but not a number
// fails the whole sheet; the row number in the error counts the header as row 1.
func (s *ShotReader) ReadShots(fallback ballistics.ProjectileParams) ([]ballistics.ShotInput, error) {
	data, err := s.reader.ReadData()
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}

	velocityCol := findColumn(data.Headers, velocityColumns)
	if velocityCol == "" {
		return nil, errors.InvalidInput(fmt.Sprintf("%s: no velocity column (expected one of %s)",
			s.reader.name, strings.Join(velocityColumns, ", ")))
	}
	diameterCol := findColumn(data.Headers, diameterColumns)
	weightCol := findColumn(data.Headers, weightColumns)

	shots := make([]ballistics.ShotInput, 0, len(data.Rows))
	for i, row := range data.Rows {
		rowNum := i + 2
		velocity, err := parseCell(row, velocityCol, 0)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: velocity: %v", rowNum, err))
		}
		diameter, err := parseCell(row, diameterCol, fallback.DiameterMm)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: diameter: %v", rowNum, err))
		}
		weight, err := parseCell(row, weightCol, fallback.WeightGrams)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: weight: %v", rowNum, err))
		}
		shots = append(shots, ballistics.ShotInput{
			Velocity:    velocity,
			DiameterMm:  diameter,
			WeightGrams: weight,
		})
	}
	return shots, nil
}

// Name returns the file or upload name being read
func (s *ShotReader) Name() string {
	return s.reader.name
}

func findColumn(headers []string, aliases []string) string {
	for _, alias := range aliases {
		for _, h := range headers {
			if h == alias {
				return h
			}
		}
	}
	return ""
}

// parseCell returns fallback when the column is absent or the cell is empty
func parseCell(row RawRowData, column string, fallback float64) (float64, error) {
	if column == "" {
		return fallback, nil
	}
	raw := strings.TrimSpace(row[column])
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return v, nil
}
