package excel

// RawRowData represents a row of raw spreadsheet data keyed by normalized header
type RawRowData map[string]string

// ExcelData represents the complete sheet
type ExcelData struct {
	Headers []string     // Column headers, lower-cased
	Rows    []RawRowData // Data rows, blank rows dropped
}

// Column names recognised in shot sheets. The first alias found wins.
var (
	velocityColumns = []string{"velocity", "velocity_mps", "velocity_m_s", "v"}
	diameterColumns = []string{"diameter_mm", "diameter", "caliber_mm"}
	weightColumns   = []string{"weight_grams", "weight_g", "weight", "mass_grams"}
)
