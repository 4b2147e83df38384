package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ballistix/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	name     string
	fileType string // "xlsx" or "csv"
	open     func() (io.ReadCloser, error)
	logger   *internal.Logger
}

// NewDataReader creates a reader for a file on disk; the extension picks the format
func NewDataReader(filePath string) *DataReader {
	return &DataReader{
		name:     filePath,
		fileType: fileTypeOf(filePath),
		open:     func() (io.ReadCloser, error) { return os.Open(filePath) },
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

// NewUploadReader creates a reader over an uploaded payload named filename
func NewUploadReader(filename string, content []byte) *DataReader {
	return &DataReader{
		name:     filename,
		fileType: fileTypeOf(filename),
		open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(content)), nil },
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

func fileTypeOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return ""
	}
}

// ReadData reads the sheet into headers and rows
func (r *DataReader) ReadData() (*ExcelData, error) {
	if r.fileType == "" {
		return nil, fmt.Errorf("unsupported file type: %s (expected .xlsx or .csv)", r.name)
	}

	src, err := r.open()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.name)
		}
		return nil, fmt.Errorf("failed to open %s: %w", r.name, err)
	}
	defer src.Close()

	start := time.Now()
	var rows [][]string
	if r.fileType == "csv" {
		rows, err = readCSVRows(src)
	} else {
		rows, err = readExcelRows(src)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", r.name, float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	if len(rows) < 1 {
		return nil, fmt.Errorf("%s file must have a header row", strings.ToUpper(r.fileType))
	}
	return processRows(rows), nil
}

// readExcelRows reads Sheet1, or the first sheet when there is no Sheet1
func readExcelRows(src io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSVRows(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into ExcelData format
func processRows(rows [][]string) *ExcelData {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header, "\ufeff")))
	}

	var dataRows []RawRowData
	for _, row := range rows[1:] {
		rowData := make(RawRowData)
		blank := true
		for j, cell := range row {
			if j < len(headers) {
				cell = strings.TrimSpace(cell)
				rowData[headers[j]] = cell
				if cell != "" {
					blank = false
				}
			}
		}
		if !blank {
			dataRows = append(dataRows, rowData)
		}
	}

	return &ExcelData{Headers: headers, Rows: dataRows}
}
