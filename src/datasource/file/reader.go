// reader.go
package file

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// MonthColumn is the canonical name the resolver assigns to whichever
// column holds the reporting month.
const MonthColumn = "Month"

// xlsxHeaderRow: BITRE workbooks carry a title row and a disclaimer row
// above the header.
const xlsxHeaderRow = 2

// syntheticHeaderTolerance: a candidate header row is rejected when all but
// this many of its column names end up as synthetic placeholders. The
// cutoff mirrors the behaviour observed across published files and is kept
// tunable rather than treated as a guaranteed-correct rule.
const syntheticHeaderTolerance = 1

// ParseError reports that no header-row offset yields a usable table.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no usable header row in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// headerStrategy is one candidate for locating the header row. Strategies
// are tried in order; a fallback strategy accepts its header row even when
// most column names are synthetic.
type headerStrategy struct {
	name     string
	offset   int
	fallback bool
}

func csvStrategies(maxScan int) []headerStrategy {
	if maxScan < 1 {
		maxScan = 1
	}
	out := make([]headerStrategy, maxScan)
	for i := range out {
		out[i] = headerStrategy{
			name:     fmt.Sprintf("header-at-row-%d", i),
			offset:   i,
			fallback: i == maxScan-1,
		}
	}
	return out
}

// LoadTable reads the input file and returns the raw table with the month
// column renamed to MonthColumn. maxHeaderScan bounds the CSV header search.
func LoadTable(path string, maxHeaderScan int) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return loadXLSX(path)
	}
	return loadCSV(path, maxHeaderScan)
}

func loadCSV(path string, maxHeaderScan int) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	// BITRE publishes UTF-8, occasionally with a BOM.
	r := csv.NewReader(transform.NewReader(f, unicode.UTF8BOM.NewDecoder()))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}

	df, err := resolveLayout(rows, csvStrategies(maxHeaderScan))
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}
	return df, nil
}

func loadXLSX(path string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open xlsx file: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}
	sheet := xlFile.Sheets[0]
	if len(sheet.Rows) <= xlsxHeaderRow {
		return dataframe.DataFrame{}, &ParseError{
			Path: path,
			Err:  fmt.Errorf("sheet has %d rows, header expected at row %d", len(sheet.Rows), xlsxHeaderRow),
		}
	}

	rows := make([][]string, 0, len(sheet.Rows)-xlsxHeaderRow)
	for _, row := range sheet.Rows[xlsxHeaderRow:] {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = cell.Value
		}
		rows = append(rows, cells)
	}

	// Header position is fixed for workbooks, so the single strategy is a
	// fallback: accept whatever sits at that row.
	df, err := resolveLayout(rows, []headerStrategy{{name: "fixed-header-row", offset: 0, fallback: true}})
	if err != nil {
		return dataframe.DataFrame{}, &ParseError{Path: path, Err: err}
	}
	return df, nil
}

// resolveLayout tries each header strategy in order and returns the first
// table it accepts, with the month column renamed.
func resolveLayout(rows [][]string, strategies []headerStrategy) (dataframe.DataFrame, error) {
	var lastErr error
	for _, st := range strategies {
		if st.offset >= len(rows) {
			continue
		}
		headers, synthetic := cleanHeaders(rows[st.offset])
		if len(headers) == 0 {
			lastErr = fmt.Errorf("%s: empty header row", st.name)
			continue
		}
		if !st.fallback && synthetic >= len(headers)-syntheticHeaderTolerance {
			lastErr = fmt.Errorf("%s: %d of %d column names are placeholders", st.name, synthetic, len(headers))
			continue
		}
		df := buildDataFrame(headers, rows[st.offset+1:])
		if df.Error() != nil {
			lastErr = fmt.Errorf("%s: %w", st.name, df.Error())
			continue
		}
		return renameMonthColumn(df), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("table has no rows")
	}
	return dataframe.DataFrame{}, lastErr
}

// cleanHeaders trims column names, replaces empty ones with synthetic
// placeholders and deduplicates repeats. Returns the cleaned names and the
// placeholder count.
func cleanHeaders(raw []string) ([]string, int) {
	headers := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	synthetic := 0
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
			synthetic++
		}
		if n := seen[h]; n > 0 {
			seen[h] = n + 1
			h = fmt.Sprintf("%s_%d", h, n)
		} else {
			seen[h] = 1
		}
		headers[i] = h
	}
	return headers, synthetic
}

// buildDataFrame assembles a string-typed DataFrame from header names and
// data rows. Short rows are padded so every column keeps equal length.
func buildDataFrame(headers []string, rows [][]string) dataframe.DataFrame {
	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(rows))
	}
	for _, row := range rows {
		for i := range headers {
			v := ""
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			columns[i] = append(columns[i], v)
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, name := range headers {
		seriesList[i] = series.New(columns[i], series.String, name)
	}
	return dataframe.New(seriesList...)
}

// renameMonthColumn picks the first column whose name suggests a survey
// period, falling back to the first column, and renames it to MonthColumn.
func renameMonthColumn(df dataframe.DataFrame) dataframe.DataFrame {
	names := df.Names()
	monthCol := names[0]
	for _, n := range names {
		lower := strings.ToLower(n)
		if strings.Contains(lower, "month") || strings.Contains(lower, "survey") {
			monthCol = n
			break
		}
	}
	if monthCol == MonthColumn {
		return df
	}
	return df.Rename(MonthColumn, monthCol)
}
