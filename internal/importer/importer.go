// Package importer loads parameter sets from CSV and Excel files. Files
// carry one parameter per row as a name/value pair; names are matched
// case-insensitively against quantity IDs and display titles, values accept
// the same scalar/list/range expressions as the input fields and are given
// in display units. Unknown names produce warnings, not failures, so files
// written for other beamline tools import partially instead of not at all.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/malte-storm/txm-param-calc/internal/model"
	"github.com/malte-storm/txm-param-calc/internal/parse"
)

// Result holds the outcome of an import: how many parameters were applied,
// plus per-row errors and warnings for the user.
type Result struct {
	Applied  int
	Errors   []string
	Warnings []string
}

// nameAliases maps normalized parameter names to quantity IDs. IDs map to
// themselves; display titles (with and without their unit suffix) are added
// so exported parameter dumps read back in.
var nameAliases = buildNameAliases()

func buildNameAliases() map[string]string {
	aliases := make(map[string]string)
	for _, id := range model.InputIDs {
		aliases[normalizeName(id)] = id
		title := model.TitleOf(id)
		aliases[normalizeName(title)] = id
		// title without the "[unit]" suffix
		if cut := strings.Index(title, "["); cut > 0 {
			aliases[normalizeName(title[:cut])] = id
		}
	}
	return aliases
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.TrimSpace(s)), " "))
}

// DetectCSVDelimiter determines the most likely delimiter of a CSV payload
// by trying comma, semicolon, tab, and pipe and scoring column-count
// consistency across rows.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}
		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}
		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}
		if weighted := score*10 + firstCols; weighted > bestScore {
			bestScore = weighted
			best = delim
		}
	}
	return best
}

// ImportCSV reads a name/value CSV file and applies the recognized
// parameters to the setup.
func ImportCSV(path string, s *model.Setup) Result {
	var result Result
	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read file: %v", err))
		return result
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = DetectCSVDelimiter(data)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	return applyRows(records, "Line", s)
}

// ImportXLSX reads the first sheet of an Excel workbook as name/value rows
// and applies the recognized parameters to the setup.
func ImportXLSX(path string, s *model.Setup) Result {
	var result Result
	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}
	return applyRows(rows, "Row", s)
}

// isHeaderRow reports whether a row looks like a "parameter,value" header.
func isHeaderRow(row []string) bool {
	if len(row) < 2 {
		return false
	}
	name := normalizeName(row[0])
	value := normalizeName(row[1])
	return (name == "parameter" || name == "name") && value == "value"
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// applyRows is the shared import logic for CSV and Excel data. Parameters
// are applied in file order; a row that fails leaves earlier rows applied.
func applyRows(rows [][]string, rowPrefix string, s *model.Setup) Result {
	var result Result
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	start := 0
	if isHeaderRow(rows[0]) {
		start = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: missing value", rowLabel))
			continue
		}

		id, ok := nameAliases[normalizeName(row[0])]
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: unknown parameter %q, skipped", rowLabel, strings.TrimSpace(row[0])))
			continue
		}

		value, err := parse.Value(row[1])
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rowLabel, err))
			continue
		}
		if err := s.SetDisplay(id, value); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", rowLabel, err))
			continue
		}
		result.Applied++
	}
	return result
}
