// Package csvio exports combination lists for spreadsheet use.
package csvio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"courseplanner/internal/engine"
)

var weekdays = []string{"M", "T", "W", "R", "F"}

// CombinationCSVRow is one exported combination.
type CombinationCSVRow struct {
	Rank   int     `csv:"Rank"`
	CRNs   string  `csv:"CRNs"`
	Days   string  `csv:"Days"`
	Starts string  `csv:"Starts"`
	Ends   string  `csv:"Ends"`
	Factor float64 `csv:"Factor"`
}

// ExportCombinations writes the combinations to the CSV file at the given
// path, one row per combination in list order.
func ExportCombinations(combinations []engine.Combination, path string) error {
	rows := formatCombinations(combinations)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer out.Close()

	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return fmt.Errorf("cannot write csv: %w", err)
	}
	return nil
}

// ExportCombinationsString renders the combinations as a CSV document.
func ExportCombinationsString(combinations []engine.Combination) (string, error) {
	rows := formatCombinations(combinations)
	str, err := gocsv.MarshalString(&rows)
	if err != nil {
		return "", fmt.Errorf("cannot write csv: %w", err)
	}
	return str, nil
}

func formatCombinations(combinations []engine.Combination) []*CombinationCSVRow {
	var formatted []*CombinationCSVRow
	for i, combination := range combinations {
		var days, starts, ends []string
		for _, day := range weekdays {
			start, ok := combination.StartMap[day]
			if !ok {
				continue
			}
			days = append(days, day)
			starts = append(starts, formatMinutes(start))
			ends = append(ends, formatMinutes(combination.EndMap[day]))
		}
		formatted = append(formatted, &CombinationCSVRow{
			Rank:   i + 1,
			CRNs:   strings.Join(combination.CRNs, " "),
			Days:   strings.Join(days, " "),
			Starts: strings.Join(starts, " "),
			Ends:   strings.Join(ends, " "),
			Factor: combination.Factor,
		})
	}
	return formatted
}

func formatMinutes(minutes int) string {
	return strconv.Itoa(minutes/60) + ":" + fmt.Sprintf("%02d", minutes%60)
}
