// Package export renders stored records into operator-facing formats.
package export

import (
	"fmt"
	"strings"

	model "github.com/okian/binsight/internal/domain/model"
)

// csvHeader is the fixed column layout of the record export.
const csvHeader = "Date,User Name,User ID,Detected Items,Categories,Correctness,Points"

// dateLayout renders the record date column.
const dateLayout = "2006-01-02"

// RecordsCSV renders records as a CSV table. Multi-valued columns (items,
// categories) are semicolon-joined and always double-quoted.
func RecordsCSV(records []model.Record) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for i, r := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(recordRow(r))
	}

	return b.String()
}

// recordRow renders one record as a CSV line.
func recordRow(r model.Record) string {
	items := make([]string, 0, len(r.DetectedItems))
	for _, item := range r.DetectedItems {
		items = append(items, item.Item)
	}

	correctness := "Incorrect"
	if r.IsCorrect {
		correctness = "Correct"
	}

	cols := []string{
		r.Timestamp.Format(dateLayout),
		r.UserName,
		r.UserID,
		quote(strings.Join(items, "; ")),
		quote(strings.Join(uniqueCategories(r.DetectedItems), "; ")),
		correctness,
		fmt.Sprintf("%d", r.Points),
	}
	return strings.Join(cols, ",")
}

// uniqueCategories collects distinct categories preserving first-seen order.
func uniqueCategories(items []model.DetectedItem) []string {
	seen := make(map[model.WasteCategory]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		out = append(out, string(item.Category))
	}
	return out
}

// quote wraps a field in double quotes, escaping embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
