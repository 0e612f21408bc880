/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: HTML report rendering for scan results. Lays out every scanned buffer
with its summary, type histogram and the table of reported runs so a format
can be audited in a browser.
*/

package reporting

import (
	"fmt"
	"html/template"
	"io"
	"sort"
)

// typeCount is a histogram row for the HTML view
type typeCount struct {
	Type  string
	Count int
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"hex":       func(v uint64) string { return fmt.Sprintf("%#010x", v) },
	"histogram": histogram,
}).Parse(reportHTML))

// histogram returns the type counts sorted by descending count, then name
func histogram(s *Summary) []typeCount {
	if s == nil {
		return nil
	}
	rows := make([]typeCount, 0, len(s.TypeCounts))
	for name, count := range s.TypeCounts {
		rows = append(rows, typeCount{Type: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Type < rows[j].Type
	})
	return rows
}

// renderHTML executes the report template
func renderHTML(w io.Writer, report *Report) error {
	if err := reportTemplate.Execute(w, report); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}
