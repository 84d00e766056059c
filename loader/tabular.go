package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
)

// primaryColumn picks the column whose values have the greatest average text
// length. That column carries the prose; everything else is an annotation.
func primaryColumn(header []string, rows [][]string) int {
	best := 0
	bestAvg := -1.0

	for col := range header {
		total := 0
		for _, row := range rows {
			if col < len(row) {
				total += len(row[col])
			}
		}
		avg := float64(total) / float64(len(rows))
		if avg > bestAvg {
			bestAvg = avg
			best = col
		}
	}
	return best
}

// formatRow renders one tabular row as a text block: the primary cell first,
// then one annotation line per remaining column.
func formatRow(header []string, row []string, primary int) string {
	var sb strings.Builder

	if primary < len(row) {
		sb.WriteString(row[primary])
	}
	for col, name := range header {
		if col == primary || col >= len(row) || row[col] == "" {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Column %q is %s", name, row[col]))
	}
	return sb.String()
}

// formatTable renders a whole table, one block per data row.
func formatTable(header []string, rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	primary := primaryColumn(header, rows)
	blocks := make([]string, 0, len(rows))
	for _, row := range rows {
		if block := formatRow(header, row, primary); block != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func parseCSV(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	return formatTable(records[0], records[1:]), nil
}
