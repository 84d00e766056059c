package loader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Minimal OOXML spreadsheet reading: shared strings plus the first
// worksheet. Formulas and styling are ignored, only cell values matter.

type xlsxSharedStrings struct {
	Items []struct {
		Text  string `xml:"t"`
		Runs  []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"si"`
}

type xlsxWorksheet struct {
	Rows []struct {
		Cells []struct {
			Ref   string `xml:"r,attr"`
			Type  string `xml:"t,attr"`
			Value string `xml:"v"`
			Inline struct {
				Text string `xml:"t"`
			} `xml:"is"`
		} `xml:"c"`
	} `xml:"sheetData>row"`
}

func parseXLSX(ctx context.Context, path string) ([]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	shared, err := readSharedStrings(&archive.Reader)
	if err != nil {
		return nil, err
	}

	sheet, err := readFirstWorksheet(&archive.Reader)
	if err != nil {
		return nil, err
	}

	var table [][]string
	for _, row := range sheet.Rows {
		var cells []string
		for _, cell := range row.Cells {
			col := columnIndex(cell.Ref)
			for len(cells) <= col {
				cells = append(cells, "")
			}
			cells[col] = cellValue(cell.Type, cell.Value, cell.Inline.Text, shared)
		}
		table = append(table, cells)
	}
	if len(table) < 2 {
		return nil, errors.New("spreadsheet has no data rows")
	}

	return formatTable(table[0], table[1:]), nil
}

func readSharedStrings(archive *zip.Reader) ([]string, error) {
	data, err := readZipFile(archive, "xl/sharedStrings.xml")
	if err != nil {
		// A workbook with only inline or numeric cells has no shared strings
		return nil, nil
	}

	var parsed xlsxSharedStrings
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	strs := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if len(item.Runs) > 0 {
			var sb strings.Builder
			for _, run := range item.Runs {
				sb.WriteString(run.Text)
			}
			strs = append(strs, sb.String())
			continue
		}
		strs = append(strs, item.Text)
	}
	return strs, nil
}

func readFirstWorksheet(archive *zip.Reader) (*xlsxWorksheet, error) {
	data, err := readZipFile(archive, "xl/worksheets/sheet1.xml")
	if err != nil {
		return nil, err
	}

	var sheet xlsxWorksheet
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, err
	}
	return &sheet, nil
}

func readZipFile(archive *zip.Reader, name string) ([]byte, error) {
	for _, f := range archive.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, errors.New(name + " not found in archive")
}

// columnIndex converts a cell reference like "C7" to a zero-based column.
func columnIndex(ref string) int {
	col := 0
	for _, r := range ref {
		if r < 'A' || r > 'Z' {
			break
		}
		col = col*26 + int(r-'A') + 1
	}
	if col == 0 {
		return 0
	}
	return col - 1
}

func cellValue(cellType, value, inline string, shared []string) string {
	switch cellType {
	case "s":
		idx, err := strconv.Atoi(value)
		if err != nil || idx < 0 || idx >= len(shared) {
			return ""
		}
		return shared[idx]
	case "inlineStr":
		return inline
	default:
		return value
	}
}
