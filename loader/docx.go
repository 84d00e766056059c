package loader

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"strings"
)

// Minimal OOXML word processing: paragraphs from word/document.xml, one
// block per non-empty paragraph.

type docxDocument struct {
	Paragraphs []struct {
		Runs []struct {
			Text string `xml:"t"`
		} `xml:"r"`
	} `xml:"body>p"`
}

func parseDOCX(ctx context.Context, path string) ([]string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	data, err := readZipFile(&archive.Reader, "word/document.xml")
	if err != nil {
		return nil, err
	}

	var parsed docxDocument
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}

	var blocks []string
	for _, paragraph := range parsed.Paragraphs {
		var sb strings.Builder
		for _, run := range paragraph.Runs {
			sb.WriteString(run.Text)
		}
		if text := strings.TrimSpace(sb.String()); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks, nil
}
