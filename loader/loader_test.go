package loader

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/costiera/concierge/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeZip(t *testing.T, dir, name string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, content := range entries {
		ew, err := w.Create(entry)
		require.NoError(t, err)
		_, err = ew.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestLoadTXT(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	path := writeFile(t, t.TempDir(), "notes.txt", "Visit https://example.com/villa for info")
	chunks, err := loader.Load(context.Background(), &core.Document{
		Id: 1, Name: "notes.txt", Path: path, Type: core.DocTypeTXT,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Visit https://example.com/villa for info", chunks[0].PageContent)
	assert.Equal(t, core.ID(1), chunks[0].DocumentId)
	assert.Equal(t, "notes.txt", chunks[0].Metadata["source"])
}

func TestLoadCSVPrimaryColumn(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	csv := "name,description,price\n" +
		"Villa Azure,A spacious seaside villa with a private beach and gardens,250\n" +
		"Villa Bianca,Cosy hillside retreat overlooking the old town,180\n"
	path := writeFile(t, t.TempDir(), "villas.csv", csv)

	chunks, err := loader.Load(context.Background(), &core.Document{
		Id: 1, Name: "villas.csv", Path: path, Type: core.DocTypeCSV,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// description has the greatest average length so it is the primary text
	first := chunks[0].PageContent
	assert.Contains(t, first, "A spacious seaside villa")
	assert.Contains(t, first, `Column "name" is Villa Azure`)
	assert.Contains(t, first, `Column "price" is 250`)
	assert.NotContains(t, first, `Column "description"`)
}

func TestLoadXLSX(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	sharedStrings := `<?xml version="1.0"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>name</t></si>
<si><t>description</t></si>
<si><t>Villa Azure</t></si>
<si><t>A spacious seaside villa with gardens</t></si>
</sst>`
	sheet := `<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<sheetData>
<row><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row><c r="A2" t="s"><v>2</v></c><c r="B2" t="s"><v>3</v></c></row>
</sheetData>
</worksheet>`

	path := writeZip(t, t.TempDir(), "villas.xlsx", map[string]string{
		"xl/sharedStrings.xml":     sharedStrings,
		"xl/worksheets/sheet1.xml": sheet,
	})

	chunks, err := loader.Load(context.Background(), &core.Document{
		Id: 1, Name: "villas.xlsx", Path: path, Type: core.DocTypeXLSX,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].PageContent, "A spacious seaside villa with gardens")
	assert.Contains(t, chunks[0].PageContent, `Column "name" is Villa Azure`)
}

func TestLoadDOCX(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	document := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Villa Azure sits on the coast.</w:t></w:r></w:p>
<w:p><w:r><w:t>Villa </w:t></w:r><w:r><w:t>Bianca has a pool.</w:t></w:r></w:p>
<w:p></w:p>
</w:body>
</w:document>`

	path := writeZip(t, t.TempDir(), "villas.docx", map[string]string{
		"word/document.xml": document,
	})

	chunks, err := loader.Load(context.Background(), &core.Document{
		Id: 1, Name: "villas.docx", Path: path, Type: core.DocTypeDOCX,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Villa Azure sits on the coast.", chunks[0].PageContent)
	assert.Equal(t, "Villa Bianca has a pool.", chunks[1].PageContent)
}

func TestLoadHTML(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	html := `<html><head><style>p { color: red }</style></head><body>
<h1>Villa Azure</h1>
<p>A seaside villa with gardens.</p>
<script>alert("hi")</script>
</body></html>`
	path := writeFile(t, t.TempDir(), "villa.html", html)

	chunks, err := loader.Load(context.Background(), &core.Document{
		Id: 1, Name: "villa.html", Path: path, Type: core.DocTypeHTML,
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "Villa Azure", chunks[0].PageContent)
	assert.Equal(t, "A seaside villa with gardens.", chunks[1].PageContent)
}

func TestLoadFailures(t *testing.T) {
	loader, err := NewLoader()
	require.NoError(t, err)

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), &core.Document{
			Id: 1, Name: "missing.txt", Path: "/nonexistent/missing.txt", Type: core.DocTypeTXT,
		})
		assert.ErrorIs(t, err, core.ErrLoadFailed)
	})

	t.Run("unknown type", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "a.bin", "data")
		_, err := loader.Load(context.Background(), &core.Document{
			Id: 1, Name: "a.bin", Path: path, Type: core.DocType("bin"),
		})
		assert.ErrorIs(t, err, core.ErrLoadFailed)
	})

	t.Run("malformed csv", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "empty.csv", "only_header\n")
		_, err := loader.Load(context.Background(), &core.Document{
			Id: 1, Name: "empty.csv", Path: path, Type: core.DocTypeCSV,
		})
		assert.ErrorIs(t, err, core.ErrLoadFailed)
	})
}
