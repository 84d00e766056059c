package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/costiera/concierge/core"
)

func TestDocTypeFromPath(t *testing.T) {
	testCases := []struct {
		path     string
		expected core.DocType
	}{
		{"/data/villas.csv", core.DocTypeCSV},
		{"/data/brochure.PDF", core.DocTypePDF},
		{"/data/prices.xlsx", core.DocTypeXLSX},
		{"/data/page.html", core.DocTypeHTML},
		{"/data/page.htm", core.DocTypeHTML},
		{"/data/notes.txt", core.DocTypeTXT},
		{"/data/terms.docx", core.DocTypeDOCX},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.expected, docTypeFromPath(tc.path))
		})
	}

	t.Run("unknown extension fails validation", func(t *testing.T) {
		docType := docTypeFromPath("/data/archive.tar")
		assert.Error(t, core.ValidateDocType(docType))
	})
}

func TestIngestCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "concierge",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Required: true,
					},
				),
			},
		},
	}

	t.Run("db is required", func(t *testing.T) {
		err := app.Run([]string{"concierge", "ingest"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("host has OpenAI default", func(t *testing.T) {
		var hostFlag *cli.StringFlag
		for _, flag := range app.Commands[0].Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "host" {
				hostFlag = f
				break
			}
		}
		require.NotNil(t, hostFlag)
		assert.Equal(t, "https://api.openai.com/v1", hostFlag.Value)
	})

	t.Run("api-token defaults to none", func(t *testing.T) {
		var tokenFlag *cli.StringFlag
		for _, flag := range app.Commands[0].Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "api-token" {
				tokenFlag = f
				break
			}
		}
		require.NotNil(t, tokenFlag)
		assert.Equal(t, "none", tokenFlag.Value)
	})
}

func TestChatFlags(t *testing.T) {
	flags := chatFlags()

	names := make(map[string]bool)
	for _, flag := range flags {
		for _, name := range flag.Names() {
			names[name] = true
		}
	}

	assert.True(t, names["db"])
	assert.True(t, names["redis"])
	assert.True(t, names["visitor"])
	assert.True(t, names["host"])
	assert.True(t, names["embedding-model"])
	assert.True(t, names["generator-model"])

	t.Run("redis is optional", func(t *testing.T) {
		for _, flag := range flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "redis" {
				assert.False(t, f.Required)
				assert.Empty(t, f.Value)
				return
			}
		}
		t.Fatal("redis flag not found")
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
