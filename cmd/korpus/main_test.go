package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "-l", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "verbose")
	})
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	reporter := newProgressReporter(&buf)

	reporter.Start("docs/guide.md")
	reporter.Loaded(12)
	reporter.Embedded(12)
	reporter.Finish(12)

	output := buf.String()
	assert.Contains(t, output, "docs/guide.md")
	assert.Contains(t, output, "12 chunks")
	assert.Contains(t, output, "12 vectors")
	assert.Contains(t, output, "12 chunks indexed")
}

func TestCommandArgumentValidation(t *testing.T) {
	// Wire the real actions but with arguments that fail before any
	// knowledge base is opened.
	app := &cli.App{
		Name: "korpus",
		Commands: []*cli.Command{
			{Name: "index", Action: indexCommand},
			{Name: "query", Action: queryCommand},
			{Name: "load", Action: loadCommand},
			{Name: "delete", Action: deleteCommand},
		},
	}

	t.Run("index requires a path", func(t *testing.T) {
		err := app.Run([]string{"korpus", "index"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path")
	})

	t.Run("query requires text", func(t *testing.T) {
		err := app.Run([]string{"korpus", "query"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query text")
	})

	t.Run("load requires a path", func(t *testing.T) {
		err := app.Run([]string{"korpus", "load"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path")
	})

	t.Run("delete requires a path", func(t *testing.T) {
		err := app.Run([]string{"korpus", "delete"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path")
	})
}

func TestIndexCommandFlags(t *testing.T) {
	app := &cli.App{
		Name: "korpus",
		Commands: []*cli.Command{
			{
				Name:   "index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "workers", Value: 2},
					&cli.IntFlag{Name: "max-retries", Value: 3},
				},
			},
		},
	}

	cmd := app.Commands[0]
	flagDefault := func(name string) int {
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
				return f.Value
			}
		}
		t.Fatalf("flag %s not found", name)
		return 0
	}

	assert.Equal(t, 2, flagDefault("workers"))
	assert.Equal(t, 3, flagDefault("max-retries"))
}

func TestQueryFlagParsing(t *testing.T) {
	var gotTopK int
	var gotThreshold float64
	var topKSet bool

	app := &cli.App{
		Name: "korpus",
		Commands: []*cli.Command{
			{
				Name: "query",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "top-k", Aliases: []string{"k"}},
					&cli.Float64Flag{Name: "threshold", Value: -1},
				},
				Action: func(c *cli.Context) error {
					gotTopK = c.Int("top-k")
					gotThreshold = c.Float64("threshold")
					topKSet = c.IsSet("top-k")
					return nil
				},
			},
		},
	}

	require.NoError(t, app.Run([]string{"korpus", "query", "-k", "7", "--threshold", "0.5", "text"}))
	assert.Equal(t, 7, gotTopK)
	assert.InDelta(t, 0.5, gotThreshold, 1e-9)
	assert.True(t, topKSet)
}
