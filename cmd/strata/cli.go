package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/quarrydev/strata/internal/config"
	"github.com/quarrydev/strata/internal/errors"
	"github.com/quarrydev/strata/internal/geology"
	"github.com/quarrydev/strata/internal/ops"
	"github.com/quarrydev/strata/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "strata",
		Usage:   "Borehole geology summarizer",
		Version: Version,
		Commands: []*cli.Command{
			summarizeCmd(db, cfg),
			listCmd(db),
			fetchCmd(db),
			deleteCmd(db),
			purgeCmd(db),
			exportCmd(db, cfg),
			reportCmd(db),
			legendCmd(),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// summarizeCmd creates the summarize command.
func summarizeCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "summarize",
		Usage: "Summarize borehole layer records into geological units (reads CSV from --path or stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "CSV file with layer records"},
			&cli.StringFlag{Name: "boreholes", Aliases: []string{"b"}, Usage: "Comma-separated borehole IDs to restrict the run to"},
			&cli.BoolFlag{Name: "save", Aliases: []string{"s"}, Usage: "Archive the run for later fetch/export"},
			&cli.StringFlag{Name: "project", Usage: "Project ID for the archived run (default: from the first record)"},
			&cli.StringFlag{Name: "source", Usage: "Provenance note for the archived run (default: the CSV path)"},
			&cli.BoolFlag{Name: "table", Usage: "Print the summary table as CSV instead of JSON"},
			&cli.BoolFlag{Name: "records", Usage: "Print the normalized layer records as CSV instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SummarizeInput{
				Path:      c.String("path"),
				Boreholes: splitList(c.String("boreholes")),
				Save:      c.Bool("save"),
				ProjectID: c.String("project"),
				Source:    c.String("source"),
			}

			// No --path → read CSV from stdin
			if input.Path == "" {
				if !stdinHasData() {
					return outputError(errors.NewInvalidRequest("CSV input must be provided via --path or piped stdin"))
				}
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				rows, err := ops.ReadRows(strings.NewReader(text))
				if err != nil {
					return outputError(err)
				}
				input.Rows = rows
			}

			output, err := ops.Summarize(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("records") {
				if err := ops.WriteRecordsCSV(os.Stdout, output.Result.Records); err != nil {
					return outputError(err)
				}
				return nil
			}
			if c.Bool("table") {
				if err := ops.WriteSummaryCSV(os.Stdout, output.Result.Summaries); err != nil {
					return outputError(err)
				}
				return nil
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List archived runs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "project", Usage: "Filter by project ID"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListRuns(db, ops.ListRunsInput{
				ProjectID: c.String("project"),
				Limit:     c.Int("limit"),
				Offset:    c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch an archived run with its unit summaries",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted runs"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("run id is required"))
			}

			run, err := ops.FetchRun(db, c.Args().First(), c.Bool("include-deleted"))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(run)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete an archived run",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("run id is required"))
			}

			id := c.Args().First()
			if err := ops.DeleteRun(db, id); err != nil {
				return outputError(err)
			}

			return outputJSON(map[string]any{"deleted": true, "id": id})
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted runs",
		Action: func(c *cli.Context) error {
			output, err := ops.Purge(db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export an archived run to a CSV summary table or Markdown report",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.strata/exports/run-<id>-<timestamp>.<ext>)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "csv", Usage: "Export format: csv|md"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("run id is required"))
			}

			output, err := ops.Export(db, cfg, ops.ExportInput{
				RunID:  c.Args().First(),
				Path:   c.String("path"),
				Format: ops.ExportFormat(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// reportCmd creates the report command.
func reportCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Print the Markdown report for an archived run",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted runs"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("run id is required"))
			}

			run, err := ops.FetchRun(db, c.Args().First(), c.Bool("include-deleted"))
			if err != nil {
				return outputError(err)
			}

			fmt.Print(ops.BuildReport(run))
			return nil
		},
	}
}

// legendCmd creates the legend command.
func legendCmd() *cli.Command {
	return &cli.Command{
		Name:  "legend",
		Usage: "Print the USCS soil classification legend",
		Action: func(c *cli.Context) error {
			return outputJSON(geology.Legend())
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web viewer for archived runs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind to"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			if err := web.Run(srv); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if geoErr, ok := err.(*errors.GeoError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", geoErr.Code, geoErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// splitList splits a comma-separated string into trimmed non-empty items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
