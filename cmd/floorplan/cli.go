package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/floorplan/internal/agent"
	"github.com/hpungsan/floorplan/internal/config"
	"github.com/hpungsan/floorplan/internal/db"
	"github.com/hpungsan/floorplan/internal/errors"
	"github.com/hpungsan/floorplan/internal/floorplan"
	"github.com/hpungsan/floorplan/internal/ops"
	"github.com/hpungsan/floorplan/internal/web"
)

// maxStdinBytes bounds a piped model stream for apply.
const maxStdinBytes = 4 << 20

// ApplyOutput is the result of the apply command.
type ApplyOutput struct {
	ID      string           `json:"id"`
	Results []agent.Result   `json:"results"`
	Text    string           `json:"text,omitempty"`
	Counts  floorplan.Counts `json:"counts"`
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(database *sql.DB, cfg *config.Config, baseDir string, logger *zap.Logger) *cli.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &cli.App{
		Name:    "floorplan",
		Usage:   "Floorplan editor engine",
		Version: Version,
		Commands: []*cli.Command{
			newCmd(database, cfg, logger),
			listCmd(database),
			showCmd(database),
			contextCmd(database),
			exportCmd(database, cfg, baseDir, logger),
			importCmd(database, cfg, logger),
			deleteCmd(database),
			purgeCmd(database),
			applyCmd(database, cfg, logger),
			serveCmd(database, cfg, logger),
			commandsCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newCmd creates the new command.
func newCmd(database *sql.DB, cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Create and save an empty floorplan",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Floorplan name (default: Untitled Floorplan)"},
		},
		Action: func(c *cli.Context) error {
			doc := ops.NewDocument(c.String("name"), cfg)
			rec, err := db.Save(database, doc)
			if err != nil {
				return outputError(err)
			}
			logger.Debug("floorplan created", zap.String("floorplan_id", rec.ID))
			return outputJSON(rec.Summary())
		},
	}
}

// listCmd creates the list command.
func listCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List saved floorplans, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Filter by name (case-insensitive)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			items, total, err := db.List(database, db.ListOptions{
				Name:   c.String("name"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"items":  items,
				"total":  total,
				"limit":  c.Int("limit"),
				"offset": c.Int("offset"),
			})
		},
	}
}

// showCmd creates the show command.
func showCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a saved floorplan document",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			doc, err := loadArg(database, c)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(doc)
		},
	}
}

// contextCmd creates the context command.
func contextCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "context",
		Usage:     "Print the agent context summary of a saved floorplan",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			doc, err := loadArg(database, c)
			if err != nil {
				return outputError(err)
			}
			_, err = io.WriteString(os.Stdout, agent.Summarize(doc))
			return err
		},
	}
}

// exportCmd creates the export command.
func exportCmd(database *sql.DB, cfg *config.Config, baseDir string, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a saved floorplan to a JSON file",
		ArgsUsage: "[--path <file>] <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.floorplan/exports/<name>-<timestamp>.json)"},
		},
		Action: func(c *cli.Context) error {
			doc, err := loadArg(database, c)
			if err != nil {
				return outputError(err)
			}
			editor := ops.NewEditor(doc, cfg, logger)
			output, err := ops.Export(c.Context, editor, ops.DefaultExportsDir(baseDir), ops.ExportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(database *sql.DB, cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a floorplan JSON file and save it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
		},
		Action: func(c *cli.Context) error {
			editor := ops.NewEditor(nil, cfg, logger)
			output, err := ops.Import(editor, ops.ImportInput{Path: c.String("path")})
			if err != nil {
				return outputError(err)
			}
			if _, err := db.Save(database, editor.Snapshot()); err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a saved floorplan",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := idArg(c)
			if err != nil {
				return outputError(err)
			}
			if err := db.SoftDelete(database, id); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"id": id, "deleted": true})
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(database *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted floorplans",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			cutoff := time.Now()
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				cutoff = cutoff.AddDate(0, 0, -days)
			}

			n, err := db.Purge(database, cutoff)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"purged": n})
		},
	}
}

// applyCmd creates the apply command.
func applyCmd(database *sql.DB, cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Apply a model data stream from stdin to a saved floorplan and save it",
		ArgsUsage: "[--dry-run] <id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Execute without saving"},
		},
		Action: func(c *cli.Context) error {
			doc, err := loadArg(database, c)
			if err != nil {
				return outputError(err)
			}
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("a model stream must be piped via stdin"))
			}
			stream, err := readStdin(maxStdinBytes)
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}

			editor := ops.NewEditor(doc, cfg, logger)
			bridge := agent.NewBridge(editor, logger)
			results := append(bridge.Apply(stream), bridge.Finish()...)

			live := editor.Snapshot()
			if !c.Bool("dry-run") {
				if _, err := db.Save(database, live); err != nil {
					return outputError(err)
				}
			}
			return outputJSON(ApplyOutput{
				ID:      live.ID,
				Results: results,
				Text:    bridge.Text(),
				Counts:  live.Counts(),
			})
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(database *sql.DB, cfg *config.Config, logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Run the web editor",
		ArgsUsage: "[--bind <addr>] [--port <n>] [id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8787, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			var doc *floorplan.Floorplan
			if c.NArg() > 0 {
				loaded, err := loadArg(database, c)
				if err != nil {
					return outputError(err)
				}
				doc = loaded
			}

			srv, err := web.NewServer(web.Deps{
				Editor:  ops.NewEditor(doc, cfg, logger),
				DB:      database,
				Config:  cfg,
				Logger:  logger,
				Version: Version,
			}, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv, logger)
		},
	}
}

// commandsCmd creates the commands command.
func commandsCmd() *cli.Command {
	return &cli.Command{
		Name:  "commands",
		Usage: "Print the agent command surface with argument schemas",
		Action: func(c *cli.Context) error {
			commands, err := agent.Commands()
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return outputJSON(commands)
		},
	}
}

// Helper functions

// idArg returns the single positional id. Flags after the id are not parsed
// by the CLI, so any trailing argument is rejected instead of ignored.
func idArg(c *cli.Context) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	if c.NArg() > 1 {
		extra := c.Args().Get(1)
		if strings.HasPrefix(extra, "-") {
			return "", errors.NewInvalidRequest(fmt.Sprintf("flag %s must come before the id: floorplan %s %s %s", extra, c.Command.Name, extra, id))
		}
		return "", errors.NewInvalidRequest(fmt.Sprintf("unexpected argument %q", extra))
	}
	return id, nil
}

// loadArg loads the floorplan named by the positional id.
func loadArg(database *sql.DB, c *cli.Context) (*floorplan.Floorplan, error) {
	id, err := idArg(c)
	if err != nil {
		return nil, err
	}
	return db.Load(database, id)
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := errors.As(err); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
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

// readStdin reads stdin, failing if it holds more than limit bytes.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return string(data), nil
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}
