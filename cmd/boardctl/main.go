package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rpggio/buildboard/internal/domain/project"
	"github.com/rpggio/buildboard/internal/projectindex"
	"github.com/rpggio/buildboard/internal/sqlite"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "boardctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "boardctl",
		Usage: "Administer the buildboard project store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the SQLite database",
				EnvVars: []string{"BUILDBOARD_DB_PATH"},
				Value:   "buildboard.db",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import projects from a YAML file",
				Action: importCommand,
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML file with a top-level projects list",
						Required: true,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Search a user's projects",
				Action: searchCommand,
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Words that must all match"},
					&cli.StringFlag{Name: "status", Usage: "Status filter (case-insensitive)"},
					&cli.StringFlag{Name: "client", Usage: "Client filter (case-insensitive)"},
					&cli.BoolFlag{Name: "json", Usage: "Print matches as JSON"},
				},
			},
			{
				Name:   "add-key",
				Usage:  "Register an API key for a user",
				Action: addKeyCommand,
				Flags: []cli.Flag{
					userFlag(),
					&cli.StringFlag{Name: "token", Usage: "Bearer token to register", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Free-text note stored with the key"},
				},
			},
		},
	}
}

func userFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "user",
		Aliases:  []string{"u"},
		Usage:    "User that owns the projects",
		Required: true,
	}
}

func setupLogger(c *cli.Context) error {
	var level slog.Level
	switch strings.ToLower(c.String("log-level")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.String("log-level"))
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level})))
	return nil
}

func openDB(c *cli.Context) (*sqlite.DB, error) {
	db, err := sqlite.New(c.String("db"))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

type importFile struct {
	Projects []project.Project `yaml:"projects"`
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()
	userID := c.String("user")

	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}
	var file importFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := project.NewService(sqlite.NewProjectRepository(db), nil, slog.Default())

	var imported, skipped int
	for _, p := range file.Projects {
		_, err := svc.Create(ctx, userID, project.CreateRequest{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			ClientID:    p.ClientID,
			Status:      p.Status,
		})
		switch {
		case errors.Is(err, project.ErrDuplicateID):
			slog.Warn("skipping existing project", "id", p.ID)
			skipped++
		case err != nil:
			return fmt.Errorf("importing project %q: %w", p.ID, err)
		default:
			imported++
		}
	}

	fmt.Fprintf(c.App.Writer, "imported %d projects, skipped %d\n", imported, skipped)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	snapshot, err := sqlite.NewProjectRepository(db).List(ctx, c.String("user"))
	if err != nil {
		return err
	}
	idx := projectindex.Build(snapshot)
	slog.Debug("index built", "projects", idx.Len(), "tokens", idx.TokenCount())

	matches := idx.Filter(projectindex.Filter{
		Query:    c.String("query"),
		Status:   c.String("status"),
		ClientID: c.String("client"),
	})

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		if matches == nil {
			matches = []project.Project{}
		}
		return enc.Encode(matches)
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCLIENT\tSTATUS")
	for _, p := range matches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.ClientID, p.Status)
	}
	return w.Flush()
}

func addKeyCommand(c *cli.Context) error {
	db, err := openDB(c)
	if err != nil {
		return err
	}
	defer db.Close()

	keys := sqlite.NewAPIKeyRepository(db)
	if err := keys.Add(context.Background(), c.String("token"), c.String("user"), c.String("description")); err != nil {
		return fmt.Errorf("adding api key: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "key registered for %s\n", c.String("user"))
	return nil
}
