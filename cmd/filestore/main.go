// Command filestore is an admin CLI for files stored as database rows.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/dmitrijs2005/filestore/internal/config"
	"github.com/dmitrijs2005/filestore/internal/db"
	"github.com/dmitrijs2005/filestore/internal/files"
	"github.com/dmitrijs2005/filestore/internal/logging"
)

func newLogger() logging.Logger {
	w := os.Stderr
	var h slog.Handler
	if isatty.IsTerminal(w.Fd()) {
		h = tint.NewHandler(w, &tint.Options{TimeFormat: time.Kitchen})
	} else {
		h = slog.NewJSONHandler(w, nil)
	}
	return logging.NewSlogLogger(slog.New(h))
}

// newService loads config, applies flag overrides and opens the pool.
// The returned func closes the pool.
func newService(c *cli.Context, log logging.Logger) (*files.Service, func() error, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if v := c.String("dsn"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := c.Int64("max-size"); v != 0 {
		cfg.MaxFileSize = v
	}

	m, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN, log)
	if err != nil {
		return nil, nil, err
	}
	return files.NewService(m.Files(), cfg.MaxFileSize, log), m.Close, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

func main() {
	log := newLogger()

	app := &cli.App{
		Name:  "filestore",
		Usage: "manage files stored as database rows",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Usage: "database DSN (overrides environment)"},
			&cli.Int64Flag{Name: "max-size", Usage: "maximum file size in bytes"},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "import a local file and print its id",
				ArgsUsage: "<path>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: import <path>", 2)
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.AddFromPath(c.Context, c.Args().Get(0))
					if err != nil {
						return err
					}
					fmt.Println(f.ID())
					return nil
				},
			},
			{
				Name:      "export",
				Usage:     "write a stored file's contents to a local path",
				ArgsUsage: "<id> <path>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: export <id> <path>", 2)
					}
					id, err := parseID(c.Args().Get(0))
					if err != nil {
						return err
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.FindByID(c.Context, id)
					if err != nil {
						return err
					}
					return f.ExportToPath(c.Args().Get(1))
				},
			},
			{
				Name:      "cat",
				Usage:     "print a stored file's contents to stdout",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: cat <id>", 2)
					}
					id, err := parseID(c.Args().Get(0))
					if err != nil {
						return err
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.FindByID(c.Context, id)
					if err != nil {
						return err
					}
					_, err = os.Stdout.Write(f.Blob())
					return err
				},
			},
			{
				Name:      "stat",
				Usage:     "print a stored file's attributes",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: stat <id>", 2)
					}
					id, err := parseID(c.Args().Get(0))
					if err != nil {
						return err
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.FindByID(c.Context, id)
					if err != nil {
						return err
					}
					fmt.Printf("id:\t%d\nname:\t%s\nsize:\t%d\ncreated:\t%s\nupdated:\t%s\n",
						f.ID(), f.Name(), f.Size(),
						f.CreatedAt().Format(time.RFC3339), f.UpdatedAt().Format(time.RFC3339))
					return nil
				},
			},
			{
				Name:      "append",
				Usage:     "append bytes to a stored file",
				ArgsUsage: "<id> <data>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: append <id> <data>", 2)
					}
					id, err := parseID(c.Args().Get(0))
					if err != nil {
						return err
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.FindByID(c.Context, id)
					if err != nil {
						return err
					}
					return f.Append(c.Context, []byte(c.Args().Get(1)))
				},
			},
			{
				Name:      "rename",
				Usage:     "rename a stored file",
				ArgsUsage: "<id> <name>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return cli.Exit("usage: rename <id> <name>", 2)
					}
					id, err := parseID(c.Args().Get(0))
					if err != nil {
						return err
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.FindByID(c.Context, id)
					if err != nil {
						return err
					}
					return f.Rename(c.Context, c.Args().Get(1))
				},
			},
			{
				Name:      "rm",
				Usage:     "delete a stored file",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("usage: rm <id>", 2)
					}
					id, err := parseID(c.Args().Get(0))
					if err != nil {
						return err
					}
					svc, closeFn, err := newService(c, log)
					if err != nil {
						return err
					}
					defer closeFn()
					f, err := svc.FindByID(c.Context, id)
					if err != nil {
						return err
					}
					return f.Delete(c.Context)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(context.Background(), err.Error())
		os.Exit(1)
	}
}
