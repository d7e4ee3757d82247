package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"CuratorHub/internal/app"
	"CuratorHub/internal/config"
	"CuratorHub/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cliApp := &cli.App{
		Name:    "curatorhub",
		Usage:   "content curation service: submit links, auto-enrich, browse",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the development HTTP server",
				Action: runServe,
			},
			{
				Name:   "seed",
				Usage:  "Load the initial article set and admin user",
				Action: runSeed,
			},
			{
				Name:   "inspect",
				Usage:  "Print store counts",
				Action: runInspect,
			},
			{
				Name:   "purge",
				Usage:  "Permanently delete every trashed article",
				Action: runPurge,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildApp() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func runServe(*cli.Context) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func runSeed(c *cli.Context) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	return seed(c.Context, application.Library())
}

func runInspect(c *cli.Context) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	active, err := application.Library().Active(c.Context)
	if err != nil {
		return err
	}
	trashed, err := application.Library().Trash(c.Context)
	if err != nil {
		return err
	}

	fmt.Printf("active articles: %d\n", len(active))
	fmt.Printf("trashed articles: %d\n", len(trashed))
	return nil
}

func runPurge(c *cli.Context) error {
	application, err := buildApp()
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Library().EmptyTrash(c.Context)
}
