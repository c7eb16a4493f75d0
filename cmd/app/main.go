package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/spip2md/internal"
	pkgconfig "github.com/starford/spip2md/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(configPath, "spip2md", cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithClearOutput(cmd.Bool("clear")),
		internal.WithLanguages(cmd.StringSlice("lang")),
		internal.WithQuiet(cmd.Bool("quiet")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "spip2md",
		Usage:  "Export a SPIP site to a tree of Markdown files with front matter",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "spip2md.yaml",
				Value:       "spip2md.yaml",
				Sources:     cli.EnvVars("SPIP2MD_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Empty the output directory before exporting",
			},
			&cli.StringSliceFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "Export language, repeatable (overrides export.languages)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only print the final summary",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
