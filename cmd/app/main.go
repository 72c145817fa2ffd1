package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/secondbrain/internal"
	"github.com/starford/secondbrain/internal/linkdetect"
	"github.com/starford/secondbrain/internal/noteservice"
	pkgconfig "github.com/starford/secondbrain/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// runWith loads the config and hands it to one of the internal entry points.
func runWith(entry func(context.Context, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := []internal.Option{
			internal.WithConfig(cfg),
		}

		if err := entry(ctx, opts...); err != nil {
			return fmt.Errorf("app run error: %w", err)
		}
		return nil
	}
}

// detectLinks prints the links found in the arguments, or in stdin when
// there are none.
func detectLinks(_ context.Context, cmd *cli.Command) error {
	text := strings.Join(cmd.Args().Slice(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	links := linkdetect.Detect(text)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(noteservice.LinkPreview{Links: links, Previews: linkdetect.RenderAll(links)})
}

func main() {
	cmd := &cli.Command{
		Name:   "secondbrain",
		Usage:  "Personal notes with tag filtering, search and YouTube/Twitter link previews",
		Action: runWith(internal.Run),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API and event stream",
				Action: runWith(internal.Run),
			},
			{
				Name:   "mcp",
				Usage:  "Serve note tools to MCP clients over stdio",
				Action: runWith(internal.RunMCP),
			},
			{
				Name:   "browse",
				Usage:  "Browse notes in the terminal",
				Action: runWith(internal.RunBrowse),
			},
			{
				Name:      "links",
				Usage:     "Detect YouTube and Twitter/X links in text",
				ArgsUsage: "[text...]",
				Action:    detectLinks,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
