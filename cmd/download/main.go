package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/moznion/go-optional"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/rxtech-lab/index-history/internal/config"
	"github.com/rxtech-lab/index-history/internal/logger"
	"github.com/rxtech-lab/index-history/internal/version"
	"github.com/rxtech-lab/index-history/pkg/marketdata"
	"github.com/rxtech-lab/index-history/pkg/marketdata/preview"
	"github.com/rxtech-lab/index-history/pkg/marketdata/writer"
)

// stringOverride returns the flag's value only when the user set it.
func stringOverride(cmd *cli.Command, name string) optional.Option[string] {
	if !cmd.IsSet(name) {
		return optional.None[string]()
	}

	return optional.Some(cmd.String(name))
}

func overridesFromFlags(cmd *cli.Command) config.Overrides {
	previewRows := optional.None[int]()
	if cmd.IsSet("preview") {
		previewRows = optional.Some(int(cmd.Int("preview")))
	}

	return config.Overrides{
		Ticker:    stringOverride(cmd, "ticker"),
		StartDate: stringOverride(cmd, "start"),
		EndDate:   stringOverride(cmd, "end"),
		Interval:  stringOverride(cmd, "interval"),
		Provider:  stringOverride(cmd, "provider"),
		Writer:    stringOverride(cmd, "writer"),
		Output:    stringOverride(cmd, "output"),
		Preview:   previewRows,
		LogLevel:  stringOverride(cmd, "log-level"),
	}
}

// downloadAction loads the configuration, downloads the table, writes it and
// prints the preview to stdout. Logs and progress go to stderr.
func downloadAction(stdout io.Writer, stderr io.Writer) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := config.Load(cmd.String("config"))
		if err != nil {
			return err
		}

		cfg.Apply(overridesFromFlags(cmd))

		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.NewLoggerWithLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		defer func() { _ = log.Sync() }()

		log.Debug("Effective configuration", zap.String("config", cfg.String()))

		clientConfig, err := cfg.ClientConfig(log)
		if err != nil {
			return err
		}

		params, err := cfg.DownloadParams()
		if err != nil {
			return err
		}

		progress := newDownloadProgress(stderr, cmd.Bool("quiet"))

		client, err := marketdata.NewClient(clientConfig, progress.Update)
		if err != nil {
			return err
		}

		result, err := client.Download(ctx, params)

		progress.Finish()

		if err != nil {
			log.Error("Download failed", zap.Error(err))

			return err
		}

		if cfg.Preview == 0 {
			return nil
		}

		return preview.Render(stdout, result.Table, cfg.Preview)
	}
}

func providersAction(stdout io.Writer) cli.ActionFunc {
	return func(_ context.Context, _ *cli.Command) error {
		for _, name := range marketdata.GetSupportedProviders() {
			info, err := marketdata.GetProviderInfo(name)
			if err != nil {
				return err
			}

			auth := ""
			if info.RequiresAuth {
				auth = " (requires API key)"
			}

			if _, err := fmt.Fprintf(stdout, "%-12s %s%s\n", info.Name, info.DisplayName, auth); err != nil {
				return err
			}
		}

		return nil
	}
}

func schemaAction(stdout io.Writer) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 1 {
			return fmt.Errorf("usage: download schema <provider>")
		}

		schema, err := marketdata.GetDownloadConfigSchema(cmd.Args().First())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(stdout, schema)

		return err
	}
}

func newApp(stdout io.Writer, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "Download historical index prices to a local file",
		Version:   version.GetVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "ticker",
				Aliases: []string{"t"},
				Usage:   "Ticker symbol",
				Value:   config.DefaultTicker,
			},
			&cli.StringFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Inclusive start date in `YYYY-MM-DD` format (or RFC3339)",
				Value:   config.DefaultStartDate,
			},
			&cli.StringFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "Exclusive end date in `YYYY-MM-DD` format (or RFC3339)",
				Value:   config.DefaultEndDate,
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval (1m, 5m, 1h, 1d, 1wk, 1mo, ...)",
				Value:   "1d",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   "Data provider (see the providers command)",
				Value:   "yahoo",
			},
			&cli.StringFlag{
				Name:    "writer",
				Aliases: []string{"w"},
				Usage:   fmt.Sprintf("Output format (%s)", writer.JoinWriterTypes(", ")),
				Value:   string(writer.WriterCSV),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, overwritten if it exists",
				Value:   config.DefaultOutput,
			},
			&cli.IntFlag{
				Name:    "preview",
				Aliases: []string{"n"},
				Usage:   "Number of leading rows to print, 0 to disable",
				Value:   preview.DefaultRows,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars(config.EnvConfigPath),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
				Value: config.DefaultLogLevel,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Do not draw the progress bar",
			},
		},
		Action: downloadAction(stdout, stderr),
		Commands: []*cli.Command{
			{
				Name:   "providers",
				Usage:  "List supported data providers",
				Action: providersAction(stdout),
			},
			{
				Name:      "schema",
				Usage:     "Print the JSON schema of a provider's download config",
				ArgsUsage: "<provider>",
				Action:    schemaAction(stdout),
			},
			{
				Name:  "version",
				Usage: "Print the downloader version",
				Action: func(_ context.Context, _ *cli.Command) error {
					_, err := fmt.Fprintln(stdout, version.GetVersion())

					return err
				},
			},
		},
	}
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
