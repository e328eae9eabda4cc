package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jiaming2012/options-symbol-finder/src/auth"
	"github.com/jiaming2012/options-symbol-finder/src/cmd/options_symbol_finder/run"
	"github.com/jiaming2012/options-symbol-finder/src/config"
	"github.com/jiaming2012/options-symbol-finder/src/logger"
	"github.com/jiaming2012/options-symbol-finder/src/models"
	"github.com/jiaming2012/options-symbol-finder/src/telemetry"
	"github.com/jiaming2012/options-symbol-finder/src/utils"
)

var rootCmd = &cobra.Command{
	Use:   "options_symbol_finder",
	Short: "Find option contract symbols around the money for the nearest qualifying expiration",
}

var findCmd = &cobra.Command{
	Use:   "find --symbols SPY,QQQ --minDTE 2",
	Short: "Select the call and put symbols for each underlying",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, shutdown := setup(cmd)
		defer shutdown()

		symbolsFlag, err := cmd.Flags().GetString("symbols")
		if err != nil {
			log.Fatalf("error getting symbols: %v", err)
		}

		minDTEFlag, err := cmd.Flags().GetString("minDTE")
		if err != nil {
			log.Fatalf("error getting minDTE: %v", err)
		}

		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			log.Fatalf("error getting format: %v", err)
		}

		spreadsheetID, err := cmd.Flags().GetString("spreadsheetId")
		if err != nil {
			log.Fatalf("error getting spreadsheetId: %v", err)
		}

		symbols := models.NewStockSymbols(utils.ParseSymbolList(symbolsFlag))
		if len(symbols) == 0 {
			symbols = models.NewStockSymbols(cfg.Symbols)
		}

		minDTE, err := utils.ParseMinDaysToExpiration(minDTEFlag, cfg.MinDaysToExpiration)
		if err != nil {
			log.Fatalf("invalid minDTE: %v", err)
		}

		if format == "" {
			format = cfg.Output.Format
		}

		if outDir == "" {
			outDir = cfg.Output.OutDir
		}

		if spreadsheetID == "" {
			spreadsheetID = cfg.Output.SpreadsheetID
		}

		var export run.BatchExporter
		if spreadsheetID != "" {
			export, err = run.NewSheetsExporter(ctx, spreadsheetID, cfg.Output.SheetName)
			if err != nil {
				log.Fatalf("failed to create sheets exporter: %v", err)
			}
		}

		brokerage, err := run.NewBrokerage(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to create brokerage client: %v", err)
		}

		_, err = run.Find(ctx, run.NewFinder(cfg, brokerage), run.FindArgs{
			Symbols: symbols,
			MinDTE:  minDTE,
			Format:  format,
			OutDir:  outDir,
			Export:  export,
		}, os.Stdout)

		if errors.Is(err, run.AllSymbolsFailedErr) {
			shutdown()
			log.Errorf("Error: %v", err)
			os.Exit(1)
		} else if err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

var expirationsCmd = &cobra.Command{
	Use:   "expirations SYMBOL",
	Short: "List the expiration chain for a symbol",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, shutdown := setup(cmd)
		defer shutdown()

		minDTEFlag, err := cmd.Flags().GetString("minDTE")
		if err != nil {
			log.Fatalf("error getting minDTE: %v", err)
		}

		minDTE, err := utils.ParseMinDaysToExpiration(minDTEFlag, cfg.MinDaysToExpiration)
		if err != nil {
			log.Fatalf("invalid minDTE: %v", err)
		}

		brokerage, err := run.NewBrokerage(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to create brokerage client: %v", err)
		}

		if err := run.ListExpirations(ctx, brokerage, models.NewStockSymbol(args[0]), minDTE, os.Stdout); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize with Schwab and store the token",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, shutdown := setup(cmd)
		defer shutdown()

		oauthConfig, err := run.NewSchwabOAuthConfig(cfg)
		if err != nil {
			log.Fatalf("failed to create oauth config: %v", err)
		}

		store, err := run.NewTokenStore(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to create token store: %v", err)
		}

		if _, err := auth.Login(ctx, oauthConfig, store, os.Stdout, utils.ReadLineFromStdin); err != nil {
			log.Fatalf("login failed: %v", err)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the option symbol api",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cfg, shutdown := setup(cmd)
		defer shutdown()

		brokerage, err := run.NewBrokerage(ctx, cfg)
		if err != nil {
			log.Fatalf("failed to create brokerage client: %v", err)
		}

		if err := run.Serve(ctx, cfg, run.NewFinder(cfg, brokerage)); err != nil {
			log.Errorf("Error: %v", err)
		}
	},
}

// setup loads the environment and config shared by every command. The
// returned shutdown flushes telemetry and releases the signal handler.
func setup(cmd *cobra.Command) (context.Context, *config.Config, func()) {
	envDir, err := cmd.Flags().GetString("env-dir")
	if err != nil {
		log.Fatalf("error getting env-dir: %v", err)
	}

	if err := utils.InitEnvironmentVariables(envDir); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		log.Fatalf("error getting log-level: %v", err)
	}

	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		log.Fatalf("error getting log-format: %v", err)
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}

	if err := logger.Setup(os.Stderr, logLevel, logFormat); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		log.Fatalf("error getting config: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	enableTelemetry, err := cmd.Flags().GetBool("telemetry")
	if err != nil {
		log.Fatalf("error getting telemetry: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	otelShutdown := func(context.Context) error { return nil }
	if enableTelemetry {
		otelShutdown, err = telemetry.Setup(ctx)
		if err != nil {
			log.Fatalf("failed to setup otel sdk: %v", err)
		}
	}

	done := false
	shutdown := func() {
		if done {
			return
		}
		done = true

		if err := otelShutdown(context.Background()); err != nil {
			log.Warnf("failed to shut down telemetry: %v", err)
		}
		stop()
	}

	return ctx, cfg, shutdown
}

func main() {
	rootCmd.PersistentFlags().String("config", "", "Path to a yaml config file.")
	rootCmd.PersistentFlags().String("env-dir", ".", "The directory holding the .env files.")
	rootCmd.PersistentFlags().String("log-level", "", "Log level, defaults to $LOG_LEVEL or info.")
	rootCmd.PersistentFlags().String("log-format", logger.FormatText, "Log format, text or json.")
	rootCmd.PersistentFlags().Bool("telemetry", false, "Export traces and metrics over OTLP.")

	findCmd.Flags().String("symbols", "", "Comma separated underlying symbols, defaults to the config.")
	findCmd.Flags().String("minDTE", "", "Minimum days to expiration, defaults to the config.")
	findCmd.Flags().String("outDir", "", "The directory to write a csv export to.")
	findCmd.Flags().String("format", "", "Output format, table or json.")
	findCmd.Flags().String("spreadsheetId", "", "A Google spreadsheet to append the selected contracts to.")

	expirationsCmd.Flags().String("minDTE", "", "Minimum days to expiration used to mark the selected entry.")

	rootCmd.AddCommand(findCmd, expirationsCmd, loginCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
