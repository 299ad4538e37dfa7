package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fintrack/db/migrations"
	"fintrack/internal/config"
	"fintrack/internal/finance"
	"fintrack/internal/logger"
	"fintrack/internal/marketdata"
	"fintrack/internal/ratelimit"
	"fintrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// app bundles what every command needs.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, store: st}, nil
}

func (a *app) close() {
	a.store.Close()
}

func (a *app) processor() (*finance.Processor, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return finance.NewProcessor(a.store, a.log, finance.WithLocation(loc)), nil
}

// openStore connects to PostgreSQL, retrying while it starts, and applies
// migrations when enabled. The memory driver starts empty with the default
// categories.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Store, error) {
	if cfg.Database.Driver == "memory" {
		log.Warn().Msg("Using the in-memory store, data will not survive a restart")
		st := store.NewMemory()
		if _, err := seedCategories(ctx, st); err != nil {
			return nil, err
		}
		return st, nil
	}

	url := cfg.Database.URL()
	st, err := store.Connect(ctx, url, store.ConnectOptions{
		MaxRetries:    cfg.Database.MaxRetries,
		RetryInterval: cfg.Database.RetryInterval,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after retries: %w", err)
	}

	if cfg.Database.Migrations {
		if err := migrateUp(url, log); err != nil {
			st.Close()
			return nil, err
		}
	}
	return st, nil
}

func migrateUp(url string, log zerolog.Logger) error {
	db, err := migrations.Open(url)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	log.Info().Msg("Running database migrations...")
	if err := migrations.Up(db); err != nil {
		return err
	}
	if version, dirty, err := migrations.Version(db); err == nil {
		event := log.Info()
		if dirty {
			event = log.Warn()
		}
		event.Uint("version", version).Bool("dirty", dirty).Msg("Database migrations completed")
	}
	return nil
}

// seedCategories inserts the default categories into an empty store and
// reports how many were created.
func seedCategories(ctx context.Context, st store.Store) (int, error) {
	count, err := st.CountCategories(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	err = st.WithTx(ctx, func(tx store.Store) error {
		for _, c := range finance.DefaultCategories {
			if _, err := tx.CreateCategory(ctx, c); err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(finance.DefaultCategories), nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	cfg, log := a.cfg, a.log

	if log.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	processor, err := a.processor()
	if err != nil {
		return err
	}

	counters := ratelimit.NewMemoryStore()
	window := cfg.RateLimit.Window
	quotes := marketdata.NewClient(cfg.MarketData.BaseURL, cfg.MarketData.Timeout, log)

	srv := NewServer(ServerOptions{
		Store:     a.store,
		Processor: processor,
		Syncer:    finance.NewPriceSyncer(a.store, quotes, cfg.MarketData.SyncConcurrency, log),
		Quotes:    quotes,
		Limiters: Limiters{
			Read:  ratelimit.New("read", counters, window, cfg.RateLimit.ReadMax),
			Write: ratelimit.New("write", counters, window, cfg.RateLimit.WriteMax),
			API:   ratelimit.New("api", counters, window, cfg.RateLimit.APIMax),
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counters.RunSweeper(gctx, cfg.RateLimit.SweepInterval, log)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down|version]",
	Short:     "Apply, roll back or inspect schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down", "version"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Database.Driver != "postgres" {
			return fmt.Errorf("migrate requires the postgres driver, got %q", cfg.Database.Driver)
		}
		log := logger.New(cfg.Log.Level, cfg.Log.Format)

		url := cfg.Database.URL()
		if args[0] == "up" {
			return migrateUp(url, log)
		}

		db, err := migrations.Open(url)
		if err != nil {
			return fmt.Errorf("failed to open migration connection: %w", err)
		}
		defer db.Close()

		if args[0] == "down" {
			if err := migrations.Down(db); err != nil {
				return err
			}
			log.Info().Msg("Rolled back one migration")
		}
		version, dirty, err := migrations.Version(db)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version %d dirty=%t\n", version, dirty)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default categories into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		created, err := seedCategories(cmd.Context(), a.store)
		if err != nil {
			return err
		}
		if created == 0 {
			a.log.Info().Msg("Categories already present, nothing to seed")
			return nil
		}
		a.log.Info().Int("created", created).Msg("Seeded default categories")
		return nil
	},
}

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Recurring transaction maintenance",
}

var recurringProcessCmd = &cobra.Command{
	Use:   "process",
	Short: "Create due instances of recurring templates and print the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		processor, err := a.processor()
		if err != nil {
			return err
		}
		result := processor.ProcessAll(cmd.Context())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
		if result.TotalErrors > 0 {
			return fmt.Errorf("%d recurring templates failed", result.TotalErrors)
		}
		return nil
	},
}

var exportFlags struct {
	year  int
	month int
	out   string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the CSV export of a year or month",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := finance.ValidateYearMonth(exportFlags.year, exportFlags.month); err != nil {
			return err
		}
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		period := finance.YearPeriod(exportFlags.year)
		if exportFlags.month != 0 {
			period = finance.MonthPeriod(exportFlags.year, time.Month(exportFlags.month))
		}
		txs, err := finance.NewSummarizer(a.store).Transactions(cmd.Context(), period)
		if err != nil {
			return err
		}

		out := strings.TrimSpace(exportFlags.out)
		if out == "" {
			out = finance.ExportFilename(exportFlags.year, exportFlags.month)
		}
		var w io.Writer = cmd.OutOrStdout()
		if out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := finance.WriteCSV(w, txs); err != nil {
			return err
		}
		a.log.Info().Int("rows", len(txs)).Str("file", out).Msg("Export written")
		return nil
	},
}

func init() {
	recurringCmd.AddCommand(recurringProcessCmd)

	exportCmd.Flags().IntVar(&exportFlags.year, "year", 0, "4-digit year (required)")
	exportCmd.Flags().IntVar(&exportFlags.month, "month", 0, "month 1-12, omit for the whole year")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", `output file, "-" for stdout (default export-YEAR[-MM].csv)`)
	_ = exportCmd.MarkFlagRequired("year")
}
