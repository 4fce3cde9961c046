package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"crannies/internal/book"
	"crannies/internal/catalog"
	"crannies/internal/collection"
	"crannies/internal/config"
	"crannies/internal/events"
	"crannies/internal/logging"
	"crannies/internal/store"
	"crannies/internal/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every subcommand needs once the root pre-run has opened
// the store.
type app struct {
	configPath string
	driver     string
	dsn        string
	verbose    bool
	logFile    string

	cfg       config.Config
	logger    *zap.Logger
	kv        store.KV
	bus       *events.Bus
	books     *book.Store
	tracker   *collection.Tracker
	svc       *catalog.Service
	validator *validation.Validator
}

func newRootCmd(a *app) *cobra.Command {

	root := &cobra.Command{
		Use:   "crannies",
		Short: "Browse the book catalog and manage your collection",
		Long: `crannies keeps a catalog of built-in and custom books and a personal
collection of titles.

Run "crannies browse" for the interactive terminal browser.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.open,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", os.Getenv(config.EnvConfigFile), "Config file (toml or yaml)")
	flags.StringVar(&a.driver, "driver", "", "Store driver: memory, badger, sqlite or postgres")
	flags.StringVar(&a.dsn, "dsn", "", "SQLite path or Postgres DSN (badger: data directory)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.logFile, "log-file", "", "Write logs to this file instead of stderr")

	root.AddCommand(
		newSearchCmd(a),
		newGenresCmd(a),
		newSitesCmd(a),
		newBooksCmd(a),
		newCollectionCmd(a),
		newBrowseCmd(a),
	)
	return root
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	config.LoadEnvFiles()
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Store.Driver = a.driver
	}
	if a.dsn != "" {
		if cfg.Store.Driver == store.DriverBadger {
			cfg.Store.BadgerPath = a.dsn
		} else {
			cfg.Store.DSN = a.dsn
		}
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	switch {
	case a.logFile != "":
		a.logger, err = logging.ToFile(a.logFile, cfg.LogLevel)
	case cmd.Name() == "browse":
		// The browser owns the terminal.
		a.logger = zap.NewNop()
	default:
		a.logger, err = logging.New(cfg.LogLevel, cfg.IsDevelopment())
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.kv, err = store.Open(cmd.Context(), cfg.Store.Options())
	if err != nil {
		return err
	}
	a.logger.Debug("store opened", zap.String("driver", cfg.Store.Driver))

	a.bus = events.NewBus(a.logger)
	a.books = book.NewStore(a.kv, book.BuiltIn(), a.bus, a.logger)
	a.tracker = collection.NewTracker(a.kv, a.bus, a.logger)
	a.svc = catalog.NewService(a.books, a.tracker, a.logger)
	a.validator = validation.New()
	return nil
}

// close releases what open acquired. It runs whether or not the command
// succeeded.
func (a *app) close() error {
	if a.bus != nil {
		a.bus.Close()
	}
	var err error
	if a.kv != nil {
		err = a.kv.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	defer func() { _ = a.close() }()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
