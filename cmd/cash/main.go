package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/oarkflow/log"
	"github.com/oarkflow/xid"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/cash/interpreter"
	"github.com/oarkflow/cash/pkg/config"
	"github.com/oarkflow/cash/pkg/events"
	"github.com/oarkflow/cash/pkg/executor"
	"github.com/oarkflow/cash/pkg/storage"
)

func main() {
	app := &cli.App{
		Name:      "cash",
		Usage:     "A small interactive command language",
		ArgsUsage: "[script]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file (BCL, YAML, or JSON)",
				EnvVars: []string{"CASH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "Path to the line editor history file",
			},
			&cli.StringFlag{
				Name:  "history-db",
				Usage: "Path to a SQLite database recording every executed statement",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Disable the history file and the statement database",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("history-file") {
		cfg.HistoryFile = c.String("history-file")
	}
	if c.IsSet("history-db") {
		cfg.HistoryDB = c.String("history-db")
	}
	if c.Bool("no-history") {
		cfg.HistoryFile = ""
		cfg.HistoryDB = ""
	}
	return cfg, cfg.Validate()
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger := interpreter.NewLogger(cfg.LogLevel, os.Stderr)
	sessionID := xid.New().String()

	exec, err := executor.New(executor.WithLogger(logger), executor.WithCacheSize(cfg.CommandCacheSize))
	if err != nil {
		return err
	}
	defer exec.Close()

	bus := events.NewBus()
	if cfg.HistoryDB != "" {
		store, err := storage.New(storage.Config{Path: config.ExpandPath(cfg.HistoryDB)})
		if err != nil {
			return err
		}
		defer store.Close()
		bus.Subscribe(events.EventStatementExecuted, store.HandleEvent)
		bus.Subscribe(events.EventStatementFailed, store.HandleEvent)
	}

	in := interpreter.New(
		interpreter.WithLogger(logger),
		interpreter.WithExecutor(exec),
		interpreter.WithRuntimeConfig(interpreter.RuntimeConfig{MaxCallDepth: cfg.MaxCallDepth}),
	)
	session := interpreter.NewSession(in,
		interpreter.WithSessionID(sessionID),
		interpreter.WithEventBus(bus),
	)
	for name, raw := range cfg.Globals {
		val, err := interpreter.FromGo(raw)
		if err != nil {
			return fmt.Errorf("global %q: %w", name, err)
		}
		session.Define(name, val)
	}
	logger.Debug().Str("session", sessionID).Int("globals", len(cfg.Globals)).Msg("session started")

	if c.NArg() > 0 {
		return runScript(session, c.Args().First(), logger)
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return runRepl(session, cfg, logger)
	}
	return runPlain(session, os.Stdin)
}

func runScript(session *interpreter.Session, path string, logger *log.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	_ = session.Run(ctx, file)
	if session.HadError() {
		logger.Debug().Str("script", path).Msg("script finished with errors")
		return cli.Exit("", 1)
	}
	return nil
}
