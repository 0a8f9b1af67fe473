package main

import (
	"errors"
	"flag"
	"os"

	"github.com/idilsaglam/taskz/internal/cli"
	"github.com/idilsaglam/taskz/internal/config"
	"github.com/idilsaglam/taskz/internal/logging"
	"github.com/idilsaglam/taskz/internal/ui"
)

func main() {
	// Root flags (apply to every command)
	rf, args, err := cli.ParseRoot(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(cli.ExitOK)
		}
		os.Exit(cli.ExitUsage)
	}

	cfg, err := config.Load(rf.Config)
	if err != nil {
		os.Exit(cli.Fatal(ui.NewConsole(os.Stdout, os.Stderr, "mono", false), "load config", err))
	}
	if rf.Theme != "" {
		cfg.Theme = rf.Theme
	}

	logOpts := logging.DefaultOptions()
	logOpts.Level = cfg.LogLevel
	if rf.Debug {
		logOpts.Level = "debug"
	}
	logger := logging.New(os.Stderr, logOpts)
	logger.Debug("config", "source", cfg.Source, "data_dir", cfg.DataDir)

	// Hand the remaining args to the CLI runner.
	os.Exit(cli.Run(args, cli.Options{
		Config:  cfg,
		Logger:  logger,
		Console: ui.NewConsole(os.Stdout, os.Stderr, cfg.Theme, rf.NoColor),
	}))
}
