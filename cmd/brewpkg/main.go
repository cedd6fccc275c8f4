package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantmind-br/brewpkg/internal/cmd"
	"github.com/quantmind-br/brewpkg/internal/config"
	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/logging"
	"github.com/quantmind-br/brewpkg/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return core.ExitGeneral
	}

	ui.InitColors(cfg.Logging.Color)
	log := logging.NewLogger(logging.Config{
		Level:   cfg.Logging.Level,
		LogFile: cfg.Paths.LogFile,
		Color:   cfg.Logging.Color,
	})

	rootCmd := cmd.NewRootCmd(cfg, log, version)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("command failed")
		if ctx.Err() != nil {
			return core.ExitInterrupted
		}
		return cmd.ExitCode(err)
	}
	return core.ExitSuccess
}

// loadConfig reads BREWPKG_CONFIG when set, otherwise the default locations
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("BREWPKG_CONFIG"); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
