package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/leaderview/internal/devbackend"
	"github.com/okian/leaderview/pkg/logger"
)

func main() {
	defaults := devbackend.DefaultConfig()
	var (
		addr     = flag.String("addr", defaults.Addr, "Listen address")
		rows     = flag.Int("rows", defaults.Rows, "Rows generated per milestone")
		share    = flag.Float64("share", defaults.ShareRatio, "Fraction of rows with a tx_id")
		nonArray = flag.String("non-array", "", "Comma separated milestone ids answered with a JSON object")
		latency  = flag.Duration("latency", defaults.MaxLatency, "Upper bound of the random delay per leaderboard request")
		verbose  = flag.Bool("verbose", false, "Enable debug logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		devbackend.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	cfg := defaults
	cfg.Addr = *addr
	cfg.Rows = *rows
	cfg.ShareRatio = *share
	cfg.MaxLatency = *latency
	for _, id := range strings.Split(*nonArray, ",") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.NonArray = append(cfg.NonArray, id)
		}
	}

	srv, err := devbackend.NewServer(cfg)
	if err != nil {
		logger.Get().Error(context.Background(), "invalid configuration", logger.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Get().Error(ctx, "dev backend stopped", logger.Error(err))
		os.Exit(1)
	}
}
