package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/okian/leaderview/internal/adapters/remote"
	"github.com/okian/leaderview/internal/adapters/tui"
	"github.com/okian/leaderview/internal/config"
	"github.com/okian/leaderview/internal/domain/share"
	"github.com/okian/leaderview/internal/view"
	"github.com/okian/leaderview/pkg/logger"
)

const logFilePermission = 0600

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// The terminal belongs to the program; logs go to LEADERVIEW_TUI_LOG when set.
	var out io.Writer = io.Discard
	if path := os.Getenv("LEADERVIEW_TUI_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := logger.Init(logger.WithWriter(out)); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := logger.Init(logger.WithWriter(out), logger.WithFormat(cfg.LogFormat)); err != nil {
		return err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}

	encoder, err := share.NewEncoder(share.WithCacheSize(cfg.QRCacheSize))
	if err != nil {
		return err
	}
	client := remote.New(cfg.BackendURL, cfg.MilestonesURL, remote.WithTimeout(cfg.UpstreamTimeout()))

	model := tui.New(ctx, client, encoder, view.Options{
		FrontendURL: cfg.FrontendURL,
		FenceStale:  cfg.FenceStaleResponses,
	}, logger.Get().Named("tui"))

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
