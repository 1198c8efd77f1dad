package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/gallery/internal/app"
	"github.com/llehouerou/gallery/internal/bridge"
	"github.com/llehouerou/gallery/internal/config"
	"github.com/llehouerou/gallery/internal/icons"
	"github.com/llehouerou/gallery/internal/log"
	"github.com/llehouerou/gallery/internal/metrics"
	"github.com/llehouerou/gallery/internal/mpris"
	"github.com/llehouerou/gallery/internal/notify"
	"github.com/llehouerou/gallery/internal/state"
	"github.com/llehouerou/gallery/internal/stderr"
	"github.com/llehouerou/gallery/internal/ui/imageview"
)

// positionRetention is how long an untouched saved position is kept.
const positionRetention = 90 * 24 * time.Hour

func main() {
	if err := run(); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("Error: %v\n", err))
		stderr.Stop()
		os.Exit(1)
	}
	stderr.Stop()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := openLog(cfg.Log.File)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Configure(log.Config{Level: cfg.Log.Level, Output: logFile})
	logger := log.WithComponent("main")

	// Audio backends write to fd 2, which would corrupt the screen.
	if err := stderr.Start(log.WithComponent("stderr")); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}

	icons.Init(cfg.Icons)

	store, err := state.Open()
	if err != nil {
		return err
	}
	defer store.Close()
	if n, err := store.PrunePositions(time.Now().Add(-positionRetention)); err != nil {
		logger.Warn().Err(err).Msg("prune positions")
	} else if n > 0 {
		logger.Info().Int64("count", n).Msg("pruned stale positions")
	}

	b := bridge.New(bridge.Options{})
	defer b.Close()

	var folder string
	if len(os.Args) > 1 {
		folder = os.Args[1]
	}
	m, err := app.New(app.Deps{
		Config: cfg,
		State:  store,
		Bridge: b,
		Folder: folder,
		Images: imageview.Supported(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.HasMetricsListener() {
		g.Go(func() error {
			if err := metrics.Serve(gctx, cfg.Metrics.Listen); err != nil {
				logger.Warn().Err(err).Str("addr", cfg.Metrics.Listen).Msg("metrics listener stopped")
			}
			return nil
		})
	}

	if adapter, err := mpris.New(b, m.Navigator()); err != nil {
		logger.Warn().Err(err).Msg("mpris unavailable")
	} else {
		defer adapter.Close()
	}

	if n, err := notify.New(); err != nil {
		logger.Debug().Err(err).Msg("notifications unavailable")
	} else {
		announcer := notify.NewAnnouncer(n)
		sub := b.Subscribe()
		g.Go(func() error {
			announcer.Run(gctx, sub)
			announcer.Clear()
			return nil
		})
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	m.Attach(p.Send)

	final, runErr := p.Run()
	if fm, ok := final.(app.Model); ok {
		fm.Close()
	}

	cancel()
	_ = g.Wait()
	return runErr
}

// openLog opens path for appending, or the log file in the XDG state dir.
func openLog(path string) (*os.File, error) {
	if path == "" {
		var err error
		path, err = xdg.StateFile(filepath.Join("gallery", "gallery.log"))
		if err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
