// Package metrics provides Prometheus metrics for the playback core.
// Labels are bounded enums; media ids never appear as label values.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionTransitionsTotal counts playback session state transitions.
	SessionTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_session_transitions_total",
		Help: "Total number of playback session state transitions, by source and target state.",
	}, []string{"from", "to"})

	// ActiveSessions tracks sessions currently holding the visible/audible slot.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gallery_active_sessions",
		Help: "Current number of playback sessions in the Active state.",
	})

	// StaleEventsTotal counts events discarded by identity or liveness checks.
	StaleEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_stale_events_total",
		Help: "Total number of discarded stale events, by source (tick, end, command, async).",
	}, []string{"source"})

	// SeekFailuresTotal counts seeks that failed or timed out.
	SeekFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_seek_failures_total",
		Help: "Total number of seeks that failed or timed out, by reason.",
	}, []string{"reason"})

	// BridgeRegistrationsTotal counts external playback registrations by kind.
	BridgeRegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_bridge_registrations_total",
		Help: "Total number of players registered with the external playback bridge, by media kind.",
	}, []string{"kind"})

	// BridgeCommandsTotal counts remote commands by type and outcome.
	BridgeCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gallery_bridge_commands_total",
		Help: "Total number of remote transport commands, by command and outcome (delivered, direct, dropped).",
	}, []string{"command", "outcome"})
)

// Serve exposes the default registry on addr until ctx is canceled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
