package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/plane/cmd/plane/internal/demo"
	"github.com/go-drift/plane/pkg/config"
)

var metricsAddr string

func init() {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive sticky-note board",
		Long: `Run a board of notes in the terminal.

Click to focus and select, drag to move, drag the bottom-right corner to
resize. Right-drag pans the board and ctrl+wheel zooms. Tab and the arrow
keys move focus, ctrl+a selects all, and ctrl+c, ctrl+x and ctrl+v copy,
cut and paste notes. ctrl+q quits.

Logs go to log.file from the config and are discarded when it is unset.
The config file is watched and reloaded while the demo runs.`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
	demoCmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address (overrides metrics.addr)")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if metricsAddr != "" {
		cfg.Metrics.Addr = metricsAddr
	}

	level := new(slog.LevelVar)
	level.Set(cfg.LogLevel())
	var out io.Writer = io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.EnableMouse()
	screen.EnablePaste()

	scene, err := demo.New(demo.Options{Logger: logger, Registerer: reg, Config: cfg})
	if err != nil {
		screen.Fini()
		return err
	}
	defer scene.Close()
	host := demo.NewHost(screen, scene, logger, level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	events := make(chan tcell.Event, 16)
	reloads := make(chan *config.Config, 1)

	g.Go(func() error {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return nil
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		defer screen.Fini()
		defer cancel()
		return host.Run(ctx, events, reloads)
	})

	if path != "" {
		g.Go(func() error {
			return config.Watch(ctx, path, config.DefaultDebounce, func(next *config.Config, err error) {
				if err != nil {
					logger.Warn("config reload failed", "path", path, "err", err)
					return
				}
				select {
				case reloads <- next:
				case <-ctx.Done():
				}
			})
		})
	}

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", srv.Addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
