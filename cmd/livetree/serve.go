package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livetree/internal/config"
	errs "github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/devtools"
	"github.com/vango-dev/livetree/pkg/treedoc"
)

func serveCmd(configDir *string) *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Replay a tree document and serve the inspector",
		Long: `Replay the steps of a tree document in a loop and serve the
devtools inspector:

  GET /tree        current HTML
  GET /tree.json   current tree as JSON
  GET /mutations   websocket stream of host mutations
  GET /metrics     Prometheus metrics (when enabled)

Examples:
  livetree serve todo.yaml
  livetree serve todo.yaml --addr=:8080 --interval=500ms`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errs.New("E050").WithDetail("serve takes exactly one document path")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configDir)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Devtools.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if interval <= 0 {
				return errs.New("E050").WithDetail("--interval must be positive")
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg, args[0], interval)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from livetree.json)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Time between steps")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, path string, interval time.Duration) error {
	td, err := treedoc.ParseFile(path)
	if err != nil {
		return err
	}
	if len(td.Steps) == 0 {
		return errs.New("E031").WithDetail("document has no steps")
	}

	logger := cfg.Logger(os.Stderr)
	p := newPlayer(cfg, td, logger)

	opts := []devtools.Option{
		devtools.WithLogger(logger),
		devtools.WithBuffer(cfg.Devtools.Buffer),
	}
	if p.metrics != nil {
		opts = append(opts,
			devtools.WithClientTracker(p.metrics),
			devtools.WithMetrics(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})),
		)
	}
	inspector := devtools.New(p.doc, p.root, opts...)

	srv := &http.Server{
		Addr:              cfg.Devtools.Addr,
		Handler:           inspector,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		_ = p.queue.Run(ctx)
	}()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		step := 0
		p.request(step)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				step = (step + 1) % len(p.steps)
				p.request(step)
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	out := cmd.OutOrStdout()
	success(out, "Serving %s on http://%s", path, cfg.Devtools.Addr)
	info(out, "%d steps every %s", len(td.Steps), interval)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	info(out, "Shutting down...")
	inspector.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
