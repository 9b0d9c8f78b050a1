package server

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/localdnspro/localdnspro/internal/config"
	"github.com/localdnspro/localdnspro/internal/querylog"
	"github.com/localdnspro/localdnspro/internal/querypipeline"
)

// Runner owns the UDP listener's and log worker's lifecycle: start both,
// block until ctx is cancelled, then drain the log worker after the
// listener has stopped accepting new packets.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a new server runner with the given logger.
func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// Run starts the UDP listener bound to cfg.Host:cfg.Port using handler, and
// blocks until ctx is cancelled. Once the listener has stopped, it closes
// logWorker and waits for it to drain before returning.
func (r *Runner) Run(ctx context.Context, cfg config.Config, handler *querypipeline.Handler, logWorker *querylog.Worker) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	r.logStartup(cfg, addr)

	logDone := make(chan struct{})
	go func() {
		logWorker.Run(ctx)
		close(logDone)
	}()

	udp := &UDPServer{Logger: r.logger, Handler: handler, WorkersPerSocket: cfg.WorkerPool}
	runErr := udp.Run(ctx, addr)

	logWorker.Close()
	<-logDone

	return runErr
}

func (r *Runner) logStartup(cfg config.Config, addr string) {
	if r.logger != nil {
		r.logger.Info("dns listening", "addr", addr, "db", cfg.DBPath)
	}
}
