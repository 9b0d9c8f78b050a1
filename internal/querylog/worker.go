// Package querylog implements the log worker (LW): it decouples the query
// path from durable log writes and performs retention sweeps, grounded on
// the bounded-channel, drop-on-full pattern used throughout this codebase's
// server package and the ticker-driven refresh loop used for periodic
// background work.
package querylog

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/localdnspro/localdnspro/internal/store"
)

// DefaultCapacity is the recommended channel size for a short query burst.
const DefaultCapacity = 1024

// RetentionInterval is how often the retention sweep runs.
const RetentionInterval = 3600 * time.Second

// Message is one query outcome queued for durable persistence.
type Message struct {
	QueryName  string
	QType      string
	ResultType string
	DurationMs int64
}

// Worker owns the bounded channel, the single persisting consumer, and the
// periodic retention sweep.
type Worker struct {
	store  *store.DB
	logger *slog.Logger
	ch     chan Message

	dropped        atomic.Uint64
	appendFailures atomic.Uint64
}

// New builds a Worker. capacity <= 0 uses DefaultCapacity.
func New(db *store.DB, logger *slog.Logger, capacity int) *Worker {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:  db,
		logger: logger,
		ch:     make(chan Message, capacity),
	}
}

// Send enqueues a message without blocking. If the channel is full, the
// message is dropped and the drop counter is incremented.
func (w *Worker) Send(m Message) {
	select {
	case w.ch <- m:
	default:
		w.dropped.Add(1)
	}
}

// Dropped returns the number of messages dropped for a full channel.
func (w *Worker) Dropped() uint64 { return w.dropped.Load() }

// AppendFailures returns the number of persist failures encountered.
func (w *Worker) AppendFailures() uint64 { return w.appendFailures.Load() }

// Close closes the send side. Run drains any buffered messages and returns
// once the channel is empty and closed.
func (w *Worker) Close() { close(w.ch) }

// Run is the single consumer loop: it persists messages in the order sent
// and runs the retention sweep on a 3600-second ticker. It returns once the
// channel is closed and drained.
func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(RetentionInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-w.ch:
			if !ok {
				return
			}
			w.persist(ctx, msg)
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) persist(ctx context.Context, msg Message) {
	err := w.store.AppendLog(store.QueryLog{
		QueryName:  msg.QueryName,
		QType:      msg.QType,
		ResultType: msg.ResultType,
		DurationMs: msg.DurationMs,
	})
	if err != nil {
		w.appendFailures.Add(1)
		w.logger.ErrorContext(ctx, "append query log failed", "error", err)
	}
}

// sweep reads log_retention_days, computes the cutoff, and invokes
// CleanupLogs. An invalid or missing setting falls back to the default
// retention with a diagnostic log line.
func (w *Worker) sweep(ctx context.Context) {
	days := w.retentionDays(ctx)
	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)

	n, err := w.store.CleanupLogs(cutoff)
	if err != nil {
		w.logger.ErrorContext(ctx, "log retention sweep failed", "error", err)
		return
	}
	w.logger.DebugContext(ctx, "log retention sweep complete", "deleted", n, "retention_days", days)
}

func (w *Worker) retentionDays(ctx context.Context) int {
	raw, err := w.store.GetSetting(store.SettingLogRetentionDays)
	if err != nil {
		w.logger.WarnContext(ctx, "log_retention_days missing, using default",
			"default_days", store.DefaultLogRetentionDays)
		return store.DefaultLogRetentionDays
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		w.logger.WarnContext(ctx, "log_retention_days invalid, using default",
			"value", raw, "default_days", store.DefaultLogRetentionDays)
		return store.DefaultLogRetentionDays
	}
	return days
}
