package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/localdnspro/localdnspro/internal/cache"
	"github.com/localdnspro/localdnspro/internal/config"
	"github.com/localdnspro/localdnspro/internal/control"
	"github.com/localdnspro/localdnspro/internal/logging"
	"github.com/localdnspro/localdnspro/internal/querylog"
	"github.com/localdnspro/localdnspro/internal/querypipeline"
	"github.com/localdnspro/localdnspro/internal/server"
	"github.com/localdnspro/localdnspro/internal/store"
	"github.com/localdnspro/localdnspro/internal/upstream"
)

// healthLogInterval is how often the control surface's Health snapshot is
// logged at debug level, giving an operator tailing logs a cheap pulse
// check without a separate management endpoint.
const healthLogInterval = 5 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	dbPath   string
	host     string
	port     int
	workers  int
	jsonLogs bool
	debug    bool
}

func parseFlags() cliFlags {
	var f cliFlags
	flag.StringVar(&f.dbPath, "db", "", "Path to SQLite database file")
	flag.StringVar(&f.host, "host", "", "Override DNS server bind host")
	flag.IntVar(&f.port, "port", 0, "Override DNS server bind port")
	flag.IntVar(&f.workers, "workers", 0, "Worker goroutines per UDP socket (0 means package default)")
	flag.BoolVar(&f.jsonLogs, "json-logs", false, "Enable JSON structured logging")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	flag.Parse()
	return f
}

func applyFlags(cfg config.Config, f cliFlags) config.Config {
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if f.host != "" {
		cfg.Host = f.host
	}
	if f.port != 0 {
		cfg.Port = f.port
	}
	if f.workers > 0 {
		cfg.WorkerPool = f.workers
	}
	if f.jsonLogs {
		cfg.JSONLogs = true
	}
	if f.debug {
		cfg.LogLevel = "DEBUG"
	}
	return cfg
}

func run() error {
	flags := parseFlags()
	cfg := applyFlags(config.ApplyEnv(config.Default()), flags)

	logger := logging.Configure(logging.Config{
		Level:            cfg.LogLevel,
		Structured:       cfg.JSONLogs,
		StructuredFormat: "json",
	})

	startupID := uuid.New().String()[:8]
	logger.Info("localdnspro starting",
		"startup_id", startupID,
		"database", cfg.DBPath,
		"host", cfg.Host,
		"port", cfg.Port,
	)

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	records, err := db.ListRecords()
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}
	recordCache := cache.New(records)

	fwd, err := buildForwarder(db)
	if err != nil {
		return fmt.Errorf("load upstream settings: %w", err)
	}

	logWorker := querylog.New(db, logger, querylog.DefaultCapacity)
	handler := &querypipeline.Handler{
		Logger:   logger,
		Cache:    recordCache,
		Upstream: fwd,
		Log:      logWorker,
	}
	surface := control.New(db, recordCache, fwd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go logHealthPeriodically(ctx, logger, surface)

	runner := server.NewRunner(logger)
	if err := runner.Run(ctx, cfg, handler, logWorker); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	return nil
}

func buildForwarder(db *store.DB) (*upstream.Forwarder, error) {
	settings, err := db.ListSettings()
	if err != nil {
		return nil, err
	}
	lookup := make(map[string]string, len(settings))
	for _, s := range settings {
		lookup[s.Key] = s.Value
	}
	return upstream.New(upstream.Config{
		Primary:   upstream.ParseAddr(lookup[store.SettingUpstreamPrimary]),
		Secondary: upstream.ParseAddr(lookup[store.SettingUpstreamSecondary]),
		Timeout:   parseTimeoutMs(lookup[store.SettingUpstreamTimeoutMs]),
	}), nil
}

func parseTimeoutMs(raw string) time.Duration {
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 2 * time.Second
	}
	return time.Duration(ms) * time.Millisecond
}

func logHealthPeriodically(ctx context.Context, logger *slog.Logger, surface *control.Surface) {
	ticker := time.NewTicker(healthLogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h := surface.Health()
			logger.DebugContext(ctx, "health",
				"uptime_s", h.UptimeSeconds,
				"cpu_percent", h.CPUPercent,
				"mem_used_percent", h.MemUsedPercent,
				"store_healthy", h.StoreHealthy,
			)
		}
	}
}
