// Package control implements the control surface (CS): the write path that
// a management layer calls into to mutate records and settings, keeping the
// record cache and upstream forwarder in sync with what was just persisted.
package control

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/localdnspro/localdnspro/internal/cache"
	"github.com/localdnspro/localdnspro/internal/store"
	"github.com/localdnspro/localdnspro/internal/upstream"
)

// Surface is the control-plane entry point: every write goes through the
// store first, then propagates to whichever in-memory component needs to
// see it. A propagation failure is logged by the caller but never rolls
// back the store write — the write already succeeded.
type Surface struct {
	Store    *store.DB
	Cache    *cache.Cache
	Upstream *upstream.Forwarder

	startTime time.Time
}

// New builds a Surface. startTime is recorded for Health()'s uptime field.
func New(db *store.DB, c *cache.Cache, fwd *upstream.Forwarder) *Surface {
	return &Surface{Store: db, Cache: c, Upstream: fwd, startTime: time.Now()}
}

// reloadCache rebuilds the cache snapshot from the current record set.
func (s *Surface) reloadCache() error {
	records, err := s.Store.ListRecords()
	if err != nil {
		return err
	}
	s.Cache.Reload(records)
	return nil
}

// CreateRecord validates and persists a new record, then reloads the cache.
func (s *Surface) CreateRecord(r store.Record) (store.Record, error) {
	created, err := s.Store.CreateRecord(r)
	if err != nil {
		return store.Record{}, err
	}
	return created, s.reloadCache()
}

// UpdateRecord persists a change to an existing record, then reloads the
// cache.
func (s *Surface) UpdateRecord(r store.Record) error {
	if _, err := s.Store.UpdateRecord(r); err != nil {
		return err
	}
	return s.reloadCache()
}

// DeleteRecord removes a record, then reloads the cache.
func (s *Surface) DeleteRecord(id int64) error {
	if err := s.Store.DeleteRecord(id); err != nil {
		return err
	}
	return s.reloadCache()
}

// RecordsList returns every record.
func (s *Surface) RecordsList() ([]store.Record, error) {
	return s.Store.ListRecords()
}

// LogsRecent returns the most recent query log entries.
func (s *Surface) LogsRecent(limit int) ([]store.QueryLog, error) {
	return s.Store.RecentLogs(limit)
}

// SettingsList returns every setting.
func (s *Surface) SettingsList() ([]store.Setting, error) {
	return s.Store.ListSettings()
}

// upstreamSettingKeys are the settings that require reconfiguring the live
// upstream forwarder when changed.
var upstreamSettingKeys = map[string]bool{
	store.SettingUpstreamPrimary:   true,
	store.SettingUpstreamSecondary: true,
	store.SettingUpstreamTimeoutMs: true,
}

// UpdateSetting persists a setting and, if it affects upstream forwarding,
// reconfigures the live Forwarder from the full current setting set.
func (s *Surface) UpdateSetting(key, value string) error {
	if err := s.Store.SetSetting(key, value); err != nil {
		return err
	}
	if !upstreamSettingKeys[key] || s.Upstream == nil {
		return nil
	}
	return s.reconfigureUpstream()
}

func (s *Surface) reconfigureUpstream() error {
	settings, err := s.Store.ListSettings()
	if err != nil {
		return err
	}
	lookup := make(map[string]string, len(settings))
	for _, st := range settings {
		lookup[st.Key] = st.Value
	}

	cfg := upstream.Config{
		Primary:   upstream.ParseAddr(lookup[store.SettingUpstreamPrimary]),
		Secondary: upstream.ParseAddr(lookup[store.SettingUpstreamSecondary]),
		Timeout:   upstreamTimeout(lookup[store.SettingUpstreamTimeoutMs]),
	}
	s.Upstream.Reconfigure(cfg)
	return nil
}

func upstreamTimeout(raw string) time.Duration {
	ms, err := parsePositiveInt(raw)
	if err != nil {
		ms = 2000
	}
	return time.Duration(ms) * time.Millisecond
}

// Health reports process uptime plus a point-in-time system and storage
// snapshot, for an operator or external management layer to poll.
type Health struct {
	UptimeSeconds  int64
	NumCPU         int
	CPUPercent     float64
	MemUsedPercent float64
	MemUsedMB      float64
	MemTotalMB     float64
	StoreHealthy   bool
}

// Health samples CPU/memory over a short window and checks store
// connectivity.
func (s *Surface) Health() Health {
	h := Health{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		NumCPU:        runtime.NumCPU(),
	}

	if pct, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(pct) > 0 {
		h.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.MemUsedPercent = vm.UsedPercent
		h.MemUsedMB = float64(vm.Used) / 1024 / 1024
		h.MemTotalMB = float64(vm.Total) / 1024 / 1024
	}

	h.StoreHealthy = s.Store.Health() == nil
	return h
}
