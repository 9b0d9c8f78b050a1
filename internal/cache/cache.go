// Package cache holds the in-memory record cache (RC): a snapshot of active
// records indexed for O(1)-amortized lookup, reloaded atomically from the
// persistent store.
package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/localdnspro/localdnspro/internal/store"
)

type exactKey struct {
	name string
	rtype string
}

type wildcardEntry struct {
	suffix string
	rtype  string
	record store.Record
}

// snapshot is an immutable index built from one list_records() call. Once
// built, it is never mutated; Reload swaps in a new one.
type snapshot struct {
	exact     map[exactKey]store.Record
	wildcards []wildcardEntry
}

func buildSnapshot(records []store.Record) *snapshot {
	s := &snapshot{exact: make(map[exactKey]store.Record)}

	for _, r := range records {
		if !r.Active {
			continue
		}
		if store.IsWildcard(r.DomainPattern) {
			suffix := strings.ToLower(strings.TrimPrefix(r.DomainPattern, "%."))
			s.wildcards = append(s.wildcards, wildcardEntry{suffix: suffix, rtype: r.RecordType, record: r})
			continue
		}
		k := exactKey{name: strings.ToLower(r.DomainPattern), rtype: r.RecordType}
		if existing, ok := s.exact[k]; !ok || r.ID < existing.ID {
			s.exact[k] = r
		}
	}

	sort.SliceStable(s.wildcards, func(i, j int) bool {
		li, lj := len(s.wildcards[i].suffix), len(s.wildcards[j].suffix)
		if li != lj {
			return li > lj
		}
		return s.wildcards[i].record.ID < s.wildcards[j].record.ID
	})

	return s
}

func (s *snapshot) lookup(qname, qtype string) (store.Record, bool) {
	qname = strings.ToLower(qname)
	if r, ok := s.exact[exactKey{name: qname, rtype: qtype}]; ok {
		return r, true
	}
	for _, w := range s.wildcards {
		if w.rtype != qtype {
			continue
		}
		if qname == w.suffix || strings.HasSuffix(qname, "."+w.suffix) {
			return w.record, true
		}
	}
	return store.Record{}, false
}

// Cache is the atomically-reloadable record cache. The zero value is not
// usable; construct with New.
type Cache struct {
	mu   sync.RWMutex
	snap *snapshot
}

// New builds a Cache from an initial record set.
func New(records []store.Record) *Cache {
	return &Cache{snap: buildSnapshot(records)}
}

// Lookup returns the winning active record for (qname, qtype), if any.
func (c *Cache) Lookup(qname, qtype string) (store.Record, bool) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	return snap.lookup(qname, qtype)
}

// Reload atomically replaces the cache's snapshot built from records. On
// success, readers immediately observe the new data; the previous snapshot
// is never torn (readers mid-lookup keep using their own pointer).
func (c *Cache) Reload(records []store.Record) {
	next := buildSnapshot(records)
	c.mu.Lock()
	c.snap = next
	c.mu.Unlock()
}
