package store

import "time"

// Record is a single DNS answer rule: a domain pattern (exact name or a
// leftmost "%"-prefixed wildcard) mapped to an A, AAAA, or CNAME answer.
type Record struct {
	ID            int64
	DomainPattern string
	RecordType    string // "A", "AAAA", or "CNAME"
	Content       string
	TTL           int
	Active        bool
}

// Result types recorded for a handled query, stored in QueryLog.ResultType.
const (
	ResultLocal     = "LOCAL"
	ResultForwarded = "FORWARDED"
	ResultNXDomain  = "NXDOMAIN"
	ResultError     = "ERROR"
)

// QueryLog is one entry in the query history.
type QueryLog struct {
	ID         int64
	QueryName  string
	QType      string
	ResultType string
	DurationMs int64
	Timestamp  time.Time
}

// Setting is a single key/value row in the settings table.
type Setting struct {
	Key   string
	Value string
}

// Settings keys, per the external schema.
const (
	SettingUpstreamPrimary   = "upstream_primary"
	SettingUpstreamSecondary = "upstream_secondary"
	SettingUpstreamTimeoutMs = "upstream_timeout_ms"
	SettingLogRetentionDays  = "log_retention_days"
)

// DefaultSettings are seeded into a freshly migrated database.
var DefaultSettings = map[string]string{
	SettingUpstreamPrimary:   "8.8.8.8:53",
	SettingUpstreamSecondary: "1.1.1.1:53",
	SettingUpstreamTimeoutMs: "2000",
	SettingLogRetentionDays:  "7",
}

// DefaultLogRetentionDays is used whenever log_retention_days is missing or
// fails to parse as a positive integer.
const DefaultLogRetentionDays = 7
