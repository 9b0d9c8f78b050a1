package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(dir + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSeededSettings(t *testing.T) {
	db := openTestDB(t)

	settings, err := db.ListSettings()
	require.NoError(t, err)

	got := map[string]string{}
	for _, s := range settings {
		got[s.Key] = s.Value
	}
	assert.Equal(t, DefaultSettings, got)
}

func TestCreateRecordRoundTrip(t *testing.T) {
	db := openTestDB(t)

	r, err := db.CreateRecord(Record{
		DomainPattern: "host.local.test",
		RecordType:    "A",
		Content:       "10.0.0.1",
		TTL:           60,
		Active:        true,
	})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)

	got, err := db.GetRecord(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestCreateRecordValidation(t *testing.T) {
	db := openTestDB(t)

	cases := []struct {
		name string
		r    Record
	}{
		{"empty pattern", Record{DomainPattern: "", RecordType: "A", Content: "10.0.0.1", TTL: 60}},
		{"bad A content", Record{DomainPattern: "h.test", RecordType: "A", Content: "256.0.0.1", TTL: 60}},
		{"bad AAAA content", Record{DomainPattern: "h.test", RecordType: "AAAA", Content: "10.0.0.1", TTL: 60}},
		{"empty CNAME target", Record{DomainPattern: "h.test", RecordType: "CNAME", Content: "", TTL: 60}},
		{"ttl too high", Record{DomainPattern: "h.test", RecordType: "A", Content: "10.0.0.1", TTL: 86401}},
		{"negative ttl", Record{DomainPattern: "h.test", RecordType: "A", Content: "10.0.0.1", TTL: -1}},
		{"bad record type", Record{DomainPattern: "h.test", RecordType: "MX", Content: "10.0.0.1", TTL: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.CreateRecord(tc.r)
			require.Error(t, err)
			assert.True(t, IsInvalid(err))
		})
	}
}

func TestCreateRecordBoundaryTTLZeroAccepted(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateRecord(Record{DomainPattern: "h.test", RecordType: "A", Content: "10.0.0.1", TTL: 0})
	assert.NoError(t, err)
}

func TestUpdateRecordNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.UpdateRecord(Record{ID: 999, DomainPattern: "h.test", RecordType: "A", Content: "10.0.0.1", TTL: 60})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestDeleteRecordNotFound(t *testing.T) {
	db := openTestDB(t)
	err := db.DeleteRecord(999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListRecordsOrdersByID(t *testing.T) {
	db := openTestDB(t)
	a, err := db.CreateRecord(Record{DomainPattern: "a.test", RecordType: "A", Content: "10.0.0.1", TTL: 60})
	require.NoError(t, err)
	b, err := db.CreateRecord(Record{DomainPattern: "b.test", RecordType: "A", Content: "10.0.0.2", TTL: 60})
	require.NoError(t, err)

	records, err := db.ListRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, a.ID, records[0].ID)
	assert.Equal(t, b.ID, records[1].ID)
}

func TestAppendLogAndRecentLogs(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.AppendLog(QueryLog{QueryName: "a.test", QType: "A", ResultType: ResultLocal, DurationMs: 1}))
	require.NoError(t, db.AppendLog(QueryLog{QueryName: "b.test", QType: "A", ResultType: ResultForwarded, DurationMs: 2}))

	logs, err := db.RecentLogs(100)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "b.test", logs[0].QueryName, "most recent first")
}

func TestCleanupLogsDeletesOldRows(t *testing.T) {
	db := openTestDB(t)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, db.AppendLog(QueryLog{QueryName: "old.test", QType: "A", ResultType: ResultLocal, Timestamp: old}))
	require.NoError(t, db.AppendLog(QueryLog{QueryName: "new.test", QType: "A", ResultType: ResultLocal, Timestamp: time.Now()}))

	n, err := db.CleanupLogs(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	logs, err := db.RecentLogs(100)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "new.test", logs[0].QueryName)
}

func TestSetAndGetSetting(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.SetSetting(SettingUpstreamPrimary, "9.9.9.9:53"))

	v, err := db.GetSetting(SettingUpstreamPrimary)
	require.NoError(t, err)
	assert.Equal(t, "9.9.9.9:53", v)
}

func TestGetSettingNotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetSetting("no_such_key")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
