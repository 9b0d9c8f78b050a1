package control

import (
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdnspro/localdnspro/internal/cache"
	"github.com/localdnspro/localdnspro/internal/store"
	"github.com/localdnspro/localdnspro/internal/upstream"
)

func openTestDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "control.db")
	db, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestSurface(t *testing.T) *Surface {
	t.Helper()
	db := openTestDB(t)
	c := cache.New(nil)
	fwd := upstream.New(upstream.Config{})
	return New(db, c, fwd)
}

func TestCreateRecordReloadsCache(t *testing.T) {
	s := newTestSurface(t)

	created, err := s.CreateRecord(store.Record{
		DomainPattern: "host.local.test",
		RecordType:    "A",
		Content:       "10.0.0.5",
		TTL:           60,
		Active:        true,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	rec, ok := s.Cache.Lookup("host.local.test", "A")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", rec.Content)
}

func TestUpdateRecordReloadsCache(t *testing.T) {
	s := newTestSurface(t)
	created, err := s.CreateRecord(store.Record{
		DomainPattern: "host.local.test", RecordType: "A", Content: "10.0.0.5", TTL: 60, Active: true,
	})
	require.NoError(t, err)

	created.Content = "10.0.0.9"
	require.NoError(t, s.UpdateRecord(created))

	rec, ok := s.Cache.Lookup("host.local.test", "A")
	require.True(t, ok)
	assert.Equal(t, "10.0.0.9", rec.Content)
}

func TestDeleteRecordReloadsCache(t *testing.T) {
	s := newTestSurface(t)
	created, err := s.CreateRecord(store.Record{
		DomainPattern: "host.local.test", RecordType: "A", Content: "10.0.0.5", TTL: 60, Active: true,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteRecord(created.ID))

	_, ok := s.Cache.Lookup("host.local.test", "A")
	assert.False(t, ok)
}

func TestCreateRecordInvalidReturnsStoreError(t *testing.T) {
	s := newTestSurface(t)
	_, err := s.CreateRecord(store.Record{DomainPattern: "", RecordType: "A", Content: "1.2.3.4"})
	require.Error(t, err)
	assert.True(t, IsInvalid(err))
}

func TestUpdateSettingReconfiguresUpstreamOnRelevantKey(t *testing.T) {
	echo, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { echo.Close() })
	addr := echo.LocalAddr().(*net.UDPAddr)

	s := newTestSurface(t)
	require.NoError(t, s.UpdateSetting(store.SettingUpstreamPrimary, addr.String()))

	go func() {
		buf := make([]byte, 64)
		n, src, err := echo.ReadFromUDP(buf)
		if err != nil {
			return
		}
		echo.WriteToUDP(buf[:n], src)
	}()

	resp, err := s.Upstream.Forward([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, []byte("ping"), resp)
}

func TestUpdateSettingIgnoresUnrelatedKey(t *testing.T) {
	s := newTestSurface(t)
	require.NoError(t, s.UpdateSetting("unrelated_key", "value"))

	settings, err := s.SettingsList()
	require.NoError(t, err)
	found := false
	for _, st := range settings {
		if st.Key == "unrelated_key" {
			found = true
			assert.Equal(t, "value", st.Value)
		}
	}
	assert.True(t, found)
}

func TestRecordsListAndLogsRecentAndSettingsList(t *testing.T) {
	s := newTestSurface(t)
	_, err := s.CreateRecord(store.Record{
		DomainPattern: "a.local.test", RecordType: "A", Content: "10.0.0.1", TTL: 30, Active: true,
	})
	require.NoError(t, err)

	records, err := s.RecordsList()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, s.Store.AppendLog(store.QueryLog{
		QueryName: "a.local.test", QType: "A", ResultType: store.ResultLocal, DurationMs: 1,
	}))
	logs, err := s.LogsRecent(10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	settings, err := s.SettingsList()
	require.NoError(t, err)
	assert.NotEmpty(t, settings)
}

func TestHealthReportsStoreConnectivity(t *testing.T) {
	s := newTestSurface(t)
	h := s.Health()
	assert.True(t, h.StoreHealthy)
	assert.GreaterOrEqual(t, h.NumCPU, 1)
	assert.GreaterOrEqual(t, h.UptimeSeconds, int64(0))
}

func TestHealthReportsStoreUnhealthyAfterClose(t *testing.T) {
	db := openTestDB(t)
	s := New(db, cache.New(nil), upstream.New(upstream.Config{}))
	db.Close()

	h := s.Health()
	assert.False(t, h.StoreHealthy)
}
