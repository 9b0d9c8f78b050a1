package store

import "time"

// AppendLog inserts one query log entry.
func (db *DB) AppendLog(l QueryLog) error {
	const op = "AppendLog"
	db.mu.Lock()
	defer db.mu.Unlock()

	ts := l.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := db.conn.Exec(
		`INSERT INTO query_logs (query_name, q_type, result_type, duration_ms, timestamp) VALUES (?, ?, ?, ?, ?)`,
		l.QueryName, l.QType, l.ResultType, l.DurationMs, ts,
	)
	if err != nil {
		return storageErr(op, err)
	}
	return nil
}

// RecentLogs returns up to limit most recent log entries, newest first.
func (db *DB) RecentLogs(limit int) ([]QueryLog, error) {
	const op = "RecentLogs"
	if limit <= 0 {
		limit = 100
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(
		`SELECT id, query_name, q_type, result_type, duration_ms, timestamp
		 FROM query_logs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []QueryLog
	for rows.Next() {
		var l QueryLog
		if err := rows.Scan(&l.ID, &l.QueryName, &l.QType, &l.ResultType, &l.DurationMs, &l.Timestamp); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// CleanupLogs removes log rows older than the given instant, returning the
// number of rows deleted.
func (db *DB) CleanupLogs(olderThan time.Time) (int64, error) {
	const op = "CleanupLogs"
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.Exec(`DELETE FROM query_logs WHERE timestamp < ?`, olderThan)
	if err != nil {
		return 0, storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageErr(op, err)
	}
	return n, nil
}
