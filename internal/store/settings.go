package store

import "database/sql"

// ListSettings returns every setting row.
func (db *DB) ListSettings() ([]Setting, error) {
	const op = "ListSettings"
	db.mu.RLock()
	defer db.mu.RUnlock()

	rows, err := db.conn.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, storageErr(op, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return out, nil
}

// GetSetting fetches a single setting by key.
func (db *DB) GetSetting(key string) (string, error) {
	const op = "GetSetting"
	db.mu.RLock()
	defer db.mu.RUnlock()

	var value string
	err := db.conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", notFound(op, err)
	}
	if err != nil {
		return "", storageErr(op, err)
	}
	return value, nil
}

// SetSetting upserts a setting value.
func (db *DB) SetSetting(key, value string) error {
	const op = "SetSetting"
	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.conn.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return storageErr(op, err)
	}
	return nil
}
