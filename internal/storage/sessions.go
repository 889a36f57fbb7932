package storage

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/dynamicsector/dynamicsector/internal/table"
)

// Kind names which of the two tables an upload holds.
type Kind string

const (
	KindSystems Kind = "systems"
	KindSectors Kind = "sectors"
)

// Kinds lists every upload kind.
var Kinds = []Kind{KindSystems, KindSectors}

// ParseKind validates an upload kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSystems, KindSectors:
		return k, nil
	default:
		return "", fmt.Errorf("unknown upload kind %q: must be systems or sectors", s)
	}
}

// Upload is a stored table. Table is nil in ListUploads results.
type Upload struct {
	SessionID   string       `json:"-"`
	Kind        Kind         `json:"kind"`
	Filename    string       `json:"filename"`
	ContentHash string       `json:"content_hash"`
	Rows        int          `json:"rows"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	Table       *table.Table `json:"-"`
}

// ContentHash returns the hex BLAKE2b-256 digest of data.
func ContentHash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// TouchSession creates the session or refreshes its last-used time.
func (d *DB) TouchSession(id string) error {
	now := d.now().UnixNano()
	_, err := d.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at
	`, id, now, now)
	if err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	return nil
}

// SaveUpload stores t as the session's table of the given kind, replacing
// any earlier upload of that kind.
func (d *DB) SaveUpload(sessionID string, kind Kind, filename string, t *table.Table) (*Upload, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encoding table: %w", err)
	}

	u := &Upload{
		SessionID:   sessionID,
		Kind:        kind,
		Filename:    filename,
		ContentHash: ContentHash(data),
		Rows:        t.Len(),
		UploadedAt:  d.now(),
		Table:       t,
	}

	if err := d.TouchSession(sessionID); err != nil {
		return nil, err
	}
	_, err = d.db.Exec(`
		INSERT OR REPLACE INTO uploads (session_id, kind, filename, content_hash, table_json, uploaded_at, row_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, sessionID, string(kind), filename, u.ContentHash, string(data), u.UploadedAt.UnixNano(), u.Rows)
	if err != nil {
		return nil, fmt.Errorf("saving upload: %w", err)
	}
	return u, nil
}

// GetUpload returns the session's stored table of the given kind.
func (d *DB) GetUpload(sessionID string, kind Kind) (*Upload, error) {
	var (
		u          = Upload{SessionID: sessionID, Kind: kind}
		tableJSON  string
		uploadedAt int64
	)
	err := d.db.QueryRow(`
		SELECT filename, content_hash, table_json, uploaded_at, row_count
		FROM uploads WHERE session_id = ? AND kind = ?
	`, sessionID, string(kind)).Scan(&u.Filename, &u.ContentHash, &tableJSON, &uploadedAt, &u.Rows)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s upload for session: %w", kind, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying upload: %w", err)
	}

	var t table.Table
	if err := json.Unmarshal([]byte(tableJSON), &t); err != nil {
		return nil, fmt.Errorf("decoding stored %s table: %w", kind, err)
	}
	u.Table = &t
	u.UploadedAt = time.Unix(0, uploadedAt)
	return &u, nil
}

// ListUploads returns metadata for every upload in the session, ordered by kind.
func (d *DB) ListUploads(sessionID string) ([]Upload, error) {
	rows, err := d.db.Query(`
		SELECT kind, filename, content_hash, uploaded_at, row_count
		FROM uploads WHERE session_id = ? ORDER BY kind
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var out []Upload
	for rows.Next() {
		var (
			u          = Upload{SessionID: sessionID}
			kind       string
			uploadedAt int64
		)
		if err := rows.Scan(&kind, &u.Filename, &u.ContentHash, &uploadedAt, &u.Rows); err != nil {
			return nil, fmt.Errorf("scanning upload: %w", err)
		}
		u.Kind = Kind(kind)
		u.UploadedAt = time.Unix(0, uploadedAt)
		out = append(out, u)
	}
	return out, rows.Err()
}

// DeleteSession forgets a session and its uploads.
func (d *DB) DeleteSession(id string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM uploads WHERE session_id = ?", id); err != nil {
		return fmt.Errorf("deleting uploads: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return tx.Commit()
}

// PurgeIdle deletes sessions not touched since before, with their uploads,
// and returns how many sessions were removed.
func (d *DB) PurgeIdle(before time.Time) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	cutoff := before.UnixNano()
	if _, err := tx.Exec(`
		DELETE FROM uploads WHERE session_id IN (SELECT id FROM sessions WHERE updated_at < ?)
	`, cutoff); err != nil {
		return 0, fmt.Errorf("purging uploads: %w", err)
	}
	res, err := tx.Exec("DELETE FROM sessions WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// CountSessions returns the number of live sessions.
func (d *DB) CountSessions() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&n)
	return n, err
}
