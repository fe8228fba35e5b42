// Package statedb persists the style bytes, per-line lexer state and fold
// levels of a lexed document so a file reopened later warm-starts without a
// cold full lex. Snapshots are keyed by path and modification time; a stale
// snapshot misses and is evicted by the caller.
package statedb

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/kwatters/hilex/internal/document"
	"github.com/kwatters/hilex/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	path        TEXT NOT NULL,
	mtime_ns    INTEGER NOT NULL,
	dialect     INTEGER NOT NULL DEFAULT 0,
	line_count  INTEGER NOT NULL,
	styles      BLOB NOT NULL,
	line_states BLOB NOT NULL,
	levels      BLOB NOT NULL,
	saved_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (path)
);
`

// SnapshotNotFoundError reports a cache miss for a path+mtime pair.
type SnapshotNotFoundError struct {
	Path string
}

func (e *SnapshotNotFoundError) Error() string {
	return fmt.Sprintf("no snapshot for %s", e.Path)
}

// Snapshot is a persisted image of a lexed document: one style byte per
// document byte plus the per-line states and fold levels.
type Snapshot struct {
	Path       string
	MTime      time.Time
	Dialect    int
	Styles     []byte
	LineStates []int
	Levels     []int
}

// Store wraps the snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path. Pass
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	log.Debug(log.CatDB, "opening snapshot store", "path", path)
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing snapshot schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save stores (or replaces) the snapshot for its path.
func (s *Store) Save(snap Snapshot) error {
	if len(snap.LineStates) != len(snap.Levels) {
		return fmt.Errorf("line state and level counts differ: %d vs %d",
			len(snap.LineStates), len(snap.Levels))
	}
	styles := snap.Styles
	if styles == nil {
		styles = []byte{}
	}
	_, err := s.db.Exec(
		`INSERT INTO snapshots (path, mtime_ns, dialect, line_count, styles, line_states, levels)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			mtime_ns = excluded.mtime_ns,
			dialect = excluded.dialect,
			line_count = excluded.line_count,
			styles = excluded.styles,
			line_states = excluded.line_states,
			levels = excluded.levels,
			saved_at = CURRENT_TIMESTAMP`,
		snap.Path, snap.MTime.UnixNano(), snap.Dialect, len(snap.LineStates),
		styles, packInts(snap.LineStates), packInts(snap.Levels),
	)
	if err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", snap.Path, err)
	}
	log.Debug(log.CatDB, "snapshot saved", "path", snap.Path, "lines", len(snap.LineStates))
	return nil
}

// Load fetches the snapshot for path, requiring an exact mtime match.
// Returns SnapshotNotFoundError on a miss or a stale snapshot.
func (s *Store) Load(path string, mtime time.Time) (*Snapshot, error) {
	row := s.db.QueryRow(
		`SELECT mtime_ns, dialect, line_count, styles, line_states, levels
		 FROM snapshots WHERE path = ?`, path)

	var (
		mtimeNS   int64
		dialect   int
		lineCount int
		styles    []byte
		states    []byte
		levels    []byte
	)
	err := row.Scan(&mtimeNS, &dialect, &lineCount, &styles, &states, &levels)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &SnapshotNotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot for %s: %w", path, err)
	}
	if mtimeNS != mtime.UnixNano() {
		log.Debug(log.CatDB, "snapshot stale", "path", path)
		return nil, &SnapshotNotFoundError{Path: path}
	}

	snap := &Snapshot{
		Path:       path,
		MTime:      mtime,
		Dialect:    dialect,
		Styles:     styles,
		LineStates: unpackInts(states, lineCount),
		Levels:     unpackInts(levels, lineCount),
	}
	return snap, nil
}

// Delete removes the snapshot for path, if any.
func (s *Store) Delete(path string) error {
	if _, err := s.db.Exec(`DELETE FROM snapshots WHERE path = ?`, path); err != nil {
		return fmt.Errorf("deleting snapshot for %s: %w", path, err)
	}
	return nil
}

// FromDocument captures a lexed document's styles and per-line state as a
// snapshot.
func FromDocument(path string, mtime time.Time, dialect int, doc *document.Document) Snapshot {
	n := doc.LineCount()
	snap := Snapshot{
		Path:       path,
		MTime:      mtime,
		Dialect:    dialect,
		Styles:     append([]byte(nil), doc.Styles()...),
		LineStates: make([]int, n),
		Levels:     make([]int, n),
	}
	for i := 0; i < n; i++ {
		snap.LineStates[i] = doc.LineState(i)
		snap.Levels[i] = doc.Level(i)
	}
	return snap
}

// Apply restores a snapshot onto a document with the same shape: styles,
// line states and fold levels. Reports whether the snapshot fit; on success
// the document is as styled as a fresh lex would leave it.
func (snap *Snapshot) Apply(doc *document.Document) bool {
	if doc.LineCount() != len(snap.LineStates) || doc.Length() != len(snap.Styles) {
		return false
	}
	if !doc.SetStyles(snap.Styles) {
		return false
	}
	for i, state := range snap.LineStates {
		doc.SetLineState(i, state)
	}
	for i, level := range snap.Levels {
		doc.SetLevel(i, level)
	}
	return true
}

func packInts(values []int) []byte {
	var buf bytes.Buffer
	buf.Grow(len(values) * 4)
	for _, v := range values {
		_ = binary.Write(&buf, binary.LittleEndian, uint32(v))
	}
	return buf.Bytes()
}

func unpackInts(data []byte, count int) []int {
	values := make([]int, 0, count)
	for i := 0; i+4 <= len(data) && len(values) < count; i += 4 {
		values = append(values, int(int32(binary.LittleEndian.Uint32(data[i:]))))
	}
	return values
}
