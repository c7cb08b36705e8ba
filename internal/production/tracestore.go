package production

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/comalice/ssmcore/internal/core"
)

// TraceEvent is one recorded scheduler observation. A Tracer only ever
// appends these; nothing in internal/core reads them back, matching the
// "diagnostics never affect scheduling" property the runtime guarantees.
type TraceEvent struct {
	ID    string `json:"id" yaml:"id"`
	Time  int64  `json:"time" yaml:"time"`
	Kind  string `json:"kind" yaml:"kind"`
	Label string `json:"label" yaml:"label"`
	Key   string `json:"key,omitempty" yaml:"key,omitempty"`
}

// MemoryTracer accumulates TraceEvents in memory and implements
// core.Tracer. YAMLTraceWriter flushes a MemoryTracer's accumulated
// events to disk on demand; SQLiteTraceStore instead inserts
// each event immediately and needs no separate MemoryTracer.
type MemoryTracer struct {
	events      []TraceEvent
	currentTime core.LogicalTime
}

// NewMemoryTracer creates an empty in-memory tracer.
func NewMemoryTracer() *MemoryTracer {
	return &MemoryTracer{}
}

func (t *MemoryTracer) OnInstantStart(tm core.LogicalTime) {
	t.currentTime = tm
	t.events = append(t.events, TraceEvent{ID: uuid.NewString(), Time: int64(tm), Kind: "instant_start"})
}

func (t *MemoryTracer) OnProcessResume(label string) {
	t.events = append(t.events, TraceEvent{ID: uuid.NewString(), Time: int64(t.currentTime), Kind: "process_resume", Label: label})
}

func (t *MemoryTracer) OnProcessTerminate(label string) {
	t.events = append(t.events, TraceEvent{ID: uuid.NewString(), Time: int64(t.currentTime), Kind: "process_terminate", Label: label})
}

func (t *MemoryTracer) OnChannelCommit(name string, key core.Key, tm core.LogicalTime) {
	t.events = append(t.events, TraceEvent{ID: uuid.NewString(), Time: int64(tm), Kind: "channel_commit", Label: name, Key: key})
}

// Events returns a defensive copy of every event recorded so far.
func (t *MemoryTracer) Events() []TraceEvent {
	return append([]TraceEvent(nil), t.events...)
}

// YAMLTraceWriter wraps a MemoryTracer and flushes its accumulated
// events to a YAML file — grounded on the teacher's YAMLPersister
// Save/Load shape, applied to trace events instead of snapshots.
type YAMLTraceWriter struct {
	*MemoryTracer
	path string
}

// NewYAMLTraceWriter creates a tracer that writes to path on Flush.
func NewYAMLTraceWriter(path string) *YAMLTraceWriter {
	return &YAMLTraceWriter{MemoryTracer: NewMemoryTracer(), path: path}
}

// Flush serializes every recorded event to the writer's YAML file.
func (w *YAMLTraceWriter) Flush() error {
	data, err := yaml.Marshal(w.Events())
	if err != nil {
		return fmt.Errorf("yaml marshal trace: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	return nil
}

// SQLiteTraceStore is an append-only trace log backed by a pure-Go
// sqlite driver, grounded on daviddao-clockmail's sqlite-backed
// pkg/store: every tracer callback is a single INSERT, so the on-disk
// log is durable even if the process crashes mid-run.
type SQLiteTraceStore struct {
	db          *sql.DB
	currentTime core.LogicalTime
}

// NewSQLiteTraceStore opens (creating if needed) a sqlite database at
// path and ensures its trace_events table exists.
func NewSQLiteTraceStore(path string) (*SQLiteTraceStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open trace db %s: %w", path, err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS trace_events (
		id    TEXT PRIMARY KEY,
		time  INTEGER NOT NULL,
		kind  TEXT NOT NULL,
		label TEXT NOT NULL,
		key   TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create trace_events table: %w", err)
	}
	return &SQLiteTraceStore{db: db}, nil
}

func (s *SQLiteTraceStore) insert(e TraceEvent) {
	_, _ = s.db.Exec(
		`INSERT INTO trace_events (id, time, kind, label, key) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Time, e.Kind, e.Label, e.Key,
	)
}

func (s *SQLiteTraceStore) OnInstantStart(tm core.LogicalTime) {
	s.currentTime = tm
	s.insert(TraceEvent{ID: uuid.NewString(), Time: int64(tm), Kind: "instant_start"})
}

func (s *SQLiteTraceStore) OnProcessResume(label string) {
	s.insert(TraceEvent{ID: uuid.NewString(), Time: int64(s.currentTime), Kind: "process_resume", Label: label})
}

func (s *SQLiteTraceStore) OnProcessTerminate(label string) {
	s.insert(TraceEvent{ID: uuid.NewString(), Time: int64(s.currentTime), Kind: "process_terminate", Label: label})
}

func (s *SQLiteTraceStore) OnChannelCommit(name string, key core.Key, tm core.LogicalTime) {
	s.insert(TraceEvent{ID: uuid.NewString(), Time: int64(tm), Kind: "channel_commit", Label: name, Key: key})
}

// Query returns every event recorded so far, in insertion order.
func (s *SQLiteTraceStore) Query() ([]TraceEvent, error) {
	rows, err := s.db.Query(`SELECT id, time, kind, label, key FROM trace_events ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query trace_events: %w", err)
	}
	defer rows.Close()

	var events []TraceEvent
	for rows.Next() {
		var e TraceEvent
		var key sql.NullString
		if err := rows.Scan(&e.ID, &e.Time, &e.Kind, &e.Label, &key); err != nil {
			return nil, fmt.Errorf("scan trace_events row: %w", err)
		}
		e.Key = key.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteTraceStore) Close() error { return s.db.Close() }
