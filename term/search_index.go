// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/search_index.go
// Summary: SQLite FTS5 search index over scrollback history. Lines are
// indexed as they scroll off screen, batched in the background; queries
// use trigram matching so any substring can be found.

package term

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SearchResult is one matching history line.
type SearchResult struct {
	LineIdx   int64
	Timestamp time.Time
	Content   string
}

// SearchIndexConfig tunes the background batch indexer.
type SearchIndexConfig struct {
	// DBPath is the SQLite database file. ":memory:" works for tests.
	DBPath string

	// BatchSize is how many lines accumulate before a flush. Default 100.
	BatchSize int

	// BatchTimeout flushes a partial batch after this long. Default 5s.
	BatchTimeout time.Duration

	// ChannelBuffer sizes the async queue. Default 1000.
	ChannelBuffer int
}

// DefaultSearchIndexConfig returns sensible defaults.
func DefaultSearchIndexConfig(dbPath string) SearchIndexConfig {
	return SearchIndexConfig{
		DBPath:        dbPath,
		BatchSize:     100,
		BatchTimeout:  5 * time.Second,
		ChannelBuffer: 1000,
	}
}

const searchIndexSchema = `
CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY,           -- global scrollback line index
    timestamp INTEGER NOT NULL,       -- UnixNano
    content TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lines_timestamp ON lines(timestamp);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
    content,
    content='lines',
    content_rowid='id',
    tokenize='trigram'
);

CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
    INSERT INTO lines_fts(rowid, content) VALUES (new.id, new.content);
END;

CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, content) VALUES ('delete', old.id, old.content);
END;
`

type indexEntry struct {
	lineIdx   int64
	timestamp time.Time
	text      string
}

// SearchIndex is a SQLite-backed full-text index over scrollback lines.
// Writes are queued and flushed in batches by a background goroutine;
// Flush forces the queue to drain before a query needs recent lines.
type SearchIndex struct {
	config SearchIndexConfig
	db     *sql.DB

	batchChan chan indexEntry
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}

	mu sync.RWMutex
}

// NewSearchIndex opens or creates an index at dbPath.
func NewSearchIndex(dbPath string) (*SearchIndex, error) {
	return NewSearchIndexWithConfig(DefaultSearchIndexConfig(dbPath))
}

// NewSearchIndexWithConfig opens an index with custom batching behavior.
func NewSearchIndexWithConfig(config SearchIndexConfig) (*SearchIndex, error) {
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = 5 * time.Second
	}
	if config.ChannelBuffer <= 0 {
		config.ChannelBuffer = 1000
	}
	if config.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(config.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	dsn := config.DBPath +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=temp_store(MEMORY)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(searchIndexSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	si := &SearchIndex{
		config:    config,
		db:        db,
		batchChan: make(chan indexEntry, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go si.batchIndexer()
	return si, nil
}

// IndexLine queues one scrolled-off line for indexing. lineIdx is the
// line's position in the full history (TotalPushed order). When the queue
// is saturated the line is dropped rather than stalling the emulator.
func (si *SearchIndex) IndexLine(lineIdx int64, text string) error {
	if text == "" {
		return nil
	}
	entry := indexEntry{lineIdx: lineIdx, timestamp: time.Now(), text: text}
	select {
	case si.batchChan <- entry:
		return nil
	default:
		return fmt.Errorf("search index queue full, dropped line %d", lineIdx)
	}
}

// Search returns up to limit lines containing the query substring, newest
// first. Pending writes are flushed first so just-scrolled lines match.
func (si *SearchIndex) Search(query string, limit int) ([]SearchResult, error) {
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if err := si.Flush(); err != nil {
		return nil, err
	}

	si.mu.RLock()
	defer si.mu.RUnlock()

	rows, err := si.db.Query(`
		SELECT l.id, l.timestamp, l.content
		FROM lines_fts f
		JOIN lines l ON l.id = f.rowid
		WHERE lines_fts MATCH ?
		ORDER BY l.timestamp DESC
		LIMIT ?`, ftsQuote(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var ts int64
		if err := rows.Scan(&r.LineIdx, &ts, &r.Content); err != nil {
			return nil, err
		}
		r.Timestamp = time.Unix(0, ts)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuote wraps the query as an FTS5 string literal so shell-ish input
// ("ls -la", quotes, operators) is matched verbatim, not parsed.
func ftsQuote(q string) string {
	out := make([]byte, 0, len(q)+2)
	out = append(out, '"')
	for i := 0; i < len(q); i++ {
		if q[i] == '"' {
			out = append(out, '"')
		}
		out = append(out, q[i])
	}
	return string(append(out, '"'))
}

// Clear removes every indexed line (ED 3 clears history).
func (si *SearchIndex) Clear() error {
	if err := si.Flush(); err != nil {
		return err
	}
	si.mu.Lock()
	defer si.mu.Unlock()
	_, err := si.db.Exec("DELETE FROM lines")
	return err
}

// Flush blocks until the async queue has been written out.
func (si *SearchIndex) Flush() error {
	done := make(chan struct{})
	select {
	case si.flushCh <- done:
		<-done
		return nil
	case <-si.stopCh:
		return fmt.Errorf("search index is closed")
	}
}

// Close flushes pending writes and closes the database.
func (si *SearchIndex) Close() error {
	select {
	case <-si.stopCh:
		return nil // already closed
	default:
	}
	close(si.stopCh)
	<-si.doneCh
	return si.db.Close()
}

// batchIndexer drains the queue, writing batches when full or on timeout.
func (si *SearchIndex) batchIndexer() {
	defer close(si.doneCh)

	batch := make([]indexEntry, 0, si.config.BatchSize)
	timer := time.NewTimer(si.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		si.writeBatch(batch)
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-si.batchChan:
			batch = append(batch, entry)
			if len(batch) >= si.config.BatchSize {
				flush()
				timer.Reset(si.config.BatchTimeout)
			}
		case <-timer.C:
			flush()
			timer.Reset(si.config.BatchTimeout)
		case done := <-si.flushCh:
			for {
				select {
				case entry := <-si.batchChan:
					batch = append(batch, entry)
					continue
				default:
				}
				break
			}
			flush()
			close(done)
		case <-si.stopCh:
			for {
				select {
				case entry := <-si.batchChan:
					batch = append(batch, entry)
					continue
				default:
				}
				break
			}
			flush()
			return
		}
	}
}

// writeBatch inserts a batch in a single transaction. Indexing is best
// effort; failures are reported through the next Flush-free operation.
func (si *SearchIndex) writeBatch(batch []indexEntry) {
	si.mu.Lock()
	defer si.mu.Unlock()

	tx, err := si.db.Begin()
	if err != nil {
		return
	}
	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO lines (id, timestamp, content) VALUES (?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.Exec(e.lineIdx, e.timestamp.UnixNano(), e.text); err != nil {
			tx.Rollback()
			return
		}
	}
	tx.Commit()
}
