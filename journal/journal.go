// Package journal records channel traffic in a SQLite database so it can be
// replayed into a mirror later, for debugging or for late-joining
// compositors.
//
// Importing the package registers the "journal" transport:
//
//	import _ "github.com/gogpu/scenesync/journal"
//
//	t, err := channel.OpenTransport("journal", channel.TransportOptions{
//	    Name: "main",
//	    Path: "frames.db",
//	})
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/scenesync"
	"github.com/gogpu/scenesync/channel"
)

var (
	// ErrClosed is returned by writes to a closed journal transport.
	ErrClosed = errors.New("journal: closed")

	// ErrInUse is returned when a channel name already has a live transport.
	ErrInUse = errors.New("journal: channel already has a live transport")
)

const schema = `
CREATE TABLE IF NOT EXISTS frames (
	channel    TEXT    NOT NULL,
	seq        INTEGER NOT NULL,
	frame      BLOB    NOT NULL,
	written_at INTEGER NOT NULL,
	PRIMARY KEY (channel, seq)
)`

func init() {
	channel.RegisterTransport("journal", func(opts channel.TransportOptions) (channel.Transport, error) {
		j, err := Open(opts.Path)
		if err != nil {
			return nil, err
		}
		name := opts.Name
		if name == "" {
			name = "default"
		}
		t, err := j.Transport(context.Background(), name)
		if err != nil {
			_ = j.Close()
			return nil, err
		}
		t.owned = true
		return t, nil
	})
}

// Journal is a SQLite-backed frame log shared by any number of channels.
type Journal struct {
	db *sql.DB

	mu   sync.Mutex
	live map[string]bool // channel names with an open Transport
}

// Open opens or creates the journal at path.
func Open(path string) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal: path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db, live: make(map[string]bool)}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Transport returns a transport appending to the log of the named channel.
// Frames continue after any already recorded under that name.
//
// A name has at most one live transport; a second one fails with ErrInUse
// until the first is closed.
func (j *Journal) Transport(ctx context.Context, name string) (*Transport, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.live[name] {
		return nil, fmt.Errorf("%w: %s", ErrInUse, name)
	}

	var last sql.NullInt64
	err := j.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM frames WHERE channel = ?`, name).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("journal %s: read sequence: %w", name, err)
	}
	j.live[name] = true
	return &Transport{j: j, name: name, seq: last.Int64}, nil
}

func (j *Journal) detach(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.live, name)
}

// Channels returns the names of the recorded channels.
func (j *Journal) Channels(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT DISTINCT channel FROM frames ORDER BY channel`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Len returns the number of frames recorded for the named channel.
func (j *Journal) Len(ctx context.Context, name string) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames WHERE channel = ?`, name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count frames: %w", err)
	}
	return n, nil
}

// Replay calls fn with every frame of the named channel in write order.
// It stops at the first error fn returns.
func (j *Journal) Replay(ctx context.Context, name string, fn func(seq int64, frame []byte) error) error {
	rows, err := j.db.QueryContext(ctx, `SELECT seq, frame FROM frames WHERE channel = ? ORDER BY seq`, name)
	if err != nil {
		return fmt.Errorf("replay %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq   int64
			frame []byte
		)
		if err := rows.Scan(&seq, &frame); err != nil {
			return fmt.Errorf("replay %s: scan: %w", name, err)
		}
		if err := fn(seq, frame); err != nil {
			return fmt.Errorf("replay %s frame %d: %w", name, seq, err)
		}
	}
	return rows.Err()
}

// Truncate deletes the named channel's frames.
func (j *Journal) Truncate(ctx context.Context, name string) error {
	if _, err := j.db.ExecContext(ctx, `DELETE FROM frames WHERE channel = ?`, name); err != nil {
		return fmt.Errorf("truncate %s: %w", name, err)
	}
	return nil
}

// Transport writes a channel's frames to a Journal.
type Transport struct {
	j      *Journal
	name   string
	seq    int64
	closed bool
	owned  bool // close the journal with the transport
}

// WriteFrame appends frame to the log.
func (t *Transport) WriteFrame(frame []byte) error {
	if t.closed {
		return ErrClosed
	}
	seq := t.seq + 1
	_, err := t.j.db.Exec(`INSERT INTO frames (channel, seq, frame, written_at) VALUES (?, ?, ?, ?)`,
		t.name, seq, frame, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("journal %s: append frame %d: %w", t.name, seq, err)
	}
	t.seq = seq
	return nil
}

// Close stops the transport. The journal stays open unless the transport
// was created by the channel registry.
func (t *Transport) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.j.detach(t.name)
	scenesync.Logger().Info("journal closed", "channel", t.name, "frames", t.seq)
	if t.owned {
		return t.j.Close()
	}
	return nil
}
