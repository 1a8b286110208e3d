package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const fileName = "storage.sqlite"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS collections (
		name        TEXT PRIMARY KEY,
		vector_size INTEGER NOT NULL,
		distance    INTEGER NOT NULL,
		on_disk     INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS points (
		collection TEXT NOT NULL,
		key        TEXT NOT NULL,
		vector     BLOB NOT NULL,
		payload    TEXT NOT NULL,
		PRIMARY KEY (collection, key)
	)`,
}

// Store is an embedded, single-process stand-in for a Qdrant server.
// It speaks the go-client request and response types so callers can treat
// it exactly like *qdrant.Client.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the store under dir. MemoryPath gives a
// throwaway in-memory store.
func Open(ctx context.Context, dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("localstore: path is empty")
	}

	dsn := dir
	if dir != MemoryPath {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("localstore: create %s: %w", dir, err)
		}
		dsn = filepath.Join(dir, fileName)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("localstore: open %s: %w", dsn, err)
	}
	// One connection: keeps :memory: a single database and serializes writers.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("localstore: ensure schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type collection struct {
	name       string
	vectorSize uint64
	distance   int32
	onDisk     bool
}

func (s *Store) lookup(ctx context.Context, q querier, name string) (*collection, error) {
	c := &collection{name: name}
	err := q.QueryRowContext(ctx,
		`SELECT vector_size, distance, on_disk FROM collections WHERE name = ?`, name,
	).Scan(&c.vectorSize, &c.distance, &c.onDisk)
	if err == sql.ErrNoRows {
		return nil, status.Errorf(codes.NotFound, "Not found: Collection `%s` doesn't exist!", name)
	}
	if err != nil {
		return nil, internal(err)
	}
	return c, nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func internal(err error) error {
	return status.Error(codes.Internal, err.Error())
}

func invalid(format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
