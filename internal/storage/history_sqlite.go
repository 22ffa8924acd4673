package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const documentsSchema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteHistory stores each top-level document field as a row.
type SQLiteHistory struct {
	db *sql.DB
}

// OpenSQLiteHistory opens (and creates) the database at path.
func OpenSQLiteHistory(ctx context.Context, path string) (*SQLiteHistory, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

// Load reads every field. An empty table yields an empty document.
func (history *SQLiteHistory) Load(ctx context.Context) (Document, error) {
	document := Document{Extra: make(map[string]yaml.Node)}

	rows, err := history.db.QueryContext(ctx, `SELECT key, body FROM documents`)
	if err != nil {
		return document, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, body string
		if err := rows.Scan(&key, &body); err != nil {
			return document, fmt.Errorf("scan document row: %w", err)
		}
		node, err := decodeBody(body)
		if err != nil {
			return document, fmt.Errorf("decode field %s: %w", key, err)
		}
		if key == SessionsKey {
			sessions, err := decodeSessions(node)
			if err != nil {
				return document, err
			}
			document.Sessions = sessions
			continue
		}
		document.Extra[key] = *node
	}
	if err := rows.Err(); err != nil {
		return document, fmt.Errorf("iterate documents: %w", err)
	}
	return document, nil
}

// Save replaces every field in one transaction.
func (history *SQLiteHistory) Save(ctx context.Context, document Document) (err error) {
	tx, err := history.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	sessions, err := encodeSessions(document.Sessions)
	if err != nil {
		return err
	}
	updatedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if err = insertField(ctx, tx, SessionsKey, sessions, updatedAt); err != nil {
		return err
	}
	for _, key := range extraKeys(document) {
		node := document.Extra[key]
		if err = insertField(ctx, tx, key, &node, updatedAt); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit documents: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (history *SQLiteHistory) Close() error {
	if history == nil || history.db == nil {
		return nil
	}
	return history.db.Close()
}

func insertField(ctx context.Context, tx *sql.Tx, key string, node *yaml.Node, updatedAt string) error {
	body, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("encode field %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents(key, body, updated_at) VALUES (?, ?, ?)`,
		key, string(body), updatedAt,
	); err != nil {
		return fmt.Errorf("insert field %s: %w", key, err)
	}
	return nil
}

func decodeBody(body string) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(body), &node); err != nil {
		return nil, err
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, errors.New("empty field body")
		}
		return node.Content[0], nil
	}
	return &node, nil
}
