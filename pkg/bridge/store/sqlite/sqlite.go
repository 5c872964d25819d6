// Package sqlite is a SQLite-backed store.Store implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dcondrey/BridgeNLP/pkg/bridge/result"
	"github.com/dcondrey/BridgeNLP/pkg/bridge/store"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database at path with WAL mode enabled and creates
// the schema if missing.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error { return s.db.Close() }

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS annotations (
	doc_id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	result_json TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_annotations_created ON annotations(created_at);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// storedResult is the serialized shape of a result row. Unlike the public
// JSON export, every field round-trips even when empty.
type storedResult struct {
	Tokens          []string        `json:"tokens"`
	Spans           []result.Span   `json:"spans,omitempty"`
	Clusters        [][]result.Span `json:"clusters,omitempty"`
	Roles           []result.Role   `json:"roles,omitempty"`
	Labels          []string        `json:"labels,omitempty"`
	ImageFeatures   []float64       `json:"image_features,omitempty"`
	AudioFeatures   []float64       `json:"audio_features,omitempty"`
	Embedding       []float64       `json:"multimodal_embedding,omitempty"`
	DetectedObjects []string        `json:"detected_objects,omitempty"`
	Captions        []string        `json:"captions,omitempty"`
}

func encodeResult(r result.Result) (string, error) {
	sr := storedResult{
		Tokens:          r.Tokens,
		Spans:           r.Spans,
		Roles:           r.Roles,
		Labels:          r.Labels,
		ImageFeatures:   r.ImageFeatures,
		AudioFeatures:   r.AudioFeatures,
		Embedding:       r.Embedding,
		DetectedObjects: r.DetectedObjects,
		Captions:        r.Captions,
	}
	for _, c := range r.Clusters {
		sr.Clusters = append(sr.Clusters, []result.Span(c))
	}
	data, err := json.Marshal(sr)
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(data), nil
}

func decodeResult(data string) (result.Result, error) {
	var sr storedResult
	if err := json.Unmarshal([]byte(data), &sr); err != nil {
		return result.Result{}, fmt.Errorf("decode result: %w", err)
	}
	r := result.Result{
		Tokens:          sr.Tokens,
		Spans:           sr.Spans,
		Roles:           sr.Roles,
		Labels:          sr.Labels,
		ImageFeatures:   sr.ImageFeatures,
		AudioFeatures:   sr.AudioFeatures,
		Embedding:       sr.Embedding,
		DetectedObjects: sr.DetectedObjects,
		Captions:        sr.Captions,
	}
	for _, c := range sr.Clusters {
		r.Clusters = append(r.Clusters, result.Cluster(c))
	}
	return r, nil
}

// UpsertAnnotation inserts or replaces the annotation for a document.
func (s *sqliteStore) UpsertAnnotation(ctx context.Context, a store.Annotation) error {
	if a.DocID == "" {
		return nil
	}
	encoded, err := encodeResult(a.Result)
	if err != nil {
		return err
	}
	created := a.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO annotations (doc_id, text, result_json, created_at)
VALUES (?, ?, ?, ?)
ON CONFLICT(doc_id) DO UPDATE SET
	text = excluded.text,
	result_json = excluded.result_json,
	created_at = excluded.created_at`,
		a.DocID, a.Text, encoded, created.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert annotation: %w", err)
	}
	return nil
}

// GetAnnotation returns the annotation for a document, if present.
func (s *sqliteStore) GetAnnotation(ctx context.Context, docID string) (store.Annotation, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT doc_id, text, result_json, created_at FROM annotations WHERE doc_id = ?`, docID)

	a, err := scanAnnotation(row)
	if err == sql.ErrNoRows {
		return store.Annotation{}, false, nil
	}
	if err != nil {
		return store.Annotation{}, false, err
	}
	return a, true, nil
}

// ListAnnotations returns up to limit annotations, newest first.
func (s *sqliteStore) ListAnnotations(ctx context.Context, limit int) ([]store.Annotation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT doc_id, text, result_json, created_at FROM annotations
ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer rows.Close()

	var out []store.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAnnotation removes the annotation for a document.
func (s *sqliteStore) DeleteAnnotation(ctx context.Context, docID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM annotations WHERE doc_id = ?`, docID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(row rowScanner) (store.Annotation, error) {
	var a store.Annotation
	var encoded, created string
	if err := row.Scan(&a.DocID, &a.Text, &encoded, &created); err != nil {
		return store.Annotation{}, err
	}
	res, err := decodeResult(encoded)
	if err != nil {
		return store.Annotation{}, err
	}
	a.Result = res
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		a.CreatedAt = ts
	}
	return a, nil
}
