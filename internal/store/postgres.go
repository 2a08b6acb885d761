package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Postgres stores documents as JSONB rows keyed by (collection, id). Shallow
// merge uses the JSONB || operator so its semantics match the in-memory store.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS documents (
//	    collection  TEXT        NOT NULL,
//	    id          TEXT        NOT NULL,
//	    data        JSONB       NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (collection, id)
//	);
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed document store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the documents table. Idempotent; called at startup.
func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection  TEXT        NOT NULL,
			id          TEXT        NOT NULL,
			data        JSONB       NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS documents_collection_idx
		ON documents (collection, id)`)
	if err != nil {
		return fmt.Errorf("create documents index: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(collection, id)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return decodeDocument(raw)
}

func (p *Postgres) Set(ctx context.Context, collection, id string, data Document, merge bool) error {
	return set(ctx, p.db, collection, id, data, merge)
}

func set(ctx context.Context, ex execer, collection, id string, data Document, merge bool) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if merge {
		query = `
			INSERT INTO documents (collection, id, data, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (collection, id)
			DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	}
	if _, err := ex.ExecContext(ctx, query, collection, id, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, collection, id string) error {
	return del(ctx, p.db, collection, id)
}

func del(ctx context.Context, ex execer, collection, id string) error {
	if _, err := ex.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (p *Postgres) QueryEquals(ctx context.Context, collection, field, value string) ([]Snapshot, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, data FROM documents
		 WHERE collection = $1 AND data ->> $2 = $3
		 ORDER BY id`,
		collection, field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	return scanSnapshots(rows)
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Snapshot, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return scanSnapshots(rows)
}

func scanSnapshots(rows *sql.Rows) ([]Snapshot, error) {
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decodeDocument(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, Snapshot{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (p *Postgres) Batch() Batch {
	return &postgresBatch{db: p.db}
}

type postgresBatch struct {
	db        *sql.DB
	ops       []batchOp
	committed bool
}

func (b *postgresBatch) Set(collection, id string, data Document, merge bool) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, data: data, merge: merge})
}

func (b *postgresBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, delete: true})
}

// Commit applies all operations inside one transaction so the batch is atomic.
func (b *postgresBatch) Commit(ctx context.Context) error {
	if b.committed {
		return fmt.Errorf("batch already committed")
	}
	if len(b.ops) > MaxBatchOps {
		return fmt.Errorf("batch of %d operations exceeds limit of %d", len(b.ops), MaxBatchOps)
	}
	b.committed = true

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, op := range b.ops {
		if op.delete {
			err = del(ctx, tx, op.collection, op.id)
		} else {
			err = set(ctx, tx, op.collection, op.id, op.data, op.merge)
		}
		if err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func decodeDocument(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
