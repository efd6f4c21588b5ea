package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/repository"
)

// Table stores one entity as (id, parent, data) rows, where data is the JSON encoding of
// the row and id/parent are the text forms of its keys.
type Table[K, P repository.Key, V any] struct {
	db  *DB
	def repository.Table[K, P, V]

	upsert       string
	deleteOne    string
	deleteParent string
	get          string
	list         string
}

// NewTable builds the statements for def.
func NewTable[K, P repository.Key, V any](db *DB, def repository.Table[K, P, V]) *Table[K, P, V] {
	n := def.Name
	return &Table[K, P, V]{
		db:  db,
		def: def,
		upsert: `INSERT INTO ` + n + ` (id, parent, data) VALUES ($1, $2, $3) ` +
			`ON CONFLICT (id) DO UPDATE SET parent = EXCLUDED.parent, data = EXCLUDED.data`,
		deleteOne:    `DELETE FROM ` + n + ` WHERE id = $1`,
		deleteParent: `DELETE FROM ` + n + ` WHERE parent = $1`,
		get:          `SELECT data FROM ` + n + ` WHERE id = $1`,
		list:         `SELECT data FROM ` + n + ` WHERE parent = $1`,
	}
}

// Upsert inserts v or replaces the row with the same key.
func (t *Table[K, P, V]) Upsert(ctx context.Context, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", t.def.Name, err)
	}
	_, err = t.db.Pool.Exec(ctx, t.upsert, t.def.Key(v).String(), t.def.Parent(v).String(), data)
	return err
}

// Delete removes the row with key; a missing row is not an error.
func (t *Table[K, P, V]) Delete(ctx context.Context, key K) error {
	_, err := t.db.Pool.Exec(ctx, t.deleteOne, key.String())
	return err
}

// Get loads the row with key or returns errs.ErrNotFound.
func (t *Table[K, P, V]) Get(ctx context.Context, key K) (*V, error) {
	var data []byte
	if err := t.db.Pool.QueryRow(ctx, t.get, key.String()).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s row: %w", t.def.Name, err)
	}
	return &v, nil
}

// DeleteByParent removes every row owned by parent with one statement.
func (t *Table[K, P, V]) DeleteByParent(ctx context.Context, parent P) error {
	_, err := t.db.Pool.Exec(ctx, t.deleteParent, parent.String())
	return err
}

// ListByParent returns every row owned by parent, in no particular order.
func (t *Table[K, P, V]) ListByParent(ctx context.Context, parent P) ([]V, error) {
	rows, err := t.db.Pool.Query(ctx, t.list, parent.String())
	if err != nil {
		return nil, err
	}
	return collect[V](rows, t.def.Name)
}

func collect[V any](rows pgx.Rows, name string) ([]V, error) {
	defer rows.Close()
	var out []V
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var v V
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", name, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
