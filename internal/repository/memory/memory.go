// Package memory contains the in-process implementation of the repository contract.
// It backs tests and short-lived replays; nothing survives the process.
package memory

import (
	"context"
	"sync"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/repository"
	"github.com/disgoorg/snowflake/v2"
)

// Table is a ChildStore kept in a map. Every method runs in one critical section, so
// DeleteByParent is atomic with respect to other callers.
type Table[K, P repository.Key, V any] struct {
	def  repository.Table[K, P, V]
	mu   sync.RWMutex
	rows map[K]V
}

var _ repository.ChildStore[snowflake.ID, snowflake.ID, model.Channel] = (*Table[snowflake.ID, snowflake.ID, model.Channel])(nil)

// NewTable creates an empty table for def.
func NewTable[K, P repository.Key, V any](def repository.Table[K, P, V]) *Table[K, P, V] {
	return &Table[K, P, V]{def: def, rows: make(map[K]V)}
}

// Upsert stores v under its key.
func (t *Table[K, P, V]) Upsert(_ context.Context, v V) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[t.def.Key(v)] = v
	return nil
}

// Delete removes the row with key.
func (t *Table[K, P, V]) Delete(_ context.Context, key K) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, key)
	return nil
}

// Get returns a copy of the row with key.
func (t *Table[K, P, V]) Get(_ context.Context, key K) (*V, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[key]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &v, nil
}

// DeleteByParent removes every row owned by parent.
func (t *Table[K, P, V]) DeleteByParent(_ context.Context, parent P) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for k, v := range t.rows {
		if t.def.Parent(v) == parent {
			delete(t.rows, k)
		}
	}
	return nil
}

// ListByParent returns the rows owned by parent in no particular order.
func (t *Table[K, P, V]) ListByParent(_ context.Context, parent P) ([]V, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []V
	for _, v := range t.rows {
		if t.def.Parent(v) == parent {
			out = append(out, v)
		}
	}
	return out, nil
}

// Len returns the number of rows.
func (t *Table[K, P, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}
