package graph

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/repository"
)

// row is the property set of a stored node.
type row struct {
	ID     string `mapstructure:"id"`
	Parent string `mapstructure:"parent"`
	Data   string `mapstructure:"data"`
}

// Nodes stores one entity as nodes labelled with the table name.
type Nodes[K, P repository.Key, V any] struct {
	x   Executor
	def repository.Table[K, P, V]

	upsert       string
	deleteOne    string
	deleteParent string
	get          string
	list         string
}

// NewNodes builds the statements for def.
func NewNodes[K, P repository.Key, V any](x Executor, def repository.Table[K, P, V]) *Nodes[K, P, V] {
	l := label(def.Name)
	return &Nodes[K, P, V]{
		x:            x,
		def:          def,
		upsert:       `MERGE (n:` + l + ` {id: $id}) SET n.parent = $parent, n.data = $data`,
		deleteOne:    `MATCH (n:` + l + ` {id: $id}) DELETE n`,
		deleteParent: `MATCH (n:` + l + ` {parent: $parent}) DELETE n`,
		get:          `MATCH (n:` + l + ` {id: $id}) RETURN n`,
		list:         `MATCH (n:` + l + ` {parent: $parent}) RETURN n`,
	}
}

func label(name string) string { return "`" + name + "`" }

// Upsert merges the node with v's key and replaces its properties.
func (n *Nodes[K, P, V]) Upsert(ctx context.Context, v V) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s node: %w", n.def.Name, err)
	}
	_, err = n.x.Execute(ctx, n.upsert, map[string]any{
		"id":     n.def.Key(v).String(),
		"parent": n.def.Parent(v).String(),
		"data":   string(data),
	})
	return err
}

// Delete removes the node with key; a missing node is not an error.
func (n *Nodes[K, P, V]) Delete(ctx context.Context, key K) error {
	_, err := n.x.Execute(ctx, n.deleteOne, map[string]any{"id": key.String()})
	return err
}

// Get loads the node with key or returns errs.ErrNotFound.
func (n *Nodes[K, P, V]) Get(ctx context.Context, key K) (*V, error) {
	records, err := n.x.Execute(ctx, n.get, map[string]any{"id": key.String()})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errs.ErrNotFound
	}
	v, err := decode[V](records[0], "n", n.def.Name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteByParent removes every node owned by parent with one statement.
func (n *Nodes[K, P, V]) DeleteByParent(ctx context.Context, parent P) error {
	_, err := n.x.Execute(ctx, n.deleteParent, map[string]any{"parent": parent.String()})
	return err
}

// ListByParent returns every node owned by parent, in no particular order.
func (n *Nodes[K, P, V]) ListByParent(ctx context.Context, parent P) ([]V, error) {
	records, err := n.x.Execute(ctx, n.list, map[string]any{"parent": parent.String()})
	if err != nil {
		return nil, err
	}
	return decodeAll[V](records, "n", n.def.Name)
}

func decodeAll[V any](records []*neo4j.Record, key, name string) ([]V, error) {
	out := make([]V, 0, len(records))
	for _, rec := range records {
		v, err := decode[V](rec, key, name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// decode reads the node bound to key in rec and unmarshals its data property.
func decode[V any](rec *neo4j.Record, key, name string) (V, error) {
	var v V
	raw, ok := rec.Get(key)
	if !ok {
		return v, fmt.Errorf("%s record without %q: %w", name, key, errs.ErrMalformedState)
	}
	node, ok := raw.(neo4j.Node)
	if !ok {
		return v, fmt.Errorf("%s record %q is %T: %w", name, key, raw, errs.ErrMalformedState)
	}
	var r row
	if err := mapstructure.Decode(node.Props, &r); err != nil {
		return v, fmt.Errorf("decode %s node: %w", name, err)
	}
	if err := json.Unmarshal([]byte(r.Data), &v); err != nil {
		return v, fmt.Errorf("decode %s node %s: %w", name, r.ID, err)
	}
	return v, nil
}
