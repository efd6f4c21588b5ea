// Package graph implements the backend contract on Neo4j. Every row is a node labelled
// with its table name that carries id, parent and a JSON data property.
package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// Executor runs one Cypher statement and returns every record it produced.
type Executor interface {
	Execute(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// Connection is an Executor backed by a Neo4j driver.
type Connection struct {
	driver   neo4j.DriverWithContext
	database string
	log      *zap.Logger
}

// Connect opens a driver and verifies the server is reachable.
func Connect(ctx context.Context, uri, user, password, database string, log *zap.Logger) (*Connection, error) {
	if log == nil {
		log = zap.NewNop()
	}
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	log.Info("neo4j connection established", zap.String("uri", uri), zap.String("database", database))
	return &Connection{driver: driver, database: database, log: log}, nil
}

// Execute runs cypher with params against the configured database.
func (c *Connection) Execute(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	c.log.Debug("cypher", zap.String("stmt", cypher))
	res, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(c.database))
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// Close releases the driver.
func (c *Connection) Close(ctx context.Context) error { return c.driver.Close(ctx) }
