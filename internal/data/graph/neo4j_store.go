package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/heraldry-backend/internal/platform/logger"
	"github.com/yungbote/heraldry-backend/internal/platform/neo4jdb"
)

type Neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jStore(client *neo4jdb.Client, baseLog *logger.Logger) (*Neo4jStore, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("graph: neo4j client required")
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Neo4jStore{client: client, log: baseLog.With("store", "Neo4jGraph")}, nil
}

func (s *Neo4jStore) ExecuteRead(ctx context.Context, fn func(tx Tx) error) error {
	session := s.client.Session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	_, err := session.ExecuteRead(ctx, func(mtx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&neo4jTx{tx: mtx})
	})
	return err
}

func (s *Neo4jStore) ExecuteWrite(ctx context.Context, fn func(tx Tx) error) error {
	session := s.client.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(mtx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(&neo4jTx{tx: mtx, writable: true})
	})
	return err
}

func (s *Neo4jStore) NewID() string { return uuid.NewString() }

func (s *Neo4jStore) Ping(ctx context.Context) error { return s.client.Ping(ctx) }

func (s *Neo4jStore) Close(ctx context.Context) error { return s.client.Close(ctx) }

var schemaStatements = []string{
	`CREATE CONSTRAINT location_uuid_unique IF NOT EXISTS FOR (n:Location) REQUIRE n.uuid IS UNIQUE`,
	`CREATE CONSTRAINT term_uuid_unique IF NOT EXISTS FOR (n:Term) REQUIRE n.uuid IS UNIQUE`,
	`CREATE CONSTRAINT chain_uuid_unique IF NOT EXISTS FOR (n:Chain) REQUIRE n.uuid IS UNIQUE`,
	`CREATE CONSTRAINT coa_uuid_unique IF NOT EXISTS FOR (n:CoA) REQUIRE n.uuid IS UNIQUE`,
	`CREATE INDEX term_name IF NOT EXISTS FOR (n:Term) ON (n.name)`,
	`CREATE INDEX coa_name IF NOT EXISTS FOR (n:CoA) ON (n.name)`,
}

// EnsureSchema creates the uniqueness constraints and name indexes. Every
// statement is attempted; failures are logged and returned joined.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.client.Session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	var errs []error
	for _, q := range schemaStatements {
		res, err := session.Run(ctx, q, nil)
		if err == nil {
			_, err = res.Consume(ctx)
		}
		if err != nil {
			s.log.Warn("neo4j schema init failed (continuing)", "statement", q, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type neo4jTx struct {
	tx       neo4j.ManagedTransaction
	writable bool
}

func (t *neo4jTx) mutate() error {
	if !t.writable {
		return ErrReadOnly
	}
	return nil
}

func (t *neo4jTx) collect(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	res, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return res.Collect(ctx)
}

func (t *neo4jTx) exec(ctx context.Context, cypher string, params map[string]any) error {
	if err := t.mutate(); err != nil {
		return err
	}
	res, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

// write runs a mutating statement and returns its rows.
func (t *neo4jTx) write(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	if err := t.mutate(); err != nil {
		return nil, err
	}
	return t.collect(ctx, cypher, params)
}
