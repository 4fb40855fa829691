// internal/storage/neo4j.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/patrickmn/go-cache"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/config"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
)

// boundaryQuery walks the block chain backward from the "until" reference
// to the nearest transaction-bearing block (preferring the reference block
// itself) and takes its earliest transaction. The traversal depth is capped
// so a broken chain link cannot walk the whole graph; a production chain
// never approaches that many consecutive empty blocks.
const boundaryQuery = `
MATCH (until:Block {hash: $until_block})
MATCH (until)-[:PREDECESSOR*0..1000]->(boundary:Block)
WHERE boundary.tx_count > 0
WITH boundary ORDER BY boundary.number DESC LIMIT 1
MATCH (tx:TX)-[:isAt]->(boundary)
WITH tx, boundary ORDER BY tx.tx_index ASC LIMIT 1
RETURN tx.ordinal AS until_tx, boundary.number AS until_block`

// anchorQuery matches the "after" cursor's block and optionally its
// transaction. Absence of the transaction yields null ordinals, absence of
// the block yields no record.
const anchorQuery = `
MATCH (after_block:Block {hash: $after_block})
OPTIONAL MATCH (after_tx:TX {hash: $after_tx})-[:isAt]->(after_block)
RETURN after_block.number AS after_block_number,
       after_tx.ordinal AS after_tx,
       after_tx.tx_index AS after_tx_index
LIMIT 1`

const bestBlockQuery = `
MATCH (b:Block)
RETURN b.number AS number, b.hash AS hash, b.era AS era,
       b.epoch AS epoch, b.epoch_slot AS epoch_slot, b.slot AS slot
ORDER BY b.number DESC LIMIT 1`

// historyQuery fetches one page window of transactions touching the given
// addresses, with each sub-collection gathered independently per record.
const historyQuery = `
MATCH (tx:TX)-[:isAt]->(block:Block)
WHERE tx.ordinal > $after_tx AND tx.ordinal <= $until_tx
  AND (
    EXISTS { MATCH (tx)-[:produces]->(o:TX_OUT) WHERE o.address IN $addresses }
    OR EXISTS { MATCH (tx)-[:consumes]->(:TX_IN)-[:resolvesTo]->(src:TX_OUT) WHERE src.address IN $addresses }
  )
WITH tx, block ORDER BY tx.ordinal ASC LIMIT $limit
CALL {
  WITH tx
  MATCH (tx)-[:produces]->(o:TX_OUT)
  OPTIONAL MATCH (o)-[:hasAsset]->(a:ASSET)
  WITH o, collect(a { .policy, .name, .quantity }) AS assets
  ORDER BY o.output_index ASC
  RETURN collect(o { .address, .amount, .datum_hash, assets: assets }) AS outputs
}
CALL {
  WITH tx
  MATCH (tx)-[:consumes]->(i:TX_IN)
  OPTIONAL MATCH (i)-[:resolvesTo]->(src:TX_OUT)
  OPTIONAL MATCH (src)-[:hasAsset]->(a:ASSET)
  WITH i, src, collect(a { .policy, .name, .quantity }) AS assets
  ORDER BY i.input_index ASC
  RETURN collect({
    source_tx_hash: i.source_tx_hash,
    source_output_index: i.source_output_index,
    source: src { .address, .amount, assets: assets }
  }) AS inputs
}
CALL {
  WITH tx
  MATCH (tx)-[:collateralizes]->(i:TX_IN)
  OPTIONAL MATCH (i)-[:resolvesTo]->(src:TX_OUT)
  OPTIONAL MATCH (src)-[:hasAsset]->(a:ASSET)
  WITH i, src, collect(a { .policy, .name, .quantity }) AS assets
  ORDER BY i.input_index ASC
  RETURN collect({
    source_tx_hash: i.source_tx_hash,
    source_output_index: i.source_output_index,
    source: src { .address, .amount, assets: assets }
  }) AS collateral_inputs
}
CALL {
  WITH tx
  MATCH (tx)-[:withdraws]->(w:WITHDRAWAL)
  RETURN collect(w { .address, .amount }) AS withdrawals
}
CALL {
  WITH tx
  MATCH (tx)-[:certifies]->(c:CERTIFICATE)
  WITH c ORDER BY c.cert_index ASC
  RETURN collect(c { .* }) AS certificates
}
CALL {
  WITH tx
  MATCH (tx)-[:attaches]->(s:SCRIPT)
  RETURN collect(s { .hash, .script_hex }) AS scripts
}
RETURN tx { .hash, .fee, .metadata, .is_valid, .tx_index } AS tx,
       block { .number, .hash, .previous_hash, .era, .epoch, .epoch_slot, .slot, .tx_count } AS block,
       outputs, inputs, collateral_inputs, withdrawals, certificates, scripts`

const bestBlockCacheKey = "best_block"

// Neo4jStore implements the Store interface against a Neo4j graph.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	cache    *cache.Cache
}

// NewNeo4jStore creates a new Neo4jStore instance.
func NewNeo4jStore(ctx context.Context, cfg config.Neo4jConfig, cacheCfg config.CacheConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach neo4j: %w", err)
	}

	ttl := time.Duration(cacheCfg.BestBlockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Second
	}

	return &Neo4jStore{
		driver:   driver,
		database: cfg.Database,
		cache:    cache.New(ttl, 2*ttl),
	}, nil
}

// Close closes the driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// read opens a session scoped to one call and runs fn inside a managed
// read transaction. The session is released on every exit path.
func (s *Neo4jStore) read(ctx context.Context, fn neo4j.ManagedTransactionWork) (any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)
	return session.ExecuteRead(ctx, fn)
}

// BestBlock implements Store; the lookup is fronted by a short-TTL cache.
func (s *Neo4jStore) BestBlock(ctx context.Context) (model.Block, error) {
	if cached, found := s.cache.Get(bestBlockCacheKey); found {
		return cached.(model.Block), nil
	}

	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, bestBlockQuery, nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return model.Block{
			Number:    recordInt64(record, "number"),
			Hash:      recordString(record, "hash"),
			Era:       recordString(record, "era"),
			Epoch:     recordInt64(record, "epoch"),
			EpochSlot: recordInt64(record, "epoch_slot"),
			Slot:      recordInt64(record, "slot"),
		}, nil
	})
	if err != nil {
		return model.Block{}, fmt.Errorf("best block query failed: %w", err)
	}

	block := result.(model.Block)
	s.cache.Set(bestBlockCacheKey, block, cache.DefaultExpiration)
	return block, nil
}

// BoundaryTx implements Store.
func (s *Neo4jStore) BoundaryTx(ctx context.Context, untilBlockHash string) (*BoundaryResult, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, boundaryQuery, map[string]any{
			"until_block": untilBlockHash,
		})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return (*BoundaryResult)(nil), nil
		}
		return &BoundaryResult{
			UntilTx:    recordInt64(records[0], "until_tx"),
			UntilBlock: recordInt64(records[0], "until_block"),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("boundary query failed: %w", err)
	}
	return result.(*BoundaryResult), nil
}

// AnchorTx implements Store.
func (s *Neo4jStore) AnchorTx(ctx context.Context, afterBlockHash, afterTxHash string) (*AnchorResult, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, anchorQuery, map[string]any{
			"after_block": afterBlockHash,
			"after_tx":    afterTxHash,
		})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return (*AnchorResult)(nil), nil
		}
		return &AnchorResult{
			BlockNumber: recordInt64(records[0], "after_block_number"),
			TxOrdinal:   recordOptInt64(records[0], "after_tx"),
			TxIndex:     recordOptInt64(records[0], "after_tx_index"),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("anchor query failed: %w", err)
	}
	return result.(*AnchorResult), nil
}

// TxHistory implements Store.
func (s *Neo4jStore) TxHistory(ctx context.Context, addresses []string, bounds model.CursorBounds, limit int) ([]model.RawTxRecord, error) {
	result, err := s.read(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, historyQuery, map[string]any{
			"addresses": addresses,
			"after_tx":  bounds.AfterTx,
			"until_tx":  bounds.UntilTx,
			"limit":     limit,
		})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		rows := make([]model.RawTxRecord, 0, len(records))
		for _, record := range records {
			row, err := parseTxRecord(record)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		return rows, nil
	})
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	return result.([]model.RawTxRecord), nil
}
