// internal/storage/storage.go
package storage

import (
	"context"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
)

// BoundaryResult is the outcome of the boundary traversal: the earliest
// transaction (by in-block ordinal) of the nearest transaction-bearing
// block at or before the requested block, and that block's number.
type BoundaryResult struct {
	UntilTx    int64
	UntilBlock int64
}

// AnchorResult is the outcome of the anchor lookup. TxOrdinal and TxIndex
// are nil when no transaction matched; that is optional-match semantics,
// not an error at this layer.
type AnchorResult struct {
	BlockNumber int64
	TxOrdinal   *int64
	TxIndex     *int64
}

// Store defines the read operations against the graph store.
type Store interface {
	// BestBlock returns the chain tip projection.
	BestBlock(ctx context.Context) (model.Block, error)
	// BoundaryTx runs the boundary traversal for an "until" block hash.
	// A nil result means no transaction-bearing ancestor was found.
	BoundaryTx(ctx context.Context, untilBlockHash string) (*BoundaryResult, error)
	// AnchorTx looks up an "after" cursor's block and, independently, its
	// transaction. A nil result means the block did not match at all.
	AnchorTx(ctx context.Context, afterBlockHash, afterTxHash string) (*AnchorResult, error)
	// TxHistory fetches the raw transaction records of one page window for
	// the given addresses.
	TxHistory(ctx context.Context, addresses []string, bounds model.CursorBounds, limit int) ([]model.RawTxRecord, error)
	Close(ctx context.Context) error
}
