// internal/cursor/resolver.go
package cursor

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/storage"
)

var (
	// ErrBoundaryNotFound means the "until" reference could not be matched
	// to any transaction-bearing ancestor block.
	ErrBoundaryNotFound = errors.New("until block not found: no transaction-bearing ancestor")
	// ErrBlockMismatch means an explicitly supplied "after" block or
	// transaction reference could not be resolved consistently.
	ErrBlockMismatch = errors.New("after block/transaction mismatch")
)

// After is the optional anchor half of a pagination request.
type After struct {
	BlockHash string
	TxHash    string
}

// Request is one cursor-resolution request.
type Request struct {
	UntilBlockHash string
	After          *After
}

// Resolver turns block/transaction references into absolute ordinal page
// bounds. It holds no state across requests.
type Resolver struct {
	store  storage.Store
	logger *zap.Logger
}

// NewResolver creates a Resolver over a graph store.
func NewResolver(store storage.Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

// Resolve runs the boundary search, the anchor search when an after cursor
// was supplied, validates both, and assembles the bounds. Every failure is
// request-fatal: no partial bounds are ever returned.
func (r *Resolver) Resolve(ctx context.Context, req Request) (model.CursorBounds, error) {
	boundary, err := r.store.BoundaryTx(ctx, req.UntilBlockHash)
	if err != nil {
		return model.CursorBounds{}, fmt.Errorf("boundary search: %w", err)
	}
	if boundary == nil {
		return model.CursorBounds{}, ErrBoundaryNotFound
	}

	bounds := model.CursorBounds{
		UntilTx:    boundary.UntilTx,
		UntilBlock: boundary.UntilBlock,
	}

	if req.After == nil {
		return bounds, nil
	}

	// an empty tx hash is passed through as-is: it matches nothing in the
	// graph, yielding an absent transaction anchor by design
	anchor, err := r.store.AnchorTx(ctx, req.After.BlockHash, req.After.TxHash)
	if err != nil {
		return model.CursorBounds{}, fmt.Errorf("anchor search: %w", err)
	}
	if anchor == nil {
		// an after block was requested but no block matched
		return model.CursorBounds{}, ErrBlockMismatch
	}
	if req.After.TxHash != "" && (anchor.TxOrdinal == nil || anchor.TxIndex == nil) {
		// the after transaction was requested but its identity and in-block
		// ordinal could not both be resolved; never silently zero it
		r.logger.Debug("after transaction did not resolve under its block",
			zap.String("after_block", req.After.BlockHash),
			zap.String("after_tx", req.After.TxHash))
		return model.CursorBounds{}, ErrBlockMismatch
	}

	bounds.AfterBlock = anchor.BlockNumber
	if anchor.TxOrdinal != nil {
		bounds.AfterTx = *anchor.TxOrdinal
	}
	if anchor.TxIndex != nil {
		bounds.AfterTxIndex = *anchor.TxIndex
	}
	return bounds, nil
}
