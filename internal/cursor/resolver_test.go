package cursor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/storage"
)

type fakeStore struct {
	boundary      *storage.BoundaryResult
	boundaryErr   error
	anchor        *storage.AnchorResult
	anchorErr     error
	boundaryCalls int
	anchorCalls   int
}

func (f *fakeStore) BestBlock(ctx context.Context) (model.Block, error) {
	return model.Block{}, nil
}

func (f *fakeStore) BoundaryTx(ctx context.Context, untilBlockHash string) (*storage.BoundaryResult, error) {
	f.boundaryCalls++
	return f.boundary, f.boundaryErr
}

func (f *fakeStore) AnchorTx(ctx context.Context, afterBlockHash, afterTxHash string) (*storage.AnchorResult, error) {
	f.anchorCalls++
	return f.anchor, f.anchorErr
}

func (f *fakeStore) TxHistory(ctx context.Context, addresses []string, bounds model.CursorBounds, limit int) ([]model.RawTxRecord, error) {
	return nil, nil
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }

func i64(n int64) *int64 { return &n }

func newResolver(store storage.Store) *Resolver {
	return NewResolver(store, zap.NewNop())
}

func TestResolveWithoutAfterCursor(t *testing.T) {
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 5126500, UntilBlock: 4650210},
	}

	bounds, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "until-hash",
	})
	require.NoError(t, err)

	assert.Equal(t, model.CursorBounds{
		UntilTx:    5126500,
		UntilBlock: 4650210,
	}, bounds)

	// absent after fields never trigger the anchor query
	assert.Equal(t, 1, store.boundaryCalls)
	assert.Equal(t, 0, store.anchorCalls)
}

func TestResolveEmptyUntilBlockUsesPredecessor(t *testing.T) {
	// the until block has zero transactions; the traversal lands on its
	// predecessor, and that block's number is what comes back
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 5126000, UntilBlock: 4650209},
	}

	bounds, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "empty-block-hash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4650209), bounds.UntilBlock)
}

func TestResolveBoundaryNotFound(t *testing.T) {
	store := &fakeStore{}

	_, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "unknown",
	})
	require.ErrorIs(t, err, ErrBoundaryNotFound)
}

func TestResolveBoundaryQueryFailure(t *testing.T) {
	store := &fakeStore{boundaryErr: errors.New("connection reset")}

	_, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "h",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrBoundaryNotFound)
}

func TestResolveFullCursor(t *testing.T) {
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 5126500, UntilBlock: 4650210},
		anchor: &storage.AnchorResult{
			BlockNumber: 4650100,
			TxOrdinal:   i64(5120040),
			TxIndex:     i64(3),
		},
	}

	bounds, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "until-hash",
		After:          &After{BlockHash: "after-hash", TxHash: "after-tx"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.CursorBounds{
		UntilTx:      5126500,
		UntilBlock:   4650210,
		AfterTx:      5120040,
		AfterBlock:   4650100,
		AfterTxIndex: 3,
	}, bounds)
	assert.Equal(t, 1, store.anchorCalls)
}

func TestResolveAfterBlockWithoutTxHash(t *testing.T) {
	// naming a block but no transaction resolves the block alone; the
	// transaction ordinals substitute zero
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 10, UntilBlock: 20},
		anchor:   &storage.AnchorResult{BlockNumber: 15},
	}

	bounds, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "until-hash",
		After:          &After{BlockHash: "after-hash"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15), bounds.AfterBlock)
	assert.Equal(t, int64(0), bounds.AfterTx)
	assert.Equal(t, int64(0), bounds.AfterTxIndex)
}

func TestResolveAfterBlockMissing(t *testing.T) {
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 10, UntilBlock: 20},
	}

	_, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "until-hash",
		After:          &After{BlockHash: "no-such-block"},
	})
	require.ErrorIs(t, err, ErrBlockMismatch)
}

func TestResolveAfterTxMissingUnderBlock(t *testing.T) {
	// the block matched but the named transaction did not; this must fail,
	// never silently zero the ordinal
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 10, UntilBlock: 20},
		anchor:   &storage.AnchorResult{BlockNumber: 15},
	}

	_, err := newResolver(store).Resolve(context.Background(), Request{
		UntilBlockHash: "until-hash",
		After:          &After{BlockHash: "after-hash", TxHash: "no-such-tx"},
	})
	require.ErrorIs(t, err, ErrBlockMismatch)
}
