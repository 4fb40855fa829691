package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/address"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/cursor"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/era"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/model"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/storage"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/transformer"
)

type fakeStore struct {
	boundary *storage.BoundaryResult
	anchor   *storage.AnchorResult
	records  []model.RawTxRecord
	best     model.Block
}

func (f *fakeStore) BestBlock(ctx context.Context) (model.Block, error) {
	return f.best, nil
}

func (f *fakeStore) BoundaryTx(ctx context.Context, untilBlockHash string) (*storage.BoundaryResult, error) {
	return f.boundary, nil
}

func (f *fakeStore) AnchorTx(ctx context.Context, afterBlockHash, afterTxHash string) (*storage.AnchorResult, error) {
	return f.anchor, nil
}

func (f *fakeStore) TxHistory(ctx context.Context, addresses []string, bounds model.CursorBounds, limit int) ([]model.RawTxRecord, error) {
	return f.records, nil
}

func (f *fakeStore) Close(ctx context.Context) error { return nil }

func newTestServer(store storage.Store) *Server {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	tr := transformer.New(era.MainnetConstants, address.NewCanonicalizer(address.NewCardanoCodec(1)))
	return NewServer(store, cursor.NewResolver(store, logger), tr, "mainnet", logger)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestStatus(t *testing.T) {
	w := doRequest(newTestServer(&fakeStore{}), http.MethodGet, "/v2/status", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["isServerOk"])
	assert.Equal(t, "mainnet", body["network"])
}

func TestBestBlock(t *testing.T) {
	store := &fakeStore{
		best: model.Block{Number: 4650212, Hash: "tip", Era: "alonzo", Epoch: 211},
	}

	w := doRequest(newTestServer(store), http.MethodGet, "/v2/bestblock", "")
	require.Equal(t, http.StatusOK, w.Code)

	var block model.Block
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &block))
	assert.Equal(t, int64(4650212), block.Number)
	assert.Equal(t, "tip", block.Hash)
}

func TestTxsHistoryValidation(t *testing.T) {
	s := newTestServer(&fakeStore{})

	tests := []struct {
		name string
		body string
	}{
		{"missing addresses", `{"untilBlock":"h"}`},
		{"missing until block", `{"addresses":["addr1"]}`},
		{"malformed json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, http.MethodPost, "/v2/txs/history", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestTxsHistory(t *testing.T) {
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 100, UntilBlock: 50},
		records: []model.RawTxRecord{
			{
				Hash:    "t1",
				Fee:     "171089",
				IsValid: true,
				Block: model.RawBlock{
					Number:       50,
					Hash:         "bh",
					Era:          "shelley",
					Epoch:        211,
					AbsoluteSlot: 4492800,
				},
			},
		},
	}

	w := doRequest(newTestServer(store), http.MethodPost, "/v2/txs/history",
		`{"addresses":["addr1xyz"],"untilBlock":"bh"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var txs []model.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &txs))
	require.Len(t, txs, 1)
	assert.Equal(t, "t1", txs[0].Hash)
	assert.Equal(t, "171089", txs[0].Fee)
	assert.Equal(t, model.TxStateSuccessful, txs[0].TxState)
}

func TestTxsHistoryBoundaryMismatch(t *testing.T) {
	// no transaction-bearing ancestor for the until reference
	w := doRequest(newTestServer(&fakeStore{}), http.MethodPost, "/v2/txs/history",
		`{"addresses":["addr1xyz"],"untilBlock":"unknown"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTxsHistoryAfterMismatch(t *testing.T) {
	store := &fakeStore{
		boundary: &storage.BoundaryResult{UntilTx: 100, UntilBlock: 50},
	}

	w := doRequest(newTestServer(store), http.MethodPost, "/v2/txs/history",
		`{"addresses":["addr1xyz"],"untilBlock":"bh","after":{"block":"nope","tx":"t"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
