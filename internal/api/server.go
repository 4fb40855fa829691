package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/cursor"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/storage"
	"github.com/teddyjfpender/yoroi-graphql-migration-backend/internal/transformer"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// Server holds the dependencies for the API server.
type Server struct {
	storage     storage.Store
	resolver    *cursor.Resolver
	transformer *transformer.Transformer
	network     string
	logger      *zap.Logger
	router      *gin.Engine
}

// NewServer creates a new API server.
func NewServer(store storage.Store, resolver *cursor.Resolver, transformer *transformer.Transformer, network string, logger *zap.Logger) *Server {
	server := &Server{
		storage:     store,
		resolver:    resolver,
		transformer: transformer,
		network:     network,
		logger:      logger,
	}
	server.setupRouter()
	return server
}

func (s *Server) setupRouter() {
	router := gin.Default()

	v2 := router.Group("/v2")
	{
		v2.POST("/txs/history", s.txsHistory)
		v2.GET("/bestblock", s.bestBlock)
		v2.GET("/status", s.status)
	}

	s.router = router
}

// Start runs the HTTP server on a specific address.
func (s *Server) Start(address string) error {
	return s.router.Run(address)
}

type historyRequest struct {
	Addresses  []string `json:"addresses"`
	UntilBlock string   `json:"untilBlock"`
	After      *struct {
		Block string `json:"block"`
		Tx    string `json:"tx"`
	} `json:"after"`
	Limit int `json:"limit"`
}

func (s *Server) txsHistory(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if len(req.Addresses) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addresses is required"})
		return
	}
	if req.UntilBlock == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "untilBlock is required"})
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	resolveReq := cursor.Request{UntilBlockHash: req.UntilBlock}
	if req.After != nil {
		resolveReq.After = &cursor.After{
			BlockHash: req.After.Block,
			TxHash:    req.After.Tx,
		}
	}

	bounds, err := s.resolver.Resolve(c.Request.Context(), resolveReq)
	if err != nil {
		if errors.Is(err, cursor.ErrBoundaryNotFound) || errors.Is(err, cursor.ErrBlockMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("failed to resolve cursor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve cursor"})
		return
	}

	records, err := s.storage.TxHistory(c.Request.Context(), req.Addresses, bounds, limit)
	if err != nil {
		s.logger.Error("failed to fetch history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	txs, err := s.transformer.ToTransactions(records)
	if err != nil {
		s.logger.Error("failed to assemble transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assemble transactions"})
		return
	}

	c.JSON(http.StatusOK, txs)
}

func (s *Server) bestBlock(c *gin.Context) {
	block, err := s.storage.BestBlock(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to fetch best block", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch best block"})
		return
	}
	c.JSON(http.StatusOK, block)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"isServerOk": true,
		"network":    s.network,
	})
}
