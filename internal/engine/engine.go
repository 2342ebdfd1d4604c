// Package engine wires a database adapter to the schema manager and record store.
// The adapter is connected lazily on first use and shared by every consumer.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/autocrud/internal/schema"
	"github.com/leapstack-labs/autocrud/internal/store"
	"github.com/leapstack-labs/autocrud/pkg/adapter"
)

// Engine owns the single adapter of a process.
type Engine struct {
	// Database adapter (lazy initialized)
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	schema *schema.Manager
	store  *store.Store

	// Structured logger
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// AdapterConfig contains the full adapter configuration
	AdapterConfig adapter.Config
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates a new engine with lazy database connection.
// The adapter type is checked against the registry immediately; the
// connection is only opened by Connect, Schema or Store.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.AdapterConfig.Type == "" {
		return nil, fmt.Errorf("adapter type is required")
	}
	if !adapter.IsRegistered(cfg.AdapterConfig.Type) {
		return nil, &adapter.UnknownAdapterError{
			Type:      cfg.AdapterConfig.Type,
			Available: adapter.ListAdapters(),
		}
	}

	logger.Debug("initializing engine", "adapter_type", cfg.AdapterConfig.Type)

	return &Engine{
		dbConfig: cfg.AdapterConfig,
		logger:   logger,
	}, nil
}

// NewWithAdapter creates an engine around an adapter that is already connected.
func NewWithAdapter(db adapter.Adapter, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	e := &Engine{logger: logger}
	e.attach(db)
	return e
}

// Connect opens the database connection if it is not open yet.
func (e *Engine) Connect(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}

	e.logger.Debug("connecting to database", "adapter_type", e.dbConfig.Type)

	db, err := adapter.NewAdapter(e.dbConfig, e.logger)
	if err != nil {
		return fmt.Errorf("failed to create database adapter: %w", err)
	}

	if err := db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	e.attach(db)
	e.logger.Debug("database connected", "dialect", db.Dialect().Name)
	return nil
}

func (e *Engine) attach(db adapter.Adapter) {
	e.db = db
	e.dbConnected = true
	e.schema = schema.New(db, e.logger)
	e.store = store.New(db, e.logger)
}

// Schema returns the schema manager, connecting first if needed.
func (e *Engine) Schema(ctx context.Context) (*schema.Manager, error) {
	if err := e.Connect(ctx); err != nil {
		return nil, err
	}
	return e.schema, nil
}

// Store returns the record store, connecting first if needed.
func (e *Engine) Store(ctx context.Context) (*store.Store, error) {
	if err := e.Connect(ctx); err != nil {
		return nil, err
	}
	return e.store, nil
}

// Adapter returns the connected adapter, or nil before Connect.
func (e *Engine) Adapter() adapter.Adapter {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()
	return e.db
}

// Close releases the database connection.
func (e *Engine) Close() error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	e.logger.Debug("closing engine")

	if e.db == nil {
		return nil
	}
	err := e.db.Close()
	e.db = nil
	e.dbConnected = false
	e.schema = nil
	e.store = nil
	if err != nil {
		return fmt.Errorf("errors closing engine: %w", err)
	}
	return nil
}
