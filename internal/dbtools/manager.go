// Package dbtools implements the database tool family: the Connection
// Manager, the Query/Transaction Executor, schema introspection, and
// the DDL/DML helper tools, wired against heterogeneous SQL backends
// through database/sql the way the teacher's sqlite store does for its
// single backend.
package dbtools

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/revittco/mcptoolkit/internal/kernel"
)

// Pool tuning, fixed per the connection manager's contract.
const (
	poolMaxSize               = 10
	poolMinIdle               = 2
	poolConnectTimeout        = 30 * time.Second
	poolIdleTimeout           = 600 * time.Second
	poolMaxLifetime           = 1800 * time.Second
	poolLeakDetectionThreshold = 60 * time.Second
)

// connection is one entry of the manager's map: the opened pool plus the
// config it was built from, for metrics and error messages.
type connection struct {
	db     *sql.DB
	dbType string
	connID string
}

// Manager owns connectionId -> pool and process-lifetime counters.
// Safe for concurrent use; individual *sql.DB pools serialise their own
// connection hand-out.
type Manager struct {
	mu    sync.RWMutex
	conns map[string]*connection

	totalQueries atomic.Int64
	totalErrors  atomic.Int64
}

// NewManager builds an empty Connection Manager.
func NewManager() *Manager {
	return &Manager{conns: make(map[string]*connection)}
}

// Connect opens and validates a new pool for connectionId. Fails if the
// id already exists, or if the pool cannot be opened or fails its
// liveness check; on any failure the map is left without a
// half-initialised entry.
func (m *Manager) Connect(ctx context.Context, connID string, cfg DatabaseConfig) error {
	m.mu.Lock()
	if _, exists := m.conns[connID]; exists {
		m.mu.Unlock()
		return kernel.Domainf("connection already exists: %s", connID)
	}
	m.mu.Unlock()

	driver, dsn, err := driverDSN(cfg)
	if err != nil {
		return kernel.Domainf("%s", err.Error())
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return kernel.Resourcef("open %s connection %s: %s", driver, connID, err.Error())
	}

	db.SetMaxOpenConns(poolMaxSize)
	db.SetMaxIdleConns(poolMinIdle)
	db.SetConnMaxIdleTime(poolIdleTimeout)
	db.SetConnMaxLifetime(poolMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, poolConnectTimeout)
	defer cancel()

	livenessCtx, cancelLiveness := context.WithTimeout(pingCtx, 5*time.Second)
	defer cancelLiveness()
	if err := db.PingContext(livenessCtx); err != nil {
		db.Close()
		return kernel.Resourcef("connect %s: liveness check failed: %s", connID, err.Error())
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.conns[connID]; exists {
		db.Close()
		return kernel.Domainf("connection already exists: %s", connID)
	}
	m.conns[connID] = &connection{db: db, dbType: canonicalType(cfg), connID: connID}
	return nil
}

// Disconnect removes and closes the pool for connectionId. Idempotent:
// a missing id is logged by the caller but is not itself a failure.
func (m *Manager) Disconnect(connID string) (found bool, err error) {
	m.mu.Lock()
	c, exists := m.conns[connID]
	if exists {
		delete(m.conns, connID)
	}
	m.mu.Unlock()

	if !exists {
		return false, nil
	}
	return true, c.db.Close()
}

// get looks up the pool for connectionId, failing with a not-found
// condition if absent or already closed.
func (m *Manager) get(connID string) (*connection, error) {
	m.mu.RLock()
	c, exists := m.conns[connID]
	m.mu.RUnlock()
	if !exists {
		return nil, kernel.NotFoundf("connection not found: %s", connID)
	}
	if err := c.db.Ping(); err != nil {
		return nil, kernel.Resourcef("connection %s closed: %s", connID, err.Error())
	}
	return c, nil
}

// ConnectionMetrics is one entry of the metrics map.
type ConnectionMetrics struct {
	Active int `json:"active"`
	Idle   int `json:"idle"`
	Total  int `json:"total"`
}

// Metrics is the result of the metrics() operation.
type Metrics struct {
	TotalQueries      int64                        `json:"totalQueries"`
	TotalErrors       int64                        `json:"totalErrors"`
	ActiveConnections int                           `json:"activeConnections"`
	Connections       map[string]ConnectionMetrics `json:"connections"`
}

// Metrics snapshots process-lifetime counters and per-pool stats.
func (m *Manager) Metrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns := make(map[string]ConnectionMetrics, len(m.conns))
	for id, c := range m.conns {
		st := c.db.Stats()
		conns[id] = ConnectionMetrics{
			Active: st.InUse,
			Idle:   st.Idle,
			Total:  st.OpenConnections,
		}
	}

	return Metrics{
		TotalQueries:      m.totalQueries.Load(),
		TotalErrors:       m.totalErrors.Load(),
		ActiveConnections: len(m.conns),
		Connections:       conns,
	}
}

// CloseAll closes every open pool. Used by the startup orchestrator's
// shutdown hook.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.conns {
		c.db.Close()
		delete(m.conns, id)
	}
}

func (m *Manager) recordQuery() { m.totalQueries.Add(1) }
func (m *Manager) recordError() { m.totalErrors.Add(1) }

func queryFailure(dbType, connID string, cause error) error {
	return kernel.Resourcef("Database operation failed for %s database (connection: %s): %s",
		dbType, connID, cause.Error())
}
