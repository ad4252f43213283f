package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/surrealdb/surrealdb.go"
)

const healthCheckInterval = 30 * time.Second

// Connection owns one SurrealDB connection and tracks its health.
type Connection struct {
	cfg     Settings
	mu      sync.RWMutex
	conn    *surrealdb.DB
	healthy bool
	done    chan struct{}
	once    sync.Once
}

// NewConnection creates an unconnected Connection.
func NewConnection(cfg Settings) *Connection {
	return &Connection{cfg: cfg, done: make(chan struct{})}
}

// Connect establishes the connection. It is a no-op when already connected.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}
	conn, err := NewDB(ctx, c.cfg)
	if err != nil {
		c.healthy = false
		return err
	}
	c.conn = conn
	c.healthy = true
	return nil
}

// DB returns the connection when it is healthy.
func (c *Connection) DB() (*surrealdb.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil || !c.healthy {
		return nil, NewDBError(ErrNotConnected, "database not connected or unhealthy")
	}
	return c.conn, nil
}

// IsHealthy returns the outcome of the last health check.
func (c *Connection) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthy
}

// StartMonitoring checks the connection periodically until Close.
func (c *Connection) StartMonitoring() {
	go func() {
		ticker := time.NewTicker(healthCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := c.checkHealth(ctx); err != nil {
					slog.WarnContext(ctx, "Database health check failed", "error", err, "db_url", redactDBURL(c.cfg.GetDBURL()))
				}
				cancel()
			case <-c.done:
				return
			}
		}
	}()
}

// Close stops monitoring and closes the connection.
func (c *Connection) Close(ctx context.Context) error {
	c.once.Do(func() { close(c.done) })
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(ctx)
	c.conn = nil
	c.healthy = false
	return err
}

func (c *Connection) checkHealth(ctx context.Context) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		c.setHealthy(false)
		return errors.New("no active database connection")
	}
	// Version is the cheapest round trip the server offers.
	if _, err := conn.Version(ctx); err != nil {
		c.setHealthy(false)
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.setHealthy(true)
	return nil
}

func (c *Connection) setHealthy(v bool) {
	c.mu.Lock()
	c.healthy = v
	c.mu.Unlock()
}

// redactDBURL returns dbURL with its password masked.
func redactDBURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsedURL.Redacted()
}
