// Package graphsync mirrors the lemma graph (synonym and hypernym edges of
// the aggregated entries) into Neo4j.
package graphsync

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/heartmarshall/lexigraph/internal/config"
)

// Client owns a Neo4j driver and the target database name.
type Client struct {
	Driver   neo4j.DriverWithContext
	Database string
}

// Connect creates a driver and verifies connectivity.
// It returns (nil, nil) when no URI is configured.
func Connect(ctx context.Context, cfg config.GraphConfig) (*Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	auth := neo4j.BasicAuth(cfg.User, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(c *neo4j.Config) {
		c.MaxConnectionPoolSize = cfg.MaxPoolSize
		c.SocketConnectTimeout = cfg.Timeout
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j: init driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j: verify connectivity: %w", err)
	}

	return &Client{Driver: driver, Database: cfg.Database}, nil
}

// Close releases the driver. Safe on a nil client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Driver == nil {
		return nil
	}
	err := c.Driver.Close(ctx)
	c.Driver = nil
	return err
}
