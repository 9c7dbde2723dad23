package couchbase

import "context"

// Client bundles the connection, document access and seed lock used by
// the ticket mirror and the seed job.
type Client struct {
	connManager *ConnectionManager
	docManager  *DocumentManager
	locker      *DatabaseLocker
}

// NewClient connects to Couchbase. owner names this process in the lock
// document.
func NewClient(ctx context.Context, cfg Config, owner string) (*Client, error) {
	connManager, err := NewConnectionManager(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		connManager: connManager,
		docManager:  NewDocumentManager(connManager.GetBucket()),
		locker:      NewDatabaseLocker(connManager.GetBucket(), owner),
	}, nil
}

// Close closes the Couchbase connection
func (c *Client) Close() error {
	return c.connManager.Close()
}

// GetLocker returns the database locker
func (c *Client) GetLocker() *DatabaseLocker {
	return c.locker
}
