package couchbase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/couchbase/gocb/v2"
	"github.com/rs/zerolog/log"
)

// Config holds what is needed to reach the cluster
type Config struct {
	URL      string
	Username string
	Password string
	Bucket   string
}

// ConnectionManager handles Couchbase cluster and bucket connections
type ConnectionManager struct {
	cluster *gocb.Cluster
	bucket  *gocb.Bucket
}

// ConnectionString turns a configured URL into a gocb connection string.
// http:// hosts and bare hosts are dialled over couchbase://; explicit
// couchbase:// and couchbases:// URLs pass through.
func ConnectionString(url string) string {
	switch {
	case strings.HasPrefix(url, "couchbase://"), strings.HasPrefix(url, "couchbases://"):
		return url
	case strings.HasPrefix(url, "http://"):
		return "couchbase://" + strings.TrimPrefix(url, "http://")
	case strings.HasPrefix(url, "https://"):
		return "couchbases://" + strings.TrimPrefix(url, "https://")
	}
	return "couchbase://" + url
}

// NewConnectionManager connects to the cluster and waits for the bucket to
// accept key-value operations.
func NewConnectionManager(ctx context.Context, cfg Config) (*ConnectionManager, error) {
	connectionString := ConnectionString(cfg.URL)

	cluster, err := gocb.Connect(connectionString, gocb.ClusterOptions{
		Authenticator: gocb.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		},
		TimeoutsConfig: gocb.TimeoutsConfig{
			ConnectTimeout: 30 * time.Second,
			KVTimeout:      5 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}

	bucket := cluster.Bucket(cfg.Bucket)
	err = bucket.WaitUntilReady(30*time.Second, &gocb.WaitUntilReadyOptions{
		Context:      ctx,
		ServiceTypes: []gocb.ServiceType{gocb.ServiceTypeKeyValue},
	})
	if err != nil {
		_ = cluster.Close(nil)
		return nil, fmt.Errorf("bucket %q is not accessible: %w", cfg.Bucket, err)
	}

	log.Info().
		Str("couchbase_url", connectionString).
		Str("bucket", cfg.Bucket).
		Msg("Couchbase connection initialized")

	return &ConnectionManager{
		cluster: cluster,
		bucket:  bucket,
	}, nil
}

// Close closes the Couchbase connection
func (cm *ConnectionManager) Close() error {
	return cm.cluster.Close(nil)
}

// GetBucket returns the bucket instance
func (cm *ConnectionManager) GetBucket() *gocb.Bucket {
	return cm.bucket
}
