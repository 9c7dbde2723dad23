package couchbase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/couchbase/gocb/v2"
	"github.com/rs/zerolog/log"
)

// LockKey is the document key of the seed lock.
const LockKey = "_system/seed_lock"

// lockTTL bounds how long a crashed seeder can block writers.
const lockTTL = time.Hour

// ErrSeedInProgress is returned when another process holds the seed lock.
var ErrSeedInProgress = errors.New("seed in progress")

type lockDoc struct {
	Locked    bool      `json:"locked"`
	LockedAt  time.Time `json:"lockedAt"`
	LockedBy  string    `json:"lockedBy"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DatabaseLocker guards the bucket while the seed job rewrites it. The
// holder may keep writing; everyone else sees ErrSeedInProgress.
type DatabaseLocker struct {
	bucket *gocb.Bucket
	owner  string

	mu     sync.Mutex
	locked bool
}

// NewDatabaseLocker creates a locker that identifies itself as owner.
func NewDatabaseLocker(bucket *gocb.Bucket, owner string) *DatabaseLocker {
	return &DatabaseLocker{bucket: bucket, owner: owner}
}

// Lock takes the seed lock. The lock document expires on its own after an
// hour so an aborted seed does not block the mirror forever.
func (l *DatabaseLocker) Lock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locked {
		return fmt.Errorf("database is already locked by %s", l.owner)
	}

	now := time.Now().UTC()
	doc := lockDoc{Locked: true, LockedAt: now, LockedBy: l.owner, ExpiresAt: now.Add(lockTTL)}

	col := l.bucket.DefaultCollection()
	_, err := col.Insert(LockKey, doc, &gocb.InsertOptions{Expiry: lockTTL, Context: ctx})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentExists) {
			return ErrSeedInProgress
		}
		return fmt.Errorf("failed to create lock document: %w", err)
	}

	l.locked = true
	log.Info().Str("owner", l.owner).Msg("Database locked")
	return nil
}

// Unlock releases the seed lock
func (l *DatabaseLocker) Unlock(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.locked {
		return fmt.Errorf("database is not locked")
	}

	col := l.bucket.DefaultCollection()
	_, err := col.Remove(LockKey, &gocb.RemoveOptions{Context: ctx})
	if err != nil && !errors.Is(err, gocb.ErrDocumentNotFound) {
		return fmt.Errorf("failed to remove lock document: %w", err)
	}

	l.locked = false
	log.Info().Str("owner", l.owner).Msg("Database unlocked")
	return nil
}

// Held reports whether this locker holds the lock.
func (l *DatabaseLocker) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

// CheckWritable returns ErrSeedInProgress when someone else holds the lock.
func (l *DatabaseLocker) CheckWritable(ctx context.Context) error {
	if l.Held() {
		return nil
	}

	col := l.bucket.DefaultCollection()
	res, err := col.Get(LockKey, &gocb.GetOptions{Context: ctx})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check lock status: %w", err)
	}

	var doc lockDoc
	if err := res.Content(&doc); err != nil {
		return fmt.Errorf("failed to parse lock document: %w", err)
	}
	if lockActive(doc, time.Now().UTC()) {
		return ErrSeedInProgress
	}
	return nil
}

func lockActive(doc lockDoc, now time.Time) bool {
	if !doc.Locked {
		return false
	}
	return doc.ExpiresAt.IsZero() || now.Before(doc.ExpiresAt)
}
