// internal/app/store/ratelimit/store.go
package ratelimit

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/strataadmin/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for failed login tracking.
const CollectionName = "login_attempts"

// Attempt tracks failed logins for one username.
type Attempt struct {
	Username    string     `bson:"username"` // normalized (lowercase)
	Failures    int        `bson:"failures"` // failures in the current window
	WindowStart time.Time  `bson:"windowStart"`
	LockedUntil *time.Time `bson:"lockedUntil,omitempty"`
	LastAttempt time.Time  `bson:"lastAttempt"` // drives the TTL cleanup index
}

// Config bounds failed logins: MaxAttempts failures within Window lock the
// username for Lockout.
type Config struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration
}

// Decision is the rate limit state of a username.
type Decision struct {
	Allowed   bool
	Remaining int
	// LockedUntil is set while the username is locked out.
	LockedUntil *time.Time
}

// RetryAfter returns how long until a locked username may try again.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if d.LockedUntil == nil || !d.LockedUntil.After(now) {
		return 0
	}
	return d.LockedUntil.Sub(now)
}

// Store tracks failed logins per username.
type Store struct {
	c   *mongo.Collection
	cfg Config
	now func() time.Time
}

// New creates a rate limit Store.
func New(db *mongo.Database, cfg Config) *Store {
	return &Store{
		c:   db.Collection(CollectionName),
		cfg: cfg,
		now: time.Now,
	}
}

func (s *Store) load(ctx context.Context, username string) (*Attempt, error) {
	var a Attempt
	err := s.c.FindOne(ctx, bson.M{"username": username}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Check reports whether username may attempt a login now.
func (s *Store) Check(ctx context.Context, username string) (Decision, error) {
	a, err := s.load(ctx, normalize.Username(username))
	if err != nil {
		return Decision{}, err
	}
	return s.decide(a, s.now()), nil
}

func (s *Store) decide(a *Attempt, now time.Time) Decision {
	if a == nil {
		return Decision{Allowed: true, Remaining: s.cfg.MaxAttempts}
	}
	if a.LockedUntil != nil && now.Before(*a.LockedUntil) {
		return Decision{Allowed: false, LockedUntil: a.LockedUntil}
	}
	if now.After(a.WindowStart.Add(s.cfg.Window)) {
		return Decision{Allowed: true, Remaining: s.cfg.MaxAttempts}
	}
	remaining := s.cfg.MaxAttempts - a.Failures
	if remaining <= 0 {
		// Window still open but the lockout has expired.
		return Decision{Allowed: true, Remaining: s.cfg.MaxAttempts}
	}
	return Decision{Allowed: true, Remaining: remaining}
}

// RecordFailure counts a failed login and returns the resulting decision.
// Reaching MaxAttempts within the window locks the username.
func (s *Store) RecordFailure(ctx context.Context, username string) (Decision, error) {
	username = normalize.Username(username)
	now := s.now()

	a, err := s.load(ctx, username)
	if err != nil {
		return Decision{}, err
	}

	next := Attempt{Username: username, Failures: 1, WindowStart: now}
	if a != nil && !now.After(a.WindowStart.Add(s.cfg.Window)) && (a.LockedUntil == nil || now.Before(*a.LockedUntil)) {
		next.Failures = a.Failures + 1
		next.WindowStart = a.WindowStart
		next.LockedUntil = a.LockedUntil
	}
	next.LastAttempt = now
	if next.Failures >= s.cfg.MaxAttempts && next.LockedUntil == nil {
		until := now.Add(s.cfg.Lockout)
		next.LockedUntil = &until
	}

	_, err = s.c.ReplaceOne(ctx, bson.M{"username": username}, next, options.Replace().SetUpsert(true))
	if err != nil {
		return Decision{}, err
	}
	return s.decide(&next, now), nil
}

// Clear forgets failures for username. Called after a successful login.
func (s *Store) Clear(ctx context.Context, username string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"username": normalize.Username(username)})
	return err
}
