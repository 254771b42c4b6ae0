package kvstore

import (
	"math/rand"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// Config controls a store instance.
type Config struct {
	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker

	// Name is store instance name, used in stats and logging.
	Name string

	// TimeToLive applies to entries inserted with DefaultTTL.
	// Zero means such entries never expire.
	TimeToLive time.Duration

	// ExpirationJitter is a fraction of TTL to randomize, disabled by default.
	// If positive, effective TTL is altered in bounds of ±(ExpirationJitter * TTL / 2).
	ExpirationJitter float64
}

// expireAt resolves ttl against config defaults into an absolute expiration
// instant, zero time for entries that never expire.
func (c Config) expireAt(ttl time.Duration) time.Time {
	if ttl == DefaultTTL {
		ttl = c.TimeToLive
	}

	if ttl <= 0 {
		return time.Time{}
	}

	if c.ExpirationJitter > 0 {
		ttl += time.Duration(float64(ttl) * c.ExpirationJitter * (rand.Float64() - 0.5))
	}

	return time.Now().Add(ttl)
}
