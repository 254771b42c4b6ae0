package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// LoaderConfig is optional configuration for NewLoader.
type LoaderConfig struct {
	// Name is added to logs and stats.
	Name string

	// FailedBuildTTL is ttl of cached build errors, default 20s,
	// NeverExpire disables the errors cache.
	FailedBuildTTL time.Duration

	// Logger collects messages with context.
	Logger ctxd.Logger

	// Stats tracks stats.
	Stats stats.Tracker
}

type buildLock[V any] struct {
	done chan struct{}
	val  V
	err  error
}

// Loader populates a store from a build function on miss.
//
// Builds are locked per key: a missing key is built by a single caller while
// concurrent callers for the same key block until the build finishes and
// then share its outcome. Build errors are cached with a short TTL to avoid
// flooding an unhealthy upstream.
//
// The store read happens outside the build lock, so a caller that misses the
// store right before a concurrent build completes may trigger one extra
// build. The window is narrow and a duplicate build is harmless.
//
// Please use NewLoader to create an instance.
type Loader[K comparable, V any] struct {
	upstream *Store[K, V]
	errs     *Store[K, error]

	lock       sync.Mutex // Guards buildLocks.
	buildLocks map[K]*buildLock[V]

	config LoaderConfig
	log    ctxd.Logger
	stat   stats.Tracker
}

// NewLoader creates a Loader in front of a store handle.
func NewLoader[K comparable, V any](upstream *Store[K, V], cfg ...LoaderConfig) *Loader[K, V] {
	config := LoaderConfig{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	if config.FailedBuildTTL == 0 {
		config.FailedBuildTTL = 20 * time.Second
	}

	l := &Loader[K, V]{
		upstream:   upstream,
		buildLocks: make(map[K]*buildLock[V]),
		config:     config,
		log:        config.Logger,
		stat:       config.Stats,
	}

	if config.FailedBuildTTL > 0 {
		l.errs = New[K, error](Config{
			Name:       config.Name + "_errors",
			Logger:     config.Logger,
			Stats:      config.Stats,
			TimeToLive: config.FailedBuildTTL,
		})
	}

	return l
}

// Get returns the value stored under key, building and storing it with the
// given ttl on miss.
//
// A recently failed build returns the cached build error without invoking
// build again, until the error entry expires.
func (l *Loader[K, V]) Get(ctx context.Context, key K, ttl time.Duration, build func(ctx context.Context) (V, error)) (V, error) {
	var zero V

	v, err := l.upstream.Get(ctx, key)
	if err == nil {
		return v, nil
	}

	if l.errs != nil {
		if buildErr, errsErr := l.errs.Get(ctx, key); errsErr == nil {
			return zero, buildErr
		}
	}

	l.lock.Lock()
	bl, alreadyBuilding := l.buildLocks[key]
	if !alreadyBuilding {
		bl = &buildLock[V]{done: make(chan struct{})}
		l.buildLocks[key] = bl
	}
	l.lock.Unlock()

	if alreadyBuilding {
		<-bl.done

		return bl.val, bl.err
	}

	defer func() {
		l.lock.Lock()
		delete(l.buildLocks, key)
		l.lock.Unlock()

		close(bl.done)
	}()

	bl.val, bl.err = build(ctx)
	if bl.err != nil {
		if l.log != nil {
			l.log.Error(ctx, "failed to build value",
				"name", l.config.Name,
				"key", key,
				"error", bl.err)
		}

		if l.stat != nil {
			l.stat.Add(ctx, MetricFailedBuild, 1, "name", l.config.Name)
		}

		if l.errs != nil {
			l.errs.Insert(ctx, key, bl.err, DefaultTTL)
		}

		return zero, bl.err
	}

	l.upstream.Insert(ctx, key, bl.val, ttl)

	if l.stat != nil {
		l.stat.Add(ctx, MetricBuild, 1, "name", l.config.Name)
	}

	return bl.val, nil
}
