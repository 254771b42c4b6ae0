package kvstore_test

import (
	"context"
	"fmt"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"github.com/vearutop/kvstore"
)

func ExampleNew() {
	// Create store instance.
	s := kvstore.New[string, []int](kvstore.Config{
		Name:       "dogs",
		TimeToLive: 13 * time.Minute,
		Logger:     &ctxd.LoggerMock{},
		Stats:      &stats.TrackerMock{},
	})

	// Use context if available.
	ctx := context.TODO()

	// Write value to store with the configured default TTL.
	s.Insert(ctx, "my-key", []int{1, 2, 3}, kvstore.DefaultTTL)

	// Read value from store.
	val, _ := s.Get(ctx, "my-key")
	fmt.Printf("%v", val)

	// Output:
	// [1 2 3]
}

func ExampleNewLoader() {
	ctx := context.TODO()

	s := kvstore.New[string, string]()
	l := kvstore.NewLoader(s, kvstore.LoaderConfig{Name: "users"})

	// Value is built once and stored for a minute, concurrent callers for
	// the same missing key share a single build.
	name, _ := l.Get(ctx, "user-42", time.Minute, func(ctx context.Context) (string, error) {
		return "Jane", nil
	})

	fmt.Println(name)

	// Output:
	// Jane
}
