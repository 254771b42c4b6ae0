package kvstore

import "time"

// entry is a stored value with absolute expiration, zero Exp means the
// entry never expires. Fields are exported for gob dump.
type entry[V any] struct {
	Val V
	Exp time.Time
}

// Value implements Entry.
func (e entry[V]) Value() V {
	return e.Val
}

// ExpireAt implements Entry.
func (e entry[V]) ExpireAt() time.Time {
	return e.Exp
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.Exp.IsZero() && !now.Before(e.Exp)
}
