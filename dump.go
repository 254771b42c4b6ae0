package kvstore

import (
	"encoding/gob"
	"errors"
	"io"
)

// dumpRecord is the gob layout of one dumped entry.
type dumpRecord[K comparable, V any] struct {
	Key   K
	Entry entry[V]
}

// Dump saves store entries with their expiration instants and returns a
// number of processed entries.
//
// Dump uses encoding/gob. If V holds interface values, register their
// concrete types with gob.Register in advance.
func (s *Store[K, V]) Dump(w io.Writer) (int, error) {
	encoder := gob.NewEncoder(w)

	return s.Walk(func(key K, e Entry[V]) error {
		return encoder.Encode(dumpRecord[K, V]{
			Key:   key,
			Entry: entry[V]{Val: e.Value(), Exp: e.ExpireAt()},
		})
	})
}

// Restore loads store entries and returns number of processed entries.
//
// Entries that expired before Restore are loaded as well and are reclaimed
// lazily on access, same as any other expired entry.
func (s *Store[K, V]) Restore(r io.Reader) (int, error) {
	decoder := gob.NewDecoder(r)
	n := 0

	for {
		var rec dumpRecord[K, V]

		err := decoder.Decode(&rec)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return n, err
		}

		s.mu.Lock()
		s.data[rec.Key] = rec.Entry
		s.mu.Unlock()

		n++
	}

	return n, nil
}
