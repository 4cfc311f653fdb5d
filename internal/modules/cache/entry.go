// Package cache provides derived-artifact cache entries, the staleness
// validator and the on-disk msgpack store. Entries are rebuilt wholesale and
// swapped atomically, never patched in place.
package cache

import (
	"time"

	"github.com/google/uuid"
)

// SourceStamp records the last-modified time of one source the cached
// artifact was derived from. A zero Modified time means the source could not
// be read and is treated as newer than any cache.
type SourceStamp struct {
	Name     string    `msgpack:"name" json:"name"`
	Modified time.Time `msgpack:"modified" json:"modified"`
}

// Entry wraps a derived artifact with its build time and the sources it was
// derived from.
type Entry struct {
	ID      string        `msgpack:"id" json:"id"`
	Kind    string        `msgpack:"kind" json:"kind"`
	BuiltAt time.Time     `msgpack:"built_at" json:"built_at"`
	Sources []SourceStamp `msgpack:"sources" json:"sources"`
	Payload []byte        `msgpack:"payload" json:"-"`
}

// NewEntry creates an entry for a freshly built artifact.
func NewEntry(kind string, builtAt time.Time, sources []SourceStamp, payload []byte) *Entry {
	return &Entry{
		ID:      uuid.NewString(),
		Kind:    kind,
		BuiltAt: builtAt,
		Sources: sources,
		Payload: payload,
	}
}

// Age returns how old the entry is at the given instant.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.BuiltAt)
}
