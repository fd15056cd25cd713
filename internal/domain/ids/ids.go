// Package ids generates record identifiers.
//
// A Generator never returns the same id twice over its lifetime.
package ids

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique opaque identifiers.
type Generator interface {
	NewID() string
}

// UUID returns a generator of random (v4) UUIDs.
func UUID() Generator { return uuidGenerator{} }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// Counter is a monotonically increasing generator. Ids are the decimal
// value prefixed with prefix. Safe for concurrent use.
type Counter struct {
	prefix string
	next   atomic.Uint64
}

// NewCounter returns a Counter whose first id is prefix+"1".
func NewCounter(prefix string) *Counter {
	return &Counter{prefix: prefix}
}

// NewID returns the next id.
func (c *Counter) NewID() string {
	return c.prefix + strconv.FormatUint(c.next.Add(1), 10)
}
