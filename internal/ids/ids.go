package ids

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"
)

// Generator produces identifiers for rooms. Implementations must return
// values that are unique for the lifetime of the process.
type Generator interface {
	NewID() string
}

// Random generates hex-encoded identifiers from crypto/rand.
type Random struct {
	// Size is the number of random bytes per id. Zero means DefaultSize.
	Size int
}

// DefaultSize is the number of random bytes in a generated id.
const DefaultSize = 8

// NewID returns a best-effort unique identifier.
func (g Random) NewID() string {
	size := g.Size
	if size <= 0 {
		size = DefaultSize
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}

	// Fallback to timestamp if crypto/rand is unavailable.
	return strconv.FormatInt(time.Now().UnixNano(), 10)
}

// Sequence generates deterministic ids ("room-1", "room-2", ...) for tests.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

func (g *Sequence) NewID() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "room-"
	}
	return prefix + strconv.FormatUint(g.n.Add(1), 10)
}
