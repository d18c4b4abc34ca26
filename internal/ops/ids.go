package ops

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Element id prefixes.
const (
	PrefixWall      = "wall_"
	PrefixDoor      = "door_"
	PrefixWindow    = "window_"
	PrefixRoom      = "room_"
	PrefixFurniture = "furn_"
)

// idSource hands out monotonic ULIDs. Monotonic entropy guarantees strictly
// increasing ids within the same millisecond, so ids are never reused.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// next returns prefix + a fresh ULID in lowercase.
func (s *idSource) next(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	return prefix + strings.ToLower(id.String())
}
