package naming

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out output paths that neither exist on disk nor
// were handed out earlier in this process, appending " (N)" to the stem.
// All methods are goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	claimed  map[string]bool
	counters map[string]int // requested path -> next counter to try
	exists   func(string) bool
}

// NewCollisionResolver creates a resolver backed by the real filesystem.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		claimed:  make(map[string]bool),
		counters: make(map[string]int),
		exists:   pathExists,
	}
}

// Resolve returns requested when it is free, otherwise the first free
// "<stem> (N)<ext>" variant. The returned path is claimed.
func (cr *CollisionResolver) Resolve(requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if !cr.claimed[requested] && !cr.exists(requested) {
		cr.claimed[requested] = true
		return requested
	}

	dir := filepath.Dir(requested)
	base := filepath.Base(requested)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[requested]
	if counter == 0 {
		counter = 1
	}
	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, counter, ext))
		if !cr.claimed[candidate] && !cr.exists(candidate) {
			cr.counters[requested] = counter + 1
			cr.claimed[candidate] = true
			return candidate
		}
		counter++
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
