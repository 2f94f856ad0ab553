package scripting

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"sync"
)

// Registry stores script sources keyed by their content hash, so that scripts loaded once can be run by hash from any
// Scripter sharing the registry.
//
// Entries are immutable once loaded and are only removed by Flush, which clears the whole registry.
type Registry struct {
	mu      sync.RWMutex
	scripts map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		scripts: map[string]string{},
	}
}

// Hash returns the lower case hex SHA1 digest of source, the same digest Redis uses for SCRIPT LOAD.
func Hash(source string) string {
	sum := sha1.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Load stores source and returns its hash. Loading the same source again is a no-op.
func (r *Registry) Load(source string) string {
	hash := Hash(source)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.scripts[hash]; !ok {
		r.scripts[hash] = source
	}
	return hash
}

// Get returns the source stored under hash.
func (r *Registry) Get(hash string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.scripts[strings.ToLower(hash)]
	return source, ok
}

// Exists reports, for each hash, whether it's loaded. All hashes are checked against the same snapshot.
func (r *Registry) Exists(hashes ...string) []bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]bool, len(hashes))
	for i, hash := range hashes {
		_, out[i] = r.scripts[strings.ToLower(hash)]
	}
	return out
}

// Flush removes every script.
func (r *Registry) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scripts = map[string]string{}
}

// Len returns the number of loaded scripts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.scripts)
}
