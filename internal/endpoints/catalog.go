package endpoints

import (
	"sort"
	"strings"
	"sync"
)

// baseSegments is the number of leading path segments that identify a
// resource family. "/api/v1/employees" splits into four segments (the leading
// empty one included), so anything deeper normalizes down to that base.
const baseSegments = 4

// Normalize reduces a request path to its base endpoint: trailing slash
// stripped, then truncated to the first four "/"-separated segments. Paths
// already at or below that depth come back unchanged (minus the trailing
// slash). Normalize is idempotent.
func Normalize(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	parts := strings.Split(path, "/")
	if len(parts) <= baseSegments {
		return path
	}
	return strings.Join(parts[:baseSegments], "/")
}

// IsNormalized reports whether the path is already a base endpoint, i.e. it
// has exactly four "/"-separated segments.
func IsNormalized(path string) bool {
	return len(strings.Split(path, "/")) == baseSegments
}

// Entry describes one route exposed by the API, as registered at startup.
type Entry struct {
	Endpoint string   `json:"endpoint"`
	Method   string   `json:"method"`
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
}

var (
	mu      sync.RWMutex
	catalog = make(map[string]Entry)
)

// Register adds a route to the catalog. The router calls it while mounting
// handlers, so the catalog always mirrors what the server actually serves.
// Entries are keyed by (endpoint, method, name): sibling routes sharing a
// base endpoint and verb keep their own entries, and re-registering the same
// name overwrites it.
func Register(endpoint, method, name string, tags ...string) {
	mu.Lock()
	defer mu.Unlock()
	key := method + " " + endpoint + " " + name
	catalog[key] = Entry{Endpoint: endpoint, Method: method, Name: name, Tags: tags}
}

// All returns every registered route ordered by endpoint, method, then name.
func All() []Entry {
	mu.RLock()
	defer mu.RUnlock()

	entries := make([]Entry, 0, len(catalog))
	for _, e := range catalog {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Endpoint != entries[j].Endpoint {
			return entries[i].Endpoint < entries[j].Endpoint
		}
		if entries[i].Method != entries[j].Method {
			return entries[i].Method < entries[j].Method
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Reset clears the catalog. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	catalog = make(map[string]Entry)
}
