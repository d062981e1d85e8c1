package cleaner

import (
	gocache "github.com/patrickmn/go-cache"
)

// Registry maps content fingerprints to the URL of the first article seen
// with that fingerprint. Entries never expire and are never evicted; the
// registry grows monotonically for the process lifetime.
type Registry struct {
	entries *gocache.Cache
}

func NewRegistry() *Registry {
	return &Registry{
		entries: gocache.New(gocache.NoExpiration, 0),
	}
}

// Register attempts to claim a fingerprint for the given URL. The add is
// atomic, so two concurrent callers computing the same fingerprint cannot
// both win the uniqueness check. On a hit the registry is not modified and
// the first-seen URL is returned with duplicate=true.
func (r *Registry) Register(fingerprint, url string) (firstSeen string, duplicate bool) {
	if err := r.entries.Add(fingerprint, url, gocache.NoExpiration); err != nil {
		if existing, ok := r.entries.Get(fingerprint); ok {
			return existing.(string), true
		}
		// Entries are never deleted, so a failed Add always has a
		// readable winner; this branch is unreachable in practice.
		return "", true
	}
	return "", false
}

// Lookup reports whether a fingerprint is already registered without
// modifying the registry.
func (r *Registry) Lookup(fingerprint string) (string, bool) {
	if existing, ok := r.entries.Get(fingerprint); ok {
		return existing.(string), true
	}
	return "", false
}

// Size returns the number of registered fingerprints.
func (r *Registry) Size() int {
	return r.entries.ItemCount()
}

// UniqueURLs returns the number of distinct URLs holding registrations.
func (r *Registry) UniqueURLs() int {
	seen := make(map[string]struct{})
	for _, item := range r.entries.Items() {
		seen[item.Object.(string)] = struct{}{}
	}
	return len(seen)
}
