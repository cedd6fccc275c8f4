package syspkg

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Platform identifiers as known to the host
const (
	PlatformMacOSX       = "mac_os_x"
	PlatformMacOSXServer = "mac_os_x_server"
)

// ResourcePackage is the resource kind handled by package providers
const ResourcePackage = "package"

// ErrNoProvider is returned when no provider is bound to a key
var ErrNoProvider = errors.New("no provider registered")

// Key identifies a registration slot
type Key struct {
	Platform string
	Resource string
}

func (k Key) String() string {
	return k.Platform + "/" + k.Resource
}

// Registry maps (platform, resource) pairs to providers
type Registry struct {
	mu        sync.RWMutex
	providers map[Key]Provider
	logger    *zerolog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(log *zerolog.Logger) *Registry {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Registry{
		providers: make(map[Key]Provider),
		logger:    log,
	}
}

// Set binds p to key, replacing any existing binding
func (r *Registry) Set(key Key, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[key] = p
}

// RegisterIfAbsent binds p to key unless the key is already bound.
// Returns true when the binding was made.
func (r *Registry) RegisterIfAbsent(key Key, p Provider) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.providers[key]; ok {
		r.logger.Debug().
			Str("key", key.String()).
			Str("existing", existing.Name()).
			Str("provider", p.Name()).
			Msg("provider slot already bound, keeping existing")
		return false
	}

	r.providers[key] = p
	r.logger.Debug().
		Str("key", key.String()).
		Str("provider", p.Name()).
		Msg("provider registered")
	return true
}

// Lookup returns the provider bound to key
func (r *Registry) Lookup(key Key) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[key]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoProvider, key)
	}
	return p, nil
}

// Provides reports whether key is bound to a provider with the given name
func (r *Registry) Provides(key Key, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[key]
	return ok && p.Name() == name
}

// Keys returns all bound keys sorted by platform then resource
func (r *Registry) Keys() []Key {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]Key, 0, len(r.providers))
	for k := range r.providers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Platform == keys[j].Platform {
			return keys[i].Resource < keys[j].Resource
		}
		return keys[i].Platform < keys[j].Platform
	})
	return keys
}

// CurrentPlatform maps the running OS to the host platform identifier
func CurrentPlatform() string {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) string {
	if goos == "darwin" {
		return PlatformMacOSX
	}
	return goos
}
