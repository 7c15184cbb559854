package provider

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bacalhau-project/cortex/pkg/models"
)

// A MappedProvider is a Provider that stores the providables in a simple map,
// and caches permanently the results of checking installation status
type MappedProvider[Value Providable] struct {
	// IsInstalled on a composed Providable may call back into Get, so the
	// maps are sync.Maps rather than guarded by a mutex. Two goroutines can
	// race to fill the installed cache; both store the same answer.
	providables    sync.Map // string -> Value
	installedCache sync.Map // string -> bool
}

func (provider *MappedProvider[Value]) Add(key string, value Value) {
	provider.providables.Store(sanitizeKey(key), value)
}

// Get implements Provider
func (provider *MappedProvider[Value]) Get(ctx context.Context, key string) (v Value, err error) {
	key = sanitizeKey(key)
	stored, ok := provider.providables.Load(key)
	if !ok {
		return v, models.NewBaseError("no provider registered for %q", key).
			WithCode(models.NotImplemented).
			WithComponent(component).
			WithHint("available: " + strings.Join(provider.allKeys(), ", "))
	}
	providable := stored.(Value)

	installed, ok := provider.installedCache.Load(key)
	if !ok {
		isInstalled, err := providable.IsInstalled(ctx)
		if err != nil {
			return v, err
		}
		provider.installedCache.Store(key, isInstalled)
		installed = isInstalled
	}

	if !installed.(bool) {
		return v, models.NewBaseError("provider %q is not installed", key).
			WithCode(models.NotImplemented).
			WithComponent(component)
	}

	return providable, nil
}

// Has implements Provider
func (provider *MappedProvider[Value]) Has(ctx context.Context, key string) bool {
	_, err := provider.Get(ctx, sanitizeKey(key))
	return err == nil
}

// Keys implements Provider. Keys are returned sorted.
func (provider *MappedProvider[Value]) Keys(ctx context.Context) (keys []string) {
	for _, key := range provider.allKeys() {
		if provider.Has(ctx, key) {
			keys = append(keys, key)
		}
	}
	return
}

func (provider *MappedProvider[Value]) allKeys() (keys []string) {
	provider.providables.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return
}

func NewMappedProvider[Value Providable](providables map[string]Value) *MappedProvider[Value] {
	p := &MappedProvider[Value]{}
	for k, v := range providables {
		p.Add(k, v)
	}
	return p
}

// compile-time check that we implement the interface
var _ Provider[Providable] = &MappedProvider[Providable]{}
