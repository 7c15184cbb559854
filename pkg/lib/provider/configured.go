package provider

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/bacalhau-project/cortex/pkg/models"
)

// ConfiguredProvider prevents access to certain values based on a passed in
// block-list of keys. It appears as if the disabled keys are not installed.
type ConfiguredProvider[Value Providable] struct {
	inner    Provider[Value]
	disabled []string
}

func NewConfiguredProvider[Value Providable](inner Provider[Value], disabled []string) Provider[Value] {
	sanitized := make([]string, 0, len(disabled))
	for _, key := range disabled {
		sanitized = append(sanitized, sanitizeKey(key))
	}
	return &ConfiguredProvider[Value]{inner: inner, disabled: sanitized}
}

func (c *ConfiguredProvider[Value]) Get(ctx context.Context, key string) (v Value, err error) {
	if c.isDisabled(key) {
		return v, models.NewBaseError("provider %q is disabled by configuration", key).
			WithCode(models.ConfigurationError).
			WithComponent(component)
	}
	return c.inner.Get(ctx, key)
}

func (c *ConfiguredProvider[Value]) Has(ctx context.Context, key string) bool {
	return !c.isDisabled(key) && c.inner.Has(ctx, key)
}

func (c *ConfiguredProvider[Value]) Keys(ctx context.Context) (keys []string) {
	for _, key := range c.inner.Keys(ctx) {
		if !c.isDisabled(key) {
			keys = append(keys, key)
		}
	}
	return
}

func (c *ConfiguredProvider[Value]) isDisabled(key string) bool {
	return slices.Contains(c.disabled, sanitizeKey(key))
}

// compile-time check that we implement the interface
var _ Provider[Providable] = &ConfiguredProvider[Providable]{}
