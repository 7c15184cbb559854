package provider

import (
	"context"
	"strings"
)

const component = "Provider"

// InstalledTypes returns all of the keys which the passed provider has
// installed.
func InstalledTypes[Value Providable](
	ctx context.Context,
	provider Provider[Value],
	allstrings []string,
) []string {
	var installedTypes []string
	for _, key := range allstrings {
		if provider.Has(ctx, key) {
			installedTypes = append(installedTypes, key)
		}
	}
	return installedTypes
}

// sanitizeKey makes keys case-insensitive and ignores surrounding spaces
func sanitizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
