// Package catalog builds and caches the filter option snapshot: client and
// campaign name indexes, vertical/zipcode/ad id lists, and the city-to-
// campaign geo index. It also resolves user picks into a query selection.
package catalog

import "strings"

// CleanCampaignName strips the redundant "<vertical> - " prefix from a
// campaign display name. Comparison is case-insensitive after trimming both
// sides. A name that does not carry the prefix, or an empty name or
// vertical, passes through unchanged, which also makes the function
// idempotent: once stripped, the prefix no longer matches.
func CleanCampaignName(name, vertical string) string {
	if name == "" || vertical == "" {
		return name
	}
	prefix := strings.TrimSpace(vertical) + " - "
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= len(prefix) && strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return trimmed[len(prefix):]
	}
	return name
}

// cleanNamePtr is CleanCampaignName for nullable catalog columns.
func cleanNamePtr(name string, vertical *string) string {
	if vertical == nil {
		return name
	}
	return CleanCampaignName(name, *vertical)
}
