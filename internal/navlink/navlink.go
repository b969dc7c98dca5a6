// Package navlink builds hand-off URLs for external turn-by-turn
// navigation. Pure string assembly, no network access.
package navlink

import (
	"fmt"
	"net/url"
	"strings"
)

const baseURL = "https://www.google.com/maps/dir/?api=1"

// BuildNavigationURL encodes the final ordered address list into a
// directions deep link: first address is the origin, last the
// destination, everything between a waypoint. At least two addresses
// are required for a route.
func BuildNavigationURL(addresses []string) (string, error) {
	cleaned := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) < 2 {
		return "", fmt.Errorf("navigation needs at least 2 addresses, got %d", len(cleaned))
	}

	var b strings.Builder
	b.WriteString(baseURL)
	b.WriteString("&origin=")
	b.WriteString(url.QueryEscape(cleaned[0]))
	b.WriteString("&destination=")
	b.WriteString(url.QueryEscape(cleaned[len(cleaned)-1]))

	if middle := cleaned[1 : len(cleaned)-1]; len(middle) > 0 {
		b.WriteString("&waypoints=")
		b.WriteString(url.QueryEscape(strings.Join(middle, "|")))
	}
	b.WriteString("&travelmode=driving")

	return b.String(), nil
}
