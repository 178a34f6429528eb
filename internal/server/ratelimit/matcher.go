package ratelimit

import "strings"

// MatchEndpoint returns the configuration for path and method, or nil.
// Exact paths win over prefix entries; a configured path ending in "/" matches
// every path below it.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	for i := range configs {
		if configs[i].Method == method && configs[i].Path == path {
			return &configs[i]
		}
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method || !strings.HasSuffix(c.Path, "/") || !strings.HasPrefix(path, c.Path) {
			continue
		}
		if best == nil || len(c.Path) > len(best.Path) {
			best = c
		}
	}
	return best
}

func isExempt(path string, exempt []string) bool {
	for _, p := range exempt {
		if p == path {
			return true
		}
	}
	return false
}
