package cache

import "strings"

const keySep = ":"

// Key joins non-empty parts with ':'. Separators at the edges of a part are trimmed
// so callers cannot produce "a::b".
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), keySep)
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, keySep)
}
