package extract

import "strings"

// separators are fragments that carry no menu content on their own.
var separators = map[string]bool{
	",": true,
	"-": true,
	"–": true,
}

// Normalize trims each fragment and drops empty, whitespace-only and separator fragments.
func Normalize(fragments []string) []string {
	items := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if f == "" || separators[f] {
			continue
		}
		items = append(items, f)
	}
	return items
}

// splitJoined re-splits a single comma-joined fragment into items.
func splitJoined(s string) []string {
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
