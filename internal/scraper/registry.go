package scraper

import (
	"sort"
	"strings"
)

var registry = map[string]Fetcher{}

func Register(f Fetcher) {
	registry[strings.ToLower(f.Name())] = f
}

func Get(name string) (Fetcher, bool) {
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Names lists registered engines in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
