package cache

import (
	"net/url"
	"sort"
	"strings"
)

// KeyFunc derives a cache key from a request URL.
type KeyFunc func(u *url.URL) string

// SortedQueryKey builds the path followed by "|name-value" for every query
// parameter, ordered by name. Repeated values are joined with ",". Two URLs
// that differ only in parameter order produce the same key.
func SortedQueryKey(u *url.URL) string {
	query := u.Query()

	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(u.Path)
	for _, name := range names {
		b.WriteString("|")
		b.WriteString(name)
		b.WriteString("-")
		b.WriteString(strings.Join(query[name], ","))
	}
	return b.String()
}

// RawQueryKey builds "path_?rawquery", or "path_" when there is no query.
// Parameter order is significant.
func RawQueryKey(u *url.URL) string {
	if u.RawQuery == "" {
		return u.Path + "_"
	}
	return u.Path + "_?" + u.RawQuery
}
