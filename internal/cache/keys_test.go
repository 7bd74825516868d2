package cache

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestSortedQueryKey(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"no query", "/api/usertask/42", "/api/usertask/42"},
		{"single param", "/api/usertasks?a=1", "/api/usertasks|a-1"},
		{"params sorted by name", "/api/usertasks?b=2&a=1", "/api/usertasks|a-1|b-2"},
		{"repeated values joined", "/api/usertasks?tag=x&tag=y", "/api/usertasks|tag-x,y"},
		{"empty value", "/api/usertasks?flag=", "/api/usertasks|flag-"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SortedQueryKey(mustURL(t, tc.raw)))
		})
	}
}

func TestSortedQueryKeyIgnoresParameterOrder(t *testing.T) {
	a := SortedQueryKey(mustURL(t, "/path?b=2&a=1&c=3"))
	b := SortedQueryKey(mustURL(t, "/path?c=3&a=1&b=2"))
	assert.Equal(t, a, b)
}

func TestRawQueryKey(t *testing.T) {
	assert.Equal(t, "/api/usertasks_", RawQueryKey(mustURL(t, "/api/usertasks")))
	assert.Equal(t, "/api/usertasks_?b=2&a=1", RawQueryKey(mustURL(t, "/api/usertasks?b=2&a=1")))
	assert.NotEqual(t,
		RawQueryKey(mustURL(t, "/p?a=1&b=2")),
		RawQueryKey(mustURL(t, "/p?b=2&a=1")),
		"raw keys keep parameter order")
}

func TestPolicy(t *testing.T) {
	u := mustURL(t, "/p?b=2&a=1")

	p := NewPolicy(time.Minute, nil)
	assert.Equal(t, time.Minute, p.TTL)
	assert.Equal(t, "/p|a-1|b-2", p.KeyFor(u))

	raw := NewPolicy(10*time.Minute, RawQueryKey)
	assert.Equal(t, "/p_?b=2&a=1", raw.KeyFor(u))

	var zero Policy
	assert.Equal(t, "/p|a-1|b-2", zero.KeyFor(u))
}
