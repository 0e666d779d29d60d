// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import "sync"

type cachedMatcher struct {
	matcher Matcher

	mux   sync.RWMutex
	cache map[string]bool
}

// WithCache memoizes match results per input value. The cache is
// unbounded, use it only for inputs with limited cardinality.
func WithCache(m Matcher) Matcher {
	switch m {
	case TRUE(), FALSE():
		return m
	default:
		return &cachedMatcher{matcher: m, cache: make(map[string]bool)}
	}
}

func (m *cachedMatcher) Match(b []byte) bool {
	s := string(b)
	if result, ok := m.lookup(s); ok {
		return result
	}
	result := m.matcher.Match(b)
	m.store(s, result)
	return result
}

func (m *cachedMatcher) MatchString(s string) bool {
	if result, ok := m.lookup(s); ok {
		return result
	}
	result := m.matcher.MatchString(s)
	m.store(s, result)
	return result
}

func (m *cachedMatcher) lookup(key string) (result, ok bool) {
	m.mux.RLock()
	result, ok = m.cache[key]
	m.mux.RUnlock()
	return result, ok
}

func (m *cachedMatcher) store(key string, result bool) {
	m.mux.Lock()
	m.cache[key] = result
	m.mux.Unlock()
}
