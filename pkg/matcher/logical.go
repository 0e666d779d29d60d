// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

type (
	trueMatcher  struct{}
	falseMatcher struct{}
	andMatcher   struct{ lhs, rhs Matcher }
	orMatcher    struct{ lhs, rhs Matcher }
	notMatcher   struct{ Matcher }
)

var (
	alwaysTrue  trueMatcher
	alwaysFalse falseMatcher
)

// TRUE returns a matcher that matches everything.
func TRUE() Matcher {
	return alwaysTrue
}

// FALSE returns a matcher that matches nothing.
func FALSE() Matcher {
	return alwaysFalse
}

// Not inverts a matcher. TRUE and FALSE invert to each other directly.
func Not(m Matcher) Matcher {
	switch m {
	case TRUE():
		return FALSE()
	case FALSE():
		return TRUE()
	default:
		return notMatcher{m}
	}
}

// And conjoins matchers. TRUE and FALSE operands are folded away so
// the resulting tree contains no constant nodes.
func And(lhs, rhs Matcher, others ...Matcher) Matcher {
	var m Matcher
	switch {
	case lhs == TRUE():
		m = rhs
	case lhs == FALSE() || rhs == FALSE():
		m = FALSE()
	case rhs == TRUE():
		m = lhs
	default:
		m = andMatcher{lhs, rhs}
	}
	if len(others) > 0 {
		return And(m, others[0], others[1:]...)
	}
	return m
}

// Or disjoins matchers, folding constants the same way And does.
func Or(lhs, rhs Matcher, others ...Matcher) Matcher {
	var m Matcher
	switch {
	case lhs == TRUE() || rhs == TRUE():
		m = TRUE()
	case lhs == FALSE():
		m = rhs
	case rhs == FALSE():
		m = lhs
	default:
		m = orMatcher{lhs, rhs}
	}
	if len(others) > 0 {
		return Or(m, others[0], others[1:]...)
	}
	return m
}

func (trueMatcher) Match(_ []byte) bool       { return true }
func (trueMatcher) MatchString(_ string) bool { return true }

func (falseMatcher) Match(_ []byte) bool       { return false }
func (falseMatcher) MatchString(_ string) bool { return false }

func (m andMatcher) Match(b []byte) bool { return m.lhs.Match(b) && m.rhs.Match(b) }
func (m andMatcher) MatchString(line string) bool {
	return m.lhs.MatchString(line) && m.rhs.MatchString(line)
}

func (m orMatcher) Match(b []byte) bool { return m.lhs.Match(b) || m.rhs.Match(b) }
func (m orMatcher) MatchString(line string) bool {
	return m.lhs.MatchString(line) || m.rhs.MatchString(line)
}

func (m notMatcher) Match(b []byte) bool          { return !m.Matcher.Match(b) }
func (m notMatcher) MatchString(line string) bool { return !m.Matcher.MatchString(line) }
