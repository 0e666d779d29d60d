// SPDX-License-Identifier: GPL-3.0-or-later

package selector

import (
	"github.com/prometheus/prometheus/model/labels"
)

type (
	trueSelector  struct{}
	falseSelector struct{}
	notSelector   struct{ s Selector }
	andSelector   struct{ lhs, rhs Selector }
	orSelector    struct{ lhs, rhs Selector }
)

func (trueSelector) Matches(_ labels.Labels) bool    { return true }
func (falseSelector) Matches(_ labels.Labels) bool   { return false }
func (s notSelector) Matches(lbs labels.Labels) bool { return !s.s.Matches(lbs) }
func (s andSelector) Matches(lbs labels.Labels) bool { return s.lhs.Matches(lbs) && s.rhs.Matches(lbs) }
func (s orSelector) Matches(lbs labels.Labels) bool  { return s.lhs.Matches(lbs) || s.rhs.Matches(lbs) }

// True returns a selector that matches every label set.
func True() Selector {
	return trueSelector{}
}

// And combines selectors so the result matches only when all of them match.
func And(lhs, rhs Selector, others ...Selector) Selector {
	s := andSelector{lhs: lhs, rhs: rhs}
	if len(others) == 0 {
		return s
	}
	return And(s, others[0], others[1:]...)
}

// Or combines selectors so the result matches when at least one of them matches.
func Or(lhs, rhs Selector, others ...Selector) Selector {
	s := orSelector{lhs: lhs, rhs: rhs}
	if len(others) == 0 {
		return s
	}
	return Or(s, others[0], others[1:]...)
}

// Not inverts a selector.
func Not(s Selector) Selector {
	return notSelector{s}
}
