// SPDX-License-Identifier: GPL-3.0-or-later

package matcher

import (
	"errors"
	"fmt"
)

type (
	Expr interface {
		Parse() (Matcher, error)
	}

	// SimpleExpr is an include/exclude matcher pair. A value matches
	// when it matches any include (or includes are empty) and matches
	// no exclude.
	SimpleExpr struct {
		Includes []string `yaml:"includes,omitempty" json:"includes"`
		Excludes []string `yaml:"excludes,omitempty" json:"excludes"`
	}
)

var ErrEmptyExpr = errors.New("empty expression")

func (s *SimpleExpr) Empty() bool {
	return len(s.Includes) == 0 && len(s.Excludes) == 0
}

// Parse compiles the expression. An empty expression is an error,
// use Empty to test for it first.
func (s *SimpleExpr) Parse() (Matcher, error) {
	if s.Empty() {
		return nil, ErrEmptyExpr
	}

	includes := TRUE()
	if len(s.Includes) > 0 {
		includes = FALSE()
		for _, item := range s.Includes {
			m, err := Parse(item)
			if err != nil {
				return nil, fmt.Errorf("parse matcher %q error: %v", item, err)
			}
			includes = Or(includes, m)
		}
	}

	excludes := FALSE()
	for _, item := range s.Excludes {
		m, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("parse matcher %q error: %v", item, err)
		}
		excludes = Or(excludes, m)
	}

	return And(includes, Not(excludes)), nil
}
