// SPDX-License-Identifier: GPL-3.0-or-later

package selector

import "fmt"

// Expr is the allow/deny selector pair used in collector configs.
// A series is selected when it matches any allow selector (or allow is
// empty) and matches no deny selector.
type Expr struct {
	Allow []string `yaml:"allow,omitempty" json:"allow"`
	Deny  []string `yaml:"deny,omitempty" json:"deny"`
}

func (e Expr) Empty() bool {
	return len(e.Allow) == 0 && len(e.Deny) == 0
}

// Parse compiles the expression into a Selector. An empty expression
// yields a nil Selector.
func (e Expr) Parse() (Selector, error) {
	if e.Empty() {
		return nil, nil
	}

	allow, err := parseAnyOf(e.Allow, trueSelector{})
	if err != nil {
		return nil, err
	}
	deny, err := parseAnyOf(e.Deny, falseSelector{})
	if err != nil {
		return nil, err
	}

	return And(allow, Not(deny)), nil
}

func parseAnyOf(items []string, ifEmpty Selector) (Selector, error) {
	var srs []Selector
	for _, item := range items {
		sr, err := Parse(item)
		if err != nil {
			return nil, fmt.Errorf("parse selector '%s': %v", item, err)
		}
		srs = append(srs, sr)
	}

	switch len(srs) {
	case 0:
		return ifEmpty, nil
	case 1:
		return srs[0], nil
	default:
		return Or(srs[0], srs[1], srs[2:]...), nil
	}
}
