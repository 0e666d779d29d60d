// SPDX-License-Identifier: GPL-3.0-or-later

package selector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mailops/exchange-agent/pkg/matcher"
)

var reLabelValue = regexp.MustCompile(`^(?P<label_name>[a-zA-Z0-9_]+)(?P<op>=~|!~|=\*|!\*|=|!=)"(?P<pattern>.+)"$`)

// Parse compiles a selector expression. Supported forms:
//
//	name
//	name{label="value",...}
//	{label="value",...}
//
// The bare name form matches __name__ with simple patterns. An empty
// expression yields a nil Selector.
func Parse(expr string) (Selector, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}

	var srs []Selector
	for _, lv := range strings.Split(desugarExpr(expr), ",") {
		sr, err := parseLabelSelector(lv)
		if err != nil {
			return nil, err
		}
		srs = append(srs, sr)
	}

	switch len(srs) {
	case 0:
		return nil, nil
	case 1:
		return srs[0], nil
	default:
		return And(srs[0], srs[1], srs[2:]...), nil
	}
}

func parseLabelSelector(line string) (Selector, error) {
	sub := reLabelValue.FindStringSubmatch(strings.TrimSpace(line))
	if sub == nil {
		return nil, fmt.Errorf("invalid selector syntax: '%s'", line)
	}

	name, op, pattern := sub[1], sub[2], strings.Trim(sub[3], "\"")

	var m matcher.Matcher
	var err error

	switch op {
	case OpEqual, OpNegEqual:
		m, err = matcher.NewStringMatcher(pattern, true, true)
	case OpRegexp, OpNegRegexp:
		m, err = matcher.NewRegExpMatcher(pattern)
	case OpSimplePatterns, OpNegSimplePatterns:
		m, err = matcher.NewSimplePatternsMatcher(pattern)
	default:
		err = fmt.Errorf("unknown matching operator: %s", op)
	}
	if err != nil {
		return nil, err
	}

	sr := labelSelector{name: name, m: m}

	if strings.HasPrefix(op, "!") {
		return Not(sr), nil
	}
	return sr, nil
}

// desugarExpr rewrites the short forms into a plain label-value list:
//
//	name                => __name__=*"name"
//	name{label="value"} => __name__=*"name",label="value"
//	{label="value"}     => label="value"
func desugarExpr(expr string) string {
	expr = strings.TrimSpace(expr)

	switch idx := strings.IndexByte(expr, '{'); {
	case idx == -1:
		return fmt.Sprintf(`__name__%s"%s"`, OpSimplePatterns, expr)
	case idx == 0:
		return strings.Trim(expr, "{}")
	default:
		return fmt.Sprintf(`__name__%s"%s",%s`,
			OpSimplePatterns,
			strings.TrimSpace(expr[:idx]),
			strings.Trim(expr[idx:], "{}"),
		)
	}
}
