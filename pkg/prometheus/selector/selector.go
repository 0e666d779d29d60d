// SPDX-License-Identifier: GPL-3.0-or-later

// Package selector filters scraped prometheus series by their label sets.
package selector

import (
	"github.com/mailops/exchange-agent/pkg/matcher"

	"github.com/prometheus/prometheus/model/labels"
)

// Selector reports whether a label set should be kept.
type Selector interface {
	Matches(lbs labels.Labels) bool
}

// Matching operators accepted in selector expressions.
const (
	OpEqual             = "="
	OpNegEqual          = "!="
	OpRegexp            = "=~"
	OpNegRegexp         = "!~"
	OpSimplePatterns    = "=*"
	OpNegSimplePatterns = "!*"
)

type labelSelector struct {
	name string
	m    matcher.Matcher
}

// Matches checks the value of a single label. __name__ is always the
// first label in a scraped series.
func (s labelSelector) Matches(lbs labels.Labels) bool {
	if s.name == labels.MetricName {
		return s.m.MatchString(lbs[0].Value)
	}
	if label, ok := lookupLabel(s.name, lbs[1:]); ok {
		return s.m.MatchString(label.Value)
	}
	return false
}

func lookupLabel(name string, lbs labels.Labels) (labels.Label, bool) {
	for _, label := range lbs {
		if label.Name == name {
			return label, true
		}
	}
	return labels.Label{}, false
}
