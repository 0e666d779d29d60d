// SPDX-License-Identifier: GPL-3.0-or-later

package discovery

import (
	"github.com/mailops/exchange-agent/agent/confgroup"
)

func newCache() *cache {
	return &cache{}
}

// cache keeps the most recent group per source.
type cache map[string]*confgroup.Group

func (c cache) update(groups []*confgroup.Group) {
	if len(groups) == 0 {
		return
	}
	for _, group := range groups {
		if group != nil {
			c[group.Source] = group
		}
	}
}

func (c cache) reset() {
	for key := range c {
		delete(c, key)
	}
}

func (c cache) asList() []*confgroup.Group {
	groups := make([]*confgroup.Group, 0, len(c))
	for idx := range c {
		groups = append(groups, c[idx])
	}
	return groups
}
