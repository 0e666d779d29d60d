// SPDX-License-Identifier: GPL-3.0-or-later

package confgroup

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_Add(t *testing.T) {
	tests := map[string]struct {
		seed        []Group
		updates     []Group
		wantAdded   []Config
		wantRemoved []Config
	}{
		"first update from a source adds its configs": {
			updates: []Group{
				testGroup("source", testConfig("job", "collector")),
			},
			wantAdded: []Config{
				testConfig("job", "collector"),
			},
		},
		"repeated identical updates add only once": {
			updates: []Group{
				testGroup("source", testConfig("job", "collector")),
				testGroup("source", testConfig("job", "collector")),
				testGroup("source", testConfig("job", "collector")),
			},
			wantAdded: []Config{
				testConfig("job", "collector"),
			},
		},
		"empty update removes everything cached for the source": {
			seed: []Group{
				testGroup("source", testConfig("job1", "collector"), testConfig("job2", "collector")),
			},
			updates: []Group{
				testGroup("source"),
			},
			wantRemoved: []Config{
				testConfig("job1", "collector"),
				testConfig("job2", "collector"),
			},
		},
		"partial update removes only the missing configs": {
			seed: []Group{
				testGroup("source", testConfig("job1", "collector"), testConfig("job2", "collector")),
			},
			updates: []Group{
				testGroup("source", testConfig("job2", "collector")),
			},
			wantRemoved: []Config{
				testConfig("job1", "collector"),
			},
		},
		"empty update for an unknown source is a no-op": {
			updates: []Group{
				testGroup("source"),
				testGroup("source"),
			},
		},
		"same configs from two sources are added once": {
			updates: []Group{
				testGroup("source1", testConfig("job1", "collector"), testConfig("job2", "collector")),
				testGroup("source2", testConfig("job1", "collector"), testConfig("job2", "collector")),
			},
			wantAdded: []Config{
				testConfig("job1", "collector"),
				testConfig("job2", "collector"),
			},
		},
		"configs survive while another source still references them": {
			seed: []Group{
				testGroup("source1", testConfig("job1", "collector"), testConfig("job2", "collector")),
				testGroup("source2", testConfig("job1", "collector"), testConfig("job2", "collector")),
			},
			updates: []Group{
				testGroup("source2"),
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cache := NewCache()

			for _, group := range test.seed {
				cache.Add(&group)
			}

			var added, removed []Config
			for _, group := range test.updates {
				a, r := cache.Add(&group)
				added = append(added, a...)
				removed = append(removed, r...)
			}

			sortConfigsByFullName(added)
			sortConfigsByFullName(removed)
			sortConfigsByFullName(test.wantAdded)
			sortConfigsByFullName(test.wantRemoved)

			assert.Equalf(t, test.wantAdded, added, "added configs")
			assert.Equalf(t, test.wantRemoved, removed, "removed configs")
		})
	}
}

func testGroup(source string, cfgs ...Config) Group {
	return Group{Source: source, Configs: cfgs}
}

func testConfig(name, module string) Config {
	return Config{"name": name, "module": module}
}

func sortConfigsByFullName(cfgs []Config) {
	if len(cfgs) == 0 {
		return
	}
	sort.Slice(cfgs, func(i, j int) bool { return cfgs[i].FullName() < cfgs[j].FullName() })
}
