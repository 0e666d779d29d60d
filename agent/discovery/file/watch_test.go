// SPDX-License-Identifier: GPL-3.0-or-later

package file

import (
	"fmt"
	"testing"
	"time"

	"github.com/mailops/exchange-agent/agent/confgroup"
	"github.com/mailops/exchange-agent/agent/module"

	"github.com/stretchr/testify/assert"
)

func TestWatcher_String(t *testing.T) {
	assert.NotEmpty(t, NewWatcher(confgroup.Registry{}, nil))
}

func TestNewWatcher(t *testing.T) {
	assert.NotNil(t, NewWatcher(confgroup.Registry{}, []string{}))
}

func TestWatcher_Run(t *testing.T) {
	tests := map[string]struct {
		createSim func(tmp *tmpDir) discoverySim
	}{
		"file exists before start": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					beforeRun: func() {
						tmp.writeYAML(filename, watchTestConf("local"))
					},
					expectedGroups: []*confgroup.Group{
						watchedGroup(filename, "local"),
					},
				}
			},
		},
		"empty file produces an empty group": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					beforeRun: func() {
						tmp.writeString(filename, "")
					},
					expectedGroups: []*confgroup.Group{
						{Source: filename},
					},
				}
			},
		},
		"comments only produce an empty group": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					beforeRun: func() {
						tmp.writeString(filename, "# a comment")
					},
					expectedGroups: []*confgroup.Group{
						{Source: filename},
					},
				}
			},
		},
		"file added after start": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					afterRun: func() {
						tmp.writeYAML(filename, watchTestConf("local"))
					},
					expectedGroups: []*confgroup.Group{
						watchedGroup(filename, "local"),
					},
				}
			},
		},
		"file removed after start": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					beforeRun: func() {
						tmp.writeYAML(filename, watchTestConf("local"))
					},
					afterRun: func() {
						tmp.removeFile(filename)
					},
					expectedGroups: []*confgroup.Group{
						watchedGroup(filename, "local"),
						{Source: filename, Configs: nil},
					},
				}
			},
		},
		"file changed after start": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					beforeRun: func() {
						tmp.writeYAML(filename, watchTestConf("local"))
					},
					afterRun: func() {
						tmp.writeYAML(filename, watchTestConf("renamed"))
						time.Sleep(time.Millisecond * 500)
					},
					expectedGroups: []*confgroup.Group{
						watchedGroup(filename, "local"),
						watchedGroup(filename, "renamed"),
					},
				}
			},
		},
		"file replaced via rename (vim backupcopy=no)": {
			createSim: func(tmp *tmpDir) discoverySim {
				filename := tmp.join("exchange.conf")
				discovery := prepareDiscovery(t, Config{
					Registry: confgroup.Registry{"exchange": {}},
					Watch:    []string{tmp.join("*.conf")},
				})

				return discoverySim{
					discovery: discovery,
					beforeRun: func() {
						tmp.writeYAML(filename, watchTestConf("local"))
					},
					afterRun: func() {
						backup := filename + ".swp"
						tmp.renameFile(filename, backup)
						tmp.writeYAML(filename, watchTestConf("local"))
						tmp.removeFile(backup)
						time.Sleep(time.Millisecond * 500)
					},
					expectedGroups: []*confgroup.Group{
						watchedGroup(filename, "local"),
						watchedGroup(filename, "local"),
					},
				}
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			tmp := newTmpDir(t, "watch-run-*")
			defer tmp.cleanup()

			test.createSim(tmp).run(t)
		})
	}
}

func watchTestConf(name string) sdConfig {
	return sdConfig{
		{
			"name":   name,
			"module": "exchange",
		},
	}
}

func watchedGroup(filename, name string) *confgroup.Group {
	return &confgroup.Group{
		Source: filename,
		Configs: []confgroup.Config{
			{
				"name":                name,
				"module":              "exchange",
				"update_every":        module.UpdateEvery,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
				"__provider__":        "file watcher",
				"__source_type__":     confgroup.TypeStock,
				"__source__":          fmt.Sprintf("discoverer=file_watcher,file=%s", filename),
			},
		},
	}
}
