// SPDX-License-Identifier: GPL-3.0-or-later

package file

import (
	"fmt"
	"testing"

	"github.com/mailops/exchange-agent/agent/confgroup"
	"github.com/mailops/exchange-agent/agent/module"

	"github.com/stretchr/testify/assert"
)

func TestReader_String(t *testing.T) {
	assert.NotEmpty(t, NewReader(confgroup.Registry{}, nil))
}

func TestNewReader(t *testing.T) {
	assert.NotNil(t, NewReader(confgroup.Registry{}, []string{}))
}

func TestReader_Run(t *testing.T) {
	tmp := newTmpDir(t, "reader-run-*")
	defer tmp.cleanup()

	exchangeConf := tmp.join("exchange.conf")
	msgtrackingConf := tmp.join("msgtracking.conf")
	emptyConf := tmp.join("empty.conf")

	tmp.writeYAML(exchangeConf, staticConfig{
		Jobs: []confgroup.Config{{"name": "local"}},
	})
	tmp.writeYAML(msgtrackingConf, staticConfig{
		Jobs: []confgroup.Config{{"name": "local"}},
	})
	tmp.writeString(emptyConf, "# a comment")

	discovery := prepareDiscovery(t, Config{
		Registry: confgroup.Registry{
			"exchange":    {},
			"msgtracking": {},
			"empty":       {},
		},
		Read: []string{exchangeConf, msgtrackingConf, emptyConf},
	})

	want := []*confgroup.Group{
		readGroup(exchangeConf, "exchange"),
		readGroup(msgtrackingConf, "msgtracking"),
		{Source: emptyConf},
	}

	sim := discoverySim{
		discovery:      discovery,
		expectedGroups: want,
	}
	sim.run(t)
}

func readGroup(filename, moduleName string) *confgroup.Group {
	return &confgroup.Group{
		Source: filename,
		Configs: []confgroup.Config{
			{
				"name":                "local",
				"module":              moduleName,
				"update_every":        module.UpdateEvery,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
				"__provider__":        "file reader",
				"__source_type__":     confgroup.TypeStock,
				"__source__":          fmt.Sprintf("discoverer=file_reader,file=%s", filename),
			},
		},
	}
}
