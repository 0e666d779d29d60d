// SPDX-License-Identifier: GPL-3.0-or-later

package dummy

import (
	"context"
	"testing"
	"time"

	"github.com/mailops/exchange-agent/agent/confgroup"
	"github.com/mailops/exchange-agent/agent/module"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscovery(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"registry and names set": {
			cfg: Config{
				Registry: confgroup.Registry{"exchange": confgroup.Default{}},
				Names:    []string{"exchange", "msgtracking"},
			},
		},
		"registry not set": {
			cfg: Config{
				Names: []string{"exchange", "msgtracking"},
			},
			wantErr: true,
		},
		"names not set": {
			cfg: Config{
				Registry: confgroup.Registry{"exchange": confgroup.Default{}},
			},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := NewDiscovery(test.cfg)

			if test.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, d)
			}
		})
	}
}

func TestDiscovery_Run(t *testing.T) {
	want := []*confgroup.Group{
		defaultJobGroup("exchange"),
		defaultJobGroup("msgtracking"),
	}

	discovery, err := NewDiscovery(Config{
		Registry: confgroup.Registry{
			"exchange":    {},
			"msgtracking": {},
		},
		Names: []string{"exchange", "msgtracking"},
	})
	require.NoError(t, err)

	in := make(chan []*confgroup.Group)
	go discovery.Run(context.Background(), in)

	var got []*confgroup.Group
	select {
	case got = <-in:
	case <-time.After(time.Second * 2):
		t.Log("discovery timed out")
	}

	assert.Equal(t, want, got)
}

func defaultJobGroup(name string) *confgroup.Group {
	return &confgroup.Group{
		Source: name,
		Configs: []confgroup.Config{
			{
				"name":                name,
				"module":              name,
				"update_every":        module.UpdateEvery,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
				"__source__":          name,
				"__provider__":        "dummy",
			},
		},
	}
}
