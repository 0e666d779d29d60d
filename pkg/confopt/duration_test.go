// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v2"
)

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := map[string]struct {
		input any
		want  time.Duration
	}{
		"duration string": {input: "300ms", want: 300 * time.Millisecond},
		"minutes string":  {input: "1m30s", want: 90 * time.Second},
		"int":             {input: 2, want: 2 * time.Second},
		"float":           {input: 2.5, want: 2500 * time.Millisecond},
	}

	for name, test := range tests {
		name = fmt.Sprintf("%s (%v)", name, test.input)
		t.Run(name, func(t *testing.T) {
			data := fmt.Sprintf("timeout: %v", test.input)

			var s struct {
				Timeout Duration `yaml:"timeout"`
			}
			err := yaml.Unmarshal([]byte(data), &s)

			assert.NoError(t, err)
			assert.Equal(t, test.want, s.Timeout.Duration())
		})
	}
}

func TestDuration_MarshalYAML(t *testing.T) {
	var s struct {
		Timeout Duration `yaml:"timeout"`
	}
	s.Timeout = Duration(1500 * time.Millisecond)

	bs, err := yaml.Marshal(&s)

	assert.NoError(t, err)
	assert.Equal(t, "timeout: 1.5", strings.TrimSpace(string(bs)))
}
