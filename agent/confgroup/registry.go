// SPDX-License-Identifier: GPL-3.0-or-later

package confgroup

// Registry holds per module job defaults.
type Registry map[string]Default

type Default struct {
	MinUpdateEvery     int `yaml:"min_update_every" json:"min_update_every"`
	UpdateEvery        int `yaml:"update_every" json:"update_every"`
	AutoDetectionRetry int `yaml:"autodetection_retry" json:"autodetection_retry"`
	Priority           int `yaml:"priority" json:"priority"`
}

func (r Registry) Register(name string, def Default) {
	if name != "" {
		r[name] = def
	}
}

func (r Registry) Lookup(name string) (Default, bool) {
	def, ok := r[name]
	return def, ok
}
