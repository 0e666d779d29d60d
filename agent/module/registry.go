// SPDX-License-Identifier: GPL-3.0-or-later

package module

import "fmt"

// Scheduling defaults applied to every job unless the creator or the job
// config overrides them.
const (
	UpdateEvery        = 1
	AutoDetectionRetry = 0
	Priority           = 70000
)

// Defaults are creator-level overrides of the scheduling defaults.
type Defaults struct {
	UpdateEvery        int
	AutoDetectionRetry int
	Priority           int
	Disabled           bool
}

type (
	// Creator knows how to build instances of a single collector module.
	Creator struct {
		Defaults
		Create          func() Module
		JobConfigSchema string
		Config          func() any
	}
	// Registry maps a module name to its Creator.
	Registry map[string]Creator
)

// DefaultRegistry is the registry collector packages register into from
// their init functions.
var DefaultRegistry = Registry{}

// Register adds a creator to the DefaultRegistry. It panics if the name is
// already taken, duplicate registration is a programming error.
func Register(name string, creator Creator) {
	DefaultRegistry.Register(name, creator)
}

func (r Registry) Register(name string, creator Creator) {
	if _, ok := r[name]; ok {
		panic(fmt.Sprintf("module '%s' is already in the registry", name))
	}
	r[name] = creator
}

func (r Registry) Lookup(name string) (Creator, bool) {
	v, ok := r[name]
	return v, ok
}
