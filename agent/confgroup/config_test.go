// SPDX-License-Identifier: GPL-3.0-or-later

package confgroup

import (
	"testing"

	"github.com/mailops/exchange-agent/agent/module"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Name(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		want string
	}{
		"set":          {cfg: Config{"name": "job1"}, want: "job1"},
		"empty string": {cfg: Config{"name": ""}, want: ""},
		"wrong type":   {cfg: Config{"name": 42}, want: ""},
		"not set":      {cfg: Config{}, want: ""},
		"nil config":   {want: ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.cfg.Name())
		})
	}
}

func TestConfig_Module(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		want string
	}{
		"set":          {cfg: Config{"module": "msgtracking"}, want: "msgtracking"},
		"empty string": {cfg: Config{"module": ""}, want: ""},
		"wrong type":   {cfg: Config{"module": 42}, want: ""},
		"not set":      {cfg: Config{}, want: ""},
		"nil config":   {want: ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.cfg.Module())
		})
	}
}

func TestConfig_FullName(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		want string
	}{
		"name equals module": {cfg: Config{"name": "exchange", "module": "exchange"}, want: "exchange"},
		"name differs":       {cfg: Config{"name": "local", "module": "exchange"}, want: "exchange_local"},
		"nil config":         {want: ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.cfg.FullName())
		})
	}
}

func TestConfig_IntFields(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		get  func(Config) int
		want int
	}{
		"update_every int":            {cfg: Config{"update_every": 5}, get: Config.UpdateEvery, want: 5},
		"update_every string":         {cfg: Config{"update_every": "5"}, get: Config.UpdateEvery, want: 0},
		"update_every not set":        {cfg: Config{}, get: Config.UpdateEvery, want: 0},
		"autodetection_retry int":     {cfg: Config{"autodetection_retry": 30}, get: Config.AutoDetectionRetry, want: 30},
		"autodetection_retry string":  {cfg: Config{"autodetection_retry": "30"}, get: Config.AutoDetectionRetry, want: 0},
		"autodetection_retry not set": {cfg: Config{}, get: Config.AutoDetectionRetry, want: 0},
		"priority int":                {cfg: Config{"priority": 90000}, get: Config.Priority, want: 90000},
		"priority string":             {cfg: Config{"priority": "90000"}, get: Config.Priority, want: 0},
		"priority not set":            {cfg: Config{}, get: Config.Priority, want: 0},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, test.get(test.cfg))
		})
	}
}

func TestConfig_Hash(t *testing.T) {
	tests := map[string]struct {
		one, two  Config
		wantEqual bool
	}{
		"same keys": {
			one:       Config{"name": "job1"},
			two:       Config{"name": "job1"},
			wantEqual: true,
		},
		"same keys, different dunder keys": {
			one:       Config{"name": "job1", "__key__": 1},
			two:       Config{"name": "job1", "__value__": 1},
			wantEqual: true,
		},
		"same keys, same dunder keys": {
			one:       Config{"name": "job1", "__key__": 1},
			two:       Config{"name": "job1", "__key__": 1},
			wantEqual: true,
		},
		"different keys": {
			one:       Config{"name": "job1"},
			two:       Config{"name": "job2"},
			wantEqual: false,
		},
		"different keys, same dunder keys": {
			one:       Config{"name": "job1", "__key__": 1},
			two:       Config{"name": "job2", "__key__": 1},
			wantEqual: false,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.wantEqual {
				assert.Equal(t, test.one.Hash(), test.two.Hash())
			} else {
				assert.NotEqual(t, test.one.Hash(), test.two.Hash())
			}
		})
	}

	assert.NotZero(t, Config{"name": "job1", "module": "exchange"}.Hash())
}

func TestConfig_Setters(t *testing.T) {
	cfg := Config{}

	cfg.SetModule("exchange")
	cfg.SetSource("file:/etc/exchange-agent/exchange.conf")
	cfg.SetProvider("file watcher")

	assert.Equal(t, "exchange", cfg.Module())
	assert.Equal(t, "file:/etc/exchange-agent/exchange.conf", cfg.Source())
	assert.Equal(t, "file watcher", cfg.Provider())
}

func TestConfig_ApplyDefaults(t *testing.T) {
	const fromJob = 11
	const fromCreator = 22

	tests := map[string]struct {
		def  Default
		cfg  Config
		want Config
	}{
		"job values win over creator defaults": {
			def: Default{
				UpdateEvery:        fromCreator,
				AutoDetectionRetry: fromCreator,
				Priority:           fromCreator,
			},
			cfg: Config{
				"name":                "job1",
				"module":              "exchange",
				"update_every":        fromJob,
				"autodetection_retry": fromJob,
				"priority":            fromJob,
			},
			want: Config{
				"name":                "job1",
				"module":              "exchange",
				"update_every":        fromJob,
				"autodetection_retry": fromJob,
				"priority":            fromJob,
			},
		},
		"creator defaults fill unset job values": {
			def: Default{
				UpdateEvery:        fromCreator,
				AutoDetectionRetry: fromCreator,
				Priority:           fromCreator,
			},
			cfg: Config{
				"name":   "job1",
				"module": "exchange",
			},
			want: Config{
				"name":                "job1",
				"module":              "exchange",
				"update_every":        fromCreator,
				"autodetection_retry": fromCreator,
				"priority":            fromCreator,
			},
		},
		"global defaults when neither job nor creator set values": {
			def: Default{},
			cfg: Config{
				"name":   "job1",
				"module": "exchange",
			},
			want: Config{
				"name":                "job1",
				"module":              "exchange",
				"update_every":        module.UpdateEvery,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
			},
		},
		"update_every raised to the minimum": {
			def: Default{
				MinUpdateEvery: fromJob + 10,
			},
			cfg: Config{
				"name":         "job1",
				"module":       "exchange",
				"update_every": fromJob,
			},
			want: Config{
				"name":                "job1",
				"module":              "exchange",
				"update_every":        fromJob + 10,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
			},
		},
		"update_every above the minimum left alone": {
			def: Default{
				MinUpdateEvery: 2,
			},
			cfg: Config{
				"name":         "job1",
				"module":       "exchange",
				"update_every": fromJob,
			},
			want: Config{
				"name":                "job1",
				"module":              "exchange",
				"update_every":        fromJob,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
			},
		},
		"missing name defaults to the module name": {
			def: Default{},
			cfg: Config{
				"module": "exchange",
			},
			want: Config{
				"name":                "exchange",
				"module":              "exchange",
				"update_every":        module.UpdateEvery,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
			},
		},
		"spaces in name replaced": {
			def: Default{},
			cfg: Config{
				"name":   "my job",
				"module": "exchange",
			},
			want: Config{
				"name":                "my_job",
				"module":              "exchange",
				"update_every":        module.UpdateEvery,
				"autodetection_retry": module.AutoDetectionRetry,
				"priority":            module.Priority,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			test.cfg.ApplyDefaults(test.def)

			assert.Equal(t, test.want, test.cfg)
		})
	}
}
