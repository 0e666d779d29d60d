// SPDX-License-Identifier: GPL-3.0-or-later

package agent

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/mailops/exchange-agent/agent/confgroup"
	"github.com/mailops/exchange-agent/agent/discovery"
	"github.com/mailops/exchange-agent/agent/discovery/dummy"
	"github.com/mailops/exchange-agent/agent/discovery/file"
	"github.com/mailops/exchange-agent/agent/module"
	"github.com/mailops/exchange-agent/pkg/multipath"

	"github.com/goccy/go-yaml"
)

func (a *Agent) loadPluginConfig() config {
	a.Info("loading config file")

	if len(a.ConfDir) == 0 {
		a.Info("config dir not provided, will use defaults")
		return defaultConfig()
	}

	cfgPath := a.Name + ".conf"
	a.Debugf("looking for '%s' in %v", cfgPath, a.ConfDir)

	path, err := a.ConfDir.Find(cfgPath)
	if err != nil || path == "" {
		a.Warning("couldn't find config, will use defaults")
		return defaultConfig()
	}
	a.Infof("found '%s'", path)

	cfg := defaultConfig()
	if err := loadYAML(&cfg, path); err != nil {
		a.Warningf("couldn't load config '%s': %v, will use defaults", path, err)
		return defaultConfig()
	}

	a.Info("config successfully loaded")
	return cfg
}

func (a *Agent) loadEnabledModules(cfg config) module.Registry {
	a.Info("loading modules")

	all := a.RunModule == "all" || a.RunModule == ""
	enabled := module.Registry{}

	for name, creator := range a.ModuleRegistry {
		if !all && a.RunModule != name {
			continue
		}

		if all {
			if creator.Disabled && !cfg.isExplicitlyEnabled(name) {
				a.Infof("'%s' module disabled by default, should be explicitly enabled in the config", name)
				continue
			}

			if !cfg.isImplicitlyEnabled(name) {
				a.Infof("'%s' module disabled in the config file", name)
				continue
			}
		}

		enabled[name] = creator
	}

	a.Infof("enabled/registered modules: %d/%d", len(enabled), len(a.ModuleRegistry))

	return enabled
}

func (a *Agent) buildDiscoveryConf(enabled module.Registry) discovery.Config {
	a.Info("building discovery config")

	reg := confgroup.Registry{}
	for name, creator := range enabled {
		reg.Register(name, confgroup.Default{
			MinUpdateEvery:     a.MinUpdateEvery,
			UpdateEvery:        creator.UpdateEvery,
			AutoDetectionRetry: creator.AutoDetectionRetry,
			Priority:           creator.Priority,
		})
	}

	var watchPaths, dummyPaths []string

	if len(a.ModulesConfDir) == 0 {
		a.Info("modules conf dir not provided, will use default config for all enabled modules")
		for name := range enabled {
			dummyPaths = append(dummyPaths, name)
		}
		return discovery.Config{
			Registry: reg,
			Dummy:    dummy.Config{Names: dummyPaths},
		}
	}

	// Module job definitions live in '<module>.d/conf.yaml'.
	for name := range enabled {
		cfgName := filepath.Join(name+".d", "conf.yaml")
		a.Debugf("looking for '%s' in %v", cfgName, a.ModulesConfDir)

		path, err := a.ModulesConfDir.Find(cfgName)
		if err != nil {
			if multipath.IsNotFound(err) {
				a.Infof("couldn't find '%s' module config, will use default config", name)
				dummyPaths = append(dummyPaths, name)
			} else {
				a.Warningf("couldn't look for '%s' module config: %v", name, err)
			}
			continue
		}

		a.Debugf("found '%s'", path)
		watchPaths = append(watchPaths, path)
	}

	watchPaths = append(watchPaths, a.ModulesConfWatchPath...)

	a.Infof("dummy/watch paths: %d/%d", len(dummyPaths), len(watchPaths))

	return discovery.Config{
		Registry: reg,
		File: file.Config{
			Watch: watchPaths,
		},
		Dummy: dummy.Config{
			Names: dummyPaths,
		},
	}
}

func loadYAML(conf any, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := yaml.NewDecoder(f).Decode(conf); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
