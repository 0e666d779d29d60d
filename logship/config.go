// SPDX-License-Identifier: GPL-3.0-or-later

package logship

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mailops/exchange-agent/logger"
	"github.com/mailops/exchange-agent/pkg/multipath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
)

const typeFile = "file"

// Entry is a single item of the 'logs' section of a module conf file.
type Entry struct {
	Type        string `yaml:"type"`
	Path        string `yaml:"path"`
	ExcludePath string `yaml:"exclude_path"`
	Source      string `yaml:"source"`
	Service     string `yaml:"service"`
}

func (e Entry) validate() error {
	if e.Type != typeFile {
		return fmt.Errorf("unsupported type '%s' (only '%s' is supported)", e.Type, typeFile)
	}
	if e.Path == "" {
		return errors.New("'path' is required")
	}
	if !doublestar.ValidatePattern(filepath.ToSlash(e.Path)) {
		return fmt.Errorf("bad 'path' pattern '%s'", e.Path)
	}
	if e.ExcludePath != "" && !doublestar.ValidatePattern(filepath.ToSlash(e.ExcludePath)) {
		return fmt.Errorf("bad 'exclude_path' pattern '%s'", e.ExcludePath)
	}
	return nil
}

// readEntries collects 'logs' entries from every '*.d/conf.yaml' under the
// given conf dirs. The first dir wins when the same conf file is present in
// several dirs. Invalid entries are logged and skipped.
func readEntries(confDir multipath.MultiPath, log *logger.Logger) []Entry {
	var entries []Entry
	seen := make(map[string]bool)

	for _, dir := range confDir {
		paths, err := filepath.Glob(filepath.Join(dir, "*.d", "conf.yaml"))
		if err != nil {
			continue
		}
		for _, path := range paths {
			name := filepath.Base(filepath.Dir(path))
			if seen[name] {
				continue
			}
			seen[name] = true

			es, err := parseEntries(path)
			if err != nil {
				log.Warningf("parse '%s': %v", path, err)
				continue
			}

			for _, e := range es {
				if e.Type == "" {
					e.Type = typeFile
				}
				if err := e.validate(); err != nil {
					log.Warningf("skipping logs entry from '%s': %v", path, err)
					continue
				}
				if e.Source == "" {
					e.Source = strings.TrimSuffix(name, ".d")
				}
				entries = append(entries, e)
			}
		}
	}

	return entries
}

func parseEntries(path string) ([]Entry, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bs) == 0 {
		return nil, nil
	}

	// Only the 'logs' key is decoded, the rest of the conf file belongs to
	// job discovery.
	var cfg struct {
		Logs []Entry `yaml:"logs"`
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return nil, err
	}

	return cfg.Logs, nil
}
