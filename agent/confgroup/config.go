// SPDX-License-Identifier: GPL-3.0-or-later

package confgroup

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/mailops/exchange-agent/agent/module"

	"github.com/gohugoio/hashstructure"
)

type Group struct {
	Configs []Config
	Source  string
}

type Config map[string]any

func (c Config) HashIncludeMap(_ string, k, _ any) (bool, error) {
	s := k.(string)
	return !(strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__")), nil
}

func (c Config) Set(key string, value any) Config { c[key] = value; return c }
func (c Config) Get(key string) any               { return c[key] }

func (c Config) Name() string            { v, _ := c.Get("name").(string); return v }
func (c Config) Module() string          { v, _ := c.Get("module").(string); return v }
func (c Config) FullName() string        { return fullName(c.Name(), c.Module()) }
func (c Config) UpdateEvery() int        { v, _ := c.Get("update_every").(int); return v }
func (c Config) AutoDetectionRetry() int { v, _ := c.Get("autodetection_retry").(int); return v }
func (c Config) Priority() int           { v, _ := c.Get("priority").(int); return v }
func (c Config) Labels() map[string]any  { return toStringKeyMap(c.Get("labels")) }
func (c Config) Hash() uint64            { return calcHash(c) }
func (c Config) Source() string          { v, _ := c.Get("__source__").(string); return v }
func (c Config) SourceType() string      { v, _ := c.Get("__source_type__").(string); return v }
func (c Config) Provider() string        { v, _ := c.Get("__provider__").(string); return v }
func (c Config) SourceTypePriority() int { return sourceTypePriority(c.SourceType()) }

func (c Config) SetName(v string) Config       { return c.Set("name", v) }
func (c Config) SetModule(v string) Config     { return c.Set("module", v) }
func (c Config) SetSource(v string) Config     { return c.Set("__source__", v) }
func (c Config) SetSourceType(v string) Config { return c.Set("__source_type__", v) }
func (c Config) SetProvider(v string) Config   { return c.Set("__provider__", v) }

func (c Config) UID() string {
	return fmt.Sprintf("%s_%d", c.FullName(), c.Hash())
}

func (c Config) ApplyDefaults(def Default) {
	if c.UpdateEvery() <= 0 {
		v := firstPositive(def.UpdateEvery, module.UpdateEvery)
		c.Set("update_every", v)
	}
	if c.AutoDetectionRetry() <= 0 {
		v := firstPositive(def.AutoDetectionRetry, module.AutoDetectionRetry)
		c.Set("autodetection_retry", v)
	}
	if c.Priority() <= 0 {
		v := firstPositive(def.Priority, module.Priority)
		c.Set("priority", v)
	}
	if c.UpdateEvery() < def.MinUpdateEvery && def.MinUpdateEvery > 0 {
		c.Set("update_every", def.MinUpdateEvery)
	}
	if c.Name() == "" {
		c.Set("name", c.Module())
	} else {
		c.Set("name", cleanName(jobNameResolveHostname(c.Name())))
	}
}

const (
	TypeStock      = "stock"
	TypeUser       = "user"
	TypeDiscovered = "discovered"
)

func sourceTypePriority(sourceType string) int {
	switch sourceType {
	case TypeStock:
		return 2
	case TypeDiscovered:
		return 4
	case TypeUser:
		return 8
	default:
		return 0
	}
}

var reInvalidCharacters = regexp.MustCompile(`\s+|\.+`)

func cleanName(name string) string {
	return reInvalidCharacters.ReplaceAllString(name, "_")
}

func fullName(name, module string) string {
	if name == module {
		return name
	}
	return module + "_" + name
}

// toStringKeyMap accepts both yaml.v2 (map[any]any) and goccy (map[string]any) decoded maps.
func toStringKeyMap(v any) map[string]any {
	switch v := v.(type) {
	case map[string]any:
		return v
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			if s, ok := k.(string); ok {
				m[s] = val
			}
		}
		return m
	default:
		return nil
	}
}

func calcHash(obj any) uint64 {
	hash, _ := hashstructure.Hash(obj, nil)
	return hash
}

func firstPositive(value int, others ...int) int {
	if value > 0 || len(others) == 0 {
		return value
	}
	return firstPositive(others[0], others[1:]...)
}

func urlResolveHostname(rawURL string) string {
	if hostname == "" || !strings.Contains(rawURL, "hostname") {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Hostname() != "hostname" && !strings.Contains(u.Hostname(), "hostname.")) {
		return rawURL
	}

	u.Host = strings.Replace(u.Host, "hostname", hostname, 1)

	return u.String()
}

func jobNameResolveHostname(name string) string {
	if hostname == "" || !strings.Contains(name, "hostname") {
		return name
	}

	if name != "hostname" && !strings.HasPrefix(name, "hostname.") && !strings.HasPrefix(name, "hostname_") {
		return name
	}

	return strings.Replace(name, "hostname", hostname, 1)
}

var hostname, _ = os.Hostname()
