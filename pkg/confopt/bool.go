// SPDX-License-Identifier: GPL-3.0-or-later

package confopt

import (
	"fmt"
	"strings"
)

// FlexBool is a boolean that accepts common truthy and falsy spellings
// (yes/no, on/off, y/n, t/f, 1/0) in YAML config files.
type FlexBool bool

func (b FlexBool) MarshalYAML() (any, error) {
	return bool(b), nil
}

func (b *FlexBool) UnmarshalYAML(unmarshal func(any) error) error {
	var v bool
	if err := unmarshal(&v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)

	switch strings.ToLower(s) {
	case "true", "yes", "y", "t", "on", "1":
		*b = true
	case "false", "no", "n", "f", "off", "0":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value '%s'", s)
	}

	return nil
}
