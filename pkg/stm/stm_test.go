// SPDX-License-Identifier: GPL-3.0-or-later

package stm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testValue float64

func (v testValue) WriteTo(rv map[string]int64, key string, mul, div int) {
	rv[key] = int64(float64(v) * float64(mul) / float64(div))
}

func TestToMap(t *testing.T) {
	type inner struct {
		Requests int64 `stm:"requests"`
	}
	s := struct {
		Events    int64            `stm:"events"`
		Dropped   uint64           `stm:"dropped"`
		Active    bool             `stm:"active"`
		Latency   float64          `stm:"latency,1000,1"`
		Value     testValue        `stm:"value"`
		ByName    map[string]int64 `stm:"by_name"`
		Nested    inner            `stm:"nested"`
		NestedPtr *inner           `stm:"nested_ptr"`
		Inline    inner            `stm:""`
		skipped   int64
	}{
		Events:    10,
		Dropped:   2,
		Active:    true,
		Latency:   0.5,
		Value:     3,
		ByName:    map[string]int64{"a": 1, "b": 2},
		Nested:    inner{Requests: 7},
		NestedPtr: nil,
		Inline:    inner{Requests: 9},
	}

	assert.Equal(t, map[string]int64{
		"events":          10,
		"dropped":         2,
		"active":          1,
		"latency":         500,
		"value":           3,
		"by_name_a":       1,
		"by_name_b":       2,
		"nested_requests": 7,
		"requests":        9,
	}, ToMap(s))
}

func TestToMap_unsupportedType(t *testing.T) {
	s := struct {
		Name string `stm:"name"`
	}{Name: "x"}

	assert.Panics(t, func() { ToMap(s) })
}
