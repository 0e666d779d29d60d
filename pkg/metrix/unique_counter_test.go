// SPDX-License-Identifier: GPL-3.0-or-later

package metrix

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueCounter_Value(t *testing.T) {
	for _, useHLL := range []bool{true, false} {
		t.Run(fmt.Sprintf("HLL=%v", useHLL), func(t *testing.T) {
			c := NewUniqueCounter(useHLL)
			assert.Equal(t, 0, c.Value())

			c.Insert("foo")
			assert.Equal(t, 1, c.Value())

			c.Insert("foo")
			assert.Equal(t, 1, c.Value())

			c.Insert("bar")
			assert.Equal(t, 2, c.Value())

			c.Reset()
			assert.Equal(t, 0, c.Value())

			c.Insert("foo")
			assert.Equal(t, 1, c.Value())
		})
	}
}

func TestUniqueCounterVec_WriteTo(t *testing.T) {
	for _, useHLL := range []bool{true, false} {
		t.Run(fmt.Sprintf("HLL=%v", useHLL), func(t *testing.T) {
			c := NewUniqueCounterVec(useHLL)
			c.Get("a").Insert("foo")
			c.Get("a").Insert("bar")
			c.Get("b").Insert("foo")

			m := map[string]int64{}
			c.WriteTo(m, "pi", 100, 1)
			assert.Len(t, m, 2)
			assert.EqualValues(t, 200, m["pi_a"])
			assert.EqualValues(t, 100, m["pi_b"])
		})
	}
}

func TestUniqueCounterVec_Reset(t *testing.T) {
	for _, useHLL := range []bool{true, false} {
		t.Run(fmt.Sprintf("HLL=%v", useHLL), func(t *testing.T) {
			c := NewUniqueCounterVec(useHLL)
			c.Get("a").Insert("foo")
			c.Get("a").Insert("bar")
			c.Get("b").Insert("foo")

			assert.Equal(t, 2, len(c.Items))
			assert.Equal(t, 2, c.Get("a").Value())
			assert.Equal(t, 1, c.Get("b").Value())

			c.Reset()
			assert.Equal(t, 2, len(c.Items))
			assert.Equal(t, 0, c.Get("a").Value())
			assert.Equal(t, 0, c.Get("b").Value())
		})
	}
}

func TestCounter(t *testing.T) {
	var c Counter

	c.Inc()
	c.Inc()
	c.Add(2.5)

	m := map[string]int64{}
	c.WriteTo(m, "events", 1, 1)
	assert.EqualValues(t, 4, m["events"])

	assert.Panics(t, func() { c.Add(-1) })
}
