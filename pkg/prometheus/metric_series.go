// SPDX-License-Identifier: GPL-3.0-or-later

package prometheus

import (
	"sort"

	"github.com/prometheus/prometheus/model/labels"
)

type (
	// SeriesSample is a single scraped sample: a label set and its value.
	SeriesSample struct {
		Labels labels.Labels
		Value  float64
	}

	// Series is a list of samples. Lookup methods require it to be
	// sorted by metric name.
	Series []SeriesSample
)

// Name returns the value of the __name__ label.
func (s SeriesSample) Name() string {
	return s.Labels[0].Value
}

// Add appends a sample.
func (s *Series) Add(kv SeriesSample) {
	*s = append(*s, kv)
}

// Reset empties the series keeping the underlying storage for reuse.
func (s *Series) Reset() {
	*s = (*s)[:0]
}

// Sort sorts samples by metric name.
func (s Series) Sort() { sort.Sort(s) }

func (s Series) Len() int           { return len(s) }
func (s Series) Less(i, j int) bool { return s[i].Name() < s[j].Name() }
func (s Series) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// FindByName returns all samples whose __name__ equals name.
// The series must be sorted.
func (s Series) FindByName(name string) Series {
	from := sort.Search(len(s), func(i int) bool { return s[i].Name() >= name })
	if from == len(s) || s[from].Name() != name {
		return Series{}
	}
	until := from + 1
	for until < len(s) && s[until].Name() == name {
		until++
	}
	return s[from:until]
}

// FindByNames returns all samples whose __name__ equals any of the names.
// The series must be sorted.
func (s Series) FindByNames(names ...string) Series {
	switch len(names) {
	case 0:
		return Series{}
	case 1:
		return s.FindByName(names[0])
	}
	var res Series
	for _, name := range names {
		res = append(res, s.FindByName(name)...)
	}
	return res
}

// Max returns the largest sample value, or 0 for an empty series.
// Does not require the series to be sorted.
func (s Series) Max() float64 {
	if len(s) == 0 {
		return 0
	}
	maxv := s[0].Value
	for _, kv := range s[1:] {
		if kv.Value > maxv {
			maxv = kv.Value
		}
	}
	return maxv
}
