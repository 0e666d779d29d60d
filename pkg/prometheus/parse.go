// SPDX-License-Identifier: GPL-3.0-or-later

package prometheus

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/mailops/exchange-agent/pkg/prometheus/selector"

	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/model/textparse"
)

type promTextParser struct {
	metrics MetricFamilies
	series  Series

	sr selector.Selector

	currMF     *MetricFamily
	currSeries labels.Labels

	// sample index within the family for multi line metrics (summary, histogram),
	// keyed by family name and the sample label set
	grouping map[string]int
}

const (
	quantileLabel = "quantile"
	bucketLabel   = "le"
)

const (
	countSuffix  = "_count"
	sumSuffix    = "_sum"
	bucketSuffix = "_bucket"
)

func (p *promTextParser) parseToSeries(text []byte) (Series, error) {
	p.series.Reset()

	parser := textparse.NewPromParser(text, labels.NewSymbolTable(), false)
	for {
		entry, err := parser.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if entry == textparse.EntryInvalid && strings.HasPrefix(err.Error(), "invalid metric type") {
				continue
			}
			return nil, err
		}

		switch entry {
		case textparse.EntrySeries:
			p.currSeries = p.currSeries[:0]

			parser.Labels(&p.currSeries)

			if p.sr != nil && !p.sr.Matches(p.currSeries) {
				continue
			}

			_, _, val := parser.Series()
			p.series.Add(SeriesSample{Labels: copyLabels(p.currSeries), Value: val})
		}
	}

	p.series.Sort()
	if len(p.series) == 0 {
		return nil, errors.New("no metrics collected")
	}
	return p.series, nil
}

func (p *promTextParser) parseToMetricFamilies(text []byte) (MetricFamilies, error) {
	p.reset()

	parser := textparse.NewPromParser(text, labels.NewSymbolTable(), false)
	for {
		entry, err := parser.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if entry == textparse.EntryInvalid && strings.HasPrefix(err.Error(), "invalid metric type") {
				continue
			}
			return nil, err
		}

		switch entry {
		case textparse.EntryHelp:
			name, help := parser.Help()
			p.setMetricFamilyByName(string(name))
			p.currMF.help = string(help)
		case textparse.EntryType:
			name, typ := parser.Type()
			p.setMetricFamilyByName(string(name))
			p.currMF.typ = typ
		case textparse.EntrySeries:
			p.currSeries = p.currSeries[:0]

			parser.Labels(&p.currSeries)

			if p.sr != nil && !p.sr.Matches(p.currSeries) {
				continue
			}

			_, _, value := parser.Series()
			p.addSeries(value)
		}
	}

	for name, mf := range p.metrics {
		if len(mf.metrics) == 0 {
			delete(p.metrics, name)
		}
	}
	if len(p.metrics) == 0 {
		return nil, errors.New("no metrics collected")
	}
	return p.metrics, nil
}

func (p *promTextParser) reset() {
	p.currMF = nil
	p.currSeries = p.currSeries[:0]

	if p.metrics == nil {
		p.metrics = make(MetricFamilies)
	}
	for name := range p.metrics {
		delete(p.metrics, name)
	}

	if p.grouping == nil {
		p.grouping = make(map[string]int)
	}
	for key := range p.grouping {
		delete(p.grouping, key)
	}
}

func (p *promTextParser) setMetricFamilyByName(name string) {
	mf, ok := p.metrics[name]
	if !ok {
		mf = &MetricFamily{name: name, typ: model.MetricTypeUnknown}
		p.metrics[name] = mf
	}
	p.currMF = mf
}

func (p *promTextParser) addSeries(value float64) {
	name := p.currSeries[0].Value

	switch {
	case p.currSeries.Has(quantileLabel):
		p.addSummarySample(name, value)
	case strings.HasSuffix(name, bucketSuffix) && p.currSeries.Has(bucketLabel):
		p.addHistogramBucket(strings.TrimSuffix(name, bucketSuffix), value)
	case strings.HasSuffix(name, sumSuffix):
		if !p.addSumCountSample(strings.TrimSuffix(name, sumSuffix), value, true) {
			p.addSimpleSample(name, value)
		}
	case strings.HasSuffix(name, countSuffix):
		if !p.addSumCountSample(strings.TrimSuffix(name, countSuffix), value, false) {
			p.addSimpleSample(name, value)
		}
	default:
		p.addSimpleSample(name, value)
	}
}

func (p *promTextParser) addSimpleSample(name string, value float64) {
	p.setMetricFamilyByName(name)

	m := Metric{labels: copyLabelsWithout(p.currSeries, labels.MetricName)}

	switch p.currMF.typ {
	case model.MetricTypeGauge:
		m.gauge = &Gauge{value: value}
	case model.MetricTypeCounter:
		m.counter = &Counter{value: value}
	case model.MetricTypeUnknown:
		m.untyped = &Untyped{value: value}
	default:
		// a sample of a summary/histogram family without quantile/le labels
		return
	}

	p.currMF.metrics = append(p.currMF.metrics, m)
}

func (p *promTextParser) addSummarySample(name string, value float64) {
	p.setMetricFamilyByName(name)
	if p.currMF.typ == model.MetricTypeUnknown {
		p.currMF.typ = model.MetricTypeSummary
	}
	if p.currMF.typ != model.MetricTypeSummary {
		return
	}

	q, err := strconv.ParseFloat(p.currSeries.Get(quantileLabel), 64)
	if err != nil {
		return
	}

	m := p.groupedMetric(quantileLabel)
	if m.summary == nil {
		m.summary = &Summary{}
	}
	m.summary.quantiles = append(m.summary.quantiles, Quantile{quantile: q, value: value})
}

func (p *promTextParser) addHistogramBucket(name string, value float64) {
	p.setMetricFamilyByName(name)
	if p.currMF.typ == model.MetricTypeUnknown {
		p.currMF.typ = model.MetricTypeHistogram
	}
	if p.currMF.typ != model.MetricTypeHistogram {
		return
	}

	le, err := strconv.ParseFloat(p.currSeries.Get(bucketLabel), 64)
	if err != nil {
		return
	}

	m := p.groupedMetric(bucketLabel)
	if m.histogram == nil {
		m.histogram = &Histogram{}
	}
	m.histogram.buckets = append(m.histogram.buckets, Bucket{upperBound: le, cumulativeCount: value})
}

func (p *promTextParser) addSumCountSample(name string, value float64, isSum bool) bool {
	mf, ok := p.metrics[name]
	if !ok {
		return false
	}

	switch mf.typ {
	case model.MetricTypeSummary, model.MetricTypeHistogram:
	default:
		return false
	}

	p.currMF = mf

	m := p.groupedMetric("")

	switch {
	case mf.typ == model.MetricTypeSummary:
		if m.summary == nil {
			m.summary = &Summary{}
		}
		if isSum {
			m.summary.sum = value
		} else {
			m.summary.count = value
		}
	default:
		if m.histogram == nil {
			m.histogram = &Histogram{}
		}
		if isSum {
			m.histogram.sum = value
		} else {
			m.histogram.count = value
		}
	}
	return true
}

// groupedMetric returns the family sample with the current series label set
// (sans __name__ and the given extra label), creating it on first use.
func (p *promTextParser) groupedMetric(extraLabel string) *Metric {
	lbs := copyLabelsWithout(p.currSeries, labels.MetricName, extraLabel)

	var sb strings.Builder
	sb.WriteString(p.currMF.name)
	for _, l := range lbs {
		sb.WriteByte(0xff)
		sb.WriteString(l.Name)
		sb.WriteByte(0xff)
		sb.WriteString(l.Value)
	}
	key := sb.String()

	idx, ok := p.grouping[key]
	if !ok {
		idx = len(p.currMF.metrics)
		p.currMF.metrics = append(p.currMF.metrics, Metric{labels: lbs})
		p.grouping[key] = idx
	}
	return &p.currMF.metrics[idx]
}

func copyLabels(lbs labels.Labels) labels.Labels {
	return append(labels.Labels{}, lbs...)
}

func copyLabelsWithout(lbs labels.Labels, without ...string) labels.Labels {
	result := make(labels.Labels, 0, len(lbs))
loop:
	for _, l := range lbs {
		for _, name := range without {
			if name != "" && l.Name == name {
				continue loop
			}
		}
		result = append(result, l)
	}
	return result
}
