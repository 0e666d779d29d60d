// SPDX-License-Identifier: GPL-3.0-or-later

package selector

import (
	"testing"

	"github.com/prometheus/prometheus/model/labels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		expr      string
		series    labels.Labels
		wantMatch bool
		wantErr   bool
	}{
		"bare name with simple patterns": {
			expr:      "exchange_rpc_user_count !exchange_rpc_* *",
			series:    labels.Labels{{Name: labels.MetricName, Value: "exchange_rpc_user_count"}},
			wantMatch: true,
		},
		"name with equality on a label": {
			expr: `exchange_queue_*{name="poison"}`,
			series: labels.Labels{
				{Name: labels.MetricName, Value: "exchange_queue_length"},
				{Name: "name", Value: "poison"},
			},
			wantMatch: true,
		},
		"name with negated equality on a label": {
			expr: `exchange_queue_*{name!="poison"}`,
			series: labels.Labels{
				{Name: labels.MetricName, Value: "exchange_queue_length"},
				{Name: "name", Value: "poison"},
			},
			wantMatch: false,
		},
		"name with regexp on a label": {
			expr: `exchange_queue_*{name=~"pois.+"}`,
			series: labels.Labels{
				{Name: labels.MetricName, Value: "exchange_queue_length"},
				{Name: "name", Value: "poison"},
			},
			wantMatch: true,
		},
		"labels only form": {
			expr: `{__name__=*"exchange_workload_*",site="dag1",active="yes"}`,
			series: labels.Labels{
				{Name: labels.MetricName, Value: "exchange_workload_completed_tasks"},
				{Name: "site", Value: "dag1"},
				{Name: "active", Value: "yes"},
			},
			wantMatch: true,
		},
		"missing label never matches": {
			expr: `exchange_queue_*{name="poison"}`,
			series: labels.Labels{
				{Name: labels.MetricName, Value: "exchange_queue_length"},
			},
			wantMatch: false,
		},
		"trailing comma is invalid": {
			expr:    `metric{label="value",}`,
			wantErr: true,
		},
		"unquoted value is invalid": {
			expr:    `metric{label=value}`,
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			sr, err := Parse(test.expr)

			if test.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, sr)
			assert.Equal(t, test.wantMatch, sr.Matches(test.series))
		})
	}
}

func TestParse_EmptyExpression(t *testing.T) {
	for _, expr := range []string{"", "  \n\t"} {
		sr, err := Parse(expr)

		require.NoError(t, err)
		assert.Nil(t, sr)
	}
}
