// SPDX-License-Identifier: GPL-3.0-or-later

package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestChart(id string) *Chart {
	return &Chart{
		ID:       id,
		Title:    "Title",
		Units:    "units",
		Fam:      "family",
		Ctx:      "context",
		Type:     Line,
		Priority: 1,
		Dims: Dims{
			{ID: "dim1", Algo: Absolute},
		},
		Vars: Vars{
			{ID: "var1", Value: 1},
		},
	}
}

func TestCharts_Add(t *testing.T) {
	charts := new(Charts)

	require.NoError(t, charts.Add(createTestChart("chart1")))
	assert.Error(t, charts.Add(createTestChart("chart1")), "duplicate chart id")
	assert.Error(t, charts.Add(&Chart{ID: ""}), "invalid chart")

	assert.Len(t, *charts, 1)
}

func TestCharts_Get(t *testing.T) {
	chart := createTestChart("chart1")
	charts := &Charts{chart}

	assert.Nil(t, charts.Get("chart2"))
	assert.Equal(t, chart, charts.Get("chart1"))
}

func TestCharts_Has(t *testing.T) {
	charts := &Charts{createTestChart("chart1")}

	assert.True(t, charts.Has("chart1"))
	assert.False(t, charts.Has("chart2"))
}

func TestCharts_Remove(t *testing.T) {
	charts := &Charts{createTestChart("chart1")}

	assert.Error(t, charts.Remove("chart2"))
	require.NoError(t, charts.Remove("chart1"))
	assert.Empty(t, *charts)
}

func TestCharts_Copy(t *testing.T) {
	charts := &Charts{createTestChart("chart1"), createTestChart("chart2")}
	cp := charts.Copy()

	require.Equal(t, charts, cp)

	cp.Get("chart1").Dims[0].ID = "changed"
	assert.NotEqual(t, charts, cp, "copy shares dims with the original")
}

func TestChart_AddDim(t *testing.T) {
	chart := createTestChart("chart1")

	require.NoError(t, chart.AddDim(&Dim{ID: "dim2"}))
	assert.Error(t, chart.AddDim(&Dim{ID: "dim1"}), "duplicate dim id")
	assert.Error(t, chart.AddDim(&Dim{ID: ""}), "invalid dim")

	assert.Len(t, chart.Dims, 2)
}

func TestChart_AddVar(t *testing.T) {
	chart := createTestChart("chart1")

	require.NoError(t, chart.AddVar(&Var{ID: "var2", Value: 1}))
	assert.Error(t, chart.AddVar(&Var{ID: ""}), "invalid var")

	assert.Len(t, chart.Vars, 2)
}

func TestChart_GetDim(t *testing.T) {
	chart := createTestChart("chart1")

	assert.Nil(t, chart.GetDim("dim2"))
	assert.Equal(t, "dim1", chart.GetDim("dim1").ID)
}

func TestChart_RemoveDim(t *testing.T) {
	chart := createTestChart("chart1")

	assert.Error(t, chart.RemoveDim("dim2"))
	require.NoError(t, chart.RemoveDim("dim1"))
	assert.False(t, chart.HasDim("dim1"))
}

func TestChart_MarkDimRemove(t *testing.T) {
	chart := createTestChart("chart1")

	assert.Error(t, chart.MarkDimRemove("dim2", true))
	require.NoError(t, chart.MarkDimRemove("dim1", true))

	dim := chart.GetDim("dim1")
	assert.True(t, dim.Obsolete)
	assert.True(t, dim.Hidden)
	assert.True(t, dim.remove)
}

func TestChart_MarkRemove(t *testing.T) {
	chart := createTestChart("chart1")
	chart.MarkRemove()

	assert.True(t, chart.Obsolete)
	assert.True(t, chart.remove)
}

func TestChart_MarkNotCreated(t *testing.T) {
	chart := createTestChart("chart1")
	chart.created = true

	chart.MarkNotCreated()

	assert.False(t, chart.created)
}

func TestChart_Copy(t *testing.T) {
	chart := createTestChart("chart1")
	cp := chart.Copy()

	require.Equal(t, chart, cp)

	cp.Dims[0].ID = "changed"
	assert.NotEqual(t, chart, cp, "copy shares dims with the original")
}

func Test_checkChart(t *testing.T) {
	tests := map[string]struct {
		chart   *Chart
		wantErr bool
	}{
		"valid":           {chart: createTestChart("chart1")},
		"no id":           {chart: &Chart{}, wantErr: true},
		"no title":        {chart: &Chart{ID: "id", Units: "units"}, wantErr: true},
		"no units":        {chart: &Chart{ID: "id", Title: "title"}, wantErr: true},
		"id with spaces":  {chart: &Chart{ID: "id id", Title: "title", Units: "units"}, wantErr: true},
		"duplicate dims":  {chart: &Chart{ID: "id", Title: "title", Units: "units", Dims: Dims{{ID: "d1"}, {ID: "d1"}}}, wantErr: true},
		"invalid dim":     {chart: &Chart{ID: "id", Title: "title", Units: "units", Dims: Dims{{ID: ""}}}, wantErr: true},
		"invalid var":     {chart: &Chart{ID: "id", Title: "title", Units: "units", Vars: Vars{{ID: ""}}}, wantErr: true},
		"dim with spaces": {chart: &Chart{ID: "id", Title: "title", Units: "units", Dims: Dims{{ID: "d 1"}}}, wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if test.wantErr {
				assert.Error(t, checkChart(test.chart))
			} else {
				assert.NoError(t, checkChart(test.chart))
			}
		})
	}
}
