package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sisap-challenges/challenge2024/src/results"
)

func TestGroupSeriesOrderAndQPS(t *testing.T) {
	recs := []results.Record{
		{Algo: "lmi", Recall: 0.5, QueryTime: 2, Params: "a"},
		{Algo: "HSP", Recall: 0.6, QueryTime: 4, Params: "b"},
		{Algo: "LMI", Recall: 0.7, QueryTime: 0.5, Params: "c"},
		{Algo: "StochasticHIOB_x", Recall: 0.1, QueryTime: 1, Params: "d"},
	}
	series := GroupSeries(recs, 0)
	require.Len(t, series, 3)
	assert.Equal(t, []string{"LMI", "HSP", "HIOB"}, Labels(series))

	lmi := series[0]
	assert.Equal(t, []float64{0.5, 0.7}, lmi.Recall)
	assert.Equal(t, []float64{5000, 20000}, lmi.QPS)
	assert.Equal(t, []string{"a", "c"}, lmi.Params)

	for _, s := range series {
		assert.Equal(t, len(s.Recall), len(s.QPS))
		assert.Equal(t, len(s.Recall), len(s.Params))
	}
}

func TestGroupSeriesCustomConstant(t *testing.T) {
	series := GroupSeries([]results.Record{{Algo: "x", Recall: 1, QueryTime: 4, Params: ""}}, 100)
	require.Len(t, series, 1)
	assert.Equal(t, 25.0, series[0].QPS[0])
}

func TestGroupSeriesEmpty(t *testing.T) {
	assert.Empty(t, GroupSeries(nil, DefaultQPSConstant))
}

func TestCloneIsDeep(t *testing.T) {
	s := &Series{Label: "A", Recall: []float64{1}, QPS: []float64{2}, Params: []string{"p"}}
	c := s.Clone()
	c.Recall[0] = 9
	c.Params[0] = "q"
	assert.Equal(t, 1.0, s.Recall[0])
	assert.Equal(t, "p", s.Params[0])
}
