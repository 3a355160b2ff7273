package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := &Series{
		Label:  "HSP",
		Recall: []float64{0.5, 0.9, 0.7, 0.95},
		QPS:    []float64{10000, 5000, 20000, 1000},
		Params: []string{"p1", "p2", "p3", "p4"},
	}
	sums := Summarize([]*Series{s}, 0.9)
	require.Len(t, sums, 1)
	got := sums[0]
	assert.Equal(t, "HSP", got.Label)
	assert.Equal(t, 4, got.Points)
	assert.Equal(t, 3, got.FrontierPoints)
	assert.Equal(t, 0.95, got.MaxRecall)
	assert.Equal(t, 20000.0, got.MaxQPS)
	assert.Equal(t, 5000.0, got.QPSAtRecall)
	assert.Equal(t, "p2", got.ParamsAtRecall)

	// input untouched
	assert.Len(t, s.Recall, 4)
}

func TestSummarizeTargetNotReached(t *testing.T) {
	s := &Series{Label: "X", Recall: []float64{0.2}, QPS: []float64{10}, Params: []string{"a"}}
	got := Summarize([]*Series{s}, 0.99)[0]
	assert.Zero(t, got.QPSAtRecall)
	assert.Empty(t, got.ParamsAtRecall)
}

func TestCompareAtRecall(t *testing.T) {
	a := SeriesSummary{QPSAtRecall: 300}
	b := SeriesSummary{QPSAtRecall: 100}
	assert.Equal(t, 3.0, CompareAtRecall(a, b))
	assert.Zero(t, CompareAtRecall(a, SeriesSummary{}))
}
