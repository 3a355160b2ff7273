package analysis

import (
	"github.com/sisap-challenges/challenge2024/src/results"
)

// DefaultQPSConstant is the number of queries of the benchmark query set;
// throughput is DefaultQPSConstant / querytime.
const DefaultQPSConstant = 10000.0

// Series holds one algorithm's points. Recall, QPS and Params are index-aligned.
type Series struct {
	Label  string    `json:"label"`
	Recall []float64 `json:"recall"`
	QPS    []float64 `json:"qps"`
	Params []string  `json:"params"`
}

// Len returns the number of points.
func (s *Series) Len() int { return len(s.Recall) }

// Clone returns a deep copy.
func (s *Series) Clone() *Series {
	c := &Series{Label: s.Label}
	c.Recall = append([]float64(nil), s.Recall...)
	c.QPS = append([]float64(nil), s.QPS...)
	c.Params = append([]string(nil), s.Params...)
	return c
}

func (s *Series) add(recall, qps float64, params string) {
	s.Recall = append(s.Recall, recall)
	s.QPS = append(s.QPS, qps)
	s.Params = append(s.Params, params)
}

// GroupSeries buckets records by normalized label. Labels keep the order in
// which they first appear and points keep row order. A non-positive
// qpsConstant falls back to DefaultQPSConstant.
func GroupSeries(records []results.Record, qpsConstant float64) []*Series {
	if qpsConstant <= 0 {
		qpsConstant = DefaultQPSConstant
	}
	var out []*Series
	byLabel := map[string]*Series{}
	for _, r := range records {
		label := NormalizeLabel(r.Algo)
		s, ok := byLabel[label]
		if !ok {
			s = &Series{Label: label}
			byLabel[label] = s
			out = append(out, s)
		}
		s.add(r.Recall, qpsConstant/r.QueryTime, r.Params)
	}
	return out
}

// Labels returns the series labels in order.
func Labels(series []*Series) []string {
	out := make([]string, 0, len(series))
	for _, s := range series {
		out = append(out, s.Label)
	}
	return out
}
