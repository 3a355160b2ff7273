package analysis

import "sort"

type point struct {
	qps, recall float64
	params      string
}

// ParetoFrontier keeps the points that no other point beats on both recall
// and QPS. Points are ordered by descending (qps, recall, params) and a point
// survives only if its recall is strictly above every recall seen so far
// (starting at 0). The result has decreasing QPS and strictly increasing
// recall. Inputs must have equal length.
func ParetoFrontier(recall, qps []float64, params []string) ([]float64, []float64, []string) {
	pts := make([]point, len(recall))
	for i := range recall {
		pts[i] = point{qps: qps[i], recall: recall[i], params: params[i]}
	}
	sort.SliceStable(pts, func(i, j int) bool {
		a, b := pts[i], pts[j]
		if a.qps != b.qps {
			return a.qps > b.qps
		}
		if a.recall != b.recall {
			return a.recall > b.recall
		}
		return a.params > b.params
	})

	var (
		outRecall []float64
		outQPS    []float64
		outParams []string
	)
	best := 0.0
	for _, p := range pts {
		if p.recall > best {
			outRecall = append(outRecall, p.recall)
			outQPS = append(outQPS, p.qps)
			outParams = append(outParams, p.params)
			best = p.recall
		}
	}
	return outRecall, outQPS, outParams
}

// ApplyParetoFrontier replaces the series points with their frontier.
func (s *Series) ApplyParetoFrontier() {
	s.Recall, s.QPS, s.Params = ParetoFrontier(s.Recall, s.QPS, s.Params)
}

// ApplyParetoFrontierAll filters every series in place.
func ApplyParetoFrontierAll(series []*Series) {
	for _, s := range series {
		s.ApplyParetoFrontier()
	}
}
