package analysis

// SeriesSummary describes one series before and after frontier filtering.
type SeriesSummary struct {
	Label          string  `json:"label"`
	Points         int     `json:"points"`
	FrontierPoints int     `json:"frontier_points"`
	MaxRecall      float64 `json:"max_recall"`
	MaxQPS         float64 `json:"max_qps"`
	RecallTarget   float64 `json:"recall_target"`
	QPSAtRecall    float64 `json:"qps_at_recall,omitempty"`
	ParamsAtRecall string  `json:"params_at_recall,omitempty"`
}

// Summarize computes one summary per series. The input series are not
// modified; the frontier is taken on a copy.
func Summarize(series []*Series, recallTarget float64) []SeriesSummary {
	out := make([]SeriesSummary, 0, len(series))
	for _, s := range series {
		sum := SeriesSummary{Label: s.Label, Points: s.Len(), RecallTarget: recallTarget}
		for i := range s.Recall {
			if i == 0 || s.Recall[i] > sum.MaxRecall {
				sum.MaxRecall = s.Recall[i]
			}
			if i == 0 || s.QPS[i] > sum.MaxQPS {
				sum.MaxQPS = s.QPS[i]
			}
		}
		f := s.Clone()
		f.ApplyParetoFrontier()
		sum.FrontierPoints = f.Len()
		// frontier QPS decreases with recall, so the first hit is the fastest
		for i := range f.Recall {
			if f.Recall[i] >= recallTarget {
				sum.QPSAtRecall = f.QPS[i]
				sum.ParamsAtRecall = f.Params[i]
				break
			}
		}
		out = append(out, sum)
	}
	return out
}

// CompareAtRecall returns the ratio of a's QPS to b's at the shared recall
// target, or 0 when either never reaches it.
func CompareAtRecall(a, b SeriesSummary) float64 {
	if a.QPSAtRecall <= 0 || b.QPSAtRecall <= 0 {
		return 0
	}
	return a.QPSAtRecall / b.QPSAtRecall
}
