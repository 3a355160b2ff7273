package style

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Resolver hands out the style for a series label.
type Resolver interface {
	Resolve(label string) (Style, error)
}

// TableResolver resolves labels from a Table. With Fallback set, labels
// missing from the table get palette styles in first-seen order instead of
// ErrUnknownStyle.
type TableResolver struct {
	Table    Table
	Fallback bool

	mu       sync.Mutex
	assigned map[string]Style
	next     int
}

// NewResolver returns a resolver over t.
func NewResolver(t Table, fallback bool) *TableResolver {
	return &TableResolver{Table: t, Fallback: fallback}
}

var palette = []Style{
	{Marker: MarkerSquare, LineStyle: LineSolid, Color: namedColors["orange"]},
	{Marker: MarkerDiamond, LineStyle: LineDashed, Color: namedColors["brown"]},
	{Marker: MarkerPlus, LineStyle: LineDashDot, Color: namedColors["cyan"]},
	{Marker: MarkerCircle, LineStyle: LineDotted, Color: namedColors["olive"]},
	{Marker: MarkerTriangleUp, LineStyle: LineDashed, Color: namedColors["pink"]},
	{Marker: MarkerPentagon, LineStyle: LineSolid, Color: namedColors["gray"]},
}

// Resolve implements Resolver. It is safe for concurrent use.
func (r *TableResolver) Resolve(label string) (Style, error) {
	s, err := r.Table.Lookup(label)
	if err == nil || !r.Fallback {
		return s, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.assigned[label]; ok {
		return s, nil
	}
	if r.assigned == nil {
		r.assigned = map[string]Style{}
	}
	s = palette[r.next%len(palette)]
	r.next++
	r.assigned[label] = s
	log.Debug().Str("label", label).Str("style", s.String()).Msg("assigned fallback style")
	return s, nil
}
