// Package results loads benchmark result rows (algorithm, recall, query time,
// run parameters) from CSV or JSONL files.
//
// All four columns must be present, numbers must parse and query times must be
// positive. Recall outside [0,1] is accepted and logged at warn level.
package results

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Required column names.
const (
	ColAlgo      = "algo"
	ColRecall    = "recall"
	ColQueryTime = "querytime"
	ColParams    = "params"
)

var (
	ErrMissingColumn    = errors.New("missing required column")
	ErrInvalidQueryTime = errors.New("query time must be a positive finite number")
	ErrInvalidNumber    = errors.New("invalid number")
)

// Record is one result row.
type Record struct {
	Row       int     `json:"row"` // 1-based data row (header excluded)
	Algo      string  `json:"algo"`
	Recall    float64 `json:"recall"`
	QueryTime float64 `json:"querytime"`
	Params    string  `json:"params"`
}

// Load reads records from path, picking the decoder by extension:
// .jsonl/.ndjson are read as JSON lines, everything else as CSV.
func Load(path string) ([]Record, error) {
	if IsJSONL(path) {
		return LoadJSONL(path)
	}
	return LoadCSV(path)
}

// IsJSONL reports whether path has a JSON-lines extension.
func IsJSONL(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return true
	}
	return false
}

func validate(r Record) error {
	if math.IsNaN(r.QueryTime) || math.IsInf(r.QueryTime, 0) || r.QueryTime <= 0 {
		return fmt.Errorf("row %d (%s): querytime=%v: %w", r.Row, r.Algo, r.QueryTime, ErrInvalidQueryTime)
	}
	if math.IsNaN(r.Recall) || math.IsInf(r.Recall, 0) {
		return fmt.Errorf("row %d (%s): recall=%v: %w", r.Row, r.Algo, r.Recall, ErrInvalidNumber)
	}
	if r.Recall < 0 || r.Recall > 1 {
		log.Warn().
			Int("row", r.Row).
			Str("algo", r.Algo).
			Float64("recall", r.Recall).
			Msg("recall outside [0,1]")
	}
	return nil
}
