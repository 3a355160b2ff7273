package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV opens path and reads all records. The file is closed before returning.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results %s: %w", path, err)
	}
	defer f.Close()
	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// ReadCSV reads a header row followed by data rows. Columns may appear in any
// order; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: %w (%s)", ErrMissingColumn, ColAlgo)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []Record
	row := 0
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}
		rec, err := parseRow(row, fields, idx)
		if err != nil {
			return nil, err
		}
		if err := validate(rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

type columns struct {
	algo, recall, queryTime, params int
}

func columnIndex(header []string) (columns, error) {
	pos := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	get := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		return i, nil
	}
	var c columns
	var err error
	if c.algo, err = get(ColAlgo); err != nil {
		return c, err
	}
	if c.recall, err = get(ColRecall); err != nil {
		return c, err
	}
	if c.queryTime, err = get(ColQueryTime); err != nil {
		return c, err
	}
	if c.params, err = get(ColParams); err != nil {
		return c, err
	}
	return c, nil
}

func parseRow(row int, fields []string, c columns) (Record, error) {
	field := func(i int, name string) (string, error) {
		if i >= len(fields) {
			return "", fmt.Errorf("row %d: %w: %s (short row with %d fields)", row, ErrMissingColumn, name, len(fields))
		}
		return fields[i], nil
	}
	num := func(i int, name string) (float64, error) {
		s, err := field(i, name)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("row %d: %s=%q: %w", row, name, s, ErrInvalidNumber)
		}
		return v, nil
	}

	rec := Record{Row: row}
	var err error
	if rec.Algo, err = field(c.algo, ColAlgo); err != nil {
		return rec, err
	}
	if rec.Recall, err = num(c.recall, ColRecall); err != nil {
		return rec, err
	}
	if rec.QueryTime, err = num(c.queryTime, ColQueryTime); err != nil {
		return rec, err
	}
	if rec.Params, err = field(c.params, ColParams); err != nil {
		return rec, err
	}
	return rec, nil
}
