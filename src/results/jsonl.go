package results

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MaxLineBytes caps a single JSONL line.
const MaxLineBytes = 16 * 1024 * 1024

// LoadJSONL opens path and reads one record per non-blank line.
func LoadJSONL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results %s: %w", path, err)
	}
	defer f.Close()
	recs, err := ReadJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// jsonRecord accepts numbers either as JSON numbers or numeric strings, and
// params as any JSON value.
type jsonRecord struct {
	Algo      *string         `json:"algo"`
	Recall    json.RawMessage `json:"recall"`
	QueryTime json.RawMessage `json:"querytime"`
	Params    json.RawMessage `json:"params"`
}

// ReadJSONL reads JSON objects, one per line, each carrying algo, recall,
// querytime and params.
func ReadJSONL(r io.Reader) ([]Record, error) {
	reader := bufio.NewReader(r)
	var out []Record
	row := 0
	for {
		line, err := readLine(reader)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		if len(line) == 0 && errors.Is(err, io.EOF) {
			break
		}
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			row++
			rec, perr := decodeLine(row, line)
			if perr != nil {
				return nil, perr
			}
			if verr := validate(rec); verr != nil {
				return nil, verr
			}
			out = append(out, rec)
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}
	return out, nil
}

// readLine accumulates one logical line; the returned error is io.EOF on the
// final line (which may still carry data).
func readLine(reader *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		part, err := reader.ReadBytes('\n')
		if len(line)+len(part) > MaxLineBytes {
			return nil, fmt.Errorf("line too large: exceeds %d bytes", MaxLineBytes)
		}
		line = append(line, part...)
		if err == nil {
			return line, nil
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, err
	}
}

func decodeLine(row int, line []byte) (Record, error) {
	var jr jsonRecord
	if err := json.Unmarshal(line, &jr); err != nil {
		return Record{}, fmt.Errorf("row %d: decode: %w", row, err)
	}
	rec := Record{Row: row}
	if jr.Algo == nil {
		return rec, fmt.Errorf("row %d: %w: %s", row, ErrMissingColumn, ColAlgo)
	}
	rec.Algo = *jr.Algo
	var err error
	if rec.Recall, err = rawNumber(row, ColRecall, jr.Recall); err != nil {
		return rec, err
	}
	if rec.QueryTime, err = rawNumber(row, ColQueryTime, jr.QueryTime); err != nil {
		return rec, err
	}
	if len(jr.Params) == 0 {
		return rec, fmt.Errorf("row %d: %w: %s", row, ErrMissingColumn, ColParams)
	}
	rec.Params = rawString(jr.Params)
	return rec, nil
}

func rawNumber(row int, name string, raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("row %d: %w: %s", row, ErrMissingColumn, name)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("row %d: %s=%s: %w", row, name, string(raw), ErrInvalidNumber)
}

// rawString returns a JSON string's value, "" for null, and the compact JSON
// text for anything else.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
