package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRow is one imported spreadsheet data row, keyed by canonical header
// name. Key order mirrors the source file column order and survives JSON
// round trips, so exports reproduce the original column layout.
// Unrecognized headers are carried through verbatim.
type RawRow struct {
	keys   []string
	values map[string]any
}

func NewRawRow() *RawRow {
	return &RawRow{values: map[string]any{}}
}

// Set stores a cell value, appending the key on first use.
func (r *RawRow) Set(key string, v any) {
	if r.values == nil {
		r.values = map[string]any{}
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

func (r *RawRow) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// GetString returns the trimmed string form of a cell, "" for null cells.
func (r *RawRow) GetString(key string) string {
	return strings.TrimSpace(CellString(r.values[key]))
}

// Keys returns the header names in source column order.
func (r *RawRow) Keys() []string {
	return r.keys
}

// Clone returns an independent copy of the row.
func (r *RawRow) Clone() *RawRow {
	c := &RawRow{
		keys:   append([]string(nil), r.keys...),
		values: make(map[string]any, len(r.values)),
	}
	for k, v := range r.values {
		c.values[k] = v
	}
	return c
}

func (r *RawRow) Len() int {
	return len(r.keys)
}

// Empty reports whether every cell is null or the empty string.
func (r *RawRow) Empty() bool {
	for _, k := range r.keys {
		if v := r.values[k]; v != nil && CellString(v) != "" {
			return false
		}
	}
	return true
}

func (r *RawRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *RawRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("raw row: expected object, got %v", tok)
	}
	r.keys = nil
	r.values = map[string]any{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("raw row: non-string key %v", keyTok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		if n, ok := v.(json.Number); ok {
			if f, ferr := n.Float64(); ferr == nil {
				v = f
			} else {
				v = n.String()
			}
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// CellString renders a cell value as text for matching and display.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("2006-01-02")
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
