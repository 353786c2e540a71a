// Package chart validates LLM-provided chart payloads and derives chart
// series directly from CSV frames.
package chart

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Kind is a chart or table type.
type Kind string

const (
	KindTable Kind = "table"
	KindBar   Kind = "bar"
	KindLine  Kind = "line"
	KindPie   Kind = "pie"
)

// Kinds lists the kinds in the order they are rendered.
var Kinds = []Kind{KindTable, KindBar, KindLine, KindPie}

var (
	ErrNoValidData   = errors.New("no valid data")
	ErrInvalidSeries = errors.New("invalid series payload")
	ErrUnknownKind   = errors.New("unknown chart kind")
)

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Series is a renderer-ready chart. Table, bar and line series carry
// Columns and Data; each Data row is [label, float64]. Pie series carry
// Labels and Values of equal length.
type Series struct {
	Kind    Kind      `json:"kind" yaml:"kind"`
	Columns []string  `json:"columns,omitempty" yaml:"columns,omitempty"`
	Data    [][]any   `json:"data,omitempty" yaml:"data,omitempty"`
	Labels  []string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Values  []float64 `json:"values,omitempty" yaml:"values,omitempty"`
}

// Len returns the number of rows or slices in the series.
func (s *Series) Len() int {
	if s.Kind == KindPie {
		return len(s.Values)
	}
	return len(s.Data)
}

// RowDropped reports a row or pie slice that was discarded while shaping.
type RowDropped struct {
	Kind   Kind
	Index  int
	Row    any
	Reason string
}

func (e *RowDropped) Error() string {
	return fmt.Sprintf("%s row %d dropped: %s", e.Kind, e.Index, e.Reason)
}

// Shape validates raw, as decoded from an LLM result, into a Series.
// Rows that fail coercion are dropped and reported; the series is only
// rejected when nothing survives or the payload itself is malformed.
func Shape(kind Kind, raw any) (*Series, []*RowDropped, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w: expected an object, got %T", kind, ErrInvalidSeries, raw)
	}
	switch kind {
	case KindTable, KindBar, KindLine:
		return shapeRows(kind, obj)
	case KindPie:
		return shapePie(obj)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func shapeRows(kind Kind, obj map[string]any) (*Series, []*RowDropped, error) {
	cols, ok := asList(obj["columns"])
	if !ok || len(cols) < 2 {
		return nil, nil, fmt.Errorf("%s: %w: need at least two columns", kind, ErrInvalidSeries)
	}
	rows, ok := asList(obj["data"])
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w: data must be a list of rows", kind, ErrInvalidSeries)
	}

	s := &Series{Kind: kind, Columns: []string{cast.ToString(cols[0]), cast.ToString(cols[1])}}
	var dropped []*RowDropped
	for i, r := range rows {
		row, ok := asList(r)
		if !ok || len(row) < 2 {
			dropped = append(dropped, &RowDropped{Kind: kind, Index: i, Row: r, Reason: "row needs at least two values"})
			continue
		}
		v, err := ToFloat(row[1])
		if err != nil {
			dropped = append(dropped, &RowDropped{Kind: kind, Index: i, Row: r, Reason: err.Error()})
			continue
		}
		s.Data = append(s.Data, []any{row[0], v})
	}
	if len(s.Data) == 0 {
		return nil, dropped, fmt.Errorf("%s: %w", kind, ErrNoValidData)
	}
	return s, dropped, nil
}

func shapePie(obj map[string]any) (*Series, []*RowDropped, error) {
	labels, okL := asList(obj["labels"])
	values, okV := asList(obj["values"])
	if !okL || !okV {
		return nil, nil, fmt.Errorf("%s: %w: labels and values must be lists", KindPie, ErrInvalidSeries)
	}

	n := min(len(labels), len(values))
	s := &Series{Kind: KindPie}
	var dropped []*RowDropped
	for i := 0; i < n; i++ {
		pair := []any{labels[i], values[i]}
		if labels[i] == nil {
			dropped = append(dropped, &RowDropped{Kind: KindPie, Index: i, Row: pair, Reason: "missing label"})
			continue
		}
		label, err := cast.ToStringE(labels[i])
		if err != nil {
			dropped = append(dropped, &RowDropped{Kind: KindPie, Index: i, Row: pair, Reason: err.Error()})
			continue
		}
		v, err := ToFloat(values[i])
		if err != nil {
			dropped = append(dropped, &RowDropped{Kind: KindPie, Index: i, Row: pair, Reason: err.Error()})
			continue
		}
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, v)
	}
	if len(s.Values) == 0 {
		return nil, dropped, fmt.Errorf("%s: %w", KindPie, ErrNoValidData)
	}
	return s, dropped, nil
}

// ToFloat coerces a decoded JSON value to a finite number.
func ToFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, errors.New("missing value")
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, errors.New("empty value")
		}
		v = t
	case map[string]any, []any:
		return 0, fmt.Errorf("cannot convert %T to a number", v)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %v", v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not finite: %v", v)
	}
	return f, nil
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}
