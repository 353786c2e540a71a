// Package frame loads CSV uploads into typed columns and renders the
// data context handed to the insight prompt.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"docinsight/internal/domain"
)

// DType is the inferred column type, named after the pandas dtypes the
// prompt examples were written against.
type DType string

const (
	Int64   DType = "int64"
	Float64 DType = "float64"
	Bool    DType = "bool"
	Object  DType = "object"
)

// missingTokens are cell values read as missing.
var missingTokens = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "NaN": true, "nan": true, "-NaN": true,
	"-nan": true, "NULL": true, "null": true, "None": true, "<NA>": true, "#N/A": true,
}

// Column is a single typed CSV column.
type Column struct {
	Name  string
	DType DType

	cells   []string
	missing []bool
	nums    []float64
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.cells) }

// IsNumeric reports whether the column holds int64 or float64 values.
func (c *Column) IsNumeric() bool {
	return c.DType == Int64 || c.DType == Float64
}

// Missing reports whether cell i is missing.
func (c *Column) Missing(i int) bool { return c.missing[i] }

// Raw returns cell i as read from the file.
func (c *Column) Raw(i int) string { return c.cells[i] }

// Float returns cell i as a number when the column is numeric and the cell
// is present.
func (c *Column) Float(i int) (float64, bool) {
	if !c.IsNumeric() || c.missing[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Value returns cell i typed according to the column dtype, or nil when
// the cell is missing.
func (c *Column) Value(i int) any {
	if c.missing[i] {
		return nil
	}
	switch c.DType {
	case Int64:
		return int64(c.nums[i])
	case Float64:
		return c.nums[i]
	case Bool:
		return strings.EqualFold(strings.TrimSpace(c.cells[i]), "true")
	default:
		return c.cells[i]
	}
}

// Floats returns the present numeric values in row order.
func (c *Column) Floats() []float64 {
	if !c.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Frame is an in-memory CSV table.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// Read parses a CSV document with a header row.
func Read(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrEmptyDocument)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIngestion, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	names := uniqueNames(header)

	columns := make([]*Column, len(names))
	for i, name := range names {
		columns[i] = &Column{Name: name}
	}

	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrIngestion, err)
		}
		line++
		if len(record) > len(columns) {
			return nil, fmt.Errorf("%w: line %d has %d fields, expected %d",
				domain.ErrIngestion, line, len(record), len(columns))
		}
		for i, col := range columns {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			col.cells = append(col.cells, cell)
		}
	}

	f := &Frame{columns: columns, index: make(map[string]int, len(columns))}
	for i, col := range columns {
		infer(col)
		f.index[col.Name] = i
	}
	if len(columns) > 0 {
		f.rows = columns[0].Len()
	}
	return f, nil
}

func uniqueNames(header []string) []string {
	seen := make(map[string]bool, len(header))
	out := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if seen[name] {
			for n := 1; ; n++ {
				candidate := name + "." + strconv.Itoa(n)
				if !seen[candidate] {
					name = candidate
					break
				}
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func infer(c *Column) {
	n := len(c.cells)
	c.missing = make([]bool, n)
	c.nums = make([]float64, n)

	present := 0
	allInt, allFloat, allBool := true, true, true
	for i, raw := range c.cells {
		v := strings.TrimSpace(raw)
		if missingTokens[v] {
			c.missing[i] = true
			c.nums[i] = math.NaN()
			continue
		}
		present++
		if allInt {
			if iv, err := strconv.ParseInt(v, 10, 64); err == nil {
				c.nums[i] = float64(iv)
			} else {
				allInt = false
			}
		}
		if !allInt && allFloat {
			if fv, err := strconv.ParseFloat(v, 64); err == nil {
				c.nums[i] = fv
			} else {
				allFloat = false
			}
		}
		if allBool && !strings.EqualFold(v, "true") && !strings.EqualFold(v, "false") {
			allBool = false
		}
	}

	hasMissing := present < n
	switch {
	case present == 0:
		c.DType = Float64
	case allInt && !hasMissing:
		c.DType = Int64
	case allInt || allFloat:
		c.DType = Float64
		// earlier cells were parsed as ints before a float appeared
		for i, raw := range c.cells {
			if !c.missing[i] {
				c.nums[i], _ = strconv.ParseFloat(strings.TrimSpace(raw), 64)
			}
		}
	case allBool && !hasMissing:
		c.DType = Bool
	default:
		c.DType = Object
	}
}

// NumRows returns the number of data rows.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.columns) }

// Columns returns the column names in file order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownColumn, name)
	}
	return f.columns[i], nil
}

// NumericColumns returns the int64 and float64 columns in file order.
func (f *Frame) NumericColumns() []*Column {
	var out []*Column
	for _, c := range f.columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}
