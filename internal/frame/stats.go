package frame

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"docinsight/internal/domain"
)

const sampleRows = 3

// NumericSummary describes the distribution of a numeric column.
type NumericSummary struct {
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Std    *float64 `json:"std,omitempty"`
}

// ValueCount is one distinct value and the number of rows holding it.
type ValueCount struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// TextSummary describes a non-numeric column.
type TextSummary struct {
	UniqueValues int          `json:"unique_values"`
	MostCommon   []ValueCount `json:"most_common"`
}

// Statistics is the result of analysing a single column.
type Statistics struct {
	Column  string          `json:"column"`
	DType   DType           `json:"dtype"`
	Numeric *NumericSummary `json:"numeric,omitempty"`
	Text    *TextSummary    `json:"text,omitempty"`
}

// Summary is the shape and schema of a frame.
type Summary struct {
	Columns []string         `json:"columns"`
	Shape   [2]int           `json:"shape"`
	DTypes  map[string]DType `json:"dtypes"`
}

// Correlation is a Pearson correlation matrix over the numeric columns.
// Cells are nil where the coefficient is undefined.
type Correlation struct {
	Columns []string     `json:"columns"`
	Matrix  [][]*float64 `json:"matrix"`
}

// Summary returns the frame's shape and column types.
func (f *Frame) Summary() Summary {
	dtypes := make(map[string]DType, len(f.columns))
	for _, c := range f.columns {
		dtypes[c.Name] = c.DType
	}
	return Summary{
		Columns: f.Columns(),
		Shape:   [2]int{f.rows, len(f.columns)},
		DTypes:  dtypes,
	}
}

// Statistics summarises one column: min/max/mean/median/std for numeric
// columns, distinct count and the five most common values otherwise.
func (f *Frame) Statistics(name string) (*Statistics, error) {
	c, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	st := &Statistics{Column: c.Name, DType: c.DType}
	if c.IsNumeric() {
		vals := c.Floats()
		if len(vals) == 0 {
			return nil, fmt.Errorf("%w: column %q has no values", domain.ErrEmptyDocument, name)
		}
		ns := describe(vals)
		if sd, ok := stdDev(vals); ok {
			ns.Std = &sd
		}
		st.Numeric = &ns
		return st, nil
	}

	counts := c.ValueCounts()
	top := counts
	if len(top) > 5 {
		top = top[:5]
	}
	st.Text = &TextSummary{UniqueValues: len(counts), MostCommon: top}
	return st, nil
}

// ValueCounts returns the distinct present values ordered by descending
// count. Ties keep first-seen order.
func (c *Column) ValueCounts() []ValueCount {
	pos := make(map[any]int)
	var out []ValueCount
	for i := range c.cells {
		v := c.Value(i)
		if v == nil {
			continue
		}
		if j, ok := pos[v]; ok {
			out[j].Count++
			continue
		}
		pos[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Correlation computes pairwise Pearson coefficients rounded to two places.
func (f *Frame) Correlation() (*Correlation, error) {
	cols := f.NumericColumns()
	if len(cols) == 0 {
		return nil, domain.ErrNoNumericColumns
	}
	corr := &Correlation{Matrix: make([][]*float64, len(cols))}
	for i, a := range cols {
		corr.Columns = append(corr.Columns, a.Name)
		corr.Matrix[i] = make([]*float64, len(cols))
		for j, b := range cols {
			if r, ok := pearson(a, b); ok {
				r = math.Round(r*100) / 100
				corr.Matrix[i][j] = &r
			}
		}
	}
	return corr, nil
}

// Context renders the data description embedded in the insight prompt.
func (f *Frame) Context() string {
	var sb strings.Builder
	sb.WriteString("CSV Data Information:\n")
	fmt.Fprintf(&sb, "- Shape: %d rows, %d columns\n", f.rows, len(f.columns))
	fmt.Fprintf(&sb, "- Columns: %s\n", strings.Join(f.Columns(), ", "))

	dtypes := make([][2]string, len(f.columns))
	for i, c := range f.columns {
		dtypes[i] = [2]string{c.Name, quote(string(c.DType))}
	}
	fmt.Fprintf(&sb, "- Data Types: %s\n", orderedObject(dtypes))

	var stats [][2]string
	for _, c := range f.NumericColumns() {
		vals := c.Floats()
		if len(vals) == 0 {
			continue
		}
		ns := describe(vals)
		stats = append(stats, [2]string{c.Name, orderedObject([][2]string{
			{"min", number(ns.Min)},
			{"max", number(ns.Max)},
			{"mean", number(ns.Mean)},
			{"median", number(ns.Median)},
		})})
	}
	if len(stats) > 0 {
		fmt.Fprintf(&sb, "- Numeric Statistics: %s\n", orderedObject(stats))
	}

	sb.WriteString("\nSample Data:\n")
	sb.WriteString(f.sample(sampleRows))
	sb.WriteString("\n")
	return sb.String()
}

func (f *Frame) sample(n int) string {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(f.Columns(), "\t"))
	for i := 0; i < n && i < f.rows; i++ {
		cells := make([]string, len(f.columns))
		for j, c := range f.columns {
			if c.missing[i] {
				cells[j] = "NaN"
			} else {
				cells[j] = strings.TrimSpace(c.cells[i])
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

func describe(vals []float64) NumericSummary {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	}
	return NumericSummary{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   sum / float64(len(vals)),
		Median: median,
	}
}

// stdDev is the sample standard deviation (n-1 denominator).
func stdDev(vals []float64) (float64, bool) {
	if len(vals) < 2 {
		return 0, false
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(vals)-1)), true
}

// pearson uses rows where both columns are present.
func pearson(a, b *Column) (float64, bool) {
	var xs, ys []float64
	for i := range a.cells {
		x, okx := a.Float(i)
		y, oky := b.Float(i)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0, false
	}
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= float64(len(xs))
	my /= float64(len(ys))
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	return sxy / math.Sqrt(sxx*syy), true
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "null"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// orderedObject renders key/value pairs as a JSON object in the given order.
// Values must already be encoded.
func orderedObject(pairs [][2]string) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = quote(p[0]) + ": " + p[1]
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
