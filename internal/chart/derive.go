package chart

import (
	"sort"

	"docinsight/internal/frame"
)

// BarFromColumn counts the distinct values of one column, most frequent first.
func BarFromColumn(f *frame.Frame, column string) (*Series, []*RowDropped, error) {
	c, err := f.Column(column)
	if err != nil {
		return nil, nil, err
	}
	counts := c.ValueCounts()
	data := make([]any, len(counts))
	for i, vc := range counts {
		data[i] = []any{vc.Value, vc.Count}
	}
	return Shape(KindBar, map[string]any{
		"columns": []any{"category", "count"},
		"data":    data,
	})
}

// BarFromColumns averages the value column per distinct category, in order
// of first appearance.
func BarFromColumns(f *frame.Frame, category, value string) (*Series, []*RowDropped, error) {
	groups, err := aggregate(f, category, value)
	if err != nil {
		return nil, nil, err
	}
	data := make([]any, len(groups))
	for i, g := range groups {
		data[i] = []any{g.key, g.mean()}
	}
	return Shape(KindBar, map[string]any{
		"columns": []any{category, value},
		"data":    data,
	})
}

// LineFromColumns emits (x, y) pairs sorted ascending by x. Rows with a
// missing x sort last.
func LineFromColumns(f *frame.Frame, x, y string) (*Series, []*RowDropped, error) {
	xc, err := f.Column(x)
	if err != nil {
		return nil, nil, err
	}
	yc, err := f.Column(y)
	if err != nil {
		return nil, nil, err
	}

	order := make([]int, f.NumRows())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if xc.Missing(i) || xc.Missing(j) {
			return !xc.Missing(i) && xc.Missing(j)
		}
		if xc.IsNumeric() {
			xi, _ := xc.Float(i)
			xj, _ := xc.Float(j)
			return xi < xj
		}
		return xc.Raw(i) < xc.Raw(j)
	})

	data := make([]any, len(order))
	for n, i := range order {
		data[n] = []any{xc.Value(i), yc.Value(i)}
	}
	return Shape(KindLine, map[string]any{
		"columns": []any{x, y},
		"data":    data,
	})
}

// PieFromColumn uses value counts of one column as slices.
func PieFromColumn(f *frame.Frame, column string) (*Series, []*RowDropped, error) {
	c, err := f.Column(column)
	if err != nil {
		return nil, nil, err
	}
	counts := c.ValueCounts()
	labels := make([]any, len(counts))
	values := make([]any, len(counts))
	for i, vc := range counts {
		labels[i] = vc.Value
		values[i] = vc.Count
	}
	return Shape(KindPie, map[string]any{"labels": labels, "values": values})
}

// PieFromColumns sums the value column per distinct category, in order of
// first appearance.
func PieFromColumns(f *frame.Frame, category, value string) (*Series, []*RowDropped, error) {
	groups, err := aggregate(f, category, value)
	if err != nil {
		return nil, nil, err
	}
	labels := make([]any, len(groups))
	values := make([]any, len(groups))
	for i, g := range groups {
		labels[i] = g.key
		values[i] = g.sum
	}
	return Shape(KindPie, map[string]any{"labels": labels, "values": values})
}

type group struct {
	key   any
	sum   float64
	count int
}

func (g *group) mean() any {
	if g.count == 0 {
		return nil
	}
	return g.sum / float64(g.count)
}

// aggregate groups rows by category in first-appearance order. Missing
// categories are skipped; values that are not numeric do not contribute.
func aggregate(f *frame.Frame, category, value string) ([]*group, error) {
	cc, err := f.Column(category)
	if err != nil {
		return nil, err
	}
	vc, err := f.Column(value)
	if err != nil {
		return nil, err
	}

	index := make(map[any]*group)
	var groups []*group
	for i := 0; i < f.NumRows(); i++ {
		key := cc.Value(i)
		if key == nil {
			continue
		}
		g, ok := index[key]
		if !ok {
			g = &group{key: key}
			index[key] = g
			groups = append(groups, g)
		}
		if v, err := ToFloat(vc.Value(i)); err == nil {
			g.sum += v
			g.count++
		}
	}
	return groups, nil
}
