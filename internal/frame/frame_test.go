package frame_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
	"docinsight/internal/frame"
)

const salesCSV = `department,salary,rating,remote,city
Engineering,70000,4.5,true,Austin
Marketing,88000,3.9,false,Boston
Engineering,85000,,TRUE,Austin
Sales,65000,4.1,False,Denver
Sales,,3.2,true,Austin
`

func readFrame(t *testing.T, s string) *frame.Frame {
	t.Helper()
	f, err := frame.Read(strings.NewReader(s))
	require.NoError(t, err)
	return f
}

func TestRead_InfersDTypes(t *testing.T) {
	f := readFrame(t, "id,price,flag,name,blank\n1,2.5,true,a,\n2,3,False,b,\n")

	want := map[string]frame.DType{
		"id":    frame.Int64,
		"price": frame.Float64,
		"flag":  frame.Bool,
		"name":  frame.Object,
		"blank": frame.Float64,
	}
	for name, dt := range want {
		c, err := f.Column(name)
		require.NoError(t, err)
		assert.Equal(t, dt, c.DType, name)
	}
	assert.Equal(t, 2, f.NumRows())
	assert.Equal(t, 5, f.NumCols())
}

func TestRead_IntWithMissingPromotesToFloat(t *testing.T) {
	f := readFrame(t, salesCSV)

	salary, err := f.Column("salary")
	require.NoError(t, err)
	assert.Equal(t, frame.Float64, salary.DType)
	assert.Nil(t, salary.Value(4))
	assert.Equal(t, 70000.0, salary.Value(0))

	remote, err := f.Column("remote")
	require.NoError(t, err)
	assert.Equal(t, frame.Bool, remote.DType)
	assert.Equal(t, true, remote.Value(2))
	assert.Equal(t, false, remote.Value(3))
}

func TestRead_DuplicateAndBlankHeaders(t *testing.T) {
	f := readFrame(t, "\ufeffa,a,,a\n1,2,3,4\n")

	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, f.Columns())
}

func TestRead_ShortRowsArePadded(t *testing.T) {
	f := readFrame(t, "a,b\n1\n2,3\n")

	b, err := f.Column("b")
	require.NoError(t, err)
	assert.True(t, b.Missing(0))
	assert.Equal(t, frame.Float64, b.DType)
}

func TestRead_Errors(t *testing.T) {
	_, err := frame.Read(strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrEmptyDocument)

	_, err = frame.Read(strings.NewReader("a,b\n1,2,3\n"))
	assert.ErrorIs(t, err, domain.ErrIngestion)
}

func TestColumn_Unknown(t *testing.T) {
	f := readFrame(t, salesCSV)

	_, err := f.Column("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

func TestContext(t *testing.T) {
	f := readFrame(t, salesCSV)

	ctx := f.Context()

	assert.True(t, strings.HasPrefix(ctx, "CSV Data Information:\n"))
	assert.Contains(t, ctx, "- Shape: 5 rows, 5 columns\n")
	assert.Contains(t, ctx, "- Columns: department, salary, rating, remote, city\n")
	assert.Contains(t, ctx, `- Data Types: {"department": "object", "salary": "float64", "rating": "float64", "remote": "bool", "city": "object"}`)
	assert.Contains(t, ctx, `"salary": {"min": 65000, "max": 88000, "mean": 77000, "median": 77500}`)
	assert.Contains(t, ctx, "\nSample Data:\n")

	sample := ctx[strings.Index(ctx, "Sample Data:\n")+len("Sample Data:\n"):]
	lines := strings.Split(strings.TrimRight(sample, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "department")
	assert.Contains(t, lines[3], "NaN")
}

func TestContext_NoNumericColumns(t *testing.T) {
	f := readFrame(t, "name\nalpha\nbeta\n")

	assert.NotContains(t, f.Context(), "Numeric Statistics")
}

func TestStatistics_Numeric(t *testing.T) {
	f := readFrame(t, "v\n1\n2\n3\n4\n")

	st, err := f.Statistics("v")

	require.NoError(t, err)
	require.NotNil(t, st.Numeric)
	assert.Nil(t, st.Text)
	assert.Equal(t, 1.0, st.Numeric.Min)
	assert.Equal(t, 4.0, st.Numeric.Max)
	assert.Equal(t, 2.5, st.Numeric.Mean)
	assert.Equal(t, 2.5, st.Numeric.Median)
	require.NotNil(t, st.Numeric.Std)
	assert.InDelta(t, 1.2910, *st.Numeric.Std, 1e-4)
}

func TestStatistics_Text(t *testing.T) {
	f := readFrame(t, "c\nx\ny\nx\nz\ny\nx\nw\nv\nu\n")

	st, err := f.Statistics("c")

	require.NoError(t, err)
	require.NotNil(t, st.Text)
	assert.Equal(t, 6, st.Text.UniqueValues)
	require.Len(t, st.Text.MostCommon, 5)
	assert.Equal(t, frame.ValueCount{Value: "x", Count: 3}, st.Text.MostCommon[0])
	assert.Equal(t, frame.ValueCount{Value: "y", Count: 2}, st.Text.MostCommon[1])
	assert.Equal(t, frame.ValueCount{Value: "z", Count: 1}, st.Text.MostCommon[2])
}

func TestStatistics_SingleValueHasNoStd(t *testing.T) {
	f := readFrame(t, "v\n7\n")

	st, err := f.Statistics("v")

	require.NoError(t, err)
	assert.Nil(t, st.Numeric.Std)
}

func TestCorrelation(t *testing.T) {
	f := readFrame(t, "x,y,z,label\n1,2,5,a\n2,4,3,b\n3,6,4,c\n")

	corr, err := f.Correlation()

	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, corr.Columns)
	require.NotNil(t, corr.Matrix[0][1])
	assert.Equal(t, 1.0, *corr.Matrix[0][1])
	assert.Equal(t, -0.5, *corr.Matrix[0][2])
}

func TestCorrelation_NoNumeric(t *testing.T) {
	f := readFrame(t, "a\nx\n")

	_, err := f.Correlation()

	assert.ErrorIs(t, err, domain.ErrNoNumericColumns)
}

func TestSummary(t *testing.T) {
	f := readFrame(t, salesCSV)

	s := f.Summary()

	assert.Equal(t, [2]int{5, 5}, s.Shape)
	assert.Equal(t, frame.Object, s.DTypes["city"])
}
