package decode_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"docinsight/internal/decode"
	"docinsight/internal/domain"
)

func newDecoder(t *testing.T) *decode.Decoder {
	return decode.New(zaptest.NewLogger(t))
}

func TestDecode_DirectRoundTrip(t *testing.T) {
	want := domain.Result{
		"answer": "Sales peaked in March.",
		"bar": map[string]any{
			"columns": []any{"month", "sales"},
			"data":    []any{[]any{"Jan", 10.0}, []any{"Mar", 42.5}},
		},
		"pie": map[string]any{
			"labels": []any{"a", "b"},
			"values": []any{1.0, 2.0},
		},
	}
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	out := newDecoder(t).Decode(string(raw))

	assert.Equal(t, decode.StrategyDirect, out.Strategy)
	assert.False(t, out.Degraded())
	if diff := cmp.Diff(want, out.Result); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_BraceExtractionWinsOverPlainText(t *testing.T) {
	out := newDecoder(t).Decode(`noise {"answer":"ok"} trailing`)

	assert.Equal(t, decode.StrategyBrace, out.Strategy)
	assert.Equal(t, domain.Result{"answer": "ok"}, out.Result)
}

func TestDecode_FirstValidCandidateWins(t *testing.T) {
	raw := `Here {not json} and {"answer":"first"} then {"answer":"second"}`

	out := newDecoder(t).Decode(raw)

	assert.Equal(t, domain.Result{"answer": "first"}, out.Result)
}

func TestDecode_BracesInsideStrings(t *testing.T) {
	raw := `Result: {"answer":"use {braces} and \"quotes\" freely"} done`

	out := newDecoder(t).Decode(raw)

	assert.Equal(t, decode.StrategyBrace, out.Strategy)
	assert.Equal(t, `use {braces} and "quotes" freely`, out.Result["answer"])
}

func TestDecode_NestedObjectSpan(t *testing.T) {
	raw := "Sure!\n{\"answer\":\"x\",\"table\":{\"columns\":[\"a\",\"b\"],\"data\":[[\"k\",1]]}}\nThanks"

	out := newDecoder(t).Decode(raw)

	require.Equal(t, decode.StrategyBrace, out.Strategy)
	table, ok := out.Result["table"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, table["columns"])
}

func TestDecode_FencedBlockAfterBrokenBraces(t *testing.T) {
	raw := "Broken {answer: nope\n```json\n{\"answer\":\"x\"}\n```\n"

	out := newDecoder(t).Decode(raw)

	assert.Equal(t, domain.Result{"answer": "x"}, out.Result)
	assert.Equal(t, decode.StrategyBrace, out.Strategy)
	assert.False(t, out.Degraded())
}

func TestDecode_PlainTextFallback(t *testing.T) {
	raw := "## Summary\n\nThe **average** is `42`.\n\n\n\n```python\nprint(1)\n```\n_done_"

	out := newDecoder(t).Decode(raw)

	assert.True(t, out.Degraded())
	assert.Equal(t, decode.StrategyPlainText, out.Strategy)
	assert.Equal(t, "Summary\n\nThe average is 42.\n\ndone", out.Result["answer"])
}

func TestDecode_TotalCoverage(t *testing.T) {
	inputs := map[string]string{
		"empty":         "",
		"prose":         "I could not find that column.",
		"malformed":     `{"answer": "unterminated`,
		"wrapped":       `Here you go: {"answer":"ok"} hope it helps`,
		"fenced":        "```json\n{\"answer\":\"fenced\"}\n```",
		"generic fence": "```\n{\"answer\":\"generic\"}\n```",
		"array":         `[1,2,3]`,
		"null":          `null`,
		"only braces":   `}{`,
		"unicode prose": "Résumé, ünïcödé",
	}
	d := newDecoder(t)
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			var out decode.Outcome
			assert.NotPanics(t, func() { out = d.Decode(in) })
			require.NotNil(t, out.Result)
			assert.True(t, out.Result.Has(domain.KeyAnswer))
		})
	}
}

func TestDecode_NonObjectJSONFallsThrough(t *testing.T) {
	out := newDecoder(t).Decode(`"just a string"`)

	assert.True(t, out.Degraded())
	assert.Equal(t, `"just a string"`, out.Result["answer"])
}

func TestEnsureAnswer(t *testing.T) {
	assert.Equal(t, domain.Result{"answer": ""}, decode.EnsureAnswer(nil))
	assert.Equal(t, domain.Result{"bar": 1.0, "answer": ""}, decode.EnsureAnswer(domain.Result{"bar": 1.0}))
	assert.Equal(t, domain.Result{"answer": "keep"}, decode.EnsureAnswer(domain.Result{"answer": "keep"}))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim", "  hi  ", "hi"},
		{"headings", "# Title\ntext", "Title\ntext"},
		{"blank runs", "a\n\n \n\t\nb", "a\n\nb"},
		{"fenced removed", "before\n```\ncode\n```\nafter", "before\n\nafter"},
		{"underscores", "snake_case", "snakecase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode.CleanText(tt.in))
		})
	}
}
