package ingest

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
)

// run lays out s as a single text run starting at x with a 10pt font and
// 5pt-wide glyphs.
func run(x float64, s string) pdf.Text {
	return pdf.Text{S: s, X: x, W: 5 * float64(len(s)), FontSize: 10}
}

func TestSplitCells(t *testing.T) {
	texts := pdf.TextHorizontal{
		run(120, "DHL"),
		run(10, "Courier "),
		run(52, "Name"),
	}

	assert.Equal(t, []string{"Courier Name", "DHL"}, splitCells(texts))
}

func TestSplitCells_AdjacentRunsJoin(t *testing.T) {
	texts := pdf.TextHorizontal{run(0, "AW"), run(10, "B"), run(15, " 123")}

	assert.Equal(t, []string{"AWB 123"}, splitCells(texts))
}

func TestFindTables(t *testing.T) {
	rows := pdf.Rows{
		{Content: pdf.TextHorizontal{run(0, "Shipping Label")}},
		{Content: pdf.TextHorizontal{run(0, "Order"), run(100, "Tracking")}},
		{Content: pdf.TextHorizontal{run(0, "A-1"), run(100, "998")}},
		{Content: pdf.TextHorizontal{run(0, "Thank you")}},
		{Content: pdf.TextHorizontal{run(0, "lonely"), run(100, "row")}},
	}

	tables := findTables(rows)

	assert.Equal(t, [][][]string{{{"Order", "Tracking"}, {"A-1", "998"}}}, tables)
}
