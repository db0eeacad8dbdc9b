package xlsxbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/fill"
	"github.com/adnsv/go-xlformula/generate"
	"github.com/adnsv/go-xlformula/xl"
)

func newBook(t *testing.T) *Book {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	return New(f)
}

func TestValuesAndFormulas(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.SetCellValue("Sheet1", "A1", 2.5))
	require.NoError(t, b.SetCellValue("Sheet1", "A2", "text"))
	require.NoError(t, b.SetCellValue("Sheet1", "A3", true))
	require.NoError(t, b.SetCellFormula("Sheet1", "A4", "=A1*2"))

	v, err := b.CellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
	v, err = b.CellValue("Sheet1", "A2")
	require.NoError(t, err)
	assert.Equal(t, "text", v)
	v, err = b.CellValue("Sheet1", "A3")
	require.NoError(t, err)
	assert.Equal(t, true, v)
	v, err = b.CellValue("Sheet1", "Z9")
	require.NoError(t, err)
	assert.Nil(t, v)

	f, err := b.CellFormula("Sheet1", "A4")
	require.NoError(t, err)
	assert.Equal(t, "A1*2", f)

	require.NoError(t, b.SetCellValue("Sheet1", "A4", 1))
	f, err = b.CellFormula("Sheet1", "A4")
	require.NoError(t, err)
	assert.Empty(t, f)

	_, err = b.CellValue("Missing", "A1")
	assert.Error(t, err)
}

func TestEnsureSheet(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.EnsureSheet("Sheet1"))
	require.NoError(t, b.EnsureSheet("b 利润表"))
	assert.Equal(t, []string{"Sheet1", "b 利润表"}, b.SheetNames())
}

func TestStyleRoundTrip(t *testing.T) {
	b := newBook(t)
	style := &xl.Style{
		Font:         xl.Font{Bold: true, Italic: true},
		Fill:         xl.Fill{Pattern: "solid", Color: "FFFF00"},
		Border:       xl.Border{Left: xl.BorderEdge{Style: "thin", Color: "000000"}},
		Alignment:    xl.Alignment{Horizontal: "center"},
		NumberFormat: "0.000",
	}
	require.NoError(t, b.SetCellStyle("Sheet1", "A1", style))
	copied := *style
	require.NoError(t, b.SetCellStyle("Sheet1", "B1", &copied))

	idA, err := b.File().GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	idB, err := b.File().GetCellStyle("Sheet1", "B1")
	require.NoError(t, err)
	assert.NotZero(t, idA)
	assert.Equal(t, idA, idB)

	// read through a fresh adapter so the conversion runs
	got, err := New(b.File()).CellStyle("Sheet1", "A1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Font.Bold)
	assert.True(t, got.Font.Italic)
	assert.Equal(t, "solid", got.Fill.Pattern)
	assert.Equal(t, "thin", got.Border.Left.Style)
	assert.Equal(t, "center", got.Alignment.Horizontal)
	assert.Equal(t, "0.000", got.NumberFormat)

	none, err := b.CellStyle("Sheet1", "C1")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStyleConversion(t *testing.T) {
	s := &xl.Style{
		Font:         xl.Font{Name: "Arial", Size: 9, Underline: xl.UnderlineDouble, Color: "FF0000"},
		Fill:         xl.Fill{Pattern: "gray125"},
		Border:       xl.Border{Bottom: xl.BorderEdge{Style: "double", Color: "00FF00"}},
		NumberFormat: "0.00%",
	}
	es := toExcelize(s)
	assert.Equal(t, 10, es.NumFmt)
	assert.Nil(t, es.CustomNumFmt)
	assert.Equal(t, 17, es.Fill.Pattern)
	require.Len(t, es.Border, 1)
	assert.Equal(t, excelize.Border{Type: "bottom", Color: "00FF00", Style: 6}, es.Border[0])

	back := fromExcelize(es)
	assert.Equal(t, s, back)

	assert.Equal(t, "ABCDEF", rgb("#abcdef"))
	assert.Equal(t, "ABCDEF", rgb("FFABCDEF"))
}

func TestGenerateAndFillThroughExcelize(t *testing.T) {
	b := newBook(t)
	require.NoError(t, b.SetCellValue("Sheet1", "F5", 10))

	spec, err := generate.NewCustom("=({B_val}+{C_val})",
		map[string]coord.SheetRange{
			"B_val": coord.MustParseSheetRange("Sheet1!F5"),
			"C_val": coord.MustParseSheetRange("Sheet1!G5"),
		},
		coord.MustParseSheetRange("'b 利润表'!F10"),
		&generate.Loop{
			Count:        2,
			ParamOffsets: map[string]coord.Shift{"B_val": {RowDelta: 1}, "C_val": {RowDelta: 1}},
			TargetOffset: coord.Shift{ColDelta: 1},
		})
	require.NoError(t, err)
	require.NoError(t, generate.New(b).Generate([]generate.Spec{spec}))

	f, err := b.CellFormula("b 利润表", "G10")
	require.NoError(t, err)
	assert.Equal(t, "(Sheet1!F6+Sheet1!G6)", f)

	req, err := fill.NewRequest("b 利润表", "F10", "F12:G12", false)
	require.NoError(t, err)
	require.NoError(t, fill.New(b, b).Autofill(req))
	f, err = b.CellFormula("b 利润表", "G12")
	require.NoError(t, err)
	assert.Equal(t, "(Sheet1!G7+Sheet1!H7)", f)

	req, err = fill.NewRequest("Sheet1", "F5", "F6:H6", false)
	require.NoError(t, err)
	require.NoError(t, fill.New(b, b).Autofill(req))
	v, err := b.File().GetCellValue("Sheet1", "H6")
	require.NoError(t, err)
	assert.Equal(t, "10", v)

	fn := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, b.SaveAs(fn))
	reopened, err := Open(fn)
	require.NoError(t, err)
	defer reopened.Close()
	f, err = reopened.CellFormula("b 利润表", "F10")
	require.NoError(t, err)
	assert.Equal(t, "(Sheet1!F5+Sheet1!G5)", f)
}
