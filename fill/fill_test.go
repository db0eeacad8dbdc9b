package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/formula"
	"github.com/adnsv/go-xlformula/xl"
)

func newBook(t *testing.T, sheets ...string) *xl.Workbook {
	t.Helper()
	wb := xl.NewWorkbook()
	for _, s := range sheets {
		require.NoError(t, wb.EnsureSheet(s))
	}
	return wb
}

func request(t *testing.T, sheet, source, target string) Request {
	t.Helper()
	req, err := NewRequest(sheet, source, target, false)
	require.NoError(t, err)
	return req
}

func TestBroadcastValue(t *testing.T) {
	wb := newBook(t, "S")
	require.NoError(t, wb.SetCellValue("S", "F5", 10))

	require.NoError(t, New(wb, wb).Autofill(request(t, "S", "F5", "F10:H10")))
	for _, addr := range []string{"F10", "G10", "H10"} {
		v, err := wb.CellValue("S", addr)
		require.NoError(t, err)
		assert.Equal(t, 10.0, v, addr)
	}
}

func TestBroadcastFormula(t *testing.T) {
	wb := newBook(t, "S")
	require.NoError(t, wb.SetCellFormula("S", "F5", "=F4+$B$1+Data!F$2"))

	require.NoError(t, New(wb, wb).Autofill(request(t, "S", "F5", "F10:H11")))
	want := map[string]string{
		"F10": "F9+$B$1+Data!F$2",
		"G10": "G9+$B$1+Data!G$2",
		"H10": "H9+$B$1+Data!H$2",
		"F11": "F10+$B$1+Data!F$2",
		"H11": "H10+$B$1+Data!H$2",
	}
	for addr, f := range want {
		got, err := wb.CellFormula("S", addr)
		require.NoError(t, err)
		assert.Equal(t, f, got, addr)
	}
}

func TestShapeMismatch(t *testing.T) {
	wb := newBook(t, "S")
	err := New(wb, wb).Autofill(request(t, "S", "A1:B2", "A5:A6"))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	v, err := wb.CellValue("S", "A5")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestBlockCopyShiftsPerCell(t *testing.T) {
	wb := newBook(t, "S")
	require.NoError(t, wb.SetCellValue("S", "A1", "label"))
	require.NoError(t, wb.SetCellFormula("S", "B1", "A1*2"))
	require.NoError(t, wb.SetCellValue("S", "A2", 3))
	require.NoError(t, wb.SetCellFormula("S", "B2", "SUM($A$1:A2)"))

	require.NoError(t, New(wb, wb).Autofill(request(t, "S", "A1:B2", "D4:E5")))

	v, err := wb.CellValue("S", "D4")
	require.NoError(t, err)
	assert.Equal(t, "label", v)
	v, err = wb.CellValue("S", "D5")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	f, err := wb.CellFormula("S", "E4")
	require.NoError(t, err)
	assert.Equal(t, "D4*2", f)
	f, err = wb.CellFormula("S", "E5")
	require.NoError(t, err)
	assert.Equal(t, "SUM($A$1:D5)", f)
}

func TestSingleCellTargetExpands(t *testing.T) {
	wb := newBook(t, "S")
	require.NoError(t, wb.SetCellFormula("S", "A1", "C1"))
	require.NoError(t, wb.SetCellFormula("S", "B1", "C1"))

	require.NoError(t, New(wb, wb).Autofill(request(t, "S", "B1:A1", "A3")))
	f, err := wb.CellFormula("S", "A3")
	require.NoError(t, err)
	assert.Equal(t, "C3", f)
	f, err = wb.CellFormula("S", "B3")
	require.NoError(t, err)
	assert.Equal(t, "C3", f)
}

func TestCrossSheetFillAndClear(t *testing.T) {
	wb := newBook(t, "S", "T")
	require.NoError(t, wb.SetCellFormula("S", "A1", "B1"))
	require.NoError(t, wb.SetCellValue("T", "C2", 5))

	req := request(t, "S", "A1:A2", "C1:C2")
	req.TargetSheet = "T"
	require.NoError(t, New(wb, wb).Autofill(req))

	f, err := wb.CellFormula("T", "C1")
	require.NoError(t, err)
	assert.Equal(t, "D1", f)
	v, err := wb.CellValue("T", "C2")
	require.NoError(t, err)
	assert.Nil(t, v, "empty source cell clears the target")

	req.TargetSheet = "U"
	require.NoError(t, New(wb, wb).Autofill(req))
	assert.Equal(t, []string{"S", "T", "U"}, wb.SheetNames())
}

func TestCopyStyleUsesCache(t *testing.T) {
	wb := newBook(t, "S")
	require.NoError(t, wb.SetCellValue("S", "A1", 1))
	require.NoError(t, wb.SetCellValue("S", "B1", 2))
	require.NoError(t, wb.SetCellStyle("S", "A1", &xl.Style{Font: xl.Font{Bold: true}}))
	require.NoError(t, wb.SetCellStyle("S", "B1", &xl.Style{Font: xl.Font{Bold: true}}))

	f := New(wb, wb)
	req := request(t, "S", "A1:B1", "A3:B3")
	req.CopyStyle = true
	require.NoError(t, f.Autofill(req))

	a, err := wb.CellStyle("S", "A3")
	require.NoError(t, err)
	b, err := wb.CellStyle("S", "B3")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Same(t, a, b)
	assert.Equal(t, 1, f.StyleCache().Len())

	f.ClearStyleCache()
	assert.Equal(t, 0, f.StyleCache().Len())
}

func TestStyleCacheCanonical(t *testing.T) {
	c := NewStyleCache()
	a := &xl.Style{NumberFormat: "0.00"}
	b := &xl.Style{NumberFormat: "0.00"}
	assert.Same(t, a, c.Canonical(a))
	assert.Same(t, a, c.Canonical(b))
	assert.Nil(t, c.Canonical(nil))
	c.Clear()
	assert.Same(t, b, c.Canonical(b))
}

func TestFillReportsUnparseableReferences(t *testing.T) {
	wb := newBook(t, "S")
	require.NoError(t, wb.SetCellFormula("S", "A1", "XFZ1+B1"))

	var diags []formula.Diagnostic
	rw := formula.Rewriter{Diagnostics: func(d formula.Diagnostic) { diags = append(diags, d) }}
	require.NoError(t, New(wb, wb, WithRewriter(rw)).Autofill(request(t, "S", "A1", "A2")))

	f, err := wb.CellFormula("S", "A2")
	require.NoError(t, err)
	assert.Equal(t, "XFZ1+B2", f)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0].Err, coord.ErrInvalidAddress)
}

func TestInvalidRequest(t *testing.T) {
	_, err := NewRequest("S", "1A", "B2", false)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, coord.ErrInvalidAddress)

	wb := newBook(t, "S")
	err = New(wb, wb).Autofill(Request{Source: coord.CellRange(coord.Ref{Column: 1, Row: 1})})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
