package formula

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/efp"

	"github.com/adnsv/go-xlformula/coord"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		shift coord.Shift
		want  string
	}{
		{"relative cells", "A1+B2", coord.Shift{RowDelta: 1, ColDelta: 1}, "B2+C3"},
		{"mixed range corners", "$A1:A$5", coord.Shift{RowDelta: 2, ColDelta: 3}, "$A3:D$5"},
		{"quoted sheet", "SUM('b 利润表'!F5:F10)*Sheet2!$B$3", coord.Shift{RowDelta: 1}, "SUM('b 利润表'!F6:F11)*Sheet2!$B$3"},
		{"bare cjk sheet gets quoted", "利润表!F5+1", coord.Shift{ColDelta: 1}, "'利润表'!G5+1"},
		{"dotted sheet stays bare", "Data.2!B3*2", coord.Shift{RowDelta: 1}, "Data.2!B4*2"},
		{"string literal untouched", `IF(A1>0,"A1 ok",B1)`, coord.Shift{RowDelta: 1}, `IF(A2>0,"A1 ok",B2)`},
		{"escaped quote in literal", `"say ""B2"""&B2`, coord.Shift{RowDelta: 1}, `"say ""B2"""&B3`},
		{"scientific number", "1E3+A1", coord.Shift{ColDelta: 1}, "1E3+B1"},
		{"function with digits", "LOG10(A1)", coord.Shift{RowDelta: 1}, "LOG10(A2)"},
		{"clamped at one", "A2-B1", coord.Shift{RowDelta: -5, ColDelta: -5}, "A1-A1"},
		{"lowercase normalized when moved", "sum(a1:b2)", coord.Shift{RowDelta: 1}, "sum(A2:B3)"},
		{"absolute keeps spelling", "$a$1+a1", coord.Shift{RowDelta: 1}, "$a$1+A2"},
		{"names and booleans", "TRUE+Rate*Table1[Col]", coord.Shift{RowDelta: 1}, "TRUE+Rate*Table1[Col]"},
		{"whole column untouched", "SUM(A:A)+B1", coord.Shift{RowDelta: 1}, "SUM(A:A)+B2"},
		{"error literal", "#REF!+A1", coord.Shift{RowDelta: 1}, "#REF!+A2"},
		{"quoted name with quote", "'it''s'!A1", coord.Shift{ColDelta: 2}, "'it''s'!C1"},
		{"qualified defined name", "Sheet1!Rate+A1", coord.Shift{RowDelta: 1}, "Sheet1!Rate+A2"},
		{"leading zero row", "A01+B1", coord.Shift{RowDelta: 1}, "A2+B2"},
		{"r1c1 shaped sheet gets quoted", "R1C1!A1", coord.Shift{RowDelta: 1}, "'R1C1'!A2"},
		{"spaces preserved", " A1 + B1 ", coord.Shift{RowDelta: 1}, " A2 + B2 "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.body, tt.shift))
		})
	}
}

func TestRewriteZeroShiftIsIdentity(t *testing.T) {
	bodies := []string{
		"A1+B2",
		"sum(a1:b2)",
		"SUM('b 利润表'!F5:F10)*Sheet2!$B$3",
		"'Sheet1'!a1",
		`IF($A$1>0,"x",VLOOKUP(B2, 'q (1)'!$A$1:$D$40, 2, FALSE))`,
		"-A1%+1.5E-3",
	}
	for _, body := range bodies {
		assert.Equal(t, body, Rewrite(body, coord.Shift{}), body)
	}
}

// A bare qualifier that needs quotes is quoted even when nothing moves;
// every other span is kept as written.
func TestRewriteZeroShiftQuotesBareQualifiers(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"利润表!A1", "'利润表'!A1"},
		{"AB1!C3", "'AB1'!C3"},
		{"R1C1!$B$2+A01", "'R1C1'!$B$2+A01"},
		{"'利润表'!A1+Sheet1!a1", "'利润表'!A1+Sheet1!a1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rewrite(tt.body, coord.Shift{}), tt.body)
	}
}

func TestRewriteDiagnostics(t *testing.T) {
	var diags []Diagnostic
	rw := Rewriter{Diagnostics: func(d Diagnostic) { diags = append(diags, d) }}

	got := rw.Rewrite("XFZ1+A1", coord.Shift{RowDelta: 1})
	assert.Equal(t, "XFZ1+A2", got)
	require.Len(t, diags, 1)
	assert.Equal(t, "XFZ1", diags[0].Token)
	assert.Equal(t, 0, diags[0].Offset)
	assert.ErrorIs(t, diags[0].Err, coord.ErrInvalidAddress)

	diags = nil
	got = rw.Rewrite("B1*Sheet1!A1:ZZZ9", coord.Shift{RowDelta: 1})
	assert.Equal(t, "B2*Sheet1!A1:ZZZ9", got)
	require.Len(t, diags, 1)
	assert.Equal(t, "Sheet1!A1:ZZZ9", diags[0].Token)
	assert.Equal(t, 3, diags[0].Offset)
}

func TestRewriteQuoteAll(t *testing.T) {
	rw := Rewriter{QuoteAll: true}
	assert.Equal(t, "'Sheet1'!A2+B2", rw.Rewrite("Sheet1!A1+B1", coord.Shift{RowDelta: 1}))
}

func TestTokenizeCoversBody(t *testing.T) {
	bodies := []string{
		"SUM('b 利润表'!F5:F10)*Sheet2!$B$3",
		`"unterminated A1`,
		"'dangling quote A1",
		"A1:",
		"",
	}
	for _, body := range bodies {
		var sb strings.Builder
		for _, tok := range Tokenize(body) {
			assert.Equal(t, body[tok.Start:tok.End], tok.Text)
			sb.WriteString(tok.Text)
		}
		assert.Equal(t, body, sb.String())
	}
}

func TestTokenizeReferences(t *testing.T) {
	tokens := Tokenize("'x y'!$A$1:B2+C3")
	var refs []Token
	for _, tok := range tokens {
		if tok.Kind == TokenReference {
			refs = append(refs, tok)
		}
	}
	require.Len(t, refs, 2)
	assert.Equal(t, "x y", refs[0].Sheet)
	assert.True(t, refs[0].Quoted)
	assert.Equal(t, "$A$1:B2", refs[0].Range.String())
	assert.False(t, refs[1].Qualified())
	assert.Equal(t, "C3", refs[1].Text)
}

func TestReferences(t *testing.T) {
	got := References("A1+Sheet1!B2:C3+A1+'x y'!$D$4")
	want := []coord.SheetRange{
		coord.MustParseSheetRange("A1"),
		coord.MustParseSheetRange("Sheet1!B2:C3"),
		coord.MustParseSheetRange("'x y'!$D$4"),
	}
	assert.Equal(t, want, got)
}

func TestRenameSheets(t *testing.T) {
	got := RenameSheets("Sheet1!A1+'Old Name'!B2+C3", map[string]string{
		"Old Name": "利润表",
		"Sheet1":   "Data",
	})
	assert.Equal(t, "Data!A1+'利润表'!B2+C3", got)
}

// The rewritten formula must tokenize into the same operand structure as
// its input under an independent tokenizer.
func TestRewritePreservesStructure(t *testing.T) {
	bodies := []string{
		"SUM('b 利润表'!F5:F10)*Sheet2!$B$3",
		`IF(A1>0,"A1 ok",B1)`,
		"VLOOKUP(A2, 'q (1)'!$A$1:$D$40, 2, FALSE)",
	}
	countRanges := func(body string) int {
		ps := efp.ExcelParser()
		n := 0
		for _, tok := range ps.Parse("=" + body) {
			if tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange {
				n++
			}
		}
		return n
	}
	for _, body := range bodies {
		out := Rewrite(body, coord.Shift{RowDelta: 3, ColDelta: 1})
		assert.Equal(t, countRanges(body), countRanges(out), out)
	}
}
