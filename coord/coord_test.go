package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnToIndex(t *testing.T) {
	tests := []struct {
		letters string
		want    int
	}{
		{"A", 1},
		{"Z", 26},
		{"AA", 27},
		{"AZ", 52},
		{"ZZ", 702},
		{"AAA", 703},
		{"XFD", MaxColumns},
		{"xfd", MaxColumns},
	}
	for _, tt := range tests {
		got, err := ColumnToIndex(tt.letters)
		require.NoError(t, err, tt.letters)
		assert.Equal(t, tt.want, got, tt.letters)

		back, err := IndexToColumn(tt.want)
		require.NoError(t, err)
		assert.Equal(t, ColumnLetters(tt.want), back)
	}

	for _, bad := range []string{"", "A1", "$A", "XFE", "ABCD"} {
		_, err := ColumnToIndex(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestIndexToColumnRejectsZero(t *testing.T) {
	_, err := IndexToColumn(0)
	assert.ErrorIs(t, err, ErrInvalidAddress)
	assert.Panics(t, func() { ColumnLetters(-1) })
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"A1", Ref{Column: 1, Row: 1}},
		{"$A$1", Ref{Column: 1, Row: 1, ColumnAbsolute: true, RowAbsolute: true}},
		{"b$7", Ref{Column: 2, Row: 7, RowAbsolute: true}},
		{"$AB12", Ref{Column: 28, Row: 12, ColumnAbsolute: true}},
		{"Sheet1!$C5", Ref{Column: 3, Row: 5, ColumnAbsolute: true}},
		{"'b 利润表'!F5", Ref{Column: 6, Row: 5}},
		{"A01", Ref{Column: 1, Row: 1}},
		{"$C$007", Ref{Column: 3, Row: 7, ColumnAbsolute: true, RowAbsolute: true}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "A", "1", "A0", "A00", "1A", "$$A1", "A$$1", "A1B", "A1:B2", "XFE1", "A1048577"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidAddress, bad)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, addr := range []string{"A1", "$A$1", "AB$12", "$Z9", "$XFD$1048576", "ZZ702"} {
		r, err := Parse(addr)
		require.NoError(t, err)
		got, err := Format(r)
		require.NoError(t, err)
		assert.Equal(t, addr, got)
	}

	r, err := Parse("ab$12")
	require.NoError(t, err)
	assert.Equal(t, "AB$12", r.String())

	_, err = Format(Ref{Column: 0, Row: 3})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestShiftHonorsAbsoluteAxes(t *testing.T) {
	base := Ref{Column: 5, Row: 5, ColumnAbsolute: true}
	for _, d := range []int{-10, -1, 0, 1, 40} {
		got := base.Shift(Shift{RowDelta: d, ColDelta: d})
		assert.Equal(t, 5, got.Column)
	}

	base = Ref{Column: 5, Row: 5, RowAbsolute: true}
	for _, d := range []int{-10, -1, 0, 1, 40} {
		got := base.Shift(Shift{RowDelta: d, ColDelta: d})
		assert.Equal(t, 5, got.Row)
	}
}

func TestShiftClamps(t *testing.T) {
	got := Ref{Column: 2, Row: 3}.Shift(Shift{RowDelta: -7, ColDelta: -9})
	assert.Equal(t, Ref{Column: 1, Row: 1}, got)

	got = Ref{Column: MaxColumns, Row: MaxRows}.Shift(Shift{RowDelta: 1, ColDelta: 1})
	assert.Equal(t, Ref{Column: MaxColumns, Row: MaxRows}, got)
}

func TestRangeShiftCornersIndependently(t *testing.T) {
	rng, err := ParseRange("$A1:A$5")
	require.NoError(t, err)
	assert.Equal(t, "$A3:D$5", rng.Shift(Shift{RowDelta: 2, ColDelta: 3}).String())
}

func TestRangeBounds(t *testing.T) {
	rng, err := ParseRange("C4:A1")
	require.NoError(t, err)
	top, left, bottom, right := rng.Bounds()
	assert.Equal(t, []int{1, 1, 4, 3}, []int{top, left, bottom, right})
	assert.Equal(t, 4, rng.Rows())
	assert.Equal(t, 3, rng.Cols())

	cell, err := ParseRange("F5")
	require.NoError(t, err)
	assert.True(t, cell.IsCell())
	assert.Equal(t, 1, cell.Rows())
	assert.Equal(t, 1, cell.Cols())
}

func TestQuoteSheetName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Sheet1", "Sheet1"},
		{"Data.2", "Data.2"},
		{"b 利润表", "'b 利润表'"},
		{"利润表", "'利润表'"},
		{"it's", "'it''s'"},
		{"my-sheet", "'my-sheet'"},
		{"Q(1)", "'Q(1)'"},
		{"2023", "'2023'"},
		{"A1", "'A1'"},
		{"true", "'true'"},
		{"R1C1", "'R1C1'"},
		{"r2c3", "'r2c3'"},
		{"RC", "'RC'"},
		{"R1C", "'R1C'"},
		{"Rate", "Rate"},
		{"RC1X", "RC1X"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteSheetName(tt.name), tt.name)
	}
	assert.Equal(t, "'Sheet1'", ForceQuote("Sheet1"))
}

func TestParseSheetRange(t *testing.T) {
	sr, err := ParseSheetRange("'it''s'!A1:B2")
	require.NoError(t, err)
	assert.Equal(t, "it's", sr.Sheet)
	assert.Equal(t, "A1:B2", sr.Address())
	assert.Equal(t, "'it''s'!A1:B2", sr.String())

	sr, err = ParseSheetRange("$F$5")
	require.NoError(t, err)
	assert.Empty(t, sr.Sheet)
	assert.Equal(t, "$F$5", sr.String())

	sr, err = ParseSheetRange("b 利润表!F5")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseSheetRange("'broken!A1")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestOffsetHelpers(t *testing.T) {
	tests := []struct {
		got  func() (string, error)
		want string
	}{
		{func() (string, error) { return Right("D5", 5) }, "I5"},
		{func() (string, error) { return Left("B2", 5) }, "A2"},
		{func() (string, error) { return Down("AA24", 1) }, "AA25"},
		{func() (string, error) { return Up("AB3", 5) }, "AB1"},
		{func() (string, error) { return Offset("$B$2", 1, 1) }, "$C$3"},
		{func() (string, error) { return Offset("Sheet1!A1:B2", 1, 1) }, "Sheet1!B2:C3"},
	}
	for _, tt := range tests {
		got, err := tt.got()
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Right("5D", 1)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestToAbsolute(t *testing.T) {
	got, err := ToAbsolute("C.2项目每年借款信息!D4")
	require.NoError(t, err)
	assert.Equal(t, "'C.2项目每年借款信息'!$D$4", got)

	got, err = ToAbsolute("A1:B$3")
	require.NoError(t, err)
	assert.Equal(t, "$A$1:$B$3", got)
}
