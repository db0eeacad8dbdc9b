package coord

import (
	"fmt"
	"strings"
)

// Range is a single cell (End is the zero Ref) or a rectangular area.
// The two corners keep their own absolute markers.
type Range struct {
	Start Ref
	End   Ref
}

// CellRange wraps a single reference.
func CellRange(r Ref) Range {
	return Range{Start: r}
}

// ParseRange reads "A1" or "A1:B2", with an optional sheet qualifier that
// is ignored.
func ParseRange(text string) (Range, error) {
	if i := strings.LastIndexByte(text, '!'); i >= 0 {
		text = text[i+1:]
	}
	first, second, isArea := strings.Cut(text, ":")
	start, err := Parse(first)
	if err != nil {
		return Range{}, err
	}
	if !isArea {
		return Range{Start: start}, nil
	}
	end, err := Parse(second)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// IsCell reports whether the range was written as a single cell.
func (r Range) IsCell() bool {
	return r.End.Column == 0
}

// Bounds returns the normalized corners (top <= bottom, left <= right).
func (r Range) Bounds() (top, left, bottom, right int) {
	top, left = r.Start.Row, r.Start.Column
	if r.IsCell() {
		return top, left, top, left
	}
	bottom, right = r.End.Row, r.End.Column
	if bottom < top {
		top, bottom = bottom, top
	}
	if right < left {
		left, right = right, left
	}
	return top, left, bottom, right
}

// Rows is the height of the normalized range.
func (r Range) Rows() int {
	top, _, bottom, _ := r.Bounds()
	return bottom - top + 1
}

// Cols is the width of the normalized range.
func (r Range) Cols() int {
	_, left, _, right := r.Bounds()
	return right - left + 1
}

// Shift moves both corners independently, each honoring its own markers.
func (r Range) Shift(s Shift) Range {
	r.Start = r.Start.Shift(s)
	if !r.IsCell() {
		r.End = r.End.Shift(s)
	}
	return r
}

// Move displaces both corners ignoring absolute markers.
func (r Range) Move(rowDelta, colDelta int) Range {
	r.Start = r.Start.Move(rowDelta, colDelta)
	if !r.IsCell() {
		r.End = r.End.Move(rowDelta, colDelta)
	}
	return r
}

// Absolute marks every axis of both corners as absolute.
func (r Range) Absolute() Range {
	r.Start = r.Start.Absolute()
	if !r.IsCell() {
		r.End = r.End.Absolute()
	}
	return r
}

func (r Range) String() string {
	if r.IsCell() {
		return r.Start.String()
	}
	return r.Start.String() + ":" + r.End.String()
}

// SheetRange is a range with an optional sheet qualifier. An empty Sheet
// refers to the current sheet and is rendered without a qualifier.
type SheetRange struct {
	Sheet string
	Range Range
}

// ParseSheetRange reads "A1", "Sheet1!A1:B2" or "'My Sheet'!$C$3". Quoted
// names may contain doubled single quotes.
func ParseSheetRange(text string) (SheetRange, error) {
	i := strings.LastIndexByte(text, '!')
	if i < 0 {
		rng, err := ParseRange(text)
		if err != nil {
			return SheetRange{}, err
		}
		return SheetRange{Range: rng}, nil
	}
	sheet, err := UnquoteSheetName(text[:i])
	if err != nil {
		return SheetRange{}, err
	}
	rng, err := ParseRange(text[i+1:])
	if err != nil {
		return SheetRange{}, err
	}
	return SheetRange{Sheet: sheet, Range: rng}, nil
}

// MustParseSheetRange is ParseSheetRange for literals known to be valid.
func MustParseSheetRange(text string) SheetRange {
	sr, err := ParseSheetRange(text)
	if err != nil {
		panic(err)
	}
	return sr
}

// Shift moves the range part; the sheet is unchanged.
func (s SheetRange) Shift(sh Shift) SheetRange {
	s.Range = s.Range.Shift(sh)
	return s
}

func (s SheetRange) String() string {
	if s.Sheet == "" {
		return s.Range.String()
	}
	return QuoteSheetName(s.Sheet) + "!" + s.Range.String()
}

// Address is the cell part without any qualifier.
func (s SheetRange) Address() string {
	return s.Range.String()
}

// GoString helps test failure output.
func (s SheetRange) GoString() string {
	return fmt.Sprintf("coord.SheetRange{%q, %s}", s.Sheet, s.Range)
}
