package coord

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Worksheet limits as defined by ECMA-376 for the xlsx format.
const (
	MaxColumns = 16384   // XFD
	MaxRows    = 1048576 // 2^20
)

// ErrInvalidAddress is returned for malformed cell text or out of range
// coordinates.
var ErrInvalidAddress = errors.New("invalid address")

// Ref is a single cell coordinate. Column and Row are 1-based. Each axis is
// independently absolute ($-marked) or relative.
type Ref struct {
	Column         int
	Row            int
	ColumnAbsolute bool
	RowAbsolute    bool
}

// Shift is a (rows, columns) displacement applied to references.
type Shift struct {
	RowDelta int
	ColDelta int
}

// Times scales the shift by n, as used by loop iterations.
func (s Shift) Times(n int) Shift {
	return Shift{RowDelta: s.RowDelta * n, ColDelta: s.ColDelta * n}
}

func (s Shift) IsZero() bool {
	return s.RowDelta == 0 && s.ColDelta == 0
}

// ColumnToIndex decodes column letters as a bijective base-26 numeral:
// A=1 .. Z=26, AA=27. Letters are case-insensitive.
func ColumnToIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column", ErrInvalidAddress)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			n = n*26 + int(ch-'A') + 1
		case ch >= 'a' && ch <= 'z':
			n = n*26 + int(ch-'a') + 1
		default:
			return 0, fmt.Errorf("%w: column %q", ErrInvalidAddress, letters)
		}
		if n > MaxColumns {
			return 0, fmt.Errorf("%w: column %q out of range", ErrInvalidAddress, letters)
		}
	}
	return n, nil
}

// IndexToColumn is the inverse of ColumnToIndex.
func IndexToColumn(n int) (string, error) {
	if n < 1 {
		return "", fmt.Errorf("%w: column number %d", ErrInvalidAddress, n)
	}
	return columnLetters(n), nil
}

// ColumnLetters is IndexToColumn for callers that already hold a valid
// column number. It panics when n < 1.
func ColumnLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	return columnLetters(n)
}

func columnLetters(n int) string {
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte((n-1)%26) + 'A'
		n = (n - 1) / 26
	}
	return string(buf[i:])
}

// CellName formats a relative address such as "B7".
func CellName(col, row int) string {
	return ColumnLetters(col) + strconv.Itoa(row)
}

// Parse reads an address of the form [$]letters[$]digits. Anything up to
// and including the last '!' is treated as a sheet qualifier and ignored.
func Parse(address string) (Ref, error) {
	if i := strings.LastIndexByte(address, '!'); i >= 0 {
		address = address[i+1:]
	}
	r, n, ok := scanRef(address)
	if !ok || n != len(address) {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if !r.Valid() {
		return Ref{}, fmt.Errorf("%w: %q out of range", ErrInvalidAddress, address)
	}
	return r, nil
}

// scanRef matches the longest [$]?[A-Za-z]+[$]?[0-9]+ prefix of s. It reports
// the number of bytes consumed. Leading zeros in the row are accepted ("A01"
// is row 1). Column or row overflow yields ok=false.
func scanRef(s string) (r Ref, n int, ok bool) {
	i := 0
	if i < len(s) && s[i] == '$' {
		r.ColumnAbsolute = true
		i++
	}
	start := i
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == start || i-start > 3 {
		return Ref{}, 0, false
	}
	col, err := ColumnToIndex(s[start:i])
	if err != nil {
		return Ref{}, 0, false
	}
	if i < len(s) && s[i] == '$' {
		r.RowAbsolute = true
		i++
	}
	start = i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return Ref{}, 0, false
	}
	row, err := strconv.Atoi(s[start:i])
	if err != nil {
		return Ref{}, 0, false
	}
	r.Column = col
	r.Row = row
	return r, i, true
}

// Valid reports whether both indices are inside the worksheet limits.
func (r Ref) Valid() bool {
	return r.Column >= 1 && r.Column <= MaxColumns && r.Row >= 1 && r.Row <= MaxRows
}

// Format renders r with '$' markers exactly where the axes are absolute.
func Format(r Ref) (string, error) {
	if !r.Valid() {
		return "", fmt.Errorf("%w: column %d row %d", ErrInvalidAddress, r.Column, r.Row)
	}
	return r.String(), nil
}

func (r Ref) String() string {
	if r.Column < 1 || r.Row < 1 {
		return "#REF!"
	}
	var sb strings.Builder
	if r.ColumnAbsolute {
		sb.WriteByte('$')
	}
	sb.WriteString(columnLetters(r.Column))
	if r.RowAbsolute {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.Itoa(r.Row))
	return sb.String()
}

// Shift applies s to the relative axes of r. Absolute axes never move and
// results are clamped to the worksheet limits.
func (r Ref) Shift(s Shift) Ref {
	if !r.ColumnAbsolute {
		r.Column = clamp(r.Column+s.ColDelta, MaxColumns)
	}
	if !r.RowAbsolute {
		r.Row = clamp(r.Row+s.RowDelta, MaxRows)
	}
	return r
}

// Move displaces r regardless of absolute markers, which are kept.
func (r Ref) Move(rowDelta, colDelta int) Ref {
	r.Column = clamp(r.Column+colDelta, MaxColumns)
	r.Row = clamp(r.Row+rowDelta, MaxRows)
	return r
}

// Absolute returns r with both axes marked absolute.
func (r Ref) Absolute() Ref {
	r.ColumnAbsolute = true
	r.RowAbsolute = true
	return r
}

// Relative returns r with both markers cleared.
func (r Ref) Relative() Ref {
	r.ColumnAbsolute = false
	r.RowAbsolute = false
	return r
}

func clamp(v, max int) int {
	if v < 1 {
		return 1
	}
	if v > max {
		return max
	}
	return v
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
