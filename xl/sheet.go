package xl

import (
	"slices"

	"github.com/adnsv/go-xlformula/coord"
)

type Sheet struct {
	Name    string
	Columns map[int]*Column // 1-based

	workbook *Workbook
	rows     map[int]*Row // 1-based
	lastRow  int
}

type Column struct {
	Width float32
}

// AddRow appends a row below the last existing one.
func (s *Sheet) AddRow() *Row {
	return s.Row(s.lastRow + 1)
}

// Row returns the row with a 1-based number, creating it when missing.
func (s *Sheet) Row(n int) *Row {
	if r, ok := s.rows[n]; ok {
		return r
	}
	r := &Row{
		sheet:     s,
		rowNumber: n,
		cells:     map[int]*Cell{},
	}
	s.rows[n] = r
	s.lastRow = max(s.lastRow, n)
	return r
}

// Rows lists the existing rows top to bottom.
func (s *Sheet) Rows() []*Row {
	nums := make([]int, 0, len(s.rows))
	for n := range s.rows {
		nums = append(nums, n)
	}
	slices.Sort(nums)
	rows := make([]*Row, len(nums))
	for i, n := range nums {
		rows[i] = s.rows[n]
	}
	return rows
}

// Cell returns the cell at an A1 address, creating it when missing.
// Absolute markers in the address are ignored.
func (s *Sheet) Cell(address string) (*Cell, error) {
	ref, err := coord.Parse(address)
	if err != nil {
		return nil, err
	}
	return s.Row(ref.Row).Cell(ref.Column), nil
}

// Lookup is Cell without creation: a missing cell is nil.
func (s *Sheet) Lookup(address string) (*Cell, error) {
	ref, err := coord.Parse(address)
	if err != nil {
		return nil, err
	}
	r, ok := s.rows[ref.Row]
	if !ok {
		return nil, nil
	}
	return r.cells[ref.Column], nil
}

func (s *Sheet) SetColumnWidth(colNumber int, w float32) {
	if colNumber <= 0 {
		return
	}
	if w <= 0.0 {
		delete(s.Columns, colNumber)
	} else {
		c, exists := s.Columns[colNumber]
		if !exists {
			c = &Column{
				Width: w,
			}
		} else {
			c.Width = w
		}
		s.Columns[colNumber] = c
	}
}
