package xl

import (
	"slices"

	"github.com/adnsv/go-xlformula/coord"
)

type Row struct {
	Height float32 // when Height=0, use default

	sheet      *Sheet
	rowNumber  int // 1-based
	cells      map[int]*Cell
	lastColumn int
}

func (r *Row) Number() int {
	return r.rowNumber
}

// AddCell appends a cell after the rightmost existing one.
func (r *Row) AddCell() *Cell {
	return r.Cell(r.lastColumn + 1)
}

// Cell returns the cell at a 1-based column, creating it when missing.
func (r *Row) Cell(col int) *Cell {
	if c, ok := r.cells[col]; ok {
		return c
	}
	c := &Cell{
		row:          r,
		columnNumber: col,
		coord:        coord.CellName(col, r.rowNumber),
	}
	r.cells[col] = c
	r.lastColumn = max(r.lastColumn, col)
	return c
}

func (r *Row) Cells() []*Cell {
	cols := make([]int, 0, len(r.cells))
	for n := range r.cells {
		cols = append(cols, n)
	}
	slices.Sort(cols)
	cells := make([]*Cell, len(cols))
	for i, n := range cols {
		cells[i] = r.cells[n]
	}
	return cells
}
