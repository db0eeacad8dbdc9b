// Package fill copies cells the way a spreadsheet fill handle does: values
// verbatim, formulas with their relative references moved along.
package fill

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/adnsv/go-xlformula/coord"
	"github.com/adnsv/go-xlformula/formula"
	"github.com/adnsv/go-xlformula/xl"
)

var (
	ErrShapeMismatch  = errors.New("shape mismatch")
	ErrInvalidRequest = errors.New("invalid fill request")
)

// Request copies Source on SourceSheet into Target on TargetSheet. An empty
// TargetSheet means the source sheet. A single-cell Target expands to the
// source shape; a single-cell Source broadcasts into any Target.
type Request struct {
	SourceSheet string
	TargetSheet string
	Source      coord.Range
	Target      coord.Range
	CopyStyle   bool
}

// NewRequest parses "F5", "A1:B2" style addresses on one sheet.
func NewRequest(sheet, source, target string, copyStyle bool) (Request, error) {
	src, err := coord.ParseRange(source)
	if err != nil {
		return Request{}, fmt.Errorf("%w: source: %w", ErrInvalidRequest, err)
	}
	dst, err := coord.ParseRange(target)
	if err != nil {
		return Request{}, fmt.Errorf("%w: target: %w", ErrInvalidRequest, err)
	}
	return Request{SourceSheet: sheet, Source: src, Target: dst, CopyStyle: copyStyle}, nil
}

func (r Request) targetSheet() string {
	if r.TargetSheet == "" {
		return r.SourceSheet
	}
	return r.TargetSheet
}

type Filler struct {
	src    xl.Source
	sink   xl.Sink
	rw     formula.Rewriter
	styles *StyleCache
	log    *zap.Logger
}

type Option func(*Filler)

func WithLogger(l *zap.Logger) Option {
	return func(f *Filler) {
		if l != nil {
			f.log = l
		}
	}
}

// WithRewriter sets the rewriter used for formula cells, e.g. one with a
// diagnostics callback.
func WithRewriter(rw formula.Rewriter) Option {
	return func(f *Filler) { f.rw = rw }
}

// WithStyleCache shares a cache between fillers.
func WithStyleCache(c *StyleCache) Option {
	return func(f *Filler) {
		if c != nil {
			f.styles = c
		}
	}
}

func New(src xl.Source, sink xl.Sink, opts ...Option) *Filler {
	f := &Filler{
		src:    src,
		sink:   sink,
		styles: NewStyleCache(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ClearStyleCache drops every cached style.
func (f *Filler) ClearStyleCache() {
	f.styles.Clear()
}

func (f *Filler) StyleCache() *StyleCache {
	return f.styles
}

type sourceCell struct {
	row, col int
	value    any
	formula  string
	style    *xl.Style
}

// Autofill performs req. The whole source block is read before anything is
// written, so overlapping source and target behave like a copy.
func (f *Filler) Autofill(req Request) error {
	if req.SourceSheet == "" {
		return fmt.Errorf("%w: no source sheet", ErrInvalidRequest)
	}
	srcTop, srcLeft, srcBottom, srcRight := req.Source.Bounds()
	rows := srcBottom - srcTop + 1
	cols := srcRight - srcLeft + 1

	dstTop, dstLeft, dstBottom, dstRight := req.Target.Bounds()
	if req.Target.IsCell() {
		dstBottom = min(dstTop+rows-1, coord.MaxRows)
		dstRight = min(dstLeft+cols-1, coord.MaxColumns)
	}
	dstRows := dstBottom - dstTop + 1
	dstCols := dstRight - dstLeft + 1

	broadcast := rows == 1 && cols == 1
	if !broadcast && (dstRows != rows || dstCols != cols) {
		return fmt.Errorf("%w: source %s is %dx%d, target %s is %dx%d",
			ErrShapeMismatch, req.Source, rows, cols, req.Target, dstRows, dstCols)
	}

	block := make([]sourceCell, 0, rows*cols)
	for r := srcTop; r <= srcBottom; r++ {
		for c := srcLeft; c <= srcRight; c++ {
			sc, err := f.read(req.SourceSheet, r, c, req.CopyStyle)
			if err != nil {
				return err
			}
			block = append(block, sc)
		}
	}

	sheet := req.targetSheet()
	if err := f.sink.EnsureSheet(sheet); err != nil {
		return err
	}
	for r := dstTop; r <= dstBottom; r++ {
		for c := dstLeft; c <= dstRight; c++ {
			sc := block[((r-dstTop)%rows)*cols+(c-dstLeft)%cols]
			if err := f.write(sheet, r, c, sc, req.CopyStyle); err != nil {
				return err
			}
		}
	}

	f.log.Debug("autofill",
		zap.String("sheet", req.SourceSheet),
		zap.Stringer("source", req.Source),
		zap.String("target_sheet", sheet),
		zap.Stringer("target", req.Target),
		zap.Int("cells", dstRows*dstCols),
		zap.Bool("broadcast", broadcast))
	return nil
}

func (f *Filler) read(sheet string, row, col int, withStyle bool) (sourceCell, error) {
	addr := coord.CellName(col, row)
	sc := sourceCell{row: row, col: col}
	var err error
	if sc.formula, err = f.src.CellFormula(sheet, addr); err != nil {
		return sc, fmt.Errorf("read %s!%s: %w", coord.QuoteSheetName(sheet), addr, err)
	}
	sc.formula = strings.TrimPrefix(sc.formula, "=")
	if sc.formula == "" {
		if sc.value, err = f.src.CellValue(sheet, addr); err != nil {
			return sc, fmt.Errorf("read %s!%s: %w", coord.QuoteSheetName(sheet), addr, err)
		}
	}
	if withStyle {
		if sc.style, err = f.src.CellStyle(sheet, addr); err != nil {
			return sc, fmt.Errorf("read %s!%s: %w", coord.QuoteSheetName(sheet), addr, err)
		}
	}
	return sc, nil
}

func (f *Filler) write(sheet string, row, col int, sc sourceCell, withStyle bool) error {
	addr := coord.CellName(col, row)
	var err error
	if sc.formula != "" {
		shift := coord.Shift{RowDelta: row - sc.row, ColDelta: col - sc.col}
		err = f.sink.SetCellFormula(sheet, addr, f.rw.Rewrite(sc.formula, shift))
	} else {
		err = f.sink.SetCellValue(sheet, addr, sc.value)
	}
	if err == nil && withStyle {
		err = f.sink.SetCellStyle(sheet, addr, f.styles.Canonical(sc.style))
	}
	if err != nil {
		return fmt.Errorf("write %s!%s: %w", coord.QuoteSheetName(sheet), addr, err)
	}
	return nil
}
