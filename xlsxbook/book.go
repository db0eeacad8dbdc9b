// Package xlsxbook exposes an excelize workbook as an xl.Source and xl.Sink.
package xlsxbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/adnsv/go-xlformula/xl"
)

type Book struct {
	f *excelize.File

	styleIDs map[uuid.UUID]int // xl.Style.Key to excelize style id
	styles   map[int]*xl.Style // excelize style id to converted style
}

var (
	_ xl.Source = (*Book)(nil)
	_ xl.Sink   = (*Book)(nil)
)

func New(f *excelize.File) *Book {
	return &Book{
		f:        f,
		styleIDs: map[uuid.UUID]int{},
		styles:   map[int]*xl.Style{},
	}
}

func Open(path string) (*Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	return New(f), nil
}

func (b *Book) File() *excelize.File {
	return b.f
}

func (b *Book) SaveAs(path string) error {
	return b.f.SaveAs(path)
}

func (b *Book) Close() error {
	return b.f.Close()
}

func (b *Book) SheetNames() []string {
	return b.f.GetSheetList()
}

func (b *Book) checkSheet(sheet string) error {
	idx, err := b.f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		return fmt.Errorf("sheet '%s' does not exist", sheet)
	}
	return nil
}

// CellValue returns bool, float64 or string, or nil for an empty cell.
// Formula cells yield their cached result, if any.
func (b *Book) CellValue(sheet, address string) (any, error) {
	if err := b.checkSheet(sheet); err != nil {
		return nil, err
	}
	typ, err := b.f.GetCellType(sheet, address)
	if err != nil {
		return nil, err
	}
	raw, err := b.f.GetCellValue(sheet, address, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return nil, err
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "TRUE"), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return raw, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	return raw, nil
}

func (b *Book) CellFormula(sheet, address string) (string, error) {
	if err := b.checkSheet(sheet); err != nil {
		return "", err
	}
	return b.f.GetCellFormula(sheet, address)
}

func (b *Book) CellStyle(sheet, address string) (*xl.Style, error) {
	if err := b.checkSheet(sheet); err != nil {
		return nil, err
	}
	id, err := b.f.GetCellStyle(sheet, address)
	if err != nil || id == 0 {
		return nil, err
	}
	if s, ok := b.styles[id]; ok {
		return s, nil
	}
	es, err := b.f.GetStyle(id)
	if err != nil {
		return nil, err
	}
	s := fromExcelize(es)
	b.styles[id] = s
	b.styleIDs[s.Key()] = id
	return s, nil
}

func (b *Book) EnsureSheet(sheet string) error {
	idx, err := b.f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx >= 0 {
		return nil
	}
	_, err = b.f.NewSheet(sheet)
	return err
}

func (b *Book) SetCellFormula(sheet, address, formula string) error {
	return b.f.SetCellFormula(sheet, address, strings.TrimPrefix(formula, "="))
}

// SetCellValue replaces any formula in the cell with value. The cell style
// is kept.
func (b *Book) SetCellValue(sheet, address string, value any) error {
	f, err := b.f.GetCellFormula(sheet, address)
	if err != nil {
		return err
	}
	if f != "" {
		if err := b.f.SetCellFormula(sheet, address, ""); err != nil {
			return err
		}
	}
	return b.f.SetCellValue(sheet, address, value)
}

func (b *Book) SetCellStyle(sheet, address string, style *xl.Style) error {
	id := 0
	if !style.IsDefault() {
		var err error
		if id, err = b.styleID(style); err != nil {
			return err
		}
	}
	return b.f.SetCellStyle(sheet, address, address, id)
}

// styleID registers a style once per distinct content.
func (b *Book) styleID(s *xl.Style) (int, error) {
	k := s.Key()
	if id, ok := b.styleIDs[k]; ok {
		return id, nil
	}
	id, err := b.f.NewStyle(toExcelize(s))
	if err != nil {
		return 0, err
	}
	b.styleIDs[k] = id
	b.styles[id] = s
	return id, nil
}
