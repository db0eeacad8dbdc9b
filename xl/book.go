package xl

// Source is read access to cell content. Missing cells are not an error:
// they read as a nil value, an empty formula and a nil style.
type Source interface {
	CellValue(sheet, address string) (any, error)
	CellFormula(sheet, address string) (string, error)
	CellStyle(sheet, address string) (*Style, error)
	SheetNames() []string
}

// Sink is write access to cells. Formulas are bodies without the leading
// '='. A nil value clears the cell content; a nil style resets it.
type Sink interface {
	SetCellFormula(sheet, address, formula string) error
	SetCellValue(sheet, address string, value any) error
	SetCellStyle(sheet, address string, style *Style) error
	EnsureSheet(sheet string) error
}

var (
	_ Source = (*Workbook)(nil)
	_ Sink   = (*Workbook)(nil)
)

func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, sh := range wb.Sheets {
		names[i] = sh.Name
	}
	return names
}

func (wb *Workbook) CellValue(sheet, address string) (any, error) {
	c, err := wb.lookup(sheet, address)
	if c == nil || err != nil {
		return nil, err
	}
	return c.Value(), nil
}

func (wb *Workbook) CellFormula(sheet, address string) (string, error) {
	c, err := wb.lookup(sheet, address)
	if c == nil || err != nil {
		return "", err
	}
	return c.Formula(), nil
}

func (wb *Workbook) CellStyle(sheet, address string) (*Style, error) {
	c, err := wb.lookup(sheet, address)
	if c == nil || err != nil {
		return nil, err
	}
	return c.Style, nil
}

// EnsureSheet adds the sheet when it does not exist yet.
func (wb *Workbook) EnsureSheet(sheet string) error {
	if _, exists := wb.sheetMap[sheet]; exists {
		return nil
	}
	_, err := wb.AddSheet(sheet)
	return err
}

func (wb *Workbook) SetCellFormula(sheet, address, formula string) error {
	c, err := wb.cell(sheet, address)
	if err != nil {
		return err
	}
	c.SetFormula(formula)
	return nil
}

func (wb *Workbook) SetCellValue(sheet, address string, value any) error {
	c, err := wb.cell(sheet, address)
	if err != nil {
		return err
	}
	return c.SetValue(value)
}

func (wb *Workbook) SetCellStyle(sheet, address string, style *Style) error {
	c, err := wb.cell(sheet, address)
	if err != nil {
		return err
	}
	c.Style = style
	return nil
}

func (wb *Workbook) lookup(sheet, address string) (*Cell, error) {
	sh, err := wb.mustSheet(sheet)
	if err != nil {
		return nil, err
	}
	return sh.Lookup(address)
}

func (wb *Workbook) cell(sheet, address string) (*Cell, error) {
	sh, err := wb.mustSheet(sheet)
	if err != nil {
		return nil, err
	}
	return sh.Cell(address)
}
