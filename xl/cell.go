package xl

import (
	"fmt"
	"strconv"
	"time"
)

type Cell struct {
	Style *Style

	row          *Row
	columnNumber int // 1-based
	coord        string
	typ          CellType
	v            string
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBool
	CellTypeDate
	CellTypeError
	CellTypeFormula
	CellTypeInlineString
	CellTypeNumber
	CellTypeSharedString
)

func (c *Cell) Address() string {
	return c.coord
}

func (c *Cell) Type() CellType {
	return c.typ
}

func (c *Cell) Clear() {
	c.typ = CellTypeUnset
	c.v = ""
}

func (c *Cell) SetBool(v bool) {
	c.typ = CellTypeBool
	if v {
		c.v = "1"
	} else {
		c.v = "0"
	}
}

func (c *Cell) SetInt(v int64) {
	c.typ = CellTypeNumber
	c.v = strconv.FormatInt(v, 10)
}

func (c *Cell) SetFloat(v float64) {
	c.typ = CellTypeNumber
	c.v = strconv.FormatFloat(v, 'g', -1, 64)
}

func (c *Cell) SetStr(v string) {
	c.typ = CellTypeSharedString
	c.v = v
}

// SetDate stores t as a 1900-system serial number.
func (c *Cell) SetDate(t time.Time) {
	c.typ = CellTypeDate
	c.v = strconv.FormatFloat(dateSerial(t), 'g', -1, 64)
}

// SetFormula stores a formula body without the leading '='.
func (c *Cell) SetFormula(body string) {
	c.typ = CellTypeFormula
	c.v = body
}

// Formula returns the formula body, or "" for a value cell.
func (c *Cell) Formula() string {
	if c.typ != CellTypeFormula {
		return ""
	}
	return c.v
}

// SetValue stores a Go value with the matching cell type. nil clears the
// cell.
func (c *Cell) SetValue(v any) error {
	switch v := v.(type) {
	case nil:
		c.Clear()
	case bool:
		c.SetBool(v)
	case int:
		c.SetInt(int64(v))
	case int8:
		c.SetInt(int64(v))
	case int16:
		c.SetInt(int64(v))
	case int32:
		c.SetInt(int64(v))
	case int64:
		c.SetInt(v)
	case uint8:
		c.SetInt(int64(v))
	case uint16:
		c.SetInt(int64(v))
	case uint32:
		c.SetInt(int64(v))
	case float32:
		c.SetFloat(float64(v))
	case float64:
		c.SetFloat(v)
	case string:
		c.SetStr(v)
	case time.Time:
		c.SetDate(v)
	default:
		return fmt.Errorf("cell %s: unsupported value type %T", c.coord, v)
	}
	return nil
}

// Value returns the stored value: bool, float64 for numbers and dates,
// string, or nil for empty and formula cells.
func (c *Cell) Value() any {
	switch c.typ {
	case CellTypeBool:
		return c.v == "1"
	case CellTypeNumber, CellTypeDate:
		f, err := strconv.ParseFloat(c.v, 64)
		if err != nil {
			return c.v
		}
		return f
	case CellTypeSharedString, CellTypeInlineString, CellTypeError:
		return c.v
	}
	return nil
}

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func dateSerial(t time.Time) float64 {
	return t.Sub(excelEpoch).Hours() / 24
}
