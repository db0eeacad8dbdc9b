package xl

import (
	"fmt"

	"github.com/google/uuid"
)

// Style is the formatting attached to a cell. A Style is a plain value:
// two styles with equal fields render the same way and share a Key.
type Style struct {
	Font         Font
	Fill         Fill
	Border       Border
	Alignment    Alignment
	NumberFormat string // custom format code, e.g. "0.00%"; empty means General
}

// Font represents font formatting properties for cell content.
// These properties correspond to the OpenXML font element as defined in ECMA-376.
type Font struct {
	Name          string        // Typeface name (empty = use default of Calibri)
	Size          float64       // Font size in points (0 = use default of 11)
	Bold          bool          // Bold text
	Italic        bool          // Italic text
	Underline     UnderlineType // Underline style
	Strikethrough bool          // Strikethrough text
	Color         string        // RGB hex, e.g. "FF0000"
}

// UnderlineType represents the type of underline formatting.
type UnderlineType string

// Underline type constants as defined in ECMA-376 (ST_UnderlineValues).
const (
	UnderlineNone             UnderlineType = ""
	UnderlineSingle           UnderlineType = "single"
	UnderlineDouble           UnderlineType = "double"
	UnderlineSingleAccounting UnderlineType = "singleAccounting"
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting"
)

// IsDefault returns true if the font uses all default properties.
func (f *Font) IsDefault() bool {
	return *f == Font{}
}

// Fill is a pattern fill. Only the foreground color is kept.
type Fill struct {
	Pattern string // ST_PatternType, e.g. "solid"; empty means none
	Color   string // RGB hex
}

type Border struct {
	Left, Right, Top, Bottom BorderEdge
}

type BorderEdge struct {
	Style string // ST_BorderStyle, e.g. "thin"; empty means none
	Color string
}

type Alignment struct {
	Horizontal  string
	Vertical    string
	WrapText    bool
	ShrinkToFit bool
	Indent      int
}

func (s *Style) IsDefault() bool {
	return s == nil || *s == Style{}
}

// Key identifies the style by content.
func (s *Style) Key() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return BlobHash(fmt.Appendf(nil, "%+v", *s))
}
