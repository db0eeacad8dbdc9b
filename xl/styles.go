package xl

import (
	"bytes"
	"strconv"

	"github.com/adnsv/srw/xml"
)

// builtinNumFmts maps format codes that have a predefined numFmtId.
var builtinNumFmts = map[string]int{
	"":            0,
	"General":     0,
	"0":           1,
	"0.00":        2,
	"#,##0":       3,
	"#,##0.00":    4,
	"0%":          9,
	"0.00%":       10,
	"0.00E+00":    11,
	"# ?/?":       12,
	"# ??/??":     13,
	"mm-dd-yy":    14,
	"d-mmm-yy":    15,
	"d-mmm":       16,
	"mmm-yy":      17,
	"h:mm AM/PM":  18,
	"h:mm":        20,
	"h:mm:ss":     21,
	"m/d/yy h:mm": 22,
	"@":           49,
}

const firstCustomNumFmt = 164

// styleParts splits registered cell styles into the deduplicated font,
// fill, border and number format tables of styles.xml.
type styleParts struct {
	fonts   []Font
	fills   []Fill
	borders []Border
	numFmts []string

	fontMap   map[Font]int
	fillMap   map[Fill]int
	borderMap map[Border]int
	numFmtMap map[string]int
}

type xfInfo struct {
	font, fill, border, numFmt int
	style                      *Style
}

func newStyleParts() *styleParts {
	p := &styleParts{
		fontMap:   map[Font]int{},
		fillMap:   map[Fill]int{},
		borderMap: map[Border]int{},
		numFmtMap: map[string]int{},
	}
	p.font(Font{})
	p.fill(Fill{})
	p.fill(Fill{Pattern: "gray125"}) // required second entry
	p.border(Border{})
	return p
}

func (p *styleParts) font(f Font) int {
	if i, ok := p.fontMap[f]; ok {
		return i
	}
	p.fontMap[f] = len(p.fonts)
	p.fonts = append(p.fonts, f)
	return len(p.fonts) - 1
}

func (p *styleParts) fill(f Fill) int {
	if i, ok := p.fillMap[f]; ok {
		return i
	}
	p.fillMap[f] = len(p.fills)
	p.fills = append(p.fills, f)
	return len(p.fills) - 1
}

func (p *styleParts) border(b Border) int {
	if i, ok := p.borderMap[b]; ok {
		return i
	}
	p.borderMap[b] = len(p.borders)
	p.borders = append(p.borders, b)
	return len(p.borders) - 1
}

func (p *styleParts) numFmt(code string) int {
	if id, ok := builtinNumFmts[code]; ok {
		return id
	}
	if id, ok := p.numFmtMap[code]; ok {
		return id
	}
	id := firstCustomNumFmt + len(p.numFmts)
	p.numFmtMap[code] = id
	p.numFmts = append(p.numFmts, code)
	return id
}

func (w *Writer) writeStyles() error {
	_, rid := w.nextWorkbookID()

	relpath := "styles.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
		Target: relpath,
	}

	parts := newStyleParts()
	xfs := make([]xfInfo, len(w.styles))
	for i, s := range w.styles {
		xfs[i] = xfInfo{
			font:   parts.font(s.Font),
			fill:   parts.fill(s.Fill),
			border: parts.border(s.Border),
			numFmt: parts.numFmt(s.NumberFormat),
			style:  s,
		}
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("styleSheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if len(parts.numFmts) > 0 {
		x.OTag("+numFmts").Attr("count", len(parts.numFmts))
		for i, code := range parts.numFmts {
			x.OTag("+numFmt").Attr("numFmtId", firstCustomNumFmt+i).Attr("formatCode", code).CTag()
		}
		x.CTag()
	}

	x.OTag("+fonts").Attr("count", len(parts.fonts))
	for _, f := range parts.fonts {
		writeFont(x, f)
	}
	x.CTag()

	x.OTag("+fills").Attr("count", len(parts.fills))
	for _, f := range parts.fills {
		x.OTag("+fill")
		pattern := f.Pattern
		if pattern == "" {
			pattern = "none"
		}
		x.OTag("patternFill").Attr("patternType", pattern)
		if f.Color != "" {
			x.OTag("fgColor").Attr("rgb", argb(f.Color)).CTag()
		}
		x.CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("+borders").Attr("count", len(parts.borders))
	for _, b := range parts.borders {
		x.OTag("+border")
		x.OTag("left")
		writeBorderEdge(x, b.Left)
		x.CTag()
		x.OTag("right")
		writeBorderEdge(x, b.Right)
		x.CTag()
		x.OTag("top")
		writeBorderEdge(x, b.Top)
		x.CTag()
		x.OTag("bottom")
		writeBorderEdge(x, b.Bottom)
		x.CTag()
		x.OTag("diagonal").CTag()
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyleXfs").Attr("count", 1)
	x.OTag("+xf").Attr("numFmtId", 0).Attr("fontId", 0).Attr("fillId", 0).Attr("borderId", 0).CTag()
	x.CTag()

	x.OTag("+cellXfs").Attr("count", len(xfs))
	for _, xf := range xfs {
		x.OTag("+xf")
		x.Attr("numFmtId", xf.numFmt)
		x.Attr("fontId", xf.font)
		x.Attr("fillId", xf.fill)
		x.Attr("borderId", xf.border)
		x.Attr("xfId", 0)
		if xf.numFmt != 0 {
			x.Attr("applyNumberFormat", 1)
		}
		if xf.font != 0 {
			x.Attr("applyFont", 1)
		}
		if xf.fill != 0 {
			x.Attr("applyFill", 1)
		}
		if xf.border != 0 {
			x.Attr("applyBorder", 1)
		}
		if a := xf.style.Alignment; a != (Alignment{}) {
			x.Attr("applyAlignment", 1)
			x.OTag("alignment")
			if a.Horizontal != "" {
				x.Attr("horizontal", a.Horizontal)
			}
			if a.Vertical != "" {
				x.Attr("vertical", a.Vertical)
			}
			if a.WrapText {
				x.Attr("wrapText", 1)
			}
			if a.ShrinkToFit {
				x.Attr("shrinkToFit", 1)
			}
			if a.Indent > 0 {
				x.Attr("indent", a.Indent)
			}
			x.CTag()
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+cellStyles").Attr("count", 1)
	x.OTag("+cellStyle").Attr("name", "Normal").Attr("xfId", 0).Attr("builtinId", 0).CTag()
	x.CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func writeFont(x *xml.Writer, f Font) {
	x.OTag("+font")
	if f.Bold {
		x.OTag("b").CTag()
	}
	if f.Italic {
		x.OTag("i").CTag()
	}
	if f.Strikethrough {
		x.OTag("strike").CTag()
	}
	if f.Underline != UnderlineNone {
		x.OTag("u").Attr("val", string(f.Underline)).CTag()
	}
	size := f.Size
	if size == 0 {
		size = 11
	}
	x.OTag("sz").Attr("val", strconv.FormatFloat(size, 'g', -1, 64)).CTag()
	if f.Color != "" {
		x.OTag("color").Attr("rgb", argb(f.Color)).CTag()
	}
	name := f.Name
	if name == "" {
		name = "Calibri"
	}
	x.OTag("name").Attr("val", name).CTag()
	x.CTag()
}

func writeBorderEdge(x *xml.Writer, e BorderEdge) {
	if e.Style == "" {
		return
	}
	x.Attr("style", e.Style)
	if e.Color != "" {
		x.OTag("color").Attr("rgb", argb(e.Color)).CTag()
	}
}

// argb expands "RRGGBB" or "#RRGGBB" to the opaque "FFRRGGBB" form.
func argb(c string) string {
	if len(c) > 0 && c[0] == '#' {
		c = c[1:]
	}
	if len(c) == 6 {
		return "FF" + c
	}
	return c
}

// NumberFormatID returns the predefined numFmtId for a format code.
func NumberFormatID(code string) (int, bool) {
	id, ok := builtinNumFmts[code]
	return id, ok
}

// BuiltinNumberFormat returns the format code of a predefined numFmtId.
func BuiltinNumberFormat(id int) (string, bool) {
	if id == 0 {
		return "", true
	}
	for code, n := range builtinNumFmts {
		if n == id && code != "" && code != "General" {
			return code, true
		}
	}
	return "", false
}
