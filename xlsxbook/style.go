package xlsxbook

import (
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/adnsv/go-xlformula/xl"
)

// Index order follows excelize's numeric border and pattern codes.
var (
	borderStyles = []string{
		"", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
		"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot",
		"mediumDashDotDot", "slantDashDot",
	}
	fillPatterns = []string{
		"", "solid", "mediumGray", "darkGray", "lightGray", "darkHorizontal",
		"darkVertical", "darkDown", "darkUp", "darkGrid", "darkTrellis",
		"lightHorizontal", "lightVertical", "lightDown", "lightUp", "lightGrid",
		"lightTrellis", "gray125", "gray0625",
	}
)

func toExcelize(s *xl.Style) *excelize.Style {
	es := &excelize.Style{}
	if !s.Font.IsDefault() {
		es.Font = &excelize.Font{
			Bold:      s.Font.Bold,
			Italic:    s.Font.Italic,
			Underline: string(s.Font.Underline),
			Family:    s.Font.Name,
			Size:      s.Font.Size,
			Strike:    s.Font.Strikethrough,
			Color:     s.Font.Color,
		}
	}
	if p := slices.Index(fillPatterns, s.Fill.Pattern); p > 0 {
		es.Fill = excelize.Fill{Type: "pattern", Pattern: p}
		if s.Fill.Color != "" {
			es.Fill.Color = []string{s.Fill.Color}
		}
	}
	for _, e := range []struct {
		typ  string
		edge xl.BorderEdge
	}{
		{"left", s.Border.Left},
		{"right", s.Border.Right},
		{"top", s.Border.Top},
		{"bottom", s.Border.Bottom},
	} {
		if n := slices.Index(borderStyles, e.edge.Style); n > 0 {
			es.Border = append(es.Border, excelize.Border{Type: e.typ, Color: e.edge.Color, Style: n})
		}
	}
	if s.Alignment != (xl.Alignment{}) {
		es.Alignment = &excelize.Alignment{
			Horizontal:  s.Alignment.Horizontal,
			Vertical:    s.Alignment.Vertical,
			WrapText:    s.Alignment.WrapText,
			ShrinkToFit: s.Alignment.ShrinkToFit,
			Indent:      s.Alignment.Indent,
		}
	}
	if s.NumberFormat != "" {
		if id, ok := xl.NumberFormatID(s.NumberFormat); ok {
			es.NumFmt = id
		} else {
			code := s.NumberFormat
			es.CustomNumFmt = &code
		}
	}
	return es
}

func fromExcelize(es *excelize.Style) *xl.Style {
	s := &xl.Style{}
	if f := es.Font; f != nil {
		s.Font = xl.Font{
			Name:          f.Family,
			Size:          f.Size,
			Bold:          f.Bold,
			Italic:        f.Italic,
			Underline:     xl.UnderlineType(f.Underline),
			Strikethrough: f.Strike,
			Color:         rgb(f.Color),
		}
	}
	if p := es.Fill.Pattern; es.Fill.Type == "pattern" && p > 0 && p < len(fillPatterns) {
		s.Fill.Pattern = fillPatterns[p]
		if len(es.Fill.Color) > 0 {
			s.Fill.Color = rgb(es.Fill.Color[0])
		}
	}
	for _, b := range es.Border {
		if b.Style <= 0 || b.Style >= len(borderStyles) {
			continue
		}
		edge := xl.BorderEdge{Style: borderStyles[b.Style], Color: rgb(b.Color)}
		switch b.Type {
		case "left":
			s.Border.Left = edge
		case "right":
			s.Border.Right = edge
		case "top":
			s.Border.Top = edge
		case "bottom":
			s.Border.Bottom = edge
		}
	}
	if a := es.Alignment; a != nil {
		s.Alignment = xl.Alignment{
			Horizontal:  a.Horizontal,
			Vertical:    a.Vertical,
			WrapText:    a.WrapText,
			ShrinkToFit: a.ShrinkToFit,
			Indent:      a.Indent,
		}
	}
	switch {
	case es.CustomNumFmt != nil:
		s.NumberFormat = *es.CustomNumFmt
	case es.NumFmt != 0:
		s.NumberFormat, _ = xl.BuiltinNumberFormat(es.NumFmt)
	}
	return s
}

// rgb normalizes "#RRGGBB" and "AARRGGBB" to upper-case "RRGGBB".
func rgb(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
