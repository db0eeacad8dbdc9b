package xl

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/adnsv/srw/xml"
	"github.com/google/uuid"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
)

type Writer struct {
	out            Storage
	lastGlobalId   int
	lastWorkbookId int

	GlobalRels          map[string]RelInfo // maps id to absolute path
	WorkbookRels        map[string]RelInfo // maps id to absolute paths
	DefaultContentTypes map[string]string  // maps path extension to content-type
	PartContentTypes    map[string]string  // maps path partname to content-type

	sharedStrings   []string
	sharedStringMap map[string]int // 0-based index into sharedStrings

	styles   []*Style          // cellXfs, index 0 is the default style
	styleMap map[uuid.UUID]int // maps Style.Key to cellXfs index
}

type RelInfo struct {
	Type   string // url to schema type
	Target string // relative path
}

func NewWriter(s Storage) *Writer {
	w := &Writer{
		out:                 s,
		GlobalRels:          map[string]RelInfo{},
		WorkbookRels:        map[string]RelInfo{},
		DefaultContentTypes: map[string]string{},
		PartContentTypes:    map[string]string{},

		sharedStringMap: map[string]int{},

		styles:   []*Style{{}},
		styleMap: map[uuid.UUID]int{},
	}

	w.DefaultContentTypes["xml"] = "application/xml"
	w.DefaultContentTypes["rels"] = "application/vnd.openxmlformats-package.relationships+xml"

	return w
}

// SaveFile writes wb as an .xlsx archive at path.
func SaveFile(wb *Workbook, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zs := NewZipStorage(f)
	err = NewWriter(zs).Write(wb)
	if cerr := zs.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func (w *Writer) SharedString(s string) int {
	if i, ok := w.sharedStringMap[s]; ok {
		return i
	}
	i := len(w.sharedStrings)
	w.sharedStrings = append(w.sharedStrings, s)
	w.sharedStringMap[s] = i
	return i
}

// StyleIndex returns the cellXfs index for s, registering it on first use.
func (w *Writer) StyleIndex(s *Style) int {
	if s.IsDefault() {
		return 0
	}
	k := s.Key()
	if i, ok := w.styleMap[k]; ok {
		return i
	}
	i := len(w.styles)
	w.styles = append(w.styles, s)
	w.styleMap[k] = i
	return i
}

func (w *Writer) nextGlobalID() (int, string) {
	w.lastGlobalId++
	return w.lastGlobalId, fmt.Sprintf("rId%d", w.lastGlobalId)
}
func (w *Writer) nextWorkbookID() (int, string) {
	w.lastWorkbookId++
	return w.lastWorkbookId, fmt.Sprintf("rId%d", w.lastWorkbookId)
}

func (w *Writer) Write(wb *Workbook) error {
	var err error

	err = w.writeWorkbook(wb)
	if err != nil {
		return err
	}

	err = w.writeStyles()
	if err != nil {
		return err
	}

	err = w.writeCoreProperties()
	if err != nil {
		return err
	}
	err = w.writeExtendedProperties(wb.AppName)
	if err != nil {
		return err
	}

	if len(w.sharedStrings) > 0 {
		err = w.writeSharedStrings()
		if err != nil {
			return err
		}
	}

	err = w.writeRels("/xl/_rels/workbook.xml.rels", w.WorkbookRels)
	if err != nil {
		return err
	}

	err = w.writeRels("/_rels/.rels", w.GlobalRels)
	if err != nil {
		return err
	}

	return w.writeContentTypes()
}

func (w *Writer) writeCoreProperties() error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/core.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-package.core-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("cp:coreProperties")
	x.Attr("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties")
	x.Attr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	x.Attr("xmlns:dcterms", "http://purl.org/dc/terms/")
	x.Attr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	x.Attr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	x.OTag("+dcterms:created")
	x.Attr("xsi:type", "dcterms:W3CDTF")
	x.Write(time.Now().UTC().Format(time.RFC3339))
	x.CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeExtendedProperties(appname string) error {
	_, rid := w.nextGlobalID()

	relpath := "docProps/app.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Properties")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties")
	x.Attr("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes")

	if appname != "" {
		x.OTag("+Application").String(appname).CTag()
	}

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeContentTypes() error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})

	x.XmlStandaloneDecl()
	x.OTag("Types")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")
	enumerate(w.DefaultContentTypes, func(ext, ctype string) error {
		x.OTag("+Default").Attr("Extension", ext).Attr("ContentType", ctype).CTag()
		return nil
	})
	enumerate(w.PartContentTypes, func(abspath, ctype string) error {
		x.OTag("+Override").Attr("PartName", abspath).Attr("ContentType", ctype).CTag()
		return nil
	})

	x.CTag()

	return w.out.WriteBlob("[Content_Types].xml", bb.Bytes())
}

func (w *Writer) writeWorkbook(wb *Workbook) error {
	_, rid := w.nextGlobalID()

	relpath := "xl/workbook.xml"
	abspath := "/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	w.GlobalRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	x.OTag("+sheets")
	for _, sheet := range wb.Sheets {
		sheet_id, sheet_rid := w.nextWorkbookID()
		{
			x.OTag("+sheet")
			x.Attr("name", sheet.Name)
			x.Attr("sheetId", sheet_id)
			x.Attr("r:id", sheet_rid)
			x.CTag()
		}

		err := w.writeSheet(sheet, sheet_id, sheet_rid)
		if err != nil {
			return err
		}
	}
	x.CTag()

	// formulas carry no cached values
	x.OTag("+calcPr").Attr("fullCalcOnLoad", 1).CTag()

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeSheet(sh *Sheet, id int, rid string) error {
	relpath := fmt.Sprintf("worksheets/sheet%d.xml", id)
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("worksheet")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	if len(sh.Columns) > 0 {
		x.OTag("+cols")
		enumerate(sh.Columns, func(n int, v *Column) error {
			x.OTag("+col").Attr("min", n).Attr("max", n)
			if v.Width > 0 {
				x.Attr("width", v.Width).Attr("customWidth", 1)
			}
			x.CTag()
			return nil
		})
		x.CTag()
	}

	x.OTag("+sheetData")
	for _, row := range sh.Rows() {
		x.OTag("+row").Attr("r", row.rowNumber)
		if row.Height > 0 {
			x.Attr("ht", row.Height).Attr("customHeight", 1)
		}

		for _, cell := range row.Cells() {
			if cell.typ == CellTypeUnset && cell.Style.IsDefault() {
				continue
			}
			x.OTag("+c").Attr("r", cell.coord)
			if s := w.StyleIndex(cell.Style); s != 0 {
				x.Attr("s", s)
			}

			switch cell.typ {
			case CellTypeBool:
				x.Attr("t", "b")
				x.OTag("v").Write(cell.v).CTag()
			case CellTypeNumber, CellTypeDate:
				x.Attr("t", "n")
				x.OTag("v").Write(cell.v).CTag()
			case CellTypeError:
				x.Attr("t", "e")
				x.OTag("v").Write(cell.v).CTag()
			case CellTypeSharedString:
				x.Attr("t", "s")
				x.OTag("v").Write(w.SharedString(cell.v)).CTag()
			case CellTypeInlineString:
				x.Attr("t", "inlineStr")
				x.OTag("is")
				x.OTag("t").Write(cell.v).CTag()
				x.CTag()
			case CellTypeFormula:
				x.OTag("f").Write(cell.v).CTag()
			}
			x.CTag() // c
		}

		x.CTag() // row
	}
	x.CTag() // sheetData

	x.CTag() // worksheet

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeSharedStrings() error {
	_, rid := w.nextWorkbookID()

	relpath := "sharedStrings.xml"
	abspath := "/xl/" + relpath

	w.PartContentTypes[abspath] = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	w.WorkbookRels[rid] = RelInfo{
		Type:   "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings",
		Target: relpath,
	}

	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("sst")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("count", len(w.sharedStrings))
	x.Attr("uniqueCount", len(w.sharedStrings))

	for _, s := range w.sharedStrings {
		x.OTag("+si")
		x.OTag("t").Write(s).CTag()
		x.CTag()
	}

	x.CTag()

	return w.out.WriteBlob(abspath, bb.Bytes())
}

func (w *Writer) writeRels(path string, rels map[string]RelInfo) error {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("Relationships")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/package/2006/relationships")
	err := enumerate(rels, func(rid string, info RelInfo) error {
		x.OTag("+Relationship").Attr("Id", rid).Attr("Type", info.Type).Attr("Target", info.Target)
		x.CTag()

		return nil
	})
	if err != nil {
		return err
	}
	x.CTag()

	return w.out.WriteBlob(path, bb.Bytes())
}

func enumerate[M ~map[K]V, K constraints.Ordered, V any](m M, callback func(k K, v V) error) error {
	keys := maps.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		err := callback(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
