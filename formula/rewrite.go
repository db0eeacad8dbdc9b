package formula

import (
	"strings"

	"github.com/adnsv/go-xlformula/coord"
)

// Rewriter shifts and renames references inside formula bodies. The zero
// value is ready to use. A Rewriter holds no state between calls.
type Rewriter struct {
	// Diagnostics, when set, receives every cell-like span that was passed
	// through unchanged because it is not a valid reference.
	Diagnostics func(Diagnostic)

	// QuoteAll re-emits every sheet qualifier in quoted form, even when the
	// name does not require it.
	QuoteAll bool
}

// Rewrite shifts every reference in body (no leading '=') by s with the
// default Rewriter.
func Rewrite(body string, s coord.Shift) string {
	var rw Rewriter
	return rw.Rewrite(body, s)
}

// Rewrite returns body with each reference shifted by s. Absolute axes stay
// put, results clamp to the worksheet limits, and spans that do not parse
// are copied verbatim. References that do not move keep their original
// spelling; only a bare sheet name that needs quotes is rewritten, so a zero
// shift returns body unchanged once its qualifiers are quoted as required.
func (rw *Rewriter) Rewrite(body string, s coord.Shift) string {
	tokens := scan(body, rw.Diagnostics)
	var sb strings.Builder
	sb.Grow(len(body))
	for _, tok := range tokens {
		if tok.Kind != TokenReference {
			sb.WriteString(tok.Text)
			continue
		}
		sb.WriteString(rw.qualifier(tok))
		shifted := tok.Range.Shift(s)
		if shifted == tok.Range {
			sb.WriteString(rangeText(tok))
		} else {
			sb.WriteString(shifted.String())
		}
	}
	return sb.String()
}

// RenameSheets replaces sheet qualifiers according to renames (old name to
// new name). Cell parts are left untouched.
func (rw *Rewriter) RenameSheets(body string, renames map[string]string) string {
	tokens := scan(body, rw.Diagnostics)
	var sb strings.Builder
	sb.Grow(len(body))
	for _, tok := range tokens {
		if tok.Kind != TokenReference || !tok.Qualified() {
			sb.WriteString(tok.Text)
			continue
		}
		name, ok := renames[tok.Sheet]
		if !ok {
			sb.WriteString(tok.Text)
			continue
		}
		if rw.QuoteAll {
			sb.WriteString(coord.ForceQuote(name))
		} else {
			sb.WriteString(coord.QuoteSheetName(name))
		}
		sb.WriteByte('!')
		sb.WriteString(rangeText(tok))
	}
	return sb.String()
}

// RenameSheets is Rewriter.RenameSheets with the default Rewriter.
func RenameSheets(body string, renames map[string]string) string {
	var rw Rewriter
	return rw.RenameSheets(body, renames)
}

// qualifier renders "name!" for a qualified token. A name already quoted is
// kept as written; a bare name is quoted only when it has to be.
func (rw *Rewriter) qualifier(tok Token) string {
	switch {
	case !tok.Qualified():
		return ""
	case rw.QuoteAll:
		return coord.ForceQuote(tok.Sheet) + "!"
	case tok.Quoted:
		return tok.Qualifier + "!"
	default:
		return coord.QuoteSheetName(tok.Sheet) + "!"
	}
}

// rangeText is the cell part of a reference token as written.
func rangeText(tok Token) string {
	if !tok.Qualified() {
		return tok.Text
	}
	return tok.Text[len(tok.Qualifier)+1:]
}

// References lists the distinct references in body in order of first
// appearance.
func References(body string) []coord.SheetRange {
	var refs []coord.SheetRange
	seen := map[coord.SheetRange]bool{}
	for _, tok := range scan(body, nil) {
		if tok.Kind != TokenReference {
			continue
		}
		sr := tok.SheetRange()
		if seen[sr] {
			continue
		}
		seen[sr] = true
		refs = append(refs, sr)
	}
	return refs
}
