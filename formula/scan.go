package formula

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/adnsv/go-xlformula/coord"
)

// TokenKind classifies a span of formula text.
type TokenKind int

const (
	TokenText      TokenKind = iota // operators, functions, numbers, names, whitespace
	TokenString                     // double-quoted literal, quotes included
	TokenReference                  // cell or range, optionally sheet-qualified
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenString:
		return "string"
	case TokenReference:
		return "reference"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a span of a formula body. Start and End are byte offsets, so
// body[Start:End] == Text.
type Token struct {
	Kind  TokenKind
	Text  string
	Start int
	End   int

	// reference tokens only
	Sheet     string // unquoted qualifier name
	Qualifier string // qualifier as written, without the '!'
	Quoted    bool
	Range     coord.Range
}

// Qualified reports whether the reference carried a Sheet! prefix.
func (t Token) Qualified() bool {
	return t.Qualifier != ""
}

// SheetRange converts a reference token to its value form.
func (t Token) SheetRange() coord.SheetRange {
	return coord.SheetRange{Sheet: t.Sheet, Range: t.Range}
}

// Diagnostic describes a cell-like span that could not be read as a valid
// reference and was passed through unchanged.
type Diagnostic struct {
	Token  string
	Offset int
	Err    error
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("offset %d: %q: %v", d.Offset, d.Token, d.Err)
}

// Tokenize splits body (a formula without its leading '=') into text,
// string and reference tokens. Concatenating the token texts yields body.
func Tokenize(body string) []Token {
	return scan(body, nil)
}

type scanner struct {
	src    string
	pos    int
	text   int // start of the pending text run
	tokens []Token
	diag   func(Diagnostic)
}

func scan(body string, diag func(Diagnostic)) []Token {
	s := &scanner{src: body, diag: diag}
	for s.pos < len(s.src) {
		ch, size := utf8.DecodeRuneInString(s.src[s.pos:])
		switch {
		case ch == '"':
			s.scanString()
		case ch == '\'':
			if !s.scanQuotedQualifier() {
				s.pos += size
			}
		case isDigit(ch) || (ch == '.' && isDigit(s.peekRune(1))):
			s.scanNumber()
		case isIdentStart(ch):
			s.scanIdentifier()
		default:
			s.pos += size
		}
	}
	s.flushText(len(s.src))
	return s.tokens
}

func (s *scanner) peekRune(offset int) rune {
	p := s.pos + offset
	if p >= len(s.src) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(s.src[p:])
	return ch
}

func (s *scanner) flushText(end int) {
	if end > s.text {
		s.tokens = append(s.tokens, Token{Kind: TokenText, Text: s.src[s.text:end], Start: s.text, End: end})
	}
	s.text = end
}

func (s *scanner) emit(tok Token) {
	s.flushText(tok.Start)
	s.tokens = append(s.tokens, tok)
	s.text = tok.End
	s.pos = tok.End
}

func (s *scanner) report(token string, offset int, err error) {
	if s.diag != nil {
		s.diag(Diagnostic{Token: token, Offset: offset, Err: err})
	}
}

// scanString consumes a double-quoted literal with "" escapes. An
// unterminated literal extends to the end of the body.
func (s *scanner) scanString() {
	start := s.pos
	i := s.pos + 1
	for i < len(s.src) {
		if s.src[i] == '"' {
			if i+1 < len(s.src) && s.src[i+1] == '"' {
				i += 2
				continue
			}
			i++
			s.emit(Token{Kind: TokenString, Text: s.src[start:i], Start: start, End: i})
			return
		}
		i++
	}
	s.emit(Token{Kind: TokenString, Text: s.src[start:], Start: start, End: len(s.src)})
}

// scanNumber consumes digits with an optional fraction and exponent so that
// "1E3" is never read as cell E3.
func (s *scanner) scanNumber() {
	i := s.pos
	for i < len(s.src) && isDigit(rune(s.src[i])) {
		i++
	}
	if i < len(s.src) && s.src[i] == '.' {
		i++
		for i < len(s.src) && isDigit(rune(s.src[i])) {
			i++
		}
	}
	if i < len(s.src) && (s.src[i] == 'e' || s.src[i] == 'E') {
		j := i + 1
		if j < len(s.src) && (s.src[j] == '+' || s.src[j] == '-') {
			j++
		}
		if j < len(s.src) && isDigit(rune(s.src[j])) {
			for j < len(s.src) && isDigit(rune(s.src[j])) {
				j++
			}
			i = j
		}
	}
	s.pos = i
}

// scanQuotedQualifier handles 'sheet name'!ref. It reports false when the
// quote does not open a qualified reference.
func (s *scanner) scanQuotedQualifier() bool {
	start := s.pos
	i := s.pos + 1
	for {
		if i >= len(s.src) {
			return false
		}
		if s.src[i] == '\'' {
			if i+1 < len(s.src) && s.src[i+1] == '\'' {
				i += 2
				continue
			}
			break
		}
		i++
	}
	qualifier := s.src[start : i+1]
	if i+1 >= len(s.src) || s.src[i+1] != '!' {
		s.pos = i + 1
		return true
	}
	sheet, err := coord.UnquoteSheetName(qualifier)
	if err != nil {
		s.pos = i + 2
		return true
	}
	s.scanQualifiedRef(start, i+2, qualifier, sheet, true)
	return true
}

// scanIdentifier consumes a maximal name run and decides between a sheet
// qualifier, a function name, a cell or range reference, or plain text.
func (s *scanner) scanIdentifier() {
	start := s.pos
	end := s.identEnd(start)
	run := s.src[start:end]

	if end < len(s.src) {
		switch s.src[end] {
		case '!':
			s.scanQualifiedRef(start, end+1, run, run, false)
			return
		case '(':
			s.pos = end
			return
		}
	}

	if !cellShaped(run) {
		s.pos = end
		return
	}
	ref, err := coord.Parse(run)
	if err != nil {
		s.report(run, start, err)
		s.pos = end
		return
	}
	rng, rangeEnd, err := s.scanRangeTail(ref, end)
	if err != nil {
		s.report(s.src[start:rangeEnd], start, err)
		s.pos = rangeEnd
		return
	}
	s.emit(Token{Kind: TokenReference, Text: s.src[start:rangeEnd], Start: start, End: rangeEnd, Range: rng})
}

// scanQualifiedRef reads the reference after "qualifier!". Anything that
// is not a reference leaves the qualifier in the text stream.
func (s *scanner) scanQualifiedRef(start, refStart int, qualifier, sheet string, quoted bool) {
	end := s.identEnd(refStart)
	run := s.src[refStart:end]
	if !cellShaped(run) || (end < len(s.src) && s.src[end] == '(') {
		s.pos = refStart
		return
	}
	ref, err := coord.Parse(run)
	if err != nil {
		s.report(s.src[start:end], start, err)
		s.pos = end
		return
	}
	rng, rangeEnd, err := s.scanRangeTail(ref, end)
	if err != nil {
		s.report(s.src[start:rangeEnd], start, err)
		s.pos = rangeEnd
		return
	}
	s.emit(Token{
		Kind:      TokenReference,
		Text:      s.src[start:rangeEnd],
		Start:     start,
		End:       rangeEnd,
		Sheet:     sheet,
		Qualifier: qualifier,
		Quoted:    quoted,
		Range:     rng,
	})
}

// scanRangeTail extends a parsed corner with ":corner" when present. A
// cell-shaped second corner that fails to parse invalidates the whole range.
func (s *scanner) scanRangeTail(first coord.Ref, end int) (coord.Range, int, error) {
	if end >= len(s.src) || s.src[end] != ':' {
		return coord.CellRange(first), end, nil
	}
	tailEnd := s.identEnd(end + 1)
	run := s.src[end+1 : tailEnd]
	if !cellShaped(run) || (tailEnd < len(s.src) && (s.src[tailEnd] == '!' || s.src[tailEnd] == '(')) {
		return coord.CellRange(first), end, nil
	}
	second, err := coord.Parse(run)
	if err != nil {
		return coord.Range{}, tailEnd, err
	}
	return coord.Range{Start: first, End: second}, tailEnd, nil
}

func (s *scanner) identEnd(i int) int {
	for i < len(s.src) {
		ch, size := utf8.DecodeRuneInString(s.src[i:])
		if !isIdentPart(ch) {
			break
		}
		i += size
	}
	return i
}

// cellShaped matches [$]?[A-Za-z]{1,3}[$]?[0-9]+ against the whole run.
// Runs of this shape that fail to parse are reported as diagnostics.
func cellShaped(run string) bool {
	i := 0
	if i < len(run) && run[i] == '$' {
		i++
	}
	letters := i
	for i < len(run) && isASCIILetter(run[i]) {
		i++
	}
	if n := i - letters; n < 1 || n > 3 {
		return false
	}
	if i < len(run) && run[i] == '$' {
		i++
	}
	digits := i
	for i < len(run) && run[i] >= '0' && run[i] <= '9' {
		i++
	}
	return i > digits && i == len(run)
}

func isASCIILetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch rune) bool {
	if ch < utf8.RuneSelf {
		return isASCIILetter(byte(ch)) || ch == '_' || ch == '$' || ch == '\\'
	}
	return unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	if ch < utf8.RuneSelf {
		return isASCIILetter(byte(ch)) || isDigit(ch) || ch == '_' || ch == '.' || ch == '$' || ch == '\\'
	}
	return unicode.IsLetter(ch) || unicode.IsDigit(ch)
}
