package bslcheck

import (
	"fmt"
	"strings"
	"unicode"
)

// LexError is a fatal lexical error with the position of the offending input.
type LexError struct {
	Msg  string
	Line int
	Col  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Lexer converts BSL source text into a token stream. A Lexer is single-use:
// construct one per Tokenize call.
type Lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

// NewLexer creates a lexer over the given source text. A leading byte-order
// mark is stripped.
func NewLexer(source string) *Lexer {
	source = strings.TrimPrefix(source, "\uFEFF")
	return &Lexer{src: []rune(source), line: 1, col: 1}
}

// cur returns the current rune, or 0 at end of input.
func (l *Lexer) cur() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek returns the rune at offset from the current position, or 0 past the end.
func (l *Lexer) peek(offset int) rune {
	p := l.pos + offset
	if p >= len(l.src) {
		return 0
	}
	return l.src[p]
}

// advance consumes one rune, tracking line and column.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) skipBlanks() {
	for {
		c := l.cur()
		if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		l.advance()
	}
}

// isCyrillic reports whether c is in the Cyrillic or Cyrillic Supplement
// blocks (U+0400-04FF, U+0500-052F).
func isCyrillic(c rune) bool {
	return (c >= 0x0400 && c <= 0x04FF) || (c >= 0x0500 && c <= 0x052F)
}

func isIdentStart(c rune) bool {
	return c == '_' || isCyrillic(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c rune) bool {
	return isIdentStart(c) || isASCIIDigit(c)
}

func isASCIIDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// Annotation names are letters and digits only; underscore is not part of
// an annotation even though identifiers allow it.
func isAnnotationPart(c rune) bool {
	return c != '_' && isIdentPart(c)
}

// Tokenize scans the whole input and returns the token sequence terminated by
// an EOF token. Comments and newlines are retained so a caller can
// reconstruct formatting; see TokenizeFiltered.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for l.pos < len(l.src) {
		l.skipBlanks()

		c := l.cur()
		if c == 0 {
			break
		}

		switch {
		case c == '\n':
			tokens = append(tokens, Token{NEWLINE, `\n`, l.line, l.col})
			l.advance()

		case c == '/' && l.peek(1) == '/':
			tokens = append(tokens, l.readComment())

		case c == '"':
			tok, err := l.readString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case c == '\'':
			tok, err := l.readDate()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)

		case c == '&':
			tokens = append(tokens, l.readAnnotation())

		case c == '#':
			tokens = append(tokens, l.readPreprocessor())

		case isASCIIDigit(c):
			tokens = append(tokens, l.readNumber())

		case isIdentStart(c):
			tokens = append(tokens, l.readIdentOrKeyword())

		default:
			if tt, ok := delimiters[c]; ok {
				tokens = append(tokens, Token{tt, string(c), l.line, l.col})
				l.advance()
				break
			}
			tok, ok := l.readOperator()
			if !ok {
				return nil, &LexError{fmt.Sprintf("unexpected character: %q", string(c)), l.line, l.col}
			}
			tokens = append(tokens, tok)
		}
	}

	tokens = append(tokens, Token{EOF, "", l.line, l.col})
	return tokens, nil
}

// TokenizeFiltered tokenizes and drops NEWLINE and COMMENT tokens. Useful for
// parsing, where formatting does not matter.
func (l *Lexer) TokenizeFiltered() ([]Token, error) {
	all, err := l.Tokenize()
	if err != nil {
		return nil, err
	}
	filtered := make([]Token, 0, len(all))
	for _, tok := range all {
		if tok.Type == NEWLINE || tok.Type == COMMENT {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered, nil
}

// readString reads a double-quoted string literal. An embedded "" is an
// escaped quote; literal newlines are allowed (multi-line strings). An
// unterminated literal reports the position of the opening quote.
func (l *Lexer) readString() (Token, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote

	var b strings.Builder
	for l.cur() != 0 {
		c := l.cur()
		if c == '"' {
			if l.peek(1) == '"' {
				b.WriteRune('"')
				l.advance()
				l.advance()
				continue
			}
			l.advance() // closing quote
			return Token{STRING, b.String(), startLine, startCol}, nil
		}
		b.WriteRune(c)
		l.advance()
	}

	return Token{}, &LexError{"unterminated string literal", startLine, startCol}
}

// readDate reads a single-quoted date literal such as '20240115'. Only digits
// may appear in the body.
func (l *Lexer) readDate() (Token, error) {
	startLine, startCol := l.line, l.col
	l.advance() // opening quote

	var b strings.Builder
	for l.cur() != 0 {
		c := l.cur()
		if c == '\'' {
			l.advance()
			return Token{DATE, b.String(), startLine, startCol}, nil
		}
		if !isASCIIDigit(c) {
			return Token{}, &LexError{fmt.Sprintf("invalid date literal: unexpected character %q", string(c)), l.line, l.col}
		}
		b.WriteRune(c)
		l.advance()
	}

	return Token{}, &LexError{"unterminated date literal", startLine, startCol}
}

// readNumber reads an integer or decimal literal. A dot is consumed only when
// immediately followed by another digit, so `1.ВСтроку` lexes as NUMBER DOT
// IDENT rather than failing on a malformed decimal.
func (l *Lexer) readNumber() Token {
	startLine, startCol := l.line, l.col

	var b strings.Builder
	hasDot := false
	for {
		c := l.cur()
		if isASCIIDigit(c) {
			b.WriteRune(c)
			l.advance()
			continue
		}
		if c == '.' && !hasDot && isASCIIDigit(l.peek(1)) {
			hasDot = true
			b.WriteRune(c)
			l.advance()
			continue
		}
		break
	}

	return Token{NUMBER, b.String(), startLine, startCol}
}

// readIdentOrKeyword reads an identifier and folds it against the keyword
// table case-insensitively. Keyword tokens keep the original spelling.
func (l *Lexer) readIdentOrKeyword() Token {
	startLine, startCol := l.line, l.col

	var b strings.Builder
	for isIdentPart(l.cur()) {
		b.WriteRune(l.advance())
	}
	lit := b.String()

	if tt, ok := keywords[lowerFold(lit)]; ok {
		return Token{tt, lit, startLine, startCol}
	}
	return Token{IDENT, lit, startLine, startCol}
}

// readComment reads a // comment up to end of line. The token is retained in
// the stream so formatting-aware tooling can round-trip source text.
func (l *Lexer) readComment() Token {
	startLine, startCol := l.line, l.col
	l.advance()
	l.advance()

	var b strings.Builder
	for l.cur() != 0 && l.cur() != '\n' {
		b.WriteRune(l.advance())
	}
	return Token{COMMENT, strings.TrimSpace(b.String()), startLine, startCol}
}

// readAnnotation reads an &-annotation such as &НаСервере.
func (l *Lexer) readAnnotation() Token {
	startLine, startCol := l.line, l.col
	l.advance() // &

	var b strings.Builder
	b.WriteRune('&')
	for {
		c := l.cur()
		if !isAnnotationPart(c) {
			break
		}
		b.WriteRune(l.advance())
	}
	return Token{ANNOTATION, b.String(), startLine, startCol}
}

// readPreprocessor reads an entire #-directive line. Directives can carry
// conditions (#Если Сервер Или ТолстыйКлиент Тогда), so the whole rest of the
// line is the token text. Classification is by case-insensitive prefix;
// unknown directives default to PP_IF.
func (l *Lexer) readPreprocessor() Token {
	startLine, startCol := l.line, l.col

	var b strings.Builder
	for l.cur() != 0 && l.cur() != '\n' {
		b.WriteRune(l.advance())
	}
	text := strings.TrimSpace(b.String())

	tt := PP_IF
	lower := lowerFold(text)
	switch {
	case strings.HasPrefix(lower, "#конецесли"), strings.HasPrefix(lower, "#конецобласти"):
		tt = PP_ENDIF
	case strings.HasPrefix(lower, "#иначе"):
		tt = PP_ELSE
	case strings.HasPrefix(lower, "#если"), strings.HasPrefix(lower, "#область"):
		tt = PP_IF
	}
	return Token{tt, text, startLine, startCol}
}

// readOperator reads an operator, preferring two-character forms.
func (l *Lexer) readOperator() (Token, bool) {
	startLine, startCol := l.line, l.col

	c := l.cur()
	two := string(c) + string(l.peek(1))
	if tt, ok := operators[two]; ok {
		l.advance()
		l.advance()
		return Token{tt, two, startLine, startCol}, true
	}
	if tt, ok := operators[string(c)]; ok {
		l.advance()
		return Token{tt, string(c), startLine, startCol}, true
	}
	return Token{}, false
}

// lowerFold lowercases a string including Cyrillic letters.
func lowerFold(s string) string {
	return strings.Map(unicode.ToLower, s)
}
