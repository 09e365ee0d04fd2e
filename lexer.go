package picol

import "fmt"

// TokenKind classifies one lexical unit of a command string.
type TokenKind int

const (
	// TkEOF marks the end of the input.
	TkEOF TokenKind = iota
	// TkEOL ends a command: an unquoted newline or ';' (runs are coalesced).
	TkEOL
	// TkSep separates words: a run of unquoted spaces/tabs.
	TkSep
	// TkLiteral is bare or double-quoted text with escapes already decoded.
	// Variable and command substitution still apply inside double quotes, so
	// a quoted string may span several adjacent tokens.
	TkLiteral
	// TkBraced is the verbatim contents of a {...} word. No substitution is
	// ever performed on it; this is how bodies are passed around unevaluated.
	TkBraced
	// TkVar is a variable reference: Text holds the name from $name or ${name}.
	TkVar
	// TkScript is the contents of a [...] word, itself a nested script.
	TkScript
)

// Token is one word piece (or separator) of a command string. Adjacent word
// pieces with no separator between them concatenate into a single argument.
type Token struct {
	Kind TokenKind
	Text string
}

// SyntaxError reports malformed input: an unterminated brace, bracket, quote
// or variable reference. Line is 1-based, Col is 0-based (rendered 1-based by
// WrapErrorWithSource). Incomplete marks errors caused purely by running out
// of input, which an interactive host can treat as "keep reading".
//
// Src is the script fragment that was being lexed. Procedure bodies and [...]
// scripts are re-lexed detached from the enclosing source, so Line/Col are
// relative to Src, not to the top-level script; snippet rendering must use
// Src.
type SyntaxError struct {
	Line       int
	Col        int
	Msg        string
	Src        string
	Incomplete bool
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SYNTAX ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err is a SyntaxError caused by truncated
// input, e.g. an open brace with no close brace yet.
func IsIncomplete(err error) bool {
	if e, ok := err.(*SyntaxError); ok {
		return e.Incomplete
	}
	return false
}

// Check scans src without evaluating it and returns the first syntax error,
// if any. Hosts combine this with IsIncomplete to drive continuation prompts.
func Check(src string) error {
	lx := newLexer(src)
	for {
		tok, err := lx.Next()
		if err != nil {
			return err
		}
		if tok.Kind == TkEOF {
			return nil
		}
	}
}

// Lexer splits a command string into substitution-aware tokens. It is a
// cursor over the source: each Next call consumes exactly one token. Nested
// [...] and {...} are consumed whole (depth-counted) and returned as single
// tokens; their contents are re-lexed only if and when they are evaluated.
type Lexer struct {
	src      string
	pos      int
	line     int // 1-based
	col      int // 0-based column within line
	inQuotes bool
	prev     TokenKind // kind of the previously returned token

	// position where the current token began, for error locations
	tokStartLine int
	tokStartCol  int
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, prev: TkEOL}
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) errAt(line, col int, incomplete bool, msg string) error {
	return &SyntaxError{Line: line, Col: col, Msg: msg, Src: l.src, Incomplete: incomplete}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }
func isCmdEnd(b byte) bool { return b == '\n' || b == ';' }

func isVarChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '_'
}

// decodeEscape maps the character after a backslash to its replacement.
// Beyond the required set, an unknown \x simply yields x.
func decodeEscape(b byte) byte {
	switch b {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return b
	}
}

// Next returns the next token, or a *SyntaxError. After TkEOF it keeps
// returning TkEOF.
func (l *Lexer) Next() (Token, error) {
	for {
		l.tokStartLine = l.line
		l.tokStartCol = l.col

		if l.isAtEnd() {
			if l.inQuotes {
				return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, true, "missing close-quote")
			}
			l.prev = TkEOF
			return Token{Kind: TkEOF}, nil
		}

		ch, _ := l.peek()

		if l.inQuotes {
			// Inside double quotes only $, [ and the closing quote are
			// special; everything else (including newlines) is literal.
			switch ch {
			case '$':
				return l.ret(l.scanVar())
			case '[':
				return l.ret(l.scanScript())
			default:
				return l.ret(l.scanLiteral())
			}
		}

		switch {
		case isSpace(ch):
			for {
				b, ok := l.peek()
				if !ok || !isSpace(b) {
					break
				}
				l.advance()
			}
			l.prev = TkSep
			return Token{Kind: TkSep}, nil

		case isCmdEnd(ch):
			for {
				b, ok := l.peek()
				if !ok || (!isCmdEnd(b) && !isSpace(b)) {
					break
				}
				l.advance()
			}
			l.prev = TkEOL
			return Token{Kind: TkEOL}, nil

		case ch == '#' && l.prev == TkEOL:
			// Comment: runs to end of line when it appears where a command
			// would start.
			for {
				b, ok := l.peek()
				if !ok || b == '\n' {
					break
				}
				l.advance()
			}
			continue

		case ch == '$':
			return l.ret(l.scanVar())

		case ch == '[':
			return l.ret(l.scanScript())

		case ch == '{' && l.startsWord():
			return l.ret(l.scanBraced())

		case ch == '"' && l.startsWord():
			l.advance()
			l.inQuotes = true
			return l.ret(l.scanLiteral())

		default:
			return l.ret(l.scanLiteral())
		}
	}
}

// startsWord reports whether the cursor sits at the beginning of a new word,
// which is where { and " take on their grouping meaning. Mid-word they are
// ordinary characters.
func (l *Lexer) startsWord() bool {
	return l.prev == TkEOL || l.prev == TkSep || l.prev == TkBraced
}

func (l *Lexer) ret(tok Token, err error) (Token, error) {
	if err != nil {
		return Token{}, err
	}
	l.prev = tok.Kind
	return tok, nil
}

// scanVar consumes $name, ${name}, or a lone $ (which is literal).
func (l *Lexer) scanVar() (Token, error) {
	l.advance() // '$'

	if b, ok := l.peek(); ok && b == '{' {
		l.advance()
		start := l.pos
		for {
			b, ok := l.peek()
			if !ok {
				return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, true, "missing close-brace for variable name")
			}
			if b == '}' {
				name := l.src[start:l.pos]
				l.advance()
				return Token{Kind: TkVar, Text: name}, nil
			}
			l.advance()
		}
	}

	start := l.pos
	for {
		b, ok := l.peek()
		if !ok || !isVarChar(b) {
			break
		}
		l.advance()
	}
	if l.pos == start {
		// A bare $ with no name is just a dollar sign.
		return Token{Kind: TkLiteral, Text: "$"}, nil
	}
	return Token{Kind: TkVar, Text: l.src[start:l.pos]}, nil
}

// scanScript consumes a [...] word, tracking bracket depth. Brackets inside
// braces do not count, and a backslash hides the following character.
func (l *Lexer) scanScript() (Token, error) {
	l.advance() // '['
	start := l.pos
	depth := 1
	braces := 0
	for {
		b, ok := l.peek()
		if !ok {
			return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, true, "missing close-bracket")
		}
		switch {
		case b == '\\':
			l.advance()
			l.advance()
			continue
		case b == '{':
			braces++
		case b == '}':
			if braces > 0 {
				braces--
			}
		case b == '[' && braces == 0:
			depth++
		case b == ']' && braces == 0:
			depth--
			if depth == 0 {
				text := l.src[start:l.pos]
				l.advance()
				return Token{Kind: TkScript, Text: text}, nil
			}
		}
		l.advance()
	}
}

// scanBraced consumes a {...} word verbatim. Backslashes influence brace
// counting only; the returned text keeps them untouched.
func (l *Lexer) scanBraced() (Token, error) {
	l.advance() // '{'
	start := l.pos
	depth := 1
	for {
		b, ok := l.peek()
		if !ok {
			return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, true, "missing close-brace")
		}
		switch b {
		case '\\':
			l.advance()
			l.advance()
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				text := l.src[start:l.pos]
				l.advance()
				return Token{Kind: TkBraced, Text: text}, nil
			}
		}
		l.advance()
	}
}

// scanLiteral consumes a run of ordinary characters, decoding backslash
// escapes. Outside quotes it stops at whitespace, command terminators, $ and
// [; inside quotes only ", $ and [ end it (the " is consumed and closes the
// quoted string).
func (l *Lexer) scanLiteral() (Token, error) {
	var out []byte
	for {
		b, ok := l.peek()
		if !ok {
			if l.inQuotes {
				return Token{}, l.errAt(l.tokStartLine, l.tokStartCol, true, "missing close-quote")
			}
			break
		}
		if b == '\\' {
			l.advance()
			esc, ok := l.advance()
			if !ok {
				out = append(out, '\\')
				break
			}
			out = append(out, decodeEscape(esc))
			continue
		}
		if b == '$' || b == '[' {
			break
		}
		if l.inQuotes {
			if b == '"' {
				l.advance()
				l.inQuotes = false
				break
			}
		} else {
			if isSpace(b) || isCmdEnd(b) {
				break
			}
		}
		l.advance()
		out = append(out, b)
	}
	return Token{Kind: TkLiteral, Text: string(out)}, nil
}
