package interpreter

import "fmt"

type charClass int

const (
	classSpecial charClass = iota
	classQuote
	classSpace
	classNewline
	classOther
	classDisallowed
)

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// classOf treats '.' as part of an identifier so that floats and file names
// such as main.go stay whole.
func classOf(ch byte) charClass {
	if isDigit(ch) || isLetter(ch) || ch == '_' || ch == '.' {
		return classOther
	}
	switch ch {
	case '~', '|', ';', '&', '#', '(', ')', '{', '}', '*', '+', '-', '%', '/', '!', '=', '<', '>', ',':
		return classSpecial
	case '"':
		return classQuote
	case ' ', '\t', '\r':
		return classSpace
	case '\n':
		return classNewline
	default:
		return classDisallowed
	}
}

// extendsOperator reports whether next completes a two character operator
// started by first.
func extendsOperator(first, next byte) bool {
	switch first {
	case '!', '=', '<', '>':
		return next == '='
	case '&':
		return next == '&'
	case '|':
		return next == '|'
	}
	return false
}

// Lexer splits a single source line into raw substrings.
type Lexer struct {
	input    string
	warnings []string
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Warnings returns the non-fatal diagnostics recorded by the last Split.
func (l *Lexer) Warnings() []string {
	return l.warnings
}

// Split returns the raw substrings of the line in source order. Quoted
// strings keep their delimiters. It returns nil for blank and comment-only
// lines.
func (l *Lexer) Split() ([]string, error) {
	var tokens []string
	l.warnings = nil
	input := l.input
	head := 0

	flush := func(end int) {
		if head < end {
			tokens = append(tokens, input[head:end])
		}
	}

	for i := 0; i < len(input); i++ {
		switch classOf(input[i]) {
		case classDisallowed:
			return nil, lexicalError("Character %q is not allowed in cash! Error at: %d!", input[i], i)

		case classSpecial:
			flush(i)
			if input[i] == '#' {
				return tokens, nil
			}
			if i+1 < len(input) && extendsOperator(input[i], input[i+1]) {
				tokens = append(tokens, input[i:i+2])
				i++
			} else {
				tokens = append(tokens, input[i:i+1])
			}

		case classQuote:
			if head < i {
				return nil, lexicalError("Syntax Error at %d! Expected valid separator after identifier.", i)
			}
			start := i
			i++
			for i < len(input) && input[i] != '"' && input[i] != '\n' {
				i++
			}
			if i >= len(input) || input[i] != '"' {
				l.warnings = append(l.warnings, fmt.Sprintf("warning: Unterminated string at %d!", i))
				tokens = append(tokens, input[start:i])
				head = i
				i--
				continue
			}
			if i+1 < len(input) && classOf(input[i+1]) == classOther {
				return nil, lexicalError("Syntax Error at %d! Unexpected token.", i+1)
			}
			tokens = append(tokens, input[start:i+1])

		case classSpace, classNewline:
			flush(i)

		default:
			continue
		}
		head = i + 1
	}
	flush(len(input))
	return tokens, nil
}
