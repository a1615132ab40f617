package interpreter

import (
	"strconv"
	"strings"
)

// Classify turns the raw substrings of one line into tokens and appends a
// TOKEN_EOF. A failure on any substring discards the whole line.
func Classify(raw []string, line int) ([]Token, error) {
	tokens := make([]Token, 0, len(raw)+1)
	for _, lexeme := range raw {
		tok, err := classify(lexeme, line)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	tokens = append(tokens, Token{Type: TOKEN_EOF, Line: line})
	return tokens, nil
}

func classify(lexeme string, line int) (Token, error) {
	if lexeme == "" {
		return Token{}, lexicalError("Failed to classify empty token at line %d", line)
	}
	first := lexeme[0]
	switch {
	case classOf(first) == classSpecial:
		return classifyOperator(lexeme, line)
	case classOf(first) == classQuote:
		return classifyString(lexeme, line), nil
	case isDigit(first):
		return classifyNumber(lexeme, line)
	default:
		return classifyWord(lexeme, line), nil
	}
}

func classifyOperator(lexeme string, line int) (Token, error) {
	tok := Token{Lexeme: lexeme, Line: line}
	if len(lexeme) == 2 {
		t, ok := doubleOperators[lexeme]
		if !ok {
			return Token{}, lexicalError("syntax mistake at %s", lexeme)
		}
		tok.Type = t
		return tok, nil
	}
	t, ok := singleOperators[lexeme[0]]
	if !ok || len(lexeme) != 1 {
		return Token{}, lexicalError("Failed to classify token %s", lexeme)
	}
	tok.Type = t
	return tok, nil
}

func classifyString(lexeme string, line int) Token {
	text := lexeme[1:]
	if len(text) > 0 && text[len(text)-1] == '"' {
		text = text[:len(text)-1]
	}
	return Token{Type: TOKEN_STRING, Lexeme: text, Literal: String{Value: text}, Line: line}
}

func classifyNumber(lexeme string, line int) (Token, error) {
	if strings.Contains(lexeme, ".") {
		f, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Token{}, lexicalError("Failed to classify token %s", lexeme)
		}
		return Token{Type: TOKEN_FLOAT, Lexeme: lexeme, Literal: Float{Value: f}, Line: line}, nil
	}
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{}, lexicalError("Failed to classify token %s", lexeme)
	}
	return Token{Type: TOKEN_INT, Lexeme: lexeme, Literal: Integer{Value: n}, Line: line}, nil
}

func classifyWord(lexeme string, line int) Token {
	tok := Token{Type: lookupIdent(lexeme), Lexeme: lexeme, Line: line}
	switch tok.Type {
	case TOKEN_TRUE:
		tok.Literal = Boolean{Value: true}
	case TOKEN_FALSE:
		tok.Literal = Boolean{Value: false}
	}
	return tok
}
