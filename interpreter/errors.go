package interpreter

import (
	"fmt"

	"github.com/oarkflow/errors"
)

type ErrorCode string

const (
	ErrCodeLexical  ErrorCode = "LEXICAL_ERROR"
	ErrCodeSyntax   ErrorCode = "SYNTAX_ERROR"
	ErrCodeRuntime  ErrorCode = "RUNTIME_ERROR"
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var (
	// ErrReturnOutsideFunction is the cause attached to a top-level return.
	ErrReturnOutsideFunction = errors.New("can't return from top-level code")
	// ErrCallDepthExceeded is the cause attached when MaxCallDepth is reached.
	ErrCallDepthExceeded = errors.New("maximum call depth exceeded")
)

// Error is the single diagnostic type produced by every stage of the
// pipeline. Line is 1-based; Lexeme is the offending token text when known.
type Error struct {
	Code    ErrorCode
	Line    int
	Lexeme  string
	AtEnd   bool
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch e.Code {
	case ErrCodeSyntax:
		if e.AtEnd {
			return fmt.Sprintf("Error line: %d at end, %s", e.Line, e.Message)
		}
		return fmt.Sprintf("Error line: %d at '%s', %s", e.Line, e.Lexeme, e.Message)
	case ErrCodeRuntime:
		if e.Line == 0 && e.Lexeme == "" {
			return fmt.Sprintf("Runtime error: %s", e.Message)
		}
		return fmt.Sprintf("Runtime error line: %d at '%s', %s", e.Line, e.Lexeme, e.Message)
	case ErrCodeLexical:
		return fmt.Sprintf("error: %s", e.Message)
	default:
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func lexicalError(format string, args ...any) *Error {
	return &Error{Code: ErrCodeLexical, Message: fmt.Sprintf(format, args...)}
}

func syntaxError(tok Token, msg string) *Error {
	return &Error{
		Code:    ErrCodeSyntax,
		Line:    tok.Line,
		Lexeme:  tok.Lexeme,
		AtEnd:   tok.Type == TOKEN_EOF,
		Message: msg,
	}
}

func runtimeError(tok Token, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeRuntime,
		Line:    tok.Line,
		Lexeme:  tok.Lexeme,
		Message: fmt.Sprintf(format, args...),
	}
}

// interrupted reports a statement aborted by context cancellation.
func interrupted(cause error) *Error {
	return &Error{Code: ErrCodeRuntime, Message: "Interrupted.", Cause: cause}
}
