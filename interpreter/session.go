package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oarkflow/cash/pkg/events"
)

type SessionOption func(*Session)

func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithEventBus publishes a statement_executed or statement_failed event for
// every top-level statement.
func WithEventBus(bus *events.Bus) SessionOption {
	return func(s *Session) {
		s.bus = bus
	}
}

// Session feeds source lines through the lexer, classifier, parser and
// interpreter against one persistent global environment. Lines are buffered
// while a `{` is left open so blocks may span several lines.
type Session struct {
	interp   *Interpreter
	globals  *Environment
	id       string
	bus      *events.Bus
	line     int
	pending  []Token
	depth    int
	hadError bool
}

func NewSession(in *Interpreter, opts ...SessionOption) *Session {
	if in == nil {
		in = New()
	}
	s := &Session{
		interp:  in,
		globals: NewEnvironment(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the resources held by the session's interpreter.
func (s *Session) Close() {
	s.interp.Close()
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Globals() *Environment {
	return s.globals
}

// Define binds a global variable before any source is run.
func (s *Session) Define(name string, val Value) {
	s.globals.Define(name, val)
}

// HadError reports whether any diagnostic was produced so far.
func (s *Session) HadError() bool {
	return s.hadError
}

// Pending reports whether the session is waiting for the rest of an open
// block.
func (s *Session) Pending() bool {
	return len(s.pending) > 0
}

func (s *Session) Line() int {
	return s.line
}

// Feed processes one line of source. Every diagnostic is written to the
// interpreter's stderr as it happens; the returned error joins them.
func (s *Session) Feed(ctx context.Context, line string) error {
	s.line++
	lexer := NewLexer(line)
	raw, err := lexer.Split()
	for _, w := range lexer.Warnings() {
		fmt.Fprintln(s.interp.stderr, w)
	}
	if err != nil {
		s.resetPending()
		return s.report(err)
	}
	if len(raw) == 0 {
		return nil
	}
	tokens, err := Classify(raw, s.line)
	if err != nil {
		s.resetPending()
		return s.report(err)
	}
	s.interp.logger.Debug().Int("line", s.line).Int("tokens", len(tokens)).Msg("classified line")

	for _, tok := range tokens {
		if tok.Type == TOKEN_EOF {
			break
		}
		switch tok.Type {
		case TOKEN_LBRACE:
			s.depth++
		case TOKEN_RBRACE:
			s.depth--
		}
		s.pending = append(s.pending, tok)
	}
	if s.depth > 0 {
		return nil
	}
	return s.flush(ctx)
}

// Flush runs whatever is buffered at end of input, reporting an unclosed
// block as a syntax error.
func (s *Session) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}
	return s.flush(ctx)
}

// Run feeds every line of r and flushes at the end. It stops early once ctx
// is cancelled.
func (s *Session) Run(ctx context.Context, r io.Reader) error {
	lines, err := readLines(r)
	if err != nil {
		return err
	}
	var errs []error
	for _, line := range lines {
		if ctx.Err() != nil {
			errs = append(errs, s.report(interrupted(ctx.Err())))
			return errors.Join(errs...)
		}
		if err := s.Feed(ctx, line); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Session) flush(ctx context.Context) error {
	tokens := append(s.pending, Token{Type: TOKEN_EOF, Line: s.line})
	s.resetPending()

	parser := NewParser(tokens)
	statements := parser.Parse()
	var errs []error
	for _, perr := range parser.Errors() {
		errs = append(errs, s.report(perr))
	}
	s.interp.logger.Debug().Int("line", s.line).Int("statements", len(statements)).Int("errors", len(errs)).Msg("parsed line")

	for _, stmt := range statements {
		start := time.Now()
		err := s.execute(ctx, stmt)
		s.publish(ctx, stmt, time.Since(start), err)
		if err != nil {
			errs = append(errs, s.report(err))
		}
	}
	return errors.Join(errs...)
}

func (s *Session) execute(ctx context.Context, stmt Stmt) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.interp.depth = 0
			err = &Error{Code: ErrCodeInternal, Message: fmt.Sprint(r)}
		}
	}()
	_, err = s.interp.Execute(ctx, stmt, s.globals)
	return err
}

func (s *Session) publish(ctx context.Context, stmt Stmt, elapsed time.Duration, err error) {
	if s.bus == nil {
		return
	}
	event := events.Event{
		Type:      events.EventStatementExecuted,
		SessionID: s.id,
		Source:    stmt.String(),
		Line:      s.line,
		Duration:  elapsed,
		Err:       err,
		Timestamp: time.Now(),
	}
	if err != nil {
		event.Type = events.EventStatementFailed
	}
	if perr := s.bus.Publish(context.WithoutCancel(ctx), event); perr != nil {
		s.interp.logger.Warn().Str("session", s.id).Err(perr).Msg("event handler failed")
	}
}

func (s *Session) report(err error) error {
	s.hadError = true
	fmt.Fprintln(s.interp.stderr, err.Error())
	s.interp.logger.Debug().Str("session", s.id).Int("line", s.line).Err(err).Msg("statement failed")
	return err
}

func (s *Session) resetPending() {
	s.pending = nil
	s.depth = 0
}
