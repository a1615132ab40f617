package interpreter

import (
	"errors"
	"strings"
	"testing"
)

func parseSource(t *testing.T, src string) ([]Stmt, []error) {
	t.Helper()
	raw, err := NewLexer(src).Split()
	if err != nil {
		t.Fatalf("Split(%q) returned error: %v", src, err)
	}
	tokens, err := Classify(raw, 1)
	if err != nil {
		t.Fatalf("Classify(%q) returned error: %v", src, err)
	}
	p := NewParser(tokens)
	return p.Parse(), p.Errors()
}

func TestParserStatements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4;", "(2 + (3 * 4));"},
		{"(2 + 3) * 4;", "((group (2 + 3)) * 4);"},
		{"1 - 2 - 3;", "((1 - 2) - 3);"},
		{"a = b = 1;", "(a = (b = 1));"},
		{"a || b && c;", "(a || (b && c));"},
		{"a == b < c;", "(a == (b < c));"},
		{"-!x;", "(-(!x));"},
		{"~1 % 2;", "((~1) % 2);"},
		{"f(1, g(2));", "f(1, g(2));"},
		{"var x;", "var x;"},
		{`var s = "a" + 1.5;`, `var s = ("a" + 1.500000);`},
		{"echo null;", "echo null;"},
		{"printf true;", "echo true;"},
		{"if (x) echo 1; else echo 2;", "if (x) echo 1; else echo 2;"},
		{"while (i < 3) { i = i + 1; }", "while ((i < 3)) { (i = (i + 1)); }"},
		{"for (var i = 0; i < 3; i = i + 1) echo i;", "for (var i = 0; (i < 3); (i = (i + 1))) echo i;"},
		{"for (;;) echo 1;", "for (; ; ) echo 1;"},
		{"funct add(a, b) { return a + b; }", "funct add(a, b) { return (a + b); }"},
		{"funct f() { return; }", "funct f() { return; }"},
		{"time;", "time;"},
		{"clear;", "clear;"},
		{"pwd;", "pwd;"},
		{"cd;", "cd;"},
		{`cd "/tmp";`, `cd "/tmp";`},
		{`run ls, "-la", 1;`, `run "ls", "-la", 1;`},
		{`run "ls";`, `run "ls";`},
		{"run pwd;", `run "pwd";`},
		{`run (dir + "/tool");`, `run (group (dir + "/tool"));`},
	}
	for _, tt := range tests {
		stmts, errs := parseSource(t, tt.input)
		if len(errs) != 0 {
			t.Fatalf("Parse(%q) returned errors: %v", tt.input, errs)
		}
		if len(stmts) != 1 {
			t.Fatalf("Parse(%q) expected 1 statement, got %d", tt.input, len(stmts))
		}
		if got := stmts[0].String(); got != tt.want {
			t.Fatalf("Parse(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParserRecoversAtStatementBoundary(t *testing.T) {
	stmts, errs := parseSource(t, "var = 5; echo 1;")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if len(stmts) != 1 || stmts[0].String() != "echo 1;" {
		t.Fatalf("expected the echo statement to survive, got %v", stmts)
	}
	if got := errs[0].Error(); got != "Error line: 1 at '=', Expected Identifier after var." {
		t.Fatalf("unexpected message %q", got)
	}

	stmts, errs = parseSource(t, "echo 1; var = 1; var = 2; echo 3;")
	if len(errs) != 2 || len(stmts) != 2 {
		t.Fatalf("expected 2 statements and 2 errors, got %d and %v", len(stmts), errs)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"echo 1 +", "Error line: 1 at end, Missing right operand!"},
		{"1 = 2;", "Invalid assignment target!"},
		{"class Foo;", "'class' is reserved but not supported."},
		{"struct;", "'struct' is reserved but not supported."},
		{"enum;", "'enum' is reserved but not supported."},
		{"exec ls;", "'exec' is reserved but not supported."},
		{"echo 1", "Error line: 1 at end, Expected ';' at the end of the print expression."},
		{"{ echo 1;", "Error line: 1 at end, Expected '}' after block."},
		{"if x echo 1;", "Expected '(' after 'if'."},
		{"echo (1;", "Expected ')' after expression."},
		{"funct (a) {}", "Expected function name after funct."},
	}
	for _, tt := range tests {
		_, errs := parseSource(t, tt.input)
		if len(errs) == 0 {
			t.Fatalf("Parse(%q) expected an error", tt.input)
		}
		var perr *Error
		if !errors.As(errs[0], &perr) || perr.Code != ErrCodeSyntax {
			t.Fatalf("Parse(%q) expected syntax *Error, got %T", tt.input, errs[0])
		}
		if !strings.Contains(errs[0].Error(), tt.want) {
			t.Fatalf("Parse(%q) error %q does not contain %q", tt.input, errs[0].Error(), tt.want)
		}
	}
}

func TestParserArgumentLimit(t *testing.T) {
	args := make([]string, MaxArgs)
	for i := range args {
		args[i] = "1"
	}
	_, errs := parseSource(t, "f("+strings.Join(args, ", ")+");")
	if len(errs) != 0 {
		t.Fatalf("expected %d arguments to parse, got %v", MaxArgs, errs)
	}
	_, errs = parseSource(t, "f("+strings.Join(append(args, "1"), ", ")+");")
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "Can't have more than 127 arguments.") {
		t.Fatalf("expected argument limit error, got %v", errs)
	}
}

func TestParserStopsAtEofWord(t *testing.T) {
	stmts, errs := parseSource(t, "echo 1; eof echo 2;")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(stmts) != 1 {
		t.Fatalf("expected parsing to stop at eof, got %d statements", len(stmts))
	}
}
