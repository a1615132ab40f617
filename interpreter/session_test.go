package interpreter

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/oarkflow/cash/pkg/events"
)

func TestSessionMultiLineBlocks(t *testing.T) {
	h := newHarness(t)
	h.feed(t, "funct add(a, b) {")
	if !h.session.Pending() {
		t.Fatalf("expected session to wait for the closing brace")
	}
	h.feed(t, "  return a + b;", "}")
	if h.session.Pending() {
		t.Fatalf("expected block to be complete")
	}
	h.feed(t, "echo add(1, 2);")
	if got := h.stdout.String(); got != "3\n" {
		t.Fatalf("output = %q, stderr = %q", got, h.stderr.String())
	}
}

func TestSessionRunScript(t *testing.T) {
	script := `# counts down
var n = 3;
while (n > 0) {
  echo n;
  n = n - 1;
}
funct greet(name) {
  return "hello " + name;
}
echo greet("cash");
`
	h := newHarness(t)
	if err := h.session.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := h.stdout.String(); got != "3\n2\n1\nhello cash\n" {
		t.Fatalf("output = %q", got)
	}
	if h.session.Line() != 10 {
		t.Fatalf("expected 10 lines, got %d", h.session.Line())
	}
}

func TestSessionReportsLineNumbers(t *testing.T) {
	h := newHarness(t)
	h.feed(t, "var a = 1;", "", "echo b;")
	if !strings.Contains(h.stderr.String(), "Runtime error line: 3 at 'b'") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
}

func TestSessionLexicalErrorDropsPendingBlock(t *testing.T) {
	h := newHarness(t)
	h.feed(t, "if (true) {", "echo $;")
	if h.session.Pending() {
		t.Fatalf("a lexical error should discard the pending block")
	}
	if !strings.Contains(h.stderr.String(), "is not allowed") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	h.feed(t, "echo 1;")
	if h.stdout.String() != "1\n" {
		t.Fatalf("output = %q", h.stdout.String())
	}
}

func TestSessionFlushReportsUnclosedBlock(t *testing.T) {
	h := newHarness(t)
	h.feed(t, "while (true) {")
	err := h.session.Flush(context.Background())
	var perr *Error
	if !errors.As(err, &perr) || perr.Code != ErrCodeSyntax || !perr.AtEnd {
		t.Fatalf("expected syntax error at end, got %v", err)
	}
	if h.session.Pending() {
		t.Fatalf("Flush should clear the pending buffer")
	}
}

func TestSessionSyntaxErrorKeepsOtherStatements(t *testing.T) {
	h := newHarness(t)
	h.feed(t, "var = 5; echo 1;")
	if h.stdout.String() != "1\n" {
		t.Fatalf("output = %q", h.stdout.String())
	}
	if n := strings.Count(h.stderr.String(), "\n"); n != 1 {
		t.Fatalf("expected exactly one diagnostic, got %q", h.stderr.String())
	}
}

func TestSessionRecoversPanics(t *testing.T) {
	h := newHarness(t)
	h.exec.panic = true
	err := h.session.Feed(context.Background(), "run boom; echo 1;")
	var ierr *Error
	if !errors.As(err, &ierr) || ierr.Code != ErrCodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
	if h.stdout.String() != "1\n" {
		t.Fatalf("session should keep going, output = %q", h.stdout.String())
	}
}

func TestSessionPublishesEvents(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	record := func(_ context.Context, ev events.Event) error {
		got = append(got, ev)
		return nil
	}
	bus.Subscribe(events.EventStatementExecuted, record)
	bus.Subscribe(events.EventStatementFailed, record)

	var stdout, stderr bytes.Buffer
	session := NewSession(New(WithStdout(&stdout), WithStderr(&stderr)), WithSessionID("s1"), WithEventBus(bus))
	defer session.Close()
	_ = session.Feed(context.Background(), "echo 1; echo x;")

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != events.EventStatementExecuted || got[0].Source != "echo 1;" || got[0].SessionID != "s1" {
		t.Fatalf("unexpected first event %+v", got[0])
	}
	if got[1].Type != events.EventStatementFailed || got[1].Err == nil || got[1].Line != 1 {
		t.Fatalf("unexpected second event %+v", got[1])
	}
}

func TestExecWithData(t *testing.T) {
	var stdout, stderr bytes.Buffer
	data := map[string]any{
		"x":    10,
		"y":    2.5,
		"name": "cash",
		"on":   true,
	}
	session, err := Exec(context.Background(), `echo x + y; echo name; echo on;`, data, WithStdout(&stdout), WithStderr(&stderr))
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if got := stdout.String(); got != "12.500000\ncash\n1\n" {
		t.Fatalf("output = %q", got)
	}
	if session.HadError() {
		t.Fatalf("unexpected error state")
	}
}

func TestExecReleasesExecutor(t *testing.T) {
	var stdout, stderr bytes.Buffer
	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		if _, err := Exec(context.Background(), "var x = 1;", nil, WithStdout(&stdout), WithStderr(&stderr)); err != nil {
			t.Fatalf("Exec failed: %v", err)
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	after := runtime.NumGoroutine()
	for after > before+5 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
		after = runtime.NumGoroutine()
	}
	if after > before+5 {
		t.Fatalf("goroutines grew from %d to %d after repeated Exec", before, after)
	}
}

func TestExecRejectsUnsupportedData(t *testing.T) {
	_, err := Exec(context.Background(), "echo 1;", map[string]any{"list": []int{1, 2}})
	if err == nil {
		t.Fatalf("expected an error for a slice global")
	}
}

func TestFromGo(t *testing.T) {
	tests := []struct {
		in   any
		want Value
	}{
		{nil, nil},
		{int32(4), Integer{Value: 4}},
		{uint8(7), Integer{Value: 7}},
		{float32(0.5), Float{Value: 0.5}},
		{"s", String{Value: "s"}},
		{false, Boolean{Value: false}},
		{Integer{Value: 9}, Integer{Value: 9}},
	}
	for _, tt := range tests {
		got, err := FromGo(tt.in)
		if err != nil {
			t.Fatalf("FromGo(%v) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("FromGo(%v) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
