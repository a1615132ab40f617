package interpreter

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/oarkflow/cash/pkg/executor"
)

type execCall struct {
	name string
	args []string
}

type fakeExecutor struct {
	calls  []execCall
	status int
	err    error
	output string
	panic  bool
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args []string, io executor.IOBindings) (int, error) {
	if f.panic {
		panic("executor exploded")
	}
	f.calls = append(f.calls, execCall{name: name, args: args})
	if f.output != "" {
		fmt.Fprint(io.Stdout, f.output)
	}
	return f.status, f.err
}

var fixedTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

type harness struct {
	session *Session
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	exec    *fakeExecutor
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		exec:   &fakeExecutor{},
	}
	base := []Option{
		WithStdout(h.stdout),
		WithStderr(h.stderr),
		WithExecutor(h.exec),
		WithClock(func() time.Time { return fixedTime }),
	}
	h.session = NewSession(New(append(base, opts...)...))
	return h
}

// feed runs every line of src through the session.
func (h *harness) feed(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		_ = h.session.Feed(context.Background(), line)
	}
}
