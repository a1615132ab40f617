package interpreter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/oarkflow/cash/pkg/executor"
)

func realPath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("EvalSymlinks(%s): %v", path, err)
	}
	return resolved
}

func TestCdWithoutArgumentGoesHome(t *testing.T) {
	home := realPath(t, t.TempDir())
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	h := newHarness(t)
	h.feed(t, "cd;", "pwd;")
	if h.stderr.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", h.stderr.String())
	}
	if got := strings.TrimSpace(h.stdout.String()); got != home {
		t.Fatalf("pwd = %q, want %q", got, home)
	}
}

func TestCdExpandsTilde(t *testing.T) {
	home := realPath(t, t.TempDir())
	if err := os.Mkdir(filepath.Join(home, "projects"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	h := newHarness(t)
	h.feed(t, `cd "~/projects";`)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "projects"); wd != want {
		t.Fatalf("working directory = %q, want %q", wd, want)
	}
}

func TestCdToPathExpression(t *testing.T) {
	base := realPath(t, t.TempDir())
	if err := os.Mkdir(filepath.Join(base, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(base)

	h := newHarness(t)
	h.feed(t, `var dir = "sub";`, "cd dir;", "pwd;")
	if got := strings.TrimSpace(h.stdout.String()); got != filepath.Join(base, "sub") {
		t.Fatalf("pwd = %q", got)
	}
}

func TestCdFailures(t *testing.T) {
	t.Chdir(t.TempDir())
	missing := filepath.Join(t.TempDir(), "missing")

	h := newHarness(t)
	err := h.session.Feed(context.Background(), `cd "`+missing+`";`)
	if err == nil {
		t.Fatalf("expected cd into a missing directory to fail")
	}
	if !strings.Contains(h.stderr.String(), "cd: "+missing+": No such file or directory") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}

	h = newHarness(t)
	if err := h.session.Feed(context.Background(), "cd 5;"); err == nil {
		t.Fatalf("expected cd with a number to fail")
	}
}

func TestRunPassesArguments(t *testing.T) {
	h := newHarness(t)
	h.exec.output = "listing\n"
	h.feed(t, `var flag = "-la"; run ls, flag, 1, 2.5, true;`)
	want := []execCall{{name: "ls", args: []string{"-la", "1", "2.500000", "1"}}}
	if !reflect.DeepEqual(h.exec.calls, want) {
		t.Fatalf("calls = %#v, want %#v", h.exec.calls, want)
	}
	if h.stdout.String() != "listing\n" {
		t.Fatalf("stdout = %q", h.stdout.String())
	}
}

func TestRunProgramExpression(t *testing.T) {
	h := newHarness(t)
	h.feed(t, `var tool = "git"; run (tool), "status";`, `run "echo", "hi";`)
	want := []execCall{
		{name: "git", args: []string{"status"}},
		{name: "echo", args: []string{"hi"}},
	}
	if !reflect.DeepEqual(h.exec.calls, want) {
		t.Fatalf("calls = %#v, want %#v", h.exec.calls, want)
	}
}

func TestRunNonZeroExitIsWarning(t *testing.T) {
	h := newHarness(t)
	h.exec.status = 3
	if err := h.session.Feed(context.Background(), "run false;"); err != nil {
		t.Fatalf("non-zero exit should not be an error, got %v", err)
	}
	if !strings.Contains(h.stderr.String(), "warning: false exited with status 3") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	if h.session.HadError() {
		t.Fatalf("a warning must not mark the session as failed")
	}
}

func TestRunNotFound(t *testing.T) {
	h := newHarness(t)
	h.exec.err = executor.ErrNotFound
	err := h.session.Feed(context.Background(), "run nosuchprogram; echo 1;")
	if !errors.Is(err, executor.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(h.stderr.String(), "nosuchprogram: command not found") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
	if h.stdout.String() != "1\n" {
		t.Fatalf("the next statement should still run, stdout = %q", h.stdout.String())
	}
}

func TestRunRequiresStringProgram(t *testing.T) {
	h := newHarness(t)
	if err := h.session.Feed(context.Background(), "run 42;"); err == nil {
		t.Fatalf("expected a numeric program name to fail")
	}
	if len(h.exec.calls) != 0 {
		t.Fatalf("executor should not be called")
	}
}

func TestRunRealProcess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "hello")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho hello \"$1\"\nexit 2\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	exec, err := executor.New(executor.WithPathFunc(func() string { return dir }))
	if err != nil {
		t.Fatal(err)
	}
	defer exec.Close()

	h := newHarness(t, WithExecutor(exec))
	h.feed(t, `run hello, "cash";`)
	if got := h.stdout.String(); got != "hello cash\n" {
		t.Fatalf("stdout = %q", got)
	}
	if !strings.Contains(h.stderr.String(), "exited with status 2") {
		t.Fatalf("stderr = %q", h.stderr.String())
	}
}
