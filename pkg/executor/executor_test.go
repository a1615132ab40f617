package executor

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestLookupSearchesPathInOrder(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeScript(t, second, "tool", "exit 0")
	want := writeScript(t, first, "tool", "exit 0")

	e, err := New(WithPathFunc(func() string { return first + string(os.PathListSeparator) + second }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()

	got, ok := e.Lookup("tool")
	if !ok || got != want {
		t.Fatalf("Lookup = %q, %v; want %q", got, ok, want)
	}
	// Cached entry must still resolve.
	got, ok = e.Lookup("tool")
	if !ok || got != want {
		t.Fatalf("cached Lookup = %q, %v; want %q", got, ok, want)
	}
}

func TestLookupRevalidatesCachedPath(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	stale := writeScript(t, first, "tool", "exit 0")
	fallback := writeScript(t, second, "tool", "exit 0")

	e, err := New(WithPathFunc(func() string { return first + string(os.PathListSeparator) + second }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()

	if got, _ := e.Lookup("tool"); got != stale {
		t.Fatalf("expected first PATH entry, got %q", got)
	}
	if err := os.Remove(stale); err != nil {
		t.Fatal(err)
	}
	if got, ok := e.Lookup("tool"); !ok || got != fallback {
		t.Fatalf("Lookup after removal = %q, %v; want %q", got, ok, fallback)
	}
}

func TestLookupPrefersEarlierPathAfterCaching(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	later := writeScript(t, second, "tool", "exit 0")

	e, err := New(WithPathFunc(func() string { return first + string(os.PathListSeparator) + second }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()

	if got, _ := e.Lookup("tool"); got != later {
		t.Fatalf("expected %q, got %q", later, got)
	}
	earlier := writeScript(t, first, "tool", "exit 0")
	if got, ok := e.Lookup("tool"); !ok || got != earlier {
		t.Fatalf("Lookup after adding to an earlier directory = %q, %v; want %q", got, ok, earlier)
	}
}

func TestLookupSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "data"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := New(WithCacheSize(0), WithPathFunc(func() string { return dir }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, ok := e.Lookup("data"); ok {
		t.Fatalf("non-executable file should not resolve")
	}
}

func TestExecuteReturnsExitStatus(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "greet", `echo "hello $1"; exit 4`)
	e, err := New(WithPathFunc(func() string { return dir }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()

	var stdout bytes.Buffer
	status, err := e.Execute(context.Background(), "greet", []string{"world"}, IOBindings{Stdout: &stdout})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if status != 4 {
		t.Fatalf("expected status 4, got %d", status)
	}
	if got := stdout.String(); got != "hello world\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestExecuteAbsolutePath(t *testing.T) {
	path := writeScript(t, t.TempDir(), "ok", "exit 0")
	e, err := New(WithPathFunc(func() string { return "" }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()
	status, err := e.Execute(context.Background(), path, nil, IOBindings{})
	if err != nil || status != 0 {
		t.Fatalf("Execute = %d, %v", status, err)
	}
}

func TestExecuteNotFound(t *testing.T) {
	e, err := New(WithPathFunc(func() string { return t.TempDir() }))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer e.Close()
	_, err = e.Execute(context.Background(), "definitely-not-here", nil, IOBindings{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
