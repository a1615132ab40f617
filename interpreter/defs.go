package interpreter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Exec runs a cash script in a fresh session. data is bound as global
// variables before the first line runs. The returned session keeps its
// globals but its interpreter is already closed.
func Exec(ctx context.Context, script string, data map[string]any, opts ...Option) (*Session, error) {
	session := NewSession(New(opts...))
	defer session.Close()
	if err := injectData(session, data); err != nil {
		return session, err
	}
	return session, session.Run(ctx, strings.NewReader(script))
}

// ExecFile runs the cash script stored in filename.
func ExecFile(ctx context.Context, filename string, data map[string]any, opts ...Option) (*Session, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Exec(ctx, string(content), data, opts...)
}

func injectData(s *Session, data map[string]any) error {
	for k, v := range data {
		val, err := FromGo(v)
		if err != nil {
			return fmt.Errorf("global %q: %w", k, err)
		}
		s.Define(k, val)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
	}
}
