package interpreter

import (
	"io"
	"os"
	"time"

	"github.com/oarkflow/log"

	"github.com/oarkflow/cash/pkg/executor"
)

// DefaultMaxCallDepth applies when RuntimeConfig.MaxCallDepth is not positive.
const DefaultMaxCallDepth = 1024

type RuntimeConfig struct {
	// MaxCallDepth bounds nested function calls. The bound is always enforced
	// so that runaway recursion stays a runtime error.
	MaxCallDepth int
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{MaxCallDepth: DefaultMaxCallDepth}
}

// NewLogger returns a logger writing to w at the named level. An empty level
// means error.
func NewLogger(level string, w io.Writer) *log.Logger {
	lvl := log.ErrorLevel
	if level != "" {
		lvl = log.ParseLevel(level)
	}
	return &log.Logger{
		Level:  lvl,
		Writer: &log.IOWriter{Writer: w},
	}
}

type Option func(*Interpreter)

func WithLogger(logger *log.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

func WithStdin(r io.Reader) Option {
	return func(in *Interpreter) {
		in.stdin = r
	}
}

func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) {
		in.stdout = w
	}
}

func WithStderr(w io.Writer) Option {
	return func(in *Interpreter) {
		in.stderr = w
	}
}

func WithExecutor(exec executor.Executor) Option {
	return func(in *Interpreter) {
		in.executor = exec
	}
}

// WithClock replaces the wall clock read by the time statement.
func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) {
		in.now = now
	}
}

func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(in *Interpreter) {
		in.config = cfg
	}
}

func defaultInterpreter() *Interpreter {
	return &Interpreter{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
		config: DefaultRuntimeConfig(),
		logger: NewLogger("error", os.Stderr),
	}
}
