package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto"
	"github.com/oarkflow/log"
)

// Executor launches an external program and waits for it.
type Executor interface {
	Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error)
}

var ErrNotFound = errors.New("not found")

type IOBindings struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type Option func(*DefaultExecutor)

func WithLogger(logger *log.Logger) Option {
	return func(e *DefaultExecutor) {
		e.logger = logger
	}
}

// WithCacheSize sets how many resolved PATH entries are kept.
func WithCacheSize(size int) Option {
	return func(e *DefaultExecutor) {
		e.cacheSize = size
	}
}

// WithPathFunc replaces the source of the PATH variable.
func WithPathFunc(fn func() string) Option {
	return func(e *DefaultExecutor) {
		e.pathFunc = fn
	}
}

// DefaultExecutor resolves a program as given, then against each PATH
// directory in order, and runs it with exec.CommandContext.
type DefaultExecutor struct {
	cache     *ristretto.Cache
	cacheSize int
	pathFunc  func() string
	logger    *log.Logger
}

func New(opts ...Option) (*DefaultExecutor, error) {
	e := &DefaultExecutor{
		cacheSize: 256,
		pathFunc:  func() string { return os.Getenv("PATH") },
		logger:    &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: os.Stderr}},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: int64(e.cacheSize * 10),
			MaxCost:     int64(e.cacheSize),
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create command cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Lookup returns the path that Execute would run for name.
func (e *DefaultExecutor) Lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if isExecutable(name) {
		// exec.Command would search PATH for a bare name.
		if abs, err := filepath.Abs(name); err == nil {
			return abs, true
		}
		return name, true
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		return "", false
	}
	pathEnv := e.pathFunc()
	dirs := filepath.SplitList(pathEnv)
	key := name + "\x00" + pathEnv
	if e.cache != nil {
		if cached, found := e.cache.Get(key); found {
			if path, ok := cached.(string); ok && isExecutable(path) {
				// A program added to an earlier PATH directory shadows the cached one.
				if earlier, ok := search(dirs, name, path); ok {
					e.remember(key, earlier)
					return earlier, true
				}
				e.logger.Debug().Str("program", name).Str("path", path).Msg("command cache hit")
				return path, true
			}
			e.cache.Del(key)
		}
	}
	if candidate, ok := search(dirs, name, ""); ok {
		e.remember(key, candidate)
		return candidate, true
	}
	return "", false
}

// search returns the first executable name in dirs, giving up once it reaches
// the path stop.
func search(dirs []string, name, stop string) (string, bool) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if candidate == stop {
			return "", false
		}
		if isExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (e *DefaultExecutor) remember(key, path string) {
	if e.cache != nil {
		e.cache.Set(key, path, 1)
		e.cache.Wait()
	}
}

func (e *DefaultExecutor) Execute(ctx context.Context, name string, args []string, io IOBindings) (int, error) {
	path, ok := e.Lookup(name)
	if !ok {
		return -1, ErrNotFound
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Args = append([]string{name}, args...)
	cmd.Stdin = io.Stdin
	cmd.Stdout = io.Stdout
	cmd.Stderr = io.Stderr

	e.logger.Debug().Str("program", name).Str("path", path).Int("args", len(args)).Msg("starting process")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			e.logger.Debug().Str("program", name).Int("status", exitErr.ExitCode()).Msg("process exited")
			return exitErr.ExitCode(), nil
		}
		return -1, err
	}
	e.logger.Debug().Str("program", name).Int("status", 0).Msg("process exited")
	return 0, nil
}

// Close releases the command cache.
func (e *DefaultExecutor) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
