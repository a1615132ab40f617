package interpreter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oarkflow/cash/pkg/executor"
)

const clearScreen = "\033[H\033[2J"

func (in *Interpreter) execTime() error {
	fmt.Fprintln(in.stdout, in.now().Format(time.ANSIC))
	return nil
}

func (in *Interpreter) execClear() error {
	fmt.Fprint(in.stdout, clearScreen)
	return nil
}

func (in *Interpreter) execPwd(s *Pwd) error {
	dir, err := os.Getwd()
	if err != nil {
		rerr := runtimeError(s.Keyword, "pwd: %v", err)
		rerr.Cause = err
		return rerr
	}
	fmt.Fprintln(in.stdout, dir)
	return nil
}

func (in *Interpreter) execCd(ctx context.Context, s *Cd, env *Environment) error {
	home, homeErr := os.UserHomeDir()
	target := home
	if s.Path != nil {
		val, err := in.Evaluate(ctx, s.Path, env)
		if err != nil {
			return err
		}
		path, ok := val.(String)
		if !ok {
			return runtimeError(s.Keyword, "cd: expected a path string but got %s.", typeOf(val))
		}
		target = path.Value
		if target == "~" || strings.HasPrefix(target, "~/") {
			if homeErr != nil {
				return runtimeError(s.Keyword, "cd: HOME not set")
			}
			target = filepath.Join(home, target[1:])
		}
	} else if homeErr != nil {
		return runtimeError(s.Keyword, "cd: HOME not set")
	}

	if err := os.Chdir(target); err != nil {
		var rerr *Error
		switch {
		case errors.Is(err, fs.ErrNotExist):
			rerr = runtimeError(s.Keyword, "cd: %s: No such file or directory", target)
		case errors.Is(err, fs.ErrPermission):
			rerr = runtimeError(s.Keyword, "cd: %s: Permission denied", target)
		default:
			rerr = runtimeError(s.Keyword, "cd: %s: %v", target, unwrapPathError(err))
		}
		rerr.Cause = err
		return rerr
	}
	in.logger.Debug().Str("dir", target).Msg("changed directory")
	return nil
}

func (in *Interpreter) execRun(ctx context.Context, s *Run, env *Environment) error {
	program, err := in.Evaluate(ctx, s.Program, env)
	if err != nil {
		return err
	}
	name, ok := program.(String)
	if !ok || name.Value == "" {
		return runtimeError(s.Keyword, "run: program name must be a non-empty string.")
	}
	args := make([]string, 0, len(s.Arguments))
	for _, arg := range s.Arguments {
		val, err := in.Evaluate(ctx, arg, env)
		if err != nil {
			return err
		}
		args = append(args, inspect(val))
	}

	status, err := in.executor.Execute(ctx, name.Value, args, executor.IOBindings{
		Stdin:  in.stdin,
		Stdout: in.stdout,
		Stderr: in.stderr,
	})
	if err != nil {
		var rerr *Error
		if errors.Is(err, executor.ErrNotFound) {
			rerr = runtimeError(s.Keyword, "%s: command not found", name.Value)
		} else {
			rerr = runtimeError(s.Keyword, "%s: %v", name.Value, err)
		}
		rerr.Cause = err
		return rerr
	}
	if status != 0 {
		fmt.Fprintf(in.stderr, "warning: %s exited with status %d\n", name.Value, status)
	}
	return nil
}

func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
