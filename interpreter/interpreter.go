package interpreter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/oarkflow/log"

	"github.com/oarkflow/cash/pkg/executor"
)

// Outcome reports how a statement finished. Returned is set when a return
// statement unwound through it, carrying the returned value.
type Outcome struct {
	Returned bool
	Value    Value
}

// Interpreter walks statements and expressions against an Environment.
type Interpreter struct {
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	executor executor.Executor
	now      func() time.Time
	config   RuntimeConfig
	logger   *log.Logger
	depth    int
	// owned is the executor New created itself and Close releases.
	owned *executor.DefaultExecutor
}

func New(opts ...Option) *Interpreter {
	in := defaultInterpreter()
	for _, opt := range opts {
		opt(in)
	}
	if in.executor == nil {
		exec, err := executor.New(executor.WithLogger(in.logger))
		if err != nil {
			in.logger.Warn().Err(err).Msg("command cache disabled")
			exec, _ = executor.New(executor.WithLogger(in.logger), executor.WithCacheSize(0))
		}
		in.executor = exec
		in.owned = exec
	}
	return in
}

// Close releases the executor New created when none was supplied with
// WithExecutor. An executor passed in by the caller is left open.
func (in *Interpreter) Close() {
	if in.owned != nil {
		in.owned.Close()
		in.owned = nil
	}
}

func (in *Interpreter) Logger() *log.Logger {
	return in.logger
}

func (in *Interpreter) Stdout() io.Writer {
	return in.stdout
}

func (in *Interpreter) Stderr() io.Writer {
	return in.stderr
}

// Execute runs one statement in env.
func (in *Interpreter) Execute(ctx context.Context, stmt Stmt, env *Environment) (Outcome, error) {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := in.Evaluate(ctx, s.Expression, env)
		return Outcome{}, err

	case *VarDecl:
		// An uninitialized variable starts at 0.
		val := Value(Integer{})
		if s.Initializer != nil {
			v, err := in.Evaluate(ctx, s.Initializer, env)
			if err != nil {
				return Outcome{}, err
			}
			val = v
		}
		env.Define(s.Name.Lexeme, val)
		return Outcome{}, nil

	case *FunctionDecl:
		env.DefineFunction(s.Name.Lexeme, &Function{Declaration: s, Closure: env})
		return Outcome{}, nil

	case *Block:
		return in.executeBlock(ctx, s.Statements, NewEnclosedEnvironment(env))

	case *If:
		cond, err := in.Evaluate(ctx, s.Condition, env)
		if err != nil {
			return Outcome{}, err
		}
		if isTruthy(cond) {
			return in.Execute(ctx, s.Then, env)
		}
		if s.Else != nil {
			return in.Execute(ctx, s.Else, env)
		}
		return Outcome{}, nil

	case *While:
		return in.loop(ctx, s.Condition, nil, s.Body, env)

	case *For:
		scope := NewEnclosedEnvironment(env)
		if s.Init != nil {
			if _, err := in.Execute(ctx, s.Init, scope); err != nil {
				return Outcome{}, err
			}
		}
		return in.loop(ctx, s.Condition, s.Increment, s.Body, scope)

	case *Return:
		if in.depth == 0 {
			err := runtimeError(s.Keyword, "Can't return from top-level code.")
			err.Cause = ErrReturnOutsideFunction
			return Outcome{}, err
		}
		var val Value
		if s.Value != nil {
			v, err := in.Evaluate(ctx, s.Value, env)
			if err != nil {
				return Outcome{}, err
			}
			val = v
		}
		return Outcome{Returned: true, Value: val}, nil

	case *Echo:
		val, err := in.Evaluate(ctx, s.Expression, env)
		if err != nil {
			return Outcome{}, err
		}
		fmt.Fprintln(in.stdout, render(val))
		return Outcome{}, nil

	case *Time:
		return Outcome{}, in.execTime()
	case *Clear:
		return Outcome{}, in.execClear()
	case *Pwd:
		return Outcome{}, in.execPwd(s)
	case *Cd:
		return Outcome{}, in.execCd(ctx, s, env)
	case *Run:
		return Outcome{}, in.execRun(ctx, s, env)
	}
	return Outcome{}, &Error{Code: ErrCodeInternal, Message: fmt.Sprintf("unknown statement %T", stmt)}
}

func (in *Interpreter) executeBlock(ctx context.Context, statements []Stmt, env *Environment) (Outcome, error) {
	for _, stmt := range statements {
		out, err := in.Execute(ctx, stmt, env)
		if err != nil || out.Returned {
			return out, err
		}
	}
	return Outcome{}, nil
}

// loop runs body while cond is truthy. A nil cond loops until a return, an
// error or cancellation.
func (in *Interpreter) loop(ctx context.Context, cond, increment Expr, body Stmt, env *Environment) (Outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Outcome{}, interrupted(err)
		}
		if cond != nil {
			c, err := in.Evaluate(ctx, cond, env)
			if err != nil {
				return Outcome{}, err
			}
			if !isTruthy(c) {
				return Outcome{}, nil
			}
		}
		out, err := in.Execute(ctx, body, env)
		if err != nil || out.Returned {
			return out, err
		}
		if increment != nil {
			if _, err := in.Evaluate(ctx, increment, env); err != nil {
				return Outcome{}, err
			}
		}
	}
}
