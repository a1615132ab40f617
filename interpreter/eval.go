package interpreter

import (
	"context"
	"fmt"
)

// Evaluate computes the value of expr in env. A nil Value is null.
func (in *Interpreter) Evaluate(ctx context.Context, expr Expr, env *Environment) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil

	case *Identifier:
		val, err := env.Get(e.Name.Lexeme)
		if err != nil {
			rerr := runtimeError(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
			rerr.Cause = err
			return nil, rerr
		}
		return val, nil

	case *Grouping:
		return in.Evaluate(ctx, e.Expression, env)

	case *Unary:
		right, err := in.Evaluate(ctx, e.Right, env)
		if err != nil {
			return nil, err
		}
		return evalUnary(e.Operator, right)

	case *Binary:
		left, err := in.Evaluate(ctx, e.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.Evaluate(ctx, e.Right, env)
		if err != nil {
			return nil, err
		}
		return evalBinary(e.Operator, left, right)

	case *Logical:
		left, err := in.Evaluate(ctx, e.Left, env)
		if err != nil {
			return nil, err
		}
		if e.Operator.Type == TOKEN_OR {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}
		return in.Evaluate(ctx, e.Right, env)

	case *Assign:
		val, err := in.Evaluate(ctx, e.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(e.Name.Lexeme, val); err != nil {
			rerr := runtimeError(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
			rerr.Cause = err
			return nil, rerr
		}
		return nil, nil

	case *Call:
		return in.call(ctx, e, env)
	}
	return nil, &Error{Code: ErrCodeInternal, Message: fmt.Sprintf("unknown expression %T", expr)}
}

func (in *Interpreter) call(ctx context.Context, c *Call, env *Environment) (Value, error) {
	callee, ok := c.Callee.(*Identifier)
	if !ok {
		return nil, runtimeError(c.Paren, "Can only call functions.")
	}
	args := make([]Value, 0, len(c.Arguments))
	for _, arg := range c.Arguments {
		val, err := in.Evaluate(ctx, arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	fn, err := env.GetFunction(callee.Name.Lexeme)
	if err != nil {
		rerr := runtimeError(callee.Name, "Undefined function '%s'.", callee.Name.Lexeme)
		rerr.Cause = err
		return nil, rerr
	}
	if len(args) != fn.Arity() {
		return nil, runtimeError(c.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	limit := in.config.MaxCallDepth
	if limit <= 0 {
		limit = DefaultMaxCallDepth
	}
	if in.depth >= limit {
		rerr := runtimeError(callee.Name, "Maximum call depth of %d exceeded.", limit)
		rerr.Cause = ErrCallDepthExceeded
		return nil, rerr
	}
	if err := ctx.Err(); err != nil {
		return nil, interrupted(err)
	}

	scope := NewEnclosedEnvironment(fn.Closure)
	for i, param := range fn.Declaration.Params {
		scope.Define(param.Lexeme, args[i])
	}
	in.depth++
	defer func() { in.depth-- }()
	out, err := in.executeBlock(ctx, fn.Declaration.Body, scope)
	if err != nil {
		return nil, err
	}
	return out.Value, nil
}

func evalUnary(op Token, right Value) (Value, error) {
	switch op.Type {
	case TOKEN_NOT:
		return Boolean{Value: !isTruthy(right)}, nil
	case TOKEN_MINUS:
		switch r := right.(type) {
		case Integer:
			return Integer{Value: -r.Value}, nil
		case Float:
			return Float{Value: -r.Value}, nil
		case Boolean:
			return Integer{Value: -boolToInt(r.Value)}, nil
		}
		return nil, runtimeError(op, "Operand must be a number.")
	case TOKEN_TILDE:
		switch r := right.(type) {
		case Integer:
			return Integer{Value: ^r.Value}, nil
		case Boolean:
			return Integer{Value: ^boolToInt(r.Value)}, nil
		}
		return nil, runtimeError(op, "Operand must be an integer.")
	}
	return nil, runtimeError(op, "Unknown unary operator.")
}

func evalBinary(op Token, left, right Value) (Value, error) {
	if left == nil || right == nil {
		switch op.Type {
		case TOKEN_EQ:
			return Boolean{Value: left == nil && right == nil}, nil
		case TOKEN_NEQ:
			return Boolean{Value: left != nil || right != nil}, nil
		}
		return nil, runtimeError(op, "Operands must not be null.")
	}

	ls, lok := left.(String)
	rs, rok := right.(String)
	if lok || rok {
		if op.Type != TOKEN_PLUS {
			return nil, runtimeError(op, "Binary operator is not allowed on strings!")
		}
		l, r := ls.Value, rs.Value
		if !lok {
			l = inspect(left)
		}
		if !rok {
			r = inspect(right)
		}
		return String{Value: l + r}, nil
	}

	left, right = numeric(left), numeric(right)
	li, lInt := left.(Integer)
	ri, rInt := right.(Integer)
	if lInt && rInt {
		return integerOp(op, li.Value, ri.Value)
	}
	return floatOp(op, toFloat(left), toFloat(right))
}

// numeric coerces booleans to 0 or 1.
func numeric(v Value) Value {
	if b, ok := v.(Boolean); ok {
		return Integer{Value: boolToInt(b.Value)}
	}
	return v
}

func toFloat(v Value) float64 {
	switch n := v.(type) {
	case Integer:
		return float64(n.Value)
	case Float:
		return n.Value
	}
	return 0
}

func integerOp(op Token, l, r int64) (Value, error) {
	switch op.Type {
	case TOKEN_PLUS:
		return Integer{Value: l + r}, nil
	case TOKEN_MINUS:
		return Integer{Value: l - r}, nil
	case TOKEN_MULTIPLY:
		return Integer{Value: l * r}, nil
	case TOKEN_DIVIDE:
		if r == 0 {
			return nil, runtimeError(op, "Division by zero.")
		}
		return Float{Value: float64(l) / float64(r)}, nil
	case TOKEN_MODULO:
		if r == 0 {
			return nil, runtimeError(op, "Modulo by zero.")
		}
		return Integer{Value: l % r}, nil
	case TOKEN_GT:
		return Boolean{Value: l > r}, nil
	case TOKEN_GTE:
		return Boolean{Value: l >= r}, nil
	case TOKEN_LT:
		return Boolean{Value: l < r}, nil
	case TOKEN_LTE:
		return Boolean{Value: l <= r}, nil
	case TOKEN_EQ:
		return Boolean{Value: l == r}, nil
	case TOKEN_NEQ:
		return Boolean{Value: l != r}, nil
	}
	return nil, runtimeError(op, "Unknown binary operator.")
}

func floatOp(op Token, l, r float64) (Value, error) {
	switch op.Type {
	case TOKEN_PLUS:
		return Float{Value: l + r}, nil
	case TOKEN_MINUS:
		return Float{Value: l - r}, nil
	case TOKEN_MULTIPLY:
		return Float{Value: l * r}, nil
	case TOKEN_DIVIDE:
		if r == 0 {
			return nil, runtimeError(op, "Division by zero.")
		}
		return Float{Value: l / r}, nil
	case TOKEN_MODULO:
		return nil, runtimeError(op, "Operands of '%%' must be integers.")
	case TOKEN_GT:
		return Boolean{Value: l > r}, nil
	case TOKEN_GTE:
		return Boolean{Value: l >= r}, nil
	case TOKEN_LT:
		return Boolean{Value: l < r}, nil
	case TOKEN_LTE:
		return Boolean{Value: l <= r}, nil
	case TOKEN_EQ:
		return Boolean{Value: l == r}, nil
	case TOKEN_NEQ:
		return Boolean{Value: l != r}, nil
	}
	return nil, runtimeError(op, "Unknown binary operator.")
}
