package interpreter

import (
	"fmt"

	"github.com/oarkflow/errors"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedFunction = errors.New("undefined function")
)

// Function is a declared function together with the scope it was declared in.
type Function struct {
	Declaration *FunctionDecl
	Closure     *Environment
}

func (f *Function) Arity() int {
	return len(f.Declaration.Params)
}

func (f *Function) String() string {
	return "<funct " + f.Declaration.Name.Lexeme + ">"
}

type bindingKind int

const (
	variableBinding bindingKind = iota
	functionBinding
)

type binding struct {
	kind  bindingKind
	value Value
	fn    *Function
}

// Environment is one lexical scope. Variables and functions share the
// namespace of a scope but lookups only match bindings of the requested kind.
type Environment struct {
	store map[string]binding
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]binding)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Outer() *Environment {
	return e.outer
}

// Define binds name to a variable in this scope, replacing any previous
// binding of the name here.
func (e *Environment) Define(name string, val Value) {
	e.store[name] = binding{kind: variableBinding, value: val}
}

func (e *Environment) DefineFunction(name string, fn *Function) {
	e.store[name] = binding{kind: functionBinding, fn: fn}
}

func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok && b.kind == variableBinding {
			return b.value, nil
		}
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// Assign updates the nearest variable named name.
func (e *Environment) Assign(name string, val Value) error {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok && b.kind == variableBinding {
			env.store[name] = binding{kind: variableBinding, value: val}
			return nil
		}
	}
	return fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

func (e *Environment) GetFunction(name string) (*Function, error) {
	for env := e; env != nil; env = env.outer {
		if b, ok := env.store[name]; ok && b.kind == functionBinding {
			return b.fn, nil
		}
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefinedFunction, name)
}
