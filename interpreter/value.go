package interpreter

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/oarkflow/convert"
)

type ValueType int

const (
	NULL_VALUE ValueType = iota
	INTEGER_VALUE
	FLOAT_VALUE
	STRING_VALUE
	BOOLEAN_VALUE
)

func (vt ValueType) String() string {
	switch vt {
	case INTEGER_VALUE:
		return "INTEGER"
	case FLOAT_VALUE:
		return "FLOAT"
	case STRING_VALUE:
		return "STRING"
	case BOOLEAN_VALUE:
		return "BOOLEAN"
	default:
		return "NULL"
	}
}

// Value is one of Integer, Float, String or Boolean. A nil Value is null.
type Value interface {
	Type() ValueType
	Inspect() string
	value()
}

type Integer struct {
	Value int64
}

func (i Integer) Type() ValueType { return INTEGER_VALUE }
func (i Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }
func (Integer) value()            {}

type Float struct {
	Value float64
}

func (f Float) Type() ValueType { return FLOAT_VALUE }
func (f Float) Inspect() string { return fmt.Sprintf("%f", f.Value) }
func (Float) value()            {}

type String struct {
	Value string
}

func (s String) Type() ValueType { return STRING_VALUE }
func (s String) Inspect() string { return s.Value }
func (String) value()            {}

type Boolean struct {
	Value bool
}

func (b Boolean) Type() ValueType { return BOOLEAN_VALUE }
// Inspect renders a boolean the way arithmetic sees it, as 1 or 0.
func (b Boolean) Inspect() string {
	if b.Value {
		return "1"
	}
	return "0"
}
func (Boolean) value()            {}

func typeOf(v Value) ValueType {
	if v == nil {
		return NULL_VALUE
	}
	return v.Type()
}

func inspect(v Value) string {
	if v == nil {
		return "null"
	}
	return v.Inspect()
}

// render is the echo form of v: strings have literal "\n" sequences expanded.
func render(v Value) string {
	if s, ok := v.(String); ok {
		return strings.ReplaceAll(s.Value, `\n`, "\n")
	}
	return inspect(v)
}

func isTruthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case Integer:
		return v.Value != 0
	case Float:
		return v.Value != 0
	case String:
		return v.Value != ""
	case Boolean:
		return v.Value
	default:
		return true
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// FromGo converts a host value into an interpreter value. It is used to seed
// global variables from configuration.
func FromGo(val any) (Value, error) {
	if val == nil {
		return nil, nil
	}
	if v, ok := val.(Value); ok {
		return v, nil
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Bool:
		return Boolean{Value: rv.Bool()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer{Value: rv.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer{Value: int64(rv.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return Float{Value: rv.Float()}, nil
	case reflect.String:
		return String{Value: rv.String()}, nil
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct, reflect.Func, reflect.Chan:
		return nil, fmt.Errorf("unsupported global value of kind %s", rv.Kind())
	}
	if f, ok := convert.ToFloat64(val); ok {
		return Float{Value: f}, nil
	}
	if s, ok := convert.ToString(val); ok {
		return String{Value: s}, nil
	}
	return nil, fmt.Errorf("unsupported global value %T", val)
}
