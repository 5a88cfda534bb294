package interpreter

import "fmt"

// Object is any Lox runtime value. Concrete types implement it directly;
// *LoxFunction, *LambdaFunction, *Class and *Instance also satisfy it
// (see function.go, class.go).
type Object interface {
	String() string
}

// Boolean is a Lox true/false value.
type Boolean bool

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is a Lox numeric value, always a float64 as in the source
// language.
type Number float64

func (n Number) String() string { return formatNumber(float64(n)) }

func formatNumber(f float64) string { return fmt.Sprintf("%g", f) }

// String is a Lox string value.
type String string

func (s String) String() string { return string(s) }

// Nil is Lox's `nil` literal.
type Nil struct{}

func (Nil) String() string { return "nil" }

// Undefined marks a declared-but-unassigned variable (`var x;`). It is
// never produced by source literals — only by Var statements with no
// initializer — and reading one is a runtime error.
type Undefined struct{}

func (Undefined) String() string { return "undefined" }

// Truthy implements Lox truthiness: false, nil and undefined are falsy,
// everything else (including 0 and "") is truthy.
func Truthy(o Object) bool {
	switch v := o.(type) {
	case Boolean:
		return bool(v)
	case Nil:
		return false
	case Undefined:
		return false
	default:
		return true
	}
}

// Equal implements Lox's `==`: values of different dynamic types are
// never equal, and function, *Class and *Instance values are never equal
// to anything, not even themselves, matching the value model this was
// distilled from.
func Equal(a, b Object) bool {
	switch av := a.(type) {
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	default:
		return false
	}
}
