package interpreter

import (
	"github.com/funvibe/lox/internal/ast"
	"github.com/funvibe/lox/internal/diagnostics"
	"github.com/funvibe/lox/internal/token"
)

// Class is a runtime class value: a name, an optional superclass, and
// its own methods (instance, getter and static all share one table, so
// a static method is found both on the class and, bound, on an
// instance).
type Class struct {
	Name       string
	superclass *Class
	methods    map[string]*LoxFunction
}

func NewClass(name string, superclass *Class, methods map[string]*LoxFunction) *Class {
	return &Class{Name: name, superclass: superclass, methods: methods}
}

func (c *Class) String() string { return c.Name }

// FindMethod looks up name on this class, then walks up the inheritance
// chain.
func (c *Class) FindMethod(name string) (*LoxFunction, bool) {
	if m, ok := c.methods[name]; ok {
		return m, true
	}
	if c.superclass != nil {
		return c.superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance, running its "init" method if one
// exists.
func (c *Class) Call(interp *Interpreter, args []Object) (Object, *diagnostics.Diagnostic) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a class plus its own field table.
type Instance struct {
	class  *Class
	fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: map[string]Object{}}
}

func (in *Instance) String() string { return "<" + in.class.Name + " instance>" }

// Get reads a field first, then falls back to a bound method.
func (in *Instance) Get(name token.Token) (Object, *diagnostics.Diagnostic) {
	if v, ok := in.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method, ok := in.class.FindMethod(name.Lexeme); ok {
		return method.Bind(in), nil
	}
	return nil, diagnostics.New(diagnostics.RuntimeErr, name, "Undefined property.")
}

// GetGetter returns the bound-ready getter method for name, if the class
// defines one — checked before an ordinary field/method lookup so a
// getter always wins over a same-named field.
func (in *Instance) GetGetter(name token.Token) *LoxFunction {
	if method, ok := in.class.FindMethod(name.Lexeme); ok {
		if method.kind == ast.KindGetterMethod {
			return method
		}
	}
	return nil
}

func (in *Instance) Set(name string, value Object) {
	in.fields[name] = value
}
