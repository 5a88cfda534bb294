package interpreter

import (
	"github.com/funvibe/lox/internal/ast"
	"github.com/funvibe/lox/internal/diagnostics"
)

// Callable is any Object that can appear on the left of a call
// expression: user functions, lambdas, classes (construction) and
// natives such as clock.
type Callable interface {
	Object
	Arity() int
	Call(interp *Interpreter, args []Object) (Object, *diagnostics.Diagnostic)
}

// LoxFunction is a named function, method, getter, initializer or static
// method: a declaration plus the environment it closed over.
type LoxFunction struct {
	declaration *ast.Function
	closure     *Environment
	kind        ast.FunctionKind
}

func NewLoxFunction(decl *ast.Function, closure *Environment, kind ast.FunctionKind) *LoxFunction {
	return &LoxFunction{declaration: decl, closure: closure, kind: kind}
}

func (f *LoxFunction) String() string { return "<fn " + f.declaration.Name.Lexeme + ">" }

func (f *LoxFunction) Arity() int { return len(f.declaration.Params) }

// Bind returns a copy of f whose closure additionally binds "this" to
// instance — how a method becomes a bound, callable value when read off
// an instance.
func (f *LoxFunction) Bind(instance *Instance) *LoxFunction {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return NewLoxFunction(f.declaration, env, f.kind)
}

func (f *LoxFunction) Call(interp *Interpreter, args []Object) (Object, *diagnostics.Diagnostic) {
	if len(args) < len(f.declaration.Params) {
		return nil, diagnostics.New(diagnostics.RuntimeErr, f.declaration.Name, "not enough arguments")
	}
	env := NewEnvironment(f.closure)
	for idx, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}

	flowResult, err := interp.executeBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}

	if f.kind == ast.KindInitializer {
		return f.closure.GetAt(0, thisToken)
	}
	if flowResult != nil && flowResult.kind == flowReturn {
		return flowResult.value, nil
	}
	return Nil{}, nil
}

// LambdaFunction is an anonymous function expression. It captures the
// interpreter's global environment rather than its lexical scope — a
// quirk inherited from the language this was distilled from, kept as-is.
type LambdaFunction struct {
	declaration *ast.Lambda
}

func NewLambdaFunction(decl *ast.Lambda) *LambdaFunction {
	return &LambdaFunction{declaration: decl}
}

func (f *LambdaFunction) String() string { return "<fn lambda>" }

func (f *LambdaFunction) Arity() int { return len(f.declaration.Params) }

func (f *LambdaFunction) Call(interp *Interpreter, args []Object) (Object, *diagnostics.Diagnostic) {
	if len(args) < len(f.declaration.Params) {
		return nil, diagnostics.New(diagnostics.RuntimeErr, f.declaration.Params[0], "not enough arguments")
	}
	env := NewEnvironment(interp.Global)
	for idx, param := range f.declaration.Params {
		env.Define(param.Lexeme, args[idx])
	}
	flowResult, err := interp.executeBlock(f.declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if flowResult != nil && flowResult.kind == flowReturn {
		return flowResult.value, nil
	}
	return Nil{}, nil
}
