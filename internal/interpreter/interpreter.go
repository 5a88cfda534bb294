// Package interpreter evaluates a resolved AST: environments, functions,
// classes and the tree-walking evaluator itself.
package interpreter

import (
	"fmt"
	"io"

	"github.com/funvibe/lox/internal/ast"
	"github.com/funvibe/lox/internal/diagnostics"
	"github.com/funvibe/lox/internal/resolver"
	"github.com/funvibe/lox/internal/token"
)

type flowKind int

const (
	flowNone flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

// flow is how break/continue/return travel back up through the recursive
// exec/eval calls without becoming a user-visible error.
type flow struct {
	kind  flowKind
	value Object
}

var thisToken = token.Token{Type: token.This, Lexeme: "this"}

// Interpreter walks a resolved statement list, evaluating it against a
// chain of Environments rooted at Global.
type Interpreter struct {
	Global      *Environment
	environment *Environment
	locals      resolver.Locals
	writer      io.Writer
}

func New(writer io.Writer, locals resolver.Locals) *Interpreter {
	global := NewEnvironment(nil)
	global.Define("clock", clockFunction{})
	return &Interpreter{Global: global, environment: global, locals: locals, writer: writer}
}

// SetLocals replaces the resolver output consulted by variable lookups —
// used by a REPL that re-resolves after each new line.
func (i *Interpreter) SetLocals(locals resolver.Locals) {
	i.locals = locals
}

// Interpret executes every statement in order, stopping at the first
// runtime error. A break/continue/return surfacing all the way to the
// top level would mean the parser/resolver let an invalid program
// through — it is silently absorbed rather than crashing the host.
func (i *Interpreter) Interpret(stmts []ast.Stmt) *diagnostics.Diagnostic {
	for _, stmt := range stmts {
		_, err := i.execute(stmt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *Environment) (*flow, *diagnostics.Diagnostic) {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, stmt := range stmts {
		f, err := i.execute(stmt)
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}
	return nil, nil
}

func (i *Interpreter) lookupVariable(name token.Token, id ast.NodeID) (Object, *diagnostics.Diagnostic) {
	if distance, ok := i.locals[id]; ok {
		return i.environment.GetAt(distance, name)
	}
	return i.Global.Get(name)
}

// ---- statement execution ----

func (i *Interpreter) execute(stmt ast.Stmt) (*flow, *diagnostics.Diagnostic) {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Stmts, NewEnvironment(i.environment))
	case *ast.Break:
		return &flow{kind: flowBreak}, nil
	case *ast.Continue:
		return &flow{kind: flowContinue}, nil
	case *ast.Class:
		return nil, i.executeClass(s)
	case *ast.Expression:
		_, err := i.evaluate(s.Expr)
		return nil, err
	case *ast.Function:
		fn := NewLoxFunction(s, i.environment, s.Kind)
		i.environment.Define(s.Name.Lexeme, fn)
		return nil, nil
	case *ast.If:
		cond, err := i.evaluate(s.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return i.executeBlock(s.Then.Stmts, NewEnvironment(i.environment))
		}
		if s.Else != nil {
			return i.executeBlock(s.Else.Stmts, NewEnvironment(i.environment))
		}
		return nil, nil
	case *ast.Print:
		value, err := i.evaluate(s.Expr)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(i.writer, value.String())
		return nil, nil
	case *ast.Return:
		if s.Value == nil {
			return &flow{kind: flowReturn, value: Nil{}}, nil
		}
		value, err := i.evaluate(s.Value)
		if err != nil {
			return nil, err
		}
		return &flow{kind: flowReturn, value: value}, nil
	case *ast.Var:
		if s.Initializer != nil {
			value, err := i.evaluate(s.Initializer)
			if err != nil {
				return nil, err
			}
			i.environment.Define(s.Name.Lexeme, value)
		} else {
			i.environment.Define(s.Name.Lexeme, Undefined{})
		}
		return nil, nil
	case *ast.While:
		for {
			cond, err := i.evaluate(s.Cond)
			if err != nil {
				return nil, err
			}
			if !Truthy(cond) {
				break
			}
			f, err := i.executeBlock(s.Body.Stmts, NewEnvironment(i.environment))
			if err != nil {
				return nil, err
			}
			if f != nil {
				switch f.kind {
				case flowBreak:
					return nil, nil
				case flowContinue:
					// Fall through to run Increment below — a continue
					// unwinds the body before any increment folded into
					// it would run, so the increment lives outside Body.
				default:
					return f, nil
				}
			}
			if s.Increment != nil {
				if _, err := i.evaluate(s.Increment); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	}
	return nil, nil
}

func (i *Interpreter) executeClass(stmt *ast.Class) *diagnostics.Diagnostic {
	var superclass *Class
	if stmt.Superclass != nil {
		value, err := i.evaluate(stmt.Superclass)
		if err != nil {
			return err
		}
		sc, ok := value.(*Class)
		if !ok {
			return diagnostics.New(diagnostics.RuntimeErr, stmt.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	if superclass != nil {
		i.environment = NewEnvironment(i.environment)
		i.environment.Define("super", superclass)
	}

	methods := map[string]*LoxFunction{}
	for _, m := range stmt.Methods {
		methods[m.Name.Lexeme] = NewLoxFunction(m, i.environment, m.Kind)
	}
	for _, m := range stmt.GetterMethods {
		methods[m.Name.Lexeme] = NewLoxFunction(m, i.environment, ast.KindGetterMethod)
	}
	for _, m := range stmt.StaticMethods {
		methods[m.Name.Lexeme] = NewLoxFunction(m, NewEnvironment(nil), ast.KindStaticMethod)
	}

	class := NewClass(stmt.Name.Lexeme, superclass, methods)

	if superclass != nil {
		i.environment = i.environment.enclosing
	}

	i.environment.Define(stmt.Name.Lexeme, class)
	return nil
}

// ---- expression evaluation ----

func (i *Interpreter) evaluate(expr ast.Expr) (Object, *diagnostics.Diagnostic) {
	switch e := expr.(type) {
	case *ast.Assign:
		value, err := i.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if distance, ok := i.locals[e.ID()]; ok {
			if err := i.environment.AssignAt(distance, e.Name, value); err != nil {
				return nil, err
			}
		} else if err := i.Global.Assign(e.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.Binary:
		return i.evaluateBinary(e)
	case *ast.Call:
		return i.evaluateCall(e)
	case *ast.Get:
		return i.evaluateGet(e)
	case *ast.Grouping:
		return i.evaluate(e.Inner)
	case *ast.Lambda:
		return NewLambdaFunction(e), nil
	case *ast.Literal:
		return literalObject(e.Value), nil
	case *ast.Logical:
		left, err := i.evaluate(e.Left)
		if err != nil {
			return nil, err
		}
		if Truthy(left) && e.Operator.Type == token.Or {
			return left, nil
		}
		if !Truthy(left) && e.Operator.Type == token.And {
			return left, nil
		}
		return i.evaluate(e.Right)
	case *ast.Set:
		return i.evaluateSet(e)
	case *ast.Super:
		return i.evaluateSuper(e)
	case *ast.This:
		return i.lookupVariable(e.Keyword, e.ID())
	case *ast.Ternary:
		cond, err := i.evaluate(e.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return i.evaluate(e.Then)
		}
		return i.evaluate(e.Else)
	case *ast.Unary:
		return i.evaluateUnary(e)
	case *ast.Variable:
		return i.lookupVariable(e.Name, e.ID())
	}
	return Nil{}, nil
}

func literalObject(v any) Object {
	switch val := v.(type) {
	case bool:
		return Boolean(val)
	case float64:
		return Number(val)
	case string:
		return String(val)
	default:
		return Nil{}
	}
}

func (i *Interpreter) evaluateBinary(e *ast.Binary) (Object, *diagnostics.Diagnostic) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	ln, lok := left.(Number)
	rn, rok := right.(Number)

	switch e.Operator.Type {
	case token.Greater:
		if lok && rok {
			return Boolean(ln > rn), nil
		}
		return Boolean(false), nil
	case token.GreaterEqual:
		if lok && rok {
			return Boolean(ln >= rn), nil
		}
		return Boolean(false), nil
	case token.Less:
		if lok && rok {
			return Boolean(ln < rn), nil
		}
		return Boolean(false), nil
	case token.LessEqual:
		if lok && rok {
			return Boolean(ln <= rn), nil
		}
		return Boolean(false), nil
	case token.BangEqual:
		return Boolean(!Equal(left, right)), nil
	case token.EqualEqual:
		return Boolean(Equal(left, right)), nil
	case token.Minus:
		if lok && rok {
			return Number(ln - rn), nil
		}
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Only support number operands.")
	case token.Plus:
		ls, lsok := left.(String)
		rs, rsok := right.(String)
		switch {
		case lok && rok:
			return Number(ln + rn), nil
		case lsok && rsok:
			return String(string(ls) + string(rs)), nil
		case lsok && rok:
			return String(string(ls) + rn.String()), nil
		default:
			return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Invalid operands %s and %s for + operator.", left.String(), right.String())
		}
	case token.Slash:
		if lok && rok {
			if rn == 0 {
				return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Divided by zero.")
			}
			return Number(ln / rn), nil
		}
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Only support number operands.")
	case token.Star:
		if lok && rok {
			return Number(ln * rn), nil
		}
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Only support number operands.")
	default:
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Unsupported operator.")
	}
}

func (i *Interpreter) evaluateUnary(e *ast.Unary) (Object, *diagnostics.Diagnostic) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case token.Bang:
		return Boolean(!Truthy(right)), nil
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			return nil, diagnostics.New(diagnostics.RuntimeErr, e.Operator, "Operand must be a number.")
		}
		return Number(-n), nil
	default:
		return Nil{}, nil
	}
}

func (i *Interpreter) evaluateCall(e *ast.Call) (Object, *diagnostics.Diagnostic) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Object, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	callable, ok := callee.(Callable)
	if !ok {
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Paren, "Can only call functions and classes.")
	}
	return callable.Call(i, args)
}

func (i *Interpreter) evaluateGet(e *ast.Get) (Object, *diagnostics.Diagnostic) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	switch obj := object.(type) {
	case *Instance:
		if getter := obj.GetGetter(e.Name); getter != nil {
			bound := getter.Bind(obj)
			return bound.Call(i, nil)
		}
		return obj.Get(e.Name)
	case *Class:
		if method, ok := obj.FindMethod(e.Name.Lexeme); ok {
			return method, nil
		}
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Name, "Class %s doesn't have a method named '%s'.", obj.Name, e.Name.Lexeme)
	default:
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Name, "Only instances have properties.")
	}
}

func (i *Interpreter) evaluateSet(e *ast.Set) (Object, *diagnostics.Diagnostic) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := object.(*Instance)
	if !ok {
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Name, "Only instances have properties.")
	}
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(e.Name.Lexeme, value)
	return value, nil
}

func (i *Interpreter) evaluateSuper(e *ast.Super) (Object, *diagnostics.Diagnostic) {
	distance, ok := i.locals[e.ID()]
	if !ok {
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Keyword, "Undefined property.")
	}
	superVal, err := i.environment.GetAt(distance, e.Keyword)
	if err != nil {
		return nil, err
	}
	superclass, ok := superVal.(*Class)
	if !ok {
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Keyword, "Undefined property.")
	}
	objVal, err := i.environment.GetAt(distance-1, thisToken)
	if err != nil {
		return nil, err
	}
	instance, ok := objVal.(*Instance)
	if !ok {
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Method, "Undefined property.")
	}
	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, diagnostics.New(diagnostics.RuntimeErr, e.Method, "Undefined property.")
	}
	return method.Bind(instance), nil
}
