// Package resolver performs a static pre-pass over the AST, computing how
// many enclosing scopes separate each variable reference from the scope
// that declares it. The interpreter consults this table instead of
// walking the environment chain at call time.
package resolver

import (
	"github.com/funvibe/lox/internal/ast"
	"github.com/funvibe/lox/internal/diagnostics"
	"github.com/funvibe/lox/internal/token"
)

// Locals maps a resolved expression node to its lexical distance from the
// scope it must be looked up in: 0 means the innermost scope.
type Locals map[ast.NodeID]int

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver walks statements once before execution, validating scope rules
// (self-reference in initializers, this/super outside a class, return
// placement) and recording each variable's resolved depth into Locals.
type Resolver struct {
	scopes          []map[string]bool
	currentFunction ast.FunctionKind
	currentClass    classType
	locals          Locals
}

func New() *Resolver {
	return &Resolver{
		scopes: []map[string]bool{{}},
		locals: Locals{},
	}
}

// Resolve walks the given statements and returns the accumulated locals
// table, or the first diagnostic encountered.
func (r *Resolver) Resolve(stmts []ast.Stmt) (Locals, *diagnostics.Diagnostic) {
	if err := r.resolveStmts(stmts); err != nil {
		return nil, err
	}
	return r.locals, nil
}

func (r *Resolver) resolveStmts(stmts []ast.Stmt) *diagnostics.Diagnostic {
	for _, s := range stmts {
		if err := r.resolveStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) *diagnostics.Diagnostic {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		err := r.resolveStmts(s.Stmts)
		r.endScope()
		return err
	case *ast.Break:
		return nil
	case *ast.Continue:
		return nil
	case *ast.Class:
		return r.resolveClass(s)
	case *ast.Expression:
		return r.resolveExpr(s.Expr)
	case *ast.Function:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		r.define(s.Name)
		return r.resolveFunction(s.Params, s.Body, s.Kind)
	case *ast.If:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		if err := r.resolveBlock(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return r.resolveBlock(s.Else)
		}
		return nil
	case *ast.Print:
		return r.resolveExpr(s.Expr)
	case *ast.Return:
		if r.currentFunction == ast.KindNone {
			return diagnostics.New(diagnostics.ResolveError, s.Keyword, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == ast.KindInitializer {
				return diagnostics.New(diagnostics.ResolveError, s.Keyword, "Cannot return a value from an initializer.")
			}
			return r.resolveExpr(s.Value)
		}
		return nil
	case *ast.Var:
		if err := r.declare(s.Name); err != nil {
			return err
		}
		if s.Initializer != nil {
			if err := r.resolveExpr(s.Initializer); err != nil {
				return err
			}
		}
		r.define(s.Name)
		return nil
	case *ast.While:
		if err := r.resolveExpr(s.Cond); err != nil {
			return err
		}
		if err := r.resolveBlock(s.Body); err != nil {
			return err
		}
		if s.Increment != nil {
			// Increment runs in the While's own enclosing scope at
			// execution time (see interpreter.go), not inside Body's
			// scope, so it must be resolved here rather than as part
			// of resolveBlock(s.Body).
			return r.resolveExpr(s.Increment)
		}
		return nil
	}
	return nil
}

func (r *Resolver) resolveBlock(b *ast.Block) *diagnostics.Diagnostic {
	r.beginScope()
	err := r.resolveStmts(b.Stmts)
	r.endScope()
	return err
}

func (r *Resolver) resolveClass(stmt *ast.Class) *diagnostics.Diagnostic {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	if err := r.declare(stmt.Name); err != nil {
		return err
	}
	r.define(stmt.Name)

	if stmt.Superclass != nil {
		if stmt.Name.Lexeme == stmt.Superclass.Name.Lexeme {
			return diagnostics.New(diagnostics.ResolveError, stmt.Superclass.Name, "A class cannot inherit from itself.")
		}
		r.currentClass = classSubclass
		if err := r.resolveExpr(stmt.Superclass); err != nil {
			return err
		}
	}

	if stmt.Superclass != nil {
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, m := range stmt.Methods {
		if err := r.resolveFunction(m.Params, m.Body, m.Kind); err != nil {
			return err
		}
	}
	for _, m := range stmt.GetterMethods {
		if err := r.resolveFunction(m.Params, m.Body, m.Kind); err != nil {
			return err
		}
	}
	r.endScope()

	r.beginScope()
	for _, m := range stmt.StaticMethods {
		if err := r.resolveFunction(m.Params, m.Body, m.Kind); err != nil {
			return err
		}
	}
	r.endScope()

	if stmt.Superclass != nil {
		r.endScope()
	}
	r.currentClass = enclosingClass
	return nil
}

func (r *Resolver) resolveFunction(params []token.Token, body []ast.Stmt, kind ast.FunctionKind) *diagnostics.Diagnostic {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind
	r.beginScope()
	for _, p := range params {
		if err := r.declare(p); err != nil {
			return err
		}
		r.define(p)
	}
	err := r.resolveStmts(body)
	r.endScope()
	r.currentFunction = enclosingFunction
	return err
}

func (r *Resolver) resolveExpr(expr ast.Expr) *diagnostics.Diagnostic {
	switch e := expr.(type) {
	case *ast.Assign:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		r.resolveLocal(e.ID(), e.Name)
		return nil
	case *ast.Binary:
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *ast.Call:
		if err := r.resolveExpr(e.Callee); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := r.resolveExpr(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.Get:
		return r.resolveExpr(e.Object)
	case *ast.Grouping:
		return r.resolveExpr(e.Inner)
	case *ast.Lambda:
		enclosingFunction := r.currentFunction
		r.currentFunction = ast.KindFunction
		r.beginScope()
		for _, p := range e.Params {
			if err := r.declare(p); err != nil {
				return err
			}
			r.define(p)
		}
		err := r.resolveStmts(e.Body)
		r.endScope()
		r.currentFunction = enclosingFunction
		return err
	case *ast.Literal:
		return nil
	case *ast.Logical:
		// Both sides are resolved, unlike the original this was distilled
		// from, which only ever resolved the right operand.
		if err := r.resolveExpr(e.Left); err != nil {
			return err
		}
		return r.resolveExpr(e.Right)
	case *ast.Set:
		if err := r.resolveExpr(e.Value); err != nil {
			return err
		}
		return r.resolveExpr(e.Object)
	case *ast.Super:
		if r.currentClass == classNone {
			return diagnostics.New(diagnostics.ResolveError, e.Keyword, "Can't use 'super' outside of a class.")
		}
		if r.currentClass != classSubclass {
			return diagnostics.New(diagnostics.ResolveError, e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e.ID(), e.Keyword)
		return nil
	case *ast.This:
		if r.currentClass == classNone {
			return diagnostics.New(diagnostics.ResolveError, e.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(e.ID(), e.Keyword)
		return nil
	case *ast.Ternary:
		if err := r.resolveExpr(e.Cond); err != nil {
			return err
		}
		if err := r.resolveExpr(e.Then); err != nil {
			return err
		}
		return r.resolveExpr(e.Else)
	case *ast.Unary:
		return r.resolveExpr(e.Right)
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				return diagnostics.New(diagnostics.ResolveError, e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID(), e.Name)
		return nil
	}
	return nil
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) *diagnostics.Diagnostic {
	if len(r.scopes) == 0 {
		return nil
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		return diagnostics.New(diagnostics.ResolveError, name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
	return nil
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(id ast.NodeID, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}
