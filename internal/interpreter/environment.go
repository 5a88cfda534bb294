package interpreter

import (
	"github.com/funvibe/lox/internal/diagnostics"
	"github.com/funvibe/lox/internal/token"
)

// Environment is one lexical scope: a map of names to values, chained to
// the scope it was opened inside.
type Environment struct {
	enclosing *Environment
	values    map[string]Object
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: map[string]Object{}}
}

// Get looks up name in this scope and, failing that, every enclosing
// scope. A declared-but-Undefined binding reports specially, so that
// `var x; print(x);` fails with a distinct message from a name that was
// never declared at all.
func (e *Environment) Get(name token.Token) (Object, *diagnostics.Diagnostic) {
	if v, ok := e.values[name.Lexeme]; ok {
		if _, isUndefined := v.(Undefined); isUndefined {
			return nil, diagnostics.New(diagnostics.RuntimeErr, name, "The variable isn't initialized.")
		}
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, diagnostics.New(diagnostics.RuntimeErr, name, "Undefined variable.")
}

// Assign updates an already-declared binding, searching outward through
// enclosing scopes. It never creates a new binding.
func (e *Environment) Assign(name token.Token, value Object) *diagnostics.Diagnostic {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return diagnostics.New(diagnostics.RuntimeErr, name, "Unclarified variable.")
}

// Define creates or overwrites a binding in this scope only.
func (e *Environment) Define(name string, value Object) {
	e.values[name] = value
}

// Ancestor walks distance scopes outward, or returns nil if the chain
// runs out first.
func (e *Environment) Ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		if env.enclosing == nil {
			return nil
		}
		env = env.enclosing
	}
	return env
}

// GetAt looks up name in the scope exactly distance steps outward — the
// resolver-computed shortcut that skips the normal outward search.
func (e *Environment) GetAt(distance int, name token.Token) (Object, *diagnostics.Diagnostic) {
	env := e.Ancestor(distance)
	if env == nil {
		return nil, diagnostics.New(diagnostics.RuntimeErr, name, "The variable isn't declared.")
	}
	return env.Get(name)
}

// AssignAt assigns into the scope exactly distance steps outward.
func (e *Environment) AssignAt(distance int, name token.Token, value Object) *diagnostics.Diagnostic {
	env := e.Ancestor(distance)
	if env == nil {
		return diagnostics.New(diagnostics.RuntimeErr, name, "Unclarified variable.")
	}
	return env.Assign(name, value)
}
