// Package diagnostics formats the three user-facing error kinds the
// pipeline can raise: parse errors, resolve errors and runtime errors.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/lox/internal/token"
)

// Kind identifies which pipeline stage raised a Diagnostic.
type Kind int

const (
	ParseError Kind = iota
	ResolveError
	RuntimeErr
)

func (k Kind) label() string {
	switch k {
	case ParseError:
		return "Parsing error"
	case ResolveError:
		// The original resolver raises its errors as RuntimeError values
		// (original_source/src/resolver.rs returns Result<(), RuntimeError>),
		// so a resolve-time diagnostic prints with the same label as a
		// runtime error even though it fires before any statement executes.
		return "Runtime error"
	case RuntimeErr:
		return "Runtime error"
	default:
		return "Error"
	}
}

// Diagnostic is a single reported error, formatted per spec: a location
// followed by either "at end" or the offending lexeme, then the message.
type Diagnostic struct {
	Kind    Kind
	Token   token.Token
	Message string
}

func New(kind Kind, tok token.Token, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string {
	if d.Token.Type == token.Eof {
		return fmt.Sprintf("[line %d:%d] %s at end: %s", d.Token.Line, d.Token.Column, d.Kind.label(), d.Message)
	}
	return fmt.Sprintf("[line %d:%d] %s at '%s': %s", d.Token.Line, d.Token.Column, d.Kind.label(), d.Token.String(), d.Message)
}
