package interpreter

import (
	"time"

	"github.com/funvibe/lox/internal/diagnostics"
)

// clockFunction is the one native global: `clock()` returns the current
// Unix time in seconds.
type clockFunction struct{}

func (clockFunction) String() string { return "<fn native clock>" }

func (clockFunction) Arity() int { return 0 }

func (clockFunction) Call(*Interpreter, []Object) (Object, *diagnostics.Diagnostic) {
	return Number(time.Now().Unix()), nil
}
