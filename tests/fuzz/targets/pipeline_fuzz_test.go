package targets

import (
	"bytes"
	"testing"
	"time"

	"github.com/funvibe/lox/internal/interpreter"
	"github.com/funvibe/lox/internal/lexer"
	"github.com/funvibe/lox/internal/parser"
	"github.com/funvibe/lox/internal/resolver"
)

// FuzzPipeline drives arbitrary bytes through scan, parse, resolve and
// interpret. Every stage returns a diagnostic on malformed input instead
// of panicking, so this test's only real invariant is "no panic, ever" —
// the testing.F fuzzer's recover() catches and reports it as a failure.
func FuzzPipeline(f *testing.F) {
	f.Add([]byte(`class A { init(x) { this.x = x; } get() { return this.x; } } print(A(1).get());`))
	f.Add([]byte(`fun fib(n) { if (n < 2) return n; return fib(n-1) + fib(n-2); } print(fib(10));`))
	f.Add([]byte(`var a = 1; while (a < 5) { a = a + 1; if (a == 3) continue; print(a); }`))
	f.Add([]byte(`class A < A {}`))
	f.Add([]byte(`return;`))
	f.Add([]byte(`this;`))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 2048 {
			return
		}
		src := string(data)

		toks, err := lexer.ScanAll(src)
		if err != nil {
			return
		}
		stmts, diag := parser.New(toks).Parse()
		if diag != nil {
			return
		}
		locals, diag := resolver.New().Resolve(stmts)
		if diag != nil {
			return
		}
		var out bytes.Buffer
		interp := interpreter.New(&out, locals)

		// An unbounded `while (true) {}` is valid Lox, so this has to race
		// against a timeout rather than just calling Interpret directly —
		// the fuzzer would otherwise hang forever on that input.
		done := make(chan bool, 1)
		go func() {
			_ = interp.Interpret(stmts)
			done <- true
		}()

		select {
		case <-done:
		case <-time.After(200 * time.Millisecond):
		}
	})
}
