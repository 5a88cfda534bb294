// Package cli wires the lexer, parser, resolver and interpreter into the
// two entry points a user actually invokes the interpreter through: running
// a source file, and an interactive read-eval-print loop.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/funvibe/lox/internal/config"
	"github.com/funvibe/lox/internal/interpreter"
	"github.com/funvibe/lox/internal/lexer"
	"github.com/funvibe/lox/internal/parser"
	"github.com/funvibe/lox/internal/resolver"
	"github.com/mattn/go-isatty"
)

const (
	exitOK      = 0
	exitFailure = 1
)

// RunFile scans, parses, resolves and interprets the source at path,
// writing program output to stdout and any diagnostic to stderr. Unlike
// RunPrompt, every call gets a brand-new Interpreter and Resolver — there
// is no state to carry between files.
func RunFile(path string, stdout, stderr io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "lox: %v\n", err)
		return exitFailure
	}
	if diag := interpretSource(string(source), resolver.New(), stdout); diag != nil {
		fmt.Fprintln(stderr, diag)
		return exitFailure
	}
	return exitOK
}

// RunPrompt runs an interactive REPL over stdin, printing each evaluated
// line's output to stdout. A single Interpreter and Resolver persist
// across every line: a variable or function declared on one line is
// visible on the next, and the resolver's scope stack accumulates the
// same way.
func RunPrompt(stdin io.Reader, stdout, stderr io.Writer) int {
	prefs := config.LoadPrefs()
	prompt := prefs.Prompt

	interactive := false
	if f, ok := stdout.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	res := resolver.New()
	interp := interpreter.New(stdout, nil)

	scanner := bufio.NewScanner(stdin)
	status := exitOK
	for {
		if interactive {
			fmt.Fprint(stdout, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if diag := interpretLine(line, res, interp); diag != nil {
			fmt.Fprintln(stderr, diag)
			status = exitFailure
		}
	}
	return status
}

// interpretSource runs the full pipeline once, for file mode, where a
// fresh Interpreter is also created per call.
func interpretSource(source string, res *resolver.Resolver, stdout io.Writer) error {
	toks, err := lexer.ScanAll(source)
	if err != nil {
		return err
	}
	stmts, diag := parser.New(toks).Parse()
	if diag != nil {
		return diag
	}
	locals, diag := res.Resolve(stmts)
	if diag != nil {
		return diag
	}
	interp := interpreter.New(stdout, locals)
	if diag := interp.Interpret(stmts); diag != nil {
		return diag
	}
	return nil
}

// interpretLine runs one REPL line through the shared resolver and
// interpreter, re-installing the accumulated locals table on the
// interpreter before each evaluation.
func interpretLine(line string, res *resolver.Resolver, interp *interpreter.Interpreter) error {
	toks, err := lexer.ScanAll(line)
	if err != nil {
		return err
	}
	stmts, diag := parser.New(toks).Parse()
	if diag != nil {
		return diag
	}
	locals, diag := res.Resolve(stmts)
	if diag != nil {
		return diag
	}
	interp.SetLocals(locals)
	if diag := interp.Interpret(stmts); diag != nil {
		return diag
	}
	return nil
}

