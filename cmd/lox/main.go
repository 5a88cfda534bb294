// Command lox runs the Lox interpreter: given a file argument it executes
// that file, given none it starts an interactive prompt.
package main

import (
	"fmt"
	"os"

	"github.com/funvibe/lox/internal/config"
	"github.com/funvibe/lox/pkg/cli"
	"github.com/google/uuid"
)

func main() {
	runID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r) // Re-panic to get stack trace
			}
			fmt.Fprintf(os.Stderr, "Internal error (run %s): %v\n", runID, r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	switch len(os.Args) {
	case 1:
		os.Exit(cli.RunPrompt(os.Stdin, os.Stdout, os.Stderr))
	case 2:
		if os.Args[1] == "-version" || os.Args[1] == "--version" {
			fmt.Println(config.Version)
			os.Exit(0)
		}
		os.Exit(cli.RunFile(os.Args[1], os.Stdout, os.Stderr))
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [script]")
		os.Exit(64)
	}
}
