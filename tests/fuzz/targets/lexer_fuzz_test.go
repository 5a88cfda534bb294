package targets

import (
	"testing"

	"github.com/funvibe/lox/internal/lexer"
)

// FuzzLexer checks the scanner never panics and that a successful scan is
// deterministic: scanning the same bytes twice yields the same tokens.
func FuzzLexer(f *testing.F) {
	f.Add([]byte(`print "hi";`))
	f.Add([]byte(`class A < B { init(x) { this.x = x; } }`))
	f.Add([]byte(`1 + 2 * 3 - 4 / 0;`))
	f.Add([]byte(`"unterminated`))
	f.Add([]byte(`// comment only`))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 4096 {
			return
		}
		src := string(data)

		toks1, err1 := lexer.ScanAll(src)
		toks2, err2 := lexer.ScanAll(src)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("non-deterministic scan error: %v vs %v", err1, err2)
		}
		if err1 != nil {
			return
		}
		if len(toks1) != len(toks2) {
			t.Fatalf("non-deterministic token count: %d vs %d", len(toks1), len(toks2))
		}
		for i := range toks1 {
			if toks1[i].Type != toks2[i].Type || toks1[i].Lexeme != toks2[i].Lexeme {
				t.Fatalf("non-deterministic token at %d: %+v vs %+v", i, toks1[i], toks2[i])
			}
		}
	})
}
