package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/lox/internal/lexer"
	"github.com/funvibe/lox/internal/parser"
	"github.com/funvibe/lox/internal/resolver"
)

// run scans, parses, resolves and interprets src, returning stdout lines
// and any diagnostic from whichever stage failed.
func run(t *testing.T, src string) ([]string, error) {
	t.Helper()
	toks, serr := lexer.ScanAll(src)
	if serr != nil {
		return nil, serr
	}
	stmts, perr := parser.New(toks).Parse()
	if perr != nil {
		return nil, perr
	}
	locals, rerr := resolver.New().Resolve(stmts)
	if rerr != nil {
		return nil, rerr
	}
	var buf bytes.Buffer
	interp := New(&buf, locals)
	if err := interp.Interpret(stmts); err != nil {
		return nil, err
	}
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

func TestScenarioArithmetic(t *testing.T) {
	lines, err := run(t, `print(1+2*3);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "7" {
		t.Fatalf("got %v", lines)
	}
}

func TestScenarioBlockScoping(t *testing.T) {
	lines, err := run(t, `var a=1; {var a=2; print(a);} print(a);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2", "1"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestScenarioClosureCounter(t *testing.T) {
	lines, err := run(t, `fun mk(){var c=0; fun inc(){c=c+1; return c;} return inc;} var f=mk(); print(f()); print(f()); print(f());`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"1", "2", "3"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestScenarioInitializerAndGetter(t *testing.T) {
	lines, err := run(t, `class A{ init(x){this.x=x;} get(){return this.x;}} var a=A(42); print(a.get());`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "42" {
		t.Fatalf("got %v", lines)
	}
}

func TestScenarioInheritanceAndSuper(t *testing.T) {
	lines, err := run(t, `class A{ hi(){print("A");}} class B<A{ hi(){super.hi(); print("B");}} B().hi();`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"A", "B"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestScenarioLoopControlContinue(t *testing.T) {
	lines, err := run(t, `for(var i=0;i<3;i=i+1){ if(i==1){continue;} print(i);}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"0", "2"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestLexicalScopingCapturesDefiningEnvironment(t *testing.T) {
	lines, err := run(t, `{var a="g"; fun f(){print(a);} {var a="b"; f();}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "g" {
		t.Fatalf("got %v, want closure to see the defining scope's 'g'", lines)
	}
}

func TestInitializerReturnsBoundThisIdentity(t *testing.T) {
	lines, err := run(t, `
class Counter { init(start) { this.n = start; return; } bump() { this.n = this.n + 1; return this.n; } }
var c = Counter(10);
print(c.bump());
print(c.bump());`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"11", "12"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestMethodBindingIdentity(t *testing.T) {
	lines, err := run(t, `
class Greeter { init(name) { this.name = name; } greet() { print(this.name); } }
var obj = Greeter("Ada");
var m = obj.greet;
m();
obj.greet();`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Ada", "Ada"}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d: got %q want %q", i, lines[i], w)
		}
	}
}

func TestLoopControlBreakTerminates(t *testing.T) {
	lines, err := run(t, `var i = 0; while (true) { i = i + 1; if (i == 3) { break; } } print(i);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "3" {
		t.Fatalf("got %v", lines)
	}
}

func TestDeterminismAcrossRuns(t *testing.T) {
	src := `fun sq(n) { return n * n; } print(sq(3) + sq(4));`
	first, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Fatalf("non-deterministic: %v vs %v", first, second)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print(1/0);`)
	if err == nil {
		t.Fatal("expected runtime error for division by zero")
	}
}

func TestUninitializedVariableReadIsRuntimeError(t *testing.T) {
	_, err := run(t, `var a; print(a);`)
	if err == nil {
		t.Fatal("expected runtime error for reading an uninitialized variable")
	}
}

func TestUndefinedVariableReadIsRuntimeError(t *testing.T) {
	_, err := run(t, `print(nope);`)
	if err == nil {
		t.Fatal("expected runtime error for undefined variable")
	}
}

func TestStringNumberConcatenation(t *testing.T) {
	lines, err := run(t, `print("count: " + 3);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "count: 3" {
		t.Fatalf("got %q", lines[0])
	}
}

func TestComparisonOfNonNumbersIsFalseNotError(t *testing.T) {
	lines, err := run(t, `print("a" < 3);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "false" {
		t.Fatalf("got %q", lines[0])
	}
}

func TestTernaryEvaluatesOnlySelectedBranch(t *testing.T) {
	// The else branch divides by zero, so evaluating it would be an error.
	lines, err := run(t, `print(true ? "yes" : 1/0);`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "yes" {
		t.Fatalf("got %q", lines[0])
	}
}

func TestStaticMethodCalledOnClass(t *testing.T) {
	lines, err := run(t, `class Util { class describe() { return "util"; } } print(Util.describe());`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "util" {
		t.Fatalf("got %q", lines[0])
	}
}

func TestNotEnoughArgumentsIsRuntimeError(t *testing.T) {
	_, err := run(t, `fun add(a, b) { return a + b; } print(add(1));`)
	if err == nil {
		t.Fatal("expected runtime error for too few arguments")
	}
}

func TestExtraArgumentsAreIgnored(t *testing.T) {
	lines, err := run(t, `fun add(a, b) { return a + b; } print(add(1, 2, 3, 4));`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines[0] != "3" {
		t.Fatalf("got %q", lines[0])
	}
}
