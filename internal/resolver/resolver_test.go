package resolver

import (
	"testing"

	"github.com/funvibe/lox/internal/ast"
	"github.com/funvibe/lox/internal/lexer"
	"github.com/funvibe/lox/internal/parser"
)

func resolve(t *testing.T, src string) (Locals, *ast.Block) {
	t.Helper()
	toks, serr := lexer.ScanAll(src)
	if serr != nil {
		t.Fatalf("scan error: %v", serr)
	}
	stmts, perr := parser.New(toks).Parse()
	if perr != nil {
		t.Fatalf("parse error: %v", perr)
	}
	locals, rerr := New().Resolve(stmts)
	if rerr != nil {
		t.Fatalf("resolve error: %v", rerr)
	}
	return locals, ast.NewBlock(stmts)
}

func TestResolveLocalVariableDepth(t *testing.T) {
	locals, block := resolve(t, `
var a = 1;
{
  var b = 2;
  print(a + b);
}`)
	// find the Binary expression inside the print statement
	inner := block.Stmts[1].(*ast.Block).Stmts
	printStmt := inner[1].(*ast.Print)
	bin := printStmt.Expr.(*ast.Binary)
	aVar := bin.Left.(*ast.Variable)
	bVar := bin.Right.(*ast.Variable)
	if depth, ok := locals[aVar.ID()]; !ok || depth != 1 {
		t.Fatalf("expected depth 1 for outer var a, got %v (ok=%v)", depth, ok)
	}
	if depth, ok := locals[bVar.ID()]; !ok || depth != 0 {
		t.Fatalf("expected depth 0 for local var b, got %v (ok=%v)", depth, ok)
	}
}

func TestResolveSelfReferenceInInitializerIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`var a = a;`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for self-reference in initializer")
	}
}

func TestResolveThisOutsideClassIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`print(this);`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for 'this' outside a class")
	}
}

func TestResolveSuperWithoutSuperclassIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`
class A { greet() { return super.greet(); } }`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for 'super' with no superclass")
	}
}

func TestResolveClassSelfInheritanceIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`class A < A {}`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for class inheriting from itself")
	}
}

func TestResolveReturnAtTopLevelIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`return 1;`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for return at top level")
	}
}

func TestResolveReturnValueFromInitializerIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`
class A { init() { return 1; } }`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for returning a value from an initializer")
	}
}

func TestResolveLogicalResolvesBothOperands(t *testing.T) {
	// Regression coverage for resolving both sides of `and`/`or`: a
	// variable referenced only on the left must still get a locals entry.
	locals, block := resolve(t, `
var a = 1;
{
  var b = 2;
  print(a and b);
}`)
	inner := block.Stmts[1].(*ast.Block).Stmts
	printStmt := inner[1].(*ast.Print)
	logical := printStmt.Expr.(*ast.Logical)
	aVar := logical.Left.(*ast.Variable)
	if _, ok := locals[aVar.ID()]; !ok {
		t.Fatal("expected left operand of 'and' to be resolved")
	}
}

func TestResolveDuplicateLocalDeclarationIsError(t *testing.T) {
	toks, _ := lexer.ScanAll(`{ var a = 1; var a = 2; }`)
	stmts, _ := parser.New(toks).Parse()
	_, rerr := New().Resolve(stmts)
	if rerr == nil {
		t.Fatal("expected error for duplicate local declaration")
	}
}
