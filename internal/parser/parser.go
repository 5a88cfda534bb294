// Package parser builds an AST from a token stream via recursive descent.
package parser

import (
	"github.com/funvibe/lox/internal/ast"
	"github.com/funvibe/lox/internal/diagnostics"
	"github.com/funvibe/lox/internal/token"
)

const maxArgs = 255

// Parser turns a token slice into a statement list. It does not recover
// from a syntax error: the first one encountered aborts parsing and is
// returned to the caller.
type Parser struct {
	tokens  []token.Token
	current int
}

// New builds a Parser over tokens, dropping any Comment tokens first.
func New(tokens []token.Token) *Parser {
	filtered := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != token.Comment {
			filtered = append(filtered, t)
		}
	}
	return &Parser{tokens: filtered}
}

// Parse consumes the whole token stream into a statement list, or
// returns the first diagnostic encountered.
func (p *Parser) Parse() ([]ast.Stmt, *diagnostics.Diagnostic) {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt, err := p.declaration(false)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) declaration(inLoop bool) (ast.Stmt, *diagnostics.Diagnostic) {
	if p.match(token.Class) {
		return p.classDeclaration()
	}
	if p.match(token.Fun) && p.check(token.Identifier) {
		return p.function(ast.KindFunction)
	}
	if p.match(token.Var) {
		return p.varDeclaration()
	}
	return p.statement(inLoop)
}

func (p *Parser) classDeclaration() (ast.Stmt, *diagnostics.Diagnostic) {
	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.Less) {
		if _, err := p.consume(token.Identifier, "Expect superclass name."); err != nil {
			return nil, err
		}
		superclass = ast.NewVariable(p.previous())
	}

	var methods, staticMethods, getterMethods []*ast.Function

	if _, err := p.consume(token.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		if p.match(token.Class) {
			m, err := p.function(ast.KindStaticMethod)
			if err != nil {
				return nil, err
			}
			staticMethods = append(staticMethods, m)
			continue
		}
		m, err := p.function(ast.KindMethod)
		if err != nil {
			return nil, err
		}
		if m.Kind == ast.KindGetterMethod {
			getterMethods = append(getterMethods, m)
		} else {
			methods = append(methods, m)
		}
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return ast.NewClass(name, superclass, methods, staticMethods, getterMethods), nil
}

func (p *Parser) varDeclaration() (ast.Stmt, *diagnostics.Diagnostic) {
	name, err := p.consume(token.Identifier, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return ast.NewVar(name, initializer), nil
}

func (p *Parser) statement(inLoop bool) (ast.Stmt, *diagnostics.Diagnostic) {
	switch {
	case p.match(token.For):
		return p.forStatement()
	case p.match(token.Print):
		return p.printStatement()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.If):
		return p.ifStatement(inLoop)
	case p.match(token.LeftBrace):
		return p.block(inLoop)
	case p.match(token.Break):
		if !inLoop {
			return nil, diagnostics.New(diagnostics.ParseError, p.previous(), "Can only use 'break' inside loops.")
		}
		return p.breakStatement()
	case p.match(token.Continue):
		if !inLoop {
			return nil, diagnostics.New(diagnostics.ParseError, p.previous(), "Can only use 'continue' inside loops.")
		}
		return p.continueStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) breakStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	if _, err := p.consume(token.Semicolon, "Expect ';' after break."); err != nil {
		return nil, err
	}
	return ast.NewBreak(), nil
}

func (p *Parser) continueStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	if _, err := p.consume(token.Semicolon, "Expect ';' after continue."); err != nil {
		return nil, err
	}
	return ast.NewContinue(), nil
}

func (p *Parser) forStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err *diagnostics.Diagnostic
	switch {
	case p.match(token.Semicolon):
	case p.match(token.Var):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition ast.Expr
	if !p.match(token.Semicolon) {
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Semicolon, "Expect ';' after for condition."); err != nil {
			return nil, err
		}
	}

	var increment ast.Expr
	if !p.match(token.RightParen) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after for clauses."); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before for body."); err != nil {
		return nil, err
	}
	body, err := p.block(true)
	if err != nil {
		return nil, err
	}
	bodyBlock := body.(*ast.Block)

	if condition == nil {
		condition = ast.NewLiteral(true)
	}
	whileStmt := ast.NewWhile(condition, bodyBlock)
	whileStmt.Increment = increment
	var result ast.Stmt = whileStmt

	if initializer != nil {
		result = ast.NewBlock([]ast.Stmt{initializer, result})
	}
	return result, nil
}

func (p *Parser) ifStatement(inLoop bool) (ast.Stmt, *diagnostics.Diagnostic) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before if body."); err != nil {
		return nil, err
	}
	thenStmt, err := p.block(inLoop)
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if p.match(token.Else) {
		if _, err := p.consume(token.LeftBrace, "Expect '{' before else body."); err != nil {
			return nil, err
		}
		elseStmt, err := p.block(inLoop)
		if err != nil {
			return nil, err
		}
		elseBlock = elseStmt.(*ast.Block)
	}
	return ast.NewIf(cond, thenStmt.(*ast.Block), elseBlock), nil
}

func (p *Parser) whileStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after while condition."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LeftBrace, "Expect '{' before while body."); err != nil {
		return nil, err
	}
	body, err := p.block(true)
	if err != nil {
		return nil, err
	}
	return ast.NewWhile(cond, body.(*ast.Block)), nil
}

func (p *Parser) printStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after 'print'."); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after arguments."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after print statement."); err != nil {
		return nil, err
	}
	return ast.NewPrint(value), nil
}

func (p *Parser) returnStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		var err *diagnostics.Diagnostic
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return ast.NewReturn(keyword, value), nil
}

func (p *Parser) expressionStatement() (ast.Stmt, *diagnostics.Diagnostic) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	// A lambda expression-statement has no trailing semicolon.
	if _, isLambda := expr.(*ast.Lambda); !isLambda {
		if _, err := p.consume(token.Semicolon, "Expect ';' after expression."); err != nil {
			return nil, err
		}
	}
	return ast.NewExpression(expr), nil
}

func (p *Parser) function(kind ast.FunctionKind) (*ast.Function, *diagnostics.Diagnostic) {
	name, err := p.consume(token.Identifier, "Expect "+kind.String()+" name.")
	if err != nil {
		return nil, err
	}

	var params []token.Token
	if kind == ast.KindMethod && p.check(token.LeftBrace) {
		// Getter methods don't have parameters.
		kind = ast.KindGetterMethod
	} else {
		if name.Lexeme == "init" {
			kind = ast.KindInitializer
		}
		if _, err := p.consume(token.LeftParen, "Expect '(' after "+kind.String()+" name."); err != nil {
			return nil, err
		}
		if !p.check(token.RightParen) {
			for {
				if len(params) >= maxArgs {
					return nil, diagnostics.New(diagnostics.ParseError, p.peek(), "Can't have more than 255 parameters.")
				}
				param, err := p.consume(token.Identifier, "Expect parameter name.")
				if err != nil {
					return nil, err
				}
				params = append(params, param)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before "+kind.String()+" body."); err != nil {
		return nil, err
	}
	bodyStmt, err := p.block(false)
	if err != nil {
		return nil, err
	}
	return ast.NewFunction(name, params, bodyStmt.(*ast.Block).Stmts, kind), nil
}

func (p *Parser) block(inLoop bool) (ast.Stmt, *diagnostics.Diagnostic) {
	if p.previous().Type != token.LeftBrace {
		return nil, diagnostics.New(diagnostics.ParseError, p.previous(), "Expect '{' before block.")
	}
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		stmt, err := p.declaration(inLoop)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(token.RightBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return ast.NewBlock(stmts), nil
}

func (p *Parser) expression() (ast.Expr, *diagnostics.Diagnostic) {
	return p.lambda()
}

func (p *Parser) lambda() (ast.Expr, *diagnostics.Diagnostic) {
	if (p.current > 0 && p.previous().Type == token.Fun) || p.match(token.Fun) {
		if _, err := p.consume(token.LeftParen, "Expect '(' after 'fun' for lambda."); err != nil {
			return nil, err
		}
		var params []token.Token
		if !p.check(token.RightParen) {
			for {
				if len(params) >= maxArgs {
					return nil, diagnostics.New(diagnostics.ParseError, p.peek(), "Can't have more than 255 parameters.")
				}
				param, err := p.consume(token.Identifier, "Expect parameter name.")
				if err != nil {
					return nil, err
				}
				params = append(params, param)
				if !p.match(token.Comma) {
					break
				}
			}
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
			return nil, err
		}
		if _, err := p.consume(token.LeftBrace, "Expect '{' before function body."); err != nil {
			return nil, err
		}
		bodyStmt, err := p.block(false)
		if err != nil {
			return nil, err
		}
		return ast.NewLambda(params, bodyStmt.(*ast.Block).Stmts), nil
	}
	return p.ternary()
}

func (p *Parser) ternary() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if p.match(token.Question) {
		then, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.Colon, "Expect ':' after then branch."); err != nil {
			return nil, err
		}
		els, err := p.expression()
		if err != nil {
			return nil, err
		}
		return ast.NewTernary(expr, then, els), nil
	}
	return expr, nil
}

func (p *Parser) assignment() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.match(token.Equal) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		switch e := expr.(type) {
		case *ast.Variable:
			return ast.NewAssign(e.Name, value), nil
		case *ast.Get:
			return ast.NewSet(e.Object, e.Name, value), nil
		default:
			return nil, diagnostics.New(diagnostics.ParseError, equals, "Invalid assignment target.")
		}
	}
	return expr, nil
}

func (p *Parser) or() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.NewLogical(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.BangEqual, token.EqualEqual) {
		operator := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) comparison() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		operator := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) term() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(token.Minus, token.Plus) {
		operator := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) factor() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Slash, token.Star) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = ast.NewBinary(expr, operator, right)
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, *diagnostics.Diagnostic) {
	if p.match(token.Bang, token.Minus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operator, right), nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, *diagnostics.Diagnostic) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		if p.match(token.LeftParen) {
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
			continue
		}
		if p.match(token.Dot) {
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = ast.NewGet(expr, name)
			continue
		}
		break
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, *diagnostics.Diagnostic) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				return nil, diagnostics.New(diagnostics.ParseError, p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	paren, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return ast.NewCall(callee, paren, args), nil
}

func (p *Parser) primary() (ast.Expr, *diagnostics.Diagnostic) {
	tok := p.advance()
	switch tok.Type {
	case token.False:
		return ast.NewLiteral(false), nil
	case token.True:
		return ast.NewLiteral(true), nil
	case token.Nil:
		return ast.NewLiteral(nil), nil
	case token.Number:
		return ast.NewLiteral(p.previous().Literal.(float64)), nil
	case token.String:
		return ast.NewLiteral(p.previous().Literal.(string)), nil
	case token.Super:
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return ast.NewSuper(keyword, method), nil
	case token.This:
		return ast.NewThis(p.previous()), nil
	case token.Identifier:
		return ast.NewVariable(p.previous()), nil
	case token.LeftParen:
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return ast.NewGrouping(inner), nil
	default:
		return nil, diagnostics.New(diagnostics.ParseError, p.peek(), "Unexpected expression")
	}
}

// ---- token stream helpers ----

func (p *Parser) consume(t token.Type, message string) (token.Token, *diagnostics.Diagnostic) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, diagnostics.New(diagnostics.ParseError, p.peek(), "%s", message)
}

func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.Eof
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}
