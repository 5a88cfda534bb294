// Package token defines the lexical token kinds and the Token value the
// scanner, parser, resolver and interpreter all share.
package token

import "fmt"

// Type identifies the syntactic category of a token. The set is closed —
// the scanner never produces anything outside this enumeration.
type Type int

const (
	// Single-character tokens.
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Colon
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star
	Question

	// One or two character tokens.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Comment
	Identifier
	String
	Number

	// Keywords.
	And
	Break
	Continue
	Class
	Else
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	Eof
)

var names = map[Type]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Colon: ":", Comma: ",", Dot: ".", Minus: "-", Plus: "+",
	Semicolon: ";", Slash: "/", Star: "*", Question: "?",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Greater: ">", GreaterEqual: ">=", Less: "<", LessEqual: "<=",
	Comment: "// comment", And: "and", Break: "break", Continue: "continue",
	Class: "class", Else: "else", False: "false", Fun: "fun", For: "for",
	If: "if", Nil: "nil", Or: "or", Print: "print", Return: "return",
	Super: "super", This: "this", True: "true", Var: "var", While: "while",
	Eof: "eof",
}

// Keywords maps reserved-word lexemes to their token type.
var Keywords = map[string]Type{
	"and": And, "break": Break, "continue": Continue, "class": Class,
	"else": Else, "false": False, "for": For, "fun": Fun, "if": If,
	"nil": Nil, "or": Or, "print": Print, "return": Return, "super": Super,
	"this": This, "true": True, "var": Var, "while": While,
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return "unknown"
}

// Token is a single lexeme: its kind, its line:column of origin, and the
// literal value attached to it (identifier text, string content, number,
// boolean, or nil for punctuation/keywords that carry none).
type Token struct {
	Type    Type
	Lexeme  string
	Literal any // string, float64, bool, or nil
	Line    int
	Column  int
}

// String renders the token the way a diagnostic message quotes it: its
// lexeme for identifiers/literals, its canonical spelling otherwise.
func (t Token) String() string {
	switch t.Type {
	case Identifier, String:
		if s, ok := t.Literal.(string); ok {
			return s
		}
		return t.Lexeme
	case Number:
		if f, ok := t.Literal.(float64); ok {
			return formatNumber(f)
		}
		return t.Lexeme
	default:
		return t.Type.String()
	}
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}
