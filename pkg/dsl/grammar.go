// Package dsl implements the custom-constraint parser of spec.md §4.5: a
// small grammar for ad hoc rules layered on top of the predefined
// catalogue in pkg/constraints, parsed with participle the way
// ritamzico-pgraph's internal DSL is (see other_examples/ in the
// retrieval pack this module was built from).
package dsl

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var constraintLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(COURSE|INSTRUCTOR|SEGMENT|ISMINOR|PROGRAM|SLOT|CLASSROOM|NOT|IN|AND|OR|WEIGHT|SAME|NOTSAME)\b`},
	{Name: "Int", Pattern: `-?\d+`},
	{Name: "String", Pattern: `"([^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[{},*()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// File is the top-level AST node for a whole custom-constraint file:
// zero or more weighted constraints (spec.md §4.5.1 `file`).
type File struct {
	Constraints []*WConstraint `parser:"@@*"`
}

// WConstraint is `constraint_or "WEIGHT" integer`.
type WConstraint struct {
	Expr   *OrExpr `parser:"@@"`
	Weight int     `parser:"\"WEIGHT\" @Int"`
}

// OrExpr is `constraint_and { "OR" constraint_and }`.
type OrExpr struct {
	Operands []*AndExpr `parser:"@@ ( \"OR\" @@ )*"`
}

// AndExpr is `constraint_val { "AND" constraint_val }`.
type AndExpr struct {
	Operands []*ValExpr `parser:"@@ ( \"AND\" @@ )*"`
}

// ValExpr is `constraint_expr | "NOT" "(" constraint_or ")" | "(" constraint_or ")"`.
type ValExpr struct {
	Not        *OrExpr     `parser:"  \"NOT\" \"(\" @@ \")\""`
	Paren      *OrExpr     `parser:"| \"(\" @@ \")\""`
	Constraint *Constraint `parser:"| @@"`
}

// Constraint is `constraint_expr` (spec.md §4.5.1):
//
//	"COURSE" values
//	{ ("INSTRUCTOR"|"SEGMENT"|"ISMINOR"|"PROGRAM") values }
//	[ "NOT" ] "IN" decl { "AND" decl }
type Constraint struct {
	Course  *Values   `parser:"\"COURSE\" @@"`
	Filters []*Filter `parser:"@@*"`
	Negate  bool      `parser:"( @\"NOT\" )? \"IN\""`
	Decls   []*Decl   `parser:"@@ ( \"AND\" @@ )*"`
}

// Filter is one antecedent narrowing clause:
// ("INSTRUCTOR"|"SEGMENT"|"ISMINOR"|"PROGRAM") values.
type Filter struct {
	Field  string  `parser:"@( \"INSTRUCTOR\" | \"SEGMENT\" | \"ISMINOR\" | \"PROGRAM\" )"`
	Values *Values `parser:"@@"`
}

// Decl is `("SLOT"|"CLASSROOM") values`.
type Decl struct {
	Field  string  `parser:"@( \"SLOT\" | \"CLASSROOM\" )"`
	Values *Values `parser:"@@"`
}

// Values is `"*" | "{" value { "," value } "}" | "SAME" | "NOTSAME"`.
type Values struct {
	All     bool     `parser:"(  @\"*\""`
	Same    bool     `parser:" | @\"SAME\""`
	NotSame bool     `parser:" | @\"NOTSAME\""`
	List    []string `parser:" | \"{\" @(Ident|String|Int) ( \",\" @(Ident|String|Int) )* \"}\" )"`
}

// Parser is the built participle parser for File.
var Parser = participle.MustBuild[File](
	participle.Lexer(constraintLexer),
	participle.CaseInsensitive("Keyword"),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)
