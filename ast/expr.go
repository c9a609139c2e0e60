package ast

// LiteralKind distinguishes the primitive kinds the generic Literal node
// can carry. RegExpLiteral and BigIntLiteral are separate node kinds (see
// Kind) and have their own node types below.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBoolean
	LitNull
)

// Literal is a string, number, boolean, or null constant. Raw preserves
// the source spelling (quote style, numeric base) so printing an
// unmodified literal reproduces it exactly; a rewritten literal is given a
// freshly rendered Raw by the pass that produces it.
type Literal struct {
	Span
	LKind LiteralKind
	Raw   string

	Str  string
	Num  float64
	Bool bool
}

func (*Literal) Kind() Kind { return KindLiteral }
func (*Literal) exprNode()  {}

type RegExpLiteral struct {
	Span
	Pattern string
	Flags   string
}

func (*RegExpLiteral) Kind() Kind { return KindRegExpLiteral }
func (*RegExpLiteral) exprNode()  {}

// BigIntLiteral stores the digits without the trailing 'n'.
type BigIntLiteral struct {
	Span
	Raw string
}

func (*BigIntLiteral) Kind() Kind { return KindBigIntLiteral }
func (*BigIntLiteral) exprNode()  {}

// Identifier is both a reference (read) and, in binding position, a
// declaration. DeclNode and References are populated by the resolver, not
// by the parser; a freshly parsed Identifier has both nil/empty.
type Identifier struct {
	Span
	Name string

	// DeclNode is the Identifier that declares this binding, or nil for a
	// free/global name. On a declaring Identifier itself, DeclNode is nil
	// and References lists every Identifier that resolves to it.
	DeclNode   *Identifier
	References []*Identifier

	// Scope is the lexical scope this identifier was resolved in. Set by
	// the resolver.
	Scope *Scope
}

func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Identifier) exprNode()  {}

type ThisExpression struct {
	Span
}

func (*ThisExpression) Kind() Kind { return KindThisExpression }
func (*ThisExpression) exprNode()  {}

// ArrayExpression elements may contain nil holes (`[1,,3]`) and
// *SpreadElement entries.
type ArrayExpression struct {
	Span
	Elements []Expr
}

func (*ArrayExpression) Kind() Kind { return KindArrayExpression }
func (*ArrayExpression) exprNode()  {}

type ObjectExpression struct {
	Span
	Properties []*Property
}

func (*ObjectExpression) Kind() Kind { return KindObjectExpression }
func (*ObjectExpression) exprNode()  {}

type Property struct {
	Span
	Key      Expr
	Value    Expr
	Computed bool
	Shorthand bool
	// PropKind is "init", "get", "set", or "spread".
	PropKind string
}

func (*Property) Kind() Kind { return KindProperty }
func (*Property) exprNode()  {}

type FunctionParams struct {
	Params []Expr // Identifier or a destructuring/default-value Expr
	Rest   Expr   // *Identifier, or nil
}

type FunctionExpression struct {
	Span
	Name      *Identifier // nil for anonymous
	Params    FunctionParams
	Body      *BlockStatement
	Async     bool
	Generator bool

	Scope *Scope
}

func (*FunctionExpression) Kind() Kind { return KindFunctionExpression }
func (*FunctionExpression) exprNode()  {}

// ArrowFunctionExpression's Body is either a *BlockStatement or a bare
// Expr (concise body).
type ArrowFunctionExpression struct {
	Span
	Params FunctionParams
	Body   Node
	Async  bool

	Scope *Scope
}

func (*ArrowFunctionExpression) Kind() Kind { return KindArrowFunctionExpression }
func (*ArrowFunctionExpression) exprNode()  {}

type BinaryExpression struct {
	Span
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpression) Kind() Kind { return KindBinaryExpression }
func (*BinaryExpression) exprNode()  {}

// LogicalExpression covers &&, ||, and ??. Kept distinct from
// BinaryExpression because its right operand is not always evaluated.
type LogicalExpression struct {
	Span
	Operator string
	Left     Expr
	Right    Expr
}

func (*LogicalExpression) Kind() Kind { return KindLogicalExpression }
func (*LogicalExpression) exprNode()  {}

type UnaryExpression struct {
	Span
	Operator string
	Operand  Expr
}

func (*UnaryExpression) Kind() Kind { return KindUnaryExpression }
func (*UnaryExpression) exprNode()  {}

type UpdateExpression struct {
	Span
	Operator string
	Operand  Expr
	Prefix   bool
}

func (*UpdateExpression) Kind() Kind { return KindUpdateExpression }
func (*UpdateExpression) exprNode()  {}

type AssignmentExpression struct {
	Span
	Operator string
	Left     Expr
	Right    Expr
}

func (*AssignmentExpression) Kind() Kind { return KindAssignmentExpression }
func (*AssignmentExpression) exprNode()  {}

type ConditionalExpression struct {
	Span
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (*ConditionalExpression) Kind() Kind { return KindConditionalExpression }
func (*ConditionalExpression) exprNode()  {}

type CallExpression struct {
	Span
	Callee    Expr
	Arguments []Expr
	Optional  bool
}

func (*CallExpression) Kind() Kind { return KindCallExpression }
func (*CallExpression) exprNode()  {}

type NewExpression struct {
	Span
	Callee    Expr
	Arguments []Expr
}

func (*NewExpression) Kind() Kind { return KindNewExpression }
func (*NewExpression) exprNode()  {}

// MemberExpression models both dot and computed access. When Computed is
// false, Property is always an *Identifier.
type MemberExpression struct {
	Span
	Object   Expr
	Property Expr
	Computed bool
	Optional bool
}

func (*MemberExpression) Kind() Kind { return KindMemberExpression }
func (*MemberExpression) exprNode()  {}

type SequenceExpression struct {
	Span
	Expressions []Expr
}

func (*SequenceExpression) Kind() Kind { return KindSequenceExpression }
func (*SequenceExpression) exprNode()  {}

type SpreadElement struct {
	Span
	Argument Expr
}

func (*SpreadElement) Kind() Kind { return KindSpreadElement }
func (*SpreadElement) exprNode()  {}

type TemplateElement struct {
	Span
	Raw    string
	Cooked string
	Tail   bool
}

func (*TemplateElement) Kind() Kind { return KindTemplateElement }
func (*TemplateElement) exprNode()  {}

type TemplateLiteral struct {
	Span
	Quasis      []*TemplateElement
	Expressions []Expr
}

func (*TemplateLiteral) Kind() Kind { return KindTemplateLiteral }
func (*TemplateLiteral) exprNode()  {}
