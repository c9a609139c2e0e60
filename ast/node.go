// Package ast defines the syntax tree produced by the parser and consumed
// by the generator, resolver, and arborist.
//
// Unlike a conventional tree-walking AST, nodes here are deliberately dumb:
// they carry no parent links, no scope information, and no identity beyond
// their Go pointer. All of that bookkeeping belongs to the arborist, which
// flattens a tree built from these types into an id-addressable substrate.
// Keeping the two concerns apart means the parser and generator can be
// tested as pure functions of text in, text out.
package ast

// Kind is the closed set of syntax-tree node tags the rest of the system
// switches on. It exists so code outside this package (the arborist's
// typeMap, the pass catalogue) can reason about "what kind of node is
// this" without an exhaustive Go type switch.
type Kind string

const (
	KindProgram                 Kind = "Program"
	KindLiteral                 Kind = "Literal"
	KindRegExpLiteral           Kind = "RegExpLiteral"
	KindBigIntLiteral           Kind = "BigIntLiteral"
	KindIdentifier              Kind = "Identifier"
	KindThisExpression          Kind = "ThisExpression"
	KindArrayExpression         Kind = "ArrayExpression"
	KindObjectExpression        Kind = "ObjectExpression"
	KindProperty                Kind = "Property"
	KindFunctionDeclaration     Kind = "FunctionDeclaration"
	KindFunctionExpression      Kind = "FunctionExpression"
	KindArrowFunctionExpression Kind = "ArrowFunctionExpression"
	KindVariableDeclaration     Kind = "VariableDeclaration"
	KindVariableDeclarator      Kind = "VariableDeclarator"
	KindExpressionStatement     Kind = "ExpressionStatement"
	KindBlockStatement          Kind = "BlockStatement"
	KindIfStatement             Kind = "IfStatement"
	KindForStatement            Kind = "ForStatement"
	KindForInStatement          Kind = "ForInStatement"
	KindForOfStatement          Kind = "ForOfStatement"
	KindWhileStatement          Kind = "WhileStatement"
	KindDoWhileStatement        Kind = "DoWhileStatement"
	KindBreakStatement          Kind = "BreakStatement"
	KindContinueStatement       Kind = "ContinueStatement"
	KindReturnStatement         Kind = "ReturnStatement"
	KindThrowStatement          Kind = "ThrowStatement"
	KindTryStatement            Kind = "TryStatement"
	KindCatchClause             Kind = "CatchClause"
	KindSwitchStatement         Kind = "SwitchStatement"
	KindSwitchCase              Kind = "SwitchCase"
	KindLabeledStatement        Kind = "LabeledStatement"
	KindEmptyStatement          Kind = "EmptyStatement"
	KindDebuggerStatement       Kind = "DebuggerStatement"
	KindBinaryExpression        Kind = "BinaryExpression"
	KindLogicalExpression       Kind = "LogicalExpression"
	KindUnaryExpression         Kind = "UnaryExpression"
	KindUpdateExpression        Kind = "UpdateExpression"
	KindAssignmentExpression    Kind = "AssignmentExpression"
	KindConditionalExpression   Kind = "ConditionalExpression"
	KindCallExpression          Kind = "CallExpression"
	KindNewExpression           Kind = "NewExpression"
	KindMemberExpression        Kind = "MemberExpression"
	KindSequenceExpression      Kind = "SequenceExpression"
	KindSpreadElement           Kind = "SpreadElement"
	KindTemplateLiteral         Kind = "TemplateLiteral"
	KindTemplateElement         Kind = "TemplateElement"
)

// Span is the byte range [Start,End) a node occupies in the source text it
// was parsed from. Every node embeds one. After a rewrite lands, a fresh
// Span is assigned by the reparse that commits the rewrite (see arborist).
type Span struct {
	Start int
	End   int
}

func (s Span) Idx0() int { return s.Start }
func (s Span) Idx1() int { return s.End }

// Node is satisfied by every syntax-tree value: statements, expressions,
// and the handful of non-expression helper productions (Property,
// VariableDeclarator, CatchClause, SwitchCase, TemplateElement). Idx0/Idx1
// come from the embedded Span field every concrete node type carries.
type Node interface {
	Kind() Kind
	Idx0() int
	Idx1() int
}

// Expr is the marker interface for nodes that may appear where an
// expression is expected.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the marker interface for nodes that may appear in a statement
// list.
type Stmt interface {
	Node
	stmtNode()
}

// Program is the root of a parsed source file.
type Program struct {
	Span
	Body []Stmt
}

func (*Program) Kind() Kind { return KindProgram }
