package ast

// DeclKind is the binding form a VariableDeclaration was written with.
// Passes that need to know whether a binding is reassignable (var/let vs
// const) switch on this.
type DeclKind string

const (
	DeclVar   DeclKind = "var"
	DeclLet   DeclKind = "let"
	DeclConst DeclKind = "const"
)

type VariableDeclarator struct {
	Span
	// Id is usually *Identifier; destructuring patterns are represented
	// as *ArrayExpression/*ObjectExpression reused as binding patterns,
	// matching how the parser already builds them for expression
	// position.
	Id   Expr
	Init Expr // nil if no initializer
}

func (*VariableDeclarator) Kind() Kind { return KindVariableDeclarator }

type VariableDeclaration struct {
	Span
	DKind        DeclKind
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) Kind() Kind { return KindVariableDeclaration }
func (*VariableDeclaration) stmtNode()  {}
