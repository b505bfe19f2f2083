package syntax

import "rue-lang.dev/rue/pkg/token"

// NodeKind tags a composite node of the green tree. Together with
// token.Kind (for leaves) it forms the closed set of syntax-node kinds
// described by the language's external grammar.
type NodeKind uint8

const (
	LiteralExpr NodeKind = iota
	PrefixExpr
	BinaryExpr
	CallExpr
	IfExpr
	LetStmt
	FunctionItem
	FunctionParamList
	FunctionParam
	UseItem
	Path
	Block
	Program
	Error // wraps one or more tokens that could not be attached anywhere else
)

var nodeNames = map[NodeKind]string{
	LiteralExpr:       "LiteralExpr",
	PrefixExpr:        "PrefixExpr",
	BinaryExpr:        "BinaryExpr",
	CallExpr:          "CallExpr",
	IfExpr:            "IfExpr",
	LetStmt:           "LetStmt",
	FunctionItem:      "FunctionItem",
	FunctionParamList: "FunctionParamList",
	FunctionParam:     "FunctionParam",
	UseItem:           "UseItem",
	Path:              "Path",
	Block:             "Block",
	Program:           "Program",
	Error:             "Error",
}

func (k NodeKind) String() string {
	if name, ok := nodeNames[k]; ok {
		return name
	}
	return "INVALID"
}

// Kind is either a NodeKind (composite) or a token.Kind (leaf), exposed
// uniformly to callers that don't care which.
type Kind struct {
	IsToken bool
	Node    NodeKind
	Token   token.Kind
}

func NK(n NodeKind) Kind   { return Kind{Node: n} }
func TK(t token.Kind) Kind { return Kind{IsToken: true, Token: t} }

func (k Kind) String() string {
	if k.IsToken {
		return k.Token.String()
	}
	return k.Node.String()
}
