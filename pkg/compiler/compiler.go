// Package compiler drives the lex → parse → analyze → lower → codegen
// pipeline in order (spec.md §5, §7). It owns nothing across calls: every
// Compile constructs a fresh hir.Database and diag.Bag, matching the
// "no process-wide mutable state" resource model.
package compiler

import (
	"rue-lang.dev/rue/pkg/ast"
	"rue-lang.dev/rue/pkg/codegen"
	"rue-lang.dev/rue/pkg/diag"
	"rue-lang.dev/rue/pkg/hir"
	"rue-lang.dev/rue/pkg/lexer"
	"rue-lang.dev/rue/pkg/lir"
	"rue-lang.dev/rue/pkg/parser"
	"rue-lang.dev/rue/pkg/syntax"
	"rue-lang.dev/rue/pkg/tvm"
)

// Result is everything a caller might want out of one compilation: the
// compiled node tree (nil if codegen was never reached), its serialized
// bytes, and every diagnostic accumulated along the way.
type Result struct {
	Allocator   *tvm.Allocator
	Node        tvm.NodePtr
	Bytes       []byte
	Diagnostics []diag.Diagnostic
	Ok          bool
}

// Compile runs the full pipeline over src. Parse errors never stop the
// pipeline; codegen is only reached if semantic analysis produced no
// errors and a `main` entrypoint was found (§7 propagation policy).
func Compile(src string) Result {
	tokens := lexer.Lex(src)
	green, parseDiags := parser.Parse(tokens)

	root := syntax.NewRoot(green)
	program := ast.NewProgram(root)

	db := hir.NewDatabase()
	lowerer := hir.NewLowerer(db)
	rootScope := lowerer.Lower(program)

	collect := func() []diag.Diagnostic {
		var diags []diag.Diagnostic
		diags = append(diags, parseDiags...)
		diags = append(diags, db.Diagnostics()...)
		return diags
	}

	if db.HasErrors() {
		return Result{Diagnostics: collect(), Ok: false}
	}

	mainId, ok := hir.FindMain(db, rootScope, len(src))
	if !ok {
		return Result{Diagnostics: collect(), Ok: false}
	}

	lirLowerer := lir.NewLowerer(db)
	mainLir := lirLowerer.LowerMain(rootScope, mainId)

	alloc := tvm.NewAllocator()
	node := codegen.Generate(alloc, mainLir)
	bytes := alloc.NodeToBytes(node)

	return Result{
		Allocator:   alloc,
		Node:        node,
		Bytes:       bytes,
		Diagnostics: collect(),
		Ok:          true,
	}
}
