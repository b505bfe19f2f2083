// Package diag holds the single diagnostic type shared by every pass that
// reports one: parsing (including unterminated string literals) and
// semantic analysis (including the missing-entrypoint check) append to a
// caller-owned slice rather than panicking (see spec §7 propagation
// policy). The lexer and the LIR lowering report no diagnostics.
package diag

import (
	"fmt"

	"rue-lang.dev/rue/pkg/syntax"
)

// Diagnostic is a single-message-with-range report, the only diagnostic
// shape this compiler produces (spec §1 Non-goals).
type Diagnostic struct {
	Range   syntax.Range
	Message string
}

func New(r syntax.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Range: r, Message: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d..%d: %s", d.Range.Start, d.Range.End, d.Message)
}

// Bag accumulates diagnostics across a single compilation. It is never
// shared between compilations: the driver constructs one per call and
// nothing is silently discarded on any error path.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Addf(r syntax.Range, format string, args ...any) {
	b.Add(New(r, format, args...))
}

func (b *Bag) Extend(other []Diagnostic) { b.items = append(b.items, other...) }

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return len(b.items) > 0 }
