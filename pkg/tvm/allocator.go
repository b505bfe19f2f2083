// Package tvm is a thin allocator and byte serializer for the target VM's
// s-expression encoding (spec.md §6): atoms are length-prefixed, cons
// pairs use a fixed opcode byte. Confirmed against the clvmr-style
// encoding the reference implementation's codegen targets.
package tvm

import (
	"bytes"
	"fmt"
	"math/big"
)

// NodePtr is an opaque handle into an Allocator's arena.
type NodePtr int32

type node struct {
	atom   []byte
	isPair bool
	left   NodePtr
	right  NodePtr
}

// Allocator owns every node produced during one codegen run; nodes are
// never freed individually, matching the single-shot compile-then-emit
// lifecycle described in §5.
type Allocator struct {
	nodes []node
}

func NewAllocator() *Allocator { return &Allocator{} }

func (a *Allocator) NewAtom(b []byte) NodePtr {
	cp := append([]byte(nil), b...)
	a.nodes = append(a.nodes, node{atom: cp})
	return NodePtr(len(a.nodes) - 1)
}

// NewNumber encodes n as a minimal big-endian two's-complement atom, the
// same representation the target VM uses for its numeric atoms.
func (a *Allocator) NewNumber(n *big.Int) NodePtr {
	return a.NewAtom(encodeNumber(n))
}

func (a *Allocator) NewPair(left, right NodePtr) NodePtr {
	a.nodes = append(a.nodes, node{isPair: true, left: left, right: right})
	return NodePtr(len(a.nodes) - 1)
}

func (a *Allocator) Null() NodePtr { return a.NewAtom(nil) }
func (a *Allocator) One() NodePtr  { return a.NewAtom([]byte{1}) }

// NodeToBytes serializes n per the target VM's wire format: an atom is a
// length-prefix header followed by its raw bytes (except a single byte
// below 0x80, which is written as itself), and a cons pair is the single
// byte 0xff followed by the serialized left then right child.
func (a *Allocator) NodeToBytes(n NodePtr) []byte {
	var buf bytes.Buffer
	a.write(&buf, n)
	return buf.Bytes()
}

func (a *Allocator) write(buf *bytes.Buffer, n NodePtr) {
	nd := a.nodes[n]
	if nd.isPair {
		buf.WriteByte(0xff)
		a.write(buf, nd.left)
		a.write(buf, nd.right)
		return
	}
	writeAtom(buf, nd.atom)
}

func writeAtom(buf *bytes.Buffer, b []byte) {
	l := len(b)
	switch {
	case l == 0:
		buf.WriteByte(0x80)
	case l == 1 && b[0] < 0x80:
		buf.WriteByte(b[0])
	case l < 0x40:
		buf.WriteByte(0x80 | byte(l))
		buf.Write(b)
	case l < 0x2000:
		buf.WriteByte(0xC0 | byte(l>>8))
		buf.WriteByte(byte(l))
		buf.Write(b)
	case l < 0x100000:
		buf.WriteByte(0xE0 | byte(l>>16))
		buf.WriteByte(byte(l >> 8))
		buf.WriteByte(byte(l))
		buf.Write(b)
	case l < 0x8000000:
		buf.WriteByte(0xF0 | byte(l>>24))
		buf.WriteByte(byte(l >> 16))
		buf.WriteByte(byte(l >> 8))
		buf.WriteByte(byte(l))
		buf.Write(b)
	default:
		panic(fmt.Sprintf("tvm: atom of length %d exceeds the encodable range", l))
	}
}

// encodeNumber renders n the way the target VM's atoms encode integers:
// empty bytes for zero, otherwise the shortest big-endian two's-complement
// representation (with a leading zero byte inserted when needed so a
// positive value's sign bit doesn't read as negative).
func encodeNumber(n *big.Int) []byte {
	if n.Sign() == 0 {
		return nil
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if len(b) > 0 && b[0]&0x80 != 0 {
			return append([]byte{0}, b...)
		}
		return b
	}

	numBytes := new(big.Int).Not(n).BitLen()/8 + 1
	mod := new(big.Int).Lsh(big.NewInt(1), uint(numBytes*8))
	v := new(big.Int).Add(mod, n)
	b := v.Bytes()
	for len(b) < numBytes {
		b = append([]byte{0}, b...)
	}
	if len(b) > 0 && b[0]&0x80 == 0 {
		b = append([]byte{0xff}, b...)
	}
	return b
}
