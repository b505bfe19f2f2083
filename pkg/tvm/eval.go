package tvm

import (
	"bytes"
	"fmt"
	"math/big"
	"math/bits"
)

// Eval runs a compiled program against an environment, the same
// reduction rules the target VM's bytecode encodes (spec.md §4.6's
// opcode table). It exists to back the CLI's optional --run flag; the
// byte format itself, per §6, is external and not otherwise interpreted
// by this compiler.
func Eval(a *Allocator, program, env NodePtr) (NodePtr, int64, error) {
	cost := int64(0)
	result, err := evalNode(a, program, env, &cost)
	return result, cost, err
}

func evalNode(a *Allocator, program, env NodePtr, cost *int64) (NodePtr, error) {
	*cost++
	nd := a.nodes[program]
	if !nd.isPair {
		p := decodeNumber(nd.atom)
		if !p.IsInt64() {
			return 0, fmt.Errorf("tvm: path overflows a machine int")
		}
		return pathLookup(a, env, p.Int64())
	}

	opNode := a.nodes[nd.left]
	if opNode.isPair {
		return 0, fmt.Errorf("tvm: operator position must be an atom")
	}
	op := decodeNumber(opNode.atom)
	args := listItems(a, nd.right)

	switch op.Int64() {
	case 1: // q
		return nd.right, nil
	case 2: // a
		if len(args) != 2 {
			return 0, fmt.Errorf("tvm: `a` expects 2 operands, got %d", len(args))
		}
		prog, err := evalNode(a, args[0], env, cost)
		if err != nil {
			return 0, err
		}
		newEnv, err := evalNode(a, args[1], env, cost)
		if err != nil {
			return 0, err
		}
		return evalNode(a, prog, newEnv, cost)
	case 3: // i
		if len(args) != 3 {
			return 0, fmt.Errorf("tvm: `i` expects 3 operands, got %d", len(args))
		}
		// Like every other operator, `i` evaluates all of its operands before
		// dispatch; the caller's (q . branch) wrapping (generateIf) is what
		// keeps the non-taken branch cheap to evaluate rather than run.
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		if isTruthy(a, vals[0]) {
			return vals[1], nil
		}
		return vals[2], nil
	case 4: // c
		if len(args) != 2 {
			return 0, fmt.Errorf("tvm: `c` expects 2 operands, got %d", len(args))
		}
		l, err := evalNode(a, args[0], env, cost)
		if err != nil {
			return 0, err
		}
		r, err := evalNode(a, args[1], env, cost)
		if err != nil {
			return 0, err
		}
		return a.NewPair(l, r), nil
	case 9: // eq
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		return boolNode(a, bytes.Equal(atomBytes(a, vals[0]), atomBytes(a, vals[1]))), nil
	case 16: // add
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		sum := big.NewInt(0)
		for _, v := range vals {
			sum.Add(sum, decodeNumber(atomBytes(a, v)))
		}
		return a.NewNumber(sum), nil
	case 17: // sub
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		if len(vals) == 0 {
			return a.Null(), nil
		}
		acc := new(big.Int).Set(decodeNumber(atomBytes(a, vals[0])))
		for _, v := range vals[1:] {
			acc.Sub(acc, decodeNumber(atomBytes(a, v)))
		}
		return a.NewNumber(acc), nil
	case 18: // mul
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		prod := big.NewInt(1)
		for _, v := range vals {
			prod.Mul(prod, decodeNumber(atomBytes(a, v)))
		}
		return a.NewNumber(prod), nil
	case 19: // div
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		if len(vals) != 2 {
			return 0, fmt.Errorf("tvm: `div` expects 2 operands, got %d", len(vals))
		}
		denom := decodeNumber(atomBytes(a, vals[1]))
		if denom.Sign() == 0 {
			return 0, fmt.Errorf("tvm: division by zero")
		}
		q := new(big.Int).Quo(decodeNumber(atomBytes(a, vals[0])), denom)
		return a.NewNumber(q), nil
	case 21: // gt
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		if len(vals) != 2 {
			return 0, fmt.Errorf("tvm: `gt` expects 2 operands, got %d", len(vals))
		}
		cmp := decodeNumber(atomBytes(a, vals[0])).Cmp(decodeNumber(atomBytes(a, vals[1])))
		return boolNode(a, cmp > 0), nil
	case 32: // not
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		if len(vals) != 1 {
			return 0, fmt.Errorf("tvm: `not` expects 1 operand, got %d", len(vals))
		}
		return boolNode(a, !isTruthy(a, vals[0])), nil
	case 33: // any
		vals, err := evalArgs(a, args, env, cost)
		if err != nil {
			return 0, err
		}
		result := false
		for _, v := range vals {
			if isTruthy(a, v) {
				result = true
				break
			}
		}
		return boolNode(a, result), nil
	default:
		return 0, fmt.Errorf("tvm: unknown opcode %d", op.Int64())
	}
}

func evalArgs(a *Allocator, args []NodePtr, env NodePtr, cost *int64) ([]NodePtr, error) {
	out := make([]NodePtr, 0, len(args))
	for _, arg := range args {
		v, err := evalNode(a, arg, env, cost)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// listItems walks a nil-terminated cons list (as produced by the `c`
// chains codegen emits) into a slice of its elements.
func listItems(a *Allocator, n NodePtr) []NodePtr {
	var out []NodePtr
	cur := n
	for {
		nd := a.nodes[cur]
		if !nd.isPair {
			break
		}
		out = append(out, nd.left)
		cur = nd.right
	}
	return out
}

// pathLookup walks env according to p's binary digits. Drop the leading
// 1 bit, then read the rest from least-significant to most-significant:
// 0 means "car", 1 means "cdr" (GLOSSARY: "Path"). Reading least-significant
// bit first is what makes slot k's path (3·2^k − 1, per pkg/lir's PathOf)
// land on "cdr applied k times, then a car" — the k-th element of a
// right-nested list — rather than the reverse traversal a naive
// most-significant-first reading would give.
func pathLookup(a *Allocator, env NodePtr, p int64) (NodePtr, error) {
	if p < 0 {
		return 0, fmt.Errorf("tvm: invalid path %d", p)
	}
	if p == 0 {
		// The nil atom self-evaluates: it shows up as the list terminator
		// in codegen's argument chains and must not be treated as a real
		// path lookup.
		return a.Null(), nil
	}
	if p == 1 {
		return env, nil
	}
	cur := env
	bitLen := bits.Len64(uint64(p))
	for i := 0; i <= bitLen-2; i++ {
		bit := (p >> uint(i)) & 1
		nd := a.nodes[cur]
		if !nd.isPair {
			return 0, fmt.Errorf("tvm: path %d expects a pair, found an atom", p)
		}
		if bit == 0 {
			cur = nd.left
		} else {
			cur = nd.right
		}
	}
	return cur, nil
}

func atomBytes(a *Allocator, n NodePtr) []byte { return a.nodes[n].atom }

func isTruthy(a *Allocator, n NodePtr) bool {
	nd := a.nodes[n]
	return nd.isPair || len(nd.atom) != 0
}

func boolNode(a *Allocator, b bool) NodePtr {
	if b {
		return a.One()
	}
	return a.Null()
}

// decodeNumber is the inverse of encodeNumber: the empty atom is 0,
// otherwise a minimal big-endian two's-complement integer.
func decodeNumber(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	v := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		mod := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		v.Sub(v, mod)
	}
	return v
}
