// Package aig holds an and-inverter graph: a constant node, circuit inputs
// and two-input AND nodes whose fanin edges may be complemented.
//
// Node identifiers are dense and assigned in creation order. Identifier 0 is
// always the constant-false node, so the first input gets identifier 1.
// Because an AND node can only be built from literals that already exist,
// every node's fanins have smaller identifiers than the node itself.
//
// A Circuit is not safe for concurrent modification. Once built it may be
// read from any number of goroutines.
package aig

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Lit is a reference to a node together with a complement flag, packed as
// id<<1 | complement.
type Lit uint32

const (
	// False is the constant-false literal.
	False Lit = 0
	// True is the constant-true literal.
	True Lit = 1
)

// MakeLit builds the literal for node id, complemented when neg is set.
func MakeLit(id int, neg bool) Lit {
	l := Lit(id) << 1
	if neg {
		l |= 1
	}
	return l
}

// ID returns the identifier of the node l refers to.
func (l Lit) ID() int { return int(l >> 1) }

// Neg reports whether l is complemented.
func (l Lit) Neg() bool { return l&1 == 1 }

// Not returns the complement of l.
func (l Lit) Not() Lit { return l ^ 1 }

// Regular strips the complement flag.
func (l Lit) Regular() Lit { return l &^ 1 }

func (l Lit) String() string {
	if l.Neg() {
		return fmt.Sprintf("!%d", l.ID())
	}
	return fmt.Sprintf("%d", l.ID())
}

// Kind is the node variant.
type Kind uint8

const (
	KindConst Kind = iota
	KindInput
	KindAnd
)

func (k Kind) String() string {
	switch k {
	case KindConst:
		return "const"
	case KindInput:
		return "input"
	case KindAnd:
		return "and"
	default:
		return "unknown"
	}
}

// Node is one vertex of the graph. Fanin0 and Fanin1 are only meaningful for
// KindAnd.
type Node struct {
	ID     int
	Kind   Kind
	Fanin0 Lit
	Fanin1 Lit
}

type faninKey struct {
	a, b Lit
}

// Circuit is an and-inverter graph with ordered inputs and outputs.
type Circuit struct {
	Name string

	nodes   []Node
	inputs  []int
	outputs []Lit
	nAnds   int

	// structural hash from an ordered fanin pair to the AND node computing it
	strash map[faninKey]int
}

// New returns an empty circuit holding only the constant node.
func New(name string) *Circuit {
	return &Circuit{
		Name:   name,
		nodes:  []Node{{ID: 0, Kind: KindConst}},
		strash: make(map[faninKey]int),
	}
}

// AddInput creates a new circuit input and returns its positive literal.
func (c *Circuit) AddInput() Lit {
	id := len(c.nodes)
	c.nodes = append(c.nodes, Node{ID: id, Kind: KindInput})
	c.inputs = append(c.inputs, id)
	return MakeLit(id, false)
}

// And returns a literal for a∧b. Trivial cases are folded and structurally
// identical AND nodes are shared, so And may return an existing node.
func (c *Circuit) And(a, b Lit) Lit {
	c.mustHave(a)
	c.mustHave(b)

	if a > b {
		a, b = b, a
	}
	switch {
	case a == False:
		return False
	case a == True:
		return b
	case a.Regular() == b.Regular():
		// a∧a is a, a∧¬a is false
		if a == b {
			return a
		}
		return False
	}

	key := faninKey{a, b}
	if id, ok := c.strash[key]; ok {
		return MakeLit(id, false)
	}
	id := len(c.nodes)
	c.nodes = append(c.nodes, Node{ID: id, Kind: KindAnd, Fanin0: a, Fanin1: b})
	c.strash[key] = id
	c.nAnds++
	return MakeLit(id, false)
}

// Or returns a literal for a∨b.
func (c *Circuit) Or(a, b Lit) Lit {
	return c.And(a.Not(), b.Not()).Not()
}

// Xor returns a literal for a⊕b, built from three AND nodes.
func (c *Circuit) Xor(a, b Lit) Lit {
	return c.Or(c.And(a, b.Not()), c.And(a.Not(), b))
}

// AddOutput marks l as a circuit output.
func (c *Circuit) AddOutput(l Lit) {
	c.mustHave(l)
	c.outputs = append(c.outputs, l)
}

func (c *Circuit) mustHave(l Lit) {
	if l.ID() >= len(c.nodes) {
		panic(fmt.Sprintf("aig: literal %v refers to unknown node (max id %d)", l, c.MaxID()))
	}
}

// Inputs returns the input identifiers in creation order. The slice must not
// be modified.
func (c *Circuit) Inputs() []int { return c.inputs }

// Outputs returns the output literals in creation order. The slice must not
// be modified.
func (c *Circuit) Outputs() []Lit { return c.outputs }

// Node returns the node with identifier id.
func (c *Circuit) Node(id int) Node { return c.nodes[id] }

// MaxID is the largest identifier in use.
func (c *Circuit) MaxID() int { return len(c.nodes) - 1 }

// NumObjects is MaxID()+1, the length of any table indexed by identifier.
func (c *Circuit) NumObjects() int { return len(c.nodes) }

// NumAnds is the number of AND nodes.
func (c *Circuit) NumAnds() int { return c.nAnds }

// IsInput reports whether id names a circuit input.
func (c *Circuit) IsInput(id int) bool {
	return id >= 0 && id < len(c.nodes) && c.nodes[id].Kind == KindInput
}

// IsAnd reports whether id names an AND node.
func (c *Circuit) IsAnd(id int) bool {
	return id >= 0 && id < len(c.nodes) && c.nodes[id].Kind == KindAnd
}

// Fingerprint hashes the structure of the circuit (node kinds, fanins,
// input and output order). The name does not take part.
func (c *Circuit) Fingerprint() string {
	h := sha256.New()
	var buf [4]byte
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}
	put(uint32(len(c.nodes)))
	for _, n := range c.nodes {
		put(uint32(n.Kind))
		put(uint32(n.Fanin0))
		put(uint32(n.Fanin1))
	}
	put(uint32(len(c.outputs)))
	for _, o := range c.outputs {
		put(uint32(o))
	}
	return hex.EncodeToString(h.Sum(nil))
}
