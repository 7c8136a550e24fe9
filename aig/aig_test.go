package aig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLit(t *testing.T) {
	l := MakeLit(5, true)
	assert.Equal(t, 5, l.ID())
	assert.True(t, l.Neg())
	assert.False(t, l.Not().Neg())
	assert.Equal(t, MakeLit(5, false), l.Regular())
	assert.Equal(t, "!5", l.String())
	assert.Equal(t, "5", l.Not().String())
}

func TestNewCircuitReservesConstant(t *testing.T) {
	c := New("empty")
	assert.Equal(t, 0, c.MaxID())
	assert.Equal(t, 1, c.NumObjects())
	assert.Equal(t, KindConst, c.Node(0).Kind)

	a := c.AddInput()
	assert.Equal(t, 1, a.ID())
	assert.True(t, c.IsInput(1))
	assert.False(t, c.IsAnd(1))
	assert.False(t, c.IsInput(7))
}

func TestAndFolding(t *testing.T) {
	c := New("fold")
	a := c.AddInput()
	b := c.AddInput()

	tests := []struct {
		name string
		got  Lit
		want Lit
	}{
		{"false", c.And(a, False), False},
		{"true", c.And(True, b), b},
		{"idempotent", c.And(a, a), a},
		{"contradiction", c.And(a.Not(), a), False},
		{"idempotent complement", c.And(b.Not(), b.Not()), b.Not()},
		{"contradiction swapped", c.And(b, b.Not()), False},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.got)
		})
	}
	assert.Equal(t, 0, c.NumAnds())
}

func TestAndStructuralHashing(t *testing.T) {
	c := New("strash")
	a := c.AddInput()
	b := c.AddInput()

	x := c.And(a, b.Not())
	y := c.And(b.Not(), a)
	assert.Equal(t, x, y)
	assert.Equal(t, 1, c.NumAnds())
	assert.Equal(t, 3, x.ID())

	n := c.Node(x.ID())
	assert.Equal(t, KindAnd, n.Kind)
	assert.Equal(t, a, n.Fanin0)
	assert.Equal(t, b.Not(), n.Fanin1)
}

func TestXorUsesThreeAnds(t *testing.T) {
	c := New("xor")
	a := c.AddInput()
	b := c.AddInput()
	c.AddOutput(c.Xor(a, b))
	assert.Equal(t, 3, c.NumAnds())
}

func TestAndUnknownLiteralPanics(t *testing.T) {
	c := New("bad")
	a := c.AddInput()
	assert.Panics(t, func() { c.And(a, MakeLit(9, false)) })
}

func TestDFSDependencyOrder(t *testing.T) {
	c := New("chain")
	a := c.AddInput()
	b := c.AddInput()
	d := c.AddInput()

	ab := c.And(a, b)
	bd := c.And(b, d.Not())
	top := c.And(ab, bd)
	dangling := c.And(a, d)
	c.AddOutput(top.Not())

	order := c.DFS()
	require.Len(t, order, 4)
	assert.Equal(t, []int{ab.ID(), bd.ID(), top.ID(), dangling.ID()}, order)

	pos := make(map[int]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, id := range order {
		n := c.Node(id)
		for _, in := range []Lit{n.Fanin0, n.Fanin1} {
			if c.IsAnd(in.ID()) {
				assert.Less(t, pos[in.ID()], pos[id], "fanin %d of %d", in.ID(), id)
			}
		}
	}
}

func TestDFSSharedFanin(t *testing.T) {
	c := New("diamond")
	a := c.AddInput()
	b := c.AddInput()
	shared := c.And(a, b)
	l := c.And(shared, a.Not())
	r := c.And(shared, b.Not())
	c.AddOutput(c.And(l.Not(), r.Not()))

	order := c.DFS()
	assert.Len(t, order, 4)
	assert.Equal(t, shared.ID(), order[0])
}

func TestFingerprint(t *testing.T) {
	build := func(name string, neg bool) *Circuit {
		c := New(name)
		a := c.AddInput()
		b := c.AddInput()
		if neg {
			b = b.Not()
		}
		c.AddOutput(c.And(a, b))
		return c
	}

	assert.Equal(t, build("x", false).Fingerprint(), build("y", false).Fingerprint())
	assert.NotEqual(t, build("x", false).Fingerprint(), build("x", true).Fingerprint())
}
