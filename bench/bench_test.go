package bench

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

// eval computes literal l of c under an assignment of the circuit inputs,
// given in input order.
func eval(c *aig.Circuit, l aig.Lit, assign []bool) bool {
	n := c.Node(l.ID())
	var v bool
	switch n.Kind {
	case aig.KindInput:
		for i, id := range c.Inputs() {
			if id == n.ID {
				v = assign[i]
			}
		}
	case aig.KindAnd:
		v = eval(c, n.Fanin0, assign) && eval(c, n.Fanin1, assign)
	}
	return v != l.Neg()
}

func assignments(n int) [][]bool {
	var out [][]bool
	for m := 0; m < 1<<n; m++ {
		a := make([]bool, n)
		for i := range a {
			a[i] = m&(1<<i) != 0
		}
		out = append(out, a)
	}
	return out
}

func TestParseS27(t *testing.T) {
	c, err := ParseFile(filepath.Join("testdata", "s27.bench"))
	require.NoError(t, err)

	assert.Equal(t, "s27", c.Name)
	// 4 primary inputs plus 3 cut flops
	assert.Len(t, c.Inputs(), 7)
	// G17 plus the data inputs of the flops
	assert.Len(t, c.Outputs(), 4)
	assert.Equal(t, 8, c.NumAnds())
	assert.Len(t, c.DFS(), 8)
}

func TestParseC17(t *testing.T) {
	c, err := ParseFile(filepath.Join("testdata", "c17.bench"))
	require.NoError(t, err)
	require.Len(t, c.Inputs(), 5)
	require.Len(t, c.Outputs(), 2)
	assert.Equal(t, 6, c.NumAnds())

	nand := func(a, b bool) bool { return !(a && b) }
	for _, in := range assignments(5) {
		g1, g2, g3, g6, g7 := in[0], in[1], in[2], in[3], in[4]
		g10 := nand(g1, g3)
		g11 := nand(g3, g6)
		g16 := nand(g2, g11)
		g19 := nand(g11, g7)
		assert.Equal(t, nand(g10, g16), eval(c, c.Outputs()[0], in), "G22 %v", in)
		assert.Equal(t, nand(g16, g19), eval(c, c.Outputs()[1], in), "G23 %v", in)
	}
}

func TestGateLowering(t *testing.T) {
	tests := []struct {
		gate string
		ins  int
		fn   func(in []bool) bool
	}{
		{"AND", 3, func(in []bool) bool { return in[0] && in[1] && in[2] }},
		{"NAND", 2, func(in []bool) bool { return !(in[0] && in[1]) }},
		{"OR", 3, func(in []bool) bool { return in[0] || in[1] || in[2] }},
		{"NOR", 2, func(in []bool) bool { return !(in[0] || in[1]) }},
		{"XOR", 3, func(in []bool) bool { return in[0] != in[1] != in[2] }},
		{"XNOR", 2, func(in []bool) bool { return in[0] == in[1] }},
		{"NOT", 1, func(in []bool) bool { return !in[0] }},
		{"BUFF", 1, func(in []bool) bool { return in[0] }},
		{"BUF", 1, func(in []bool) bool { return in[0] }},
	}
	for _, tc := range tests {
		t.Run(tc.gate, func(t *testing.T) {
			var b strings.Builder
			var args []string
			for i := 0; i < tc.ins; i++ {
				fmt.Fprintf(&b, "INPUT(i%d)\n", i)
				args = append(args, fmt.Sprintf("i%d", i))
			}
			fmt.Fprintf(&b, "OUTPUT(o)\no = %s(%s)\n", tc.gate, strings.Join(args, ", "))

			c, err := Parse(strings.NewReader(b.String()), tc.gate)
			require.NoError(t, err)
			require.Len(t, c.Outputs(), 1)
			for _, in := range assignments(tc.ins) {
				assert.Equal(t, tc.fn(in), eval(c, c.Outputs()[0], in), "inputs %v", in)
			}
		})
	}
}

func TestNotCostsNoNode(t *testing.T) {
	c, err := Parse(strings.NewReader("INPUT(a)\nOUTPUT(z)\nz = NOT(a)\n"), "inv")
	require.NoError(t, err)
	assert.Equal(t, 0, c.NumAnds())
	assert.True(t, c.Outputs()[0].Neg())
}

func TestFlopIsCut(t *testing.T) {
	src := `
INPUT(en)
OUTPUT(q)
q = DFF(d)
d = AND(en, nq)   # feedback through the flop
nq = NOT(q)
`
	n, err := Read(strings.NewReader(src), "toggle")
	require.NoError(t, err)
	assert.Equal(t, 1, n.FlopCount())
	assert.Equal(t, 3, n.GateCount())

	c, err := n.Circuit()
	require.NoError(t, err)
	require.Len(t, c.Inputs(), 2)
	// q is the second input, and the flop's data input is the second output
	assert.Equal(t, c.Inputs()[1], c.Outputs()[0].ID())
	require.Len(t, c.Outputs(), 2)
	d := c.Outputs()[1]
	for _, in := range assignments(2) {
		assert.Equal(t, in[0] && !in[1], eval(c, d, in))
	}
}

func TestDanglingGatesAreLowered(t *testing.T) {
	c, err := Parse(strings.NewReader("INPUT(a)\nINPUT(b)\nOUTPUT(a)\nx = AND(a, b)\n"), "dangle")
	require.NoError(t, err)
	assert.Equal(t, 1, c.NumAnds())
	assert.Len(t, c.DFS(), 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
		msg  string
	}{
		{"syntax", "INPUT(a)\nthis is not bench\n", ErrSyntax, "line 2"},
		{"unknown declaration", "WIRE(a)\n", ErrSyntax, "line 1"},
		{"unknown gate", "INPUT(a)\nb = MUX(a, a)\n", ErrUnknownGate, "MUX"},
		{"not arity", "INPUT(a)\nINPUT(b)\nc = NOT(a, b)\n", ErrArity, "line 3"},
		{"dff arity", "INPUT(a)\nINPUT(b)\nc = DFF(a, b)\n", ErrArity, "DFF"},
		{"empty argument", "INPUT(a)\nc = AND(a, )\n", ErrSyntax, "empty argument"},
		{"redefined gate", "INPUT(a)\nb = NOT(a)\nb = BUFF(a)\n", ErrRedefined, "line 3"},
		{"input redefined", "INPUT(a)\na = NOT(a)\n", ErrRedefined, "line 2"},
		{"undefined output", "INPUT(a)\nOUTPUT(z)\n", ErrUndefined, "z"},
		{"undefined fanin", "INPUT(a)\nOUTPUT(z)\nz = AND(a, q)\n", ErrUndefined, "line 3"},
		{"loop", "INPUT(a)\nOUTPUT(x)\nx = AND(a, y)\ny = NOT(x)\n", ErrCombLoop, "through"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.src), tc.name)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.bench"))
	assert.Error(t, err)
}

func TestParseGateType(t *testing.T) {
	g, ok := ParseGateType("nand")
	assert.True(t, ok)
	assert.Equal(t, GateNand, g)
	assert.Equal(t, "NAND", g.String())

	_, ok = ParseGateType("mux")
	assert.False(t, ok)
	assert.Equal(t, "GateType(0)", GateType(0).String())
}

func TestParserLogsToItsLogger(t *testing.T) {
	var buf bytes.Buffer
	p := Parser{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	c, err := p.ParseFile(filepath.Join("testdata", "c17.bench"))
	require.NoError(t, err)
	assert.Equal(t, "c17", c.Name)
	assert.Contains(t, buf.String(), "read bench netlist")
	assert.Contains(t, buf.String(), "gates=6")
}

func BenchmarkParseS27(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := ParseFile(filepath.Join("testdata", "s27.bench")); err != nil {
			b.Fatal(err)
		}
	}
}
