package bench

import "github.com/bcspragu/SwitchingAnalyzer/aig"

// lowerNot costs no node: inversion lives on the edge.
func lowerNot(in aig.Lit) aig.Lit {
	return in.Not()
}

// lowerXor computes the parity of ins.
func lowerXor(c *aig.Circuit, ins []aig.Lit) aig.Lit {
	out := aig.False
	for _, in := range ins {
		out = c.Xor(out, in)
	}
	return out
}
