package bench

import "github.com/bcspragu/SwitchingAnalyzer/aig"

// lowerAnd folds a multi-input AND into a left-leaning chain of AIG nodes.
func lowerAnd(c *aig.Circuit, ins []aig.Lit) aig.Lit {
	out := aig.True
	for _, in := range ins {
		out = c.And(out, in)
	}
	return out
}

func lowerOr(c *aig.Circuit, ins []aig.Lit) aig.Lit {
	out := aig.False
	for _, in := range ins {
		out = c.Or(out, in)
	}
	return out
}
