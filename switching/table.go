// Package switching holds the switching value table and its .switch text
// format.
//
// A .switch file lists one record per circuit input and one per internal AND
// node:
//
//	# free-form comment lines
//	CI 0: ID=1 0.5
//	CI 1: ID=2 0.5
//	Node 0: ID=3 0.5
//
// The ID= field is the key: a record's value is stored at that identifier
// whatever position the record holds in the file.
package switching

import (
	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

// Suffix is appended to a base name to form a .switch file path.
const Suffix = ".switch"

// Placeholder is the value a template writes for every record.
const Placeholder = 0.5

// Table maps a node identifier to its switching probability. It is dense:
// its length is the circuit's NumObjects() and unused identifiers hold 0.
type Table []float64

// NewTable allocates a zeroed table sized for c.
func NewTable(c *aig.Circuit) Table {
	return make(Table, c.NumObjects())
}

// Summary condenses a table over the identifiers of c.
type Summary struct {
	Inputs int
	Nodes  int
	Min    float64
	Max    float64
	Mean   float64
}

// Summarize computes min, max and mean switching over the inputs and AND
// nodes of c. The constant node is not counted.
func (t Table) Summarize(c *aig.Circuit) Summary {
	s := Summary{Inputs: len(c.Inputs()), Nodes: c.NumAnds()}
	n := 0
	var sum float64
	for id := 1; id < len(t) && id < c.NumObjects(); id++ {
		if !c.IsInput(id) && !c.IsAnd(id) {
			continue
		}
		v := t[id]
		if n == 0 || v < s.Min {
			s.Min = v
		}
		if n == 0 || v > s.Max {
			s.Max = v
		}
		sum += v
		n++
	}
	if n > 0 {
		s.Mean = sum / float64(n)
	}
	return s
}
