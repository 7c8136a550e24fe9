package bench

import (
	"fmt"
	"strings"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

// GateType is the function of a gate statement in a bench file.
type GateType uint8

const (
	GateAnd GateType = iota + 1
	GateNand
	GateOr
	GateNor
	GateXor
	GateXnor
	GateNot
	GateBuff
	GateDff
)

var gateNames = map[string]GateType{
	"AND":  GateAnd,
	"NAND": GateNand,
	"OR":   GateOr,
	"NOR":  GateNor,
	"XOR":  GateXor,
	"XNOR": GateXnor,
	"NOT":  GateNot,
	"BUFF": GateBuff,
	"BUF":  GateBuff,
	"DFF":  GateDff,
}

// ParseGateType looks a gate name up, ignoring case.
func ParseGateType(name string) (GateType, bool) {
	g, ok := gateNames[strings.ToUpper(name)]
	return g, ok
}

func (g GateType) String() string {
	switch g {
	case GateAnd:
		return "AND"
	case GateNand:
		return "NAND"
	case GateOr:
		return "OR"
	case GateNor:
		return "NOR"
	case GateXor:
		return "XOR"
	case GateXnor:
		return "XNOR"
	case GateNot:
		return "NOT"
	case GateBuff:
		return "BUFF"
	case GateDff:
		return "DFF"
	default:
		return fmt.Sprintf("GateType(%d)", uint8(g))
	}
}

// checkArity reports whether n inputs suit g. Single-input gates take
// exactly one; the rest take one or more.
func (g GateType) checkArity(n int) bool {
	switch g {
	case GateNot, GateBuff, GateDff:
		return n == 1
	default:
		return n >= 1
	}
}

// lower builds the combinational function of g over ins. DFFs are cut
// rather than lowered and never reach here.
func (g GateType) lower(c *aig.Circuit, ins []aig.Lit) aig.Lit {
	switch g {
	case GateAnd:
		return lowerAnd(c, ins)
	case GateNand:
		return lowerAnd(c, ins).Not()
	case GateOr:
		return lowerOr(c, ins)
	case GateNor:
		return lowerOr(c, ins).Not()
	case GateXor:
		return lowerXor(c, ins)
	case GateXnor:
		return lowerXor(c, ins).Not()
	case GateNot:
		return lowerNot(ins[0])
	case GateBuff:
		return ins[0]
	default:
		panic(fmt.Sprintf("bench: %v has no combinational lowering", g))
	}
}
