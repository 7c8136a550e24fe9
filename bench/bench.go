// Package bench reads ISCAS .bench netlists and lowers them into an
// and-inverter graph.
//
// A bench file is a list of statements, one per line:
//
//	INPUT(G0)
//	OUTPUT(G17)
//	G8 = AND(G14, G6)
//	G5 = DFF(G10)
//
// Statements may reference signals defined further down. Everything after
// a '#' is a comment.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
)

// gateRE matches statements of the form
//
//	V0 = AND(A, X1)
//	V1 = NOT(X1)
//	V2 = NAND(A, B, C)
//
// capturing the output signal, the gate name and the raw argument list.
var gateRE = regexp.MustCompile(`^([^\s=(),]+)\s*=\s*(\w+)\s*\(([^()]*)\)$`)

// inOutRE matches INPUT(x) and OUTPUT(x) declarations.
var inOutRE = regexp.MustCompile(`^(\w+)\s*\(\s*([^\s(),]+)\s*\)$`)

// Errors returned while reading or lowering a netlist. They are wrapped
// with the line number or signal name involved.
var (
	ErrSyntax      = errors.New("unrecognised statement")
	ErrUnknownGate = errors.New("unknown gate type")
	ErrArity       = errors.New("wrong number of gate inputs")
	ErrRedefined   = errors.New("signal defined twice")
	ErrUndefined   = errors.New("signal never defined")
	ErrCombLoop    = errors.New("combinational loop")
)

type definition struct {
	line int
	gate GateType
	ins  []string
}

// Netlist is a parsed bench file before lowering.
type Netlist struct {
	Name    string
	Inputs  []string
	Outputs []string

	defs  map[string]*definition
	order []string
}

// Parser reads bench files. The zero value logs to slog.Default().
type Parser struct {
	Logger *slog.Logger
}

func (p Parser) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// ParseFile reads the bench file at path and lowers it. The circuit is
// named after the file, without directory or extension.
func ParseFile(path string) (*aig.Circuit, error) {
	return Parser{}.ParseFile(path)
}

// Parse reads a netlist from r and lowers it into a circuit called name.
func Parse(r io.Reader, name string) (*aig.Circuit, error) {
	return Parser{}.Parse(r, name)
}

// Read parses the statements of a bench file without lowering them.
func Read(r io.Reader, name string) (*Netlist, error) {
	return Parser{}.Read(r, name)
}

// ParseFile is the package-level ParseFile with p's logger.
func (p Parser) ParseFile(path string) (*aig.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	c, err := p.Parse(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse is the package-level Parse with p's logger.
func (p Parser) Parse(r io.Reader, name string) (*aig.Circuit, error) {
	n, err := p.Read(r, name)
	if err != nil {
		return nil, err
	}
	return n.Circuit()
}

// Read is the package-level Read with p's logger.
func (p Parser) Read(r io.Reader, name string) (*Netlist, error) {
	n := &Netlist{Name: name, defs: make(map[string]*definition)}
	declared := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matches := gateRE.FindStringSubmatch(line); matches != nil {
			if err := n.addGate(lineNo, matches[1], matches[2], matches[3], declared); err != nil {
				return nil, err
			}
			continue
		}

		decl := inOutRE.FindStringSubmatch(line)
		if decl == nil {
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrSyntax, line)
		}
		switch strings.ToUpper(decl[1]) {
		case "INPUT":
			if declared[decl[2]] || n.defs[decl[2]] != nil {
				return nil, fmt.Errorf("line %d: %w: %s", lineNo, ErrRedefined, decl[2])
			}
			declared[decl[2]] = true
			n.Inputs = append(n.Inputs, decl[2])
		case "OUTPUT":
			n.Outputs = append(n.Outputs, decl[2])
		default:
			return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrSyntax, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	p.logger().Debug("read bench netlist",
		"name", name,
		"inputs", len(n.Inputs),
		"outputs", len(n.Outputs),
		"gates", len(n.order))
	return n, nil
}

func (n *Netlist) addGate(lineNo int, out, gateName, args string, declared map[string]bool) error {
	gate, ok := ParseGateType(gateName)
	if !ok {
		return fmt.Errorf("line %d: %w: %s", lineNo, ErrUnknownGate, gateName)
	}
	if declared[out] || n.defs[out] != nil {
		return fmt.Errorf("line %d: %w: %s", lineNo, ErrRedefined, out)
	}

	var ins []string
	for _, a := range strings.Split(args, ",") {
		a = strings.TrimSpace(a)
		if a == "" {
			return fmt.Errorf("line %d: %w: empty argument to %s", lineNo, ErrSyntax, gate)
		}
		ins = append(ins, a)
	}
	if !gate.checkArity(len(ins)) {
		return fmt.Errorf("line %d: %w: %s with %d inputs", lineNo, ErrArity, gate, len(ins))
	}

	n.defs[out] = &definition{line: lineNo, gate: gate, ins: ins}
	n.order = append(n.order, out)
	return nil
}

// GateCount is the number of gate statements, DFFs included.
func (n *Netlist) GateCount() int { return len(n.order) }

const (
	unvisited byte = iota
	lowering
	lowered
)

type lowerer struct {
	n          *Netlist
	c          *aig.Circuit
	lits       map[string]aig.Lit
	state      map[string]byte
	flopInputs []string
}

// Circuit lowers the netlist. Primary inputs become circuit inputs in
// declaration order, followed by one input per DFF. Declared outputs come
// first among the circuit outputs, then one output per DFF data input.
// Gates that drive nothing are lowered too, so every statement is
// represented.
func (n *Netlist) Circuit() (*aig.Circuit, error) {
	l := &lowerer{
		n:     n,
		c:     aig.New(n.Name),
		lits:  make(map[string]aig.Lit, len(n.Inputs)+len(n.order)),
		state: make(map[string]byte, len(n.order)),
	}
	for _, name := range n.Inputs {
		l.lits[name] = l.c.AddInput()
		l.state[name] = lowered
	}
	l.cutFlops()

	for _, name := range n.Outputs {
		lit, err := l.signal(name)
		if err != nil {
			return nil, err
		}
		l.c.AddOutput(lit)
	}
	if err := l.flopOutputs(); err != nil {
		return nil, err
	}
	for _, name := range n.order {
		if _, err := l.signal(name); err != nil {
			return nil, err
		}
	}
	return l.c, nil
}

// signal returns the literal computing name, lowering its fanin cone first.
func (l *lowerer) signal(name string) (aig.Lit, error) {
	switch l.state[name] {
	case lowered:
		return l.lits[name], nil
	case lowering:
		return 0, fmt.Errorf("%w through %s", ErrCombLoop, name)
	}

	d, ok := l.n.defs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	l.state[name] = lowering
	ins := make([]aig.Lit, len(d.ins))
	for i, in := range d.ins {
		if _, def := l.n.defs[in]; !def && l.state[in] != lowered {
			return 0, fmt.Errorf("line %d: %w: %s", d.line, ErrUndefined, in)
		}
		lit, err := l.signal(in)
		if err != nil {
			return 0, err
		}
		ins[i] = lit
	}
	lit := d.gate.lower(l.c, ins)
	l.lits[name] = lit
	l.state[name] = lowered
	return lit, nil
}
