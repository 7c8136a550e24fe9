package bench

// cutFlops breaks every DFF: its output becomes a circuit input, created
// after the primary inputs in statement order, and its data input is
// registered for later use as a circuit output. What remains is the
// combinational core between state elements.
func (l *lowerer) cutFlops() {
	for _, name := range l.n.order {
		d := l.n.defs[name]
		if d.gate != GateDff {
			continue
		}
		l.lits[name] = l.c.AddInput()
		l.state[name] = lowered
		l.flopInputs = append(l.flopInputs, d.ins[0])
	}
}

// flopOutputs drives one circuit output per cut DFF from its data input.
func (l *lowerer) flopOutputs() error {
	for _, in := range l.flopInputs {
		lit, err := l.signal(in)
		if err != nil {
			return err
		}
		l.c.AddOutput(lit)
	}
	return nil
}

// FlopCount is the number of DFF statements in the netlist.
func (n *Netlist) FlopCount() int {
	k := 0
	for _, d := range n.defs {
		if d.gate == GateDff {
			k++
		}
	}
	return k
}
