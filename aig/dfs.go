package aig

const (
	unvisited byte = iota
	onStack
	done
)

// DFS returns the identifiers of all AND nodes in dependency order: every
// node appears after the AND nodes in its fanin cone.
//
// Nodes reachable from the outputs come first, in post-order of a traversal
// that starts from each output in turn. AND nodes not reachable from any
// output follow, visited in identifier order, so dangling logic still gets
// an entry. The walk uses an explicit stack; deep circuits do not grow the
// goroutine stack.
func (c *Circuit) DFS() []int {
	order := make([]int, 0, c.nAnds)
	marks := make([]byte, len(c.nodes))
	stack := make([]int, 0, 64)

	visit := func(root int) {
		if marks[root] == done || c.nodes[root].Kind != KindAnd {
			return
		}
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			switch marks[id] {
			case done:
				stack = stack[:len(stack)-1]
			case onStack:
				marks[id] = done
				order = append(order, id)
				stack = stack[:len(stack)-1]
			default:
				marks[id] = onStack
				n := c.nodes[id]
				// push fanin1 first so fanin0's cone is emitted first
				for _, in := range [2]Lit{n.Fanin1, n.Fanin0} {
					in := in.ID()
					if c.nodes[in].Kind == KindAnd && marks[in] == unvisited {
						stack = append(stack, in)
					}
				}
			}
		}
	}

	for _, o := range c.outputs {
		visit(o.ID())
	}
	for id := range c.nodes {
		visit(id)
	}
	return order
}
