package ir

// Netlist is the top-level container: a named collection of graphs plus the
// set of graph names marked as simulation/synthesis top modules.
type Netlist struct {
	graphOrder []string
	graphs     map[string]*Graph
	tops       map[string]bool
}

// NewNetlist creates an empty netlist.
func NewNetlist() *Netlist {
	return &Netlist{
		graphs: make(map[string]*Graph),
		tops:   make(map[string]bool),
	}
}

// CreateGraph allocates a new, empty graph named name and adds it to the
// netlist. name must not already name a graph in this netlist.
func (n *Netlist) CreateGraph(name string) *Graph {
	if _, exists := n.graphs[name]; exists {
		panic("ir: netlist already has a graph named " + name)
	}

	g := NewGraph(name)
	n.graphs[name] = g
	n.graphOrder = append(n.graphOrder, name)

	return g
}

// FindGraph returns the graph named name, if one exists.
func (n *Netlist) FindGraph(name string) (*Graph, bool) {
	g, ok := n.graphs[name]
	return g, ok
}

// MarkAsTop records name as a top module. name must already name a graph in
// this netlist.
func (n *Netlist) MarkAsTop(name string) {
	if _, ok := n.graphs[name]; !ok {
		panic("ir: cannot mark unknown graph as top: " + name)
	}
	n.tops[name] = true
}

// IsTop reports whether name has been marked as a top module.
func (n *Netlist) IsTop(name string) bool { return n.tops[name] }

// Graphs returns every graph in the netlist, in creation order.
func (n *Netlist) Graphs() []*Graph {
	out := make([]*Graph, 0, len(n.graphOrder))
	for _, name := range n.graphOrder {
		out = append(out, n.graphs[name])
	}
	return out
}

// TopNames returns the set of graph names marked as top modules, in
// creation order.
func (n *Netlist) TopNames() []string {
	out := make([]string, 0, len(n.tops))
	for _, name := range n.graphOrder {
		if n.tops[name] {
			out = append(out, name)
		}
	}
	return out
}

// FindOperation searches every graph in the netlist for an operation whose
// name matches symbolText, returning the owning graph and operation ID of
// the first match in graph creation order. This backs cross-graph checks
// such as a DpicCall's targetImportSymbol needing to resolve to a
// DpicImport operation that may live in a different graph.
func (n *Netlist) FindOperation(symbolText string) (*Graph, OperationID, bool) {
	for _, name := range n.graphOrder {
		g := n.graphs[name]
		sym, ok := g.symbols.Lookup(symbolText)
		if !ok {
			continue
		}
		if id, ok := g.FindOperation(sym); ok {
			return g, id, true
		}
	}
	return nil, 0, false
}
