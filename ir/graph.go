package ir

// Graph is one module's IR body: a symbol table, the values and operations
// it owns, and the three port collections at its boundary.
//
// Values and operations are addressed by dense per-graph IDs (ValueID /
// OperationID) assigned in creation order starting at 1. The symbol-to-ID
// maps make symbol-based lookup (as used by the JSON importer and by
// diagnostics that only have a name) an O(1) operation as well.
type Graph struct {
	name    string
	symbols *SymbolTable

	valuesByID     []*Value // index 0 unused
	valuesBySymbol map[SymbolID]*Value

	opsByID     []*Operation // index 0 unused
	opsBySymbol map[SymbolID]*Operation
	opOrder     []OperationID

	inputPorts  []InputPort
	outputPorts []OutputPort
	inoutPorts  []InoutPort
}

// NewGraph creates an empty graph named name.
func NewGraph(name string) *Graph {
	return &Graph{
		name:           name,
		symbols:        NewSymbolTable(),
		valuesByID:     make([]*Value, 1, 16),
		valuesBySymbol: make(map[SymbolID]*Value),
		opsByID:        make([]*Operation, 1, 16),
		opsBySymbol:    make(map[SymbolID]*Operation),
	}
}

// Name returns the graph's name.
func (g *Graph) Name() string { return g.name }

// InternSymbol interns text into this graph's symbol table.
func (g *Graph) InternSymbol(text string) SymbolID { return g.symbols.Intern(text) }

// SymbolText resolves id back to its text via this graph's symbol table.
func (g *Graph) SymbolText(id SymbolID) string { return g.symbols.Text(id) }

// LookupSymbol returns the ID already interned for text in this graph, if
// any, without interning a new one.
func (g *Graph) LookupSymbol(text string) (SymbolID, bool) { return g.symbols.Lookup(text) }

// SetUsers replaces the stored user list for id wholesale. This is the one
// escape hatch into the def-use cache that bypasses the normal
// AddOperand/EraseOp bookkeeping — it exists solely for the verifier pass's
// repair step, which recomputes the correct list from operand lists and
// needs to install it atomically.
func (g *Graph) SetUsers(id ValueID, users []ValueUser) {
	g.GetValue(id).users = users
}

// CreateValue allocates a new value named sym with the given width and
// signedness. width must be non-negative. sym must not already name a
// value in this graph — that is a programmer error and panics, matching
// the fail-loudly contract for construction-API misuse.
func (g *Graph) CreateValue(sym SymbolID, width int32, signed bool) ValueID {
	if width < 0 {
		panic("ir: value width must be non-negative")
	}
	if _, exists := g.valuesBySymbol[sym]; exists {
		panic("ir: symbol already names a value in this graph: " + g.symbols.Text(sym))
	}

	id := ValueID(len(g.valuesByID))
	v := &Value{graph: g, id: id, symbol: sym, Width: width, Signed: signed}
	g.valuesByID = append(g.valuesByID, v)
	g.valuesBySymbol[sym] = v

	return id
}

// FindValue returns the value named sym, if one exists.
func (g *Graph) FindValue(sym SymbolID) (ValueID, bool) {
	v, ok := g.valuesBySymbol[sym]
	if !ok {
		return 0, false
	}
	return v.id, true
}

// GetValue returns the value identified by id. It panics if id does not
// name a live value in this graph — any ValueID a caller holds must have
// come from CreateValue on this same graph.
func (g *Graph) GetValue(id ValueID) *Value {
	if int(id) >= len(g.valuesByID) || g.valuesByID[id] == nil {
		panic("ir: value id not valid in this graph")
	}
	return g.valuesByID[id]
}

// Values returns every live value in the graph, in ID order. The slice is
// freshly allocated and safe for the caller to keep.
func (g *Graph) Values() []*Value {
	out := make([]*Value, 0, len(g.valuesByID)-1)
	for _, v := range g.valuesByID[1:] {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// CreateOperation allocates a new operation of the given kind named sym.
// sym must not already name an operation in this graph.
func (g *Graph) CreateOperation(kind OperationKind, sym SymbolID) OperationID {
	if _, exists := g.opsBySymbol[sym]; exists {
		panic("ir: symbol already names an operation in this graph: " + g.symbols.Text(sym))
	}

	id := OperationID(len(g.opsByID))
	op := &Operation{graph: g, id: id, symbol: sym, kind: kind, attrs: make(map[string]AttributeValue)}
	g.opsByID = append(g.opsByID, op)
	g.opsBySymbol[sym] = op
	g.opOrder = append(g.opOrder, id)

	return id
}

// FindOperation returns the operation named sym, if one exists.
func (g *Graph) FindOperation(sym SymbolID) (OperationID, bool) {
	op, ok := g.opsBySymbol[sym]
	if !ok {
		return 0, false
	}
	return op.id, true
}

// GetOperation returns the operation identified by id. It panics if id does
// not name a live operation in this graph.
func (g *Graph) GetOperation(id OperationID) *Operation {
	if int(id) >= len(g.opsByID) || g.opsByID[id] == nil {
		panic("ir: operation id not valid in this graph")
	}
	return g.opsByID[id]
}

// OperationOrder returns the insertion-ordered list of live operation IDs.
// This ordering is the canonical iteration order for deterministic passes
// and is preserved across erasures (erased IDs are simply removed from the
// list, not replaced).
func (g *Graph) OperationOrder() []OperationID {
	out := make([]OperationID, len(g.opOrder))
	copy(out, g.opOrder)
	return out
}

// AddOperand appends valueID to opID's operand list and records a new user
// entry on the value.
func (g *Graph) AddOperand(opID OperationID, valueID ValueID) {
	op := g.GetOperation(opID)
	v := g.GetValue(valueID)

	index := len(op.operands)
	op.operands = append(op.operands, valueID)
	v.users = append(v.users, ValueUser{Op: opID, OperandIndex: index})
}

// AddResult appends valueID to opID's result list and marks the value as
// defined by opID. The value must not already be the result of another
// operation — that is a programmer error and panics.
func (g *Graph) AddResult(opID OperationID, valueID ValueID) {
	op := g.GetOperation(opID)
	v := g.GetValue(valueID)

	if v.definingOp.Valid() {
		panic("ir: value is already the result of another operation: " + v.Name())
	}

	op.results = append(op.results, valueID)
	v.definingOp = opID
}

// ReplaceResult replaces opID's result at index with newValueID: the prior
// value's defining-op association is cleared and the new value is marked as
// defined by opID. The caller is responsible for ensuring newValueID is not
// already defined elsewhere, per spec.
func (g *Graph) ReplaceResult(opID OperationID, index int, newValueID ValueID) {
	op := g.GetOperation(opID)
	if index < 0 || index >= len(op.results) {
		panic("ir: result index out of range")
	}

	old := op.results[index]
	if old.Valid() {
		oldValue := g.GetValue(old)
		if oldValue.definingOp == opID {
			oldValue.definingOp = 0
		}
	}

	newValue := g.GetValue(newValueID)
	op.results[index] = newValueID
	newValue.definingOp = opID
}

// EraseOp removes opID from the graph. It first detaches the operation's
// own footprint — clearing its user entries from its operands and its
// defining-op mark from its results — then verifies no value in the graph
// still references it. A false return means detachment left a dangling
// reference elsewhere, which indicates the graph was already in an
// inconsistent state before the call (a programmer error the verifier pass
// can diagnose and, with autoFixPointers, repair).
func (g *Graph) EraseOp(opID OperationID) bool {
	op := g.GetOperation(opID)

	for i, vid := range op.operands {
		if !vid.Valid() {
			continue
		}
		v := g.valuesByID[vid]
		if v == nil {
			continue
		}
		v.users = removeUser(v.users, opID, i)
	}

	for _, vid := range op.results {
		if !vid.Valid() {
			continue
		}
		v := g.valuesByID[vid]
		if v != nil && v.definingOp == opID {
			v.definingOp = 0
		}
	}

	for _, v := range g.valuesByID {
		if v == nil {
			continue
		}
		if v.definingOp == opID {
			return false
		}
		for _, u := range v.users {
			if u.Op == opID {
				return false
			}
		}
	}

	delete(g.opsBySymbol, op.symbol)
	g.opOrder = removeOpFromOrder(g.opOrder, opID)
	g.opsByID[opID] = nil

	return true
}

func removeUser(users []ValueUser, op OperationID, operandIndex int) []ValueUser {
	out := users[:0]
	removed := false
	for _, u := range users {
		if !removed && u.Op == op && u.OperandIndex == operandIndex {
			removed = true
			continue
		}
		out = append(out, u)
	}
	return out
}

func removeOpFromOrder(order []OperationID, id OperationID) []OperationID {
	out := order[:0]
	for _, o := range order {
		if o != id {
			out = append(out, o)
		}
	}
	return out
}

// SetAttr inserts or replaces the attribute named name on opID.
func (g *Graph) SetAttr(opID OperationID, name string, value AttributeValue) {
	op := g.GetOperation(opID)
	op.attrs[name] = value
}

// RemoveAttr deletes the attribute named name from opID, if present.
func (g *Graph) RemoveAttr(opID OperationID, name string) {
	op := g.GetOperation(opID)
	delete(op.attrs, name)
}

// BindInputPort binds an external name to value, which must not already be
// bound to any port. Sets the value's IsInput flag.
func (g *Graph) BindInputPort(name SymbolID, value ValueID) {
	v := g.GetValue(value)
	g.rejectDoubleBind(v)
	v.IsInput = true
	g.inputPorts = append(g.inputPorts, InputPort{Name: name, Value: value})
}

// BindOutputPort binds an external name to value, which must not already be
// bound to any port. Sets the value's IsOutput flag.
func (g *Graph) BindOutputPort(name SymbolID, value ValueID) {
	v := g.GetValue(value)
	g.rejectDoubleBind(v)
	v.IsOutput = true
	g.outputPorts = append(g.outputPorts, OutputPort{Name: name, Value: value})
}

// BindInoutPort binds an external name to three values (in, out, oe), none
// of which must already be bound to any port. Sets IsInout on all three.
func (g *Graph) BindInoutPort(name SymbolID, in, out, oe ValueID) {
	inV, outV, oeV := g.GetValue(in), g.GetValue(out), g.GetValue(oe)
	g.rejectDoubleBind(inV)
	g.rejectDoubleBind(outV)
	g.rejectDoubleBind(oeV)
	inV.IsInout, outV.IsInout, oeV.IsInout = true, true, true
	g.inoutPorts = append(g.inoutPorts, InoutPort{Name: name, In: in, Out: out, OE: oe})
}

// ReplaceAllUses retargets every operand reference to old so that it points
// at new instead: each consuming operation's operand slot is rewritten and
// the user-list entries move from old to new. old ends with no users; it is
// the caller's responsibility to erase or otherwise dispose of old's
// defining operation afterward.
func (g *Graph) ReplaceAllUses(old, new ValueID) {
	oldValue := g.GetValue(old)
	newValue := g.GetValue(new)

	users := oldValue.users
	oldValue.users = nil

	for _, u := range users {
		op := g.GetOperation(u.Op)
		op.operands[u.OperandIndex] = new
		newValue.users = append(newValue.users, u)
	}
}

func (g *Graph) rejectDoubleBind(v *Value) {
	if v.IsInput || v.IsOutput || v.IsInout {
		panic("ir: value is already bound to a port: " + v.Name())
	}
}

// InputPorts returns the graph's input ports in binding order.
func (g *Graph) InputPorts() []InputPort { return g.inputPorts }

// OutputPorts returns the graph's output ports in binding order.
func (g *Graph) OutputPorts() []OutputPort { return g.outputPorts }

// InoutPorts returns the graph's inout ports in binding order.
func (g *Graph) InoutPorts() []InoutPort { return g.inoutPorts }
