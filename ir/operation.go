package ir

// Operation represents one hardware operator instance: a kind, an ordered
// list of operand and result value symbols, and a name-to-value attribute
// map.
type Operation struct {
	graph *Graph

	id     OperationID
	symbol SymbolID
	kind   OperationKind

	operands []ValueID
	results  []ValueID

	attrs map[string]AttributeValue

	Loc *SourceLocation
}

// ID returns the operation's stable per-graph identifier.
func (o *Operation) ID() OperationID { return o.id }

// Symbol returns the operation's interned name.
func (o *Operation) Symbol() SymbolID { return o.symbol }

// Name resolves the operation's symbol back to text via its owning graph.
func (o *Operation) Name() string { return o.graph.symbols.Text(o.symbol) }

// Kind returns the operation's kind.
func (o *Operation) Kind() OperationKind { return o.kind }

// Operands returns the operand value ID list. The returned slice is owned
// by the operation; callers must not mutate it.
func (o *Operation) Operands() []ValueID { return o.operands }

// Results returns the result value ID list. The returned slice is owned by
// the operation; callers must not mutate it.
func (o *Operation) Results() []ValueID { return o.results }

// Attr returns the attribute named name, if set.
func (o *Operation) Attr(name string) (AttributeValue, bool) {
	v, ok := o.attrs[name]
	return v, ok
}

// Attrs returns the full attribute map. The returned map is owned by the
// operation; callers must not mutate it.
func (o *Operation) Attrs() map[string]AttributeValue { return o.attrs }

// StringAttr is a convenience accessor for a string-kinded attribute,
// returning ("", false) if absent or of a different kind.
func (o *Operation) StringAttr(name string) (string, bool) {
	v, ok := o.attrs[name]
	if !ok || v.Kind != AttrString {
		return "", false
	}
	return v.StringVal, true
}
