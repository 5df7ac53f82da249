package ir

// ValueID is a dense, per-graph identifier for a Value. The zero value is
// never issued by Graph.CreateValue and means "no value".
type ValueID uint32

// Valid reports whether id was returned by Graph.CreateValue.
func (id ValueID) Valid() bool { return id != 0 }

// OperationID is a dense, per-graph identifier for an Operation. The zero
// value is never issued by Graph.CreateOperation and means "no operation".
type OperationID uint32

// Valid reports whether id was returned by Graph.CreateOperation.
func (id OperationID) Valid() bool { return id != 0 }

// ValueUser is a back-reference entry recording that operation Op consumes
// a value at operand index OperandIndex. A value that appears more than
// once in one operation's operand list has one ValueUser per occurrence.
//
// Users and DefiningOp are maintained incrementally by the Graph mutation
// API (AddOperand, AddResult, ReplaceResult, EraseOp) rather than derived
// fresh on every read, so they stay O(1) to consult. That makes them a
// cache, not a derivation, and caches drift when callers misuse the API
// directly or corrupt state some other way — the verifier pass recomputes
// both from the operand/result lists and repairs any mismatch it finds.
type ValueUser struct {
	Op           OperationID
	OperandIndex int
}

// Value represents a wire or signal: a bit-width, a signedness flag,
// direction flags, and its position in the def-use graph.
type Value struct {
	graph *Graph

	id     ValueID
	symbol SymbolID

	Width    int32
	Signed   bool
	IsInput  bool
	IsOutput bool
	IsInout  bool

	Loc *SourceLocation

	definingOp OperationID
	users      []ValueUser
}

// ID returns the value's stable per-graph identifier.
func (v *Value) ID() ValueID { return v.id }

// Symbol returns the value's interned name.
func (v *Value) Symbol() SymbolID { return v.symbol }

// Name resolves the value's symbol back to text via its owning graph.
func (v *Value) Name() string { return v.graph.symbols.Text(v.symbol) }

// DefiningOp returns the operation whose result list contains this value,
// or the zero OperationID if the value is a free input/port with no
// producer (e.g. a module input).
func (v *Value) DefiningOp() OperationID { return v.definingOp }

// Users returns the value's consumer list. The returned slice is owned by
// the value; callers must not mutate it.
func (v *Value) Users() []ValueUser { return v.users }
