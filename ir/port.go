package ir

// InputPort binds an external name to a single value whose IsInput flag
// must be true.
type InputPort struct {
	Name  SymbolID
	Value ValueID
}

// OutputPort binds an external name to a single value whose IsOutput flag
// must be true.
type OutputPort struct {
	Name  SymbolID
	Value ValueID
}

// InoutPort binds an external name to three values — In (external to
// internal), Out (internal to external), and OE (output enable) — each of
// which must have IsInout set and no other direction flag.
type InoutPort struct {
	Name SymbolID
	In   ValueID
	Out  ValueID
	OE   ValueID
}
