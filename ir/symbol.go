// Package ir implements the GRH (Graph Representation of Hardware) core:
// values, operations, ports, graphs, and netlists, plus the symbol and
// attribute systems that back them.
package ir

// SymbolID is a dense, per-graph integer identifier for an interned name.
// The zero value denotes "no symbol".
type SymbolID uint32

// InvalidSymbolID is the sentinel meaning "no symbol".
const InvalidSymbolID SymbolID = 0

// Valid reports whether id was returned by a SymbolTable.Intern call.
func (id SymbolID) Valid() bool {
	return id != InvalidSymbolID
}

// SymbolTable interns strings into dense identifiers scoped to one graph.
// Two identifiers are equal iff their underlying texts are equal.
// Identifiers are assigned starting at 1, monotonically, in interning order.
type SymbolTable struct {
	textToID map[string]SymbolID
	idToText []string // idToText[id-1] == text for id
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		textToID: make(map[string]SymbolID),
	}
}

// Intern returns the dense ID for text, allocating a new one if text has
// not been seen in this table before. Idempotent.
func (t *SymbolTable) Intern(text string) SymbolID {
	if id, ok := t.textToID[text]; ok {
		return id
	}

	t.idToText = append(t.idToText, text)
	id := SymbolID(len(t.idToText))
	t.textToID[text] = id

	return id
}

// Lookup returns the ID already assigned to text, if any.
func (t *SymbolTable) Lookup(text string) (SymbolID, bool) {
	id, ok := t.textToID[text]
	return id, ok
}

// Text returns the string previously interned as id. It panics if id was
// never returned by Intern on this table — callers only ever hold IDs that
// came from this table, so a miss is a programmer error.
func (t *SymbolTable) Text(id SymbolID) string {
	if id == InvalidSymbolID || int(id) > len(t.idToText) {
		panic("ir: symbol id not defined in this table")
	}

	return t.idToText[id-1]
}
