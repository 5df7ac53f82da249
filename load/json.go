// Package load implements the JSON netlist importer: parsing the
// self-describing wire format documented alongside this package and
// constructing a populated ir.Netlist from it.
package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sarchlab/grh/ir"
)

// FromJSON parses data as a netlist document and constructs the
// corresponding ir.Netlist. Errors are path-qualified (e.g.
// "graphs[0].vals[2].sym") to point at the offending JSON location.
//
// FromJSON performs parsing, construction, attribute validation, and
// direction-flag/port consistency checks. It does not run the schema
// verifier — callers run transform.GRHVerifyPass separately once the
// netlist is built.
func FromJSON(data []byte) (*ir.Netlist, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc jsonNetlist
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("load: parsing top-level document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("load: trailing data after top-level value")
	}

	netlist := ir.NewNetlist()

	for gi, jg := range doc.Graphs {
		if err := loadGraph(netlist, jg); err != nil {
			slog.Error("load: graph rejected", "index", gi, "symbol", jg.Symbol, "error", err)
			return nil, fmt.Errorf("graphs[%d].%w", gi, err)
		}
	}

	for ti, name := range doc.Tops {
		if _, ok := netlist.FindGraph(name); !ok {
			return nil, fmt.Errorf("tops[%d]: unknown graph %q", ti, name)
		}
		netlist.MarkAsTop(name)
	}

	slog.Info("load: netlist parsed", "graphs", len(doc.Graphs), "tops", len(doc.Tops))

	return netlist, nil
}

type jsonNetlist struct {
	Graphs []jsonGraph `json:"graphs"`
	Tops   []string    `json:"tops"`
}

type jsonGraph struct {
	Symbol string    `json:"symbol"`
	Vals   []jsonVal `json:"vals"`
	Ports  jsonPorts `json:"ports"`
	Ops    []jsonOp  `json:"ops"`
}

type jsonVal struct {
	Sym   string      `json:"sym"`
	W     int         `json:"w"`
	Sgn   bool        `json:"sgn"`
	In    bool        `json:"in"`
	Out   bool        `json:"out"`
	Inout bool        `json:"inout"`
	Loc   *jsonSrcLoc `json:"loc"`
}

type jsonPorts struct {
	In    []jsonSimplePort `json:"in"`
	Out   []jsonSimplePort `json:"out"`
	Inout []jsonInoutPort  `json:"inout"`
}

type jsonSimplePort struct {
	Name string `json:"name"`
	Val  string `json:"val"`
}

type jsonInoutPort struct {
	Name string `json:"name"`
	In   string `json:"in"`
	Out  string `json:"out"`
	OE   string `json:"oe"`
}

type jsonOp struct {
	Kind  string               `json:"kind"`
	Sym   string                `json:"sym"`
	In    []string              `json:"in"`
	Out   []string              `json:"out"`
	Attrs map[string]jsonAttr   `json:"attrs"`
	Loc   *jsonSrcLoc           `json:"loc"`
}

type jsonSrcLoc struct {
	File    string `json:"file"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	EndLine uint32 `json:"endLine"`
	EndCol  uint32 `json:"endCol"`
}

func (l *jsonSrcLoc) toIR() *ir.SourceLocation {
	if l == nil {
		return nil
	}
	loc := &ir.SourceLocation{File: l.File, Line: l.Line, Column: l.Col, EndLine: l.EndLine, EndColumn: l.EndCol}
	if loc.IsAbsent() {
		return nil
	}
	return loc
}

func loadGraph(netlist *ir.Netlist, jg jsonGraph) (err error) {
	// The ir construction API panics on duplicate symbols, double port
	// bindings and doubly defined results; report those as an error instead.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("symbol %q: %v", jg.Symbol, r)
		}
	}()

	if jg.Symbol == "" {
		return fmt.Errorf("symbol: graph symbol is required")
	}

	g := netlist.CreateGraph(jg.Symbol)

	for vi, jv := range jg.Vals {
		if err := loadValue(g, jv); err != nil {
			return fmt.Errorf("vals[%d].%w", vi, err)
		}
	}

	for pi, jp := range jg.Ports.In {
		if err := bindSimplePort(g, jp, true, false, false); err != nil {
			return fmt.Errorf("ports.in[%d].%w", pi, err)
		}
	}
	for pi, jp := range jg.Ports.Out {
		if err := bindSimplePort(g, jp, false, true, false); err != nil {
			return fmt.Errorf("ports.out[%d].%w", pi, err)
		}
	}
	for pi, jp := range jg.Ports.Inout {
		if err := bindInoutPort(g, jp); err != nil {
			return fmt.Errorf("ports.inout[%d].%w", pi, err)
		}
	}

	for oi, jo := range jg.Ops {
		if err := loadOperation(g, jo); err != nil {
			return fmt.Errorf("ops[%d].%w", oi, err)
		}
	}

	return checkDirectionConsistency(g, jg)
}

func loadValue(g *ir.Graph, jv jsonVal) error {
	if jv.Sym == "" {
		return fmt.Errorf("sym: value symbol is required")
	}

	directions := 0
	if jv.In {
		directions++
	}
	if jv.Out {
		directions++
	}
	if jv.Inout {
		directions++
	}
	if directions > 1 {
		return fmt.Errorf("sym: value %q declares more than one of in/out/inout", jv.Sym)
	}
	if jv.W < 0 {
		return fmt.Errorf("w: value %q has negative width", jv.Sym)
	}

	sym := g.InternSymbol(jv.Sym)
	id := g.CreateValue(sym, int32(jv.W), jv.Sgn)
	g.GetValue(id).Loc = jv.Loc.toIR()

	return nil
}

func bindSimplePort(g *ir.Graph, jp jsonSimplePort, isInput, isOutput, _ bool) error {
	if jp.Name == "" {
		return fmt.Errorf("name: port name is required")
	}
	valueSym, ok := g.LookupSymbol(jp.Val)
	if !ok {
		return fmt.Errorf("val: references undeclared value %q", jp.Val)
	}
	valueID, ok := g.FindValue(valueSym)
	if !ok {
		return fmt.Errorf("val: references undeclared value %q", jp.Val)
	}

	name := g.InternSymbol(jp.Name)
	if isInput {
		g.BindInputPort(name, valueID)
	} else if isOutput {
		g.BindOutputPort(name, valueID)
	}
	return nil
}

func bindInoutPort(g *ir.Graph, jp jsonInoutPort) error {
	if jp.Name == "" {
		return fmt.Errorf("name: port name is required")
	}

	in, err := mustFindValue(g, jp.In, "in")
	if err != nil {
		return err
	}
	out, err := mustFindValue(g, jp.Out, "out")
	if err != nil {
		return err
	}
	oe, err := mustFindValue(g, jp.OE, "oe")
	if err != nil {
		return err
	}

	name := g.InternSymbol(jp.Name)
	g.BindInoutPort(name, in, out, oe)
	return nil
}

func mustFindValue(g *ir.Graph, symText, field string) (ir.ValueID, error) {
	sym, ok := g.LookupSymbol(symText)
	if !ok {
		return 0, fmt.Errorf("%s: references undeclared value %q", field, symText)
	}
	id, ok := g.FindValue(sym)
	if !ok {
		return 0, fmt.Errorf("%s: references undeclared value %q", field, symText)
	}
	return id, nil
}

func loadOperation(g *ir.Graph, jo jsonOp) error {
	if jo.Sym == "" {
		return fmt.Errorf("sym: operation symbol is required")
	}

	kind, ok := ir.ParseOperationKind(jo.Kind)
	if !ok {
		return fmt.Errorf("kind: unknown operation kind %q", jo.Kind)
	}

	sym := g.InternSymbol(jo.Sym)
	opID := g.CreateOperation(kind, sym)
	op := g.GetOperation(opID)
	op.Loc = jo.Loc.toIR()

	for i, operandSym := range jo.In {
		id, err := mustFindValue(g, operandSym, fmt.Sprintf("in[%d]", i))
		if err != nil {
			return err
		}
		g.AddOperand(opID, id)
	}

	for i, resultSym := range jo.Out {
		id, err := mustFindValue(g, resultSym, fmt.Sprintf("out[%d]", i))
		if err != nil {
			return err
		}
		g.AddResult(opID, id)
	}

	for name, jattr := range jo.Attrs {
		value, err := jattr.toIR()
		if err != nil {
			return fmt.Errorf("attrs.%s: %w", name, err)
		}
		if !ir.IsJSONSerializable(value) {
			return fmt.Errorf("attrs.%s: value is not JSON-serializable (non-finite or invalid UTF-8)", name)
		}
		g.SetAttr(opID, name, value)
	}

	return nil
}

// checkDirectionConsistency cross-validates a value's declared direction
// flag against whether it was actually bound to a matching port, in both
// directions: a value declared in/out/inout but never bound is an error,
// and (since BindXPort already rejects double-binding) a value bound to a
// port is already guaranteed to carry the matching flag.
func checkDirectionConsistency(g *ir.Graph, jg jsonGraph) error {
	boundAsInput := make(map[string]bool)
	boundAsOutput := make(map[string]bool)
	boundAsInout := make(map[string]bool)

	for _, p := range jg.Ports.In {
		boundAsInput[p.Val] = true
	}
	for _, p := range jg.Ports.Out {
		boundAsOutput[p.Val] = true
	}
	for _, p := range jg.Ports.Inout {
		boundAsInout[p.In] = true
		boundAsInout[p.Out] = true
		boundAsInout[p.OE] = true
	}

	var bad []string
	for _, v := range jg.Vals {
		switch {
		case v.In && !boundAsInput[v.Sym]:
			bad = append(bad, v.Sym+" declared in but not bound to an input port")
		case v.Out && !boundAsOutput[v.Sym]:
			bad = append(bad, v.Sym+" declared out but not bound to an output port")
		case v.Inout && !boundAsInout[v.Sym]:
			bad = append(bad, v.Sym+" declared inout but not bound to an inout port")
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("direction flag mismatch: %s", strings.Join(bad, "; "))
	}

	return nil
}
