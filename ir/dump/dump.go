// Package dump renders GRH netlists, graphs, and pass diagnostics as
// human-readable tables, for use in debug output and CLI front ends.
package dump

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/grh/ir"
	"github.com/sarchlab/grh/transform"
)

// Netlist renders every graph in n to w, one table section per graph.
func Netlist(w io.Writer, n *ir.Netlist) {
	for _, g := range n.Graphs() {
		title := g.Name()
		if n.IsTop(g.Name()) {
			title += " (top)"
		}
		Graph(w, g, title)
	}
}

// Graph renders a single graph's values and operations as two tables.
func Graph(w io.Writer, g *ir.Graph, title string) {
	valuesTable := table.NewWriter()
	valuesTable.SetOutputMirror(w)
	valuesTable.SetTitle(title + ": values")
	valuesTable.AppendHeader(table.Row{"sym", "width", "signed", "dir", "definedBy", "users"})

	for _, v := range g.Values() {
		valuesTable.AppendRow(table.Row{
			v.Name(), v.Width, v.Signed, direction(v), definingOpText(g, v), len(v.Users()),
		})
	}
	valuesTable.Render()
	fmt.Fprintln(w)

	opsTable := table.NewWriter()
	opsTable.SetOutputMirror(w)
	opsTable.SetTitle(title + ": operations")
	opsTable.AppendHeader(table.Row{"sym", "kind", "operands", "results", "attrs"})

	for _, opID := range g.OperationOrder() {
		op := g.GetOperation(opID)
		opsTable.AppendRow(table.Row{
			op.Name(), string(op.Kind()), symbolNames(g, op.Operands()), symbolNames(g, op.Results()), len(op.Attrs()),
		})
	}
	opsTable.Render()
	fmt.Fprintln(w)
}

func direction(v *ir.Value) string {
	switch {
	case v.IsInput:
		return "in"
	case v.IsOutput:
		return "out"
	case v.IsInout:
		return "inout"
	default:
		return "-"
	}
}

func definingOpText(g *ir.Graph, v *ir.Value) string {
	if !v.DefiningOp().Valid() {
		return "-"
	}
	op, ok := safeGetOperation(g, v.DefiningOp())
	if !ok {
		return "<stale>"
	}
	return op.Name()
}

func safeGetOperation(g *ir.Graph, id ir.OperationID) (op *ir.Operation, ok bool) {
	defer func() {
		if recover() != nil {
			op, ok = nil, false
		}
	}()
	return g.GetOperation(id), true
}

func symbolNames(g *ir.Graph, ids []ir.ValueID) string {
	s := ""
	for i, id := range ids {
		if i > 0 {
			s += ", "
		}
		if !id.Valid() {
			s += "<none>"
			continue
		}
		s += g.GetValue(id).Name()
	}
	return s
}

// Diagnostics renders a flat diagnostics list as a table, in recording
// order.
func Diagnostics(w io.Writer, diags []transform.PassDiagnostic) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Diagnostics")
	t.AppendHeader(table.Row{"kind", "pass", "graph", "entity", "message"})

	for _, d := range diags {
		t.AppendRow(table.Row{d.Kind.String(), d.Pass, d.Graph, d.Entity, d.Message})
	}
	t.Render()
}
