// Package transform implements the pass framework: the Pass interface, the
// diagnostics channel passes report through, the pass manager that drives a
// pipeline to completion, and the concrete passes themselves.
package transform

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sarchlab/grh/ir"
)

// LevelRepair sits above slog.LevelInfo: it marks a def-use cache repair
// performed by the verifier pass, distinct from ordinary pass progress
// logging, so a host can filter repair traces independently of -v verbosity.
const LevelRepair = slog.Level(2)

// PassResult is what a pass reports back to the manager after run().
type PassResult struct {
	Changed bool
	Failed  bool
}

// DiagnosticKind classifies a PassDiagnostic by severity.
type DiagnosticKind int

const (
	Info DiagnosticKind = iota
	Warning
	Error
)

// String names the diagnostic kind for display.
func (k DiagnosticKind) String() string {
	switch k {
	case Info:
		return "Info"
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// PassDiagnostic is one recorded entry: a severity, the pass that recorded
// it, and the graph/entity it is scoped to. Entity names either an
// operation or a value by its symbol text — callers use whichever applies.
type PassDiagnostic struct {
	Kind    DiagnosticKind
	Pass    string
	Graph   string
	Entity  string
	Message string
}

// PassDiagnostics is the mutable channel passes record diagnostics through.
// It is bound fresh onto each pass by the manager before run() is invoked.
type PassDiagnostics struct {
	entries []PassDiagnostic
}

// NewPassDiagnostics creates an empty diagnostics channel.
func NewPassDiagnostics() *PassDiagnostics {
	return &PassDiagnostics{}
}

func (d *PassDiagnostics) record(kind DiagnosticKind, pass string, graph *ir.Graph, entity, message string) {
	entry := PassDiagnostic{Kind: kind, Pass: pass, Entity: entity, Message: message}
	if graph != nil {
		entry.Graph = graph.Name()
	}
	d.entries = append(d.entries, entry)
	logDiagnostic(entry)
}

func logDiagnostic(entry PassDiagnostic) {
	level := slog.LevelInfo
	switch entry.Kind {
	case Error:
		level = slog.LevelError
	case Warning:
		level = slog.LevelWarn
	case Info:
		level = slog.LevelInfo
		if strings.Contains(entry.Message, "repaired") {
			level = LevelRepair
		}
	}
	slog.Log(context.Background(), level, entry.Message,
		"pass", entry.Pass, "graph", entry.Graph, "entity", entry.Entity)
}

// Error records an Error-severity diagnostic scoped to entity (an operation
// or value name).
func (d *PassDiagnostics) Error(pass string, graph *ir.Graph, entity, message string) {
	d.record(Error, pass, graph, entity, message)
}

// Warning records a Warning-severity diagnostic.
func (d *PassDiagnostics) Warning(pass string, graph *ir.Graph, entity, message string) {
	d.record(Warning, pass, graph, entity, message)
}

// Info records an Info-severity diagnostic.
func (d *PassDiagnostics) Info(pass string, graph *ir.Graph, entity, message string) {
	d.record(Info, pass, graph, entity, message)
}

// All returns every diagnostic recorded so far, in recording order.
func (d *PassDiagnostics) All() []PassDiagnostic {
	return d.entries
}

// HasError reports whether any Error-severity diagnostic has been recorded.
func (d *PassDiagnostics) HasError() bool {
	for _, e := range d.entries {
		if e.Kind == Error {
			return true
		}
	}
	return false
}

// HasErrorFromPass reports whether any Error-severity diagnostic attributed
// to pass has been recorded — what the manager checks after each run() to
// decide whether the pipeline must stop.
func (d *PassDiagnostics) HasErrorFromPass(pass string) bool {
	for _, e := range d.entries {
		if e.Kind == Error && e.Pass == pass {
			return true
		}
	}
	return false
}

// Pass is the unit of work a PassManager drives. Implementations receive
// the netlist and diagnostics channel via bind before run() is called.
type Pass interface {
	ID() string
	Name() string
	Description() string
	bind(netlist *ir.Netlist, diags *PassDiagnostics)
	run() PassResult
}

// basePass supplies the bind bookkeeping every concrete pass embeds, so
// each pass's own type only has to implement run() plus its identity
// methods.
type basePass struct {
	netlist *ir.Netlist
	diags   *PassDiagnostics
}

func (p *basePass) bind(netlist *ir.Netlist, diags *PassDiagnostics) {
	p.netlist = netlist
	p.diags = diags
}
