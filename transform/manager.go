package transform

import (
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/grh/ir"
)

// HookPosPassStart marks the moment a pass is about to run, after netlist
// and diagnostics have been bound onto it.
var HookPosPassStart = &sim.HookPos{Name: "Pass Start"}

// HookPosPassEnd marks the moment a pass has returned its PassResult.
var HookPosPassEnd = &sim.HookPos{Name: "Pass End"}

// HookPosDiagnosticRecorded marks each diagnostic a pass recorded. The hooks
// for one pass fire in recording order once its run() has returned, so an
// observer sees diagnostics pass by pass rather than only when the whole
// pipeline finishes.
var HookPosDiagnosticRecorded = &sim.HookPos{Name: "Diagnostic Recorded"}

// PassManagerResult is what Run returns once the pipeline stops.
type PassManagerResult struct {
	Changed bool
	Success bool
}

// PassManager drives a registered sequence of passes to completion over one
// netlist, in registration order, stopping at the first pass that fails or
// that records an error attributed to it.
//
// PassManager embeds sim.HookableBase so a caller can attach observers at
// HookPosPassStart/HookPosPassEnd/HookPosDiagnosticRecorded — useful for a
// host that wants to show pipeline progress — without pulling in any
// simulation scheduling semantics; the manager never touches sim.Engine.
type PassManager struct {
	*sim.HookableBase

	passes []Pass
}

// NewPassManager creates an empty pass manager.
func NewPassManager() *PassManager {
	return &PassManager{HookableBase: sim.NewHookableBase()}
}

// AddPass registers p to run after every pass already registered.
func (m *PassManager) AddPass(p Pass) {
	m.passes = append(m.passes, p)
}

// Run binds netlist and diags onto each registered pass in turn and invokes
// it, stopping early on failure.
func (m *PassManager) Run(netlist *ir.Netlist, diags *PassDiagnostics) PassManagerResult {
	result := PassManagerResult{Success: true}

	for _, p := range m.passes {
		p.bind(netlist, diags)

		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosPassStart, Item: p.Name()})
		before := len(diags.All())
		r := p.run()
		m.emitDiagnosticHooks(diags.All()[before:])
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosPassEnd, Item: r})

		result.Changed = result.Changed || r.Changed

		if r.Failed || diags.HasErrorFromPass(p.Name()) {
			result.Success = false
			return result
		}
	}

	return result
}

func (m *PassManager) emitDiagnosticHooks(newEntries []PassDiagnostic) {
	for _, e := range newEntries {
		m.InvokeHook(sim.HookCtx{Domain: m, Pos: HookPosDiagnosticRecorded, Item: e})
	}
}
