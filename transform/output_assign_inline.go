package transform

import "github.com/sarchlab/grh/ir"

// OutputAssignInlinePass removes pass-through Assign operations that exist
// only to route another operation's single result onto an output-port
// value: it redirects the upstream producer to drive the output directly
// and erases the Assign.
type OutputAssignInlinePass struct {
	basePass
}

// NewOutputAssignInlinePass creates the pass.
func NewOutputAssignInlinePass() *OutputAssignInlinePass {
	return &OutputAssignInlinePass{}
}

func (p *OutputAssignInlinePass) ID() string   { return "output-assign-inline" }
func (p *OutputAssignInlinePass) Name() string { return "OutputAssignInline" }
func (p *OutputAssignInlinePass) Description() string {
	return "inlines Assign ops that only route a result onto an output port"
}

func (p *OutputAssignInlinePass) run() PassResult {
	changed := false

	for _, g := range p.netlist.Graphs() {
		for _, opID := range g.OperationOrder() {
			op := g.GetOperation(opID)
			if op.Kind() != ir.KindAssign {
				continue
			}
			if p.tryInline(g, opID) {
				changed = true
			}
		}
	}

	return PassResult{Changed: changed, Failed: false}
}

func (p *OutputAssignInlinePass) tryInline(g *ir.Graph, assignID ir.OperationID) bool {
	assign := g.GetOperation(assignID)

	if len(assign.Operands()) != 1 || len(assign.Results()) != 1 {
		return false
	}

	outValue := g.GetValue(assign.Results()[0])
	if !outValue.IsOutput || outValue.IsInput || outValue.IsInout {
		return false
	}
	if outValue.DefiningOp() != assignID {
		return false
	}
	if len(outValue.Users()) != 0 {
		return false
	}

	operand := g.GetValue(assign.Operands()[0])
	if len(operand.Users()) != 1 || operand.Users()[0].Op != assignID {
		return false
	}

	if operand.Width != outValue.Width || operand.Signed != outValue.Signed {
		return false
	}

	defID := operand.DefiningOp()
	if !defID.Valid() {
		return false
	}
	def := g.GetOperation(defID)
	if defID == assignID {
		return false
	}
	if len(def.Results()) != 1 || def.Results()[0] != operand.ID() {
		return false
	}

	if !g.EraseOp(assignID) {
		return false
	}
	g.ReplaceResult(defID, 0, outValue.ID())

	return true
}
