package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sarchlab/grh/ir"
)

// RedundantElimPass deduplicates pure combinational operations that compute
// the same result from the same operands and attributes: it generalizes
// OutputAssignInlinePass's erase-and-redirect shape from a single
// pass-through Assign to N-way common-subexpression elimination across an
// entire graph.
//
// Two operations are candidates for merging when they share a kind drawn
// from the eligible set below, have identical operand ID sequences and
// attribute maps, and each produces exactly one result that is not bound to
// any port (port-bound values can't be transparently redirected, since a
// port references a value directly rather than through an operand slot).
type RedundantElimPass struct {
	basePass
}

// NewRedundantElimPass creates the pass.
func NewRedundantElimPass() *RedundantElimPass {
	return &RedundantElimPass{}
}

func (p *RedundantElimPass) ID() string   { return "redundant-elim" }
func (p *RedundantElimPass) Name() string { return "RedundantElim" }
func (p *RedundantElimPass) Description() string {
	return "merges duplicate pure combinational operations producing identical results"
}

// eligibleForElim lists the kinds RedundantElimPass is willing to merge:
// purely combinational, single-result, no hidden state and no
// externally-visible side effect. Registers, latches, memory ports,
// instances, blackboxes, display/assert, and DPI-C ops are excluded because
// merging them would be observably wrong (state, timing, or I/O).
func eligibleForElim(k ir.OperationKind) bool {
	switch k {
	case ir.KindAdd, ir.KindSub, ir.KindMul, ir.KindDiv, ir.KindMod,
		ir.KindEq, ir.KindNe, ir.KindLt, ir.KindLe, ir.KindGt, ir.KindGe,
		ir.KindAnd, ir.KindOr, ir.KindXor, ir.KindXnor, ir.KindLogicAnd, ir.KindLogicOr,
		ir.KindShl, ir.KindLShr, ir.KindAShr,
		ir.KindNot, ir.KindLogicNot,
		ir.KindReduceAnd, ir.KindReduceOr, ir.KindReduceXor, ir.KindReduceNor, ir.KindReduceNand, ir.KindReduceXnor,
		ir.KindConstant, ir.KindMux, ir.KindConcat, ir.KindReplicate,
		ir.KindSliceStatic, ir.KindSliceDynamic, ir.KindSliceArray:
		return true
	default:
		return false
	}
}

func (p *RedundantElimPass) run() PassResult {
	changed := false

	for _, g := range p.netlist.Graphs() {
		seen := make(map[string]ir.OperationID)

		for _, opID := range g.OperationOrder() {
			op := g.GetOperation(opID)
			if !eligibleForElim(op.Kind()) || len(op.Results()) != 1 {
				continue
			}

			resultValue := g.GetValue(op.Results()[0])
			if resultValue.IsInput || resultValue.IsOutput || resultValue.IsInout {
				continue
			}

			key := signature(op)
			priorID, ok := seen[key]
			if !ok {
				seen[key] = opID
				continue
			}

			if p.merge(g, priorID, opID) {
				changed = true
			}
		}
	}

	return PassResult{Changed: changed, Failed: false}
}

func (p *RedundantElimPass) merge(g *ir.Graph, keepID, dropID ir.OperationID) bool {
	keep := g.GetOperation(keepID)
	drop := g.GetOperation(dropID)

	keepValue := g.GetValue(keep.Results()[0])
	dropValue := g.GetValue(drop.Results()[0])

	if keepValue.Width != dropValue.Width || keepValue.Signed != dropValue.Signed {
		return false
	}

	g.ReplaceAllUses(dropValue.ID(), keepValue.ID())
	if !g.EraseOp(dropID) {
		return false
	}

	p.diags.Info(p.Name(), g, drop.Name(), fmt.Sprintf("merged into %s (identical inputs)", keep.Name()))

	return true
}

// signature builds a string key that is equal for two operations iff they
// have the same kind, identical operand ID sequences, and identical
// attribute maps.
func signature(op *ir.Operation) string {
	var b strings.Builder

	b.WriteString(string(op.Kind()))
	b.WriteByte('|')
	for _, operand := range op.Operands() {
		fmt.Fprintf(&b, "%d,", operand)
	}
	b.WriteByte('|')

	names := make([]string, 0, len(op.Attrs()))
	for name := range op.Attrs() {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		attr, _ := op.Attr(name)
		fmt.Fprintf(&b, "%s=%s;", name, attrKey(attr))
	}

	return b.String()
}

func attrKey(v ir.AttributeValue) string {
	switch v.Kind {
	case ir.AttrBool:
		return fmt.Sprintf("b:%v", v.BoolVal)
	case ir.AttrInt:
		return fmt.Sprintf("i:%d", v.IntVal)
	case ir.AttrDouble:
		return fmt.Sprintf("d:%v", v.DoubleVal)
	case ir.AttrString:
		return "s:" + v.StringVal
	case ir.AttrBoolArray:
		return fmt.Sprintf("ba:%v", v.BoolArray)
	case ir.AttrIntArray:
		return fmt.Sprintf("ia:%v", v.IntArray)
	case ir.AttrDoubleArray:
		return fmt.Sprintf("da:%v", v.DoubleArray)
	case ir.AttrStringArray:
		return fmt.Sprintf("sa:%v", v.StringArray)
	default:
		return "?"
	}
}
