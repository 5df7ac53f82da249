package transform

import (
	"fmt"
	"strconv"

	"github.com/sarchlab/grh/ir"
	"github.com/sarchlab/grh/schema"
)

// VerifyOptions configures GRHVerifyPass.
type VerifyOptions struct {
	AutoFixPointers bool
	StopOnError     bool
}

// DefaultVerifyOptions matches the defaults a verify run should use absent
// explicit configuration.
func DefaultVerifyOptions() VerifyOptions {
	return VerifyOptions{AutoFixPointers: true, StopOnError: true}
}

// GRHVerifyPass is the structural heart of the pipeline: it checks every
// operation against the schema registry, resolves and cross-checks
// operand/result references, and reconciles the def-use cache against the
// truth recorded on operand/result lists, repairing drift when
// AutoFixPointers is set.
type GRHVerifyPass struct {
	basePass
	opts VerifyOptions
}

// NewGRHVerifyPass creates a verifier with explicit options.
func NewGRHVerifyPass(opts VerifyOptions) *GRHVerifyPass {
	return &GRHVerifyPass{opts: opts}
}

// NewDefaultGRHVerifyPass creates a verifier with DefaultVerifyOptions.
func NewDefaultGRHVerifyPass() *GRHVerifyPass {
	return NewGRHVerifyPass(DefaultVerifyOptions())
}

func (p *GRHVerifyPass) ID() string          { return "grh-verify" }
func (p *GRHVerifyPass) Name() string        { return "GRHVerify" }
func (p *GRHVerifyPass) Description() string { return "checks schema conformance and repairs def-use caches" }

// expectedUser is an expected back-reference computed from an operand
// occurrence, used to reconcile against the value's stored user list.
type expectedUser struct {
	op    ir.OperationID
	index int
}

func (p *GRHVerifyPass) run() PassResult {
	changed := false

	for _, g := range p.netlist.Graphs() {
		expectedUsers := make(map[ir.ValueID][]expectedUser)
		expectedDefiner := make(map[ir.ValueID]ir.OperationID)

		for _, opID := range g.OperationOrder() {
			op := g.GetOperation(opID)
			p.checkSchema(g, op)
			p.resolveOperandsAndResults(g, op, expectedUsers, expectedDefiner)
			p.crossCheckKind(g, op)
		}

		if r := p.reconcileValues(g, expectedUsers, expectedDefiner); r {
			changed = true
		}
	}

	return PassResult{Changed: changed, Failed: p.diags.HasErrorFromPass(p.Name())}
}

func (p *GRHVerifyPass) checkSchema(g *ir.Graph, op *ir.Operation) {
	spec, ok := schema.Lookup(op.Kind())
	if !ok {
		p.diags.Error(p.Name(), g, op.Name(), fmt.Sprintf("unknown kind: %s", op.Kind()))
		return
	}

	if n := len(op.Operands()); !spec.Operands.Contains(n) {
		p.diags.Error(p.Name(), g, op.Name(),
			fmt.Sprintf("operand count %d out of range [%d, %s]", n, spec.Operands.Min, maxBoundText(spec.Operands.Max)))
	}
	if n := len(op.Results()); !spec.Results.Contains(n) {
		p.diags.Error(p.Name(), g, op.Name(),
			fmt.Sprintf("result count %d out of range [%d, %s]", n, spec.Results.Min, maxBoundText(spec.Results.Max)))
	}

	for _, rule := range spec.Required {
		p.checkAttrRule(g, op, rule, false)
	}
	for _, rule := range spec.Optional {
		p.checkAttrRule(g, op, rule, true)
	}

	for name := range op.Attrs() {
		if !spec.KnownAttr(name) {
			p.diags.Info(p.Name(), g, op.Name(), "Unexpected attribute (kept): "+name)
		}
	}
}

// maxBoundText renders a Range's upper bound for diagnostic messages,
// substituting a readable marker for schema.Unbounded instead of printing
// the raw math.MaxInt32 sentinel.
func maxBoundText(max int) string {
	if max == schema.Unbounded {
		return "unbounded"
	}
	return strconv.Itoa(max)
}

func (p *GRHVerifyPass) checkAttrRule(g *ir.Graph, op *ir.Operation, rule schema.AttributeRule, optional bool) {
	value, present := op.Attr(rule.Name)
	if !present {
		if !optional {
			p.diags.Error(p.Name(), g, op.Name(), "Missing required attribute: "+rule.Name)
		}
		return
	}
	if !rule.Matches(value) {
		p.diags.Error(p.Name(), g, op.Name(),
			fmt.Sprintf("attribute %s has wrong kind or disallowed value", rule.Name))
	}
}

func (p *GRHVerifyPass) resolveOperandsAndResults(
	g *ir.Graph,
	op *ir.Operation,
	expectedUsers map[ir.ValueID][]expectedUser,
	expectedDefiner map[ir.ValueID]ir.OperationID,
) {
	for i, vid := range op.Operands() {
		if !vid.Valid() {
			p.diags.Error(p.Name(), g, op.Name(), fmt.Sprintf("operand %d does not reference a value", i))
			continue
		}
		v := safeGetValue(g, vid)
		if v == nil {
			p.diags.Error(p.Name(), g, op.Name(), fmt.Sprintf("operand %d references an unknown value", i))
			continue
		}
		expectedUsers[vid] = append(expectedUsers[vid], expectedUser{op: op.ID(), index: i})
	}

	for _, vid := range op.Results() {
		if !vid.Valid() {
			p.diags.Error(p.Name(), g, op.Name(), "result does not reference a value")
			continue
		}
		v := safeGetValue(g, vid)
		if v == nil {
			p.diags.Error(p.Name(), g, op.Name(), "result references an unknown value")
			continue
		}
		expectedDefiner[vid] = op.ID()
	}
}

func safeGetValue(g *ir.Graph, vid ir.ValueID) (v *ir.Value) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	return g.GetValue(vid)
}

func (p *GRHVerifyPass) crossCheckKind(g *ir.Graph, op *ir.Operation) {
	switch {
	case ir.IsMemoryPort(op.Kind()):
		p.checkMemSymbol(g, op)
	case op.Kind() == ir.KindInstance:
		p.checkModuleRef(g, op, false)
	case op.Kind() == ir.KindBlackbox:
		p.checkModuleRef(g, op, true)
	case op.Kind() == ir.KindDpicImport:
		p.checkEqualLengths(g, op, []string{"argsDirection", "argsWidth", "argsName"})
	case op.Kind() == ir.KindDpicCall:
		p.checkDpicCall(g, op)
	}
}

func (p *GRHVerifyPass) checkMemSymbol(g *ir.Graph, op *ir.Operation) {
	name, ok := op.StringAttr("memSymbol")
	if !ok {
		return
	}

	memSym, found := g.LookupSymbol(name)
	if !found {
		p.diags.Error(p.Name(), g, op.Name(), "memSymbol does not resolve to any operation: "+name)
		return
	}

	memOpID, found := g.FindOperation(memSym)
	if !found || g.GetOperation(memOpID).Kind() != ir.KindMemory {
		p.diags.Error(p.Name(), g, op.Name(), "memSymbol does not reference a Memory operation: "+name)
	}
}

func (p *GRHVerifyPass) checkModuleRef(g *ir.Graph, op *ir.Operation, isBlackbox bool) {
	moduleName, ok := op.StringAttr("moduleName")
	if ok {
		if _, found := p.netlist.FindGraph(moduleName); !found {
			p.diags.Error(p.Name(), g, op.Name(), "moduleName does not name a known graph: "+moduleName)
		}
	}

	inNames, inOK := arrayAttrLen(op, "inputPortName")
	if inOK && inNames != len(op.Operands()) {
		p.diags.Error(p.Name(), g, op.Name(), "inputPortName length does not match operand count")
	}
	outNames, outOK := arrayAttrLen(op, "outputPortName")
	if outOK && outNames != len(op.Results()) {
		p.diags.Error(p.Name(), g, op.Name(), "outputPortName length does not match result count")
	}

	if isBlackbox {
		p.checkEqualLengths(g, op, []string{"parameterNames", "parameterValues"})
	}
}

func (p *GRHVerifyPass) checkDpicCall(g *ir.Graph, op *ir.Operation) {
	target, ok := op.StringAttr("targetImportSymbol")
	if ok {
		targetGraph, targetOpID, found := p.netlist.FindOperation(target)
		switch {
		case !found:
			p.diags.Error(p.Name(), g, op.Name(), "targetImportSymbol does not resolve to any DpicImport: "+target)
		case targetGraph.GetOperation(targetOpID).Kind() != ir.KindDpicImport:
			p.diags.Error(p.Name(), g, op.Name(), "targetImportSymbol does not reference a DpicImport: "+target)
		}
	}

	inArgLen, inOK := arrayAttrLen(op, "inArgName")
	if inOK {
		expected := len(op.Operands()) - 2
		if inArgLen != expected {
			p.diags.Error(p.Name(), g, op.Name(), "inArgName length does not match operand count minus 2")
		}
	}

	outArgLen, outOK := arrayAttrLen(op, "outArgName")
	if outOK && outArgLen != len(op.Results()) {
		p.diags.Error(p.Name(), g, op.Name(), "outArgName length does not match result count")
	}
}

func (p *GRHVerifyPass) checkEqualLengths(g *ir.Graph, op *ir.Operation, names []string) {
	var length int
	set := false
	for _, name := range names {
		n, ok := arrayAttrLen(op, name)
		if !ok {
			continue
		}
		if !set {
			length = n
			set = true
			continue
		}
		if n != length {
			p.diags.Error(p.Name(), g, op.Name(), "attribute arrays have mismatched lengths: "+name)
		}
	}
}

func arrayAttrLen(op *ir.Operation, name string) (int, bool) {
	v, ok := op.Attr(name)
	if !ok {
		return 0, false
	}
	switch v.Kind {
	case ir.AttrStringArray:
		return len(v.StringArray), true
	case ir.AttrIntArray:
		return len(v.IntArray), true
	case ir.AttrBoolArray:
		return len(v.BoolArray), true
	case ir.AttrDoubleArray:
		return len(v.DoubleArray), true
	default:
		return 0, false
	}
}

func (p *GRHVerifyPass) reconcileValues(
	g *ir.Graph,
	expectedUsers map[ir.ValueID][]expectedUser,
	expectedDefiner map[ir.ValueID]ir.OperationID,
) bool {
	changed := false

	for _, v := range g.Values() {
		if v.DefiningOp().Valid() {
			if _, exists := safeLookupOperation(g, v.DefiningOp()); !exists {
				p.diags.Error(p.Name(), g, v.Name(), "cached defining op does not exist")
			} else if want, ok := expectedDefiner[v.ID()]; ok && want != v.DefiningOp() {
				p.diags.Warning(p.Name(), g, v.Name(), "cached defining op disagrees with result lists")
			}
		} else if _, expected := expectedDefiner[v.ID()]; expected {
			p.diags.Warning(p.Name(), g, v.Name(), "value is an expected result target but has no cached defining op")
		}

		want := expectedUsers[v.ID()]
		if !sameUserMultiset(v.Users(), want) {
			p.diags.Warning(p.Name(), g, v.Name(), "user list disagrees with operand lists")
			if p.opts.AutoFixPointers {
				rebuildUsers(g, v, want)
				changed = true
				p.diags.Info(p.Name(), g, v.Name(), "repaired user list from operand lists")
			}
		}

		for _, u := range v.Users() {
			if _, exists := safeLookupOperation(g, u.Op); !exists {
				p.diags.Warning(p.Name(), g, v.Name(), "user entry references a nonexistent operation")
			}
		}
	}

	return changed
}

func safeLookupOperation(g *ir.Graph, id ir.OperationID) (op *ir.Operation, ok bool) {
	defer func() {
		if recover() != nil {
			op, ok = nil, false
		}
	}()
	return g.GetOperation(id), true
}

func sameUserMultiset(have []ir.ValueUser, want []expectedUser) bool {
	if len(have) != len(want) {
		return false
	}
	counts := make(map[ir.ValueUser]int, len(have))
	for _, h := range have {
		counts[h]++
	}
	for _, w := range want {
		key := ir.ValueUser{Op: w.op, OperandIndex: w.index}
		counts[key]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

func rebuildUsers(g *ir.Graph, v *ir.Value, want []expectedUser) {
	rebuilt := make([]ir.ValueUser, 0, len(want))
	for _, w := range want {
		rebuilt = append(rebuilt, ir.ValueUser{Op: w.op, OperandIndex: w.index})
	}
	g.SetUsers(v.ID(), rebuilt)
}
