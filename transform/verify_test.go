package transform_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/grh/ir"
	"github.com/sarchlab/grh/transform"
)

func runVerify(netlist *ir.Netlist) (*transform.PassDiagnostics, transform.PassResult) {
	pass := transform.NewDefaultGRHVerifyPass()
	diags := transform.NewPassDiagnostics()
	manager := transform.NewPassManager()
	manager.AddPass(pass)
	result := manager.Run(netlist, diags)
	return diags, transform.PassResult{Changed: result.Changed, Failed: !result.Success}
}

var _ = Describe("GRHVerifyPass", func() {
	It("S1: accepts a well-formed two-operand adder", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		a := g.CreateValue(g.InternSymbol("a"), 1, false)
		b := g.CreateValue(g.InternSymbol("b"), 1, false)
		s := g.CreateValue(g.InternSymbol("s"), 1, false)
		g.BindInputPort(g.InternSymbol("a"), a)
		g.BindInputPort(g.InternSymbol("b"), b)
		g.BindOutputPort(g.InternSymbol("s"), s)

		add0 := g.CreateOperation(ir.KindAdd, g.InternSymbol("add0"))
		g.AddOperand(add0, a)
		g.AddOperand(add0, b)
		g.AddResult(add0, s)

		diags, result := runVerify(netlist)

		Expect(result.Failed).To(BeFalse())
		Expect(result.Changed).To(BeFalse())
		for _, d := range diags.All() {
			Expect(d.Kind).NotTo(Equal(transform.Error))
		}
	})

	It("S2: reports a missing required attribute on Constant", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		v0 := g.CreateValue(g.InternSymbol("v0"), 1, false)
		c0 := g.CreateOperation(ir.KindConstant, g.InternSymbol("c0"))
		g.AddResult(c0, v0)

		diags, result := runVerify(netlist)

		Expect(result.Failed).To(BeTrue())
		found := false
		for _, d := range diags.All() {
			if d.Kind == transform.Error {
				Expect(d.Message).To(ContainSubstring("Missing required attribute: constValue"))
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("S3: reports an arity violation on a one-operand Add", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		a := g.CreateValue(g.InternSymbol("a"), 1, false)
		out := g.CreateValue(g.InternSymbol("out"), 1, false)
		add0 := g.CreateOperation(ir.KindAdd, g.InternSymbol("add0"))
		g.AddOperand(add0, a)
		g.AddResult(add0, out)

		diags, result := runVerify(netlist)

		Expect(result.Failed).To(BeTrue())
		found := false
		for _, d := range diags.All() {
			if d.Kind == transform.Error && d.Entity == "add0" {
				Expect(d.Message).To(ContainSubstring("1 out of range [2, 2]"))
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("S4: keeps an extraneous attribute and reports it as Info only", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		in := g.CreateValue(g.InternSymbol("in"), 1, false)
		out := g.CreateValue(g.InternSymbol("out"), 1, false)
		assign0 := g.CreateOperation(ir.KindAssign, g.InternSymbol("assign0"))
		g.AddOperand(assign0, in)
		g.AddResult(assign0, out)
		g.SetAttr(assign0, "extra", ir.Int(42))

		diags, result := runVerify(netlist)

		Expect(result.Failed).To(BeFalse())
		var infoFound bool
		for _, d := range diags.All() {
			Expect(d.Kind).NotTo(Equal(transform.Error))
			if d.Kind == transform.Info && d.Message == "Unexpected attribute (kept): extra" {
				infoFound = true
			}
		}
		Expect(infoFound).To(BeTrue())
	})

	It("repairs a corrupted user list when autoFixPointers is enabled", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		a := g.CreateValue(g.InternSymbol("a"), 1, false)
		out := g.CreateValue(g.InternSymbol("out"), 1, false)
		not0 := g.CreateOperation(ir.KindNot, g.InternSymbol("not0"))
		g.AddOperand(not0, a)
		g.AddResult(not0, out)

		// Corrupt the cache directly, bypassing the normal mutation API.
		g.SetUsers(a, nil)

		diags, result := runVerify(netlist)

		Expect(result.Failed).To(BeFalse())
		Expect(result.Changed).To(BeTrue())
		Expect(g.GetValue(a).Users()).To(ConsistOf(ir.ValueUser{Op: not0, OperandIndex: 0}))

		var repaired bool
		for _, d := range diags.All() {
			if d.Kind == transform.Info {
				repaired = true
			}
		}
		Expect(repaired).To(BeTrue())
	})

	It("is idempotent: a second run reports no repairs", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		a := g.CreateValue(g.InternSymbol("a"), 1, false)
		out := g.CreateValue(g.InternSymbol("out"), 1, false)
		not0 := g.CreateOperation(ir.KindNot, g.InternSymbol("not0"))
		g.AddOperand(not0, a)
		g.AddResult(not0, out)
		g.SetUsers(a, nil)

		_, first := runVerify(netlist)
		Expect(first.Changed).To(BeTrue())

		_, second := runVerify(netlist)
		Expect(second.Changed).To(BeFalse())
	})
})
