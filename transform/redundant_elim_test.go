package transform_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/grh/ir"
	"github.com/sarchlab/grh/transform"
)

var _ = Describe("RedundantElimPass", func() {
	It("merges two Add operations with identical operands into one", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		a := g.CreateValue(g.InternSymbol("a"), 4, false)
		b := g.CreateValue(g.InternSymbol("b"), 4, false)
		s1 := g.CreateValue(g.InternSymbol("s1"), 4, false)
		s2 := g.CreateValue(g.InternSymbol("s2"), 4, false)
		use1 := g.CreateValue(g.InternSymbol("use1"), 4, false)
		use2 := g.CreateValue(g.InternSymbol("use2"), 4, false)
		// Port-bound results keep the two Not consumers out of the merge, so
		// only the duplicate Add is eliminated.
		g.BindOutputPort(g.InternSymbol("use1"), use1)
		g.BindOutputPort(g.InternSymbol("use2"), use2)

		add0 := g.CreateOperation(ir.KindAdd, g.InternSymbol("add0"))
		g.AddOperand(add0, a)
		g.AddOperand(add0, b)
		g.AddResult(add0, s1)

		add1 := g.CreateOperation(ir.KindAdd, g.InternSymbol("add1"))
		g.AddOperand(add1, a)
		g.AddOperand(add1, b)
		g.AddResult(add1, s2)

		consumer1 := g.CreateOperation(ir.KindNot, g.InternSymbol("not0"))
		g.AddOperand(consumer1, s1)
		g.AddResult(consumer1, use1)

		consumer2 := g.CreateOperation(ir.KindNot, g.InternSymbol("not1"))
		g.AddOperand(consumer2, s2)
		g.AddResult(consumer2, use2)

		manager := transform.NewPassManager()
		manager.AddPass(transform.NewRedundantElimPass())
		result := manager.Run(netlist, transform.NewPassDiagnostics())

		Expect(result.Success).To(BeTrue())
		Expect(result.Changed).To(BeTrue())

		_, found := g.FindOperation(g.InternSymbol("add1"))
		Expect(found).To(BeFalse())
		Expect(g.GetOperation(consumer2).Operands()[0]).To(Equal(s1))
		Expect(g.GetValue(s1).Users()).To(HaveLen(2))
	})

	It("does not merge operations producing a port-bound result", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		a := g.CreateValue(g.InternSymbol("a"), 1, false)
		s1 := g.CreateValue(g.InternSymbol("s1"), 1, false)
		s2 := g.CreateValue(g.InternSymbol("s2"), 1, false)
		g.BindOutputPort(g.InternSymbol("s1"), s1)
		g.BindOutputPort(g.InternSymbol("s2"), s2)

		not0 := g.CreateOperation(ir.KindNot, g.InternSymbol("not0"))
		g.AddOperand(not0, a)
		g.AddResult(not0, s1)

		not1 := g.CreateOperation(ir.KindNot, g.InternSymbol("not1"))
		g.AddOperand(not1, a)
		g.AddResult(not1, s2)

		manager := transform.NewPassManager()
		manager.AddPass(transform.NewRedundantElimPass())
		result := manager.Run(netlist, transform.NewPassDiagnostics())

		Expect(result.Changed).To(BeFalse())
		_, found := g.FindOperation(g.InternSymbol("not1"))
		Expect(found).To(BeTrue())
	})

	It("does not merge Register operations, even with identical operands", func() {
		netlist := ir.NewNetlist()
		g := netlist.CreateGraph("g")

		d := g.CreateValue(g.InternSymbol("d"), 1, false)
		clk := g.CreateValue(g.InternSymbol("clk"), 1, false)
		q1 := g.CreateValue(g.InternSymbol("q1"), 1, false)
		q2 := g.CreateValue(g.InternSymbol("q2"), 1, false)

		reg0 := g.CreateOperation(ir.KindRegister, g.InternSymbol("reg0"))
		g.AddOperand(reg0, d)
		g.AddOperand(reg0, clk)
		g.AddResult(reg0, q1)
		g.SetAttr(reg0, "clkPolarity", ir.String("posedge"))

		reg1 := g.CreateOperation(ir.KindRegister, g.InternSymbol("reg1"))
		g.AddOperand(reg1, d)
		g.AddOperand(reg1, clk)
		g.AddResult(reg1, q2)
		g.SetAttr(reg1, "clkPolarity", ir.String("posedge"))

		manager := transform.NewPassManager()
		manager.AddPass(transform.NewRedundantElimPass())
		result := manager.Run(netlist, transform.NewPassDiagnostics())

		Expect(result.Changed).To(BeFalse())
		_, found := g.FindOperation(g.InternSymbol("reg1"))
		Expect(found).To(BeTrue())
	})
})
