package ir_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/grh/ir"
)

var _ = Describe("Graph", func() {
	var g *ir.Graph

	BeforeEach(func() {
		g = ir.NewGraph("top")
	})

	Describe("value creation", func() {
		It("assigns dense IDs starting at 1", func() {
			a := g.CreateValue(g.InternSymbol("a"), 1, false)
			b := g.CreateValue(g.InternSymbol("b"), 1, false)
			Expect(a).To(Equal(ir.ValueID(1)))
			Expect(b).To(Equal(ir.ValueID(2)))
		})

		It("panics when a symbol already names a value", func() {
			sym := g.InternSymbol("a")
			g.CreateValue(sym, 1, false)
			Expect(func() { g.CreateValue(sym, 1, false) }).To(Panic())
		})

		It("finds a value by symbol", func() {
			sym := g.InternSymbol("a")
			id := g.CreateValue(sym, 4, true)
			found, ok := g.FindValue(sym)
			Expect(ok).To(BeTrue())
			Expect(found).To(Equal(id))
		})
	})

	Describe("operand and result bookkeeping", func() {
		It("records a user entry when an operand is added", func() {
			aID := g.CreateValue(g.InternSymbol("a"), 1, false)
			outID := g.CreateValue(g.InternSymbol("out"), 1, false)
			opID := g.CreateOperation(ir.KindNot, g.InternSymbol("not0"))

			g.AddOperand(opID, aID)
			g.AddResult(opID, outID)

			a := g.GetValue(aID)
			Expect(a.Users()).To(ConsistOf(ir.ValueUser{Op: opID, OperandIndex: 0}))
			Expect(g.GetValue(outID).DefiningOp()).To(Equal(opID))
		})

		It("panics when a value is made the result of two operations", func() {
			outID := g.CreateValue(g.InternSymbol("out"), 1, false)
			op1 := g.CreateOperation(ir.KindConstant, g.InternSymbol("c0"))
			op2 := g.CreateOperation(ir.KindConstant, g.InternSymbol("c1"))

			g.AddResult(op1, outID)
			Expect(func() { g.AddResult(op2, outID) }).To(Panic())
		})
	})

	Describe("EraseOp", func() {
		It("detaches its own operand and result footprint and succeeds", func() {
			aID := g.CreateValue(g.InternSymbol("a"), 1, false)
			outID := g.CreateValue(g.InternSymbol("out"), 1, false)
			opID := g.CreateOperation(ir.KindNot, g.InternSymbol("not0"))
			g.AddOperand(opID, aID)
			g.AddResult(opID, outID)

			Expect(g.EraseOp(opID)).To(BeTrue())

			Expect(g.GetValue(aID).Users()).To(BeEmpty())
			Expect(g.GetValue(outID).DefiningOp()).To(Equal(ir.OperationID(0)))
			_, found := g.FindOperation(g.InternSymbol("not0"))
			Expect(found).To(BeFalse())
		})
	})

	Describe("ports", func() {
		It("rejects double-binding a value to a second port", func() {
			aID := g.CreateValue(g.InternSymbol("a"), 1, false)
			g.BindInputPort(g.InternSymbol("a_in"), aID)
			Expect(func() { g.BindOutputPort(g.InternSymbol("a_out"), aID) }).To(Panic())
		})

		It("sets the IsInput flag on bind", func() {
			aID := g.CreateValue(g.InternSymbol("a"), 1, false)
			g.BindInputPort(g.InternSymbol("a_in"), aID)
			Expect(g.GetValue(aID).IsInput).To(BeTrue())
		})
	})
})
