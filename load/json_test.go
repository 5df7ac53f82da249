package load_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/grh/ir"
	"github.com/sarchlab/grh/load"
)

var _ = Describe("FromJSON", func() {
	It("parses a well-formed two-operand adder graph", func() {
		doc := []byte(`{
			"graphs": [{
				"symbol": "g",
				"vals": [
					{"sym": "a", "w": 1, "sgn": false, "in": true},
					{"sym": "b", "w": 1, "sgn": false, "in": true},
					{"sym": "s", "w": 1, "sgn": false, "out": true}
				],
				"ports": {
					"in": [{"name": "a", "val": "a"}, {"name": "b", "val": "b"}],
					"out": [{"name": "s", "val": "s"}],
					"inout": []
				},
				"ops": [{
					"kind": "add", "sym": "add0",
					"in": ["a", "b"], "out": ["s"]
				}]
			}],
			"tops": ["g"]
		}`)

		netlist, err := load.FromJSON(doc)
		Expect(err).NotTo(HaveOccurred())

		g, ok := netlist.FindGraph("g")
		Expect(ok).To(BeTrue())
		Expect(netlist.IsTop("g")).To(BeTrue())

		addSym, ok := g.LookupSymbol("add0")
		Expect(ok).To(BeTrue())
		addID, ok := g.FindOperation(addSym)
		Expect(ok).To(BeTrue())
		Expect(g.GetOperation(addID).Kind()).To(Equal(ir.KindAdd))
	})

	It("decodes attribute scalar/array kinds including short-field aliases", func() {
		doc := []byte(`{
			"graphs": [{
				"symbol": "g",
				"vals": [{"sym": "v0", "w": 1, "sgn": false}],
				"ports": {"in": [], "out": [], "inout": []},
				"ops": [{
					"kind": "Constant", "sym": "c0", "in": [], "out": ["v0"],
					"attrs": {"constValue": {"t": "str", "v": "4'b0101"}}
				}]
			}]
		}`)

		netlist, err := load.FromJSON(doc)
		Expect(err).NotTo(HaveOccurred())

		g, _ := netlist.FindGraph("g")
		sym, _ := g.LookupSymbol("c0")
		opID, _ := g.FindOperation(sym)
		v, ok := g.GetOperation(opID).StringAttr("constValue")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("4'b0101"))
	})

	It("rejects an int attribute with a fractional component", func() {
		doc := []byte(`{
			"graphs": [{
				"symbol": "g",
				"vals": [{"sym": "v0", "w": 1, "sgn": false}],
				"ports": {"in": [], "out": [], "inout": []},
				"ops": [{
					"kind": "Replicate", "sym": "r0", "in": ["v0"], "out": ["v0"],
					"attrs": {"rep": {"kind": "int", "value": 2.5}}
				}]
			}]
		}`)

		_, err := load.FromJSON(doc)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("fractional"))
	})

	It("rejects trailing data after the top-level value", func() {
		doc := []byte(`{"graphs": []} garbage`)
		_, err := load.FromJSON(doc)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("trailing"))
	})

	It("rejects a value declaring both in and out", func() {
		doc := []byte(`{
			"graphs": [{
				"symbol": "g",
				"vals": [{"sym": "v0", "w": 1, "sgn": false, "in": true, "out": true}],
				"ports": {"in": [], "out": [], "inout": []}
			}]
		}`)
		_, err := load.FromJSON(doc)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a port referencing an undeclared value", func() {
		doc := []byte(`{
			"graphs": [{
				"symbol": "g",
				"vals": [],
				"ports": {"in": [{"name": "a", "val": "nope"}], "out": [], "inout": []}
			}]
		}`)
		_, err := load.FromJSON(doc)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("undeclared"))
	})

	It("rejects a value declared as an input but never bound to a port", func() {
		doc := []byte(`{
			"graphs": [{
				"symbol": "g",
				"vals": [{"sym": "a", "w": 1, "sgn": false, "in": true}],
				"ports": {"in": [], "out": [], "inout": []}
			}]
		}`)
		_, err := load.FromJSON(doc)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("not bound"))
	})
})
