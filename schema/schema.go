// Package schema holds the process-wide, immutable registry of per-kind
// operand/result arity and attribute rules that the verifier pass checks
// every operation against.
package schema

import (
	"math"

	"github.com/sarchlab/grh/ir"
)

// Unbounded is the sentinel max for an arity range with no upper bound.
const Unbounded = math.MaxInt32

// Range is an inclusive [Min, Max] arity range. Max == Unbounded means no
// upper bound.
type Range struct {
	Min int
	Max int
}

// Contains reports whether n falls within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// AttributeRule constrains one named attribute on an operation kind.
type AttributeRule struct {
	Name           string
	Kind           ir.AttrKind
	AllowedStrings []string // only meaningful when Kind == ir.AttrString
	Optional       bool
}

// allowsString reports whether value is acceptable for a string rule: any
// value is allowed when AllowedStrings is empty, otherwise value must
// appear in the set.
func (r AttributeRule) allowsString(value string) bool {
	if len(r.AllowedStrings) == 0 {
		return true
	}
	for _, s := range r.AllowedStrings {
		if s == value {
			return true
		}
	}
	return false
}

// Matches reports whether value satisfies this rule's type and (for
// strings) allowed-set constraints.
func (r AttributeRule) Matches(value ir.AttributeValue) bool {
	if value.Kind != r.Kind {
		return false
	}
	if r.Kind == ir.AttrString && !r.allowsString(value.StringVal) {
		return false
	}
	return true
}

// OperationSpec is the per-kind contract the verifier checks operations
// against.
type OperationSpec struct {
	Operands Range
	Results  Range
	Required []AttributeRule
	Optional []AttributeRule
}

// RequiredRule looks up a required rule by name.
func (s *OperationSpec) RequiredRule(name string) (AttributeRule, bool) {
	for _, r := range s.Required {
		if r.Name == name {
			return r, true
		}
	}
	return AttributeRule{}, false
}

// OptionalRule looks up an optional rule by name.
func (s *OperationSpec) OptionalRule(name string) (AttributeRule, bool) {
	for _, r := range s.Optional {
		if r.Name == name {
			return r, true
		}
	}
	return AttributeRule{}, false
}

// KnownAttr reports whether name is covered by either the required or
// optional rule list.
func (s *OperationSpec) KnownAttr(name string) bool {
	if _, ok := s.RequiredRule(name); ok {
		return true
	}
	_, ok := s.OptionalRule(name)
	return ok
}

func exact(n int) Range { return Range{Min: n, Max: n} }

func atLeast(n int) Range { return Range{Min: n, Max: Unbounded} }

func reqString(name string, allowed ...string) AttributeRule {
	return AttributeRule{Name: name, Kind: ir.AttrString, AllowedStrings: allowed}
}

func reqInt(name string) AttributeRule {
	return AttributeRule{Name: name, Kind: ir.AttrInt}
}

func reqBool(name string) AttributeRule {
	return AttributeRule{Name: name, Kind: ir.AttrBool}
}

func reqStringArray(name string) AttributeRule {
	return AttributeRule{Name: name, Kind: ir.AttrStringArray}
}

func reqIntArray(name string) AttributeRule {
	return AttributeRule{Name: name, Kind: ir.AttrIntArray}
}

func optString(name string, allowed ...string) AttributeRule {
	r := reqString(name, allowed...)
	r.Optional = true
	return r
}

var binaryKinds = []ir.OperationKind{
	ir.KindAdd, ir.KindSub, ir.KindMul, ir.KindDiv, ir.KindMod,
	ir.KindEq, ir.KindNe, ir.KindLt, ir.KindLe, ir.KindGt, ir.KindGe,
	ir.KindAnd, ir.KindOr, ir.KindXor, ir.KindXnor, ir.KindLogicAnd, ir.KindLogicOr,
	ir.KindShl, ir.KindLShr, ir.KindAShr,
}

var unaryKinds = []ir.OperationKind{
	ir.KindNot, ir.KindLogicNot,
	ir.KindReduceAnd, ir.KindReduceOr, ir.KindReduceXor,
	ir.KindReduceNor, ir.KindReduceNand, ir.KindReduceXnor,
}

// registry is the process-wide immutable kind → spec map, built once at
// package init.
var registry = buildRegistry()

// Lookup returns the spec registered for kind, if any.
func Lookup(kind ir.OperationKind) (*OperationSpec, bool) {
	s, ok := registry[kind]
	return s, ok
}

func buildRegistry() map[ir.OperationKind]*OperationSpec {
	m := make(map[ir.OperationKind]*OperationSpec, 64)

	for _, k := range binaryKinds {
		m[k] = &OperationSpec{Operands: exact(2), Results: exact(1)}
	}
	for _, k := range unaryKinds {
		m[k] = &OperationSpec{Operands: exact(1), Results: exact(1)}
	}

	m[ir.KindConstant] = &OperationSpec{
		Operands: exact(0), Results: exact(1),
		Required: []AttributeRule{reqString("constValue")},
	}
	m[ir.KindMux] = &OperationSpec{Operands: exact(3), Results: exact(1)}
	m[ir.KindAssign] = &OperationSpec{Operands: exact(1), Results: exact(1)}
	m[ir.KindConcat] = &OperationSpec{Operands: atLeast(2), Results: exact(1)}
	m[ir.KindReplicate] = &OperationSpec{
		Operands: exact(1), Results: exact(1),
		Required: []AttributeRule{reqInt("rep")},
	}
	m[ir.KindSliceStatic] = &OperationSpec{
		Operands: exact(1), Results: exact(1),
		Required: []AttributeRule{reqInt("sliceStart"), reqInt("sliceEnd")},
	}
	m[ir.KindSliceDynamic] = &OperationSpec{
		Operands: exact(2), Results: exact(1),
		Required: []AttributeRule{reqInt("sliceWidth")},
	}
	m[ir.KindSliceArray] = &OperationSpec{
		Operands: exact(2), Results: exact(1),
		Required: []AttributeRule{reqInt("sliceWidth")},
	}

	m[ir.KindLatch] = &OperationSpec{
		Operands: exact(2), Results: exact(1),
		Required: []AttributeRule{reqString("enLevel", "high", "low")},
	}
	m[ir.KindLatchArst] = &OperationSpec{
		Operands: exact(4), Results: exact(1),
		Required: []AttributeRule{
			reqString("enLevel", "high", "low"),
			reqString("rstPolarity", "high", "low"),
		},
	}

	clkPolarity := reqString("clkPolarity", "posedge", "negedge")
	m[ir.KindRegister] = &OperationSpec{
		Operands: exact(2), Results: exact(1),
		Required: []AttributeRule{clkPolarity},
	}
	m[ir.KindRegisterEn] = &OperationSpec{
		Operands: exact(3), Results: exact(1),
		Required: []AttributeRule{clkPolarity, reqString("enLevel", "high", "low")},
	}
	m[ir.KindRegisterRst] = &OperationSpec{
		Operands: exact(3), Results: exact(1),
		Required: []AttributeRule{clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindRegisterEnRst] = &OperationSpec{
		Operands: exact(4), Results: exact(1),
		Required: []AttributeRule{
			clkPolarity,
			reqString("enLevel", "high", "low"),
			reqString("rstPolarity", "high", "low"),
		},
	}
	m[ir.KindRegisterArst] = &OperationSpec{
		Operands: exact(3), Results: exact(1),
		Required: []AttributeRule{clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindRegisterEnArst] = &OperationSpec{
		Operands: exact(5), Results: exact(1),
		Required: []AttributeRule{
			clkPolarity,
			reqString("enLevel", "high", "low"),
			reqString("rstPolarity", "high", "low"),
		},
	}

	m[ir.KindMemory] = &OperationSpec{
		Operands: exact(0), Results: exact(0),
		Required: []AttributeRule{reqInt("width"), reqInt("row"), reqBool("isSigned")},
	}

	memSymbol := reqString("memSymbol")
	m[ir.KindMemoryAsyncReadPort] = &OperationSpec{
		Operands: exact(1), Results: exact(1),
		Required: []AttributeRule{memSymbol},
	}
	m[ir.KindMemorySyncReadPort] = &OperationSpec{
		Operands: exact(2), Results: exact(1),
		Required: []AttributeRule{memSymbol, clkPolarity},
	}
	m[ir.KindMemorySyncReadPortRst] = &OperationSpec{
		Operands: exact(3), Results: exact(1),
		Required: []AttributeRule{memSymbol, clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindMemorySyncReadPortArst] = &OperationSpec{
		Operands: exact(3), Results: exact(1),
		Required: []AttributeRule{memSymbol, clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindMemoryWritePort] = &OperationSpec{
		Operands: exact(3), Results: exact(0),
		Required: []AttributeRule{memSymbol, clkPolarity},
	}
	m[ir.KindMemoryWritePortRst] = &OperationSpec{
		Operands: exact(4), Results: exact(0),
		Required: []AttributeRule{memSymbol, clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindMemoryWritePortArst] = &OperationSpec{
		Operands: exact(4), Results: exact(0),
		Required: []AttributeRule{memSymbol, clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindMemoryMaskWritePort] = &OperationSpec{
		Operands: exact(4), Results: exact(0),
		Required: []AttributeRule{memSymbol, clkPolarity},
	}
	m[ir.KindMemoryMaskWritePortRst] = &OperationSpec{
		Operands: exact(5), Results: exact(0),
		Required: []AttributeRule{memSymbol, clkPolarity, reqString("rstPolarity", "high", "low")},
	}
	m[ir.KindMemoryMaskWritePortArst] = &OperationSpec{
		Operands: exact(5), Results: exact(0),
		Required: []AttributeRule{memSymbol, clkPolarity, reqString("rstPolarity", "high", "low")},
	}

	m[ir.KindInstance] = &OperationSpec{
		Operands: atLeast(0), Results: atLeast(0),
		Required: []AttributeRule{
			reqString("moduleName"), reqString("instanceName"),
			reqStringArray("inputPortName"), reqStringArray("outputPortName"),
		},
	}
	m[ir.KindBlackbox] = &OperationSpec{
		Operands: atLeast(0), Results: atLeast(0),
		Required: []AttributeRule{
			reqString("moduleName"), reqString("instanceName"),
			reqStringArray("inputPortName"), reqStringArray("outputPortName"),
			reqStringArray("parameterNames"), reqStringArray("parameterValues"),
		},
	}

	m[ir.KindDisplay] = &OperationSpec{
		Operands: atLeast(2), Results: exact(0),
		Required: []AttributeRule{
			clkPolarity,
			reqString("formatString"),
			reqString("displayKind", "display", "write", "strobe"),
		},
	}
	m[ir.KindAssert] = &OperationSpec{
		Operands: exact(2), Results: exact(0),
		Required: []AttributeRule{clkPolarity},
		Optional: []AttributeRule{optString("message"), optString("severity")},
	}

	m[ir.KindDpicImport] = &OperationSpec{
		Operands: exact(0), Results: exact(0),
		Required: []AttributeRule{
			reqStringArray("argsDirection"), reqIntArray("argsWidth"), reqStringArray("argsName"),
		},
	}
	m[ir.KindDpicCall] = &OperationSpec{
		Operands: atLeast(2), Results: atLeast(0),
		Required: []AttributeRule{
			clkPolarity, reqString("targetImportSymbol"),
			reqStringArray("inArgName"), reqStringArray("outArgName"),
		},
	}

	return m
}
