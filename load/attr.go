package load

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sarchlab/grh/ir"
)

// jsonAttr decodes one attribute-value object, tolerating the short-field
// aliases the wire format allows for its kind and value keys.
type jsonAttr struct {
	raw map[string]json.RawMessage
}

func (a *jsonAttr) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(&a.raw)
}

func (a *jsonAttr) field(names ...string) (json.RawMessage, bool) {
	for _, n := range names {
		if v, ok := a.raw[n]; ok {
			return v, true
		}
	}
	return nil, false
}

// toIR decodes the attribute into an ir.AttributeValue, resolving the kind
// alias and then the appropriate scalar/array value key for that kind.
func (a *jsonAttr) toIR() (ir.AttributeValue, error) {
	kindRaw, ok := a.field("t", "k", "kind")
	if !ok {
		return ir.AttributeValue{}, fmt.Errorf("missing kind field (t/k/kind)")
	}

	var kindText string
	if err := json.Unmarshal(kindRaw, &kindText); err != nil {
		return ir.AttributeValue{}, fmt.Errorf("kind field is not a string: %w", err)
	}

	switch kindText {
	case "bool":
		v, err := a.scalarBool()
		return ir.Bool(v), err
	case "int":
		v, err := a.scalarInt()
		return ir.Int(v), err
	case "double":
		v, err := a.scalarDouble()
		return ir.Double(v), err
	case "string", "str":
		v, err := a.scalarString()
		return ir.String(v), err
	case "bool_array", "bool[]":
		v, err := a.arrayBool()
		return ir.BoolArrayAttr(v), err
	case "int_array", "int[]":
		v, err := a.arrayInt()
		return ir.IntArrayAttr(v), err
	case "double_array", "double[]":
		v, err := a.arrayDouble()
		return ir.DoubleArrayAttr(v), err
	case "string_array", "string[]":
		v, err := a.arrayString()
		return ir.StringArrayAttr(v), err
	default:
		return ir.AttributeValue{}, fmt.Errorf("unknown attribute kind %q", kindText)
	}
}

func (a *jsonAttr) scalarRaw() (json.RawMessage, error) {
	v, ok := a.field("v", "value")
	if !ok {
		return nil, fmt.Errorf("missing scalar value field (v/value)")
	}
	return v, nil
}

func (a *jsonAttr) arrayRaw() ([]json.RawMessage, error) {
	v, ok := a.field("vs", "values")
	if !ok {
		return nil, fmt.Errorf("missing array value field (vs/values)")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(v, &elems); err != nil {
		return nil, fmt.Errorf("array value is not a JSON array: %w", err)
	}
	return elems, nil
}

func (a *jsonAttr) scalarBool() (bool, error) {
	raw, err := a.scalarRaw()
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("expected a bool scalar: %w", err)
	}
	return v, nil
}

func (a *jsonAttr) scalarInt() (int64, error) {
	raw, err := a.scalarRaw()
	if err != nil {
		return 0, err
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("expected an int scalar: %w", err)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("int attribute has a fractional component: %s", num.String())
	}
	return n, nil
}

func (a *jsonAttr) scalarDouble() (float64, error) {
	raw, err := a.scalarRaw()
	if err != nil {
		return 0, err
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0, fmt.Errorf("expected a double scalar: %w", err)
	}
	f, err := num.Float64()
	if err != nil {
		return 0, fmt.Errorf("expected a double scalar: %w", err)
	}
	return f, nil
}

func (a *jsonAttr) scalarString() (string, error) {
	raw, err := a.scalarRaw()
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("expected a string scalar: %w", err)
	}
	return v, nil
}

func (a *jsonAttr) arrayBool() ([]bool, error) {
	elems, err := a.arrayRaw()
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(elems))
	for i, e := range elems {
		if err := json.Unmarshal(e, &out[i]); err != nil {
			return nil, fmt.Errorf("array element %d is not a bool: %w", i, err)
		}
	}
	return out, nil
}

func (a *jsonAttr) arrayInt() ([]int64, error) {
	elems, err := a.arrayRaw()
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(elems))
	for i, e := range elems {
		var num json.Number
		if err := json.Unmarshal(e, &num); err != nil {
			return nil, fmt.Errorf("array element %d is not an int: %w", i, err)
		}
		n, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("array element %d has a fractional component: %s", i, num.String())
		}
		out[i] = n
	}
	return out, nil
}

func (a *jsonAttr) arrayDouble() ([]float64, error) {
	elems, err := a.arrayRaw()
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(elems))
	for i, e := range elems {
		var num json.Number
		if err := json.Unmarshal(e, &num); err != nil {
			return nil, fmt.Errorf("array element %d is not a double: %w", i, err)
		}
		f, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("array element %d is not a valid double: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

func (a *jsonAttr) arrayString() ([]string, error) {
	elems, err := a.arrayRaw()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elems))
	for i, e := range elems {
		if err := json.Unmarshal(e, &out[i]); err != nil {
			return nil, fmt.Errorf("array element %d is not a string: %w", i, err)
		}
	}
	return out, nil
}
