package socketui

import (
	"fmt"
	"math"
	"math/big"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/zclconf/go-cty/cty"
)

// toWire converts a cty.Value to plain Go data for the socket payload.
func toWire(val cty.Value) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			w, err := toWire(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = w
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			w, err := toWire(v)
			if err != nil {
				return nil, err
			}
			out = append(out, w)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type for the wire: %s", ty.FriendlyName())
}

// fromWire converts decoded JSON data to a cty.Value.
func fromWire(data any) (cty.Value, error) {
	switch v := data.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(v))
		for key, val := range v {
			c, err := fromWire(val)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[key] = c
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		elems := make([]cty.Value, 0, len(v))
		for _, val := range v {
			c, err := fromWire(val)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, c)
		}
		return cty.TupleVal(elems), nil
	}
	return cty.NilVal, fmt.Errorf("unsupported wire type %T", data)
}

// decodeEvent turns an incoming socket event into a UI event.
func decodeEvent(name string, args []any) (uitransport.Event, error) {
	switch name {
	case "ui:quit":
		return uitransport.Event{Op: uitransport.OpQuit}, nil
	case "ui:value", "ui:echo", "ui:select":
	default:
		return uitransport.Event{}, fmt.Errorf("unknown event %q", name)
	}

	if len(args) == 0 {
		return uitransport.Event{}, fmt.Errorf("%s: missing payload", name)
	}
	msg, ok := args[0].(map[string]any)
	if !ok {
		return uitransport.Event{}, fmt.Errorf("%s: payload must be an object, got %T", name, args[0])
	}

	if name == "ui:select" {
		label, ok := msg["program"].(string)
		if !ok || label == "" {
			return uitransport.Event{}, fmt.Errorf("%s: missing program", name)
		}
		return uitransport.Event{Op: uitransport.OpSelect, Program: label}, nil
	}

	id, err := decodeID(msg["id"])
	if err != nil {
		return uitransport.Event{}, fmt.Errorf("%s: %w", name, err)
	}
	if name == "ui:echo" {
		return uitransport.Event{Op: uitransport.OpEcho, ID: id}, nil
	}

	val, err := fromWire(msg["value"])
	if err != nil {
		return uitransport.Event{}, fmt.Errorf("%s: %w", name, err)
	}
	return uitransport.Event{Op: uitransport.OpValue, ID: id, Value: val}, nil
}

func decodeID(raw any) (elemid.ID, error) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	default:
		return elemid.Invalid, fmt.Errorf("element id must be a number, got %T", raw)
	}
	if n <= 0 || n > math.MaxUint32 || n != math.Trunc(n) {
		return elemid.Invalid, fmt.Errorf("invalid element id %v", raw)
	}
	return elemid.ID(n), nil
}
