package flow

import (
	"errors"
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrTypeMismatch is returned when a value cannot be represented in a variable's type.
var ErrTypeMismatch = errors.New("value type mismatch")

// Coerce converts a raw value, as delivered by a UI event, to the type t.
// Integral types must be whole and fit in 32 bits, floats must fit in a
// float32. Triggers accept anything and yield true.
func Coerce(t ValueType, raw cty.Value) (cty.Value, error) {
	if t == TypeTrigger {
		return cty.True, nil
	}
	if raw.IsNull() || !raw.IsWhollyKnown() {
		return cty.NilVal, fmt.Errorf("%w: no value for type %s", ErrTypeMismatch, t)
	}

	target := t.CtyType()
	if target == cty.NilType {
		return cty.NilVal, fmt.Errorf("%w: type %s carries no UI value", ErrTypeMismatch, t)
	}

	val, err := convert.Convert(raw, target)
	if err != nil {
		return cty.NilVal, fmt.Errorf("%w: cannot use %s as %s: %v", ErrTypeMismatch, raw.Type().FriendlyName(), t, err)
	}

	switch t {
	case TypeInt:
		var i int32
		if err := gocty.FromCtyValue(val, &i); err != nil {
			return cty.NilVal, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, t, err)
		}
	case TypeUInt:
		var u uint32
		if err := gocty.FromCtyValue(val, &u); err != nil {
			return cty.NilVal, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, t, err)
		}
	case TypeFloat:
		f, _ := val.AsBigFloat().Float64()
		if math.Abs(f) > math.MaxFloat32 {
			return cty.NilVal, fmt.Errorf("%w: %s: %g is out of range", ErrTypeMismatch, t, f)
		}
	}

	return val, nil
}
