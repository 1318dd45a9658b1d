// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var defaultKinds = map[flow.ValueType]uitransport.Kind{
	flow.TypeTrigger: uitransport.KindButton,
	flow.TypeBool:    uitransport.KindCheck,
	flow.TypeInt:     uitransport.KindInt,
	flow.TypeUInt:    uitransport.KindUInt,
	flow.TypeFloat:   uitransport.KindFloat,
	flow.TypeDouble:  uitransport.KindDouble,
	flow.TypeString:  uitransport.KindString,
}

// overrideKinds maps the "type" attribute of a ui override to a kind.
var overrideKinds = map[string]uitransport.Kind{
	"meter": uitransport.KindMeter,
	"list":  uitransport.KindList,
}

// Resolve returns the widget kind for a variable. A ui override wins over the
// type's default.
func Resolve(v *flow.Var) (uitransport.Kind, error) {
	if v.HasUICfg() {
		label, err := overrideLabel(v.UICfg)
		if err != nil {
			return uitransport.KindInvalid, fmt.Errorf("%w on '%s': %v", ErrInvalidConfig, v.Name(), err)
		}
		kind, ok := overrideKinds[label]
		if !ok {
			return uitransport.KindInvalid, fmt.Errorf("%w on '%s': unknown widget type %q", ErrInvalidConfig, v.Name(), label)
		}
		return kind, nil
	}

	kind, ok := defaultKinds[v.Type]
	if !ok {
		return uitransport.KindInvalid, fmt.Errorf("%w: %s on '%s'", ErrUnsupportedType, v.Type, v.Name())
	}
	return kind, nil
}

func overrideLabel(cfg cty.Value) (string, error) {
	ty := cfg.Type()
	if !cfg.IsWhollyKnown() {
		return "", errors.New("ui configuration is not known")
	}

	var attr cty.Value
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute("type") {
			return "", errors.New(`ui configuration has no "type" field`)
		}
		attr = cfg.GetAttr("type")
	case ty.IsMapType():
		key := cty.StringVal("type")
		if cfg.HasIndex(key).False() {
			return "", errors.New(`ui configuration has no "type" field`)
		}
		attr = cfg.Index(key)
	default:
		return "", fmt.Errorf("ui configuration must be an object, got %s", ty.FriendlyName())
	}

	s, err := convert.Convert(attr, cty.String)
	if err != nil || s.IsNull() {
		return "", errors.New(`ui configuration "type" must be a string`)
	}
	return s.AsString(), nil
}
