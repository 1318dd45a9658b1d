// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package flow

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// VarState is the live, instance-owned state of a variable. The zero value is
// enabled and visible.
type VarState struct {
	Disabled bool
	Hidden   bool
}

// Var describes one controllable or observable value of a process.
type Var struct {
	Label    string
	LabelSfx int
	Type     ValueType

	// ChIdx is a concrete channel or AnyChIdx. ChCnt is a replication count,
	// 0 for exactly one instance, or NoChCnt.
	ChIdx int
	ChCnt int

	Desc DescFlags

	// UICfg is an optional declarative override, an object carrying a
	// string "type" attribute. cty.NilVal or a null value means none.
	UICfg cty.Value

	// Options holds one label per entry of an enumerated list widget.
	Options []string

	Default cty.Value

	// State is written by the engine once the variable is instantiated.
	State VarState
}

// InitState copies the class-level flags into the instance state.
func (v *Var) InitState() {
	v.State = VarState{
		Disabled: !v.Desc.Interactive(),
		Hidden:   v.Desc.Has(HiddenFl),
	}
}

// IsAnyChannel reports whether the variable is not bound to a specific channel.
func (v *Var) IsAnyChannel() bool {
	return v.ChIdx == AnyChIdx
}

// HasUICfg reports whether a declarative UI override is present.
func (v *Var) HasUICfg() bool {
	return !v.UICfg.IsNull()
}

// Name is the label and suffix, "gain:0".
func (v *Var) Name() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%d", v.Label, v.LabelSfx)
}

// Key identifies the variable within its process, channel included.
func (v *Var) Key() string {
	if v.IsAnyChannel() {
		return v.Name() + "@any"
	}
	return fmt.Sprintf("%s@%d", v.Name(), v.ChIdx)
}
