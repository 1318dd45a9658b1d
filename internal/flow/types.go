// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package flow

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ValueType is the type tag of a variable.
type ValueType int

const (
	TypeInvalid ValueType = iota
	TypeBool
	TypeInt
	TypeUInt
	TypeFloat
	TypeDouble
	TypeString
	TypeTrigger // the "any" type: carries no value, only the fact that it fired

	// Engine-only types. They never get a widget.
	TypeAudio
	TypeSpectrum
	TypeMIDI
	TypeRecord
)

var valueTypeLabels = map[ValueType]string{
	TypeBool:     "bool",
	TypeInt:      "int",
	TypeUInt:     "uint",
	TypeFloat:    "float",
	TypeDouble:   "double",
	TypeString:   "string",
	TypeTrigger:  "trigger",
	TypeAudio:    "audio",
	TypeSpectrum: "spectrum",
	TypeMIDI:     "midi",
	TypeRecord:   "record",
}

func (t ValueType) String() string {
	if l, ok := valueTypeLabels[t]; ok {
		return l
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// ParseValueType maps a type label to its ValueType. "any" is accepted as an
// alias of "trigger".
func ParseValueType(label string) (ValueType, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "any" {
		return TypeTrigger, nil
	}
	for t, l := range valueTypeLabels {
		if l == label {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("unknown value type %q", label)
}

// UIEligible reports whether the type is one of the six editable types that
// get a control in a process panel.
func (t ValueType) UIEligible() bool {
	switch t {
	case TypeBool, TypeInt, TypeUInt, TypeFloat, TypeDouble, TypeString:
		return true
	}
	return false
}

// CtyType is the cty type values of this type are carried in. Engine-only
// types return cty.NilType.
func (t ValueType) CtyType() cty.Type {
	switch t {
	case TypeBool, TypeTrigger:
		return cty.Bool
	case TypeInt, TypeUInt, TypeFloat, TypeDouble:
		return cty.Number
	case TypeString:
		return cty.String
	}
	return cty.NilType
}

// Channel sentinels.
const (
	// AnyChIdx marks a variable that is not tied to one specific channel.
	AnyChIdx = -1
	// NoChCnt marks a variable that is not channelized at all.
	NoChCnt = -1
)

// DescFlags are the static, class-level description flags of a variable.
type DescFlags uint

const (
	NoUIFl     DescFlags = 1 << iota // never create UI
	DisabledFl                       // initially disabled
	HiddenFl                         // initially hidden
	InitFl                           // set only by the engine at init, read-only from the UI
	SrcFl                            // value supplied by an upstream source
)

var descFlagLabels = map[string]DescFlags{
	"no_ui":    NoUIFl,
	"disabled": DisabledFl,
	"hidden":   HiddenFl,
	"init":     InitFl,
	"src":      SrcFl,
}

// ParseDescFlag maps a flag label such as "no_ui" or "hidden" to its flag.
func ParseDescFlag(label string) (DescFlags, error) {
	if fl, ok := descFlagLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return fl, nil
	}
	return 0, fmt.Errorf("unknown variable flag %q", label)
}

// Has reports whether all bits of fl are set.
func (f DescFlags) Has(fl DescFlags) bool {
	return f&fl == fl
}

// Interactive is false for variables the user must not edit.
func (f DescFlags) Interactive() bool {
	return f&(DisabledFl|InitFl|SrcFl) == 0
}
