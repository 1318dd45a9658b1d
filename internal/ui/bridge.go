// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"context"
	"fmt"

	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

func (h *Handle) lookup(id elemid.ID) (Binding, error) {
	if !h.Valid() {
		return Binding{}, fmt.Errorf("%w: no active UI", ErrNotBound)
	}
	return h.reg.Lookup(id)
}

// OnValue forwards a value typed into a control to the engine. Meters only
// display engine values and reject writes.
func (h *Handle) OnValue(ctx context.Context, id elemid.ID, raw cty.Value) error {
	bnd, err := h.lookup(id)
	if err != nil {
		return fmt.Errorf("value event on element %s: %w", id, err)
	}
	if bnd.Kind == uitransport.KindMeter {
		return bindingError("value update", bnd, fmt.Errorf("%w: meters are output only", ErrInvalidConfig))
	}

	if bnd.Kind == uitransport.KindList {
		if raw, err = optionValue(bnd.Var, raw); err != nil {
			return bindingError("value update", bnd, err)
		}
	}
	val, err := flow.Coerce(bnd.Var.Type, raw)
	if err != nil {
		return bindingError("value update", bnd, err)
	}
	if err := h.eng.SetValue(bnd.Var, val); err != nil {
		return bindingError("value update", bnd, err)
	}

	ctxlog.FromContext(ctx).Debug("Value sent to engine.", "proc", bnd.Proc.Name(), "var", bnd.Var.Key(), "widget_id", id)
	return nil
}

// OnEcho displays the engine's current value on a control.
func (h *Handle) OnEcho(ctx context.Context, id elemid.ID) error {
	bnd, err := h.lookup(id)
	if err != nil {
		return fmt.Errorf("echo event on element %s: %w", id, err)
	}
	if err := h.echo(bnd); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Value echoed to UI.", "proc", bnd.Proc.Name(), "var", bnd.Var.Key(), "widget_id", id)
	return nil
}

// EchoAll displays the current value of every bound control.
func (h *Handle) EchoAll(ctx context.Context) error {
	if !h.Valid() {
		return nil
	}
	for _, bnd := range h.reg.All() {
		if err := h.echo(bnd); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Echoed all values.", "count", h.reg.Len())
	return nil
}

func (h *Handle) echo(bnd Binding) error {
	// Buttons carry no value.
	if bnd.Kind == uitransport.KindButton {
		return nil
	}
	val, err := h.eng.GetValue(bnd.Var)
	if err != nil {
		return bindingError("echo", bnd, err)
	}
	if bnd.Kind == uitransport.KindList {
		if val, err = optionIndex(bnd.Var, val); err != nil {
			return bindingError("echo", bnd, err)
		}
	}
	if err := h.tr.SendValue(bnd.WidgetID, val); err != nil {
		return bindingError("echo", bnd, err)
	}
	return nil
}

// ApplyState shows engine-pushed state on every control of the variable
// named by arg.
func (h *Handle) ApplyState(arg flow.UserArg, st flow.VarState) error {
	bnd, err := h.lookup(arg.WidgetID)
	if err != nil {
		return fmt.Errorf("state update on element %s: %w", arg.WidgetID, err)
	}
	for _, b := range h.reg.ByVar(bnd.Var) {
		if err := h.tr.SetEnabled(b.WidgetID, !st.Disabled); err != nil {
			return bindingError("enable", b, err)
		}
		if err := h.tr.SetVisible(b.ContainerID, !st.Hidden); err != nil {
			return bindingError("show", b, err)
		}
		if !b.LabelID.IsValid() {
			continue
		}
		if err := h.tr.SetEnabled(b.LabelID, !st.Disabled); err != nil {
			return bindingError("label enable", b, err)
		}
		if err := h.tr.SetVisible(b.LabelID, !st.Hidden); err != nil {
			return bindingError("label show", b, err)
		}
	}
	return nil
}

func bindingError(what string, b Binding, err error) error {
	return fmt.Errorf("%s failed on %s %s: %w", what, b.Proc.Name(), b.Var.Name(), err)
}

// optionValue maps a list index to the value stored in the engine: the
// option label for string variables, the index itself otherwise.
func optionValue(v *flow.Var, raw cty.Value) (cty.Value, error) {
	if v.Type != flow.TypeString {
		return raw, nil
	}
	num, err := convert.Convert(raw, cty.Number)
	if err != nil || num.IsNull() || !num.IsKnown() {
		return cty.NilVal, fmt.Errorf("%w: list selection must be an index", flow.ErrTypeMismatch)
	}
	var idx int
	if err := gocty.FromCtyValue(num, &idx); err != nil {
		return cty.NilVal, fmt.Errorf("%w: list selection: %v", flow.ErrTypeMismatch, err)
	}
	if idx < 0 || idx >= len(v.Options) {
		return cty.NilVal, fmt.Errorf("%w: list index %d out of range [0, %d)", flow.ErrTypeMismatch, idx, len(v.Options))
	}
	return cty.StringVal(v.Options[idx]), nil
}

// optionIndex is the inverse of optionValue.
func optionIndex(v *flow.Var, val cty.Value) (cty.Value, error) {
	if v.Type != flow.TypeString {
		return val, nil
	}
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return cty.NilVal, fmt.Errorf("%w: list value is not a string", flow.ErrTypeMismatch)
	}
	s := val.AsString()
	for i, opt := range v.Options {
		if opt == s {
			return cty.NumberIntVal(int64(i)), nil
		}
	}
	return cty.NilVal, fmt.Errorf("%w: %q is not an option", flow.ErrTypeMismatch, s)
}
