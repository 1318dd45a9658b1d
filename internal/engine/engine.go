// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnknownVar is returned for variables that are not part of the loaded network.
	ErrUnknownVar = errors.New("variable is not part of the loaded network")
	// ErrReadOnly is returned when the UI writes a variable only the engine may set.
	ErrReadOnly = errors.New("variable is read-only from the UI")
)

// StateSink receives enabled/visible changes for the elements named by arg.
type StateSink interface {
	ApplyState(arg flow.UserArg, st flow.VarState) error
}

// Engine is an in-memory implementation of flow.Engine.
//
// The store maintains three independent sync.Maps keyed by *flow.Var:
//   - values: current cty.Value of the variable
//   - args: the flow.UserArg registered by the UI
//   - known: membership in the loaded network
type Engine struct {
	values sync.Map
	args   sync.Map
	known  sync.Map

	mu   sync.Mutex // guards sink and Var.State writes
	sink StateSink
	net  *flow.Net
}

// New creates a new engine with no network loaded.
func New() *Engine {
	return &Engine{}
}

// Load resets the engine to the given network: every variable's state is
// initialized from its class flags and its value from its default, or the
// zero value of its type.
func (e *Engine) Load(net *flow.Net) error {
	if err := net.Validate(); err != nil {
		return fmt.Errorf("cannot load network: %w", err)
	}

	e.values.Clear()
	e.args.Clear()
	e.known.Clear()

	var loadErr error
	net.Walk(func(p *flow.Proc, v *flow.Var) {
		if loadErr != nil {
			return
		}
		v.InitState()
		e.known.Store(v, struct{}{})

		if v.Type.CtyType() == cty.NilType {
			return
		}
		val := zeroValue(v.Type)
		if !v.Default.IsNull() {
			coerced, err := flow.Coerce(v.Type, v.Default)
			if err != nil {
				loadErr = fmt.Errorf("default of %s on %s: %w", v.Name(), p.Name(), err)
				return
			}
			val = coerced
		}
		e.values.Store(v, val)
	})
	if loadErr != nil {
		return loadErr
	}

	e.mu.Lock()
	e.net = net
	e.mu.Unlock()
	return nil
}

// Net returns the loaded network, or nil.
func (e *Engine) Net() *flow.Net {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.net
}

// SetSink installs the receiver of state changes. A nil sink disables pushes.
func (e *Engine) SetSink(s StateSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = s
}

// SetValue records a value written from the UI.
func (e *Engine) SetValue(v *flow.Var, val cty.Value) error {
	if err := e.check(v); err != nil {
		return err
	}
	if v.Desc.Has(flow.InitFl) || v.Desc.Has(flow.SrcFl) {
		return fmt.Errorf("%w: %s", ErrReadOnly, v.Name())
	}
	coerced, err := flow.Coerce(v.Type, val)
	if err != nil {
		return fmt.Errorf("rejected value for %s: %w", v.Name(), err)
	}
	e.values.Store(v, coerced)
	return nil
}

// Update sets a value from the engine side. Unlike SetValue it ignores the
// read-only flags.
func (e *Engine) Update(v *flow.Var, val cty.Value) error {
	if err := e.check(v); err != nil {
		return err
	}
	coerced, err := flow.Coerce(v.Type, val)
	if err != nil {
		return fmt.Errorf("rejected value for %s: %w", v.Name(), err)
	}
	e.values.Store(v, coerced)
	return nil
}

// GetValue returns the current value of v.
func (e *Engine) GetValue(v *flow.Var) (cty.Value, error) {
	if err := e.check(v); err != nil {
		return cty.NilVal, err
	}
	val, ok := e.values.Load(v)
	if !ok {
		return cty.NilVal, fmt.Errorf("variable %s of type %s has no value", v.Name(), v.Type)
	}
	return val.(cty.Value), nil
}

// SetUserArg records the elements showing v.
func (e *Engine) SetUserArg(v *flow.Var, arg flow.UserArg) error {
	if err := e.check(v); err != nil {
		return err
	}
	e.args.Store(v, arg)
	return nil
}

// UserArg returns the elements registered for v.
func (e *Engine) UserArg(v *flow.Var) (flow.UserArg, bool) {
	arg, ok := e.args.Load(v)
	if !ok {
		return flow.UserArg{}, false
	}
	return arg.(flow.UserArg), true
}

// SetEnabled changes the live enabled state of v and pushes it to the UI.
func (e *Engine) SetEnabled(v *flow.Var, enabled bool) error {
	return e.updateState(v, func(st *flow.VarState) { st.Disabled = !enabled })
}

// SetVisible changes the live visible state of v and pushes it to the UI.
func (e *Engine) SetVisible(v *flow.Var, visible bool) error {
	return e.updateState(v, func(st *flow.VarState) { st.Hidden = !visible })
}

func (e *Engine) updateState(v *flow.Var, fn func(*flow.VarState)) error {
	if err := e.check(v); err != nil {
		return err
	}

	e.mu.Lock()
	fn(&v.State)
	st := v.State
	sink := e.sink
	e.mu.Unlock()

	arg, ok := e.UserArg(v)
	if sink == nil || !ok {
		return nil
	}
	if err := sink.ApplyState(arg, st); err != nil {
		return fmt.Errorf("state push failed on %s: %w", v.Name(), err)
	}
	return nil
}

func (e *Engine) check(v *flow.Var) error {
	if v == nil {
		return fmt.Errorf("%w: nil variable", ErrUnknownVar)
	}
	if _, ok := e.known.Load(v); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVar, v.Name())
	}
	return nil
}

func zeroValue(t flow.ValueType) cty.Value {
	switch t.CtyType() {
	case cty.Bool:
		return cty.False
	case cty.Number:
		return cty.Zero
	case cty.String:
		return cty.StringVal("")
	}
	return cty.NilVal
}
