// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"fmt"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/uitransport"
)

// Binding ties one control to the variable it edits.
type Binding struct {
	Var         *flow.Var
	Proc        *flow.Proc
	Kind        uitransport.Kind
	ContainerID elemid.ID
	LabelID     elemid.ID // elemid.Invalid when the row has no label
	WidgetID    elemid.ID
}

// UserArg is the engine's view of the binding.
func (b Binding) UserArg() flow.UserArg {
	return flow.UserArg{ContainerID: b.ContainerID, LabelID: b.LabelID, WidgetID: b.WidgetID}
}

// Registry indexes bindings by widget ID and by variable.
type Registry struct {
	byWidget map[elemid.ID]*Binding
	byVar    map[*flow.Var][]elemid.ID
	order    []elemid.ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byWidget: make(map[elemid.ID]*Binding),
		byVar:    make(map[*flow.Var][]elemid.ID),
	}
}

// Add records a binding. A widget ID can be bound only once.
func (r *Registry) Add(b Binding) error {
	if !b.WidgetID.IsValid() {
		return fmt.Errorf("%w: invalid widget id for '%s'", ErrBindingCorrupt, b.Var.Name())
	}
	if _, exists := r.byWidget[b.WidgetID]; exists {
		return fmt.Errorf("%w: widget %s bound twice", ErrBindingCorrupt, b.WidgetID)
	}
	r.byWidget[b.WidgetID] = &b
	r.byVar[b.Var] = append(r.byVar[b.Var], b.WidgetID)
	r.order = append(r.order, b.WidgetID)
	return nil
}

// Lookup returns the binding of a widget.
func (r *Registry) Lookup(id elemid.ID) (Binding, error) {
	b, ok := r.byWidget[id]
	if !ok {
		return Binding{}, fmt.Errorf("%w: element %s", ErrNotBound, id)
	}
	if b.Var == nil {
		return Binding{}, fmt.Errorf("%w: element %s has no variable", ErrBindingCorrupt, id)
	}
	return *b, nil
}

// ByVar returns every binding of v in creation order.
func (r *Registry) ByVar(v *flow.Var) []Binding {
	ids := r.byVar[v]
	out := make([]Binding, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.byWidget[id])
	}
	return out
}

// All returns every binding in creation order.
func (r *Registry) All() []Binding {
	out := make([]Binding, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byWidget[id])
	}
	return out
}

// Len returns the number of bound widgets.
func (r *Registry) Len() int { return len(r.byWidget) }
