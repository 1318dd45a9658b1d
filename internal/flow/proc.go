// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package flow

import (
	"errors"
	"fmt"
)

// Preset is one entry of a process class preset list.
type Preset struct {
	Label string
}

// ProcClass is the static description shared by all instances of a process type.
type ProcClass struct {
	Name  string
	Label string // display label

	// CreateUI opts the class in to UI generation.
	CreateUI bool

	Presets []Preset
}

// DisplayLabel falls back to the class name when no display label is set.
func (c *ProcClass) DisplayLabel() string {
	if c == nil {
		return ""
	}
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Proc is one process instance.
type Proc struct {
	Label    string
	LabelSfx int
	Class    *ProcClass
	Vars     []*Var

	// Nets are the internal networks of the process, one per polyphonic
	// voice, in instantiation order.
	Nets []*Net
}

// Name is the instance label and suffix, "osc:0".
func (p *Proc) Name() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s:%d", p.Label, p.LabelSfx)
}

// Title is the panel title, "<class display label> <label>:<sfx>".
func (p *Proc) Title() string {
	return fmt.Sprintf("%s %s", p.Class.DisplayLabel(), p.Name())
}

// Validate checks the process invariants, recursively.
func (p *Proc) Validate() error {
	if p.Class == nil {
		return fmt.Errorf("process %s has no class", p.Name())
	}
	if len(p.Vars) == 0 && len(p.Nets) == 0 {
		return fmt.Errorf("process %s has neither variables nor an internal network", p.Name())
	}
	for _, v := range p.Vars {
		if v == nil {
			return fmt.Errorf("process %s has a nil variable", p.Name())
		}
	}
	for _, n := range p.Nets {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("in process %s: %w", p.Name(), err)
		}
	}
	return nil
}

// Net is an ordered collection of process instances.
type Net struct {
	Procs   []*Proc
	PolyIdx int

	// CreateUI forces UI creation for every process regardless of the class opt-in.
	CreateUI bool
}

// Validate checks every process of the network.
func (n *Net) Validate() error {
	if n == nil {
		return errors.New("network is nil")
	}
	for _, p := range n.Procs {
		if p == nil {
			return fmt.Errorf("network %d contains a nil process", n.PolyIdx)
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every variable of the network and its nested networks, depth first.
func (n *Net) Walk(fn func(p *Proc, v *Var)) {
	if n == nil {
		return
	}
	for _, p := range n.Procs {
		for _, v := range p.Vars {
			fn(p, v)
		}
		for _, sub := range p.Nets {
			sub.Walk(fn)
		}
	}
}

// InitState initializes the live state of every variable from its class flags.
func (n *Net) InitState() {
	n.Walk(func(_ *Proc, v *Var) { v.InitState() })
}
