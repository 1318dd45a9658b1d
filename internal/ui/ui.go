// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/uitransport"
)

// Options tune which variables get UI.
type Options struct {
	// Triggers gives trigger variables a button.
	Triggers bool
}

// Stats counts what the last Create built.
type Stats struct {
	Nets         int
	Procs        int
	Skipped      int // processes without UI
	Labels       int
	Controls     int
	Placeholders int
}

// Handle owns the generated UI of one program.
type Handle struct {
	tr   uitransport.Transport
	eng  flow.Engine
	opts Options

	root  elemid.ID
	dirty bool // the root may hold elements

	reg   *Registry
	net   *flow.Net
	stats Stats
}

// New creates a handle with no UI.
func New(tr uitransport.Transport, eng flow.Engine, opts Options) *Handle {
	return &Handle{tr: tr, eng: eng, opts: opts}
}

// Create replaces any existing UI with one built for net. A net that fails
// Check leaves the current UI in place. A transport failure during the build
// leaves the handle with no active UI; elements created before the failure
// stay in the root network list until the next Create or Destroy.
func (h *Handle) Create(ctx context.Context, net *flow.Net) error {
	if h == nil {
		return errors.New("UI create failed: nil handle")
	}
	if err := h.Check(net); err != nil {
		return err
	}
	if err := h.Destroy(ctx); err != nil {
		return err
	}

	root, err := h.tr.FindRoot(uitransport.RoleRootNetList)
	if err != nil {
		return fmt.Errorf("UI create failed: root network list: %w", err)
	}
	h.root = root
	h.dirty = true

	b := &builder{tr: h.tr, eng: h.eng, opts: h.opts, reg: NewRegistry()}
	if err := b.createNetUI(ctx, root, net, ""); err != nil {
		return fmt.Errorf("UI create failed: %w", err)
	}

	h.reg = b.reg
	h.net = net
	h.stats = b.stats
	ctxlog.FromContext(ctx).Info("UI created.",
		"nets", b.stats.Nets,
		"procs", b.stats.Procs,
		"controls", b.stats.Controls,
	)
	return nil
}

// Destroy removes the UI. It is a no-op on a nil handle or a handle that
// never built anything, and safe to call repeatedly.
func (h *Handle) Destroy(ctx context.Context) error {
	if h == nil || !h.dirty {
		return nil
	}
	if err := h.tr.Empty(h.root); err != nil {
		return fmt.Errorf("UI destroy failed: %w", err)
	}
	h.dirty = false
	h.reg = nil
	h.net = nil
	h.stats = Stats{}
	ctxlog.FromContext(ctx).Debug("UI destroyed.")
	return nil
}

// Valid reports whether the handle has an active UI.
func (h *Handle) Valid() bool {
	return h != nil && h.reg != nil
}

// Net returns the network of the active UI.
func (h *Handle) Net() *flow.Net {
	if !h.Valid() {
		return nil
	}
	return h.net
}

// Registry returns the bindings of the active UI.
func (h *Handle) Registry() *Registry {
	if !h.Valid() {
		return nil
	}
	return h.reg
}

// Stats returns the counts of the active UI.
func (h *Handle) Stats() Stats {
	if h == nil {
		return Stats{}
	}
	return h.stats
}
