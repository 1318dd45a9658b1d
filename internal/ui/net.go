// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"context"
	"fmt"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/zclconf/go-cty/cty"
)

// builder holds the state of one Handle.Create call.
type builder struct {
	tr    uitransport.Transport
	eng   flow.Engine
	opts  Options
	reg   *Registry
	slot  int // next network slot, shared by the whole tree
	stats Stats
}

// createNetUI builds a network panel under parent. The root network is
// built with an empty prefix and gets no title.
func (b *builder) createNetUI(ctx context.Context, parent elemid.ID, net *flow.Net, prefix string) error {
	slot := b.slot
	b.slot++

	if err := b.tr.CreateFromTemplate(parent, uitransport.TemplateNetwork, slot); err != nil {
		return fmt.Errorf("network panel %d create failed: %w", slot, err)
	}
	panel, err := b.tr.FindElement(parent, uitransport.RoleNetPanel, slot)
	if err != nil {
		return err
	}

	if prefix != "" {
		title, err := b.tr.FindElement(panel, uitransport.RoleNetTitle, elemid.NoIndex)
		if err != nil {
			return err
		}
		if err := b.tr.SendValue(title, cty.StringVal(fmt.Sprintf("Network: %s:%d", prefix, net.PolyIdx))); err != nil {
			return fmt.Errorf("network title failed: %w", err)
		}
	}

	procList, err := b.tr.FindElement(panel, uitransport.RoleProcList, elemid.NoIndex)
	if err != nil {
		return err
	}
	for i, p := range net.Procs {
		if err := b.createProcUI(ctx, procList, net, p, i); err != nil {
			return err
		}
	}
	b.stats.Nets++
	return nil
}
