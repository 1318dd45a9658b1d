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
)

// createProcUI builds the panel of one process at procIdx in procList.
func (b *builder) createProcUI(ctx context.Context, procList elemid.ID, net *flow.Net, p *flow.Proc, procIdx int) (err error) {
	logger := ctxlog.FromContext(ctx)
	if !net.CreateUI && !p.Class.CreateUI {
		logger.Debug("Skipping process without UI.", "proc", p.Name(), "class", p.Class.Name)
		b.stats.Skipped++
		return nil
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("process UI creation failed on %s: %w", p.Name(), err)
		}
	}()

	if err := b.tr.CreateFromTemplate(procList, uitransport.TemplateProc, procIdx); err != nil {
		return fmt.Errorf("proc panel create failed: %w", err)
	}
	panel, err := b.tr.FindElement(procList, uitransport.RoleProcPanel, procIdx)
	if err != nil {
		return err
	}
	title, err := b.tr.FindElement(panel, uitransport.RoleProcTitle, elemid.NoIndex)
	if err != nil {
		return err
	}
	chanPanel, err := b.tr.FindElement(panel, uitransport.RoleChanPanel, elemid.NoIndex)
	if err != nil {
		return err
	}
	chanList, err := b.tr.FindElement(chanPanel, uitransport.RoleChanList, elemid.NoIndex)
	if err != nil {
		return err
	}

	text := p.Title()
	if err := b.tr.SendValue(title, cty.StringVal(text)); err != nil {
		return fmt.Errorf("proc title failed: %w", err)
	}

	ps := &procState{proc: p, labels: make(map[string]elemid.ID)}
	if err := b.createVarRows(ctx, ps, chanList); err != nil {
		return err
	}
	b.stats.Procs++
	logger.Debug("Created process panel.", "proc", p.Name(), "vars", len(p.Vars), "nets", len(p.Nets))

	if len(p.Nets) == 0 {
		return nil
	}
	netList, err := b.tr.FindElement(panel, uitransport.RoleNetList, elemid.NoIndex)
	if err != nil {
		return err
	}
	for _, sub := range p.Nets {
		if err := b.createNetUI(ctx, netList, sub, text); err != nil {
			return err
		}
	}
	return nil
}
