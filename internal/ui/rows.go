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

// procState is the per-process build state.
type procState struct {
	proc   *flow.Proc
	labels map[string]elemid.ID // Var.Name() -> row label widget
}

// eligible reports whether v gets any UI at all.
func (b *builder) eligible(v *flow.Var) bool {
	if v.Desc.Has(flow.NoUIFl) {
		return false
	}
	if v.Type == flow.TypeTrigger {
		return b.opts.Triggers
	}
	return v.Type.UIEligible()
}

// channelCount is the number of channel columns of a process.
func (b *builder) channelCount(p *flow.Proc) int {
	n := 1
	for _, v := range p.Vars {
		if b.eligible(v) && v.ChCnt != flow.NoChCnt && v.ChCnt > n {
			n = v.ChCnt
		}
	}
	return n
}

// hasChannelSiblings reports whether the per-channel instances of an
// any-channel var exist as separate vars.
func (b *builder) hasChannelSiblings(p *flow.Proc, v *flow.Var) bool {
	for _, o := range p.Vars {
		if o != v && !o.IsAnyChannel() && o.Label == v.Label && o.LabelSfx == v.LabelSfx && b.eligible(o) {
			return true
		}
	}
	return false
}

// rowLabel is the label text, suffixed when the label is shared by vars
// with different suffixes. Vars without UI do not count.
func (b *builder) rowLabel(p *flow.Proc, v *flow.Var) string {
	for _, o := range p.Vars {
		if o.Label == v.Label && o.LabelSfx != v.LabelSfx && b.eligible(o) {
			return v.Name()
		}
	}
	return v.Label
}

// columnAction decides what v puts in channel column ch.
type columnAction int

const (
	actNone columnAction = iota
	actControl
	actPlaceholder
)

func (b *builder) columnAction(p *flow.Proc, v *flow.Var, ch int) columnAction {
	if !v.IsAnyChannel() {
		if v.ChIdx == ch {
			return actControl
		}
		return actPlaceholder
	}
	if v.ChCnt == 0 || v.ChCnt == flow.NoChCnt {
		if ch == 0 {
			return actControl
		}
		return actPlaceholder
	}
	if b.hasChannelSiblings(p, v) {
		return actNone
	}
	if ch < v.ChCnt {
		return actControl
	}
	return actPlaceholder
}

// createVarRows lays out the label column and every channel column.
func (b *builder) createVarRows(ctx context.Context, ps *procState, chanList elemid.ID) error {
	p := ps.proc
	chN := b.channelCount(p)

	for col := 0; col <= chN; col++ {
		if err := b.tr.CreateFromTemplate(chanList, uitransport.TemplateChan, col); err != nil {
			return fmt.Errorf("channel column %d create failed: %w", col, err)
		}
		varList, err := b.tr.FindElement(chanList, uitransport.RoleVarList, col)
		if err != nil {
			return fmt.Errorf("channel column %d not found: %w", col, err)
		}

		for j, v := range p.Vars {
			if !b.eligible(v) {
				continue
			}
			if col == 0 {
				if v.IsAnyChannel() {
					if err := b.createVarLabel(ctx, ps, varList, v, j); err != nil {
						return err
					}
				}
				continue
			}

			switch b.columnAction(p, v, col-1) {
			case actControl:
				err = b.createVarUI(ctx, ps, varList, v, j)
			case actPlaceholder:
				err = b.createPlaceholder(varList, v, j)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) createVarPanel(varList elemid.ID, v *flow.Var, j int) (panel, widgetList elemid.ID, err error) {
	if err = b.tr.CreateFromTemplate(varList, uitransport.TemplateVar, j); err != nil {
		return elemid.Invalid, elemid.Invalid, fmt.Errorf("var panel create failed on '%s': %w", v.Name(), err)
	}
	if panel, err = b.tr.FindElement(varList, uitransport.RoleVarPanel, j); err != nil {
		return elemid.Invalid, elemid.Invalid, fmt.Errorf("var panel not found on '%s': %w", v.Name(), err)
	}
	if widgetList, err = b.tr.FindElement(panel, uitransport.RoleWidgetList, elemid.NoIndex); err != nil {
		return elemid.Invalid, elemid.Invalid, fmt.Errorf("widget list not found on '%s': %w", v.Name(), err)
	}
	return panel, widgetList, nil
}

func (b *builder) createPlaceholder(varList elemid.ID, v *flow.Var, j int) error {
	if err := b.tr.CreateFromTemplate(varList, uitransport.TemplateVar, j); err != nil {
		return fmt.Errorf("placeholder create failed on '%s': %w", v.Name(), err)
	}
	b.stats.Placeholders++
	return nil
}

func (b *builder) createVarLabel(ctx context.Context, ps *procState, varList elemid.ID, v *flow.Var, j int) error {
	panel, widgetList, err := b.createVarPanel(varList, v, j)
	if err != nil {
		return err
	}
	text := b.rowLabel(ps.proc, v)
	id, err := b.create(widgetList, v, uitransport.WidgetDesc{Kind: uitransport.KindLabel, Title: text})
	if err != nil {
		return err
	}
	if err := b.tr.SendValue(id, cty.StringVal(text)); err != nil {
		return fmt.Errorf("label value failed on '%s': %w", v.Name(), err)
	}
	ps.labels[v.Name()] = id
	b.stats.Labels++

	if v.State.Disabled {
		if err := b.tr.SetEnabled(id, false); err != nil {
			return fmt.Errorf("label disable failed on '%s': %w", v.Name(), err)
		}
	}
	if v.State.Hidden {
		if err := b.tr.SetVisible(panel, false); err != nil {
			return fmt.Errorf("label hide failed on '%s': %w", v.Name(), err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Created row label.", "proc", ps.proc.Name(), "var", v.Name(), "widget_id", id)
	return nil
}

// controlKind resolves the control of v and checks the config it needs.
func controlKind(v *flow.Var) (uitransport.Kind, error) {
	kind, err := Resolve(v)
	if err != nil {
		return uitransport.KindInvalid, err
	}
	if kind == uitransport.KindList && len(v.Options) == 0 {
		return uitransport.KindInvalid, fmt.Errorf("%w: list on '%s' has no options", ErrInvalidConfig, v.Name())
	}
	return kind, nil
}

// createVarUI creates, binds and initializes the control of v in one column.
func (b *builder) createVarUI(ctx context.Context, ps *procState, varList elemid.ID, v *flow.Var, j int) error {
	kind, err := controlKind(v)
	if err != nil {
		return err
	}

	panel, widgetList, err := b.createVarPanel(varList, v, j)
	if err != nil {
		return err
	}
	id, err := b.createLeaf(widgetList, v, kind, "")
	if err != nil {
		return err
	}

	bnd := Binding{
		Var:         v,
		Proc:        ps.proc,
		Kind:        kind,
		ContainerID: panel,
		LabelID:     ps.labels[v.Name()],
		WidgetID:    id,
	}
	if err := b.reg.Add(bnd); err != nil {
		return err
	}
	if err := b.eng.SetUserArg(v, bnd.UserArg()); err != nil {
		return fmt.Errorf("user arg failed on '%s': %w", v.Name(), err)
	}
	b.stats.Controls++

	if v.State.Disabled {
		if err := b.tr.SetEnabled(id, false); err != nil {
			return fmt.Errorf("disable failed on '%s': %w", v.Name(), err)
		}
	}
	if v.State.Hidden {
		if err := b.tr.SetVisible(panel, false); err != nil {
			return fmt.Errorf("hide failed on '%s': %w", v.Name(), err)
		}
	}
	ctxlog.FromContext(ctx).Debug("Created control.", "proc", ps.proc.Name(), "var", v.Key(), "kind", kind, "widget_id", id)
	return nil
}
