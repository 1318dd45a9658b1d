// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package ui

import (
	"fmt"
	"math"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/uitransport"
)

type numberRange struct {
	min, max, step float64
	decPl          int
}

var numberRanges = map[uitransport.Kind]numberRange{
	uitransport.KindInt:    {min: math.MinInt32, max: math.MaxInt32, step: 1, decPl: 1},
	uitransport.KindUInt:   {min: 0, max: math.MaxUint32, step: 1, decPl: 1},
	uitransport.KindFloat:  {min: -math.MaxFloat32, max: math.MaxFloat32, step: 0.1, decPl: 2},
	uitransport.KindDouble: {min: -math.MaxFloat64, max: math.MaxFloat64, step: 0.1, decPl: 2},
}

var meterRange = numberRange{min: -100, max: 0}

// createLeaf creates the widget of the given kind for v.
func (b *builder) createLeaf(parent elemid.ID, v *flow.Var, kind uitransport.Kind, title string) (elemid.ID, error) {
	switch kind {
	case uitransport.KindCheck:
		return b.createCheck(parent, v, title)
	case uitransport.KindButton:
		return b.createButton(parent, v)
	case uitransport.KindInt, uitransport.KindUInt, uitransport.KindFloat, uitransport.KindDouble:
		return b.createNumber(parent, v, kind, title)
	case uitransport.KindString:
		return b.createString(parent, v, title)
	case uitransport.KindMeter:
		return b.createMeter(parent, v, title)
	case uitransport.KindList:
		return b.createList(parent, v, title)
	}
	return elemid.Invalid, fmt.Errorf("%w: no factory for '%s' on '%s'", ErrUnsupportedType, kind, v.Name())
}

func (b *builder) create(parent elemid.ID, v *flow.Var, d uitransport.WidgetDesc) (elemid.ID, error) {
	id, err := b.tr.CreateWidget(parent, d)
	if err != nil {
		return elemid.Invalid, fmt.Errorf("%s widget create failed on '%s': %w", d.Kind, v.Name(), err)
	}
	return id, nil
}

func (b *builder) createCheck(parent elemid.ID, v *flow.Var, title string) (elemid.ID, error) {
	return b.create(parent, v, uitransport.WidgetDesc{Kind: uitransport.KindCheck, Title: title})
}

// Buttons are always titled with the variable label.
func (b *builder) createButton(parent elemid.ID, v *flow.Var) (elemid.ID, error) {
	return b.create(parent, v, uitransport.WidgetDesc{Kind: uitransport.KindButton, Title: v.Label})
}

func (b *builder) createNumber(parent elemid.ID, v *flow.Var, kind uitransport.Kind, title string) (elemid.ID, error) {
	r, ok := numberRanges[kind]
	if !ok {
		return elemid.Invalid, fmt.Errorf("%w: '%s' is not numeric on '%s'", ErrUnsupportedType, kind, v.Name())
	}
	return b.create(parent, v, uitransport.WidgetDesc{
		Kind:  kind,
		Title: title,
		Min:   r.min,
		Max:   r.max,
		Step:  r.step,
		DecPl: r.decPl,
	})
}

func (b *builder) createString(parent elemid.ID, v *flow.Var, title string) (elemid.ID, error) {
	return b.create(parent, v, uitransport.WidgetDesc{Kind: uitransport.KindString, Title: title})
}

func (b *builder) createMeter(parent elemid.ID, v *flow.Var, title string) (elemid.ID, error) {
	return b.create(parent, v, uitransport.WidgetDesc{
		Kind:  uitransport.KindMeter,
		Title: title,
		Min:   meterRange.min,
		Max:   meterRange.max,
	})
}

// createList creates the list and one item per option. If an item fails the
// list ID is still returned along with the error; items created so far stay.
func (b *builder) createList(parent elemid.ID, v *flow.Var, title string) (elemid.ID, error) {
	if len(v.Options) == 0 {
		return elemid.Invalid, fmt.Errorf("%w: list on '%s' has no options", ErrInvalidConfig, v.Name())
	}
	id, err := b.create(parent, v, uitransport.WidgetDesc{Kind: uitransport.KindList, Title: title})
	if err != nil {
		return elemid.Invalid, err
	}
	for i, opt := range v.Options {
		if _, err := b.tr.CreateListItem(id, opt, i); err != nil {
			return id, fmt.Errorf("list item %d (%q) create failed on '%s': %w", i, opt, v.Name(), err)
		}
	}
	return id, nil
}
