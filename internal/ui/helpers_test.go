package ui

import (
	"context"
	"sort"
	"testing"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/engine"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/inmemoryui"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type varOpt func(*flow.Var)

func newVar(label string, t flow.ValueType, opts ...varOpt) *flow.Var {
	v := &flow.Var{
		Label:   label,
		Type:    t,
		ChIdx:   flow.AnyChIdx,
		ChCnt:   0,
		UICfg:   cty.NilVal,
		Default: cty.NilVal,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

func withSfx(sfx int) varOpt { return func(v *flow.Var) { v.LabelSfx = sfx } }
func withFlags(f flow.DescFlags) varOpt { return func(v *flow.Var) { v.Desc |= f } }
func withCh(idx, cnt int) varOpt { return func(v *flow.Var) { v.ChIdx, v.ChCnt = idx, cnt } }
func withDefault(d cty.Value) varOpt { return func(v *flow.Var) { v.Default = d } }

func withUI(kind string, options ...string) varOpt {
	return func(v *flow.Var) {
		v.UICfg = cty.ObjectVal(map[string]cty.Value{"type": cty.StringVal(kind)})
		v.Options = options
	}
}

func newProc(label string, vars ...*flow.Var) *flow.Proc {
	return &flow.Proc{
		Label: label,
		Class: &flow.ProcClass{Name: label, Label: label, CreateUI: true},
		Vars:  vars,
	}
}

func newNet(procs ...*flow.Proc) *flow.Net {
	return &flow.Net{Procs: procs}
}

// countingEngine records the calls the bridge makes.
type countingEngine struct {
	*engine.Engine
	sets, gets int
}

func (c *countingEngine) SetValue(v *flow.Var, val cty.Value) error {
	c.sets++
	return c.Engine.SetValue(v, val)
}

func (c *countingEngine) GetValue(v *flow.Var) (cty.Value, error) {
	c.gets++
	return c.Engine.GetValue(v)
}

type fixture struct {
	store *inmemoryui.Store
	eng   *countingEngine
	h     *Handle
}

func setup(t *testing.T, net *flow.Net, opts Options) *fixture {
	t.Helper()
	f := newFixture(t, net, opts)
	require.NoError(t, f.h.Create(context.Background(), net))
	return f
}

func newFixture(t *testing.T, net *flow.Net, opts Options) *fixture {
	t.Helper()
	eng := engine.New()
	require.NoError(t, eng.Load(net))
	f := &fixture{store: inmemoryui.New(), eng: &countingEngine{Engine: eng}}
	f.h = New(f.store, f.eng, opts)
	eng.SetSink(f.h)
	return f
}

// cell describes one grid position: "placeholder", "label:<text>" or the
// control kind.
type cell string

// grid returns the cells of a process panel keyed by column then row.
func (f *fixture) grid(t *testing.T, netSlot, procIdx int) map[int]map[int]cell {
	t.Helper()
	s := f.store
	netPanel, err := s.FindElement(s.Root(), uitransport.RoleNetPanel, netSlot)
	require.NoError(t, err)
	procList, err := s.FindElement(netPanel, uitransport.RoleProcList, elemid.NoIndex)
	require.NoError(t, err)
	panel, err := s.FindElement(procList, uitransport.RoleProcPanel, procIdx)
	require.NoError(t, err)
	chanList, err := s.FindElement(panel, uitransport.RoleChanList, elemid.NoIndex)
	require.NoError(t, err)

	out := make(map[int]map[int]cell)
	list, _ := s.Element(chanList)
	for _, colID := range list.Children {
		col, _ := s.Element(colID)
		rows := make(map[int]cell)
		for _, rowID := range col.Children {
			row, _ := s.Element(rowID)
			wl, err := s.FindElement(rowID, uitransport.RoleWidgetList, elemid.NoIndex)
			require.NoError(t, err)
			w, _ := s.Element(wl)
			switch {
			case len(w.Children) == 0:
				rows[row.Index] = "placeholder"
			default:
				el, _ := s.Element(w.Children[0])
				if el.Widget.Kind == uitransport.KindLabel {
					rows[row.Index] = cell("label:" + el.Widget.Title)
				} else {
					rows[row.Index] = cell(el.Widget.Kind.String())
				}
			}
		}
		out[col.Index] = rows
	}
	return out
}

// widgetsOf returns the bound widget IDs of v ordered by ID.
func (f *fixture) widgetsOf(v *flow.Var) []elemid.ID {
	var ids []elemid.ID
	for _, b := range f.h.Registry().ByVar(v) {
		ids = append(ids, b.WidgetID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (f *fixture) widget(t *testing.T, v *flow.Var) inmemoryui.Element {
	t.Helper()
	ids := f.widgetsOf(v)
	require.Len(t, ids, 1)
	el, ok := f.store.Element(ids[0])
	require.True(t, ok)
	return el
}
