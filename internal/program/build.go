package program

import (
	"context"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/zclconf/go-cty/cty"
)

// Build instantiates a program. Every call returns fresh processes and
// variables.
func (s *Set) Build(ctx context.Context, label string) (*flow.Net, error) {
	pb, ok := s.programs[label]
	if !ok {
		return nil, fmt.Errorf("%w: '%s' (have %v)", ErrUnknownProgram, label, s.order)
	}

	net, err := s.buildNet(ctx, pb.Procs, 0, pb.CreateUI)
	if err != nil {
		return nil, fmt.Errorf("program '%s': %w", label, err)
	}
	if err := net.Validate(); err != nil {
		return nil, fmt.Errorf("program '%s': %w", label, err)
	}

	ctxlog.FromContext(ctx).Debug("Built program.", "program", label, "procs", len(net.Procs))
	return net, nil
}

func (s *Set) buildNet(ctx context.Context, procs []*procBlock, polyIdx int, createUI bool) (*flow.Net, error) {
	net := &flow.Net{PolyIdx: polyIdx, CreateUI: createUI}
	seen := make(map[string]struct{})

	for _, pb := range procs {
		p, err := s.buildProc(ctx, pb)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name()]; dup {
			return nil, fmt.Errorf("process '%s' appears twice in one network", p.Name())
		}
		seen[p.Name()] = struct{}{}
		net.Procs = append(net.Procs, p)
	}
	return net, nil
}

func (s *Set) buildProc(ctx context.Context, pb *procBlock) (*flow.Proc, error) {
	def, ok := s.classes[pb.Class]
	if !ok {
		return nil, fmt.Errorf("process '%s': unknown class '%s'", pb.Name, pb.Class)
	}
	p := &flow.Proc{Label: pb.Name, LabelSfx: pb.Sfx, Class: def.class}

	overrides, err := setValues(pb.Set)
	if err != nil {
		return nil, fmt.Errorf("process '%s': %w", p.Name(), err)
	}
	for _, vs := range def.vars {
		val := vs.def
		if o, ok := overrides[vs.key()]; ok {
			if _, err := flow.Coerce(vs.typ, o); err != nil {
				return nil, fmt.Errorf("process '%s': set %s: %w", p.Name(), vs.key(), err)
			}
			val = o
			delete(overrides, vs.key())
		}
		p.Vars = append(p.Vars, vs.instantiate(val)...)
	}
	for key := range overrides {
		return nil, fmt.Errorf("process '%s': set names unknown var '%s'", p.Name(), key)
	}

	for _, nb := range pb.Networks {
		voices := max(nb.Voices, 1)
		for i := range voices {
			n, err := s.buildNet(ctx, nb.Procs, i, nb.CreateUI)
			if err != nil {
				return nil, fmt.Errorf("in process '%s': %w", p.Name(), err)
			}
			p.Nets = append(p.Nets, n)
		}
	}
	return p, nil
}

// key is how set refers to the var: its label, or label:sfx when the suffix
// is not zero.
func (vs *varSpec) key() string {
	if vs.sfx == 0 {
		return vs.label
	}
	return fmt.Sprintf("%s:%d", vs.label, vs.sfx)
}

// instantiate creates the vars of one process instance.
func (vs *varSpec) instantiate(def cty.Value) []*flow.Var {
	base := &flow.Var{
		Label:    vs.label,
		LabelSfx: vs.sfx,
		Type:     vs.typ,
		ChIdx:    flow.AnyChIdx,
		ChCnt:    vs.channels,
		Desc:     vs.flags,
		UICfg:    vs.ui,
		Options:  slices.Clone(vs.options),
		Default:  def,
	}
	out := []*flow.Var{base}
	if vs.channels == 0 || vs.shared {
		return out
	}
	for ch := range vs.channels {
		v := *base
		v.ChIdx = ch
		v.Options = slices.Clone(vs.options)
		out = append(out, &v)
	}
	return out
}

func setValues(expr hcl.Expression) (map[string]cty.Value, error) {
	val, err := literal(expr, "set")
	if err != nil || val.IsNull() {
		return map[string]cty.Value{}, err
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("set must be an object, got %s", ty.FriendlyName())
	}
	out := make(map[string]cty.Value)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		out[k.AsString()] = v
	}
	return out, nil
}
