package program

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrUnknownProgram is returned by Build for a label no file defines.
	ErrUnknownProgram = errors.New("unknown program")
	// ErrNoFiles is returned by Load when the paths hold no .hcl files.
	ErrNoFiles = errors.New("no program files found")
)

// varSpec is a class variable as declared, before instantiation.
type varSpec struct {
	label    string
	sfx      int
	typ      flow.ValueType
	def      cty.Value
	channels int
	shared   bool
	flags    flow.DescFlags
	options  []string
	ui       cty.Value
}

type classDef struct {
	class *flow.ProcClass
	vars  []*varSpec
}

// Set is everything loaded from a group of program files.
type Set struct {
	classes  map[string]*classDef
	programs map[string]*programBlock
	order    []string
	files    []string
}

// Load parses every .hcl file found in paths. Files may hold any mix of
// class and program blocks; names must be unique across all of them.
func Load(ctx context.Context, paths ...string) (*Set, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Program loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(".hcl", paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, paths)
	}
	logger.Debug("Discovered program files.", "count", len(files))

	s := &Set{
		classes:  make(map[string]*classDef),
		programs: make(map[string]*programBlock),
		files:    files,
	}
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, cb := range root.Classes {
			if _, exists := s.classes[cb.Name]; exists {
				return nil, fmt.Errorf("class '%s' defined twice (again in %s)", cb.Name, file)
			}
			def, err := translateClass(ctx, cb)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", file, err)
			}
			s.classes[cb.Name] = def
		}
		for _, pb := range root.Programs {
			if _, exists := s.programs[pb.Name]; exists {
				return nil, fmt.Errorf("program '%s' defined twice (again in %s)", pb.Name, file)
			}
			s.programs[pb.Name] = pb
			s.order = append(s.order, pb.Name)
		}
	}

	logger.Debug("Program loading complete.", "classes", len(s.classes), "programs", len(s.programs))
	return s, nil
}

// Labels returns the program labels in file order.
func (s *Set) Labels() []string {
	return append([]string(nil), s.order...)
}

// Files returns the files the set was loaded from.
func (s *Set) Files() []string {
	return append([]string(nil), s.files...)
}

// Class returns a loaded class by name.
func (s *Set) Class(name string) (*flow.ProcClass, bool) {
	def, ok := s.classes[name]
	if !ok {
		return nil, false
	}
	return def.class, true
}

func translateClass(ctx context.Context, cb *classBlock) (*classDef, error) {
	def := &classDef{
		class: &flow.ProcClass{
			Name:     cb.Name,
			Label:    cb.Label,
			CreateUI: cb.CreateUI,
		},
	}
	for _, pr := range cb.Presets {
		def.class.Presets = append(def.class.Presets, flow.Preset{Label: pr.Name})
	}

	seen := make(map[string]struct{})
	for _, vb := range cb.Vars {
		vs, err := translateVar(vb)
		if err != nil {
			return nil, fmt.Errorf("class '%s', var '%s': %w", cb.Name, vb.Name, err)
		}
		key := fmt.Sprintf("%s:%d", vs.label, vs.sfx)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("class '%s': var '%s' declared twice", cb.Name, key)
		}
		seen[key] = struct{}{}
		def.vars = append(def.vars, vs)
	}

	ctxlog.FromContext(ctx).Debug("Translated class.", "class", cb.Name, "vars", len(def.vars), "presets", len(def.class.Presets))
	return def, nil
}

func translateVar(vb *varBlock) (*varSpec, error) {
	typ, err := parseValueType(vb.Type)
	if err != nil {
		return nil, err
	}
	if vb.Channels < 0 {
		return nil, fmt.Errorf("channels must not be negative, got %d", vb.Channels)
	}

	vs := &varSpec{
		label:    vb.Name,
		sfx:      vb.Sfx,
		typ:      typ,
		channels: vb.Channels,
		shared:   vb.Shared,
		options:  vb.Options,
	}
	for _, label := range vb.Flags {
		fl, err := flow.ParseDescFlag(label)
		if err != nil {
			return nil, err
		}
		vs.flags |= fl
	}

	if vs.def, err = literal(vb.Default, "default"); err != nil {
		return nil, err
	}
	if !vs.def.IsNull() {
		if _, err := flow.Coerce(typ, vs.def); err != nil {
			return nil, fmt.Errorf("invalid default: %w", err)
		}
	}
	if vs.ui, err = literal(vb.UI, "ui"); err != nil {
		return nil, err
	}
	return vs, nil
}

// parseValueType accepts a bare type keyword (type = double) or a string.
func parseValueType(expr hcl.Expression) (flow.ValueType, error) {
	if trav, ok := expr.(*hclsyntax.ScopeTraversalExpr); ok {
		if len(trav.Traversal) != 1 {
			return flow.TypeInvalid, errors.New("invalid type keyword: traversal path is not a single identifier")
		}
		return flow.ParseValueType(trav.Traversal.RootName())
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return flow.TypeInvalid, fmt.Errorf("invalid type: %w", diags)
	}
	if val.IsNull() || !val.Type().Equals(cty.String) {
		return flow.TypeInvalid, errors.New("type must be a type keyword such as double")
	}
	return flow.ParseValueType(val.AsString())
}

// literal evaluates an optional attribute without variables. An omitted
// attribute evaluates to null.
func literal(expr hcl.Expression, attr string) (cty.Value, error) {
	if expr == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("invalid %s: %w", attr, diags)
	}
	return val, nil
}
