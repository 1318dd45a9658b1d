package program

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const classesHCL = `
class "osc" {
  label     = "Oscillator"
  create_ui = true

  preset "bright" {}

  var "wave" {
    type    = string
    default = "sine"
    options = ["sine", "saw"]
    ui      = { type = "list" }
  }
  var "gain" {
    type     = float
    channels = 2
  }
  var "pan" {
    type     = double
    channels = 2
    shared   = true
  }
  var "rate" {
    type  = "uint"
    flags = ["init"]
  }
  var "out" {
    type = audio
  }
}

class "voicer" {
  var "voices" {
    type    = uint
    default = 4
  }
}
`

const programsHCL = `
program "tone" {
  proc "osc" "lfo" {
    set = { gain = 0.25, wave = "saw" }
  }
}

program "poly" {
  create_ui = true
  proc "voicer" "poly" {
    network {
      voices = 3
      proc "osc" "voice" {}
    }
  }
}
`

func load(t *testing.T, files map[string]string) *Set {
	t.Helper()
	dir := testutil.WriteFiles(t, files)
	s, err := Load(context.Background(), dir)
	require.NoError(t, err)
	return s
}

func TestLoad_ClassesAndPrograms(t *testing.T) {
	s := load(t, map[string]string{"classes.hcl": classesHCL, "programs/main.hcl": programsHCL})

	assert.ElementsMatch(t, []string{"tone", "poly"}, s.Labels())
	assert.Len(t, s.Files(), 2)

	osc, ok := s.Class("osc")
	require.True(t, ok)
	assert.Equal(t, "Oscillator", osc.DisplayLabel())
	assert.True(t, osc.CreateUI)
	assert.Equal(t, []flow.Preset{{Label: "bright"}}, osc.Presets)
}

func TestBuild_ExpandsChannels(t *testing.T) {
	s := load(t, map[string]string{"classes.hcl": classesHCL, "programs.hcl": programsHCL})

	net, err := s.Build(context.Background(), "tone")
	require.NoError(t, err)
	require.Len(t, net.Procs, 1)

	p := net.Procs[0]
	assert.Equal(t, "Oscillator lfo:0", p.Title())

	var keys []string
	for _, v := range p.Vars {
		keys = append(keys, v.Key())
	}
	assert.Equal(t, []string{
		"wave:0@any",
		"gain:0@any", "gain:0@0", "gain:0@1",
		"pan:0@any",
		"rate:0@any",
		"out:0@any",
	}, keys)

	gain := p.Vars[1]
	assert.Equal(t, 2, gain.ChCnt)
	assert.Equal(t, 2, p.Vars[3].ChCnt)
	assert.True(t, gain.Default.Equals(cty.NumberFloatVal(0.25)).True(), "set overrides the class default")
	assert.True(t, p.Vars[3].Default.Equals(cty.NumberFloatVal(0.25)).True())

	wave := p.Vars[0]
	assert.Equal(t, "saw", wave.Default.AsString())
	assert.Equal(t, []string{"sine", "saw"}, wave.Options)
	assert.Equal(t, "list", wave.UICfg.GetAttr("type").AsString())

	assert.True(t, p.Vars[5].Desc.Has(flow.InitFl))
	assert.Equal(t, flow.TypeUInt, p.Vars[5].Type)
	assert.Equal(t, flow.TypeAudio, p.Vars[6].Type)
	assert.True(t, p.Vars[6].Default.IsNull())
	assert.False(t, p.Vars[6].HasUICfg())
}

func TestBuild_PolyphonicNetworks(t *testing.T) {
	s := load(t, map[string]string{"classes.hcl": classesHCL, "programs.hcl": programsHCL})

	net, err := s.Build(context.Background(), "poly")
	require.NoError(t, err)

	assert.True(t, net.CreateUI)
	poly := net.Procs[0]
	require.Len(t, poly.Nets, 3)
	for i, n := range poly.Nets {
		assert.Equal(t, i, n.PolyIdx)
		require.Len(t, n.Procs, 1)
		assert.Equal(t, "voice:0", n.Procs[0].Name())
	}
	assert.NotSame(t, poly.Nets[0].Procs[0].Vars[0], poly.Nets[1].Procs[0].Vars[0], "voices own their vars")
}

func TestBuild_FreshInstances(t *testing.T) {
	s := load(t, map[string]string{"classes.hcl": classesHCL, "programs.hcl": programsHCL})

	a, err := s.Build(context.Background(), "tone")
	require.NoError(t, err)
	b, err := s.Build(context.Background(), "tone")
	require.NoError(t, err)

	assert.NotSame(t, a.Procs[0].Vars[0], b.Procs[0].Vars[0])
}

func TestBuild_UnknownProgram(t *testing.T) {
	s := load(t, map[string]string{"classes.hcl": classesHCL, "programs.hcl": programsHCL})

	_, err := s.Build(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrUnknownProgram)
}

func TestLoad_NoFiles(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		hcl     string
		wantErr string
	}{
		{
			name:    "syntax",
			hcl:     `class "x" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name: "unknown type",
			hcl: `
class "x" {
  var "v" {
    type = quaternion
  }
}`,
			wantErr: `unknown value type "quaternion"`,
		},
		{
			name: "unknown flag",
			hcl: `
class "x" {
  var "v" {
    type  = bool
    flags = ["sticky"]
  }
}`,
			wantErr: `unknown variable flag "sticky"`,
		},
		{
			name: "bad default",
			hcl: `
class "x" {
  var "v" {
    type    = int
    default = "many"
  }
}`,
			wantErr: "invalid default",
		},
		{
			name: "negative channels",
			hcl: `
class "x" {
  var "v" {
    type     = float
    channels = -1
  }
}`,
			wantErr: "channels must not be negative",
		},
		{
			name: "duplicate var",
			hcl: `
class "x" {
  var "v" {
    type = float
  }
  var "v" {
    type = int
  }
}`,
			wantErr: "declared twice",
		},
		{
			name: "duplicate class",
			hcl: `
class "x" {
  var "v" {
    type = float
  }
}
class "x" {
  var "w" {
    type = float
  }
}`,
			wantErr: "class 'x' defined twice",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{"main.hcl": tc.hcl})

			_, err := Load(context.Background(), dir)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name    string
		program string
		wantErr string
	}{
		{
			name: "unknown class",
			program: `
program "p" {
  proc "nope" "a" {}
}`,
			wantErr: "unknown class 'nope'",
		},
		{
			name: "unknown set target",
			program: `
program "p" {
  proc "voicer" "a" {
    set = { volume = 1 }
  }
}`,
			wantErr: "set names unknown var 'volume'",
		},
		{
			name: "set type mismatch",
			program: `
program "p" {
  proc "voicer" "a" {
    set = { voices = "lots" }
  }
}`,
			wantErr: "set voices",
		},
		{
			name: "duplicate process",
			program: `
program "p" {
  proc "voicer" "a" {}
  proc "voicer" "a" {}
}`,
			wantErr: "appears twice",
		},
		{
			name: "empty process",
			program: `
class "empty" {}

program "p" {
  proc "empty" "a" {}
}`,
			wantErr: "neither variables nor an internal network",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := load(t, map[string]string{"classes.hcl": classesHCL, "p.hcl": tc.program})

			_, err := s.Build(context.Background(), "p")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_BundledPrograms(t *testing.T) {
	s, err := Load(context.Background(), filepath.Join("..", "..", "programs"))
	require.NoError(t, err)

	for _, label := range s.Labels() {
		t.Run(label, func(t *testing.T) {
			net, err := s.Build(context.Background(), label)
			require.NoError(t, err)
			require.NoError(t, net.Validate())
		})
	}
	assert.ElementsMatch(t, []string{"mono", "poly"}, s.Labels())
}
