package program

import "github.com/hashicorp/hcl/v2"

// fileRoot decodes all top-level blocks of any file.
type fileRoot struct {
	Classes  []*classBlock   `hcl:"class,block"`
	Programs []*programBlock `hcl:"program,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

type classBlock struct {
	Name     string         `hcl:"name,label"`
	Label    string         `hcl:"label,optional"`
	CreateUI bool           `hcl:"create_ui,optional"`
	Presets  []*presetBlock `hcl:"preset,block"`
	Vars     []*varBlock    `hcl:"var,block"`
}

type presetBlock struct {
	Name   string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`
}

type varBlock struct {
	Name     string         `hcl:"name,label"`
	Type     hcl.Expression `hcl:"type"`
	Sfx      int            `hcl:"sfx,optional"`
	Default  hcl.Expression `hcl:"default,optional"`
	Channels int            `hcl:"channels,optional"`
	Shared   bool           `hcl:"shared,optional"`
	Flags    []string       `hcl:"flags,optional"`
	Options  []string       `hcl:"options,optional"`
	UI       hcl.Expression `hcl:"ui,optional"`
}

type programBlock struct {
	Name     string       `hcl:"name,label"`
	CreateUI bool         `hcl:"create_ui,optional"`
	Procs    []*procBlock `hcl:"proc,block"`
}

type procBlock struct {
	Class    string          `hcl:"class,label"`
	Name     string          `hcl:"name,label"`
	Sfx      int             `hcl:"sfx,optional"`
	Set      hcl.Expression  `hcl:"set,optional"`
	Networks []*networkBlock `hcl:"network,block"`
}

type networkBlock struct {
	Voices   int          `hcl:"voices,optional"`
	CreateUI bool         `hcl:"create_ui,optional"`
	Procs    []*procBlock `hcl:"proc,block"`
}
