package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowui/internal/app"
	"github.com/specialistvlad/flowui/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want app.Config
	}{
		{
			name: "positional path with defaults",
			args: []string{"programs"},
			want: app.Config{ProgramPath: "programs", LogFormat: "json", LogLevel: "info"},
		},
		{
			name: "long flags",
			args: []string{"--program", "main.hcl", "--label", "drone", "--ui-url", "http://localhost:3000", "--triggers", "--log-format", "TEXT", "--log-level", "debug", "--healthcheck-port", "8080"},
			want: app.Config{
				ProgramPath:     "main.hcl",
				ProgramLabel:    "drone",
				UIURL:           "http://localhost:3000",
				Triggers:        true,
				LogFormat:       "text",
				LogLevel:        "debug",
				HealthcheckPort: 8080,
			},
		},
		{
			name: "shorthand flags win over the positional path",
			args: []string{"-p", "a.hcl", "-l", "tone", "--dump", "b.hcl"},
			want: app.Config{ProgramPath: "a.hcl", ProgramLabel: "tone", Dump: true, LogFormat: "json", LogLevel: "info"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			require.NoError(t, err)
			assert.False(t, shouldExit)
			require.NotNil(t, cfg)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestParse_ConfigFile(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"flowui.toml": `
[program]
path  = "from-file"
label = "tone"

[ui]
url = "http://renderer:3000"

[log]
level = "warn"
`})
	cfgPath := filepath.Join(dir, "flowui.toml")

	// --- Act ---
	cfg, shouldExit, err := Parse([]string{"--config", cfgPath, "--label", "drone", "--watch"}, &bytes.Buffer{})

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, shouldExit)
	assert.Equal(t, app.Config{
		ProgramPath:  "from-file",
		ProgramLabel: "drone",
		UIURL:        "http://renderer:3000",
		LogFormat:    "json",
		LogLevel:     "warn",
		Watch:        true,
	}, *cfg)
}

func TestParse_Exits(t *testing.T) {
	testCases := []struct {
		name     string
		args     []string
		wantCode int
		wantMsg  string
		wantExit bool
	}{
		{name: "help", args: []string{"-h"}, wantExit: true},
		{name: "no program path", args: nil, wantExit: true},
		{name: "unknown flag", args: []string{"--nope"}, wantCode: 2, wantMsg: "flag provided but not defined"},
		{name: "bad log format", args: []string{"--log-format", "xml", "x"}, wantCode: 2, wantMsg: "invalid log-format"},
		{name: "bad log level", args: []string{"--log-level", "loud", "x"}, wantCode: 2, wantMsg: "invalid log-level"},
		{name: "dump with watch", args: []string{"--dump", "--watch", "x"}, wantCode: 2, wantMsg: "cannot be combined"},
		{name: "missing config file", args: []string{"--config", "/does/not/exist.toml", "x"}, wantCode: 2, wantMsg: "failed to open config file"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}

			cfg, shouldExit, err := Parse(tc.args, out)

			assert.Nil(t, cfg)
			if tc.wantExit {
				require.NoError(t, err)
				assert.True(t, shouldExit)
				assert.Contains(t, out.String(), "Usage:")
				return
			}
			require.Error(t, err)
			exitErr, ok := err.(*ExitError)
			require.True(t, ok, "expected an ExitError, got %T", err)
			assert.Equal(t, tc.wantCode, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantMsg)
		})
	}
}
