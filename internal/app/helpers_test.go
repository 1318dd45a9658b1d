package app

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowui/internal/testutil"
)

const oscHCL = `
class "osc" {
  label     = "Oscillator"
  create_ui = true

  var "gain" {
    type    = float
    default = 0.5
  }
  var "wave" {
    type    = string
    default = "sine"
    options = ["sine", "saw", "square"]
    ui      = { type = "list" }
  }
}

program "tone" {
  proc "osc" "lfo" {}
}

program "drone" {
  proc "osc" "low" {}
  proc "osc" "high" {}
}
`

// newTestApp writes the program files and builds an App over them with
// logging captured in the returned buffer.
func newTestApp(t *testing.T, files map[string]string, mutate func(*Config)) (*App, *testutil.SafeBuffer) {
	t.Helper()
	if files == nil {
		files = map[string]string{"main.hcl": oscHCL}
	}
	dir := testutil.WriteFiles(t, files)

	cfg := Config{
		ProgramPath: filepath.Join(dir, "main.hcl"),
		LogFormat:   "text",
		LogLevel:    "debug",
	}
	if mutate != nil {
		mutate(&cfg)
	}

	logs := &testutil.SafeBuffer{}
	t.Cleanup(func() { testutil.DumpLogs(t, logs) })
	return NewApp(logs, &cfg), logs
}
