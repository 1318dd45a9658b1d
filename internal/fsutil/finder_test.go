package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "classes")
	require.NoError(t, os.Mkdir(nested, 0755))

	main := filepath.Join(dir, "main.hcl")
	class := filepath.Join(nested, "osc.hcl")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{main, class, other} {
		require.NoError(t, os.WriteFile(p, []byte("# fixture"), 0644))
	}

	files, err := CollectFiles(".hcl", dir, main, filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{main, class}, files)
}

func TestFindFilesByExtension_PanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir(), "") })
}
