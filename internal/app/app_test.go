package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/inmemoryui"
	"github.com/specialistvlad/flowui/internal/program"
	"github.com/specialistvlad/flowui/internal/testutil"
	"github.com/specialistvlad/flowui/internal/ui"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func binding(t *testing.T, a *App, label string) ui.Binding {
	t.Helper()
	for _, b := range a.Handle().Registry().All() {
		if b.Var.Label == label {
			return b
		}
	}
	t.Fatalf("no binding for %s", label)
	return ui.Binding{}
}

func TestNewApp_SelectsFirstProgram(t *testing.T) {
	a, _ := newTestApp(t, nil, nil)
	assert.Equal(t, "tone", a.Label())
	assert.False(t, a.Handle().Valid(), "no UI before a program is loaded")
}

func TestNewApp_PanicsOnBrokenProgram(t *testing.T) {
	// --- Arrange ---
	files := map[string]string{"main.hcl": "class \"osc\" {\n"}

	// --- Act ---
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		newTestApp(t, files, nil)
	}()

	// --- Assert ---
	require.NotNil(t, recovered, "NewApp should panic on unparsable program files")
	err, ok := recovered.(error)
	require.True(t, ok)
	assert.Contains(t, err.Error(), "failed to load programs")
}

func TestLoadProgram(t *testing.T) {
	// --- Arrange ---
	a, _ := newTestApp(t, nil, nil)
	ctx := context.Background()

	// --- Act ---
	err := a.LoadProgram(ctx, "drone")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "drone", a.Label())
	assert.True(t, a.Handle().Valid())
	assert.Equal(t, 2, a.Handle().Stats().Procs)

	gain := binding(t, a, "gain")
	el, ok := a.Store().Element(gain.WidgetID)
	require.True(t, ok)
	assert.True(t, el.Value.Equals(cty.NumberFloatVal(0.5)).True(), "initial values are shown")
}

func TestLoadProgram_UnknownKeepsCurrent(t *testing.T) {
	a, _ := newTestApp(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, a.LoadProgram(ctx, "tone"))

	err := a.LoadProgram(ctx, "missing")

	require.ErrorIs(t, err, program.ErrUnknownProgram)
	assert.Equal(t, "tone", a.Label())
	assert.True(t, a.Handle().Valid())
}

// flakyTransport fails the next CreateWidget call when armed.
type flakyTransport struct {
	*inmemoryui.Store
	armed bool
}

var errTransport = errors.New("renderer went away")

func (f *flakyTransport) CreateWidget(parent elemid.ID, d uitransport.WidgetDesc) (elemid.ID, error) {
	if f.armed {
		f.armed = false
		return elemid.Invalid, errTransport
	}
	return f.Store.CreateWidget(parent, d)
}

func TestLoadProgram_RestoresPreviousOnBuildFailure(t *testing.T) {
	// --- Arrange ---
	a, logs := newTestApp(t, nil, nil)
	ft := &flakyTransport{Store: a.Store()}
	a.setTransport(ft)
	ctx := context.Background()
	require.NoError(t, a.LoadProgram(ctx, "tone"))

	// --- Act ---
	ft.armed = true
	err := a.LoadProgram(ctx, "drone")

	// --- Assert ---
	require.ErrorIs(t, err, errTransport)
	assert.Equal(t, "tone", a.Label())
	require.True(t, a.Handle().Valid(), "the previous program is rebuilt")
	assert.True(t, a.uiActive.Load())
	assert.Equal(t, 1, a.Handle().Stats().Procs)
	assert.Equal(t, "lfo", a.Handle().Net().Procs[0].Label)

	gain := binding(t, a, "gain")
	_, err = a.Engine().GetValue(gain.Var)
	require.NoError(t, err, "the engine runs the restored network")
	assert.Contains(t, logs.String(), "Previous program restored.")
}

func TestHealth_ConcurrentWithLoadProgram(t *testing.T) {
	// --- Arrange ---
	a, _ := newTestApp(t, nil, nil)
	ctx := context.Background()
	handler := a.routes()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		}
	}()

	// --- Act ---
	for i := 0; i < 20; i++ {
		label := "tone"
		if i%2 == 1 {
			label = "drone"
		}
		require.NoError(t, a.LoadProgram(ctx, label))
	}
	close(stop)
	wg.Wait()

	// --- Assert ---
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDispatch(t *testing.T) {
	a, _ := newTestApp(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, a.LoadProgram(ctx, "tone"))
	gain := binding(t, a, "gain")
	wave := binding(t, a, "wave")

	t.Run("value writes the engine", func(t *testing.T) {
		quit, err := a.dispatch(ctx, uitransport.Event{Op: uitransport.OpValue, ID: gain.WidgetID, Value: cty.NumberFloatVal(0.75)})
		require.NoError(t, err)
		assert.False(t, quit)

		got, err := a.Engine().GetValue(gain.Var)
		require.NoError(t, err)
		assert.True(t, got.Equals(cty.NumberFloatVal(0.75)).True())
	})

	t.Run("list index selects an option", func(t *testing.T) {
		_, err := a.dispatch(ctx, uitransport.Event{Op: uitransport.OpValue, ID: wave.WidgetID, Value: cty.NumberIntVal(2)})
		require.NoError(t, err)

		got, err := a.Engine().GetValue(wave.Var)
		require.NoError(t, err)
		assert.Equal(t, "square", got.AsString())
	})

	t.Run("echo resends the engine value", func(t *testing.T) {
		_, err := a.dispatch(ctx, uitransport.Event{Op: uitransport.OpEcho, ID: gain.WidgetID})
		require.NoError(t, err)

		el, ok := a.Store().Element(gain.WidgetID)
		require.True(t, ok)
		assert.True(t, el.Value.Equals(cty.NumberFloatVal(0.75)).True())
	})

	t.Run("unknown element", func(t *testing.T) {
		_, err := a.dispatch(ctx, uitransport.Event{Op: uitransport.OpValue, ID: 999999, Value: cty.True})
		require.ErrorIs(t, err, ui.ErrNotBound)
	})

	t.Run("connect and disconnect are informational", func(t *testing.T) {
		for _, op := range []uitransport.Op{uitransport.OpConnect, uitransport.OpDisconnect} {
			quit, err := a.dispatch(ctx, uitransport.Event{Op: op})
			require.NoError(t, err)
			assert.False(t, quit)
		}
	})

	t.Run("invalid op", func(t *testing.T) {
		_, err := a.dispatch(ctx, uitransport.Event{Op: uitransport.OpInvalid})
		require.Error(t, err)
	})

	t.Run("quit", func(t *testing.T) {
		quit, err := a.dispatch(ctx, uitransport.Event{Op: uitransport.OpQuit})
		require.NoError(t, err)
		assert.True(t, quit)
	})
}

func TestRun_Dump(t *testing.T) {
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{"main.hcl": oscHCL})
	out := &bytes.Buffer{}
	a := NewApp(out, &Config{ProgramPath: dir, ProgramLabel: "drone", LogLevel: "error", Dump: true})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	dump := out.String()
	assert.Contains(t, dump, "rootNetList")
	assert.Contains(t, dump, `procTitle = "Oscillator low:0"`)
	assert.Contains(t, dump, `procTitle = "Oscillator high:0"`)
	assert.Contains(t, dump, `"gain"`)
	assert.False(t, a.Handle().Valid(), "the UI is torn down when Run returns")
}

func TestRun_ServesEventsUntilQuit(t *testing.T) {
	// --- Arrange ---
	a, logs := newTestApp(t, nil, nil)
	require.NoError(t, a.Store().Post(uitransport.Event{Op: uitransport.OpSelect, Program: "drone"}))
	require.NoError(t, a.Store().Post(uitransport.Event{Op: uitransport.OpSelect, Program: "missing"}))
	require.NoError(t, a.Store().Post(uitransport.Event{Op: uitransport.OpQuit}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// --- Act ---
	err := a.Run(ctx)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "drone", a.Label(), "a failed select keeps the previous program")
	assert.Contains(t, logs.String(), "Quit requested by the UI.")
	assert.Contains(t, logs.String(), "UI event failed.")
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, _ := newTestApp(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestRun_BadUIURL(t *testing.T) {
	a, _ := newTestApp(t, nil, func(c *Config) { c.UIURL = "not a url" })

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to UI renderer")
}

func TestReload(t *testing.T) {
	// --- Arrange ---
	a, _ := newTestApp(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, a.LoadProgram(ctx, "tone"))
	controls := a.Handle().Stats().Controls

	// --- Act: add a variable to the class ---
	extended := oscHCL + `
class "mixer" {
  create_ui = true
  var "level" {
    type = double
  }
}

program "mix" {
  proc "mixer" "main" {}
}
`
	require.NoError(t, os.WriteFile(a.config.ProgramPath, []byte(extended), 0644))
	require.NoError(t, a.reload(ctx))

	// --- Assert ---
	assert.Equal(t, controls, a.Handle().Stats().Controls)
	assert.Contains(t, a.programs.Labels(), "mix")

	// --- Act: the current program gets an invalid widget ---
	gain := binding(t, a, "gain")
	require.NoError(t, os.WriteFile(a.config.ProgramPath, []byte(strings.Replace(oscHCL,
		"default = 0.5", "default = 0.5\n    ui      = { type = \"dial\" }", 1)), 0644))
	err := a.reload(ctx)

	// --- Assert: nothing was torn down ---
	require.ErrorIs(t, err, ui.ErrInvalidConfig)
	assert.Contains(t, err.Error(), `unknown widget type "dial"`)
	assert.Equal(t, "tone", a.Label())
	assert.True(t, a.Handle().Valid())
	assert.True(t, a.uiActive.Load())
	require.NoError(t, a.Handle().OnValue(ctx, gain.WidgetID, cty.NumberFloatVal(0.25)), "the old widgets stay bound")
	got, err := a.Engine().GetValue(gain.Var)
	require.NoError(t, err)
	assert.True(t, got.Equals(cty.NumberFloatVal(0.25)).True())
	assert.Contains(t, a.programs.Labels(), "mix", "the previous set stays active")

	// --- Act: the current program disappears ---
	require.NoError(t, os.WriteFile(a.config.ProgramPath, []byte(`
class "mixer" {
  var "level" {
    type = double
  }
}

program "mix" {
  proc "mixer" "main" {}
}
`), 0644))
	err = a.reload(ctx)

	// --- Assert ---
	require.ErrorIs(t, err, program.ErrUnknownProgram)
	assert.Equal(t, "tone", a.Label())
	assert.Contains(t, a.programs.Labels(), "tone", "the previous set stays active")
}

func TestHTTPHandlers(t *testing.T) {
	a, _ := newTestApp(t, nil, nil)
	srv := httptest.NewServer(a.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "unhealthy without a UI")

	require.NoError(t, a.LoadProgram(context.Background(), "tone"))

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rec := httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `procTitle = "Oscillator lfo:0"`)

	rec = httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree?at=netPanel[0].procList.procPanel[0].procTitle", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "procTitle = \"Oscillator lfo:0\"\n", rec.Body.String())

	rec = httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree?at=netPanel[9]", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	a.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tree?at=..", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
