package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/engine"
	"github.com/specialistvlad/flowui/internal/flow"
	"github.com/specialistvlad/flowui/internal/inmemoryui"
	"github.com/specialistvlad/flowui/internal/program"
	"github.com/specialistvlad/flowui/internal/ui"
	"github.com/specialistvlad/flowui/internal/uitransport"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	ctx    context.Context
	config *Config

	programs  *program.Set
	engine    *engine.Engine
	store     *inmemoryui.Store
	transport uitransport.Transport
	handle    *ui.Handle
	label     string // program currently shown

	// uiActive mirrors handle.Valid for readers outside the event loop.
	uiActive atomic.Bool

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Program files are
// loaded here; a failure to load them is a fatal startup error and panics.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	set, err := program.Load(ctx, cfg.ProgramPath)
	if err != nil {
		panic(fmt.Errorf("failed to load programs: %w", err))
	}

	label := cfg.ProgramLabel
	if label == "" {
		labels := set.Labels()
		if len(labels) == 0 {
			panic(fmt.Errorf("no program defined in %s", cfg.ProgramPath))
		}
		label = labels[0]
	}
	logger.Debug("Programs loaded.", "programs", set.Labels(), "selected", label)

	store := inmemoryui.New()
	eng := engine.New()
	a := &App{
		outW:      outW,
		logger:    logger,
		ctx:       ctx,
		config:    cfg,
		programs:  set,
		engine:    eng,
		store:     store,
		transport: store,
		label:     label,
	}
	a.setTransport(store)
	return a
}

// setTransport routes the UI through tr and rewires engine state pushes.
func (a *App) setTransport(tr uitransport.Transport) {
	a.transport = tr
	a.handle = ui.New(tr, a.engine, ui.Options{Triggers: a.config.Triggers})
	a.engine.SetSink(a.handle)
}

// LoadProgram builds a program, loads it into the engine and replaces the UI.
// Configuration errors are caught before anything is touched. When a later
// step fails, the previous program is loaded again.
func (a *App) LoadProgram(ctx context.Context, label string) (err error) {
	logger := ctxlog.FromContext(ctx)
	defer func() { a.uiActive.Store(a.handle.Valid()) }()

	net, err := a.programs.Build(ctx, label)
	if err != nil {
		return fmt.Errorf("failed to load program: %w", err)
	}
	if err := a.handle.Check(net); err != nil {
		return fmt.Errorf("failed to load program '%s': %w", label, err)
	}

	prev := a.handle.Net()
	defer func() {
		if err != nil && prev != nil {
			a.restore(ctx, prev)
		}
	}()

	if err := a.engine.Load(net); err != nil {
		return fmt.Errorf("failed to load program '%s' into the engine: %w", label, err)
	}
	if err := a.handle.Create(ctx, net); err != nil {
		return fmt.Errorf("failed to create UI for program '%s': %w", label, err)
	}
	if err := a.handle.EchoAll(ctx); err != nil {
		return fmt.Errorf("failed to show values of program '%s': %w", label, err)
	}

	a.label = label
	st := a.handle.Stats()
	logger.Info("Program loaded.", "program", label, "procs", st.Procs, "controls", st.Controls)
	return nil
}

// restore brings back the network that was shown before a failed load.
// Values start again from their defaults.
func (a *App) restore(ctx context.Context, net *flow.Net) {
	logger := ctxlog.FromContext(ctx)
	if err := a.engine.Load(net); err != nil {
		logger.Error("Failed to restore the previous program.", "program", a.label, "error", err)
		return
	}
	if err := a.handle.Create(ctx, net); err != nil {
		logger.Error("Failed to restore the previous program.", "program", a.label, "error", err)
		return
	}
	if err := a.handle.EchoAll(ctx); err != nil {
		logger.Warn("Restored program values not shown.", "program", a.label, "error", err)
	}
	logger.Warn("Previous program restored.", "program", a.label)
}

// Label returns the program currently shown.
func (a *App) Label() string { return a.label }

// Handle returns the UI handle. This is primarily for testing.
func (a *App) Handle() *ui.Handle { return a.handle }

// Store returns the local element tree. This is primarily for testing.
func (a *App) Store() *inmemoryui.Store { return a.store }

// Engine returns the engine. This is primarily for testing.
func (a *App) Engine() *engine.Engine { return a.engine }
