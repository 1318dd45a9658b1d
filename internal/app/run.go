package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/program"
	"github.com/specialistvlad/flowui/internal/socketui"
	"github.com/specialistvlad/flowui/internal/uitransport"
)

// replayer is implemented by transports that can resend the whole tree to a
// renderer that (re)connected.
type replayer interface {
	Replay()
}

// Run builds the selected program, synthesizes its UI and serves UI events
// until the context is cancelled or the renderer asks to quit.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting application run.", "program", a.label)

	if a.config.UIURL != "" {
		tr, err := socketui.Dial(ctx, socketui.Config{
			URL:                a.config.UIURL,
			Namespace:          a.config.UINamespace,
			InsecureSkipVerify: a.config.InsecureSkipVerify,
		}, a.store)
		if err != nil {
			return fmt.Errorf("failed to connect to UI renderer: %w", err)
		}
		defer tr.Close()
		a.setTransport(tr)
	}

	if err := a.LoadProgram(ctx, a.label); err != nil {
		return err
	}
	defer func() {
		if err := a.handle.Destroy(ctx); err != nil {
			logger.Warn("UI teardown failed.", "error", err)
		}
		a.uiActive.Store(a.handle.Valid())
	}()

	if a.config.Dump {
		return a.store.Dump(a.outW)
	}

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		defer a.closeHealthCheckServer()
	}

	var reload <-chan struct{}
	if a.config.Watch {
		w, err := newWatcher(ctx, a.programs.Files())
		if err != nil {
			return fmt.Errorf("failed to watch program files: %w", err)
		}
		defer w.Close()
		reload = w.Changes()
	}

	return a.loop(ctx, reload)
}

func (a *App) loop(ctx context.Context, reload <-chan struct{}) error {
	logger := ctxlog.FromContext(ctx)
	events := a.store.Events()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down.", "reason", ctx.Err())
			return nil
		case <-reload:
			if err := a.reload(ctx); err != nil {
				logger.Error("Reload failed, keeping the current program.", "error", err)
			}
		case ev := <-events:
			quit, err := a.dispatch(ctx, ev)
			if err != nil {
				logger.Warn("UI event failed.", "op", ev.Op, "id", ev.ID, "error", err)
			}
			if quit {
				logger.Info("Quit requested by the UI.")
				return nil
			}
		}
	}
}

// dispatch handles a single UI event.
func (a *App) dispatch(ctx context.Context, ev uitransport.Event) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	switch ev.Op {
	case uitransport.OpConnect:
		logger.Info("UI renderer connected.", "session", ev.SessionID)
		if r, ok := a.transport.(replayer); ok {
			r.Replay()
		}
	case uitransport.OpDisconnect:
		logger.Info("UI renderer disconnected.")
	case uitransport.OpValue:
		return false, a.handle.OnValue(ctx, ev.ID, ev.Value)
	case uitransport.OpEcho:
		return false, a.handle.OnEcho(ctx, ev.ID)
	case uitransport.OpSelect:
		return false, a.LoadProgram(ctx, ev.Program)
	case uitransport.OpQuit:
		return true, nil
	default:
		return false, fmt.Errorf("unsupported UI event %s", ev.Op)
	}
	return false, nil
}

// reload re-reads the program files and rebuilds the current program. The
// old set stays active when the files no longer load.
func (a *App) reload(ctx context.Context) error {
	set, err := program.Load(ctx, a.config.ProgramPath)
	if err != nil {
		return err
	}
	old := a.programs
	a.programs = set
	if err := a.LoadProgram(ctx, a.label); err != nil {
		a.programs = old
		if errors.Is(err, program.ErrUnknownProgram) {
			return fmt.Errorf("program '%s' was removed: %w", a.label, err)
		}
		return err
	}
	return nil
}
