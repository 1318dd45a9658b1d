package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/elemid"
)

func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	if !app.uiActive.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "NO UI")
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// treeHandler writes the current element tree as text. The optional "at"
// query parameter is an element address, e.g. netPanel[0].procList, and
// limits the output to that subtree.
func (app *App) treeHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Tree endpoint hit.", "remote_addr", r.RemoteAddr)

	id := app.store.Root()
	if at := r.URL.Query().Get("at"); at != "" {
		addr, err := elemid.Parse(at)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var ok bool
		if id, ok = app.store.Resolve(addr); !ok {
			http.Error(w, fmt.Sprintf("no element at %s", addr), http.StatusNotFound)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := app.store.DumpFrom(w, id); err != nil {
		logger.Warn("Tree dump failed.", "error", err)
	}
}

func (app *App) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", app.healthHandler)
	mux.HandleFunc("/tree", app.treeHandler)
	return mux
}

// healthCheckServer starts the health check HTTP server in the background.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Health check server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	if app.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(app.ctx, 5*time.Second)
	defer cancel()

	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Health check server shut down gracefully.")
	return nil
}
