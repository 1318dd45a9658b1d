// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package socketui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/flowui/internal/ctxlog"
	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/inmemoryui"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/zclconf/go-cty/cty"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

var incomingEvents = []string{"ui:value", "ui:echo", "ui:select", "ui:quit"}

// Transport mirrors an inmemoryui.Store to a socket.io renderer. Lookups are
// served by the store; every successful change is emitted.
type Transport struct {
	*inmemoryui.Store

	emit   func(event string, payload map[string]any)
	close  func()
	logger *slog.Logger
}

// Dial connects to the renderer and starts delivering its events to the
// store's event channel.
func Dial(ctx context.Context, cfg Config, store *inmemoryui.Store) (*Transport, error) {
	client, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	t := newTransport(store, ctxlog.FromContext(ctx).With("transport", "socketui"),
		func(event string, payload map[string]any) { client.Emit(event, payload) },
	)
	t.close = func() { client.Disconnect() }
	t.listen(client)
	return t, nil
}

func newTransport(store *inmemoryui.Store, logger *slog.Logger, emit func(string, map[string]any)) *Transport {
	return &Transport{Store: store, emit: emit, close: func() {}, logger: logger}
}

func (t *Transport) listen(client *socket.Socket) {
	client.On(types.EventName("connect"), func(...any) {
		t.post(uitransport.Event{Op: uitransport.OpConnect, SessionID: fmt.Sprint(client.Id())})
	})
	client.On(types.EventName("disconnect"), func(...any) {
		t.post(uitransport.Event{Op: uitransport.OpDisconnect})
	})
	for _, name := range incomingEvents {
		client.On(types.EventName(name), func(args ...any) {
			t.receive(name, args...)
		})
	}
}

// receive decodes one incoming event and queues it.
func (t *Transport) receive(name string, args ...any) {
	ev, err := decodeEvent(name, args)
	if err != nil {
		t.logger.Warn("Dropping malformed UI event.", "event", name, "error", err)
		return
	}
	t.post(ev)
}

func (t *Transport) post(ev uitransport.Event) {
	if err := t.Store.Post(ev); err != nil {
		t.logger.Warn("UI event lost.", "error", err)
	}
}

// Close disconnects from the renderer.
func (t *Transport) Close() error {
	t.close()
	return nil
}

// CreateFromTemplate creates the elements locally and emits each of them.
func (t *Transport) CreateFromTemplate(parent elemid.ID, tmpl uitransport.Template, index int) error {
	if err := t.Store.CreateFromTemplate(parent, tmpl, index); err != nil {
		return err
	}
	role, _ := t.Store.TemplateRole(tmpl)
	id, err := t.Store.FindElement(parent, role, index)
	if err != nil {
		return err
	}
	for _, el := range t.Store.Subtree(id) {
		t.emitElement(el)
	}
	return nil
}

func (t *Transport) CreateWidget(parent elemid.ID, d uitransport.WidgetDesc) (elemid.ID, error) {
	id, err := t.Store.CreateWidget(parent, d)
	if err != nil {
		return id, err
	}
	el, _ := t.Store.Element(id)
	t.emitElement(el)
	return id, nil
}

func (t *Transport) CreateListItem(list elemid.ID, label string, appID int) (elemid.ID, error) {
	id, err := t.Store.CreateListItem(list, label, appID)
	if err != nil {
		return id, err
	}
	el, _ := t.Store.Element(id)
	t.emitElement(el)
	return id, nil
}

func (t *Transport) SendValue(id elemid.ID, v cty.Value) error {
	wire, err := toWire(v)
	if err != nil {
		return fmt.Errorf("element %s: %w", id, err)
	}
	if err := t.Store.SendValue(id, v); err != nil {
		return err
	}
	t.emit("ui:value", map[string]any{"id": uint32(id), "value": wire})
	return nil
}

func (t *Transport) SetEnabled(id elemid.ID, enabled bool) error {
	if err := t.Store.SetEnabled(id, enabled); err != nil {
		return err
	}
	t.emit("ui:enable", map[string]any{"id": uint32(id), "enabled": enabled})
	return nil
}

func (t *Transport) SetVisible(id elemid.ID, visible bool) error {
	if err := t.Store.SetVisible(id, visible); err != nil {
		return err
	}
	t.emit("ui:visible", map[string]any{"id": uint32(id), "visible": visible})
	return nil
}

func (t *Transport) Empty(id elemid.ID) error {
	if err := t.Store.Empty(id); err != nil {
		return err
	}
	t.emit("ui:empty", map[string]any{"id": uint32(id)})
	return nil
}

// Replay emits the whole tree again, for a renderer that just connected.
func (t *Transport) Replay() {
	t.emit("ui:empty", map[string]any{"id": uint32(t.Store.Root())})
	for _, el := range t.Store.Subtree(t.Store.Root())[1:] {
		t.emitElement(el)
		if !el.Value.IsNull() {
			if wire, err := toWire(el.Value); err == nil {
				t.emit("ui:value", map[string]any{"id": uint32(el.ID), "value": wire})
			}
		}
		if !el.Enabled {
			t.emit("ui:enable", map[string]any{"id": uint32(el.ID), "enabled": false})
		}
		if !el.Visible {
			t.emit("ui:visible", map[string]any{"id": uint32(el.ID), "visible": false})
		}
	}
}

func (t *Transport) emitElement(el inmemoryui.Element) {
	payload := map[string]any{
		"id":      uint32(el.ID),
		"parent":  uint32(el.Parent),
		"address": el.Address.String(),
		"role":    string(el.Role),
		"index":   el.Index,
	}
	switch {
	case el.Widget == nil:
		if el.Template != "" {
			payload["template"] = string(el.Template)
		}
		t.emit("ui:element", payload)
	case el.Widget.Kind == uitransport.KindListItem:
		payload["label"] = el.Label
		payload["app_id"] = el.AppID
		t.emit("ui:item", payload)
	default:
		payload["kind"] = el.Widget.Kind.String()
		payload["title"] = el.Widget.Title
		if el.Widget.Kind.IsNumeric() || el.Widget.Kind == uitransport.KindMeter {
			payload["min"] = el.Widget.Min
			payload["max"] = el.Widget.Max
			payload["step"] = el.Widget.Step
			payload["dec_pl"] = el.Widget.DecPl
		}
		t.emit("ui:widget", payload)
	}
}
