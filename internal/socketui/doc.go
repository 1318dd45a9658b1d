// Package socketui is a uitransport.Transport that keeps the element tree in
// an inmemoryui.Store and mirrors every change to a remote renderer over
// socket.io. Events the renderer sends back are queued on the store's event
// channel.
//
// Outgoing events: ui:element, ui:widget, ui:item, ui:value, ui:enable,
// ui:visible, ui:empty. Incoming events: ui:value {id, value}, ui:echo {id},
// ui:select {program}, ui:quit, plus the socket's own connect and disconnect.
package socketui
