package uitransport

import (
	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/zclconf/go-cty/cty"
)

// Transport creates and updates UI elements.
//
// Implementations assign every element a stable elemid.ID. Calls are made
// from a single goroutine by the builder, but implementations that also
// receive events must be internally synchronized.
type Transport interface {
	// FindRoot locates a top-level container by role.
	FindRoot(role Role) (elemid.ID, error)

	// CreateFromTemplate instantiates tmpl under parent. The template root
	// carries index; pass elemid.NoIndex for none.
	CreateFromTemplate(parent elemid.ID, tmpl Template, index int) error

	// FindElement finds a descendant of parent by role and index.
	FindElement(parent elemid.ID, role Role, index int) (elemid.ID, error)

	// CreateWidget creates a leaf widget as the last child of parent.
	CreateWidget(parent elemid.ID, d WidgetDesc) (elemid.ID, error)

	// CreateListItem appends an option to a list widget.
	CreateListItem(list elemid.ID, label string, appID int) (elemid.ID, error)

	// SendValue displays a value on an element.
	SendValue(id elemid.ID, v cty.Value) error

	SetEnabled(id elemid.ID, enabled bool) error
	SetVisible(id elemid.ID, visible bool) error

	// Empty removes every descendant of id, keeping id itself.
	Empty(id elemid.ID) error
}

// Op is the operation of a UI event.
type Op int

const (
	OpInvalid Op = iota
	OpConnect
	OpDisconnect
	OpValue
	OpEcho
	OpSelect
	OpQuit
)

var opLabels = map[Op]string{
	OpInvalid:    "invalid",
	OpConnect:    "connect",
	OpDisconnect: "disconnect",
	OpValue:      "value",
	OpEcho:       "echo",
	OpSelect:     "select",
	OpQuit:       "quit",
}

func (o Op) String() string {
	if l, ok := opLabels[o]; ok {
		return l
	}
	return "unknown"
}

// Event is one user interaction delivered by a transport.
type Event struct {
	Op        Op
	ID        elemid.ID
	Value     cty.Value
	SessionID string

	// Program is the program label of an OpSelect event.
	Program string
}

// EventSource delivers events one at a time.
type EventSource interface {
	Events() <-chan Event
}
