package ui

import (
	"errors"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/uitransport"
)

var errInjected = errors.New("injected transport failure")

// failingTransport fails widget or item creation after a number of
// successful calls. A negative limit never fails.
type failingTransport struct {
	uitransport.Transport
	failWidgetsAfter int
	failItemsAfter   int
	failEmpty        bool
	widgets, items   int
}

func (f *failingTransport) CreateWidget(parent elemid.ID, d uitransport.WidgetDesc) (elemid.ID, error) {
	if f.failWidgetsAfter >= 0 && f.widgets >= f.failWidgetsAfter {
		return elemid.Invalid, errInjected
	}
	f.widgets++
	return f.Transport.CreateWidget(parent, d)
}

func (f *failingTransport) CreateListItem(list elemid.ID, label string, appID int) (elemid.ID, error) {
	if f.failItemsAfter >= 0 && f.items >= f.failItemsAfter {
		return elemid.Invalid, errInjected
	}
	f.items++
	return f.Transport.CreateListItem(list, label, appID)
}

func (f *failingTransport) Empty(id elemid.ID) error {
	if f.failEmpty {
		return errInjected
	}
	return f.Transport.Empty(id)
}
