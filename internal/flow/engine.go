package flow

import (
	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/zclconf/go-cty/cty"
)

// UserArg tells the engine which concrete elements show a variable, so it can
// later push enabled and visible state to them.
type UserArg struct {
	ContainerID elemid.ID
	LabelID     elemid.ID
	WidgetID    elemid.ID
}

// Engine is the part of the processing engine the UI layer talks to.
type Engine interface {
	// SetValue writes a value the user entered. The value is already
	// coerced to the variable's type.
	SetValue(v *Var, val cty.Value) error
	// GetValue reads the current value for display.
	GetValue(v *Var) (cty.Value, error)
	// SetUserArg records the elements bound to v.
	SetUserArg(v *Var, arg UserArg) error
}
