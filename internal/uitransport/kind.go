package uitransport

import "fmt"

// Kind is the concrete widget kind of a leaf element.
type Kind int

const (
	KindInvalid Kind = iota
	KindLabel
	KindButton
	KindCheck
	KindInt
	KindUInt
	KindFloat
	KindDouble
	KindString
	KindMeter
	KindList
	KindListItem
)

var kindLabels = map[Kind]string{
	KindLabel:    "label",
	KindButton:   "button",
	KindCheck:    "check",
	KindInt:      "int",
	KindUInt:     "uint",
	KindFloat:    "float",
	KindDouble:   "double",
	KindString:   "string",
	KindMeter:    "meter",
	KindList:     "list",
	KindListItem: "item",
}

func (k Kind) String() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsNumeric reports whether the kind is a numeric spinner.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindUInt, KindFloat, KindDouble:
		return true
	}
	return false
}

// WidgetDesc is the declarative description of one leaf widget.
type WidgetDesc struct {
	Kind Kind

	// Title is shown by the widget itself. Empty means untitled.
	Title string

	// Numeric and meter range.
	Min   float64
	Max   float64
	Step  float64
	DecPl int
}
