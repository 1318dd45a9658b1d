// internal/elemid/address.go
package elemid

import (
	"fmt"
	"reflect"
	"strings"
)

// String serializes the Address into its canonical path string representation.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var sb strings.Builder
	for i, segment := range a.Path {
		if i > 0 {
			sb.WriteRune('.')
		}
		sb.WriteString(segment.Role)
		if segment.HasIndex() {
			sb.WriteString(fmt.Sprintf("[%d]", segment.Index))
		}
	}

	return sb.String()
}

// Equal checks for deep equality between two Address pointers.
func (a *Address) Equal(other *Address) bool {
	if a == nil || other == nil {
		return a == other
	}
	if len(a.Path) == 0 && len(other.Path) == 0 {
		return true
	}
	return reflect.DeepEqual(a.Path, other.Path)
}

// Child returns a new address one level below a. The receiver is not modified.
func (a *Address) Child(role string, index int) *Address {
	var path []Segment
	if a != nil {
		path = make([]Segment, len(a.Path), len(a.Path)+1)
		copy(path, a.Path)
	}
	return &Address{Path: append(path, Segment{Role: role, Index: index})}
}

// Leaf returns the last segment of the address. ok is false for an empty address.
func (a *Address) Leaf() (Segment, bool) {
	if a == nil || len(a.Path) == 0 {
		return Segment{}, false
	}
	return a.Path[len(a.Path)-1], true
}

// Depth is the number of segments in the address.
func (a *Address) Depth() int {
	if a == nil {
		return 0
	}
	return len(a.Path)
}
