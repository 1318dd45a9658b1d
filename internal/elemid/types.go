// internal/elemid/types.go
package elemid

import "strconv"

// ID is the stable identifier a transport assigns to an element.
type ID uint32

// Invalid is the zero ID. No element is ever assigned it.
const Invalid ID = 0

// NoIndex marks a segment that is addressed by role alone.
const NoIndex = -1

// IsValid reports whether the ID refers to an element.
func (id ID) IsValid() bool {
	return id != Invalid
}

func (id ID) String() string {
	if id == Invalid {
		return "invalid"
	}
	return strconv.FormatUint(uint64(id), 10)
}

// Segment represents a single component of an address path, e.g., `procPanel[2]`.
type Segment struct {
	Role  string
	Index int // NoIndex indicates no index is present.
}

// NewSegment creates a new path segment without an index.
func NewSegment(role string) Segment {
	return Segment{Role: role, Index: NoIndex}
}

// NewSegmentWithIndex creates a new path segment that includes an index.
func NewSegmentWithIndex(role string, index int) Segment {
	return Segment{Role: role, Index: index}
}

// HasIndex returns true if the path segment has an explicit index.
func (s Segment) HasIndex() bool {
	return s.Index != NoIndex
}

// Matches reports whether the segment has the given role and index.
func (s Segment) Matches(role string, index int) bool {
	return s.Role == role && s.Index == index
}

// Address is the structured representation of an element's position in the tree.
type Address struct {
	Path []Segment
}
