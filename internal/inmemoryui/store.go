package inmemoryui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/specialistvlad/flowui/internal/elemid"
	"github.com/specialistvlad/flowui/internal/uitransport"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var (
	// ErrNotFound is returned when an element, role or template does not exist.
	ErrNotFound = errors.New("element not found")
	// ErrQueueFull is returned by Post when the event queue is saturated.
	ErrQueueFull = errors.New("event queue full")
)

const defaultQueueSize = 256

// Element is a snapshot of one element of the tree.
type Element struct {
	ID       elemid.ID
	Parent   elemid.ID
	Address  *elemid.Address
	Role     uitransport.Role
	Index    int
	Template uitransport.Template // set on template roots
	Widget   *uitransport.WidgetDesc
	Label    string // list items
	AppID    int    // list items
	Value    cty.Value
	Enabled  bool
	Visible  bool
	Children []elemid.ID
}

// Store implements uitransport.Transport and uitransport.EventSource using
// maps and a mutex for thread-safe concurrent access.
type Store struct {
	mu        sync.RWMutex
	elems     map[elemid.ID]*Element
	root      elemid.ID
	nextID    elemid.ID
	templates map[uitransport.Template]Node
	events    chan uitransport.Event
}

// Option configures a Store.
type Option func(*Store)

// WithTemplates replaces the default template layouts.
func WithTemplates(t map[uitransport.Template]Node) Option {
	return func(s *Store) { s.templates = t }
}

// WithQueueSize sets the event queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Store) { s.events = make(chan uitransport.Event, n) }
}

// New creates a store holding only the root network list.
func New(opts ...Option) *Store {
	s := &Store{
		elems:     make(map[elemid.ID]*Element),
		templates: DefaultTemplates,
		events:    make(chan uitransport.Event, defaultQueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	root := s.add(elemid.Invalid, &elemid.Address{}, uitransport.RoleRootNetList, elemid.NoIndex)
	root.Address = &elemid.Address{} // descendants are addressed relative to the root
	s.root = root.ID
	return s
}

// add must be called with the write lock held (or before the store is shared).
func (s *Store) add(parent elemid.ID, parentAddr *elemid.Address, role uitransport.Role, index int) *Element {
	s.nextID++
	el := &Element{
		ID:      s.nextID,
		Parent:  parent,
		Address: parentAddr.Child(string(role), index),
		Role:    role,
		Index:   index,
		Value:   cty.NilVal,
		Enabled: true,
		Visible: true,
	}
	s.elems[el.ID] = el
	if p, ok := s.elems[parent]; ok {
		p.Children = append(p.Children, el.ID)
	}
	return el
}

func (s *Store) get(id elemid.ID) (*Element, error) {
	el, ok := s.elems[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", ErrNotFound, id)
	}
	return el, nil
}

// Root returns the root network list.
func (s *Store) Root() elemid.ID { return s.root }

// FindRoot locates a top-level container by role.
func (s *Store) FindRoot(role uitransport.Role) (elemid.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.elems[s.root].Role == role {
		return s.root, nil
	}
	if id, ok := s.find(s.root, role, elemid.NoIndex); ok {
		return id, nil
	}
	return elemid.Invalid, fmt.Errorf("%w: root '%s'", ErrNotFound, role)
}

// CreateFromTemplate instantiates a template under parent.
func (s *Store) CreateFromTemplate(parent elemid.ID, tmpl uitransport.Template, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(parent)
	if err != nil {
		return err
	}
	node, ok := s.templates[tmpl]
	if !ok {
		return fmt.Errorf("%w: template '%s'", ErrNotFound, tmpl)
	}
	for _, cid := range p.Children {
		c := s.elems[cid]
		if c.Role == node.Role && c.Index == index {
			return fmt.Errorf("element '%s' already exists under %s", c.Address, parent)
		}
	}

	el := s.addNode(p, node, index)
	el.Template = tmpl
	return nil
}

func (s *Store) addNode(parent *Element, n Node, index int) *Element {
	el := s.add(parent.ID, parent.Address, n.Role, index)
	for _, c := range n.Children {
		s.addNode(el, c, elemid.NoIndex)
	}
	return el
}

// FindElement searches the descendants of parent breadth first.
func (s *Store) FindElement(parent elemid.ID, role uitransport.Role, index int) (elemid.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.get(parent); err != nil {
		return elemid.Invalid, err
	}
	if id, ok := s.find(parent, role, index); ok {
		return id, nil
	}
	return elemid.Invalid, fmt.Errorf("%w: '%s' index %d under %s", ErrNotFound, role, index, parent)
}

func (s *Store) find(parent elemid.ID, role uitransport.Role, index int) (elemid.ID, bool) {
	queue := append([]elemid.ID(nil), s.elems[parent].Children...)
	for len(queue) > 0 {
		el := s.elems[queue[0]]
		queue = queue[1:]
		if el.Role == role && el.Index == index {
			return el.ID, true
		}
		queue = append(queue, el.Children...)
	}
	return elemid.Invalid, false
}

// CreateWidget appends a leaf widget to parent.
func (s *Store) CreateWidget(parent elemid.ID, d uitransport.WidgetDesc) (elemid.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.get(parent)
	if err != nil {
		return elemid.Invalid, err
	}
	if d.Kind == uitransport.KindInvalid || d.Kind == uitransport.KindListItem {
		return elemid.Invalid, fmt.Errorf("cannot create widget of kind '%s'", d.Kind)
	}
	el := s.add(p.ID, p.Address, uitransport.Role(d.Kind.String()), len(p.Children))
	desc := d
	el.Widget = &desc
	return el.ID, nil
}

// CreateListItem appends an option to a list widget.
func (s *Store) CreateListItem(list elemid.ID, label string, appID int) (elemid.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.get(list)
	if err != nil {
		return elemid.Invalid, err
	}
	if l.Widget == nil || l.Widget.Kind != uitransport.KindList {
		return elemid.Invalid, fmt.Errorf("element %s is not a list", list)
	}
	el := s.add(l.ID, l.Address, uitransport.Role(uitransport.KindListItem.String()), len(l.Children))
	el.Widget = &uitransport.WidgetDesc{Kind: uitransport.KindListItem, Title: label}
	el.Label = label
	el.AppID = appID
	return el.ID, nil
}

// SendValue stores the displayed value of an element.
func (s *Store) SendValue(id elemid.ID, v cty.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.get(id)
	if err != nil {
		return err
	}
	el.Value = v
	return nil
}

func (s *Store) SetEnabled(id elemid.ID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.get(id)
	if err != nil {
		return err
	}
	el.Enabled = enabled
	return nil
}

func (s *Store) SetVisible(id elemid.ID, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.get(id)
	if err != nil {
		return err
	}
	el.Visible = visible
	return nil
}

// Empty removes every descendant of id.
func (s *Store) Empty(id elemid.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, err := s.get(id)
	if err != nil {
		return err
	}
	for _, cid := range el.Children {
		s.remove(cid)
	}
	el.Children = nil
	return nil
}

func (s *Store) remove(id elemid.ID) {
	for _, cid := range s.elems[id].Children {
		s.remove(cid)
	}
	delete(s.elems, id)
}

// Element returns a snapshot of one element.
func (s *Store) Element(id elemid.ID) (Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.elems[id]
	if !ok {
		return Element{}, false
	}
	cp := *el
	cp.Children = append([]elemid.ID(nil), el.Children...)
	return cp, true
}

// Subtree returns id and all its descendants in pre-order.
func (s *Store) Subtree(id elemid.ID) []Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Element
	var walk func(elemid.ID)
	walk = func(id elemid.ID) {
		el, ok := s.elems[id]
		if !ok {
			return
		}
		cp := *el
		cp.Children = append([]elemid.ID(nil), el.Children...)
		out = append(out, cp)
		for _, c := range el.Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// TemplateRole returns the role of a template's root element.
func (s *Store) TemplateRole(tmpl uitransport.Template) (uitransport.Role, bool) {
	n, ok := s.templates[tmpl]
	return n.Role, ok
}

// Len returns the number of elements, root included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.elems)
}

// Events implements uitransport.EventSource.
func (s *Store) Events() <-chan uitransport.Event { return s.events }

// Post queues an event without blocking.
func (s *Store) Post(ev uitransport.Event) error {
	select {
	case s.events <- ev:
		return nil
	default:
		return fmt.Errorf("%w: dropping %s event", ErrQueueFull, ev.Op)
	}
}

// Dump writes the element tree as indented text.
func (s *Store) Dump(w io.Writer) error {
	return s.DumpFrom(w, s.root)
}

// DumpFrom writes the subtree rooted at id, indented relative to id.
func (s *Store) DumpFrom(w io.Writer, id elemid.ID) error {
	els := s.Subtree(id)
	if len(els) == 0 {
		return fmt.Errorf("%w: element %s", ErrNotFound, id)
	}
	base := els[0].Address.Depth()
	for _, el := range els {
		if _, err := fmt.Fprintln(w, strings.Repeat("  ", el.Address.Depth()-base)+describe(el)); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the element at addr. Addresses are relative to the root.
func (s *Store) Resolve(addr *elemid.Address) (elemid.ID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id := s.root
	for _, seg := range addr.Path {
		parent, ok := s.elems[id]
		if !ok {
			return elemid.Invalid, false
		}
		found := false
		for _, c := range parent.Children {
			el := s.elems[c]
			if string(el.Role) == seg.Role && el.Index == seg.Index {
				id, found = c, true
				break
			}
		}
		if !found {
			return elemid.Invalid, false
		}
	}
	return id, true
}

func describe(el Element) string {
	var b strings.Builder
	b.WriteString(string(el.Role))
	if el.Index != elemid.NoIndex {
		fmt.Fprintf(&b, "[%d]", el.Index)
	}
	if el.Widget != nil && el.Widget.Title != "" {
		fmt.Fprintf(&b, " %q", el.Widget.Title)
	}
	if el.Widget != nil && (el.Widget.Kind.IsNumeric() || el.Widget.Kind == uitransport.KindMeter) {
		fmt.Fprintf(&b, " [%g..%g/%g]", el.Widget.Min, el.Widget.Max, el.Widget.Step)
	}
	if !el.Value.IsNull() && el.Value.IsWhollyKnown() {
		if js, err := ctyjson.Marshal(el.Value, el.Value.Type()); err == nil {
			b.WriteString(" = ")
			b.Write(js)
		}
	}
	if !el.Enabled {
		b.WriteString(" (disabled)")
	}
	if !el.Visible {
		b.WriteString(" (hidden)")
	}
	return b.String()
}
