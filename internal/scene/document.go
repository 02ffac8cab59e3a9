package scene

import (
	"fmt"

	"github.com/trickstertwo/xintersect"
)

// ViewportName is the name of the implicit root element.
const ViewportName = "viewport"

// Document owns a scenario's elements and serves as the observers' Document.
type Document struct {
	name     string
	viewport *Element
	elements map[string]*Element
}

var _ xintersect.Document = (*Document)(nil)

// NewDocument creates the elements of s.
func NewDocument(s *Scenario) *Document {
	d := &Document{
		name:     s.Document,
		viewport: NewElement(ViewportName, s.Viewport),
		elements: make(map[string]*Element, len(s.Elements)+1),
	}
	d.elements[ViewportName] = d.viewport
	for _, e := range s.Elements {
		d.elements[e.Name] = NewElement(e.Name, e.Rect)
	}
	return d
}

func (d *Document) Name() string { return d.name }

func (d *Document) DefaultRootElement() xintersect.Element { return d.viewport }

// Element returns the named element or nil.
func (d *Document) Element(name string) *Element { return d.elements[name] }

// Apply performs a tick's moves, unobserves and disposals. observers maps the
// scenario's observer names.
func (d *Document) Apply(t Tick, observers map[string]*xintersect.Observer) error {
	for name, r := range t.Moves {
		el := d.Element(name)
		if el == nil {
			return fmt.Errorf("scene: unknown element %q", name)
		}
		el.SetBounds(r)
	}
	for _, p := range t.Unobserve {
		o, ok := observers[p.Observer]
		if !ok {
			return fmt.Errorf("scene: unknown observer %q", p.Observer)
		}
		el := d.Element(p.Target)
		if el == nil {
			return fmt.Errorf("scene: unknown element %q", p.Target)
		}
		o.Unobserve(el)
	}
	for _, name := range t.Dispose {
		el := d.Element(name)
		if el == nil {
			return fmt.Errorf("scene: unknown element %q", name)
		}
		el.Dispose()
		delete(d.elements, name)
	}
	return nil
}
