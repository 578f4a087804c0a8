package attribute

import (
	"fmt"
	"strings"
)

// Attribute is a named value carried by a capability.
type Attribute struct {
	Name      string
	Value     Value
	Mandatory bool
}

// Optional returns a non-mandatory attribute.
func Optional(name string, value Value) Attribute {
	return Attribute{Name: name, Value: value}
}

// Mandatory returns an attribute that requirements must reference explicitly.
func Mandatory(name string, value Value) Attribute {
	return Attribute{Name: name, Value: value, Mandatory: true}
}

// Record is anything attribute values can be looked up on by name.
type Record interface {
	Lookup(name string) (Value, bool)
}

// Map is an ad-hoc Record, useful for evaluating filters against properties
// that are not registered capabilities.
type Map map[string]Value

// Lookup implements Record.
func (m Map) Lookup(name string) (Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Capability is an identity-bearing set of attributes.
//
// A Capability is immutable after construction; indexes rely on that and
// never copy it.
type Capability struct {
	namespace string
	attrs     []Attribute
	byName    map[string]int
	mandatory []string
}

// New creates a capability in namespace with the given ordered attributes.
func New(namespace string, attrs ...Attribute) (*Capability, error) {
	c := &Capability{
		namespace: namespace,
		attrs:     make([]Attribute, len(attrs)),
		byName:    make(map[string]int, len(attrs)),
	}
	for i, a := range attrs {
		if a.Name == "" {
			return nil, fmt.Errorf("attribute #%d: %w", i, ErrEmptyName)
		}
		if !a.Value.IsValid() {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, ErrInvalidValue)
		}
		if _, dup := c.byName[a.Name]; dup {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, ErrDuplicateAttribute)
		}
		c.attrs[i] = a
		c.byName[a.Name] = i
		if a.Mandatory {
			c.mandatory = append(c.mandatory, a.Name)
		}
	}
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(namespace string, attrs ...Attribute) *Capability {
	c, err := New(namespace, attrs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Namespace returns the capability namespace.
func (c *Capability) Namespace() string { return c.namespace }

// Len returns the number of attributes.
func (c *Capability) Len() int { return len(c.attrs) }

// Attributes returns the attributes in declaration order.
// The returned slice must not be modified.
func (c *Capability) Attributes() []Attribute { return c.attrs }

// Attribute returns the named attribute.
func (c *Capability) Attribute(name string) (Attribute, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return c.attrs[i], true
}

// Lookup implements Record.
func (c *Capability) Lookup(name string) (Value, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Value{}, false
	}
	return c.attrs[i].Value, true
}

// MandatoryNames returns the names of all mandatory attributes.
func (c *Capability) MandatoryNames() []string { return c.mandatory }

// String renders the capability for logs, e.g. `osgi.native; os=linux; vendor:=acme`.
// Mandatory attributes are marked with ":=".
func (c *Capability) String() string {
	var sb strings.Builder
	sb.WriteString(c.namespace)
	for _, a := range c.attrs {
		sb.WriteString("; ")
		sb.WriteString(a.Name)
		if a.Mandatory {
			sb.WriteString(":=")
		} else {
			sb.WriteByte('=')
		}
		sb.WriteString(a.Value.String())
	}
	return sb.String()
}
