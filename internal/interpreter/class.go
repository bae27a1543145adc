package interpreter

import (
	"fmt"

	"github.com/sdecook/glox/internal/token"
)

// Class is a runtime class value: a name, an optional superclass, and a
// mapping from method name to unbound function value.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks up name on this class, falling back to the superclass
// chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of this class's init method, or 0 if it has none.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance, running init (if any) bound to it.
func (c *Class) Call(interp *Interpreter, args []any) (any, error) {
	instance := &Instance{class: c, fields: make(map[string]any)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string { return c.Name }

// Instance is a runtime object: a reference to its class plus a mutable
// field map.
type Instance struct {
	class  *Class
	fields map[string]any
}

// Get returns a field if one is set, else a method bound to this instance.
func (i *Instance) Get(name token.Token) (any, error) {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method, ok := i.class.FindMethod(name.Lexeme); ok {
		return method.Bind(i), nil
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined property '%s'.", name.Lexeme)}
}

// Set unconditionally assigns to the field map.
func (i *Instance) Set(name token.Token, value any) {
	i.fields[name.Lexeme] = value
}

func (i *Instance) String() string { return i.class.Name + " instance" }
