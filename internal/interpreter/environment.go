package interpreter

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/sdecook/glox/internal/token"
)

// Environment is one frame of the scope chain: a mutable name→value map plus
// an optional parent link. The global frame has a nil parent.
type Environment struct {
	parent *Environment
	values map[string]any
}

// NewEnvironment returns a frame that is a child of parent. parent may be
// nil, in which case the new frame is the global frame.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{parent: parent, values: make(map[string]any)}
}

// Define binds name to value in this frame unconditionally, permitting
// redefinition. The resolver is responsible for rejecting redefinition where
// the language forbids it; the environment itself never does.
func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Get reads name from this frame, or its nearest ancestor that binds it.
func (e *Environment) Get(name token.Token) (any, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// Assign sets name in the nearest frame (this one or an ancestor) that
// already binds it.
func (e *Environment) Assign(name token.Token, value any) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// ancestor walks exactly distance parent links. The resolver guarantees this
// never walks past the chain.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name directly from the frame distance hops up the chain.
func (e *Environment) GetAt(distance int, name string) any {
	return e.ancestor(distance).values[name]
}

// AssignAt writes name directly into the frame distance hops up the chain.
func (e *Environment) AssignAt(distance int, name token.Token, value any) {
	e.ancestor(distance).values[name.Lexeme] = value
}

// Names returns the names bound directly in this frame (not its ancestors),
// sorted for stable REPL introspection output.
func (e *Environment) Names() []string {
	names := maps.Keys(e.values)
	slices.Sort(names)
	return names
}
