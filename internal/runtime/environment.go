package runtime

import (
	"fmt"
	"sort"
)

// UndefinedVariableError is returned when a name is not bound anywhere in
// the scope chain.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

// Environment is one scope: a set of bindings plus a link to the enclosing
// scope. Following the links always ends at the global scope.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

// NewEnvironment creates a scope nested in enclosing. A nil enclosing
// creates a global scope.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]Value),
	}
}

// Enclosing returns the parent scope, or nil for the global scope.
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define binds name in this scope, replacing any binding it already has
// here and shadowing bindings in enclosing scopes.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get returns the value of the innermost binding of name.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if value, ok := env.values[name]; ok {
			return value, nil
		}
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Assign overwrites the innermost binding of name.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return &UndefinedVariableError{Name: name}
}

// Names returns the names bound directly in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
