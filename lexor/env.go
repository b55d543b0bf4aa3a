package lexor

import (
	"fmt"
	"sort"
)

type binding struct {
	typ         DeclaredType
	value       Value
	initialized bool
}

// Env is one scope. A child holds a pointer to its parent for as long as the
// block that created it runs; nothing keeps a child alive after that.
type Env struct {
	parent *Env
	vars   map[string]*binding
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: make(map[string]*binding)}
}

// Declare installs name in this scope. A nil init leaves it uninitialized.
func (e *Env) Declare(name string, typ DeclaredType, init *Value) error {
	if _, exists := e.vars[name]; exists {
		return fmt.Errorf("variable '%s' already declared in this scope", name)
	}
	b := &binding{typ: typ}
	if init != nil {
		coerced, err := checkType(name, typ, *init)
		if err != nil {
			return err
		}
		b.value = coerced
		b.initialized = true
	}
	e.vars[name] = b
	return nil
}

func (e *Env) lookup(name string) *binding {
	for scope := e; scope != nil; scope = scope.parent {
		if b, ok := scope.vars[name]; ok {
			return b
		}
	}
	return nil
}

// Get reads name from the innermost scope that declares it.
func (e *Env) Get(name string) (Value, error) {
	b := e.lookup(name)
	if b == nil {
		return Value{}, &undefinedError{name: name}
	}
	if !b.initialized {
		return Value{}, fmt.Errorf("variable '%s' used before it was given a value", name)
	}
	return b.value, nil
}

// Assign stores value into an existing binding. It never creates one.
func (e *Env) Assign(name string, value Value) (Value, error) {
	b := e.lookup(name)
	if b == nil {
		return Value{}, &undefinedError{name: name}
	}
	coerced, err := checkType(name, b.typ, value)
	if err != nil {
		return Value{}, err
	}
	b.value = coerced
	b.initialized = true
	return coerced, nil
}

// TypeOf reports the declared type of name as seen from this scope.
func (e *Env) TypeOf(name string) (DeclaredType, bool) {
	if b := e.lookup(name); b != nil {
		return b.typ, true
	}
	return "", false
}

// Names lists every name visible from this scope, sorted.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})
	for scope := e; scope != nil; scope = scope.parent {
		for name := range scope.vars {
			seen[name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type undefinedError struct {
	name string
}

func (e *undefinedError) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.name)
}
