package evaluator

import "sort"

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Environment is one scope frame. Evaluation is single-threaded, so there is
// no locking.
type Environment struct {
	store map[string]Object
	outer *Environment
}

// Get looks the name up through the outer chain.
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	if !ok && e.outer != nil {
		obj, ok = e.outer.Get(name)
	}
	return obj, ok
}

// Set binds the name in this frame.
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Update rewrites the nearest frame that defines the name.
func (e *Environment) Update(name string, val Object) bool {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return true
	}
	if e.outer != nil {
		return e.outer.Update(name, val)
	}
	return false
}

// Delete removes a binding from this frame only.
func (e *Environment) Delete(name string) bool {
	if _, ok := e.store[name]; !ok {
		return false
	}
	delete(e.store, name)
	return true
}

// Has reports whether this frame (not its outers) binds the name.
func (e *Environment) Has(name string) bool {
	_, ok := e.store[name]
	return ok
}

func (e *Environment) Outer() *Environment {
	return e.outer
}

// Names returns the names bound in this frame, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.store))
	for k := range e.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
