package calendar

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownCalendar is returned when a calendar key is not registered.
var ErrUnknownCalendar = errors.New("unknown calendar")

// CycleError indicates that a calendar inherits from itself, directly or
// through its ancestors.
type CycleError struct {
	// Chain lists the calendars from the starting point back to the first
	// repeated one.
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("calendar inheritance cycle detected: %s", strings.Join(e.Chain, " -> "))
}

// Registry holds calendar definitions by key. Registered definitions are
// copied on the way in and never modified afterwards, so one parent can be
// shared by any number of children.
type Registry struct {
	defs  map[string]CalendarDef
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]CalendarDef)}
}

// Register validates def and adds it to the registry. The parent does not
// have to be registered yet; a cycle through calendars that are already
// registered is rejected immediately.
func (r *Registry) Register(def CalendarDef) error {
	if err := def.validate(); err != nil {
		return err
	}
	if _, exists := r.defs[def.Key]; exists {
		return fmt.Errorf("calendar %q is already registered", def.Key)
	}
	if def.InheritFrom == def.Key {
		return &CycleError{Chain: []string{def.Key, def.Key}}
	}

	// Walk up from the parent: reaching def.Key again means a cycle.
	chain := []string{def.Key}
	for parent := def.InheritFrom; parent != ""; {
		chain = append(chain, parent)
		if parent == def.Key {
			return &CycleError{Chain: chain}
		}
		p, ok := r.defs[parent]
		if !ok {
			break
		}
		parent = p.InheritFrom
	}

	r.defs[def.Key] = def.clone()
	r.order = append(r.order, def.Key)
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// package-level calendar tables.
func (r *Registry) MustRegister(defs ...CalendarDef) *Registry {
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Keys returns the registered calendar keys in registration order.
func (r *Registry) Keys() []string {
	return slices.Clone(r.order)
}

// Parent returns the parent key of a calendar.
func (r *Registry) Parent(key string) (string, error) {
	def, ok := r.defs[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCalendar, key)
	}
	return def.InheritFrom, nil
}

// Chain returns the inheritance chain of key, from the root calendar down to
// key itself.
func (r *Registry) Chain(key string) ([]string, error) {
	var upward []string
	seen := make(map[string]bool)

	for current := key; current != ""; {
		if seen[current] {
			return nil, &CycleError{Chain: append(upward, current)}
		}
		seen[current] = true

		def, ok := r.defs[current]
		if !ok {
			if current == key {
				return nil, fmt.Errorf("%w: %q", ErrUnknownCalendar, key)
			}
			return nil, fmt.Errorf("calendar %q inherits from %w: %q", upward[len(upward)-1], ErrUnknownCalendar, current)
		}
		upward = append(upward, current)
		current = def.InheritFrom
	}

	slices.Reverse(upward)
	return upward, nil
}

// Validate checks every registered calendar for missing parents and cycles.
func (r *Registry) Validate() error {
	var errs []error
	for _, key := range r.order {
		if _, err := r.Chain(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// definition returns the registered definition. Callers must not modify it.
func (r *Registry) definition(key string) CalendarDef {
	return r.defs[key]
}
