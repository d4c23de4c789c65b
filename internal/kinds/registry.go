package kinds

import (
	"errors"
	"fmt"

	"flowdeck/internal/nav"
)

// ErrOperationNotFound marks a resolve call for an operation the kind does
// not declare. This is a programming-error class, never user input.
var ErrOperationNotFound = errors.New("operation not registered for kind")

// Registry is the immutable KindSpec lookup table. Built once at startup;
// read-only afterwards, so it is shared without locking.
type Registry struct {
	specs map[nav.Kind]Spec
	order []nav.Kind
}

// NewRegistry validates and indexes the given specs. Any invalid or
// duplicate spec aborts startup with an error; there is no partial
// registration.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[nav.Kind]Spec, len(specs))}
	for _, s := range specs {
		if err := validateSpec(s); err != nil {
			return nil, fmt.Errorf("register kind %q: %w", s.Kind, err)
		}
		if _, dup := r.specs[s.Kind]; dup {
			return nil, fmt.Errorf("register kind %q: duplicate registration", s.Kind)
		}
		r.specs[s.Kind] = s
		r.order = append(r.order, s.Kind)
	}
	if len(r.order) == 0 {
		return nil, errors.New("no kinds registered")
	}
	return r, nil
}

func validateSpec(s Spec) error {
	if s.Kind == "" {
		return errors.New("empty kind")
	}
	if s.Label == "" {
		return errors.New("empty label")
	}
	if s.Collection == nil && s.Detail == nil {
		return errors.New("spec declares neither a collection nor a detail view")
	}
	if s.Collection != nil {
		if len(s.Collection.Columns) == 0 {
			return errors.New("collection without columns")
		}
		if s.Collection.Rows == nil {
			return errors.New("collection without a row adapter")
		}
		if s.Collection.Loading == nil {
			return errors.New("collection without a loading predicate")
		}
	}
	seenID := make(map[OpID]bool, len(s.Operations))
	seenKey := make(map[rune]bool, len(s.Operations))
	for _, op := range s.Operations {
		if op.ID == "" {
			return errors.New("operation with empty id")
		}
		if op.Label == "" {
			return fmt.Errorf("operation %q without label", op.ID)
		}
		if op.Effects == nil {
			return fmt.Errorf("operation %q without an effects resolver", op.ID)
		}
		if seenID[op.ID] {
			return fmt.Errorf("duplicate operation id %q", op.ID)
		}
		seenID[op.ID] = true
		if op.Key != 0 {
			if seenKey[op.Key] {
				return fmt.Errorf("duplicate operation key %q", string(op.Key))
			}
			seenKey[op.Key] = true
		}
	}
	return nil
}

func (r *Registry) Get(k nav.Kind) (Spec, bool) {
	s, ok := r.specs[k]
	return s, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []nav.Kind {
	out := make([]nav.Kind, len(r.order))
	copy(out, r.order)
	return out
}

// Labeler adapts the registry for breadcrumb labeling.
func (r *Registry) Labeler() nav.Labeler {
	return func(k nav.Kind) (string, bool) {
		s, ok := r.specs[k]
		if !ok {
			return string(k), false
		}
		return s.Label, s.Collection != nil
	}
}

// OperationsFor returns the kind's operations applicable to the target, in
// declaration order.
func (r *Registry) OperationsFor(k nav.Kind, v View, t Target) []OperationSpec {
	s, ok := r.specs[k]
	if !ok {
		return nil
	}
	var out []OperationSpec
	for _, op := range s.Operations {
		if op.Applicable == nil || op.Applicable(v, t) {
			out = append(out, op)
		}
	}
	return out
}

func (r *Registry) Operation(k nav.Kind, id OpID) (OperationSpec, bool) {
	s, ok := r.specs[k]
	if !ok {
		return OperationSpec{}, false
	}
	// Operation lists are tiny and fixed; a scan beats an index.
	for _, op := range s.Operations {
		if op.ID == id {
			return op, true
		}
	}
	return OperationSpec{}, false
}

// OperationByKey resolves a context-scoped operation keybinding.
func (r *Registry) OperationByKey(k nav.Kind, key rune) (OperationSpec, bool) {
	s, ok := r.specs[k]
	if !ok || key == 0 {
		return OperationSpec{}, false
	}
	for _, op := range s.Operations {
		if op.Key == key {
			return op, true
		}
	}
	return OperationSpec{}, false
}

// ResolveEffects turns an operation invocation into its concrete effects.
func (r *Registry) ResolveEffects(k nav.Kind, id OpID, ns string, t Target, v View) ([]Effect, error) {
	op, ok := r.Operation(k, id)
	if !ok {
		return nil, fmt.Errorf("resolve %s/%s: %w", k, id, ErrOperationNotFound)
	}
	return op.Effects(ns, t, v), nil
}

// BuiltinSpecs is the closed set of kinds this build knows.
func BuiltinSpecs() []Spec {
	return []Spec{WorkflowSpec(), ScheduleSpec(), ActivitySpec()}
}
