package engine

import "fmt"

// Registry is the immutable Card Definition Registry (§4.1). It is populated
// once via LoadDefinitions and never mutated again; every other component
// only reads from it.
type Registry struct {
	byID map[string]*CardDefinition
	log  func(format string, args ...any)
}

// NewRegistry creates an empty registry. warn, if non-nil, receives duplicate
// and malformed-definition diagnostics; pass nil to discard them.
func NewRegistry(warn func(format string, args ...any)) *Registry {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return &Registry{byID: map[string]*CardDefinition{}, log: warn}
}

// LoadDefinitions populates the registry from a batch of definitions. Per
// §4.1 the reference policy for a duplicate identifier is last-wins with a
// warning; malformed definitions (§7 CardDefinitionIssue) are marked inert
// rather than rejecting the whole load.
func (r *Registry) LoadDefinitions(defs []*CardDefinition) {
	for _, def := range defs {
		if err := validateDefinition(def); err != nil {
			r.log("card definition issue for %q: %v (marked inert)", def.ID, err)
			def.Effects = nil
		}
		for _, eff := range def.Effects {
			eff.CardID = def.ID
		}
		if _, exists := r.byID[def.ID]; exists {
			r.log("duplicate card definition id %q: keeping last-loaded definition", def.ID)
		}
		r.byID[def.ID] = def
	}
}

// Lookup returns the definition for id, or (nil, false) if not registered.
func (r *Registry) Lookup(id string) (*CardDefinition, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// MustLookup returns the definition for id and panics if absent — for use
// building fixed decklists at startup, never at runtime against player input.
func (r *Registry) MustLookup(id string) *CardDefinition {
	d, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("card not found in registry: %q", id))
	}
	return d
}

// All returns every registered definition. Order is unspecified.
func (r *Registry) All() []*CardDefinition {
	out := make([]*CardDefinition, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	return out
}

// validateDefinition performs the load-time checks from §7 CardDefinitionIssue:
// unknown action kinds or dangling child references.
func validateDefinition(def *CardDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("missing id")
	}
	if def.Name == "" {
		return fmt.Errorf("missing name")
	}
	for _, eff := range def.Effects {
		for _, a := range eff.Actions {
			if err := validateAction(a); err != nil {
				return fmt.Errorf("effect %q: %w", eff.ID, err)
			}
		}
	}
	return nil
}

func validateAction(a *Action) error {
	if _, ok := actionKindNames[a.Kind]; !ok {
		return fmt.Errorf("unknown action kind %d", a.Kind)
	}
	for _, child := range a.Children {
		if err := validateAction(child); err != nil {
			return err
		}
	}
	return nil
}
