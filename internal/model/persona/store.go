package persona

// Store exposes persona lookup for the interview handlers.
type Store interface {
	List() []Persona
	Resolve(tag string) Persona
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items    []Persona
	fallback string
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied personas.
// Unknown tags resolve to the "balanced" persona.
func NewMemoryStore(items []Persona) *MemoryStore {
	return &MemoryStore{items: append([]Persona(nil), items...), fallback: "balanced"}
}

// List returns the configured persona list.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// Resolve looks up a persona by tag, falling back to the balanced persona
// when the tag is unknown or empty.
func (s *MemoryStore) Resolve(tag string) Persona {
	for _, item := range s.items {
		if item.Tag == tag {
			return item
		}
	}
	for _, item := range s.items {
		if item.Tag == s.fallback {
			return item
		}
	}
	// Seeded stores always carry the fallback; an empty store yields a zero
	// persona rather than panicking.
	return Persona{}
}
