package registry

import "fmt"

// Component is implemented by values that attach themselves to a
// Registry under a stable, human-readable name.
type Component interface {
	ComponentName() string
}

// Attach registers c using its component name as the alias and returns
// the generated identifier.
func Attach(r *Registry, c Component) (string, error) {
	return r.RegisterAlias(c, c.ComponentName())
}

// MustAttach is like Attach but panics on failure. Intended for
// startup wiring where a name collision is a programming error.
func MustAttach(r *Registry, c Component) string {
	id, err := Attach(r, c)
	if err != nil {
		panic(fmt.Sprintf("registry: attach %s: %v", c.ComponentName(), err))
	}
	return id
}
