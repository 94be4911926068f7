package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
)

// Factory builds the step table for a fresh workflow instance. A package
// that defines a workflow registers one factory per class name, typically
// from its init() function — the compiled-in stand-in for the source
// language's dynamic "load this class from that file" (Design Note §9).
type Factory func() map[string]engine.StepFunc

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// Register adds factory to the package-level factory table under class.
// It panics if class is empty or already registered — both are
// construction-time programmer errors caught at startup, mirroring the
// teacher's workflow.Register panicking on a missing or duplicate name.
func Register(class string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if class == "" {
		panic("registry: Register called with empty class name")
	}
	if factory == nil {
		panic("registry: Register called with nil factory")
	}
	if _, exists := factories[class]; exists {
		panic(fmt.Sprintf("registry: class %q is already registered", class))
	}
	factories[class] = factory
}

// lookupFactory returns the factory registered under class.
func lookupFactory(class string) (Factory, bool) {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	f, ok := factories[class]
	return f, ok
}

// RegisteredClasses returns the names of all compiled-in factories, sorted
// alphabetically. Used by `wfm workflows init` to prompt for a known class.
func RegisteredClasses() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
